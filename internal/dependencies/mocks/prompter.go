package mocks

import (
	"context"

	"github.com/mcoot/chirpygame/internal/dependencies/prompt"
)

// MockPrompter is a mock implementation of CharacterPrompter for testing
type MockPrompter struct {
	// Answers is a queue of results to return from PromptCharacter
	Answers []string
	index   int

	// Err is returned instead of an answer when set
	Err error

	// Calls counts how many times the prompt was shown
	Calls int
}

// Ensure MockPrompter implements CharacterPrompter
var _ prompt.CharacterPrompter = (*MockPrompter)(nil)

// NewMockPrompter creates a MockPrompter that answers with the given values in order
func NewMockPrompter(answers ...string) *MockPrompter {
	return &MockPrompter{Answers: answers}
}

// PromptCharacter returns the next queued answer, or empty string if none remaining
func (p *MockPrompter) PromptCharacter(ctx context.Context) (string, error) {
	p.Calls++
	if p.Err != nil {
		return "", p.Err
	}
	if p.index >= len(p.Answers) {
		return "", nil
	}
	answer := p.Answers[p.index]
	p.index++
	return answer, nil
}
