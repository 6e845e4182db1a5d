package prompt

import (
	"context"
	"strings"
)

// CharacterPrompter asks the player to choose a character. The UI layer
// supplies the implementation; an empty answer means the player gave none.
type CharacterPrompter interface {
	PromptCharacter(ctx context.Context) (string, error)
}

// Static answers every prompt with a fixed value
type Static string

// PromptCharacter returns the fixed value
func (s Static) PromptCharacter(context.Context) (string, error) {
	return strings.TrimSpace(string(s)), nil
}

// Func adapts a function to CharacterPrompter
type Func func(ctx context.Context) (string, error)

// PromptCharacter calls f
func (f Func) PromptCharacter(ctx context.Context) (string, error) {
	return f(ctx)
}
