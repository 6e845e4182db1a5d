package savefile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mcoot/chirpygame/internal/dependencies/prompt"
	"github.com/mcoot/chirpygame/internal/model"
	"github.com/mcoot/chirpygame/internal/services/auth"
)

const (
	gameDataFilename = "ChirpyGamesData.txt"
	gameDataContent  = "Chirpy Games: Fall of the Firewall\nGame data for non-GitHub players."
)

// modeKeys are kept from the current account when merging an import, since
// an account's mode is fixed at creation
var modeKeys = []string{"isGithub", "isTest"}

// File is a downloadable payload
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service moves account state in and out of files
type Service struct {
	accounts *auth.Controller
	logger   *slog.Logger
}

// NewService creates a new save file Service
func NewService(accounts *auth.Controller, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		logger:   logger,
	}
}

// Export serializes the active account as a save file
func (s *Service) Export(ctx context.Context) (File, error) {
	acc, err := s.accounts.Active(ctx)
	if err != nil {
		return File{}, err
	}
	data, err := model.EncodeAccountIndent(acc)
	if err != nil {
		return File{}, err
	}
	return File{
		Filename:    acc.Username + "_save.json",
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// Load replaces the whole session with the account in a save file.
// Nothing changes if the file cannot be parsed.
func (s *Service) Load(ctx context.Context, data []byte, prompter prompt.CharacterPrompter) (auth.State, error) {
	acc, err := model.DecodeAccount(data)
	if err != nil {
		return s.accounts.Snapshot(), err
	}

	st, err := s.accounts.Adopt(ctx, acc, prompter)
	if err != nil {
		return st, err
	}

	s.logger.Info("save file loaded",
		slog.String("username", acc.Username),
		slog.String("mode", string(acc.Mode)),
	)
	return st, nil
}

// Import merges the top-level fields of a transfer file into the active
// account. Imported values win on collision, except for the mode flags and,
// on GitHub accounts, the username, which only the registry can assign.
func (s *Service) Import(ctx context.Context, data []byte) (*model.Account, error) {
	var imported map[string]json.RawMessage
	if err := json.Unmarshal(data, &imported); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidFormat, err)
	}
	for _, key := range modeKeys {
		delete(imported, key)
	}

	acc, err := s.accounts.Mutate(ctx, func(acc *model.Account) error {
		if acc.IsGithub() {
			delete(imported, "username")
		}
		merged, err := merge(acc, imported)
		if err != nil {
			return err
		}
		*acc = *merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("data transfer imported",
		slog.String("username", acc.Username),
		slog.Int("fields", len(imported)),
	)
	return acc, nil
}

// DownloadGameData returns the game data file offered to non-GitHub players
func (s *Service) DownloadGameData(ctx context.Context) (File, error) {
	acc, err := s.accounts.Active(ctx)
	if err != nil {
		return File{}, err
	}
	if acc.Mode == model.ModeGithub {
		return File{}, model.ErrDownloadNotPermitted
	}
	return File{
		Filename:    gameDataFilename,
		ContentType: "text/plain",
		Data:        []byte(gameDataContent),
	}, nil
}

func merge(acc *model.Account, fields map[string]json.RawMessage) (*model.Account, error) {
	current, err := model.EncodeAccount(acc)
	if err != nil {
		return nil, err
	}
	var record map[string]json.RawMessage
	if err := json.Unmarshal(current, &record); err != nil {
		return nil, err
	}
	for k, v := range fields {
		record[k] = v
	}

	combined, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return model.DecodeAccount(combined)
}
