package model

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the core wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrAuth              = errors.New("authentication failed")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrNotFound          = errors.New("not found")
	ErrExpired           = errors.New("expired")
	ErrUnsupported       = errors.New("unsupported operation")
)

// Common errors used across the application
var (
	// Account errors
	ErrUsernameRequired  = fmt.Errorf("%w: username is required", ErrValidation)
	ErrCharacterRequired = fmt.Errorf("%w: character is required", ErrValidation)
	ErrAvatarRequired    = fmt.Errorf("%w: avatar is required", ErrValidation)
	ErrPasswordRequired  = fmt.Errorf("%w: password is required", ErrValidation)
	ErrAccountNotFound   = fmt.Errorf("%w: no account found", ErrNotFound)
	ErrWrongPassword     = fmt.Errorf("%w: incorrect password", ErrAuth)
	ErrWrongTestSecret   = fmt.Errorf("%w: incorrect test portal password", ErrAuth)
	ErrNotAuthenticated  = fmt.Errorf("%w: not signed in", ErrAuth)
	ErrProfilePending    = fmt.Errorf("%w: github profile not completed", ErrAuth)
	ErrNoProfilePending  = fmt.Errorf("%w: no github profile pending", ErrUnsupported)
	ErrUsernameTaken     = fmt.Errorf("%w: username already in use", ErrConflict)
	ErrTestPortalExpired = fmt.Errorf("%w: test portal session has expired", ErrExpired)
	ErrGithubOnly        = fmt.Errorf("%w: only available to github accounts", ErrUnsupported)
	ErrNotForGithub      = fmt.Errorf("%w: not available to github accounts", ErrUnsupported)
	ErrOfflineMode       = fmt.Errorf("%w: offline mode is enabled", ErrUnsupported)

	// Save file errors
	ErrDownloadNotPermitted = fmt.Errorf("%w: GitHub users are not permitted to download game data", ErrUnsupported)

	// Economy errors
	ErrNegativeAmount = fmt.Errorf("%w: amount must not be negative", ErrValidation)

	// Shop and inventory errors
	ErrItemNotFound          = fmt.Errorf("%w: item not in catalog", ErrNotFound)
	ErrInventoryIndex        = fmt.Errorf("%w: inventory index out of range", ErrValidation)
	ErrCoordinateRequired    = fmt.Errorf("%w: coordinate is required", ErrValidation)
	ErrFriendNotFound        = fmt.Errorf("%w: friend not found", ErrNotFound)
	ErrCellNotFound          = fmt.Errorf("%w: map cell not found", ErrNotFound)
	ErrForbiddenCell         = fmt.Errorf("%w: restricted zone", ErrAccessDenied)
	ErrBattleInProgress      = fmt.Errorf("%w: battle in progress", ErrUnsupported)
	ErrNoBattle              = fmt.Errorf("%w: no battle in progress", ErrUnsupported)
	ErrMalformedAccountState = fmt.Errorf("%w: malformed account record", ErrInvalidFormat)
)
