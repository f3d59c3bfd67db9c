package match

import (
	"errors"

	"github.com/mauv0809/pong-ladder/internal/scoring"
)

var (
	ErrNameRequired      = errors.New("name is required")
	ErrInvalidName       = errors.New("name must be between 2 and 50 characters")
	ErrInvalidCharacters = errors.New("name can only contain letters, numbers, spaces, hyphens, underscores and periods")
	ErrDuplicateName     = errors.New("a player with that name already exists")
	ErrPlayerNotSelected = errors.New("an existing player must be selected")
	ErrSamePlayer        = errors.New("a player cannot play against themselves")
	ErrInvalidSide       = errors.New(`side type must be "existing" or "new"`)
)

var reasons = []struct {
	err  error
	name string
}{
	{scoring.ErrNegativeScore, "NegativeScore"},
	{scoring.ErrOutOfRange, "OutOfRange"},
	{scoring.ErrTied, "Tied"},
	{scoring.ErrNoWinnerReached, "NoWinnerReached"},
	{scoring.ErrInsufficientMargin, "InsufficientMargin"},
	{ErrNameRequired, "NameRequired"},
	{ErrInvalidName, "InvalidName"},
	{ErrInvalidCharacters, "InvalidCharacters"},
	{ErrDuplicateName, "DuplicateName"},
	{ErrPlayerNotSelected, "PlayerNotSelected"},
	{ErrSamePlayer, "SamePlayer"},
	{ErrInvalidSide, "InvalidSide"},
}

// Reason names the rejection behind err, or returns "" if err is not a validation error.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.name
		}
	}
	return ""
}

// IsValidationError reports whether err is a rejection of the submitted input.
func IsValidationError(err error) bool {
	return Reason(err) != ""
}
