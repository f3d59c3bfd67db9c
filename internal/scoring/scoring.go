package scoring

import "errors"

const (
	// WinningScore is the minimum score needed to take a game.
	WinningScore = 11
	// DeuceScore is the score both sides must reach before a game goes past 11.
	DeuceScore = 10
	// MinimumMargin is the lead required once a game is extended.
	MinimumMargin = 2
	// MaxScore is the highest score accepted for either side.
	MaxScore = 99
)

var (
	ErrNegativeScore      = errors.New("scores cannot be negative")
	ErrOutOfRange         = errors.New("scores cannot be higher than 99")
	ErrTied               = errors.New("a game cannot end in a tie, one player has to win")
	ErrNoWinnerReached    = errors.New("at least one player needs 11 points or more to win")
	ErrInsufficientMargin = errors.New("invalid result: at 11 points the opponent can have at most 9, past 11 both players must have reached 10 and the winner must lead by at least 2")
)

// Validate checks that score1 and score2 form a finished table tennis game.
// It returns nil for a legal result and one of the package's sentinel errors otherwise.
func Validate(score1, score2 int) error {
	if score1 < 0 || score2 < 0 {
		return ErrNegativeScore
	}
	if score1 > MaxScore || score2 > MaxScore {
		return ErrOutOfRange
	}
	if score1 == score2 {
		return ErrTied
	}

	hi, lo := max(score1, score2), min(score1, score2)
	if hi < WinningScore {
		return ErrNoWinnerReached
	}

	margin := hi - lo
	switch {
	case hi == WinningScore && lo <= WinningScore-MinimumMargin:
		return nil
	case hi > WinningScore && lo >= DeuceScore && margin >= MinimumMargin:
		return nil
	default:
		return ErrInsufficientMargin
	}
}

// Winner returns 1 if the first score is higher and 2 otherwise.
// Callers are expected to have run Validate first.
func Winner(score1, score2 int) int {
	if score1 > score2 {
		return 1
	}
	return 2
}
