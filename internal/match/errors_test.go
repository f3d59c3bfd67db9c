package match

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mauv0809/pong-ladder/internal/scoring"
	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	assert.Equal(t, "InsufficientMargin", Reason(scoring.ErrInsufficientMargin))
	assert.Equal(t, "DuplicateName", Reason(fmt.Errorf("player 2: %w", fmt.Errorf("%w: %q", ErrDuplicateName, "Kari"))))
	assert.Equal(t, "SamePlayer", Reason(ErrSamePlayer))
	assert.Equal(t, "InvalidSide", Reason(fmt.Errorf("player 1: %w", ErrInvalidSide)))
	assert.Equal(t, "", Reason(errors.New("connection refused")))
	assert.Equal(t, "", Reason(nil))

	assert.True(t, IsValidationError(ErrNameRequired))
	assert.False(t, IsValidationError(errors.New("boom")))
}
