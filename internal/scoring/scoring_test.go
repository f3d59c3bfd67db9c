package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		score1  int
		score2  int
		wantErr error
	}{
		{"standard win", 11, 9, nil},
		{"standard win reversed", 9, 11, nil},
		{"whitewash", 11, 0, nil},
		{"deuce win", 12, 10, nil},
		{"long deuce", 15, 13, nil},
		{"deuce with a wider lead", 13, 10, nil},
		{"eleven ten is one point short", 11, 10, ErrInsufficientMargin},
		{"twelve eleven is one point short", 12, 11, ErrInsufficientMargin},
		{"past eleven without deuce", 12, 9, ErrInsufficientMargin},
		{"past eleven without deuce reversed", 5, 14, ErrInsufficientMargin},
		{"tie", 11, 11, ErrTied},
		{"zero zero", 0, 0, ErrTied},
		{"nobody reached eleven", 10, 8, ErrNoWinnerReached},
		{"negative first", -1, 11, ErrNegativeScore},
		{"negative second", 11, -3, ErrNegativeScore},
		{"negative wins over range", -1, 100, ErrNegativeScore},
		{"above range", 100, 98, ErrOutOfRange},
		{"top of range", 99, 97, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.score1, tt.score2)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ElevenAgainstAnyLowScore(t *testing.T) {
	for lo := 0; lo <= 9; lo++ {
		assert.NoError(t, Validate(11, lo), "11-%d should be accepted", lo)
		assert.NoError(t, Validate(lo, 11), "%d-11 should be accepted", lo)
	}
}

func TestValidate_ExtendedGames(t *testing.T) {
	for hi := 12; hi <= 30; hi++ {
		for lo := 0; lo < hi; lo++ {
			want := lo >= DeuceScore && hi-lo >= MinimumMargin
			err := Validate(hi, lo)
			assert.Equal(t, want, err == nil, fmt.Sprintf("%d-%d", hi, lo))
			if !want {
				assert.ErrorIs(t, err, ErrInsufficientMargin)
			}
		}
	}
}

func TestWinner(t *testing.T) {
	assert.Equal(t, 1, Winner(11, 5))
	assert.Equal(t, 2, Winner(10, 12))
}
