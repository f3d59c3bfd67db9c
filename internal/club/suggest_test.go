package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestPlayers(t *testing.T) {
	players := []Player{
		{ID: "1", Name: "Kari Nordmann", EloRating: 1300},
		{ID: "2", Name: "Ola Nordmann", EloRating: 1250},
		{ID: "3", Name: "Bjørn Dæhlie", EloRating: 1400},
		{ID: "4", Name: "Marit", EloRating: 1200},
	}

	t.Run("exact name ranks first", func(t *testing.T) {
		got := SuggestPlayers(players, "marit")
		require.NotEmpty(t, got)
		assert.Equal(t, "4", got[0].Player.ID)
		assert.Equal(t, 1.0, got[0].Confidence)
	})

	t.Run("typo still matches", func(t *testing.T) {
		got := SuggestPlayers(players, "Bjorn")
		require.NotEmpty(t, got)
		assert.Equal(t, "3", got[0].Player.ID)
	})

	t.Run("shared surname ties broken by rating", func(t *testing.T) {
		got := SuggestPlayers(players, "nordmann")
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].Player.ID)
		assert.Equal(t, "2", got[1].Player.ID)
	})

	t.Run("nothing similar", func(t *testing.T) {
		assert.Empty(t, SuggestPlayers(players, "zzzzzzzz"))
	})

	t.Run("blank query", func(t *testing.T) {
		assert.Nil(t, SuggestPlayers(players, "  "))
	})
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein([]rune("abc"), []rune("abc")))
	assert.Equal(t, 3, levenshtein([]rune(""), []rune("abc")))
	assert.Equal(t, 1, levenshtein([]rune("bjørn"), []rune("bjorn")))
	assert.Equal(t, 3, levenshtein([]rune("kitten"), []rune("sitting")))
}
