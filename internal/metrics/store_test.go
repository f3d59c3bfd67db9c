package metrics

import (
	"testing"

	"github.com/mauv0809/pong-ladder/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (MetricsStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return New(db, database.SQLite), teardown
}

func TestIncrementAndGetAll(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	// 1. Initially, there should be no metrics
	metrics, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, metrics)

	// 2. Increment a new key
	store.Increment(KeyMatchesRecorded)
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KeyMatchesRecorded: 1}, metrics)

	// 3. Increment the same key again
	store.Increment(KeyMatchesRecorded)
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{KeyMatchesRecorded: 2}, metrics)

	// 4. Increment a different key
	store.Increment(KeySlackNotifSent)
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		KeyMatchesRecorded: 2,
		KeySlackNotifSent:  1,
	}, metrics)
}
