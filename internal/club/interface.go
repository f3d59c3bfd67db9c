package club

import "context"

// ClubStore defines the interface for interacting with the club's data.
type ClubStore interface {
	GetAllPlayers(ctx context.Context) ([]Player, error)
	GetPlayer(ctx context.Context, id string) (*Player, error)
	GetPlayerByName(ctx context.Context, name string) (*Player, error)
	AddPlayer(ctx context.Context, draft PlayerDraft) (Player, error)
	GetAllMatches(ctx context.Context) ([]Match, error)
	GetMatchesForPlayer(ctx context.Context, playerID string) ([]Match, error)
	GetMatch(ctx context.Context, id string) (*Match, error)
	// RecordMatch stores the match under a fresh id together with both player updates in one transaction.
	RecordMatch(ctx context.Context, match Match, winnerUpdate, loserUpdate PlayerUpdate) (Match, error)
	Clear(ctx context.Context) error
}
