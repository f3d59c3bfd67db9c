package processor

import (
	"context"

	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetAllPlayers(ctx context.Context) ([]club.Player, error)
	AddPlayer(ctx context.Context, draft club.PlayerDraft) (club.Player, error)
	RecordMatch(ctx context.Context, match club.Match, winnerUpdate, loserUpdate club.PlayerUpdate) (club.Match, error)
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
