package match

import (
	"context"

	"github.com/mauv0809/pong-ladder/internal/club"
)

// SideType says whether a side refers to a registered player or a name to register.
type SideType string

const (
	SideExisting SideType = "existing"
	SideNew      SideType = "new"
)

// Side is one player of a submitted match.
type Side struct {
	Type SideType `json:"type"`
	ID   string   `json:"id,omitempty"`
	Name string   `json:"name,omitempty"`
}

// CreationInput is a match as submitted by a user.
type CreationInput struct {
	Player1      Side `json:"player1"`
	Player2      Side `json:"player2"`
	Player1Score int  `json:"player1_score"`
	Player2Score int  `json:"player2_score"`
}

// CreatePlayerFunc registers a new player and returns it with an id assigned.
type CreatePlayerFunc func(ctx context.Context, draft club.PlayerDraft) (club.Player, error)
