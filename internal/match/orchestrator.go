package match

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/clock"
	"github.com/mauv0809/pong-ladder/internal/scoring"
)

// Orchestrator turns a submitted match into a resolved MatchResult.
// It does not compute ratings or persist the match.
type Orchestrator struct {
	clock       clock.Clock
	startingElo int
}

// NewOrchestrator creates an Orchestrator that seeds new players at startingElo.
func NewOrchestrator(c clock.Clock, startingElo int) *Orchestrator {
	return &Orchestrator{clock: c, startingElo: startingElo}
}

// ProcessMatchCreation validates the scores, resolves both players and determines the winner.
// Players registered for side 1 stay registered if side 2 fails.
func (o *Orchestrator) ProcessMatchCreation(ctx context.Context, input CreationInput, existing []club.Player, createPlayer CreatePlayerFunc) (*club.MatchResult, error) {
	if err := scoring.Validate(input.Player1Score, input.Player2Score); err != nil {
		return nil, err
	}

	player1, err := o.resolveSide(ctx, input.Player1, existing, createPlayer)
	if err != nil {
		return nil, sideError(1, err)
	}
	// Side 2 is checked against the same snapshot, so it does not see a player created for side 1.
	player2, err := o.resolveSide(ctx, input.Player2, existing, createPlayer)
	if err != nil {
		return nil, sideError(2, err)
	}

	if normalize(player1.Name) == normalize(player2.Name) {
		return nil, ErrSamePlayer
	}

	winner, loser := player1, player2
	if scoring.Winner(input.Player1Score, input.Player2Score) == 2 {
		winner, loser = player2, player1
	}

	// The id is assigned when the match is stored.
	m := club.Match{
		Player1ID:    player1.ID,
		Player2ID:    player2.ID,
		WinnerID:     winner.ID,
		LoserID:      loser.ID,
		Player1Score: input.Player1Score,
		Player2Score: input.Player2Score,
		PlayedAt:     o.clock.Now(),
		EloChanges:   map[string]int{},
	}
	log.Debug("Resolved match", "winner", winner.Name, "loser", loser.Name, "score", fmt.Sprintf("%d-%d", m.Player1Score, m.Player2Score))

	return &club.MatchResult{Match: m, Winner: winner, Loser: loser}, nil
}

func (o *Orchestrator) resolveSide(ctx context.Context, side Side, existing []club.Player, createPlayer CreatePlayerFunc) (club.Player, error) {
	switch side.Type {
	case SideExisting:
		for _, p := range existing {
			if p.ID == side.ID {
				return p, nil
			}
		}
		return club.Player{}, ErrPlayerNotSelected
	case SideNew:
		return o.registerPlayer(ctx, side.Name, existing, createPlayer)
	default:
		return club.Player{}, fmt.Errorf("%w: got %q", ErrInvalidSide, side.Type)
	}
}

func (o *Orchestrator) registerPlayer(ctx context.Context, rawName string, existing []club.Player, createPlayer CreatePlayerFunc) (club.Player, error) {
	if normalize(rawName) == "" {
		return club.Player{}, ErrNameRequired
	}
	name, err := ValidatePlayerName(rawName)
	if err != nil {
		return club.Player{}, err
	}
	if !IsUniquePlayerName(name, existing) {
		return club.Player{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	player, err := createPlayer(ctx, club.PlayerDraft{
		Name:      name,
		EloRating: o.startingElo,
		CreatedAt: o.clock.Now(),
	})
	if err != nil {
		return club.Player{}, err
	}
	log.Info("Registered new player", "id", player.ID, "name", player.Name)
	return player, nil
}

// sideError prefixes validation errors with the side they belong to.
// Errors from createPlayer are returned as they are.
func sideError(side int, err error) error {
	if !IsValidationError(err) {
		return err
	}
	return fmt.Errorf("player %d: %w", side, err)
}
