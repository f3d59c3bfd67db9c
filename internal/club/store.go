package club

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/pong-ladder/internal/database"
)

// New creates a new ClubStore.
func New(db *sql.DB, dialect database.Dialect) ClubStore {
	return &store{
		db:      db,
		dialect: dialect,
	}
}

const playerColumns = `id, name, avatar, elo_rating, matches_played, wins, losses, created_at, last_played_at`

const matchColumns = `id, player1_id, player2_id, winner_id, loser_id, player1_score, player2_score, played_at, elo_changes`

type scanner interface{ Scan(...any) error }

// GetAllPlayers returns every player, best rated first.
func (s *store) GetAllPlayers(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY elo_rating DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetPlayer returns the player with the given id or ErrPlayerNotFound.
func (s *store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT `+playerColumns+` FROM players WHERE id = ?`), id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return &p, nil
}

// GetPlayerByName finds a player whose name contains the given text, ignoring case.
// An exact match wins over partial ones, otherwise the best rated candidate is returned.
func (s *store) GetPlayerByName(ctx context.Context, name string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, ErrPlayerNotFound
	}

	query := `SELECT ` + playerColumns + ` FROM players
		WHERE lower(name) LIKE ?
		ORDER BY CASE WHEN lower(trim(name)) = ? THEN 0 ELSE 1 END, elo_rating DESC
		LIMIT 1`
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), "%"+needle+"%", needle)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player by name %q: %w", name, err)
	}
	return &p, nil
}

// AddPlayer inserts the draft under a fresh id.
func (s *store) AddPlayer(ctx context.Context, draft PlayerDraft) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := draft.WithID(uuid.NewString())
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		player.ID, player.Name, player.Avatar, player.EloRating, player.MatchesPlayed, player.Wins, player.Losses,
		player.CreatedAt.Unix(), nullableUnix(player.LastPlayedAt))
	if err != nil {
		return Player{}, fmt.Errorf("failed to add player %q: %w", player.Name, err)
	}
	log.Debug("Added player", "id", player.ID, "name", player.Name)
	return player, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// updatePlayer overwrites a player's rating and stat line.
func (s *store) updatePlayer(ctx context.Context, db execer, id string, update PlayerUpdate) error {
	res, err := db.ExecContext(ctx, s.dialect.Rebind(`UPDATE players SET elo_rating = ?, matches_played = ?, wins = ?, losses = ?, last_played_at = ? WHERE id = ?`),
		update.EloRating, update.MatchesPlayed, update.Wins, update.Losses, update.LastPlayedAt.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// GetAllMatches returns every match, newest first.
func (s *store) GetAllMatches(ctx context.Context) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY played_at DESC`)
}

// GetMatchesForPlayer returns the matches the player took part in, newest first.
func (s *store) GetMatchesForPlayer(ctx context.Context, playerID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryMatches(ctx, s.dialect.Rebind(`SELECT `+matchColumns+` FROM matches WHERE player1_id = ? OR player2_id = ? ORDER BY played_at DESC`), playerID, playerID)
}

// GetMatch returns the match with the given id or ErrMatchNotFound.
func (s *store) GetMatch(ctx context.Context, id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := scanMatch(s.db.QueryRowContext(ctx, s.dialect.Rebind(`SELECT `+matchColumns+` FROM matches WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return &m, nil
}

func (s *store) queryMatches(ctx context.Context, query string, args ...any) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) insertMatch(ctx context.Context, db execer, match Match) error {
	changesJSON, err := json.Marshal(match.EloChanges)
	if err != nil {
		return fmt.Errorf("failed to encode elo changes: %w", err)
	}
	_, err = db.ExecContext(ctx, s.dialect.Rebind(`INSERT INTO matches (`+matchColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		match.ID, match.Player1ID, match.Player2ID, match.WinnerID, match.LoserID,
		match.Player1Score, match.Player2Score, match.PlayedAt.Unix(), string(changesJSON))
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}
	return nil
}

// RecordMatch inserts the match under a fresh id and applies both player updates in one transaction.
// It returns the match as stored.
func (s *store) RecordMatch(ctx context.Context, match Match, winnerUpdate, loserUpdate PlayerUpdate) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	match.ID = uuid.NewString()
	if match.EloChanges == nil {
		match.EloChanges = map[string]int{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Match{}, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.insertMatch(ctx, tx, match); err != nil {
		tx.Rollback()
		return Match{}, err
	}
	if err := s.updatePlayer(ctx, tx, match.WinnerID, winnerUpdate); err != nil {
		tx.Rollback()
		return Match{}, err
	}
	if err := s.updatePlayer(ctx, tx, match.LoserID, loserUpdate); err != nil {
		tx.Rollback()
		return Match{}, err
	}

	if err := tx.Commit(); err != nil {
		return Match{}, fmt.Errorf("failed to commit match %s: %w", match.ID, err)
	}
	log.Debug("Recorded match", "id", match.ID, "winner", match.WinnerID, "loser", match.LoserID)
	return match, nil
}

// Clear removes all matches and players.
func (s *store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"matches", "players"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func scanPlayer(row scanner) (Player, error) {
	var p Player
	var createdAt int64
	var lastPlayedAt sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Avatar, &p.EloRating, &p.MatchesPlayed, &p.Wins, &p.Losses, &createdAt, &lastPlayedAt)
	if err != nil {
		return Player{}, err
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	if lastPlayedAt.Valid {
		t := time.Unix(lastPlayedAt.Int64, 0).UTC()
		p.LastPlayedAt = &t
	}
	return p, nil
}

func scanMatch(row scanner) (Match, error) {
	var m Match
	var playedAt int64
	var changesJSON sql.NullString
	err := row.Scan(&m.ID, &m.Player1ID, &m.Player2ID, &m.WinnerID, &m.LoserID, &m.Player1Score, &m.Player2Score, &playedAt, &changesJSON)
	if err != nil {
		return Match{}, err
	}
	m.PlayedAt = time.Unix(playedAt, 0).UTC()
	m.EloChanges = map[string]int{}
	if changesJSON.Valid && changesJSON.String != "" {
		if err := json.Unmarshal([]byte(changesJSON.String), &m.EloChanges); err != nil {
			log.Error("Failed to unmarshal elo_changes", "error", err, "matchID", m.ID)
		}
	}
	return m, nil
}

func nullableUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
