// Package replay records simulations into SQLite and verifies that a recorded
// session replays to the same ownership grids.
package replay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/game"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

var (
	// ErrSessionNotFound is returned for an unknown session id
	ErrSessionNotFound = errors.New("replay: session not found")
	// ErrCustomTerrain is returned when a session cannot be rebuilt from its seed
	ErrCustomTerrain = errors.New("replay: hand-made terrain cannot be recorded")
)

// Session is one recorded simulation
type Session struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	Width     int    `db:"width"`
	Height    int    `db:"height"`
	Players   int    `db:"players"`
	Config    string `db:"config"`
	FinalTick int    `db:"final_tick"`
	CreatedAt int64  `db:"created_at"`
}

// GameConfig decodes the configuration the session was started with
func (s Session) GameConfig() (game.GameConfig, error) {
	var cfg game.GameConfig
	if err := json.Unmarshal([]byte(s.Config), &cfg); err != nil {
		return cfg, fmt.Errorf("decode session config: %w", err)
	}
	cfg.GameID = s.ID
	return cfg, nil
}

// TickActions are the actions applied during one tick
type TickActions struct {
	Tick    int
	Actions []core.Action
}

// Snapshot is the ownership grid after a tick, as produced by core.Grid.Encode
type Snapshot struct {
	Tick   int
	Owners []byte
}

type actionRow struct {
	Tick    int    `db:"tick"`
	Seq     int    `db:"seq"`
	Kind    string `db:"kind"`
	Payload []byte `db:"payload"`
}

type snapshotRow struct {
	Tick   int    `db:"tick"`
	Owners []byte `db:"owners"`
}

// Store wraps a SQLite connection holding recorded sessions
type Store struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// Open opens or creates a SQLite database at the given path
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open replay db: %w", err)
	}
	// a single connection keeps writes ordered
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger.With().Str("component", "ReplayStore").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate replay db: %w", err)
	}
	s.logger.Debug().Str("path", path).Msg("Replay store opened")
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		players INTEGER NOT NULL,
		config TEXT NOT NULL,
		final_tick INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS actions (
		session TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		tick INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (session, tick, seq)
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		session TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		tick INTEGER NOT NULL,
		owners BLOB NOT NULL,
		PRIMARY KEY (session, tick)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateSession stores the configuration of a new recording. cfg must be
// the resolved configuration of a running engine so the seed is fixed.
func (s *Store) CreateSession(ctx context.Context, cfg game.GameConfig) (Session, error) {
	if cfg.Terrain != nil {
		return Session{}, ErrCustomTerrain
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return Session{}, fmt.Errorf("encode session config: %w", err)
	}
	id := cfg.GameID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	session := Session{
		ID:        id,
		Seed:      cfg.Seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Players:   cfg.Players,
		Config:    string(raw),
		CreatedAt: time.Now().UnixNano(),
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO sessions (id, seed, width, height, players, config, final_tick, created_at)
		VALUES (:id, :seed, :width, :height, :players, :config, :final_tick, :created_at)`, session)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}
	s.logger.Info().Str("session", session.ID).Int64("seed", session.Seed).Msg("Replay session created")
	return session, nil
}

// GetSession loads one session
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	var session Session
	err := s.db.GetContext(ctx, &session, "SELECT * FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return session, ErrSessionNotFound
	}
	if err != nil {
		return session, fmt.Errorf("load session %s: %w", id, err)
	}
	return session, nil
}

// ListSessions returns every session, newest first
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	var sessions []Session
	if err := s.db.SelectContext(ctx, &sessions, "SELECT * FROM sessions ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// SetFinalTick records the last tick that was simulated
func (s *Store) SetFinalTick(ctx context.Context, id string, tick int) error {
	res, err := s.db.ExecContext(ctx, "UPDATE sessions SET final_tick = ? WHERE id = ?", tick, id)
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SaveActions writes the actions of one tick in submission order
func (s *Store) SaveActions(ctx context.Context, id string, tick int, actions []core.Action) error {
	if len(actions) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for seq, action := range actions {
		kind, payload, err := EncodeAction(action)
		if err != nil {
			return fmt.Errorf("tick %d action %d: %w", tick, seq, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO actions (session, tick, seq, kind, payload) VALUES (?, ?, ?, ?, ?)",
			id, tick, seq, kind, payload); err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
	}
	return tx.Commit()
}

// LoadActions returns the recorded actions grouped by tick in tick order
func (s *Store) LoadActions(ctx context.Context, id string) ([]TickActions, error) {
	var rows []actionRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT tick, seq, kind, payload FROM actions WHERE session = ? ORDER BY tick, seq", id)
	if err != nil {
		return nil, fmt.Errorf("load actions: %w", err)
	}

	var out []TickActions
	for _, row := range rows {
		action, err := DecodeAction(row.Kind, row.Payload)
		if err != nil {
			return nil, fmt.Errorf("tick %d action %d: %w", row.Tick, row.Seq, err)
		}
		if len(out) == 0 || out[len(out)-1].Tick != row.Tick {
			out = append(out, TickActions{Tick: row.Tick})
		}
		last := &out[len(out)-1]
		last.Actions = append(last.Actions, action)
	}
	return out, nil
}

// SaveSnapshot stores a compressed ownership grid
func (s *Store) SaveSnapshot(ctx context.Context, id string, tick int, owners []byte) error {
	compressed, err := compressLZ4(owners)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO snapshots (session, tick, owners) VALUES (?, ?, ?)", id, tick, compressed)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	s.logger.Debug().
		Str("session", id).
		Int("tick", tick).
		Int("raw_bytes", len(owners)).
		Int("stored_bytes", len(compressed)).
		Msg("Snapshot saved")
	return nil
}

// LoadSnapshots returns every snapshot of a session in tick order
func (s *Store) LoadSnapshots(ctx context.Context, id string) ([]Snapshot, error) {
	var rows []snapshotRow
	err := s.db.SelectContext(ctx, &rows, "SELECT tick, owners FROM snapshots WHERE session = ? ORDER BY tick", id)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	out := make([]Snapshot, len(rows))
	for i, row := range rows {
		owners, err := decompressLZ4(row.Owners)
		if err != nil {
			return nil, fmt.Errorf("decompress snapshot at tick %d: %w", row.Tick, err)
		}
		out[i] = Snapshot{Tick: row.Tick, Owners: owners}
	}
	return out, nil
}

// DeleteSession removes a session with its actions and snapshots
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range []string{
		"DELETE FROM actions WHERE session = ?",
		"DELETE FROM snapshots WHERE session = ?",
		"DELETE FROM sessions WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
