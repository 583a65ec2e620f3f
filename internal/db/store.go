package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labplanner/backend/internal/models"
)

// Document keys in the app_state table. The snapshot key is the contract
// shared with the browser UI's local store.
const (
	SnapshotKey    = "labPlannerData"
	PreferencesKey = "labPlannerPrefs"
)

// ErrNoDocument is returned when a requested document has never been
// saved.
var ErrNoDocument = errors.New("document not found")

// Store persists the planner documents in Postgres: one key-value table of
// JSON documents plus an audit table for import runs.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &Store{Pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS import_runs (
			id          BIGSERIAL PRIMARY KEY,
			kind        TEXT NOT NULL,
			status      TEXT NOT NULL,
			summary     JSONB,
			started_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			finished_at TIMESTAMPTZ
		);
	`)
	return err
}

func (s *Store) loadDocument(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.Pool.QueryRow(ctx, `SELECT doc FROM app_state WHERE key = $1`, key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) saveDocument(ctx context.Context, key string, doc []byte) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO app_state (key, doc, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()
	`, key, doc)
	return err
}

// LoadSnapshot reads and migrates the persisted snapshot document.
// ErrNoDocument means a fresh install; a decode error means the persisted
// state is corrupt — in both cases the caller degrades to the seed
// dataset rather than failing to start.
func (s *Store) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	raw, err := s.loadDocument(ctx, SnapshotKey)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.DecodeSnapshot(raw)
}

func (s *Store) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.saveDocument(ctx, SnapshotKey, doc)
}

func (s *Store) LoadPreferences(ctx context.Context) (models.Preferences, error) {
	raw, err := s.loadDocument(ctx, PreferencesKey)
	if err != nil {
		return models.Preferences{}, err
	}
	var prefs models.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return models.Preferences{}, err
	}
	return prefs, nil
}

func (s *Store) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	doc, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.saveDocument(ctx, PreferencesKey, doc)
}

// CreateRun opens an import-run audit record and returns its id.
func (s *Store) CreateRun(ctx context.Context, kind string) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `INSERT INTO import_runs (kind, status) VALUES ($1, 'RUNNING') RETURNING id`, kind).Scan(&id)
	return id, err
}

func (s *Store) FinishRun(ctx context.Context, runID int64, status string, summary []byte) error {
	_, err := s.Pool.Exec(ctx, `UPDATE import_runs SET status = $1, summary = $2, finished_at = NOW() WHERE id = $3`, status, summary, runID)
	return err
}

func (s *Store) GetLatestRun(ctx context.Context) (map[string]any, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, kind, status, summary, started_at, finished_at FROM import_runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	var (
		id       int64
		kind     string
		status   string
		summary  []byte
		started  time.Time
		finished *time.Time
	)
	if err := row.Scan(&id, &kind, &status, &summary, &started, &finished); err != nil {
		return nil, err
	}
	var summaryValue any
	if len(summary) > 0 {
		_ = json.Unmarshal(summary, &summaryValue)
	}
	return map[string]any{
		"id":          id,
		"kind":        kind,
		"status":      status,
		"summary":     summaryValue,
		"started_at":  started,
		"finished_at": finished,
	}, nil
}
