package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/speedwagon-io/crowdwatch/internal/model"
)

var ErrNotFound = errors.New("snapshot not found")

// Fixed-width so taken_at sorts lexically.
const takenAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore archives boot snapshots.
type SQLiteStore struct {
	log *slog.Logger
	db  *sql.DB
}

func NewSQLiteStore(log *slog.Logger, dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := newSQLiteStore(log, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newSQLiteStore(log *slog.Logger, db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{
		log: log,
		db:  db,
	}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			taken_at TEXT NOT NULL,
			source TEXT NOT NULL,
			degraded INTEGER NOT NULL DEFAULT 0,
			fetch_error TEXT,
			sensors_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at);
		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, snapshot *model.Snapshot) error {
	sensorsJSON, err := json.Marshal(snapshot.Sensors)
	if err != nil {
		return fmt.Errorf("failed to marshal sensors: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, taken_at, source, degraded, fetch_error, sensors_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.TakenAt.UTC().Format(takenAtLayout),
		snapshot.Source,
		snapshot.Degraded,
		snapshot.FetchError,
		string(sensorsJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.log.Debug("snapshot archived", slog.String("id", snapshot.ID))
	return nil
}

// Latest returns the most recently taken snapshot, or ErrNotFound.
func (s *SQLiteStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	query := `
		SELECT id, taken_at, source, degraded, fetch_error, sensors_json
		FROM snapshots
		ORDER BY taken_at DESC
		LIMIT 1
	`

	var (
		id, takenAtStr, source, sensorsJSON string
		degraded                            bool
		fetchError                          sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query).Scan(&id, &takenAtStr, &source, &degraded, &fetchError, &sensorsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshot: %w", err)
	}

	takenAt, err := time.Parse(takenAtLayout, takenAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse taken_at: %w", err)
	}

	var sensors []model.DisplaySensor
	if err := json.Unmarshal([]byte(sensorsJSON), &sensors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sensors: %w", err)
	}

	return &model.Snapshot{
		ID:         id,
		TakenAt:    takenAt,
		Source:     source,
		Degraded:   degraded,
		FetchError: fetchError.String,
		Sensors:    sensors,
	}, nil
}

func (s *SQLiteStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge).Format(time.RFC3339)

	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup old snapshots: %w", err)
	}

	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		s.log.Info("cleaned up old snapshots", slog.Int64("deleted", deleted))
	}

	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&count)
	return count, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
