// Package sqlite provides a SQLite-backed implementation of the snapshot repository port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ewilliams-labs/songle/internal/core/domain"
	"github.com/ewilliams-labs/songle/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// fetched_at is stored as fixed-width UTC text so it sorts lexically.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Adapter implements the snapshot repository port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.SnapshotRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) Save(ctx context.Context, s domain.Snapshot) error {
	if s.ID == "" || s.SongURL == "" {
		return fmt.Errorf("failed to save snapshot: %w", domain.ErrInvalidArgument)
	}

	songJSON, err := json.Marshal(s.Song)
	if err != nil {
		return fmt.Errorf("failed to encode song: %w", err)
	}
	payloads := map[domain.MapKind]any{
		domain.MapBeat:   s.Beats,
		domain.MapChord:  s.Chords,
		domain.MapMelody: s.Melody,
		domain.MapChorus: s.Chorus,
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, song_url, song_id, title, artist, duration_ms, song_json, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			song_url=excluded.song_url,
			song_id=excluded.song_id,
			title=excluded.title,
			artist=excluded.artist,
			duration_ms=excluded.duration_ms,
			song_json=excluded.song_json,
			fetched_at=excluded.fetched_at;
	`,
		s.ID,
		s.SongURL,
		s.Song.ID,
		s.Song.Title,
		s.Song.Artist.Name,
		s.Song.DurationMs,
		string(songJSON),
		s.FetchedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("failed to save snapshot metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_maps (snapshot_id, kind, payload)
		VALUES (?, ?, ?)
		ON CONFLICT(snapshot_id, kind) DO UPDATE SET payload=excluded.payload
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare map statement: %w", err)
	}
	defer stmt.Close()

	for _, kind := range domain.MapKinds {
		payload, err := json.Marshal(payloads[kind])
		if err != nil {
			return fmt.Errorf("failed to encode %s map: %w", kind, err)
		}
		if _, err := stmt.ExecContext(ctx, s.ID, string(kind), string(payload)); err != nil {
			return fmt.Errorf("failed to save %s map: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.Snapshot, error) {
	row := a.db.QueryRowContext(ctx,
		"SELECT id, song_url, song_json, fetched_at FROM snapshots WHERE id = ?", id)

	s, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if err := a.loadMaps(ctx, &s); err != nil {
		return domain.Snapshot{}, err
	}
	return s, nil
}

// ListBySongURL returns every archived snapshot of a song, newest first.
func (a *Adapter) ListBySongURL(ctx context.Context, songURL string) ([]domain.Snapshot, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, song_url, song_json, fetched_at
		FROM snapshots
		WHERE song_url = ?
		ORDER BY fetched_at DESC, id ASC
	`, songURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	snapshots := []domain.Snapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	rows.Close()

	// Maps are loaded after the cursor is closed; the pool holds a single connection.
	for i := range snapshots {
		if err := a.loadMaps(ctx, &snapshots[i]); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(r rowScanner) (domain.Snapshot, error) {
	var (
		s         domain.Snapshot
		songJSON  string
		fetchedAt string
	)
	if err := r.Scan(&s.ID, &s.SongURL, &songJSON, &fetchedAt); err != nil {
		return domain.Snapshot{}, err
	}
	if err := json.Unmarshal([]byte(songJSON), &s.Song); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode song: %w", err)
	}
	t, err := time.Parse(timeLayout, fetchedAt)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode fetched_at: %w", err)
	}
	s.FetchedAt = t
	return s, nil
}

func (a *Adapter) loadMaps(ctx context.Context, s *domain.Snapshot) error {
	rows, err := a.db.QueryContext(ctx,
		"SELECT kind, payload FROM snapshot_maps WHERE snapshot_id = ?", s.ID)
	if err != nil {
		return fmt.Errorf("failed to load snapshot maps: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return fmt.Errorf("failed to scan snapshot map: %w", err)
		}

		var target any
		switch domain.MapKind(kind) {
		case domain.MapBeat:
			target = &s.Beats
		case domain.MapChord:
			target = &s.Chords
		case domain.MapMelody:
			target = &s.Melody
		case domain.MapChorus:
			target = &s.Chorus
		default:
			continue
		}
		if err := json.Unmarshal([]byte(payload), target); err != nil {
			return fmt.Errorf("failed to decode %s map: %w", kind, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate snapshot maps: %w", err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		song_url TEXT NOT NULL,
		song_id INTEGER,
		title TEXT,
		artist TEXT,
		duration_ms INTEGER,
		song_json TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_song_url ON snapshots (song_url, fetched_at);

	CREATE TABLE IF NOT EXISTS snapshot_maps (
		snapshot_id TEXT,
		kind TEXT,
		payload TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, kind),
		FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
	);
	`
	_, err := a.db.Exec(query)
	return err
}
