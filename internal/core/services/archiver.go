package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/songle/internal/core/domain"
	"github.com/ewilliams-labs/songle/internal/core/ports"
)

// Archiver coordinates the Songle provider and the snapshot repository.
type Archiver struct {
	songle ports.SongMapProvider
	repo   ports.SnapshotRepository
	now    func() time.Time
	newID  func() string
}

// NewArchiver constructs an Archiver. repo may be nil, in which case the
// archive operations return domain.ErrArchiveDisabled.
func NewArchiver(songle ports.SongMapProvider, repo ports.SnapshotRepository) *Archiver {
	return &Archiver{
		songle: songle,
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func requireArg(name, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("service: %s cannot be empty: %w", name, domain.ErrInvalidArgument)
	}
	return v, nil
}

// SongInfo fetches the metadata of one song.
func (a *Archiver) SongInfo(ctx context.Context, songURL string) (domain.Song, error) {
	songURL, err := requireArg("song url", songURL)
	if err != nil {
		return domain.Song{}, err
	}
	song, err := a.songle.GetSongInfo(ctx, songURL)
	if err != nil {
		return domain.Song{}, fmt.Errorf("service: failed to fetch song: %w", err)
	}
	return song, nil
}

// Search runs a song search. An empty result is not an error.
func (a *Archiver) Search(ctx context.Context, query string) ([]domain.Song, error) {
	query, err := requireArg("query", query)
	if err != nil {
		return nil, err
	}
	songs, err := a.songle.SearchSongs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: search failed: %w", err)
	}
	return songs, nil
}

// Map fetches one song map. The concrete type of the result is
// domain.BeatInfo, domain.ChordInfo, domain.MelodyInfo or domain.ChorusInfo.
func (a *Archiver) Map(ctx context.Context, kind domain.MapKind, songURL string, revisionID int) (any, error) {
	songURL, err := requireArg("song url", songURL)
	if err != nil {
		return nil, err
	}
	if revisionID < 0 {
		return nil, fmt.Errorf("service: revision id must not be negative: %w", domain.ErrInvalidArgument)
	}

	var m any
	switch kind {
	case domain.MapBeat:
		m, err = a.songle.GetBeats(ctx, songURL, revisionID)
	case domain.MapChord:
		m, err = a.songle.GetChords(ctx, songURL, revisionID)
	case domain.MapMelody:
		m, err = a.songle.GetMelody(ctx, songURL, revisionID)
	case domain.MapChorus:
		m, err = a.songle.GetChorus(ctx, songURL, revisionID)
	default:
		return nil, fmt.Errorf("service: %w: %q", domain.ErrUnknownMapKind, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch %s map: %w", kind, err)
	}
	return m, nil
}

// Revisions lists the versions of one song map kind.
func (a *Archiver) Revisions(ctx context.Context, kind domain.MapKind, songURL string) ([]domain.Revision, error) {
	songURL, err := requireArg("song url", songURL)
	if err != nil {
		return nil, err
	}
	revs, err := a.songle.GetRevisions(ctx, kind, songURL)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch %s revisions: %w", kind, err)
	}
	return revs, nil
}

// Snapshot collects song info and the latest revision of every map, one call
// at a time. A map the API does not have is left empty.
func (a *Archiver) Snapshot(ctx context.Context, songURL string) (domain.Snapshot, error) {
	songURL, err := requireArg("song url", songURL)
	if err != nil {
		return domain.Snapshot{}, err
	}

	song, err := a.songle.GetSongInfo(ctx, songURL)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("service: failed to fetch song: %w", err)
	}

	snap := domain.Snapshot{SongURL: songURL, Song: song}
	for _, kind := range domain.MapKinds {
		m, err := a.Map(ctx, kind, songURL, domain.LatestRevision)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Printf("WARN service: no %s map for %s", kind, songURL)
				continue
			}
			return domain.Snapshot{}, err
		}
		switch v := m.(type) {
		case domain.BeatInfo:
			snap.Beats = v
		case domain.ChordInfo:
			snap.Chords = v
		case domain.MelodyInfo:
			snap.Melody = v
		case domain.ChorusInfo:
			snap.Chorus = v
		}
	}
	return snap, nil
}

// Archive takes a snapshot and stores it under a fresh ID.
func (a *Archiver) Archive(ctx context.Context, songURL string) (domain.Snapshot, error) {
	if a.repo == nil {
		return domain.Snapshot{}, fmt.Errorf("service: %w", domain.ErrArchiveDisabled)
	}

	snap, err := a.Snapshot(ctx, songURL)
	if err != nil {
		return domain.Snapshot{}, err
	}

	stamped, err := domain.NewSnapshot(a.newID(), snap.SongURL, a.now().UTC())
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("service: %w", err)
	}
	snap.ID = stamped.ID
	snap.FetchedAt = stamped.FetchedAt

	if err := a.repo.Save(ctx, snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("service: failed to save snapshot: %w", err)
	}
	log.Printf("INFO service: archived snapshot %s for %s", snap.ID, snap.SongURL)
	return snap, nil
}

func (a *Archiver) GetArchived(ctx context.Context, id string) (domain.Snapshot, error) {
	if a.repo == nil {
		return domain.Snapshot{}, fmt.Errorf("service: %w", domain.ErrArchiveDisabled)
	}
	id, err := requireArg("snapshot id", id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("service: failed to load snapshot: %w", err)
	}
	return snap, nil
}

func (a *Archiver) ListArchived(ctx context.Context, songURL string) ([]domain.Snapshot, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("service: %w", domain.ErrArchiveDisabled)
	}
	songURL, err := requireArg("song url", songURL)
	if err != nil {
		return nil, err
	}
	snaps, err := a.repo.ListBySongURL(ctx, songURL)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list snapshots: %w", err)
	}
	return snaps, nil
}
