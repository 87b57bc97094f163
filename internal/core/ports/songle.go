package ports

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

// APIError is returned for every failed Songle API call: transport failures,
// non-2xx responses, error payloads and bodies that do not decode.
// StatusCode is 0 when no HTTP response was received or the body was unreadable.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.StatusCode != 0 {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports 404 responses as domain.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsAPIError reports whether err carries an *APIError anywhere in its chain.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// SongMapProvider is the Songle API surface the core depends on.
// revisionID == domain.LatestRevision selects the current map.
type SongMapProvider interface {
	GetSongInfo(ctx context.Context, songURL string) (domain.Song, error)
	SearchSongs(ctx context.Context, query string) ([]domain.Song, error)
	GetBeats(ctx context.Context, songURL string, revisionID int) (domain.BeatInfo, error)
	GetChords(ctx context.Context, songURL string, revisionID int) (domain.ChordInfo, error)
	GetMelody(ctx context.Context, songURL string, revisionID int) (domain.MelodyInfo, error)
	GetChorus(ctx context.Context, songURL string, revisionID int) (domain.ChorusInfo, error)
	GetRevisions(ctx context.Context, kind domain.MapKind, songURL string) ([]domain.Revision, error)
}
