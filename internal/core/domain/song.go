package domain

import "errors"

var (
	ErrNotFound        = errors.New("domain: not found")
	ErrInvalidArgument = errors.New("domain: invalid argument")
	ErrArchiveDisabled = errors.New("domain: archive disabled")
	ErrUnknownMapKind  = errors.New("domain: unknown map kind")
)

// Artist represents the performer attached to a song.
type Artist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Song represents a song's metadata as known to Songle.
type Song struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Permalink    string  `json:"permalink"`
	Code         string  `json:"code"`
	Artist       Artist  `json:"artist"`
	DurationMs   int     `json:"duration_ms"`
	RMSAmplitude float64 `json:"rms_amplitude"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	RecognizedAt string  `json:"recognized_at"`
}
