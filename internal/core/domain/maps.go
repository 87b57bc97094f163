package domain

import (
	"fmt"
	"strings"
	"time"
)

// LatestRevision selects the current version of a song map.
const LatestRevision = 0

// MapKind names one of the four song map annotation types.
type MapKind string

const (
	MapBeat   MapKind = "beat"
	MapChord  MapKind = "chord"
	MapMelody MapKind = "melody"
	MapChorus MapKind = "chorus"
)

// MapKinds lists every song map kind in the order a snapshot is collected.
var MapKinds = []MapKind{MapBeat, MapChord, MapMelody, MapChorus}

// ParseMapKind resolves a case-insensitive kind name.
func ParseMapKind(s string) (MapKind, error) {
	k := MapKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range MapKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMapKind, s)
}

// Beat is one entry of a beat map.
type Beat struct {
	Index    int     `json:"index"`
	Start    int     `json:"start"`
	Count    int     `json:"count"`
	Position int     `json:"position"`
	BPM      float64 `json:"bpm"`
}

type BeatInfo struct {
	Beats []Beat `json:"beats"`
}

// Chord is one entry of a chord map. Name "N" marks a stretch with no chord.
type Chord struct {
	Index    int    `json:"index"`
	Start    int    `json:"start"`
	Duration int    `json:"duration"`
	Name     string `json:"name"`
}

type ChordInfo struct {
	Chords []Chord `json:"chords"`
}

// Note is one entry of a melody map. Pitch is a MIDI note number.
type Note struct {
	Index    int     `json:"index"`
	Start    int     `json:"start"`
	Duration int     `json:"duration"`
	Pitch    int     `json:"pitch"`
	PitchHz  float64 `json:"pitch_hz"`
}

type MelodyInfo struct {
	Notes []Note `json:"notes"`
}

// Repeat is one occurrence of a repeated section.
type Repeat struct {
	Index    int `json:"index"`
	Start    int `json:"start"`
	Duration int `json:"duration"`
}

type ChorusSegment struct {
	Index    int      `json:"index"`
	IsChorus bool     `json:"is_chorus"`
	Duration int      `json:"duration"`
	Repeats  []Repeat `json:"repeats"`
}

type RepeatSegment struct {
	Index    int      `json:"index"`
	IsChorus bool     `json:"is_chorus"`
	Duration int      `json:"duration"`
	Repeats  []Repeat `json:"repeats"`
}

// ChorusInfo holds chorus sections and the other repeated sections of a song.
type ChorusInfo struct {
	ChorusSegments []ChorusSegment `json:"chorus_segments"`
	RepeatSegments []RepeatSegment `json:"repeat_segments"`
}

// Revision is one historical version of a song map.
// Label keeps the API's createdAt string verbatim; the parsed times are zero
// when that string is not a recognised timestamp.
type Revision struct {
	ID        int       `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
