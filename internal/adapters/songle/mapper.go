package songle

import (
	"math"
	"strings"
	"time"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

// revisionTimeLayouts are tried in order when parsing revision timestamps.
var revisionTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
}

// ms rounds a millisecond value reported as a JSON number.
func ms(v float64) int {
	return int(math.Round(v))
}

// mapSongToDomain converts a raw Songle song to a domain Song.
func mapSongToDomain(s songleSong) domain.Song {
	return domain.Song{
		ID:        s.ID,
		Title:     s.Title,
		URL:       s.URL,
		Permalink: s.Permalink,
		Code:      s.Code,
		Artist: domain.Artist{
			ID:   s.Artist.ID,
			Name: s.Artist.Name,
		},
		DurationMs:   ms(s.Duration),
		RMSAmplitude: s.RMSAmplitude,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		RecognizedAt: s.RecognizedAt,
	}
}

// mapSongsToDomain keeps response order and never returns nil.
func mapSongsToDomain(in []songleSong) []domain.Song {
	out := make([]domain.Song, 0, len(in))
	for _, s := range in {
		out = append(out, mapSongToDomain(s))
	}
	return out
}

func mapBeatsToDomain(bm songleBeatMap) domain.BeatInfo {
	beats := make([]domain.Beat, 0, len(bm.Beats))
	for _, b := range bm.Beats {
		beats = append(beats, domain.Beat{
			Index:    b.Index,
			Start:    ms(b.Start),
			Count:    b.Count,
			Position: b.Position,
			BPM:      b.BPM,
		})
	}
	return domain.BeatInfo{Beats: beats}
}

func mapChordsToDomain(cm songleChordMap) domain.ChordInfo {
	chords := make([]domain.Chord, 0, len(cm.Chords))
	for _, c := range cm.Chords {
		chords = append(chords, domain.Chord{
			Index:    c.Index,
			Start:    ms(c.Start),
			Duration: ms(c.Duration),
			Name:     c.Name,
		})
	}
	return domain.ChordInfo{Chords: chords}
}

func mapMelodyToDomain(mm songleMelodyMap) domain.MelodyInfo {
	notes := make([]domain.Note, 0, len(mm.Notes))
	for _, n := range mm.Notes {
		pitch := midiNumber(n.Pitch)
		if n.Number != nil {
			pitch = *n.Number
		}
		notes = append(notes, domain.Note{
			Index:    n.Index,
			Start:    ms(n.Start),
			Duration: ms(n.Duration),
			Pitch:    pitch,
			PitchHz:  n.Pitch,
		})
	}
	return domain.MelodyInfo{Notes: notes}
}

// midiNumber converts a frequency to the nearest MIDI note (A4 = 440 Hz = 69).
func midiNumber(hz float64) int {
	if hz <= 0 {
		return 0
	}
	return int(math.Round(69 + 12*math.Log2(hz/440)))
}

func mapRepeats(in []songleRepeat) []domain.Repeat {
	out := make([]domain.Repeat, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Repeat{
			Index:    r.Index,
			Start:    ms(r.Start),
			Duration: ms(r.Duration),
		})
	}
	return out
}

func mapChorusToDomain(cm songleChorusMap) domain.ChorusInfo {
	chorus := make([]domain.ChorusSegment, 0, len(cm.ChorusSegments))
	for _, s := range cm.ChorusSegments {
		chorus = append(chorus, domain.ChorusSegment{
			Index:    s.Index,
			IsChorus: s.IsChorus,
			Duration: ms(s.Duration),
			Repeats:  mapRepeats(s.Repeats),
		})
	}

	repeats := make([]domain.RepeatSegment, 0, len(cm.RepeatSegments))
	for _, s := range cm.RepeatSegments {
		repeats = append(repeats, domain.RepeatSegment{
			Index:    s.Index,
			IsChorus: s.IsChorus,
			Duration: ms(s.Duration),
			Repeats:  mapRepeats(s.Repeats),
		})
	}

	return domain.ChorusInfo{
		ChorusSegments: chorus,
		RepeatSegments: repeats,
	}
}

func mapRevisionsToDomain(in []songleRevision) []domain.Revision {
	out := make([]domain.Revision, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Revision{
			ID:        r.ID,
			Label:     r.CreatedAt,
			CreatedAt: parseRevisionTime(r.CreatedAt),
			UpdatedAt: parseRevisionTime(r.UpdatedAt),
		})
	}
	return out
}

// parseRevisionTime returns the zero time for strings it does not recognise.
func parseRevisionTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range revisionTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
