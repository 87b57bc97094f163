package domain

import "time"

// Snapshot captures a song's metadata together with the latest version of
// every song map at one point in time.
type Snapshot struct {
	ID        string     `json:"id"`
	SongURL   string     `json:"song_url"`
	FetchedAt time.Time  `json:"fetched_at"`
	Song      Song       `json:"song"`
	Beats     BeatInfo   `json:"beats"`
	Chords    ChordInfo  `json:"chords"`
	Melody    MelodyInfo `json:"melody"`
	Chorus    ChorusInfo `json:"chorus"`
}

// Summary condenses a snapshot for listings.
type Summary struct {
	Beats          int     `json:"beats"`
	AverageBPM     float64 `json:"average_bpm"`
	Chords         int     `json:"chords"`
	DistinctChords int     `json:"distinct_chords"`
	Notes          int     `json:"notes"`
	ChorusRepeats  int     `json:"chorus_repeats"`
}

func NewSnapshot(id, songURL string, fetchedAt time.Time) (*Snapshot, error) {
	if id == "" || songURL == "" {
		return nil, ErrInvalidArgument
	}
	return &Snapshot{
		ID:        id,
		SongURL:   songURL,
		FetchedAt: fetchedAt,
	}, nil
}

// Summarize counts the entries of every map. AverageBPM ignores beats that
// carry no tempo; "N" chords are not counted as distinct chords.
func (s Snapshot) Summarize() Summary {
	sum := Summary{
		Beats:  len(s.Beats.Beats),
		Chords: len(s.Chords.Chords),
		Notes:  len(s.Melody.Notes),
	}

	var bpmTotal float64
	var bpmCount int
	for _, b := range s.Beats.Beats {
		if b.BPM > 0 {
			bpmTotal += b.BPM
			bpmCount++
		}
	}
	if bpmCount > 0 {
		sum.AverageBPM = bpmTotal / float64(bpmCount)
	}

	seen := make(map[string]struct{})
	for _, c := range s.Chords.Chords {
		if c.Name == "" || c.Name == "N" {
			continue
		}
		seen[c.Name] = struct{}{}
	}
	sum.DistinctChords = len(seen)

	for _, seg := range s.Chorus.ChorusSegments {
		sum.ChorusRepeats += len(seg.Repeats)
	}

	return sum
}
