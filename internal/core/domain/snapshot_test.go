package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s, err := NewSnapshot("snap-1", "www.youtube.com/watch?v=PqJNc9KVIZE", now)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", s.ID)
	assert.Equal(t, now, s.FetchedAt)

	_, err = NewSnapshot("", "www.youtube.com/watch?v=PqJNc9KVIZE", now)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewSnapshot("snap-2", "", now)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSnapshot_Summarize(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		expected Summary
	}{
		{
			name:     "returns zero values for empty snapshot",
			snapshot: Snapshot{},
			expected: Summary{},
		},
		{
			name: "counts every map",
			snapshot: Snapshot{
				Beats: BeatInfo{Beats: []Beat{
					{Index: 1, Start: 0, BPM: 120},
					{Index: 2, Start: 500, BPM: 130},
					{Index: 3, Start: 1000, BPM: 0},
				}},
				Chords: ChordInfo{Chords: []Chord{
					{Index: 0, Start: 0, Name: "N"},
					{Index: 1, Start: 100, Name: "C"},
					{Index: 2, Start: 900, Name: "G"},
					{Index: 3, Start: 1800, Name: "C"},
				}},
				Melody: MelodyInfo{Notes: []Note{{Index: 0, Start: 0, Pitch: 60}}},
				Chorus: ChorusInfo{ChorusSegments: []ChorusSegment{
					{Index: 0, IsChorus: true, Repeats: []Repeat{{Start: 1000}, {Start: 5000}}},
				}},
			},
			expected: Summary{
				Beats:          3,
				AverageBPM:     125,
				Chords:         4,
				DistinctChords: 2,
				Notes:          1,
				ChorusRepeats:  2,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.snapshot.Summarize()
			if math.Abs(got.AverageBPM-tc.expected.AverageBPM) > 1e-9 {
				t.Fatalf("AverageBPM: got %v, want %v", got.AverageBPM, tc.expected.AverageBPM)
			}
			got.AverageBPM = tc.expected.AverageBPM
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseMapKind(t *testing.T) {
	for _, in := range []string{"beat", "Chord", " MELODY ", "chorus"} {
		k, err := ParseMapKind(in)
		require.NoError(t, err, in)
		assert.Contains(t, MapKinds, k)
	}

	_, err := ParseMapKind("lyrics")
	if !errors.Is(err, ErrUnknownMapKind) {
		t.Fatalf("expected ErrUnknownMapKind, got %v", err)
	}
}
