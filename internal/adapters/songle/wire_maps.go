package songle

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

// mapPath returns the endpoint serving the current or a historical map of kind.
func mapPath(kind domain.MapKind) string {
	return fmt.Sprintf("/api/v1/song/%s.json", kind)
}

// GetBeats retrieves the beat map. revisionID 0 selects the latest revision.
func (c *Client) GetBeats(ctx context.Context, songURL string, revisionID int) (domain.BeatInfo, error) {
	var bm songleBeatMap
	if err := c.getJSON(ctx, mapPath(domain.MapBeat), songParams(songURL, revisionID), &bm); err != nil {
		return domain.BeatInfo{}, fmt.Errorf("songle adapter: beat map: %w", err)
	}
	return mapBeatsToDomain(bm), nil
}

// GetChords retrieves the chord map. revisionID 0 selects the latest revision.
func (c *Client) GetChords(ctx context.Context, songURL string, revisionID int) (domain.ChordInfo, error) {
	var cm songleChordMap
	if err := c.getJSON(ctx, mapPath(domain.MapChord), songParams(songURL, revisionID), &cm); err != nil {
		return domain.ChordInfo{}, fmt.Errorf("songle adapter: chord map: %w", err)
	}
	return mapChordsToDomain(cm), nil
}

// GetMelody retrieves the melody map. revisionID 0 selects the latest revision.
func (c *Client) GetMelody(ctx context.Context, songURL string, revisionID int) (domain.MelodyInfo, error) {
	var mm songleMelodyMap
	if err := c.getJSON(ctx, mapPath(domain.MapMelody), songParams(songURL, revisionID), &mm); err != nil {
		return domain.MelodyInfo{}, fmt.Errorf("songle adapter: melody map: %w", err)
	}
	return mapMelodyToDomain(mm), nil
}

// GetChorus retrieves chorus and repeat sections. revisionID 0 selects the latest revision.
func (c *Client) GetChorus(ctx context.Context, songURL string, revisionID int) (domain.ChorusInfo, error) {
	var cm songleChorusMap
	if err := c.getJSON(ctx, mapPath(domain.MapChorus), songParams(songURL, revisionID), &cm); err != nil {
		return domain.ChorusInfo{}, fmt.Errorf("songle adapter: chorus map: %w", err)
	}
	return mapChorusToDomain(cm), nil
}
