package songle

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

const (
	songPath   = "/api/v1/song.json"
	searchPath = "/api/v1/songs/search.json"
)

// GetSongInfo retrieves the metadata of the song hosted at songURL.
func (c *Client) GetSongInfo(ctx context.Context, songURL string) (domain.Song, error) {
	params := url.Values{}
	params.Set("url", songURL)

	var s songleSong
	if err := c.getJSON(ctx, songPath, params, &s); err != nil {
		return domain.Song{}, fmt.Errorf("songle adapter: song info: %w", err)
	}
	return mapSongToDomain(s), nil
}

// SearchSongs runs a free-text search. No matches yield an empty slice.
func (c *Client) SearchSongs(ctx context.Context, query string) ([]domain.Song, error) {
	params := url.Values{}
	params.Set("q", query)

	var results []songleSong
	if err := c.getJSON(ctx, searchPath, params, &results); err != nil {
		return nil, fmt.Errorf("songle adapter: search %q: %w", query, err)
	}
	return mapSongsToDomain(results), nil
}
