package songle

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ewilliams-labs/songle/internal/core/domain"
)

func revisionsPath(kind domain.MapKind) string {
	return fmt.Sprintf("/api/v1/song/%s_revisions.json", kind)
}

// GetRevisions lists the versions of one song map kind, in API order.
func (c *Client) GetRevisions(ctx context.Context, kind domain.MapKind, songURL string) ([]domain.Revision, error) {
	kind, err := domain.ParseMapKind(string(kind))
	if err != nil {
		return nil, fmt.Errorf("songle adapter: %w", err)
	}

	params := url.Values{}
	params.Set("url", songURL)

	var revs []songleRevision
	if err := c.getJSON(ctx, revisionsPath(kind), params, &revs); err != nil {
		return nil, fmt.Errorf("songle adapter: %s revisions: %w", kind, err)
	}
	return mapRevisionsToDomain(revs), nil
}

func (c *Client) GetBeatRevisions(ctx context.Context, songURL string) ([]domain.Revision, error) {
	return c.GetRevisions(ctx, domain.MapBeat, songURL)
}

func (c *Client) GetChordRevisions(ctx context.Context, songURL string) ([]domain.Revision, error) {
	return c.GetRevisions(ctx, domain.MapChord, songURL)
}

func (c *Client) GetMelodyRevisions(ctx context.Context, songURL string) ([]domain.Revision, error) {
	return c.GetRevisions(ctx, domain.MapMelody, songURL)
}

func (c *Client) GetChorusRevisions(ctx context.Context, songURL string) ([]domain.Revision, error) {
	return c.GetRevisions(ctx, domain.MapChorus, songURL)
}
