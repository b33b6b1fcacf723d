package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Zerr0-C00L/StreamHub/internal/cache"
	"github.com/Zerr0-C00L/StreamHub/internal/models"
)

// SportsClient reads the public sports-schedule API (streamed.pk compatible).
type SportsClient struct {
	up   *upstream
	base *url.URL
}

type SportsOptions struct {
	BaseURL  string
	Timeout  time.Duration
	Breaker  BreakerSettings
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewSportsClient(opts SportsOptions) (*SportsClient, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid sports api base url: %w", err)
	}

	up := newUpstream("sports", opts.BaseURL, opts.Timeout, opts.Breaker)
	if opts.Cache != nil {
		up.withCache(opts.Cache, opts.CacheTTL)
	}
	return &SportsClient{up: up, base: base}, nil
}

func (c *SportsClient) Sports(ctx context.Context) ([]models.Sport, error) {
	var sports []models.Sport
	if err := c.up.getJSON(ctx, "/api/sports", nil, &sports); err != nil {
		return nil, fmt.Errorf("failed to fetch sports: %w", err)
	}
	return nonNil(sports), nil
}

// Matches lists a sport's matches with watch ids and absolute poster URLs filled in.
func (c *SportsClient) Matches(ctx context.Context, sport string) ([]models.Match, error) {
	var matches []models.Match
	if err := c.up.getJSON(ctx, "/api/matches/"+url.PathEscape(sport), nil, &matches); err != nil {
		return nil, fmt.Errorf("failed to fetch %s matches: %w", sport, err)
	}

	for i := range matches {
		m := &matches[i]
		m.Sources = nonNil(m.Sources)
		m.SourceCount = len(m.Sources)
		m.WatchID = watchID(m)
		if m.Category == "" {
			m.Category = sport
		}
		m.Poster = c.absolute(m.Poster)
	}
	return nonNil(matches), nil
}

// MatchStreams returns every stream for one source and selects the first.
func (c *SportsClient) MatchStreams(ctx context.Context, source, id string) (*models.MatchStreams, error) {
	var streams []models.MatchStream
	path := "/api/stream/" + url.PathEscape(source) + "/" + url.PathEscape(id)
	if err := c.up.getJSON(ctx, path, nil, &streams); err != nil {
		return nil, fmt.Errorf("failed to fetch streams for %s/%s: %w", source, id, err)
	}

	result := &models.MatchStreams{Streams: nonNil(streams)}
	if len(streams) > 0 {
		result.Selected = &result.Streams[0]
		result.PlayerURL = result.Selected.PlayerURL()
	}
	return result, nil
}

func watchID(m *models.Match) string {
	if len(m.Sources) == 0 {
		return m.ID
	}
	return m.Sources[0].Source + "-" + m.Sources[0].ID
}

func (c *SportsClient) absolute(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return c.base.ResolveReference(u).String()
}
