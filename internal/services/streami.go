package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
)

// PlatformStream is what the streaming platform returns for a new live stream.
type PlatformStream struct {
	ID        string `json:"id"`
	HLSURL    string `json:"hls_url"`
	Thumbnail string `json:"thumbnail"`
}

type StreamiClient struct {
	up *upstream
}

type StreamiOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Breaker BreakerSettings
}

func NewStreamiClient(opts StreamiOptions) *StreamiClient {
	up := newUpstream("streami", opts.BaseURL, opts.Timeout, opts.Breaker)
	apiKey := opts.APIKey
	up.authorize = func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	return &StreamiClient{up: up}
}

// CreateStream provisions a live stream on the platform.
func (c *StreamiClient) CreateStream(ctx context.Context, title, description string) (*PlatformStream, error) {
	body := map[string]string{
		"title":       title,
		"description": description,
		"type":        "live",
	}

	data, err := c.up.do(ctx, http.MethodPost, "/streams", nil, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform stream: %w", err)
	}

	var ps PlatformStream
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("failed to decode platform stream: %w", err)
	}
	if ps.ID == "" || ps.HLSURL == "" {
		return nil, fmt.Errorf("platform stream response missing id or hls_url")
	}
	return &ps, nil
}

// DeleteStream removes a stream from the platform. A 404 counts as already deleted.
func (c *StreamiClient) DeleteStream(ctx context.Context, id string) error {
	_, err := c.up.do(ctx, http.MethodDelete, "/streams/"+url.PathEscape(id), nil, nil)
	if err != nil && !IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("failed to delete platform stream %s: %w", id, err)
	}
	return nil
}
