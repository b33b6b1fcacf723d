package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/Zerr0-C00L/StreamHub/internal/cache"
	"github.com/Zerr0-C00L/StreamHub/internal/logging"
	"github.com/Zerr0-C00L/StreamHub/internal/metrics"
)

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// BreakerSettings configures the circuit breaker in front of an upstream.
// A zero FailureThreshold disables the breaker.
type BreakerSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	HalfOpenRequests uint32
}

type freshKey struct{}

// WithFreshData makes cached GETs skip the cache read and overwrite the entry.
func WithFreshData(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

func wantsFresh(ctx context.Context) bool {
	v, _ := ctx.Value(freshKey{}).(bool)
	return v
}

// upstream is the HTTP plumbing shared by every external API client.
type upstream struct {
	name       string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	cache      cache.Cache
	cacheTTL   time.Duration

	// authorize adds credentials to each outgoing request
	authorize func(req *http.Request)
}

func newUpstream(name, baseURL string, timeout time.Duration, bs BreakerSettings) *upstream {
	u := &upstream{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}

	if bs.FailureThreshold > 0 {
		u.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        name,
			MaxRequests: bs.HalfOpenRequests,
			Timeout:     bs.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= bs.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().
					Str("upstream", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Circuit breaker state changed")
			},
			// Client errors mean the upstream is healthy.
			IsSuccessful: func(err error) bool {
				var se *StatusError
				if errors.As(err, &se) {
					return se.StatusCode < 500
				}
				return err == nil
			},
		})
	}
	return u
}

func (u *upstream) withCache(c cache.Cache, ttl time.Duration) *upstream {
	u.cache = c
	u.cacheTTL = ttl
	return u
}

// resolve joins path onto the base URL unless it is already absolute.
func (u *upstream) resolve(path string, params url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = u.baseURL + path
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s endpoint %s: %w", u.name, raw, err)
	}
	if len(params) > 0 {
		q := parsed.Query()
		for k, vals := range params {
			for _, v := range vals {
				q.Add(k, v)
			}
		}
		parsed.RawQuery = q.Encode()
	}
	return parsed.String(), nil
}

// do sends one request through the breaker and returns the body of a 2xx response.
func (u *upstream) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	endpoint, err := u.resolve(path, params)
	if err != nil {
		return nil, err
	}

	call := func() ([]byte, error) {
		return u.send(ctx, method, endpoint, body)
	}

	start := time.Now()
	var data []byte
	if u.breaker != nil {
		data, err = u.breaker.Execute(call)
	} else {
		data, err = call()
	}
	metrics.UpstreamDuration.WithLabelValues(u.name).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues(u.name, outcome(err)).Inc()

	if err != nil {
		return nil, err
	}
	return data, nil
}

func (u *upstream) send(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", u.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if u.authorize != nil {
		u.authorize(req)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request to %s: %w", u.name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", u.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(data)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &StatusError{Upstream: u.name, StatusCode: resp.StatusCode, Body: snippet}
	}
	return data, nil
}

// getJSON performs a GET and decodes the body into out, going through the cache when one is set.
func (u *upstream) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	key := u.name + ":" + path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if u.cache != nil && !wantsFresh(ctx) {
		if data, err := u.cache.Get(ctx, key); err == nil {
			if err := json.Unmarshal(data, out); err == nil {
				metrics.CacheLookups.WithLabelValues(u.name, "hit").Inc()
				return nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			logging.Ctx(ctx).Warn().Err(err).Str("upstream", u.name).Msg("Cache read failed")
		}
		metrics.CacheLookups.WithLabelValues(u.name, "miss").Inc()
	}

	data, err := u.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", u.name, err)
	}

	if u.cache != nil {
		if err := u.cache.Set(ctx, key, data, u.cacheTTL); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("upstream", u.name).Msg("Cache write failed")
		}
	}
	return nil
}

func outcome(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.As(err, &se) && se.StatusCode < 500:
		return "client_error"
	default:
		return "error"
	}
}
