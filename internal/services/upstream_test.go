package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	up := newUpstream("test", srv.URL, time.Second, BreakerSettings{
		FailureThreshold: 3,
		OpenTimeout:      time.Minute,
		HalfOpenRequests: 1,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := up.do(ctx, http.MethodGet, "/x", nil, nil); !IsStatus(err, http.StatusBadGateway) {
			t.Fatalf("call %d error = %v", i, err)
		}
	}
	if _, err := up.do(ctx, http.MethodGet, "/x", nil, nil); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if calls.Load() != 3 {
		t.Errorf("upstream reached %d times, want 3", calls.Load())
	}
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	up := newUpstream("test", srv.URL, time.Second, BreakerSettings{FailureThreshold: 2, OpenTimeout: time.Minute})
	for i := 0; i < 5; i++ {
		_, err := up.do(context.Background(), http.MethodGet, "/missing", nil, nil)
		if !IsStatus(err, http.StatusNotFound) {
			t.Fatalf("call %d error = %v, want 404", i, err)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{gobreaker.ErrOpenState, "circuit_open"},
		{&StatusError{StatusCode: 404}, "client_error"},
		{&StatusError{StatusCode: 503}, "error"},
		{errors.New("dial tcp: refused"), "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	up := newUpstream("test", "https://api.example.com/v1/", time.Second, BreakerSettings{})

	got, err := up.resolve("/streams", nil)
	if err != nil || got != "https://api.example.com/v1/streams" {
		t.Errorf("resolve(relative) = %q, %v", got, err)
	}
	got, err = up.resolve("https://cdn.example.com/a.m3u8", nil)
	if err != nil || got != "https://cdn.example.com/a.m3u8" {
		t.Errorf("resolve(absolute) = %q, %v", got, err)
	}
}
