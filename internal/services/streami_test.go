package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTestStreami(t *testing.T, handler http.HandlerFunc) *StreamiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStreamiClient(StreamiOptions{APIKey: "secret", BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestStreamiCreateStream(t *testing.T) {
	client := newTestStreami(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/streams" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["title"] != "Launch" || body["description"] != "Live launch" || body["type"] != "live" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"sm-42","hls_url":"https://cdn.example.com/sm-42.m3u8"}`)
	})

	ps, err := client.CreateStream(context.Background(), "Launch", "Live launch")
	if err != nil {
		t.Fatalf("CreateStream() error = %v", err)
	}
	if ps.ID != "sm-42" || ps.HLSURL != "https://cdn.example.com/sm-42.m3u8" || ps.Thumbnail != "" {
		t.Errorf("CreateStream() = %+v", ps)
	}
}

func TestStreamiCreateStreamIncompleteResponse(t *testing.T) {
	client := newTestStreami(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"sm-1"}`)
	})
	if _, err := client.CreateStream(context.Background(), "a", "b"); err == nil {
		t.Error("expected error when hls_url is missing")
	}
}

func TestStreamiDeleteStream(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"deleted", http.StatusNoContent, false},
		{"already gone", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestStreami(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/streams/sm-42" {
					t.Errorf("%s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
			})
			err := client.DeleteStream(context.Background(), "sm-42")
			if (err != nil) != tt.wantErr {
				t.Errorf("DeleteStream() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
