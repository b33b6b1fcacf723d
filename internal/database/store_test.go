package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unique", &pq.Error{Code: "23505"}, true},
		{"wrapped unique", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"foreign key", &pq.Error{Code: "23503"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Malformed ids short-circuit before touching the database.
func TestStreamStoreMalformedID(t *testing.T) {
	s := NewStreamStore(nil)
	ctx := context.Background()

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := s.UpdateStatus(ctx, "nope", "ended"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus() error = %v", err)
	}
	if _, err := s.AdjustViewers(ctx, "nope", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("AdjustViewers() error = %v", err)
	}
}
