package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Zerr0-C00L/StreamHub/internal/models"
)

type StreamStore struct {
	db *sql.DB
}

func NewStreamStore(db *sql.DB) *StreamStore {
	return &StreamStore{db: db}
}

const streamSelect = `
	SELECT s.id, s.title, s.description, s.streami_id, s.hls_url, s.status,
		s.created_at, s.created_by, COALESCE(u.name, ''), COALESCE(u.email, ''),
		s.viewers, s.thumbnail
	FROM streams s
	LEFT JOIN users u ON u.id = s.created_by`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStream(row rowScanner) (*models.Stream, error) {
	var s models.Stream
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.StreamiID, &s.HLSURL, &s.Status,
		&s.CreatedAt, &s.CreatedBy.ID, &s.CreatedBy.Name, &s.CreatedBy.Email,
		&s.Viewers, &s.Thumbnail,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns streams newest first. A nil status returns every stream.
func (s *StreamStore) List(ctx context.Context, status *models.StreamStatus) ([]*models.Stream, error) {
	query := streamSelect
	var args []any
	if status != nil {
		query += ` WHERE s.status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}
	defer rows.Close()

	streams := make([]*models.Stream, 0)
	for rows.Next() {
		stream, err := scanStream(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stream: %w", err)
		}
		streams = append(streams, stream)
	}
	return streams, rows.Err()
}

// Get returns ErrNotFound for unknown or malformed ids.
func (s *StreamStore) Get(ctx context.Context, id string) (*models.Stream, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	stream, err := scanStream(s.db.QueryRowContext(ctx, streamSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}
	return stream, nil
}

// Create assigns the id, creation time and defaults, then inserts the stream.
func (s *StreamStore) Create(ctx context.Context, stream *models.Stream) error {
	stream.ID = uuid.New().String()
	if stream.Status == "" {
		stream.Status = models.StreamActive
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO streams (id, title, description, streami_id, hls_url, status, created_by, viewers, thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
		RETURNING created_at, viewers
	`, stream.ID, stream.Title, stream.Description, stream.StreamiID, stream.HLSURL,
		string(stream.Status), stream.CreatedBy.ID, stream.Thumbnail,
	).Scan(&stream.CreatedAt, &stream.Viewers)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

func (s *StreamStore) UpdateStatus(ctx context.Context, id string, status models.StreamStatus) (*models.Stream, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `UPDATE streams SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to update stream status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *StreamStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM streams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete stream: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustViewers applies delta atomically and never lets the count drop below zero.
func (s *StreamStore) AdjustViewers(ctx context.Context, id string, delta int) (int, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, ErrNotFound
	}

	var viewers int
	err := s.db.QueryRowContext(ctx, `
		UPDATE streams SET viewers = GREATEST(viewers + $2, 0)
		WHERE id = $1
		RETURNING viewers
	`, id, delta).Scan(&viewers)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to update viewer count: %w", err)
	}
	return viewers, nil
}

func (s *StreamStore) Stats(ctx context.Context) (*models.StreamStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(viewers), 0)
		FROM streams
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream stats: %w", err)
	}
	defer rows.Close()

	stats := &models.StreamStats{ByStatus: map[models.StreamStatus]int{
		models.StreamActive:   0,
		models.StreamInactive: 0,
		models.StreamEnded:    0,
	}}
	for rows.Next() {
		var status string
		var count, viewers int
		if err := rows.Scan(&status, &count, &viewers); err != nil {
			return nil, fmt.Errorf("failed to scan stream stats: %w", err)
		}
		stats.ByStatus[models.StreamStatus(status)] = count
		stats.Total += count
		stats.TotalViewers += viewers
	}
	return stats, rows.Err()
}
