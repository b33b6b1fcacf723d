package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaUp = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS streams (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		streami_id VARCHAR(255) UNIQUE NOT NULL,
		hls_url TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active'
			CHECK (status IN ('active', 'inactive', 'ended')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by INTEGER NOT NULL REFERENCES users(id),
		viewers INTEGER NOT NULL DEFAULT 0,
		thumbnail TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_streams_status_created ON streams(status, created_at DESC)`,
}

var schemaDown = []string{
	`DROP TABLE IF EXISTS streams`,
	`DROP TABLE IF EXISTS users`,
}

// Migrate creates the schema. Safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, schemaUp)
}

// Rollback drops every table created by Migrate.
func Rollback(ctx context.Context, db *sql.DB) error {
	return execAll(ctx, db, schemaDown)
}

func execAll(ctx context.Context, db *sql.DB, queries []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return tx.Commit()
}
