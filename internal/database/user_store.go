package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Zerr0-C00L/StreamHub/internal/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// usersLockKey serialises registrations so only one first user becomes admin.
const usersLockKey = 73190412

// Create inserts a user with an already hashed password. The first user
// registered on an empty table becomes an admin.
func (s *UserStore) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	user := &models.User{Name: name, Email: email, Password: passwordHash}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Under READ COMMITTED the EXISTS check below cannot see rows from
	// concurrent uncommitted inserts, so registrations take turns.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, usersLockKey); err != nil {
		return nil, fmt.Errorf("failed to lock users: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3,
			CASE WHEN EXISTS (SELECT 1 FROM users) THEN 'user' ELSE 'admin' END)
		RETURNING id, role, created_at
	`, name, email, passwordHash).Scan(&user.ID, &user.Role, &user.CreatedAt)

	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user: %w", err)
	}
	return user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	return s.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail matches case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, `WHERE LOWER(email) = LOWER($1)`, email)
}

func (s *UserStore) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password, role, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, password, role, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
