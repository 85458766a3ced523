package user

import (
	"context"
	"database/sql"
	"fmt"

	"campus-portal/internal/auth"
	"campus-portal/internal/db"
)

// Directory is the auth core's only contract with the user records:
// find or create by email, defaulting the role to STUDENT on creation.
// Role elevation never happens here.
type Directory interface {
	FindOrCreate(ctx context.Context, email string) (auth.Identity, error)
}

// Store is the postgres-backed directory.
type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindOrCreate(ctx context.Context, email string) (auth.Identity, error) {

	var identity auth.Identity

	// 1. Existing user wins; the stored role is authoritative.
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, role
		FROM users
		WHERE email = $1
	`, email).Scan(&identity.ID, &identity.Email, &identity.Role)

	if err == nil {
		return identity, nil
	}

	if err != sql.ErrNoRows {
		return auth.Identity{}, fmt.Errorf("user: lookup failed: %w", err)
	}

	// 2. First login creates a student record.
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, role)
		VALUES ($1, $2)
		RETURNING id, email, role
	`, email, auth.RoleStudent).Scan(&identity.ID, &identity.Email, &identity.Role)

	if err != nil {
		return auth.Identity{}, fmt.Errorf("user: create failed: %w", err)
	}

	return identity, nil
}

// FindByEmail returns the identity for email, or sql.ErrNoRows.
func (s *Store) FindByEmail(ctx context.Context, email string) (auth.Identity, error) {
	var identity auth.Identity
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, role
		FROM users
		WHERE email = $1
	`, email).Scan(&identity.ID, &identity.Email, &identity.Role)
	if err != nil {
		return auth.Identity{}, err
	}
	return identity, nil
}
