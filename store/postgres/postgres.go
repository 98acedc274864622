// Package postgres implements store.Repository backed by PostgreSQL.
//
// The users and sessions tables mirror the key space used by the BBolt and
// in-memory backends. Email uniqueness is enforced by the database rather
// than by an application-level read-then-write, so concurrent registrations
// of the same address cannot race.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmcleod/gatehouse/store"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// Repository implements store.Repository backed by PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

var _ store.Repository = (*Repository)(nil)

// NewRepository returns a Repository backed by the given pgx connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NewRepositoryFromDSN creates a connection pool from a DSN string, ensures
// the schema exists, and returns a new Repository.
func NewRepositoryFromDSN(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return NewRepository(pool), nil
}

// Close closes the underlying connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

func (r *Repository) CreateUser(u store.UserRecord) error {
	_, err := r.pool.Exec(context.Background(),
		`INSERT INTO users (id, email, hashed_password, session_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.HashedPassword, nullable(u.SessionID), u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicateEmail
	}
	return err
}

func (r *Repository) FindUserByEmail(email string) (*store.UserRecord, error) {
	return r.findUser(`SELECT id, email, hashed_password, session_id, created_at
		 FROM users WHERE email = $1`, email)
}

func (r *Repository) FindUserByID(id string) (*store.UserRecord, error) {
	return r.findUser(`SELECT id, email, hashed_password, session_id, created_at
		 FROM users WHERE id = $1`, id)
}

func (r *Repository) findUser(query, arg string) (*store.UserRecord, error) {
	var (
		u         store.UserRecord
		sessionID *string
	)
	err := r.pool.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Email, &u.HashedPassword, &sessionID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", arg, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if sessionID != nil {
		u.SessionID = *sessionID
	}
	return &u, nil
}

func (r *Repository) UpdateUser(u store.UserRecord) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE users SET email = $2, hashed_password = $3, session_id = $4
		 WHERE id = $1`,
		u.ID, u.Email, u.HashedPassword, nullable(u.SessionID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", u.ID, store.ErrNotFound)
	}
	return nil
}

func (r *Repository) SaveSession(s store.SessionRecord) error {
	_, err := r.pool.Exec(context.Background(),
		`INSERT INTO sessions (session_id, user_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id) DO UPDATE SET user_id = $2, created_at = $3`,
		s.SessionID, s.UserID, s.CreatedAt)
	return err
}

func (r *Repository) FindSession(sessionID string) (*store.SessionRecord, error) {
	var rec store.SessionRecord
	err := r.pool.QueryRow(context.Background(),
		`SELECT session_id, user_id, created_at FROM sessions WHERE session_id = $1`,
		sessionID).Scan(&rec.SessionID, &rec.UserID, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, store.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) DeleteSession(sessionID string) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", sessionID, store.ErrNotFound)
	}
	return nil
}

// nullable maps an empty string to NULL so the session_id column stays
// genuinely optional.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
