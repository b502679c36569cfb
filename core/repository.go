package core

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoUser is returned when a lookup matches no user.
var ErrNoUser = errors.New("user not found")

// UserRecord represents the user row as stored, including the password hash.
type UserRecord struct {
	ID           int64
	Nome         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	Create(ctx context.Context, nome, email, passwordHash string) (*UserRecord, error)
}

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	db *pgxpool.Pool
}

func NewPgUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// FindByEmail looks up a user by exact (case-sensitive) email.
func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	const q = `SELECT id, nome, email, password_hash, created_at FROM users WHERE email=$1`
	var u UserRecord
	if err := r.db.QueryRow(ctx, q, email).Scan(&u.ID, &u.Nome, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoUser
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. A concurrent insert with the same email loses at the
// unique index and surfaces as ErrEmailTaken; no application-level locking.
func (r *PgUserRepository) Create(ctx context.Context, nome, email, passwordHash string) (*UserRecord, error) {
	const q = `INSERT INTO users (nome, email, password_hash) VALUES ($1,$2,$3) RETURNING id, created_at`
	u := UserRecord{Nome: nome, Email: email, PasswordHash: passwordHash}
	if err := r.db.QueryRow(ctx, q, nome, email, passwordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
