package core

import (
	"context"
	"errors"
	"time"
)

// User represents an authenticated principal returned to handlers. It never
// carries the password hash.
type User struct {
	ID        int64
	Nome      string
	Email     string
	CreatedAt time.Time
}

var (
	// ErrEmailTaken is returned when registration hits an already used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for login failure. Unknown email and
	// wrong password produce this same value so callers cannot probe which
	// accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is the single outcome for every bearer-token
	// failure: missing, malformed, unsigned, expired, or unknown subject.
	ErrUnauthenticated = errors.New("not authenticated")
)

// AuthService implements registration, login and principal resolution over a
// user repository and a token issuer.
type AuthService struct {
	users  UserRepository
	tokens *TokenIssuer
}

func NewAuthService(users UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register hashes the password and persists a new user. Duplicate emails are
// rejected by the store's unique constraint and reported as ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, nome, email, password string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	rec, err := s.users.Create(ctx, nome, email, hash)
	if err != nil {
		return User{}, err
	}
	return userFromRecord(rec), nil
}

// Login verifies the credentials and issues a bearer token bound to the
// user's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	rec, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !CheckPassword(password, rec.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(rec.Email)
}

// Authenticate resolves the principal for a presented bearer token: verify
// the token, take its subject as the email, and load the user. Every failure
// collapses into ErrUnauthenticated except store errors, which pass through
// as server failures.
func (s *AuthService) Authenticate(ctx context.Context, token string) (User, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return User{}, ErrUnauthenticated
	}
	rec, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			return User{}, ErrUnauthenticated
		}
		return User{}, err
	}
	return userFromRecord(rec), nil
}

func userFromRecord(rec *UserRecord) User {
	return User{ID: rec.ID, Nome: rec.Nome, Email: rec.Email, CreatedAt: rec.CreatedAt}
}
