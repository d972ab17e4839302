package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rollcall/internal/apperr"
)

// dummyHash is a bcrypt hash of an arbitrary string, compared against when
// the username is unknown.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service is the auth gateway: registration, login, logout and session
// verification.
type Service struct {
	repo       Repository
	sessions   SessionStore
	issuer     string
	signingKey string
	sessionTTL time.Duration
}

// NewService creates the gateway. All configuration is passed in explicitly;
// there is no process-wide secret state.
func NewService(repo Repository, sessions SessionStore, issuer, signingKey string, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &Service{
		repo:       repo,
		sessions:   sessions,
		issuer:     issuer,
		signingKey: signingKey,
		sessionTTL: sessionTTL,
	}
}

// Register creates a user with a bcrypt password hash. The plaintext password
// is never stored.
func (s *Service) Register(ctx context.Context, username, password, roleStr string) (User, error) {
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return User{}, apperr.NewValidation(missing...)
	}
	role, err := ParseRole(roleStr)
	if err != nil {
		return User{}, apperr.NewValidation("role")
	}

	if existing, err := s.repo.GetByUsername(ctx, username); err != nil {
		return User{}, err
	} else if existing != nil {
		return User{}, apperr.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies the credentials and establishes a session. The failure is
// the same whether the username is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, username, password string) (string, Session, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return "", Session{}, err
	}
	if user == nil || !user.Active {
		// dummy compare so unknown users cost the same as wrong passwords
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return "", Session{}, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", Session{}, apperr.ErrInvalidCredentials
	}

	sess := Session{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if err := s.sessions.Create(ctx, sess, s.sessionTTL); err != nil {
		return "", Session{}, err
	}
	token, err := SignSession(sess, s.issuer, s.signingKey, s.sessionTTL)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, sess, nil
}

// Logout revokes the session behind the token. Invalid tokens are ignored so
// logout always succeeds.
func (s *Service) Logout(ctx context.Context, token string) {
	claims, err := ParseSessionToken(token, s.signingKey, s.issuer)
	if err != nil {
		return
	}
	_ = s.sessions.Delete(ctx, claims.ID)
}

// Verify checks the token signature and the session's liveness in the store.
// A revoked or expired session yields ErrUnauthorized.
func (s *Service) Verify(ctx context.Context, token string) (Session, error) {
	claims, err := ParseSessionToken(token, s.signingKey, s.issuer)
	if err != nil {
		return Session{}, apperr.ErrUnauthorized
	}
	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return Session{}, err
	}
	if sess == nil {
		return Session{}, apperr.ErrUnauthorized
	}
	return *sess, nil
}
