// Package app holds the application services: reading submission, the
// dashboard, AI insights and authentication.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"healthtrack/internal/domain"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates that the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrSetupDone indicates that the initial user was already created.
	ErrSetupDone = errors.New("users already exist")
	// ErrWeakPassword indicates a password shorter than MinPasswordLength.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrInvalidUsername indicates a blank username.
	ErrInvalidUsername = errors.New("username is required")
)

// AuthService handles authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new authentication service. Sessions live for ttl.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, ttl: ttl, now: time.Now}
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.startSession(ctx, user.ID, userAgent, ip)
}

// Signup creates an account and logs it in.
func (s *AuthService) Signup(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	user, err := s.CreateUser(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.startSession(ctx, user.ID, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if s.now().After(session.ExpiresAt) || session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateInitialUser creates the first user if no users exist.
func (s *AuthService) CreateInitialUser(ctx context.Context, username, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSetupDone
	}
	_, err = s.CreateUser(ctx, username, password)
	return err
}

// ValidateForwardAuth resolves the user named by a reverse proxy's
// Remote-User header, provisioning it on first sight.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	return s.provision(ctx, remoteUser)
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, username, userAgent, ip string) (string, error) {
	user, err := s.provision(ctx, username)
	if err != nil {
		return "", err
	}
	return s.startSession(ctx, user.ID, userAgent, ip)
}

// PurgeExpired removes expired sessions.
func (s *AuthService) PurgeExpired(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

// CreateUser hashes password and stores a new account.
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if existing, err := s.users.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, username, string(hash))
}

// provision returns the user named username, creating it without a password
// when missing. SSO users never log in with a password.
func (s *AuthService) provision(ctx context.Context, username string) (*domain.User, error) {
	if user, err := s.users.GetByUsername(ctx, username); err == nil && user != nil {
		return user, nil
	}
	user, err := s.users.Create(ctx, username, "")
	if err != nil {
		// A concurrent request may have created it.
		if user, gerr := s.users.GetByUsername(ctx, username); gerr == nil && user != nil {
			return user, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, userID int64, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, userID, token, userAgent, ip, s.now().Add(s.ttl)); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
