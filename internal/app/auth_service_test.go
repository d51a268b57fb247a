package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"healthtrack/internal/domain"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
	countFn         func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, userAgent, ip, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, errors.New("not found")
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     "testuser",
				PasswordHash: string(hash),
			}, nil
		},
	}

	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
			if userAgent != "test-agent" || ip != "10.0.0.1" {
				t.Errorf("unexpected client %q %q", userAgent, ip)
			}
			if userID != 1 {
				t.Errorf("expected userID 1, got %d", userID)
			}
			if token == "" {
				t.Error("token should not be empty")
			}
			return nil
		},
	}

	svc := NewAuthService(users, sessions, time.Hour)
	token, err := svc.Login(ctx, "testuser", password, "test-agent", "10.0.0.1")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:           1,
				Username:     "testuser",
				PasswordHash: string(hash),
			}, nil
		},
	}

	sessions := &mockSessionRepo{}
	svc := NewAuthService(users, sessions, time.Hour)

	_, err := svc.Login(ctx, "testuser", "wrongpass", "ua", "")
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ValidateSession_Valid(t *testing.T) {
	ctx := context.Background()
	token := "validtoken"

	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    1,
				UserAgent: "test-agent",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}

	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return &domain.User{
				ID:       1,
				Username: "testuser",
			}, nil
		},
	}

	svc := NewAuthService(users, sessions, time.Hour)
	user, err := svc.ValidateSession(ctx, token, "test-agent")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %s", user.Username)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	ctx := context.Background()
	token := "expiredtoken"

	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{
				Token:     token,
				UserID:    1,
				ExpiresAt: time.Now().Add(-1 * time.Hour),
			}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}

	users := &mockUserRepo{}
	svc := NewAuthService(users, sessions, time.Hour)

	_, err := svc.ValidateSession(ctx, token, "test-agent")
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected session to be deleted")
	}
}

func TestAuthService_CreateInitialUser_Success(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		countFn: func(ctx context.Context) (int, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			if username != "admin" {
				t.Errorf("expected username 'admin', got %s", username)
			}
			if passwordHash == "" {
				t.Error("password hash should not be empty")
			}
			return &domain.User{ID: 1, Username: username}, nil
		},
	}

	sessions := &mockSessionRepo{}
	svc := NewAuthService(users, sessions, time.Hour)

	err := svc.CreateInitialUser(ctx, "admin", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestAuthService_CreateInitialUser_UsersExist(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		countFn: func(ctx context.Context) (int, error) {
			return 1, nil
		},
	}

	sessions := &mockSessionRepo{}
	svc := NewAuthService(users, sessions, time.Hour)

	err := svc.CreateInitialUser(ctx, "admin", "password123")
	if !errors.Is(err, ErrSetupDone) {
		t.Errorf("expected ErrSetupDone, got %v", err)
	}
}

func TestAuthService_ValidateForwardAuth_ExistingUser(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{
				ID:       1,
				Username: "ssouser",
			}, nil
		},
	}

	sessions := &mockSessionRepo{}
	svc := NewAuthService(users, sessions, time.Hour)

	user, err := svc.ValidateForwardAuth(ctx, "ssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "ssouser" {
		t.Errorf("expected username 'ssouser', got %s", user.Username)
	}
}

func TestAuthService_ValidateForwardAuth_NewUser(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, errors.New("not found")
		},
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			return &domain.User{
				ID:       2,
				Username: username,
			}, nil
		},
	}

	sessions := &mockSessionRepo{}
	svc := NewAuthService(users, sessions, time.Hour)

	user, err := svc.ValidateForwardAuth(ctx, "newssouser")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "newssouser" {
		t.Errorf("expected username 'newssouser', got %s", user.Username)
	}
}

func TestAuthService_ValidateSession_UserAgentMismatch(t *testing.T) {
	deleted := false
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, tok string) (*domain.Session, error) {
			return &domain.Session{Token: tok, UserID: 1, UserAgent: "browser-a", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
		deleteFn: func(ctx context.Context, tok string) error {
			deleted = true
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, time.Hour)

	if _, err := svc.ValidateSession(context.Background(), "tok", "browser-b"); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !deleted {
		t.Error("expected stolen session to be deleted")
	}
}

func TestAuthService_Login_SSOUserHasNoPassword(t *testing.T) {
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: username}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, time.Hour)

	if _, err := svc.Login(context.Background(), "ssouser", "", "ua", ""); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		existing bool
		wantErr  error
	}{
		{"ok", "alice", "longenough", false, nil},
		{"blank username", "  ", "longenough", false, ErrInvalidUsername},
		{"short password", "alice", "short", false, ErrWeakPassword},
		{"taken", "alice", "longenough", true, ErrUserExists},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var expiresAt time.Time
			users := &mockUserRepo{
				getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
					if tc.existing {
						return &domain.User{ID: 9, Username: username}, nil
					}
					return nil, errors.New("not found")
				},
				createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
					if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(tc.password)) != nil {
						t.Error("password must be stored as a bcrypt hash")
					}
					return &domain.User{ID: 5, Username: username}, nil
				},
			}
			sessions := &mockSessionRepo{
				createFn: func(ctx context.Context, userID int64, token, userAgent, ip string, exp time.Time) error {
					if userID != 5 {
						t.Errorf("expected session for user 5, got %d", userID)
					}
					expiresAt = exp
					return nil
				},
			}
			svc := NewAuthService(users, sessions, 2*time.Hour)

			token, err := svc.Signup(context.Background(), tc.username, tc.password, "ua", "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			if token == "" {
				t.Error("expected a session token")
			}
			if d := time.Until(expiresAt); d < time.Hour || d > 2*time.Hour {
				t.Errorf("session ttl not applied, expires in %v", d)
			}
		})
	}
}

func TestAuthService_LoginWithUser_Provisions(t *testing.T) {
	created := false
	users := &mockUserRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			created = true
			if passwordHash != "" {
				t.Error("sso users have no password")
			}
			return &domain.User{ID: 3, Username: username}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, time.Hour)

	token, err := svc.LoginWithUser(context.Background(), "sso@example.com", "ua", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" || !created {
		t.Errorf("expected provisioned user and token, created=%v", created)
	}
}
