// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"healthtrack/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	readings []domain.Reading
	users    []*domain.User
	sessions map[string]*domain.Session

	readingIDCounter int64
	userIDCounter    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.ReadingRepository = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

func notFound(op string) error {
	return &domain.StoreError{Kind: domain.StoreNotFound, Op: op, Err: errors.New("no such row")}
}

// --- ReadingRepository ---

// CreateReading stores a copy of r and returns its new ID.
func (db *DB) CreateReading(ctx context.Context, r domain.Reading) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &domain.StoreError{Kind: domain.StoreUnavailable, Op: "create reading", Err: err}
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	db.readingIDCounter++
	r = cloneReading(r)
	r.ID = db.readingIDCounter
	r.Timestamp = r.Timestamp.UTC()
	db.readings = append(db.readings, r)
	return r.ID, nil
}

// ListRecentReadings returns up to limit readings of ownerID, newest first.
func (db *DB) ListRecentReadings(ctx context.Context, ownerID int64, limit int) ([]domain.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.StoreError{Kind: domain.StoreUnavailable, Op: "list readings", Err: err}
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.Reading
	for _, r := range db.readings {
		if r.OwnerID == ownerID {
			result = append(result, cloneReading(r))
		}
	}
	slices.SortFunc(result, func(a, b domain.Reading) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// cloneReading copies the optional fields so callers never share storage.
func cloneReading(r domain.Reading) domain.Reading {
	r.HeartRate = clonePtr(r.HeartRate)
	r.BloodPressure = clonePtr(r.BloodPressure)
	r.BloodOxygen = clonePtr(r.BloodOxygen)
	r.Weight = clonePtr(r.Weight)
	r.Temperature = clonePtr(r.Temperature)
	r.BloodSugar = clonePtr(r.BloodSugar)
	return r
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, notFound("get user")
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, notFound("get user")
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, notFound("get session")
	}
	cp := *s
	return &cp, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
