// Package session implements the session capability: operator accounts,
// credential checks and bearer-token lifecycle. Tokens live only for the
// current process; logout invalidates immediately.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/securecomm/backend/models"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
// alike, so the response does not reveal which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DefaultTokenTTL is the signed token lifetime
const DefaultTokenTTL = 24 * time.Hour

// Store holds operator accounts and the set of currently active tokens
type Store struct {
	secret   []byte
	tokenTTL time.Duration

	mu         sync.RWMutex
	byUsername map[string]models.User
	byID       map[string]models.User
	active     map[string]string // token -> user id
}

// NewStore creates an empty session store. A ttl <= 0 selects
// DefaultTokenTTL.
func NewStore(secret []byte, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Store{
		secret:     secret,
		tokenTTL:   ttl,
		byUsername: make(map[string]models.User),
		byID:       make(map[string]models.User),
		active:     make(map[string]string),
	}
}

// AddUser registers an account with a bcrypt-hashed password
func (s *Store) AddUser(id, username, email string, role models.Role, password string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	s.mu.Lock()
	s.byUsername[username] = user
	s.byID[id] = user
	s.mu.Unlock()
	return user, nil
}

// SeedDemoUsers registers the built-in demo accounts
func (s *Store) SeedDemoUsers() error {
	demo := []struct {
		id, username string
		role         models.Role
	}{
		{"1", "admin", models.RoleAdmin},
		{"2", "operator", models.RoleOperator},
		{"3", "driver", models.RoleDriver},
		{"4", "supervisor", models.RoleAdmin},
		{"5", "technician", models.RoleOperator},
	}
	for _, d := range demo {
		email := fmt.Sprintf("%s@vehiclecomm.com", d.username)
		if _, err := s.AddUser(d.id, d.username, email, d.role, "password123"); err != nil {
			return err
		}
	}
	return nil
}

// Authenticate checks the credentials and, on success, issues a signed
// bearer token registered as an active session.
func (s *Store) Authenticate(username, password string) (models.User, string, error) {
	s.mu.RLock()
	user, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.User{}, "", err
	}

	s.mu.Lock()
	s.active[token] = user.ID
	s.mu.Unlock()
	return user, token, nil
}

// Validate checks that the token is well signed, unexpired and still
// registered (a logged-out token fails even before its expiry).
func (s *Store) Validate(token string) (models.User, bool) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return models.User{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.active[token]
	if !ok {
		return models.User{}, false
	}
	user, ok := s.byID[userID]
	return user, ok
}

// Logout invalidates the token
func (s *Store) Logout(token string) {
	s.mu.Lock()
	delete(s.active, token)
	s.mu.Unlock()
}

// ActiveCount returns the number of active sessions
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}
