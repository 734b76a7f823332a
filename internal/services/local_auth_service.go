package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/maxiguillermo1/senior-project/internal/models"
	"github.com/maxiguillermo1/senior-project/internal/store"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
)

// LocalAuthService is the AUTH_MODE=local stand-in for Firebase Auth:
// bcrypt-hashed credentials in memory, user documents written to the store
// the same way the mobile sign-up wizard writes them.
type LocalAuthService struct {
	mu      sync.RWMutex
	creds   map[string]string // userID -> bcrypt hash
	byEmail map[string]string // email -> userID

	docs store.DocumentStore
}

func NewLocalAuthService(docs store.DocumentStore) *LocalAuthService {
	return &LocalAuthService{
		creds:   make(map[string]string),
		byEmail: make(map[string]string),
		docs:    docs,
	}
}

// Register creates the credential entry and the user document.
func (s *LocalAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.UserRecord{
		UID:             uuid.New().String(),
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DisplayName:     req.FirstName + " " + req.LastName,
		LastNameVisible: true,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.docs.Set(ctx, "users/"+user.UID, map[string]interface{}{
		"uid":             user.UID,
		"email":           user.Email,
		"firstName":       user.FirstName,
		"lastName":        user.LastName,
		"displayName":     user.DisplayName,
		"lastNameVisible": user.LastNameVisible,
	})
	if err != nil {
		return nil, err
	}

	s.creds[user.UID] = string(hashedPassword)
	s.byEmail[user.Email] = user.UID
	return user, nil
}

// Login checks the password and returns the stored user document.
func (s *LocalAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.UserRecord, error) {
	s.mu.RLock()
	userID, exists := s.byEmail[req.Email]
	var hash string
	if exists {
		hash = s.creds[userID]
	}
	s.mu.RUnlock()

	if !exists {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	snap, err := s.docs.Get(ctx, "users/"+userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user := &models.UserRecord{
		UID:         userID,
		Email:       snap.String("email"),
		FirstName:   snap.String("firstName"),
		LastName:    snap.String("lastName"),
		DisplayName: snap.String("displayName"),
	}
	return user, nil
}
