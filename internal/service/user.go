package service

import (
	"context"
	"fmt"

	"habitbot/internal/domain"
	"habitbot/internal/repository"
)

// UserService handles the user directory
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates the user or refreshes their display name
func (s *UserService) Register(ctx context.Context, userID, name string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	return s.userRepo.UpsertUser(ctx, userID, name)
}

// EnsureUser creates user record if it doesn't exist
func (s *UserService) EnsureUser(ctx context.Context, userID, name string) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	return s.userRepo.EnsureUserExists(ctx, userID, name)
}

// Get returns the user or nil when unknown
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetUser(ctx, userID)
}

// List returns all known users
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListUsers(ctx)
}
