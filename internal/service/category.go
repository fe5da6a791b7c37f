package service

import (
	"context"
	"fmt"
	"strings"

	"habitbot/internal/repository"
)

var defaultCategories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Entertainment",
	"Medical",
	"Education",
	"Housing",
	"Telecom",
	"Other",
}

// DefaultCategories returns the built-in categories every user has
func DefaultCategories() []string {
	out := make([]string, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// CategoryService handles per-user expense categories
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// UserCategories returns the defaults followed by the user's own categories in creation order
func (s *CategoryService) UserCategories(ctx context.Context, userID string) ([]string, error) {
	custom, err := s.categoryRepo.GetCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return append(DefaultCategories(), custom...), nil
}

// AddCategory adds a custom category unless it already exists (case-sensitive)
func (s *CategoryService) AddCategory(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name required")
	}

	existing, err := s.UserCategories(ctx, userID)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if c == name {
			return invalid("already exists")
		}
	}

	if err := s.categoryRepo.SaveCategory(ctx, userID, name); err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}
