package service

import (
	"context"
	"fmt"

	"github.com/gatherly/gatherly/data"
	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/paging"
)

// UserService handles user profile and discovery business logic.
type UserService struct {
	data   *data.Data
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(d *data.Data, logger *logger.Logger) *UserService {
	return &UserService{
		data:   d,
		logger: logger,
	}
}

// CreateUserRequest represents the request to create a user.
type CreateUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Role       string `json:"role" binding:"omitempty,oneof=admin user moderator"`
	Profession string `json:"profession" binding:"omitempty,max=100"`
	Bio        string `json:"bio" binding:"omitempty,max=1000"`
	City       string `json:"city" binding:"omitempty,max=100"`
	State      string `json:"state" binding:"omitempty,max=100"`
}

// UpdateUserRequest represents the request to update a user profile.
type UpdateUserRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=100"`
	Profession string `json:"profession" binding:"omitempty,max=100"`
	Bio        string `json:"bio" binding:"omitempty,max=1000"`
	City       string `json:"city" binding:"omitempty,max=100"`
	State      string `json:"state" binding:"omitempty,max=100"`
}

// CreateUser creates a new user profile.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*repository.User, error) {
	role := req.Role
	if role == "" {
		role = "user"
	}

	user := &repository.User{
		Email:      req.Email,
		Name:       req.Name,
		Role:       role,
		Profession: req.Profession,
		Bio:        req.Bio,
		City:       req.City,
		State:      req.State,
	}

	return s.data.UserRepo.Create(ctx, user)
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*repository.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	return s.data.UserRepo.FindByID(ctx, id)
}

// GetUserByEmail retrieves a user by email address.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*repository.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	return s.data.UserRepo.FindByEmail(ctx, email)
}

// UpdateUser updates the user's profile fields.
func (s *UserService) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*repository.User, error) {
	existing, err := s.data.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Profession = req.Profession
	existing.Bio = req.Bio
	existing.City = req.City
	existing.State = req.State

	return s.data.UserRepo.Update(ctx, existing)
}

// DiscoverUsers retrieves one page of users matching the discovery filters.
func (s *UserService) DiscoverUsers(ctx context.Context, filters repository.UserFilters, req paging.Request) (*paging.Page[*repository.User], error) {
	return s.data.UserRepo.Discover(ctx, filters, req)
}
