package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/middleware"
	"golang.org/x/crypto/bcrypt"
)

// CreateUserRequest new account
type CreateUserRequest struct {
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// UserService user accounts
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a user service
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Create creates an active account with a bcrypt password hash
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	var errs []string
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, "username is required")
	}
	if len(req.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	for _, r := range req.Roles {
		switch r {
		case middleware.RoleAdmin, middleware.RoleManager, middleware.RoleCrew:
		default:
			errs = append(errs, fmt.Sprintf("unknown role %q", r))
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Message: "invalid user", Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.Username)
	}
	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{middleware.RoleCrew}
	}
	user := &entity.User{
		ID:           entity.NewID(),
		Username:     strings.TrimSpace(req.Username),
		Name:         name,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Roles:        roles,
		Status:       entity.UserStatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// List lists active users
func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.ListActive(ctx)
}
