// File: internal/services/admin/auth_service.go
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/medassist-ng/ai-service/internal/auth"
	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/repository/user"
	"github.com/medassist-ng/ai-service/internal/services"
)

// Staff roles.
const (
	RoleAdmin     = "admin"
	RoleClinician = "clinician"
)

// AuthService authenticates clinic staff and issues JWT tokens for the
// admin API.
type AuthService struct {
	users     user.UserRepository
	jwtSecret []byte
	logger    services.Logger
}

func NewAuthService(users user.UserRepository, jwtSecret string, logger services.Logger) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}, nil
}

// Login authenticates a staff member and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.StaffUser, string, error) {
	if username == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_username", username != "",
			"has_password", password != "")
		return nil, "", errors.New("username and password are required")
	}

	s.logger.Info("staff login attempt", "username", maskUsername(username))

	staff, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed - user not found", "username", maskUsername(username))
		return nil, "", errors.New("invalid credentials")
	}

	if err := staff.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password",
			"username", maskUsername(username),
			"user_id", staff.ID)
		return nil, "", errors.New("invalid credentials")
	}

	token, err := auth.GenerateJWT(staff.ID, s.jwtSecret)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", staff.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful",
		"username", maskUsername(username),
		"user_id", staff.ID,
		"role", staff.Role)
	return staff, token, nil
}

// ValidateJWTToken checks a token and returns the staff user ID.
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, errors.New("empty token")
	}
	return auth.ValidateToken(tokenString, s.jwtSecret)
}

// FindByID loads a staff account, used by the admin middleware for role
// checks.
func (s *AuthService) FindByID(ctx context.Context, id uint) (*domain.StaffUser, error) {
	return s.users.FindByID(ctx, id)
}

// CreateStaff registers a new staff account with a hashed password.
func (s *AuthService) CreateStaff(ctx context.Context, username, password, role string) (*domain.StaffUser, error) {
	if role != RoleAdmin && role != RoleClinician {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	staff := &domain.StaffUser{Username: username, Role: role}
	if err := staff.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := staff.HashPassword(password); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	created, err := s.users.Create(ctx, staff)
	if err != nil {
		return nil, err
	}

	s.logger.Info("staff account created",
		"username", maskUsername(username),
		"user_id", created.ID,
		"role", role)
	return created, nil
}

// EnsureDefaultAdmin seeds the first admin account when the user table is
// empty, so a fresh deployment is reachable.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if username == "" || password == "" {
		s.logger.Warn("no staff accounts exist and no default admin configured")
		return nil
	}

	if _, err := s.CreateStaff(ctx, username, password, RoleAdmin); err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}
	s.logger.Info("default admin account seeded", "username", maskUsername(username))
	return nil
}

func maskUsername(username string) string {
	if len(username) <= 4 {
		return "****"
	}
	return username[:4] + "****"
}
