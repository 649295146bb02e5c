// File: internal/repository/user/user_repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/medassist-ng/ai-service/internal/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.StaffUser) (*domain.StaffUser, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}
	if err := user.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if user.Password == "" {
		return nil, errors.New("password hash is required")
	}

	taken, err := r.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Database error creating user %s: %v", user.Username, err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] Staff user created: %s (role: %s)", user.Username, user.Role)
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.StaffUser, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	var user domain.StaffUser
	err := r.db.WithContext(ctx).First(&user, id).Error
	return r.handleFindError(err, &user, "FindByID")
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.StaffUser, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	var user domain.StaffUser
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return r.handleFindError(err, &user, "FindByUsername")
}

func (r *gormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, errors.New("username is required")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.StaffUser{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		log.Printf("[UserRepository] Database error checking username %s: %v", username, err)
		return false, errors.New("database error checking username")
	}
	return count > 0, nil
}

func (r *gormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.StaffUser{}).Count(&count).Error; err != nil {
		log.Printf("[UserRepository] Database error counting users: %v", err)
		return 0, errors.New("database error counting users")
	}
	return count, nil
}

func (r *gormUserRepository) handleFindError(err error, user *domain.StaffUser, operation string) (*domain.StaffUser, error) {
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	log.Printf("[UserRepository] %s database error: %v", operation, err)
	return nil, errors.New("database query failed")
}
