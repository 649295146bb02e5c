// File: internal/repository/user/interface.go
package user

import (
	"context"

	"github.com/medassist-ng/ai-service/internal/domain"
)

// UserRepository handles staff account data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.StaffUser) (*domain.StaffUser, error)
	FindByID(ctx context.Context, id uint) (*domain.StaffUser, error)
	FindByUsername(ctx context.Context, username string) (*domain.StaffUser, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
