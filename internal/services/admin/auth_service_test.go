// File: internal/services/admin/auth_service_test.go
package admin

import (
	"context"
	"testing"

	"github.com/medassist-ng/ai-service/internal/domain"
	"github.com/medassist-ng/ai-service/internal/repository/user"
	"github.com/medassist-ng/ai-service/internal/services"
)

type fakeUserRepo struct {
	users  map[string]*domain.StaffUser
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.StaffUser{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.StaffUser) (*domain.StaffUser, error) {
	if _, ok := f.users[u.Username]; ok {
		return nil, user.ErrUsernameTaken
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.Username] = u
	return u, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (*domain.StaffUser, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.StaffUser, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserRepo) Count(context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	svc, err := NewAuthService(repo, "test-secret", &services.NoOpLogger{})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc, repo
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	if _, err := NewAuthService(newFakeUserRepo(), "", &services.NoOpLogger{}); err == nil {
		t.Error("expected error for empty jwt secret")
	}
}

func TestCreateStaffAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, "nurse_ada", "s3cure-pass", RoleClinician)
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if created.Password == "s3cure-pass" {
		t.Error("password must be stored hashed")
	}

	staff, token, err := svc.Login(ctx, "nurse_ada", "s3cure-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("token empty")
	}
	if staff.Role != RoleClinician {
		t.Errorf("role = %q", staff.Role)
	}

	userID, err := svc.ValidateJWTToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if userID != created.ID {
		t.Errorf("user id = %d, want %d", userID, created.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "", "pass"); err == nil {
		t.Error("expected error for empty username")
	}
	if _, _, err := svc.Login(ctx, "ghost", "pass"); err == nil {
		t.Error("expected error for unknown user")
	}

	if _, err := svc.CreateStaff(ctx, "nurse_ada", "s3cure-pass", RoleClinician); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if _, _, err := svc.Login(ctx, "nurse_ada", "wrong-pass"); err == nil {
		t.Error("expected error for wrong password")
	}
}

func TestCreateStaffValidation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateStaff(ctx, "nurse_ada", "pass", RoleClinician); err == nil {
		t.Error("expected error for short password")
	}
	if _, err := svc.CreateStaff(ctx, "ab", "s3cure-pass", RoleClinician); err == nil {
		t.Error("expected error for short username")
	}
	if _, err := svc.CreateStaff(ctx, "nurse_ada", "s3cure-pass", "superuser"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestValidateJWTTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.ValidateJWTToken(""); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := svc.ValidateJWTToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestEnsureDefaultAdminSeedsOnce(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	if err := svc.EnsureDefaultAdmin(ctx, "admin_user", "s3cure-pass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("users = %d, want seeded admin", len(repo.users))
	}
	if repo.users["admin_user"].Role != RoleAdmin {
		t.Errorf("role = %q", repo.users["admin_user"].Role)
	}

	// A second call must not create another account.
	if err := svc.EnsureDefaultAdmin(ctx, "other_admin", "s3cure-pass"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("users = %d, seeding must be idempotent", len(repo.users))
	}
}
