package usecase

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"locker_backend/internal/feature/auth/domain/entity"
)

// AccountRepository abstracts the account administration persistence.
type AccountRepository interface {
	// ListUsers returns every account ordered by id.
	ListUsers(ctx context.Context) ([]entity.User, error)

	// FindByID loads one account or returns ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// SetRoleByEmail updates the role of the account with the given email.
	// ErrUserNotFound when no such account exists.
	SetRoleByEmail(ctx context.Context, email string, role entity.Role) error

	// CreateUser persists a new account. ErrEmailAlreadyExists on reuse.
	CreateUser(ctx context.Context, user *entity.User) error

	// DeleteUser removes the account. ErrUserNotFound when it does not exist.
	DeleteUser(ctx context.Context, id uint) error

	// CountActivePackages counts non-terminal packages the account is party to.
	CountActivePackages(ctx context.Context, userID uint) (int64, error)
}

// Config carries the administrative policy switches.
type Config struct {
	// AllowAdminEscalation permits granting the admin role. Off by default:
	// a compromised admin token must not be able to mint more admins.
	AllowAdminEscalation bool
}

// AdminUsecase implements account administration.
type AdminUsecase struct {
	repo AccountRepository
	cfg  Config
}

// NewAdminUsecase creates an AdminUsecase with the given repository and policy.
func NewAdminUsecase(repo AccountRepository, cfg Config) *AdminUsecase {
	return &AdminUsecase{repo: repo, cfg: cfg}
}

// ListUsers returns every account.
func (u *AdminUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	return u.repo.ListUsers(ctx)
}

// SetRole changes an account's role, addressed by email.
func (u *AdminUsecase) SetRole(ctx context.Context, email string, role entity.Role) error {
	if !entity.ValidRole(role) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if role == entity.RoleAdmin && !u.cfg.AllowAdminEscalation {
		return ErrEscalationDisabled
	}
	return u.repo.SetRoleByEmail(ctx, email, role)
}

// CreateStaff registers a courier or service account. Staff emails are exempt
// from the public-registration domain restriction; the admin vouches for them.
func (u *AdminUsecase) CreateStaff(ctx context.Context, email, password, firstName, lastName string, role entity.Role) error {
	if role != entity.RoleCourier && role != entity.RoleService {
		if role == entity.RoleAdmin && u.cfg.AllowAdminEscalation {
			// Explicitly enabled deployments may bootstrap admins this way.
		} else {
			return fmt.Errorf("%w: staff role must be courier or service", ErrInvalidRole)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return u.repo.CreateUser(ctx, &entity.User{
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		FirstName: firstName,
		LastName:  lastName,
		// Staff accounts are provisioned, not self-registered; consent
		// flags are recorded as accepted by the issuing admin.
		AcceptedTerms:   true,
		AcceptedPrivacy: true,
	})
}

// DeleteUser removes an account. Admins and accounts with packages in flight
// are refused.
func (u *AdminUsecase) DeleteUser(ctx context.Context, id uint) error {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == entity.RoleAdmin {
		return ErrCannotDeleteAdmin
	}

	active, err := u.repo.CountActivePackages(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return fmt.Errorf("%w: %d in flight", ErrUserHasActivePackages, active)
	}

	return u.repo.DeleteUser(ctx, id)
}
