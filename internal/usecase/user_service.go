package usecase

import (
	"context"
	"errors"

	"gorm.io/gorm"

	repo "github.com/dejanjanjic/report-incident-backend/internal/adapters/postgres"
	"github.com/dejanjanjic/report-incident-backend/internal/domain"
	pkglog "github.com/dejanjanjic/report-incident-backend/pkg/log"
)

// ErrEmailMissing is returned when the identity provider did not supply
// an email claim. Callers must not treat this as a transient fault.
var ErrEmailMissing = errors.New("email not provided by identity provider")

// UserService reconciles an external identity profile against the user
// store: create on first sight with the configured default role, update
// the display name on every later login. The role is never modified on
// the update path.
type UserService interface {
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.User, error)
}

type userService struct {
	users       repo.UserRepository
	defaultRole domain.Role
	logger      pkglog.Logger
}

func NewUserService(users repo.UserRepository, defaultRole domain.Role, logger pkglog.Logger) UserService {
	return &userService{users: users, defaultRole: defaultRole, logger: logger}
}

func (s *userService) Upsert(ctx context.Context, profile *domain.Profile) (*domain.User, error) {
	if profile == nil || profile.Email == "" {
		return nil, ErrEmailMissing
	}

	user, err := s.users.FindByUsername(ctx, profile.Email)
	if err == nil {
		return s.refresh(ctx, user, profile)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &domain.User{
		Username: profile.Email,
		FullName: profile.FullName,
		Role:     s.defaultRole,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race against a concurrent first login for the
			// same email; the winner's record is authoritative
			existing, findErr := s.users.FindByUsername(ctx, profile.Email)
			if findErr != nil {
				return nil, findErr
			}
			return s.refresh(ctx, existing, profile)
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created on first login")
	return user, nil
}

func (s *userService) refresh(ctx context.Context, user *domain.User, profile *domain.Profile) (*domain.User, error) {
	if profile.FullName == "" || profile.FullName == user.FullName {
		return user, nil
	}
	user.FullName = profile.FullName
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
