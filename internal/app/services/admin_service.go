package services

import (
	"context"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/metrics"
)

// NewAdmin carries the fields supplied when creating an admin.
type NewAdmin struct {
	NewUser
	IsAdmin bool
}

// AdminService handles admin operations. Admins are keyed by their user ID.
type AdminService struct {
	base
}

// Create registers an admin and issues its user identifier
func (s *AdminService) Create(ctx context.Context, in NewAdmin) (*models.Admin, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, in.Username); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	var admin *models.Admin
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		fields, err := userFields(ctx, repos, in.NewUser, hash, models.RoleAdmin)
		if err != nil {
			return err
		}
		admin = &models.Admin{UserFields: fields, IsAdmin: in.IsAdmin}
		return repos.Admins.Create(ctx, admin)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("Admin creation failed")
		return nil, err
	}

	metrics.RecordIdentifierIssued(identifier.User.Name)
	s.log.Info().Str("userID", admin.UserID).Msg("Admin created")
	return admin, nil
}

// EnsureDefault creates the given admin when no admin exists yet. It reports whether one was created.
func (s *AdminService) EnsureDefault(ctx context.Context, in NewAdmin) (bool, error) {
	n, err := s.repos.Admins.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.log.Debug().Int("admins", n).Msg("Admins present, default admin not needed")
		return false, nil
	}
	if _, err := s.Create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

// Get retrieves an admin by user ID
func (s *AdminService) Get(ctx context.Context, userID string) (*models.Admin, error) {
	if err := checkID(identifier.User, userID); err != nil {
		return nil, err
	}
	return s.repos.Admins.GetByID(ctx, userID)
}

// GetByUsername retrieves an admin by username
func (s *AdminService) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return s.repos.Admins.GetByUsername(ctx, username)
}

// Summary returns the projection map of an admin
func (s *AdminService) Summary(ctx context.Context, userID string) (models.Projection, error) {
	admin, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return admin.Projection(), nil
}

// GetAll lists every admin
func (s *AdminService) GetAll(ctx context.Context) ([]*models.Admin, error) {
	return s.repos.Admins.GetAll(ctx)
}

// Update replaces the profile of an admin and, when isAdmin is set, its admin flag
func (s *AdminService) Update(ctx context.Context, userID string, profile models.Profile, isAdmin *bool) (*models.Admin, error) {
	if err := checkID(identifier.User, userID); err != nil {
		return nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	var admin *models.Admin
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		current, err := repos.Admins.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		current.ApplyProfile(profile)
		if isAdmin != nil {
			current.IsAdmin = *isAdmin
		}
		if err := repos.Admins.Update(ctx, current); err != nil {
			return err
		}
		admin = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("userID", userID).Msg("Admin updated")
	return admin, nil
}

// Delete removes an admin
func (s *AdminService) Delete(ctx context.Context, userID string) error {
	if err := checkID(identifier.User, userID); err != nil {
		return err
	}
	if err := s.repos.Admins.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("userID", userID).Msg("Admin deleted")
	return nil
}
