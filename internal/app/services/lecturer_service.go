package services

import (
	"context"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/events"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/metrics"
)

// NewLecturer carries the fields supplied when creating a lecturer.
type NewLecturer struct {
	NewUser
	DepartmentID *string
	IsLIC        bool
}

// LecturerService handles lecturer operations
type LecturerService struct {
	base
}

// Create registers a lecturer and issues its user and lecturer identifiers
func (s *LecturerService) Create(ctx context.Context, in NewLecturer) (*models.Lecturer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := checkOptionalID(identifier.Department, in.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, in.Username); err != nil {
		return nil, err
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	var lecturer *models.Lecturer
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if err := s.ensureDepartment(ctx, repos, in.DepartmentID); err != nil {
			return err
		}
		fields, err := userFields(ctx, repos, in.NewUser, hash, models.RoleLecturer)
		if err != nil {
			return err
		}
		lecturerID, err := repos.Series.Next(ctx, identifier.Lecturer)
		if err != nil {
			return err
		}
		lecturer = &models.Lecturer{
			UserFields:   fields,
			LecturerID:   lecturerID,
			IsLIC:        in.IsLIC,
			DepartmentID: in.DepartmentID,
		}
		return repos.Lecturers.Create(ctx, lecturer)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("Lecturer creation failed")
		return nil, err
	}

	metrics.RecordIdentifierIssued(identifier.User.Name)
	metrics.RecordIdentifierIssued(identifier.Lecturer.Name)
	s.log.Info().Str("lecturerID", lecturer.LecturerID).Str("userID", lecturer.UserID).Msg("Lecturer created")
	s.publish(ctx, events.LecturerCreated, lecturer.Projection(nil))
	return lecturer, nil
}

// Get retrieves a lecturer by lecturer ID
func (s *LecturerService) Get(ctx context.Context, lecturerID string) (*models.Lecturer, error) {
	if err := checkID(identifier.Lecturer, lecturerID); err != nil {
		return nil, err
	}
	return s.repos.Lecturers.GetByID(ctx, lecturerID)
}

// GetByUsername retrieves a lecturer by username
func (s *LecturerService) GetByUsername(ctx context.Context, username string) (*models.Lecturer, error) {
	return s.repos.Lecturers.GetByUsername(ctx, username)
}

// Summary returns the projection map of a lecturer, including the ids of its courses
func (s *LecturerService) Summary(ctx context.Context, lecturerID string) (models.Projection, error) {
	lecturer, err := s.Get(ctx, lecturerID)
	if err != nil {
		return nil, err
	}
	courses, err := s.repos.Assignments.CoursesForLecturer(ctx, lecturerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CourseID)
	}
	return lecturer.Projection(ids), nil
}

// GetAll lists every lecturer ordered by lecturer ID
func (s *LecturerService) GetAll(ctx context.Context) ([]*models.Lecturer, error) {
	return s.repos.Lecturers.GetAll(ctx)
}

// GetByDepartment lists the lecturers of a department
func (s *LecturerService) GetByDepartment(ctx context.Context, departmentID string) ([]*models.Lecturer, error) {
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, s.repos, &departmentID); err != nil {
		return nil, err
	}
	return s.repos.Lecturers.GetByDepartmentID(ctx, departmentID)
}

// Update replaces the profile of a lecturer
func (s *LecturerService) Update(ctx context.Context, lecturerID string, profile models.Profile) (*models.Lecturer, error) {
	if err := checkID(identifier.Lecturer, lecturerID); err != nil {
		return nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	var lecturer *models.Lecturer
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		current, err := repos.Lecturers.GetByID(ctx, lecturerID)
		if err != nil {
			return err
		}
		current.ApplyProfile(profile)
		if err := repos.Lecturers.Update(ctx, current); err != nil {
			return err
		}
		lecturer = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("lecturerID", lecturerID).Msg("Lecturer updated")
	return lecturer, nil
}

// Delete removes a lecturer together with its course assignments
func (s *LecturerService) Delete(ctx context.Context, lecturerID string) error {
	if err := checkID(identifier.Lecturer, lecturerID); err != nil {
		return err
	}
	if err := s.repos.Lecturers.Delete(ctx, lecturerID); err != nil {
		return err
	}
	s.log.Info().Str("lecturerID", lecturerID).Msg("Lecturer deleted")
	return nil
}
