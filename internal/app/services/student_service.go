package services

import (
	"context"
	"fmt"
	"runtime"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/events"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/metrics"
	"github.com/yigit/registry/internal/pkg/validation"
	"golang.org/x/sync/errgroup"
)

// NewStudent carries the fields supplied when creating a student.
type NewStudent struct {
	NewUser
	DepartmentID *string
}

func (n NewStudent) validate() error {
	if err := n.NewUser.validate(); err != nil {
		return err
	}
	return checkOptionalID(identifier.Department, n.DepartmentID)
}

// StudentService handles student operations
type StudentService struct {
	base
}

func (s *StudentService) create(ctx context.Context, repos *repositories.Repositories, in NewStudent, hash string) (*models.Student, error) {
	if err := s.ensureDepartment(ctx, repos, in.DepartmentID); err != nil {
		return nil, err
	}
	fields, err := userFields(ctx, repos, in.NewUser, hash, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	studentID, err := repos.Series.Next(ctx, identifier.Student)
	if err != nil {
		return nil, err
	}
	student := &models.Student{UserFields: fields, StudentID: studentID, DepartmentID: in.DepartmentID}
	if err := repos.Students.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Create registers a student and issues its user and student identifiers
func (s *StudentService) Create(ctx context.Context, in NewStudent) (*models.Student, error) {
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

	var student *models.Student
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		student, err = s.create(ctx, repos, in, hash)
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("Student creation failed")
		return nil, err
	}

	metrics.RecordIdentifierIssued(identifier.User.Name)
	metrics.RecordIdentifierIssued(identifier.Student.Name)
	s.log.Info().Str("studentID", student.StudentID).Str("userID", student.UserID).Msg("Student created")
	s.publish(ctx, events.StudentCreated, student.Projection())
	return student, nil
}

// CreateBatch registers several students in one transaction; either all are created or none
func (s *StudentService) CreateBatch(ctx context.Context, in []NewStudent) ([]*models.Student, error) {
	if !validation.IsValidBatchSize(len(in)) {
		return nil, invalid("a batch must contain between 1 and %d students", validation.MaxBatchSize)
	}
	seen := make(map[string]int, len(in))
	for i, n := range in {
		if err := n.validate(); err != nil {
			return nil, fmt.Errorf("student %d: %w", i, err)
		}
		if j, dup := seen[n.Username]; dup {
			return nil, invalid("students %d and %d share the username %q", j, i, n.Username)
		}
		seen[n.Username] = i
	}

	hashes := make([]string, len(in))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range in {
		g.Go(func() error {
			h, err := s.hash(in[i].Password)
			hashes[i] = h
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	students := make([]*models.Student, 0, len(in))
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		students = students[:0]
		for i, n := range in {
			student, err := s.create(ctx, repos, n, hashes[i])
			if err != nil {
				return fmt.Errorf("student %d (%s): %w", i, n.Username, err)
			}
			students = append(students, student)
		}
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Int("count", len(in)).Msg("Batch student creation rolled back")
		return nil, err
	}

	for _, student := range students {
		metrics.RecordIdentifierIssued(identifier.User.Name)
		metrics.RecordIdentifierIssued(identifier.Student.Name)
		s.publish(ctx, events.StudentCreated, student.Projection())
	}
	s.log.Info().Int("count", len(students)).Msg("Student batch created")
	return students, nil
}

// Get retrieves a student by student ID
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.Student, error) {
	if err := checkID(identifier.Student, studentID); err != nil {
		return nil, err
	}
	return s.repos.Students.GetByID(ctx, studentID)
}

// GetByUsername retrieves a student by username
func (s *StudentService) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	return s.repos.Students.GetByUsername(ctx, username)
}

// Summary returns the projection map of a student
func (s *StudentService) Summary(ctx context.Context, studentID string) (models.Projection, error) {
	student, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return student.Projection(), nil
}

// GetAll lists every student ordered by student ID
func (s *StudentService) GetAll(ctx context.Context) ([]*models.Student, error) {
	return s.repos.Students.GetAll(ctx)
}

// GetByDepartment lists the students of a department
func (s *StudentService) GetByDepartment(ctx context.Context, departmentID string) ([]*models.Student, error) {
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, s.repos, &departmentID); err != nil {
		return nil, err
	}
	return s.repos.Students.GetByDepartmentID(ctx, departmentID)
}

// Update replaces the profile of a student. Identifiers, username and department are untouched.
func (s *StudentService) Update(ctx context.Context, studentID string, profile models.Profile) (*models.Student, error) {
	if err := checkID(identifier.Student, studentID); err != nil {
		return nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	var student *models.Student
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		current, err := repos.Students.GetByID(ctx, studentID)
		if err != nil {
			return err
		}
		current.ApplyProfile(profile)
		if err := repos.Students.Update(ctx, current); err != nil {
			return err
		}
		student = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("studentID", studentID).Msg("Student updated")
	return student, nil
}

// Delete removes a student together with its enrollments
func (s *StudentService) Delete(ctx context.Context, studentID string) error {
	if err := checkID(identifier.Student, studentID); err != nil {
		return err
	}
	if err := s.repos.Students.Delete(ctx, studentID); err != nil {
		return err
	}
	s.log.Info().Str("studentID", studentID).Msg("Student deleted")
	return nil
}
