package services

import (
	"context"
	"strings"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/metrics"
	"github.com/yigit/registry/internal/pkg/validation"
)

// DepartmentService handles department operations. Deleting a department is a cascade and
// lives in CascadeService.
type DepartmentService struct {
	base
}

// validateDepartment validates department data before database operations
func validateDepartment(name, description string) error {
	if !validation.IsValidName(strings.TrimSpace(name)) {
		return invalid("name must be %d-%d characters", validation.NameMinLength, validation.NameMaxLength)
	}
	if len(description) > 1000 {
		return invalid("description must be at most 1000 characters")
	}
	return nil
}

// Create creates a department and issues its identifier
func (s *DepartmentService) Create(ctx context.Context, name, description string) (*models.Department, error) {
	name = strings.TrimSpace(name)
	if err := validateDepartment(name, description); err != nil {
		return nil, err
	}

	var department *models.Department
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		id, err := repos.Series.Next(ctx, identifier.Department)
		if err != nil {
			return err
		}
		department = &models.Department{DepartmentID: id, Name: name, Description: description}
		return repos.Departments.Create(ctx, department)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("Department creation failed")
		return nil, err
	}

	metrics.RecordIdentifierIssued(identifier.Department.Name)
	s.log.Info().Str("departmentID", department.DepartmentID).Msg("Department created")
	return department, nil
}

// Get retrieves a department by ID
func (s *DepartmentService) Get(ctx context.Context, departmentID string) (*models.Department, error) {
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}
	return s.repos.Departments.GetByID(ctx, departmentID)
}

// GetByName retrieves a department by its unique name
func (s *DepartmentService) GetByName(ctx context.Context, name string) (*models.Department, error) {
	return s.repos.Departments.GetByName(ctx, strings.TrimSpace(name))
}

// GetAll lists every department
func (s *DepartmentService) GetAll(ctx context.Context) ([]*models.Department, error) {
	return s.repos.Departments.GetAll(ctx)
}

// Update replaces name and description of a department
func (s *DepartmentService) Update(ctx context.Context, departmentID, name, description string) (*models.Department, error) {
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateDepartment(name, description); err != nil {
		return nil, err
	}

	department := &models.Department{DepartmentID: departmentID, Name: name, Description: description}
	if err := s.repos.Departments.Update(ctx, department); err != nil {
		return nil, err
	}
	s.log.Info().Str("departmentID", departmentID).Msg("Department updated")
	return department, nil
}

// ListStudents lists the students of a department
func (s *DepartmentService) ListStudents(ctx context.Context, departmentID string) ([]*models.Student, error) {
	if _, err := s.Get(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repos.Students.GetByDepartmentID(ctx, departmentID)
}

// ListLecturers lists the lecturers of a department
func (s *DepartmentService) ListLecturers(ctx context.Context, departmentID string) ([]*models.Lecturer, error) {
	if _, err := s.Get(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repos.Lecturers.GetByDepartmentID(ctx, departmentID)
}

// ListCourses lists the courses owned by a department
func (s *DepartmentService) ListCourses(ctx context.Context, departmentID string) ([]*models.Course, error) {
	if _, err := s.Get(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repos.Courses.GetByDepartmentID(ctx, departmentID)
}
