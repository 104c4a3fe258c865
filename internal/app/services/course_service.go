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

// CourseService handles course operations. Deleting a course lives in CascadeService.
type CourseService struct {
	base
}

func validateCourse(name string, departmentID *string) error {
	if !validation.IsValidName(name) {
		return invalid("name must be %d-%d characters", validation.NameMinLength, validation.NameMaxLength)
	}
	return checkOptionalID(identifier.Department, departmentID)
}

// courseView loads a course with both sides of its associations.
func courseView(ctx context.Context, repos *repositories.Repositories, courseID string) (*models.CourseView, error) {
	course, err := repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students, err := repos.Enrollments.StudentsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lecturers, err := repos.Assignments.LecturersForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &models.CourseView{Course: *course, Students: students, Lecturers: lecturers}, nil
}

// Create creates a course and issues its identifier
func (s *CourseService) Create(ctx context.Context, name string, departmentID *string) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if err := validateCourse(name, departmentID); err != nil {
		return nil, err
	}

	var course *models.Course
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if err := s.ensureDepartment(ctx, repos, departmentID); err != nil {
			return err
		}
		id, err := repos.Series.Next(ctx, identifier.Course)
		if err != nil {
			return err
		}
		course = &models.Course{CourseID: id, Name: name, DepartmentID: departmentID}
		return repos.Courses.Create(ctx, course)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("Course creation failed")
		return nil, err
	}

	metrics.RecordIdentifierIssued(identifier.Course.Name)
	s.log.Info().Str("courseID", course.CourseID).Msg("Course created")
	return course, nil
}

// Get retrieves a course by ID
func (s *CourseService) Get(ctx context.Context, courseID string) (*models.Course, error) {
	if err := checkID(identifier.Course, courseID); err != nil {
		return nil, err
	}
	return s.repos.Courses.GetByID(ctx, courseID)
}

// View retrieves a course with its enrolled students and assigned lecturers, read in one
// transaction so the three parts agree.
func (s *CourseService) View(ctx context.Context, courseID string) (*models.CourseView, error) {
	if err := checkID(identifier.Course, courseID); err != nil {
		return nil, err
	}
	var view *models.CourseView
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		view, err = courseView(ctx, repos, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetByName retrieves a course by its unique name
func (s *CourseService) GetByName(ctx context.Context, name string) (*models.Course, error) {
	return s.repos.Courses.GetByName(ctx, strings.TrimSpace(name))
}

// GetAll lists every course
func (s *CourseService) GetAll(ctx context.Context) ([]*models.Course, error) {
	return s.repos.Courses.GetAll(ctx)
}

// GetByDepartment lists the courses owned by a department
func (s *CourseService) GetByDepartment(ctx context.Context, departmentID string) ([]*models.Course, error) {
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, s.repos, &departmentID); err != nil {
		return nil, err
	}
	return s.repos.Courses.GetByDepartmentID(ctx, departmentID)
}

// Update replaces name and owning department of a course
func (s *CourseService) Update(ctx context.Context, courseID, name string, departmentID *string) (*models.Course, error) {
	if err := checkID(identifier.Course, courseID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateCourse(name, departmentID); err != nil {
		return nil, err
	}

	course := &models.Course{CourseID: courseID, Name: name, DepartmentID: departmentID}
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		if err := s.ensureDepartment(ctx, repos, departmentID); err != nil {
			return err
		}
		return repos.Courses.Update(ctx, course)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("courseID", courseID).Msg("Course updated")
	return course, nil
}
