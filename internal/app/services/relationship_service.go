package services

import (
	"context"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/events"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/metrics"
)

// RelationshipService maintains department membership, enrollments, lecturer assignments and
// the LIC flag. Every edge lives in exactly one row, so both directions of an association change
// together.
type RelationshipService struct {
	base
}

type edgeEvent struct {
	StudentID  string `json:"studentId,omitempty"`
	LecturerID string `json:"lecturerId,omitempty"`
	CourseID   string `json:"courseId,omitempty"`
}

type departmentEvent struct {
	StudentID    string  `json:"studentId,omitempty"`
	LecturerID   string  `json:"lecturerId,omitempty"`
	DepartmentID *string `json:"departmentId"`
}

func checkPair(left identifier.Series, leftID, courseID string) error {
	if err := checkID(left, leftID); err != nil {
		return err
	}
	return checkID(identifier.Course, courseID)
}

// Enroll adds the student to the course and returns the updated course view.
// Both ids must resolve; enrolling twice fails with apperrors.ErrAlreadyEnrolled.
func (s *RelationshipService) Enroll(ctx context.Context, studentID, courseID string) (*models.CourseView, error) {
	if err := checkPair(identifier.Student, studentID, courseID); err != nil {
		return nil, err
	}

	var view *models.CourseView
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Students.GetByID(ctx, studentID); err != nil {
			return err
		}
		if _, err := repos.Courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		if err := repos.Enrollments.Add(ctx, studentID, courseID); err != nil {
			return err
		}
		var err error
		view, err = courseView(ctx, repos, courseID)
		return err
	})
	metrics.RecordRelationshipChange(metrics.RelationEnrollment, metrics.ActionAdd, err)
	if err != nil {
		s.log.Debug().Err(err).Str("studentID", studentID).Str("courseID", courseID).Msg("Enroll rejected")
		return nil, err
	}

	s.log.Info().Str("studentID", studentID).Str("courseID", courseID).Msg("Student enrolled")
	s.publish(ctx, events.StudentEnrolled, edgeEvent{StudentID: studentID, CourseID: courseID})
	return view, nil
}

// Drop removes the student from the course and returns the updated course view.
// Dropping a course the student is not enrolled in fails with apperrors.ErrNotEnrolled.
func (s *RelationshipService) Drop(ctx context.Context, studentID, courseID string) (*models.CourseView, error) {
	if err := checkPair(identifier.Student, studentID, courseID); err != nil {
		return nil, err
	}

	var view *models.CourseView
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Students.GetByID(ctx, studentID); err != nil {
			return err
		}
		if _, err := repos.Courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		if err := repos.Enrollments.Remove(ctx, studentID, courseID); err != nil {
			return err
		}
		var err error
		view, err = courseView(ctx, repos, courseID)
		return err
	})
	metrics.RecordRelationshipChange(metrics.RelationEnrollment, metrics.ActionRemove, err)
	if err != nil {
		s.log.Debug().Err(err).Str("studentID", studentID).Str("courseID", courseID).Msg("Drop rejected")
		return nil, err
	}

	s.log.Info().Str("studentID", studentID).Str("courseID", courseID).Msg("Student dropped")
	s.publish(ctx, events.StudentDropped, edgeEvent{StudentID: studentID, CourseID: courseID})
	return view, nil
}

// AssignStudentToDepartment overwrites the department of a student. On failure the previous
// reference is kept.
func (s *RelationshipService) AssignStudentToDepartment(ctx context.Context, studentID, departmentID string) (*models.Student, error) {
	if err := checkID(identifier.Student, studentID); err != nil {
		return nil, err
	}
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}

	var student *models.Student
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Students.GetByID(ctx, studentID); err != nil {
			return err
		}
		if err := s.ensureDepartment(ctx, repos, &departmentID); err != nil {
			return err
		}
		if err := repos.Students.SetDepartment(ctx, studentID, &departmentID); err != nil {
			return err
		}
		var err error
		student, err = repos.Students.GetByID(ctx, studentID)
		return err
	})
	metrics.RecordRelationshipChange(metrics.RelationDepartment, metrics.ActionSet, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("studentID", studentID).Str("departmentID", departmentID).Msg("Student assigned to department")
	s.publish(ctx, events.StudentAssigned, departmentEvent{StudentID: studentID, DepartmentID: &departmentID})
	return student, nil
}

// AssignLecturerToDepartment overwrites the department of a lecturer. On failure the previous
// reference is kept.
func (s *RelationshipService) AssignLecturerToDepartment(ctx context.Context, lecturerID, departmentID string) (*models.Lecturer, error) {
	if err := checkID(identifier.Lecturer, lecturerID); err != nil {
		return nil, err
	}
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}

	var lecturer *models.Lecturer
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Lecturers.GetByID(ctx, lecturerID); err != nil {
			return err
		}
		if err := s.ensureDepartment(ctx, repos, &departmentID); err != nil {
			return err
		}
		if err := repos.Lecturers.SetDepartment(ctx, lecturerID, &departmentID); err != nil {
			return err
		}
		var err error
		lecturer, err = repos.Lecturers.GetByID(ctx, lecturerID)
		return err
	})
	metrics.RecordRelationshipChange(metrics.RelationDepartment, metrics.ActionSet, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("lecturerID", lecturerID).Str("departmentID", departmentID).Msg("Lecturer assigned to department")
	s.publish(ctx, events.LecturerDepartment, departmentEvent{LecturerID: lecturerID, DepartmentID: &departmentID})
	return lecturer, nil
}

// SetLIC sets or clears the lecturer-in-charge flag. Setting the current value is a no-op
// that still succeeds.
func (s *RelationshipService) SetLIC(ctx context.Context, lecturerID string, isLIC bool) (*models.Lecturer, error) {
	if err := checkID(identifier.Lecturer, lecturerID); err != nil {
		return nil, err
	}

	var lecturer *models.Lecturer
	changed := false
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		current, err := repos.Lecturers.GetByID(ctx, lecturerID)
		if err != nil {
			return err
		}
		if current.IsLIC != isLIC {
			if err := repos.Lecturers.SetLIC(ctx, lecturerID, isLIC); err != nil {
				return err
			}
			changed = true
		}
		lecturer, err = repos.Lecturers.GetByID(ctx, lecturerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.Info().Str("lecturerID", lecturerID).Bool("isLIC", isLIC).Msg("Lecturer LIC flag changed")
		s.publish(ctx, events.LecturerLIC, lecturer.Projection(nil))
	}
	return lecturer, nil
}

// AssignLecturerToCourse adds a lecturer to a course and returns the updated course view.
func (s *RelationshipService) AssignLecturerToCourse(ctx context.Context, lecturerID, courseID string) (*models.CourseView, error) {
	if err := checkPair(identifier.Lecturer, lecturerID, courseID); err != nil {
		return nil, err
	}

	var view *models.CourseView
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Lecturers.GetByID(ctx, lecturerID); err != nil {
			return err
		}
		if _, err := repos.Courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		if err := repos.Assignments.Add(ctx, lecturerID, courseID); err != nil {
			return err
		}
		var err error
		view, err = courseView(ctx, repos, courseID)
		return err
	})
	metrics.RecordRelationshipChange(metrics.RelationAssignment, metrics.ActionAdd, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("lecturerID", lecturerID).Str("courseID", courseID).Msg("Lecturer assigned to course")
	s.publish(ctx, events.LecturerAssigned, edgeEvent{LecturerID: lecturerID, CourseID: courseID})
	return view, nil
}

// UnassignLecturerFromCourse removes a lecturer from a course and returns the updated course view.
// The LIC flag is left as is.
func (s *RelationshipService) UnassignLecturerFromCourse(ctx context.Context, lecturerID, courseID string) (*models.CourseView, error) {
	if err := checkPair(identifier.Lecturer, lecturerID, courseID); err != nil {
		return nil, err
	}

	var view *models.CourseView
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Lecturers.GetByID(ctx, lecturerID); err != nil {
			return err
		}
		if _, err := repos.Courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		if err := repos.Assignments.Remove(ctx, lecturerID, courseID); err != nil {
			return err
		}
		var err error
		view, err = courseView(ctx, repos, courseID)
		return err
	})
	metrics.RecordRelationshipChange(metrics.RelationAssignment, metrics.ActionRemove, err)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("lecturerID", lecturerID).Str("courseID", courseID).Msg("Lecturer unassigned from course")
	s.publish(ctx, events.LecturerUnassigned, edgeEvent{LecturerID: lecturerID, CourseID: courseID})
	return view, nil
}

// ListCoursesForStudent lists the courses of a student in enrollment order
func (s *RelationshipService) ListCoursesForStudent(ctx context.Context, studentID string) ([]*models.Course, error) {
	if err := checkID(identifier.Student, studentID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repos.Enrollments.CoursesForStudent(ctx, studentID)
}

// ListStudentsForCourse lists the students of a course in enrollment order
func (s *RelationshipService) ListStudentsForCourse(ctx context.Context, courseID string) ([]*models.Student, error) {
	if err := checkID(identifier.Course, courseID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repos.Enrollments.StudentsForCourse(ctx, courseID)
}

// ListCoursesForLecturer lists the courses of a lecturer in assignment order
func (s *RelationshipService) ListCoursesForLecturer(ctx context.Context, lecturerID string) ([]*models.Course, error) {
	if err := checkID(identifier.Lecturer, lecturerID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Lecturers.GetByID(ctx, lecturerID); err != nil {
		return nil, err
	}
	return s.repos.Assignments.CoursesForLecturer(ctx, lecturerID)
}

// ListLecturersForCourse lists the lecturers of a course in assignment order
func (s *RelationshipService) ListLecturersForCourse(ctx context.Context, courseID string) ([]*models.Lecturer, error) {
	if err := checkID(identifier.Course, courseID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repos.Assignments.LecturersForCourse(ctx, courseID)
}
