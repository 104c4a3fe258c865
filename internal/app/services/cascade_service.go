package services

import (
	"context"
	"fmt"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/events"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/metrics"
)

// CascadeService deletes departments and courses after detaching or removing their dependents.
//
// Department policy: students and lecturers are orphaned (department reference set to null).
// Courses move to the successor department when one is named; otherwise each course loses its
// enrollments and lecturer assignments and is deleted. The department row goes last, all in one
// transaction.
type CascadeService struct {
	base
}

// DeleteDepartment removes a department and reports what happened to its dependents.
// successorID may be empty.
func (s *CascadeService) DeleteDepartment(ctx context.Context, departmentID, successorID string) (*models.CascadeReport, error) {
	if err := checkID(identifier.Department, departmentID); err != nil {
		return nil, err
	}
	var successor *string
	if successorID != "" {
		if err := checkID(identifier.Department, successorID); err != nil {
			return nil, err
		}
		if successorID == departmentID {
			return nil, invalid("a department cannot succeed itself")
		}
		successor = &successorID
	}

	report := &models.CascadeReport{
		DepartmentID:   departmentID,
		SuccessorID:    successor,
		AdoptedCourses: []string{},
		DeletedCourses: []string{},
	}
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Departments.GetByID(ctx, departmentID); err != nil {
			return err
		}
		if successor != nil {
			if _, err := repos.Departments.GetByID(ctx, *successor); err != nil {
				return fmt.Errorf("successor: %w", err)
			}
		}

		n, err := repos.Students.ClearDepartment(ctx, departmentID)
		if err != nil {
			return err
		}
		report.OrphanedStudents = n

		if n, err = repos.Lecturers.ClearDepartment(ctx, departmentID); err != nil {
			return err
		}
		report.OrphanedLecturers = n

		if successor != nil {
			moved, err := repos.Courses.MoveDepartment(ctx, departmentID, *successor)
			if err != nil {
				return err
			}
			report.AdoptedCourses = append(report.AdoptedCourses, moved...)
		} else {
			courses, err := repos.Courses.GetByDepartmentID(ctx, departmentID)
			if err != nil {
				return err
			}
			for _, c := range courses {
				if _, err := deleteCourse(ctx, repos, c.CourseID); err != nil {
					return err
				}
				report.DeletedCourses = append(report.DeletedCourses, c.CourseID)
			}
		}

		return repos.Departments.Delete(ctx, departmentID)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("departmentID", departmentID).Msg("Department cascade failed")
		return nil, err
	}

	metrics.RecordDepartmentCascade(report)
	s.log.Info().
		Str("departmentID", departmentID).
		Int("orphanedStudents", report.OrphanedStudents).
		Int("orphanedLecturers", report.OrphanedLecturers).
		Int("adoptedCourses", len(report.AdoptedCourses)).
		Int("deletedCourses", len(report.DeletedCourses)).
		Msg("Department deleted")
	s.publish(ctx, events.DepartmentDeleted, report)
	return report, nil
}

type courseDeleted struct {
	CourseID           string `json:"courseId"`
	RemovedEnrollments int    `json:"removedEnrollments"`
	RemovedAssignments int    `json:"removedAssignments"`
}

// deleteCourse removes both kinds of edges of a course, then the course itself.
func deleteCourse(ctx context.Context, repos *repositories.Repositories, courseID string) (courseDeleted, error) {
	ev := courseDeleted{CourseID: courseID}
	n, err := repos.Enrollments.DeleteByCourse(ctx, courseID)
	if err != nil {
		return ev, err
	}
	ev.RemovedEnrollments = n
	if n, err = repos.Assignments.DeleteByCourse(ctx, courseID); err != nil {
		return ev, err
	}
	ev.RemovedAssignments = n
	return ev, repos.Courses.Delete(ctx, courseID)
}

// DeleteCourse removes a course after removing its enrollments and lecturer assignments
func (s *CascadeService) DeleteCourse(ctx context.Context, courseID string) error {
	if err := checkID(identifier.Course, courseID); err != nil {
		return err
	}

	var ev courseDeleted
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Courses.GetByID(ctx, courseID); err != nil {
			return err
		}
		var err error
		ev, err = deleteCourse(ctx, repos, courseID)
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordCourseCascade()
	s.log.Info().Str("courseID", courseID).Int("removedEnrollments", ev.RemovedEnrollments).
		Int("removedAssignments", ev.RemovedAssignments).Msg("Course deleted")
	s.publish(ctx, events.CourseDeleted, ev)
	return nil
}
