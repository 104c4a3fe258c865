package memory

import (
	"context"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/identifier"
)

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

type enrollmentRepo struct {
	v *view
}

func (r *enrollmentRepo) Add(ctx context.Context, studentID, courseID string) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if _, ok := st.students[studentID]; !ok {
			return apperrors.ErrStudentNotFound
		}
		if _, ok := st.courses[courseID]; !ok {
			return apperrors.ErrCourseNotFound
		}
		for _, e := range st.enrollments {
			if e.StudentID == studentID && e.CourseID == courseID {
				return apperrors.ErrAlreadyEnrolled
			}
		}
		st.enrollments = append(st.enrollments, models.Enrollment{StudentID: studentID, CourseID: courseID, CreatedAt: now})
		return nil
	})
}

func (r *enrollmentRepo) Remove(ctx context.Context, studentID, courseID string) error {
	return r.v.write(func(st *state) error {
		before := len(st.enrollments)
		st.enrollments = filter(st.enrollments, func(e models.Enrollment) bool {
			return e.StudentID != studentID || e.CourseID != courseID
		})
		if len(st.enrollments) == before {
			return apperrors.ErrNotEnrolled
		}
		return nil
	})
}

func (r *enrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	var found bool
	err := r.v.read(func(st *state) error {
		for _, e := range st.enrollments {
			if e.StudentID == studentID && e.CourseID == courseID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *enrollmentRepo) CoursesForStudent(ctx context.Context, studentID string) ([]*models.Course, error) {
	courses := []*models.Course{}
	err := r.v.read(func(st *state) error {
		for _, e := range st.enrollments {
			if e.StudentID == studentID {
				if c := st.course(e.CourseID); c != nil {
					courses = append(courses, c)
				}
			}
		}
		return nil
	})
	return courses, err
}

func (r *enrollmentRepo) StudentsForCourse(ctx context.Context, courseID string) ([]*models.Student, error) {
	students := []*models.Student{}
	err := r.v.read(func(st *state) error {
		for _, e := range st.enrollments {
			if e.CourseID != courseID {
				continue
			}
			if s, ok := st.students[e.StudentID]; ok {
				s.DepartmentID = cloneString(s.DepartmentID)
				students = append(students, &s)
			}
		}
		return nil
	})
	return students, err
}

func (r *enrollmentRepo) deleteWhere(keep func(e models.Enrollment) bool) (int, error) {
	var n int
	err := r.v.write(func(st *state) error {
		before := len(st.enrollments)
		st.enrollments = filter(st.enrollments, keep)
		n = before - len(st.enrollments)
		return nil
	})
	return n, err
}

func (r *enrollmentRepo) DeleteByStudent(ctx context.Context, studentID string) (int, error) {
	return r.deleteWhere(func(e models.Enrollment) bool { return e.StudentID != studentID })
}

func (r *enrollmentRepo) DeleteByCourse(ctx context.Context, courseID string) (int, error) {
	return r.deleteWhere(func(e models.Enrollment) bool { return e.CourseID != courseID })
}

type assignmentRepo struct {
	v *view
}

func (r *assignmentRepo) Add(ctx context.Context, lecturerID, courseID string) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if _, ok := st.lecturers[lecturerID]; !ok {
			return apperrors.ErrLecturerNotFound
		}
		if _, ok := st.courses[courseID]; !ok {
			return apperrors.ErrCourseNotFound
		}
		for _, a := range st.assignments {
			if a.LecturerID == lecturerID && a.CourseID == courseID {
				return apperrors.ErrAlreadyAssigned
			}
		}
		st.assignments = append(st.assignments, models.LecturerAssignment{LecturerID: lecturerID, CourseID: courseID, CreatedAt: now})
		return nil
	})
}

func (r *assignmentRepo) Remove(ctx context.Context, lecturerID, courseID string) error {
	return r.v.write(func(st *state) error {
		before := len(st.assignments)
		st.assignments = filter(st.assignments, func(a models.LecturerAssignment) bool {
			return a.LecturerID != lecturerID || a.CourseID != courseID
		})
		if len(st.assignments) == before {
			return apperrors.ErrNotAssigned
		}
		return nil
	})
}

func (r *assignmentRepo) Exists(ctx context.Context, lecturerID, courseID string) (bool, error) {
	var found bool
	err := r.v.read(func(st *state) error {
		for _, a := range st.assignments {
			if a.LecturerID == lecturerID && a.CourseID == courseID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *assignmentRepo) CoursesForLecturer(ctx context.Context, lecturerID string) ([]*models.Course, error) {
	courses := []*models.Course{}
	err := r.v.read(func(st *state) error {
		for _, a := range st.assignments {
			if a.LecturerID == lecturerID {
				if c := st.course(a.CourseID); c != nil {
					courses = append(courses, c)
				}
			}
		}
		return nil
	})
	return courses, err
}

func (r *assignmentRepo) LecturersForCourse(ctx context.Context, courseID string) ([]*models.Lecturer, error) {
	lecturers := []*models.Lecturer{}
	err := r.v.read(func(st *state) error {
		for _, a := range st.assignments {
			if a.CourseID != courseID {
				continue
			}
			if l, ok := st.lecturers[a.LecturerID]; ok {
				l.DepartmentID = cloneString(l.DepartmentID)
				lecturers = append(lecturers, &l)
			}
		}
		return nil
	})
	return lecturers, err
}

func (r *assignmentRepo) deleteWhere(keep func(a models.LecturerAssignment) bool) (int, error) {
	var n int
	err := r.v.write(func(st *state) error {
		before := len(st.assignments)
		st.assignments = filter(st.assignments, keep)
		n = before - len(st.assignments)
		return nil
	})
	return n, err
}

func (r *assignmentRepo) DeleteByLecturer(ctx context.Context, lecturerID string) (int, error) {
	return r.deleteWhere(func(a models.LecturerAssignment) bool { return a.LecturerID != lecturerID })
}

func (r *assignmentRepo) DeleteByCourse(ctx context.Context, courseID string) (int, error) {
	return r.deleteWhere(func(a models.LecturerAssignment) bool { return a.CourseID != courseID })
}

type seriesRepo struct {
	v *view
}

// Next issues the next identifier of s. Outside a transaction the store lock serializes issuers;
// inside one the transaction already holds it.
func (r *seriesRepo) Next(ctx context.Context, s identifier.Series) (string, error) {
	var next string
	err := r.v.write(func(st *state) error {
		id, err := identifier.NextInSeries(s, st.series[s.Name])
		if err != nil {
			return err
		}
		st.series[s.Name] = id
		next = id
		return nil
	})
	return next, err
}
