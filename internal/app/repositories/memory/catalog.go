package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/pkg/apperrors"
)

type departmentRepo struct {
	v *view
}

func (r *departmentRepo) Create(ctx context.Context, department *models.Department) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if _, ok := st.departmentNames[department.Name]; ok {
			return apperrors.ErrDepartmentAlreadyExists
		}
		if _, ok := st.departments[department.DepartmentID]; ok {
			return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, department.DepartmentID)
		}
		department.CreatedAt, department.UpdatedAt = now, now
		st.departments[department.DepartmentID] = *department
		st.departmentNames[department.Name] = department.DepartmentID
		return nil
	})
}

func (r *departmentRepo) GetByID(ctx context.Context, departmentID string) (*models.Department, error) {
	var out *models.Department
	err := r.v.read(func(st *state) error {
		d, ok := st.departments[departmentID]
		if !ok {
			return apperrors.ErrDepartmentNotFound
		}
		out = &d
		return nil
	})
	return out, err
}

func (r *departmentRepo) GetByName(ctx context.Context, name string) (*models.Department, error) {
	var out *models.Department
	err := r.v.read(func(st *state) error {
		id, ok := st.departmentNames[name]
		if !ok {
			return apperrors.ErrDepartmentNotFound
		}
		d := st.departments[id]
		out = &d
		return nil
	})
	return out, err
}

func (r *departmentRepo) GetAll(ctx context.Context) ([]*models.Department, error) {
	departments := []*models.Department{}
	err := r.v.read(func(st *state) error {
		for _, d := range st.departments {
			departments = append(departments, &d)
		}
		return nil
	})
	sort.Slice(departments, func(i, j int) bool { return departments[i].DepartmentID < departments[j].DepartmentID })
	return departments, err
}

func (r *departmentRepo) Update(ctx context.Context, department *models.Department) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		stored, ok := st.departments[department.DepartmentID]
		if !ok {
			return apperrors.ErrDepartmentNotFound
		}
		if owner, ok := st.departmentNames[department.Name]; ok && owner != department.DepartmentID {
			return apperrors.ErrDepartmentAlreadyExists
		}
		delete(st.departmentNames, stored.Name)
		stored.Name = department.Name
		stored.Description = department.Description
		stored.UpdatedAt = now
		st.departments[department.DepartmentID] = stored
		st.departmentNames[stored.Name] = stored.DepartmentID
		department.CreatedAt, department.UpdatedAt = stored.CreatedAt, now
		return nil
	})
}

func refersTo(departmentID *string, id string) bool {
	return departmentID != nil && *departmentID == id
}

func (r *departmentRepo) Delete(ctx context.Context, departmentID string) error {
	return r.v.write(func(st *state) error {
		d, ok := st.departments[departmentID]
		if !ok {
			return apperrors.ErrDepartmentNotFound
		}
		for _, s := range st.students {
			if refersTo(s.DepartmentID, departmentID) {
				return apperrors.NewConflictError("department still has dependents")
			}
		}
		for _, l := range st.lecturers {
			if refersTo(l.DepartmentID, departmentID) {
				return apperrors.NewConflictError("department still has dependents")
			}
		}
		for _, c := range st.courses {
			if refersTo(c.DepartmentID, departmentID) {
				return apperrors.NewConflictError("department still has dependents")
			}
		}
		delete(st.departments, departmentID)
		delete(st.departmentNames, d.Name)
		return nil
	})
}

func (r *departmentRepo) ExistsByID(ctx context.Context, departmentID string) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		_, ok = st.departments[departmentID]
		return nil
	})
	return ok, err
}

type courseRepo struct {
	v *view
}

func (st *state) course(courseID string) *models.Course {
	c, ok := st.courses[courseID]
	if !ok {
		return nil
	}
	c.DepartmentID = cloneString(c.DepartmentID)
	return &c
}

func (r *courseRepo) Create(ctx context.Context, course *models.Course) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if _, ok := st.courseNames[course.Name]; ok {
			return apperrors.ErrCourseAlreadyExists
		}
		if _, ok := st.courses[course.CourseID]; ok {
			return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, course.CourseID)
		}
		if err := st.checkDepartment(course.DepartmentID); err != nil {
			return err
		}
		course.CreatedAt, course.UpdatedAt = now, now
		stored := *course
		stored.DepartmentID = cloneString(course.DepartmentID)
		st.courses[course.CourseID] = stored
		st.courseNames[course.Name] = course.CourseID
		return nil
	})
}

func (r *courseRepo) GetByID(ctx context.Context, courseID string) (*models.Course, error) {
	var out *models.Course
	err := r.v.read(func(st *state) error {
		if out = st.course(courseID); out == nil {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
	return out, err
}

func (r *courseRepo) GetByName(ctx context.Context, name string) (*models.Course, error) {
	var out *models.Course
	err := r.v.read(func(st *state) error {
		if out = st.course(st.courseNames[name]); out == nil {
			return apperrors.ErrCourseNotFound
		}
		return nil
	})
	return out, err
}

func (r *courseRepo) list(match func(c *models.Course) bool) ([]*models.Course, error) {
	courses := []*models.Course{}
	err := r.v.read(func(st *state) error {
		for id, c := range st.courses {
			if match(&c) {
				courses = append(courses, st.course(id))
			}
		}
		return nil
	})
	sort.Slice(courses, func(i, j int) bool { return courses[i].CourseID < courses[j].CourseID })
	return courses, err
}

func (r *courseRepo) GetAll(ctx context.Context) ([]*models.Course, error) {
	return r.list(func(*models.Course) bool { return true })
}

func (r *courseRepo) GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Course, error) {
	return r.list(func(c *models.Course) bool { return refersTo(c.DepartmentID, departmentID) })
}

func (r *courseRepo) Update(ctx context.Context, course *models.Course) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		stored, ok := st.courses[course.CourseID]
		if !ok {
			return apperrors.ErrCourseNotFound
		}
		if owner, ok := st.courseNames[course.Name]; ok && owner != course.CourseID {
			return apperrors.ErrCourseAlreadyExists
		}
		if err := st.checkDepartment(course.DepartmentID); err != nil {
			return err
		}
		delete(st.courseNames, stored.Name)
		stored.Name = course.Name
		stored.DepartmentID = cloneString(course.DepartmentID)
		stored.UpdatedAt = now
		st.courses[course.CourseID] = stored
		st.courseNames[stored.Name] = stored.CourseID
		course.CreatedAt, course.UpdatedAt = stored.CreatedAt, now
		return nil
	})
}

func (r *courseRepo) MoveDepartment(ctx context.Context, from, to string) ([]string, error) {
	now := r.v.now()
	var moved []string
	err := r.v.write(func(st *state) error {
		moved = []string{}
		if err := st.checkDepartment(&to); err != nil {
			return err
		}
		for id, c := range st.courses {
			if refersTo(c.DepartmentID, from) {
				c.DepartmentID = cloneString(&to)
				c.UpdatedAt = now
				st.courses[id] = c
				moved = append(moved, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(moved)
	return moved, nil
}

func (r *courseRepo) Delete(ctx context.Context, courseID string) error {
	return r.v.write(func(st *state) error {
		c, ok := st.courses[courseID]
		if !ok {
			return apperrors.ErrCourseNotFound
		}
		for _, e := range st.enrollments {
			if e.CourseID == courseID {
				return apperrors.NewConflictError("course still has enrollments or lecturers")
			}
		}
		for _, a := range st.assignments {
			if a.CourseID == courseID {
				return apperrors.NewConflictError("course still has enrollments or lecturers")
			}
		}
		delete(st.courses, courseID)
		delete(st.courseNames, c.Name)
		return nil
	})
}

func (r *courseRepo) ExistsByID(ctx context.Context, courseID string) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		_, ok = st.courses[courseID]
		return nil
	})
	return ok, err
}
