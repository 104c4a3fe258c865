package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories/user"
	"github.com/yigit/registry/internal/db"
	"github.com/yigit/registry/internal/pkg/identifier"
)

// UserRepository covers operations shared by every user role.
type UserRepository interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// AdminRepository stores admins keyed by userId.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, userID string) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetAll(ctx context.Context) ([]*models.Admin, error)
	Update(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, userID string) error
	Count(ctx context.Context) (int, error)
}

// LecturerRepository stores lecturers keyed by lecturerId.
type LecturerRepository interface {
	Create(ctx context.Context, lecturer *models.Lecturer) error
	GetByID(ctx context.Context, lecturerID string) (*models.Lecturer, error)
	GetByUsername(ctx context.Context, username string) (*models.Lecturer, error)
	GetAll(ctx context.Context) ([]*models.Lecturer, error)
	GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Lecturer, error)
	// Update replaces the profile fields; identifiers, department and LIC flag are untouched.
	Update(ctx context.Context, lecturer *models.Lecturer) error
	SetDepartment(ctx context.Context, lecturerID string, departmentID *string) error
	// ClearDepartment nulls the department of every lecturer in departmentID.
	ClearDepartment(ctx context.Context, departmentID string) (int, error)
	SetLIC(ctx context.Context, lecturerID string, isLIC bool) error
	// Delete removes the lecturer and its course assignments.
	Delete(ctx context.Context, lecturerID string) error
	ExistsByID(ctx context.Context, lecturerID string) (bool, error)
}

// StudentRepository stores students keyed by studentId.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	GetByUsername(ctx context.Context, username string) (*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
	GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Student, error)
	// Update replaces the profile fields; identifiers and department are untouched.
	Update(ctx context.Context, student *models.Student) error
	SetDepartment(ctx context.Context, studentID string, departmentID *string) error
	// ClearDepartment nulls the department of every student in departmentID.
	ClearDepartment(ctx context.Context, departmentID string) (int, error)
	// Delete removes the student and its enrollments.
	Delete(ctx context.Context, studentID string) error
	ExistsByID(ctx context.Context, studentID string) (bool, error)
}

// DepartmentRepository stores departments keyed by departmentId.
type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, departmentID string) (*models.Department, error)
	GetByName(ctx context.Context, name string) (*models.Department, error)
	GetAll(ctx context.Context) ([]*models.Department, error)
	Update(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, departmentID string) error
	ExistsByID(ctx context.Context, departmentID string) (bool, error)
}

// CourseRepository stores courses keyed by courseId.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, courseID string) (*models.Course, error)
	GetByName(ctx context.Context, name string) (*models.Course, error)
	GetAll(ctx context.Context) ([]*models.Course, error)
	GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Course, error)
	// Update replaces name and department.
	Update(ctx context.Context, course *models.Course) error
	// MoveDepartment reassigns every course of from to to and returns the moved ids.
	MoveDepartment(ctx context.Context, from, to string) ([]string, error)
	// Delete removes the course row only. Edges must be removed first.
	Delete(ctx context.Context, courseID string) error
	ExistsByID(ctx context.Context, courseID string) (bool, error)
}

// EnrollmentRepository owns the Student-Course edge table.
type EnrollmentRepository interface {
	// Add returns apperrors.ErrAlreadyEnrolled for an existing edge.
	Add(ctx context.Context, studentID, courseID string) error
	// Remove returns apperrors.ErrNotEnrolled when no edge exists.
	Remove(ctx context.Context, studentID, courseID string) error
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	CoursesForStudent(ctx context.Context, studentID string) ([]*models.Course, error)
	StudentsForCourse(ctx context.Context, courseID string) ([]*models.Student, error)
	DeleteByStudent(ctx context.Context, studentID string) (int, error)
	DeleteByCourse(ctx context.Context, courseID string) (int, error)
}

// AssignmentRepository owns the Lecturer-Course edge table.
type AssignmentRepository interface {
	// Add returns apperrors.ErrAlreadyAssigned for an existing edge.
	Add(ctx context.Context, lecturerID, courseID string) error
	// Remove returns apperrors.ErrNotAssigned when no edge exists.
	Remove(ctx context.Context, lecturerID, courseID string) error
	Exists(ctx context.Context, lecturerID, courseID string) (bool, error)
	CoursesForLecturer(ctx context.Context, lecturerID string) ([]*models.Course, error)
	LecturersForCourse(ctx context.Context, courseID string) ([]*models.Lecturer, error)
	DeleteByLecturer(ctx context.Context, lecturerID string) (int, error)
	DeleteByCourse(ctx context.Context, courseID string) (int, error)
}

// SeriesRepository issues identifiers. Issuance is serialized per series until the enclosing
// transaction ends, so callers must create the entity in the same transaction.
type SeriesRepository interface {
	Next(ctx context.Context, series identifier.Series) (string, error)
}

// Transactor runs a unit of work atomically against a set of repositories bound to it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Users       UserRepository
	Admins      AdminRepository
	Lecturers   LecturerRepository
	Students    StudentRepository
	Departments DepartmentRepository
	Courses     CourseRepository
	Enrollments EnrollmentRepository
	Assignments AssignmentRepository
	Series      SeriesRepository

	Tx Transactor
}

// WithTransaction runs fn in one transaction. fn must only use the repositories it is given.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return r.Tx.WithinTransaction(ctx, fn)
}

// NewRepositories initializes the PostgreSQL repositories over conn, which may be the pool or
// an open transaction.
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		Users:       user.NewRepository(conn),
		Admins:      user.NewAdminRepository(conn),
		Lecturers:   user.NewLecturerRepository(conn),
		Students:    user.NewStudentRepository(conn),
		Departments: NewDepartmentRepository(conn),
		Courses:     NewCourseRepository(conn),
		Enrollments: NewEnrollmentRepository(conn),
		Assignments: NewLecturerCourseRepository(conn),
		Series:      NewSeriesRepository(conn),
		Tx:          pgTransactor{conn: conn},
	}
}

type pgTransactor struct {
	conn db.DBTX
}

func (t pgTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return db.WithTransaction(ctx, t.conn, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
}
