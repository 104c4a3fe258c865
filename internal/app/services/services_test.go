package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories/memory"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/events"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestServices(t *testing.T) (*Services, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(memory.NewRepositories(), rec, Options{BcryptCost: bcrypt.MinCost}), rec
}

func newUser(username string) NewUser {
	return NewUser{
		Username: username,
		Password: "password123",
		Profile:  models.Profile{FirstName: "Test", LastName: username, Email: username + "@school.edu"},
	}
}

type fixture struct {
	svc        *Services
	rec        *recorder
	department *models.Department
	course     *models.Course
	student    *models.Student
	lecturer   *models.Lecturer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	svc, rec := newTestServices(t)

	dep, err := svc.Departments.Create(ctx, "Computer Engineering", "")
	require.NoError(t, err)
	course, err := svc.Courses.Create(ctx, "Algorithms", &dep.DepartmentID)
	require.NoError(t, err)
	student, err := svc.Students.Create(ctx, NewStudent{NewUser: newUser("ada"), DepartmentID: &dep.DepartmentID})
	require.NoError(t, err)
	lecturer, err := svc.Lecturers.Create(ctx, NewLecturer{NewUser: newUser("grace"), DepartmentID: &dep.DepartmentID})
	require.NoError(t, err)

	return &fixture{svc: svc, rec: rec, department: dep, course: course, student: student, lecturer: lecturer}
}

func TestCreateIssuesSeededIdentifiers(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "DEP-00001", f.department.DepartmentID)
	assert.Equal(t, "COURSE-00001", f.course.CourseID)
	assert.Equal(t, "USER-0000001", f.student.UserID)
	assert.Equal(t, "STD-0000001", f.student.StudentID)
	assert.Equal(t, "USER-0000002", f.lecturer.UserID)
	assert.Equal(t, "LEC-00001", f.lecturer.LecturerID)
	assert.False(t, f.lecturer.IsLIC)
	assert.Equal(t, models.RoleStudent, f.student.Role)

	next, err := f.svc.Students.Create(context.Background(), NewStudent{NewUser: newUser("alan")})
	require.NoError(t, err)
	assert.Equal(t, "STD-0000002", next.StudentID)
	assert.Equal(t, "USER-0000003", next.UserID)
	assert.Nil(t, next.DepartmentID)
}

func TestCreateRejectsDuplicatesAndBadInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Lecturers.Create(ctx, NewLecturer{NewUser: newUser("ada")})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
	assert.True(t, apperrors.IsConflict(err))

	_, err = f.svc.Departments.Create(ctx, "Computer Engineering", "again")
	assert.True(t, apperrors.IsConflict(err))

	_, err = f.svc.Courses.Create(ctx, "Algorithms", nil)
	assert.True(t, apperrors.IsConflict(err))

	_, err = f.svc.Students.Create(ctx, NewStudent{NewUser: NewUser{Username: "x", Password: "password123"}})
	assert.True(t, apperrors.IsInvalidInput(err))

	bad := newUser("bob")
	bad.Password = "short"
	_, err = f.svc.Students.Create(ctx, NewStudent{NewUser: bad})
	assert.True(t, apperrors.IsInvalidInput(err))

	missing := "DEP-00099"
	_, err = f.svc.Students.Create(ctx, NewStudent{NewUser: newUser("bob"), DepartmentID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)

	// the rejected creations did not consume identifiers
	s, err := f.svc.Students.Create(ctx, NewStudent{NewUser: newUser("bob")})
	require.NoError(t, err)
	assert.Equal(t, "STD-0000002", s.StudentID)
	assert.Equal(t, "USER-0000003", s.UserID)
}

func TestConcurrentCreationIssuesDistinctIdentifiers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	const n = 40
	ids := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			s, err := svc.Students.Create(ctx, NewStudent{NewUser: newUser(fmt.Sprintf("student%02d", i))})
			if err != nil {
				return err
			}
			ids[i] = s.StudentID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[fmt.Sprintf("STD-%07d", i)])
	}
}

func TestEnrollTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	view, err := f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)
	require.Len(t, view.Students, 1)
	assert.Equal(t, f.student.StudentID, view.Students[0].StudentID)

	_, err = f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

	courses, err := f.svc.Relationships.ListCoursesForStudent(ctx, f.student.StudentID)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	students, err := f.svc.Relationships.ListStudentsForCourse(ctx, f.course.CourseID)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	assert.Contains(t, f.rec.types(), events.StudentEnrolled)
}

func TestEnrollUnknownOrMalformed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Relationships.Enroll(ctx, "STD-0009999", f.course.CourseID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = f.svc.Relationships.Enroll(ctx, f.student.StudentID, "COURSE-09999")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = f.svc.Relationships.Enroll(ctx, "not-an-id", f.course.CourseID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)

	_, err = f.svc.Relationships.Enroll(ctx, f.lecturer.LecturerID, f.course.CourseID)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestDropBeforeAndAfterEnroll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Relationships.Drop(ctx, f.student.StudentID, f.course.CourseID)
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	assert.True(t, apperrors.IsConflict(err))

	_, err = f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)

	view, err := f.svc.Relationships.Drop(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)
	assert.Empty(t, view.Students)

	courses, err := f.svc.Relationships.ListCoursesForStudent(ctx, f.student.StudentID)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestListsKeepEnrollmentOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	second, err := f.svc.Courses.Create(ctx, "Compilers", nil)
	require.NoError(t, err)
	_, err = f.svc.Relationships.Enroll(ctx, f.student.StudentID, second.CourseID)
	require.NoError(t, err)
	_, err = f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)

	courses, err := f.svc.Relationships.ListCoursesForStudent(ctx, f.student.StudentID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, second.CourseID, courses[0].CourseID)
	assert.Equal(t, f.course.CourseID, courses[1].CourseID)

	_, err = f.svc.Relationships.ListCoursesForStudent(ctx, "STD-0000404")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestAssignToMissingDepartmentKeepsReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Relationships.AssignStudentToDepartment(ctx, f.student.StudentID, "DEP-00404")
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)

	s, err := f.svc.Students.Get(ctx, f.student.StudentID)
	require.NoError(t, err)
	require.NotNil(t, s.DepartmentID)
	assert.Equal(t, f.department.DepartmentID, *s.DepartmentID)

	_, err = f.svc.Relationships.AssignLecturerToDepartment(ctx, "LEC-00404", f.department.DepartmentID)
	assert.ErrorIs(t, err, apperrors.ErrLecturerNotFound)

	other, err := f.svc.Departments.Create(ctx, "Mathematics", "")
	require.NoError(t, err)
	s, err = f.svc.Relationships.AssignStudentToDepartment(ctx, f.student.StudentID, other.DepartmentID)
	require.NoError(t, err)
	assert.Equal(t, other.DepartmentID, *s.DepartmentID)
}

func TestSetLICIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	l, err := f.svc.Relationships.SetLIC(ctx, f.lecturer.LecturerID, true)
	require.NoError(t, err)
	assert.True(t, l.IsLIC)
	l, err = f.svc.Relationships.SetLIC(ctx, f.lecturer.LecturerID, true)
	require.NoError(t, err)
	assert.True(t, l.IsLIC)

	_, err = f.svc.Relationships.SetLIC(ctx, "LEC-00404", true)
	assert.ErrorIs(t, err, apperrors.ErrLecturerNotFound)

	// losing the last course leaves the flag untouched
	_, err = f.svc.Relationships.AssignLecturerToCourse(ctx, f.lecturer.LecturerID, f.course.CourseID)
	require.NoError(t, err)
	_, err = f.svc.Relationships.UnassignLecturerFromCourse(ctx, f.lecturer.LecturerID, f.course.CourseID)
	require.NoError(t, err)
	l, err = f.svc.Lecturers.Get(ctx, f.lecturer.LecturerID)
	require.NoError(t, err)
	assert.True(t, l.IsLIC)

	l, err = f.svc.Relationships.SetLIC(ctx, f.lecturer.LecturerID, false)
	require.NoError(t, err)
	assert.False(t, l.IsLIC)
}

func TestLecturerAssignments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Relationships.UnassignLecturerFromCourse(ctx, f.lecturer.LecturerID, f.course.CourseID)
	assert.ErrorIs(t, err, apperrors.ErrNotAssigned)

	view, err := f.svc.Relationships.AssignLecturerToCourse(ctx, f.lecturer.LecturerID, f.course.CourseID)
	require.NoError(t, err)
	require.Len(t, view.Lecturers, 1)

	_, err = f.svc.Relationships.AssignLecturerToCourse(ctx, f.lecturer.LecturerID, f.course.CourseID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAssigned)

	summary, err := f.svc.Lecturers.Summary(ctx, f.lecturer.LecturerID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.course.CourseID}, summary["courses"])

	lecturers, err := f.svc.Relationships.ListLecturersForCourse(ctx, f.course.CourseID)
	require.NoError(t, err)
	require.Len(t, lecturers, 1)
	assert.Equal(t, f.lecturer.LecturerID, lecturers[0].LecturerID)
}

func TestDeleteDepartmentOrphansDependents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)
	_, err = f.svc.Relationships.AssignLecturerToCourse(ctx, f.lecturer.LecturerID, f.course.CourseID)
	require.NoError(t, err)

	report, err := f.svc.Cascade.DeleteDepartment(ctx, f.department.DepartmentID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, report.OrphanedStudents)
	assert.Equal(t, 1, report.OrphanedLecturers)
	assert.Equal(t, []string{f.course.CourseID}, report.DeletedCourses)
	assert.Empty(t, report.AdoptedCourses)

	s, err := f.svc.Students.Get(ctx, f.student.StudentID)
	require.NoError(t, err)
	assert.Nil(t, s.DepartmentID)
	assert.Equal(t, f.student.Username, s.Username)
	assert.Equal(t, f.student.Email, s.Email)
	assert.Equal(t, f.student.UserID, s.UserID)

	l, err := f.svc.Lecturers.Get(ctx, f.lecturer.LecturerID)
	require.NoError(t, err)
	assert.Nil(t, l.DepartmentID)

	_, err = f.svc.Courses.Get(ctx, f.course.CourseID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	courses, err := f.svc.Relationships.ListCoursesForStudent(ctx, f.student.StudentID)
	require.NoError(t, err)
	assert.Empty(t, courses)

	_, err = f.svc.Departments.Get(ctx, f.department.DepartmentID)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
	assert.Contains(t, f.rec.types(), events.DepartmentDeleted)
}

func TestDeleteDepartmentWithSuccessor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	successor, err := f.svc.Departments.Create(ctx, "Software Engineering", "")
	require.NoError(t, err)
	_, err = f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)

	_, err = f.svc.Cascade.DeleteDepartment(ctx, f.department.DepartmentID, f.department.DepartmentID)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.svc.Cascade.DeleteDepartment(ctx, f.department.DepartmentID, "DEP-00404")
	assert.True(t, apperrors.IsNotFound(err))
	// nothing changed
	s, err := f.svc.Students.Get(ctx, f.student.StudentID)
	require.NoError(t, err)
	assert.NotNil(t, s.DepartmentID)

	report, err := f.svc.Cascade.DeleteDepartment(ctx, f.department.DepartmentID, successor.DepartmentID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.course.CourseID}, report.AdoptedCourses)
	assert.Empty(t, report.DeletedCourses)

	c, err := f.svc.Courses.Get(ctx, f.course.CourseID)
	require.NoError(t, err)
	assert.Equal(t, successor.DepartmentID, *c.DepartmentID)
	students, err := f.svc.Relationships.ListStudentsForCourse(ctx, f.course.CourseID)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	_, err = f.svc.Cascade.DeleteDepartment(ctx, f.department.DepartmentID, "")
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
}

func TestDeleteCourseRemovesEdges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)
	_, err = f.svc.Relationships.AssignLecturerToCourse(ctx, f.lecturer.LecturerID, f.course.CourseID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cascade.DeleteCourse(ctx, f.course.CourseID))
	assert.ErrorIs(t, f.svc.Cascade.DeleteCourse(ctx, f.course.CourseID), apperrors.ErrCourseNotFound)

	courses, err := f.svc.Relationships.ListCoursesForLecturer(ctx, f.lecturer.LecturerID)
	require.NoError(t, err)
	assert.Empty(t, courses)
	courses, err = f.svc.Relationships.ListCoursesForStudent(ctx, f.student.StudentID)
	require.NoError(t, err)
	assert.Empty(t, courses)

	// the department survives a course delete
	_, err = f.svc.Departments.Get(ctx, f.department.DepartmentID)
	require.NoError(t, err)
}

func TestDeleteStudentLeavesCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Relationships.Enroll(ctx, f.student.StudentID, f.course.CourseID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Students.Delete(ctx, f.student.StudentID))
	assert.ErrorIs(t, f.svc.Students.Delete(ctx, f.student.StudentID), apperrors.ErrStudentNotFound)

	view, err := f.svc.Courses.View(ctx, f.course.CourseID)
	require.NoError(t, err)
	assert.Empty(t, view.Students)
}

func TestUpdateKeepsIdentifiers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	s, err := f.svc.Students.Update(ctx, f.student.StudentID, models.Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@school.edu"})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", s.LastName)
	assert.Equal(t, f.student.StudentID, s.StudentID)
	assert.Equal(t, f.student.UserID, s.UserID)
	assert.Equal(t, f.department.DepartmentID, *s.DepartmentID)

	_, err = f.svc.Students.Update(ctx, "STD-0000404", models.Profile{})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	d, err := f.svc.Departments.Update(ctx, f.department.DepartmentID, "CENG", "renamed")
	require.NoError(t, err)
	assert.Equal(t, "CENG", d.Name)
	got, err := f.svc.Departments.GetByName(ctx, "CENG")
	require.NoError(t, err)
	assert.Equal(t, f.department.DepartmentID, got.DepartmentID)
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Students.CreateBatch(ctx, []NewStudent{{NewUser: newUser("alan")}, {NewUser: newUser("ada")}})
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
	_, err = f.svc.Students.GetByUsername(ctx, "alan")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = f.svc.Students.CreateBatch(ctx, []NewStudent{{NewUser: newUser("bob")}, {NewUser: newUser("bob")}})
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.svc.Students.CreateBatch(ctx, nil)
	assert.True(t, apperrors.IsInvalidInput(err))

	created, err := f.svc.Students.CreateBatch(ctx, []NewStudent{{NewUser: newUser("alan")}, {NewUser: newUser("bob")}})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "STD-0000002", created[0].StudentID)
	assert.Equal(t, "STD-0000003", created[1].StudentID)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	account, err := f.svc.Accounts.Verify(ctx, "ada", "password123")
	require.NoError(t, err)
	assert.Equal(t, f.student.StudentID, account.RoleID)
	assert.Equal(t, models.RoleStudent, account.Role)

	_, err = f.svc.Accounts.Verify(ctx, "ada", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Accounts.Verify(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	assert.ErrorIs(t, f.svc.Accounts.ChangePassword(ctx, "ada", "wrong-password", "new-password"), apperrors.ErrInvalidCredentials)
	assert.True(t, apperrors.IsInvalidInput(f.svc.Accounts.ChangePassword(ctx, "ada", "password123", "short")))
	require.NoError(t, f.svc.Accounts.ChangePassword(ctx, "ada", "password123", "new-password"))

	_, err = f.svc.Accounts.Verify(ctx, "ada", "new-password")
	require.NoError(t, err)
}

func TestAdmins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestServices(t)

	created, err := svc.Admins.EnsureDefault(ctx, NewAdmin{NewUser: newUser("root"), IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.Admins.EnsureDefault(ctx, NewAdmin{NewUser: newUser("root2"), IsAdmin: true})
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := svc.Admins.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "USER-0000001", admin.UserID)

	off := false
	admin, err = svc.Admins.Update(ctx, admin.UserID, models.Profile{FirstName: "Root"}, &off)
	require.NoError(t, err)
	assert.False(t, admin.IsAdmin)

	summary, err := svc.Admins.Summary(ctx, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, "root", summary["userName"])

	require.NoError(t, svc.Admins.Delete(ctx, admin.UserID))
	_, err = svc.Admins.Get(ctx, admin.UserID)
	assert.ErrorIs(t, err, apperrors.ErrAdminNotFound)
}

type ctxRecorder struct {
	errs []error
}

func (r *ctxRecorder) Publish(ctx context.Context, _ events.Event) error {
	r.errs = append(r.errs, ctx.Err())
	return nil
}

func (r *ctxRecorder) Close() error { return nil }

func TestPublishOutlivesRequestContext(t *testing.T) {
	rec := &ctxRecorder{}
	svc := New(memory.NewRepositories(), rec, Options{BcryptCost: bcrypt.MinCost})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.Students.publish(ctx, events.StudentEnrolled, nil)

	require.Len(t, rec.errs, 1)
	assert.NoError(t, rec.errs[0])
}
