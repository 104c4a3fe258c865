package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/pkg/apperrors"
)

// addUser claims the userId and username of u, mirroring the users table keys.
func (st *state) addUser(u *models.UserFields) error {
	if _, ok := st.usernames[u.Username]; ok {
		return apperrors.ErrUsernameAlreadyExists
	}
	if _, ok := st.users[u.UserID]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, u.UserID)
	}
	st.users[u.UserID] = u.Username
	st.usernames[u.Username] = u.UserID
	return nil
}

func (st *state) removeUser(userID string) {
	delete(st.usernames, st.users[userID])
	delete(st.users, userID)
}

func (st *state) checkDepartment(departmentID *string) error {
	if departmentID == nil {
		return nil
	}
	if _, ok := st.departments[*departmentID]; !ok {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}

func (st *state) account(userID string) (*models.Account, bool) {
	if a, ok := st.admins[userID]; ok {
		return &models.Account{UserFields: a.UserFields, RoleID: a.UserID}, true
	}
	for _, l := range st.lecturers {
		if l.UserID == userID {
			return &models.Account{UserFields: l.UserFields, RoleID: l.LecturerID}, true
		}
	}
	for _, s := range st.students {
		if s.UserID == userID {
			return &models.Account{UserFields: s.UserFields, RoleID: s.StudentID}, true
		}
	}
	return nil, false
}

type userRepo struct {
	v *view
}

func (r *userRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		_, ok = st.usernames[username]
		return nil
	})
	return ok, err
}

func (r *userRepo) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account *models.Account
	err := r.v.read(func(st *state) error {
		userID, ok := st.usernames[username]
		if !ok {
			return apperrors.ErrUserNotFound
		}
		if account, ok = st.account(userID); !ok {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
	return account, err
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if a, ok := st.admins[userID]; ok {
			a.PasswordHash, a.UpdatedAt = passwordHash, now
			st.admins[userID] = a
			return nil
		}
		for id, l := range st.lecturers {
			if l.UserID == userID {
				l.PasswordHash, l.UpdatedAt = passwordHash, now
				st.lecturers[id] = l
				return nil
			}
		}
		for id, s := range st.students {
			if s.UserID == userID {
				s.PasswordHash, s.UpdatedAt = passwordHash, now
				st.students[id] = s
				return nil
			}
		}
		return apperrors.ErrUserNotFound
	})
}

type adminRepo struct {
	v *view
}

func (r *adminRepo) Create(ctx context.Context, admin *models.Admin) error {
	admin.Role = models.RoleAdmin
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if err := st.addUser(&admin.UserFields); err != nil {
			return err
		}
		admin.CreatedAt, admin.UpdatedAt = now, now
		st.admins[admin.UserID] = *admin
		return nil
	})
}

func (r *adminRepo) find(match func(a *models.Admin) bool) (*models.Admin, error) {
	var out *models.Admin
	err := r.v.read(func(st *state) error {
		for _, a := range st.admins {
			if match(&a) {
				out = &a
				return nil
			}
		}
		return apperrors.ErrAdminNotFound
	})
	return out, err
}

func (r *adminRepo) GetByID(ctx context.Context, userID string) (*models.Admin, error) {
	return r.find(func(a *models.Admin) bool { return a.UserID == userID })
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.find(func(a *models.Admin) bool { return a.Username == username })
}

func (r *adminRepo) GetAll(ctx context.Context) ([]*models.Admin, error) {
	admins := []*models.Admin{}
	err := r.v.read(func(st *state) error {
		for _, a := range st.admins {
			admins = append(admins, &a)
		}
		return nil
	})
	sort.Slice(admins, func(i, j int) bool { return admins[i].UserID < admins[j].UserID })
	return admins, err
}

func (r *adminRepo) Update(ctx context.Context, admin *models.Admin) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		stored, ok := st.admins[admin.UserID]
		if !ok {
			return apperrors.ErrAdminNotFound
		}
		stored.ApplyProfile(admin.Profile())
		stored.IsAdmin = admin.IsAdmin
		stored.UpdatedAt = now
		st.admins[admin.UserID] = stored
		admin.UpdatedAt = now
		return nil
	})
}

func (r *adminRepo) Delete(ctx context.Context, userID string) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.admins[userID]; !ok {
			return apperrors.ErrAdminNotFound
		}
		delete(st.admins, userID)
		st.removeUser(userID)
		return nil
	})
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.v.read(func(st *state) error {
		n = len(st.admins)
		return nil
	})
	return n, err
}

type lecturerRepo struct {
	v *view
}

func (r *lecturerRepo) Create(ctx context.Context, lecturer *models.Lecturer) error {
	lecturer.Role = models.RoleLecturer
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if err := st.addUser(&lecturer.UserFields); err != nil {
			return err
		}
		if _, ok := st.lecturers[lecturer.LecturerID]; ok {
			return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, lecturer.LecturerID)
		}
		if err := st.checkDepartment(lecturer.DepartmentID); err != nil {
			return err
		}
		lecturer.CreatedAt, lecturer.UpdatedAt = now, now
		stored := *lecturer
		stored.DepartmentID = cloneString(lecturer.DepartmentID)
		st.lecturers[lecturer.LecturerID] = stored
		return nil
	})
}

func (r *lecturerRepo) list(match func(l *models.Lecturer) bool) ([]*models.Lecturer, error) {
	lecturers := []*models.Lecturer{}
	err := r.v.read(func(st *state) error {
		for _, l := range st.lecturers {
			if match(&l) {
				l.DepartmentID = cloneString(l.DepartmentID)
				lecturers = append(lecturers, &l)
			}
		}
		return nil
	})
	sort.Slice(lecturers, func(i, j int) bool { return lecturers[i].LecturerID < lecturers[j].LecturerID })
	return lecturers, err
}

func (r *lecturerRepo) first(match func(l *models.Lecturer) bool) (*models.Lecturer, error) {
	lecturers, err := r.list(match)
	if err != nil {
		return nil, err
	}
	if len(lecturers) == 0 {
		return nil, apperrors.ErrLecturerNotFound
	}
	return lecturers[0], nil
}

func (r *lecturerRepo) GetByID(ctx context.Context, lecturerID string) (*models.Lecturer, error) {
	return r.first(func(l *models.Lecturer) bool { return l.LecturerID == lecturerID })
}

func (r *lecturerRepo) GetByUsername(ctx context.Context, username string) (*models.Lecturer, error) {
	return r.first(func(l *models.Lecturer) bool { return l.Username == username })
}

func (r *lecturerRepo) GetAll(ctx context.Context) ([]*models.Lecturer, error) {
	return r.list(func(*models.Lecturer) bool { return true })
}

func (r *lecturerRepo) GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Lecturer, error) {
	return r.list(func(l *models.Lecturer) bool {
		return l.DepartmentID != nil && *l.DepartmentID == departmentID
	})
}

func (r *lecturerRepo) modify(lecturerID string, fn func(l *models.Lecturer, st *state) error) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		l, ok := st.lecturers[lecturerID]
		if !ok {
			return apperrors.ErrLecturerNotFound
		}
		if err := fn(&l, st); err != nil {
			return err
		}
		l.UpdatedAt = now
		st.lecturers[lecturerID] = l
		return nil
	})
}

func (r *lecturerRepo) Update(ctx context.Context, lecturer *models.Lecturer) error {
	return r.modify(lecturer.LecturerID, func(l *models.Lecturer, _ *state) error {
		l.ApplyProfile(lecturer.Profile())
		lecturer.UpdatedAt = r.v.now()
		return nil
	})
}

func (r *lecturerRepo) SetDepartment(ctx context.Context, lecturerID string, departmentID *string) error {
	return r.modify(lecturerID, func(l *models.Lecturer, st *state) error {
		if err := st.checkDepartment(departmentID); err != nil {
			return err
		}
		l.DepartmentID = cloneString(departmentID)
		return nil
	})
}

func (r *lecturerRepo) ClearDepartment(ctx context.Context, departmentID string) (int, error) {
	var n int
	err := r.v.write(func(st *state) error {
		for id, l := range st.lecturers {
			if l.DepartmentID != nil && *l.DepartmentID == departmentID {
				l.DepartmentID = nil
				st.lecturers[id] = l
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *lecturerRepo) SetLIC(ctx context.Context, lecturerID string, isLIC bool) error {
	return r.modify(lecturerID, func(l *models.Lecturer, _ *state) error {
		l.IsLIC = isLIC
		return nil
	})
}

func (r *lecturerRepo) Delete(ctx context.Context, lecturerID string) error {
	return r.v.write(func(st *state) error {
		l, ok := st.lecturers[lecturerID]
		if !ok {
			return apperrors.ErrLecturerNotFound
		}
		st.assignments = filter(st.assignments, func(a models.LecturerAssignment) bool { return a.LecturerID != lecturerID })
		delete(st.lecturers, lecturerID)
		st.removeUser(l.UserID)
		return nil
	})
}

func (r *lecturerRepo) ExistsByID(ctx context.Context, lecturerID string) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		_, ok = st.lecturers[lecturerID]
		return nil
	})
	return ok, err
}

type studentRepo struct {
	v *view
}

func (r *studentRepo) Create(ctx context.Context, student *models.Student) error {
	student.Role = models.RoleStudent
	now := r.v.now()
	return r.v.write(func(st *state) error {
		if err := st.addUser(&student.UserFields); err != nil {
			return err
		}
		if _, ok := st.students[student.StudentID]; ok {
			return fmt.Errorf("%w: %s", apperrors.ErrIdentifierExists, student.StudentID)
		}
		if err := st.checkDepartment(student.DepartmentID); err != nil {
			return err
		}
		student.CreatedAt, student.UpdatedAt = now, now
		stored := *student
		stored.DepartmentID = cloneString(student.DepartmentID)
		st.students[student.StudentID] = stored
		return nil
	})
}

func (r *studentRepo) list(match func(s *models.Student) bool) ([]*models.Student, error) {
	students := []*models.Student{}
	err := r.v.read(func(st *state) error {
		for _, s := range st.students {
			if match(&s) {
				s.DepartmentID = cloneString(s.DepartmentID)
				students = append(students, &s)
			}
		}
		return nil
	})
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return students, err
}

func (r *studentRepo) first(match func(s *models.Student) bool) (*models.Student, error) {
	students, err := r.list(match)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperrors.ErrStudentNotFound
	}
	return students[0], nil
}

func (r *studentRepo) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	return r.first(func(s *models.Student) bool { return s.StudentID == studentID })
}

func (r *studentRepo) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	return r.first(func(s *models.Student) bool { return s.Username == username })
}

func (r *studentRepo) GetAll(ctx context.Context) ([]*models.Student, error) {
	return r.list(func(*models.Student) bool { return true })
}

func (r *studentRepo) GetByDepartmentID(ctx context.Context, departmentID string) ([]*models.Student, error) {
	return r.list(func(s *models.Student) bool {
		return s.DepartmentID != nil && *s.DepartmentID == departmentID
	})
}

func (r *studentRepo) modify(studentID string, fn func(s *models.Student, st *state) error) error {
	now := r.v.now()
	return r.v.write(func(st *state) error {
		s, ok := st.students[studentID]
		if !ok {
			return apperrors.ErrStudentNotFound
		}
		if err := fn(&s, st); err != nil {
			return err
		}
		s.UpdatedAt = now
		st.students[studentID] = s
		return nil
	})
}

func (r *studentRepo) Update(ctx context.Context, student *models.Student) error {
	return r.modify(student.StudentID, func(s *models.Student, _ *state) error {
		s.ApplyProfile(student.Profile())
		student.UpdatedAt = r.v.now()
		return nil
	})
}

func (r *studentRepo) SetDepartment(ctx context.Context, studentID string, departmentID *string) error {
	return r.modify(studentID, func(s *models.Student, st *state) error {
		if err := st.checkDepartment(departmentID); err != nil {
			return err
		}
		s.DepartmentID = cloneString(departmentID)
		return nil
	})
}

func (r *studentRepo) ClearDepartment(ctx context.Context, departmentID string) (int, error) {
	var n int
	err := r.v.write(func(st *state) error {
		for id, s := range st.students {
			if s.DepartmentID != nil && *s.DepartmentID == departmentID {
				s.DepartmentID = nil
				st.students[id] = s
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *studentRepo) Delete(ctx context.Context, studentID string) error {
	return r.v.write(func(st *state) error {
		s, ok := st.students[studentID]
		if !ok {
			return apperrors.ErrStudentNotFound
		}
		st.enrollments = filter(st.enrollments, func(e models.Enrollment) bool { return e.StudentID != studentID })
		delete(st.students, studentID)
		st.removeUser(s.UserID)
		return nil
	})
}

func (r *studentRepo) ExistsByID(ctx context.Context, studentID string) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		_, ok = st.students[studentID]
		return nil
	})
	return ok, err
}
