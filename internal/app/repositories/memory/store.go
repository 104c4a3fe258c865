// Package memory is an in-process backend for the repositories. It enforces the same keys,
// uniqueness and reference rules as the PostgreSQL schema and runs transactions on a copy of the
// state that replaces the original only on success.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
)

type state struct {
	// userID -> username for every role
	users     map[string]string
	usernames map[string]string // username -> userID

	admins    map[string]models.Admin    // by userID
	lecturers map[string]models.Lecturer // by lecturerID
	students  map[string]models.Student  // by studentID

	departments     map[string]models.Department // by departmentID
	departmentNames map[string]string
	courses         map[string]models.Course // by courseID
	courseNames     map[string]string

	// edge tables in insertion order
	enrollments []models.Enrollment
	assignments []models.LecturerAssignment

	series map[string]string
}

func newState() *state {
	return &state{
		users:           map[string]string{},
		usernames:       map[string]string{},
		admins:          map[string]models.Admin{},
		lecturers:       map[string]models.Lecturer{},
		students:        map[string]models.Student{},
		departments:     map[string]models.Department{},
		departmentNames: map[string]string{},
		courses:         map[string]models.Course{},
		courseNames:     map[string]string{},
		series:          map[string]string{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copies the state. Records are stored by value and their pointer fields are never
// mutated in place, so a shallow copy of each map is enough.
func (s *state) clone() *state {
	return &state{
		users:           copyMap(s.users),
		usernames:       copyMap(s.usernames),
		admins:          copyMap(s.admins),
		lecturers:       copyMap(s.lecturers),
		students:        copyMap(s.students),
		departments:     copyMap(s.departments),
		departmentNames: copyMap(s.departmentNames),
		courses:         copyMap(s.courses),
		courseNames:     copyMap(s.courseNames),
		enrollments:     append([]models.Enrollment(nil), s.enrollments...),
		assignments:     append([]models.LecturerAssignment(nil), s.assignments...),
		series:          copyMap(s.series),
	}
}

// Store is the shared state behind every repository of the backend.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// NewRepositories creates an empty store and returns its repositories.
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

// Repositories returns repositories operating directly on the store.
func (s *Store) Repositories() *repositories.Repositories {
	return (&view{store: s}).repositories()
}

// view is either the store itself (tx == nil, every call locks) or an open transaction
// (tx != nil, the lock is already held by the transaction).
type view struct {
	store *Store
	tx    *state
}

func (v *view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

// write applies fn to a copy and keeps it only when fn succeeds, so a failing call leaves no
// partial change behind.
func (v *view) write(fn func(st *state) error) error {
	if v.tx != nil {
		next := v.tx.clone()
		if err := fn(next); err != nil {
			return err
		}
		*v.tx = *next
		return nil
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	next := v.store.st.clone()
	if err := fn(next); err != nil {
		return err
	}
	v.store.st = next
	return nil
}

func (v *view) now() time.Time {
	return v.store.now().UTC()
}

func (v *view) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos *repositories.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return v.write(func(st *state) error {
		child := &view{store: v.store, tx: st}
		return fn(ctx, child.repositories())
	})
}

func (v *view) repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:       &userRepo{v: v},
		Admins:      &adminRepo{v: v},
		Lecturers:   &lecturerRepo{v: v},
		Students:    &studentRepo{v: v},
		Departments: &departmentRepo{v: v},
		Courses:     &courseRepo{v: v},
		Enrollments: &enrollmentRepo{v: v},
		Assignments: &assignmentRepo{v: v},
		Series:      &seriesRepo{v: v},
		Tx:          v,
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}
