// Package services implements the registry operations on top of the repositories. Every
// mutating operation runs as one transaction and reports failures with the apperrors kinds.
package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/app/repositories"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/auth"
	"github.com/yigit/registry/internal/pkg/events"
	"github.com/yigit/registry/internal/pkg/identifier"
	"github.com/yigit/registry/internal/pkg/logger"
	"github.com/yigit/registry/internal/pkg/validation"
)

// Options tunes the services. The zero value is production ready.
type Options struct {
	// BcryptCost overrides auth.BcryptCost when non-zero.
	BcryptCost int
}

// Services bundles every service of the registry.
type Services struct {
	Students      *StudentService
	Lecturers     *LecturerService
	Admins        *AdminService
	Departments   *DepartmentService
	Courses       *CourseService
	Accounts      *AccountService
	Relationships *RelationshipService
	Cascade       *CascadeService
}

// New builds all services over repos. A nil publisher disables events.
func New(repos *repositories.Repositories, publisher events.Publisher, opts Options) *Services {
	if publisher == nil {
		publisher = events.Noop{}
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = auth.BcryptCost
	}
	mk := func(component string) base {
		return base{repos: repos, publisher: publisher, log: logger.Component(component), cost: cost}
	}

	return &Services{
		Students:      &StudentService{base: mk("students")},
		Lecturers:     &LecturerService{base: mk("lecturers")},
		Admins:        &AdminService{base: mk("admins")},
		Departments:   &DepartmentService{base: mk("departments")},
		Courses:       &CourseService{base: mk("courses")},
		Accounts:      &AccountService{base: mk("accounts")},
		Relationships: &RelationshipService{base: mk("relationships")},
		Cascade:       &CascadeService{base: mk("cascade")},
	}
}

type base struct {
	repos     *repositories.Repositories
	publisher events.Publisher
	log       zerolog.Logger
	cost      int
}

// publish sends an event after a committed change. The request context's cancellation is
// dropped since the change has already happened; delivery failures are logged only.
func (b *base) publish(ctx context.Context, eventType string, data interface{}) {
	if err := b.publisher.Publish(context.WithoutCancel(ctx), events.New(eventType, data)); err != nil {
		b.log.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}

func (b *base) hash(password string) (string, error) {
	h, err := auth.HashPasswordWithCost(password, b.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return h, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, fmt.Sprintf(format, args...))
}

// checkID rejects identifiers that do not have the shape of series s.
func checkID(s identifier.Series, id string) error {
	return identifier.Validate(s, id)
}

func checkOptionalID(s identifier.Series, id *string) error {
	if id == nil {
		return nil
	}
	return checkID(s, *id)
}

// NewUser carries the fields supplied when creating any user.
type NewUser struct {
	Username string
	Password string
	Profile  models.Profile
}

func validateProfile(p models.Profile) error {
	if len(p.FirstName) > validation.NameMaxLength || len(p.LastName) > validation.NameMaxLength {
		return invalid("names must be at most %d characters", validation.NameMaxLength)
	}
	if !validation.IsValidEmail(p.Email) {
		return invalid("email %q is not a valid address", p.Email)
	}
	if !validation.IsValidDate(p.DateOfBirth) {
		return invalid("dateOfBirth must use the YYYY-MM-DD format")
	}
	return nil
}

func (u NewUser) validate() error {
	if !validation.IsValidUsername(u.Username) {
		return invalid("username must be %d-%d characters of letters, digits, '.', '_' or '-'",
			validation.UsernameMinLength, validation.UsernameMaxLength)
	}
	if !validation.IsValidPassword(u.Password) {
		return invalid("password must be at least %d characters", validation.PasswordMinLength)
	}
	return validateProfile(u.Profile)
}

// userFields issues a user id inside the transaction of repos and fills the shared fields.
func userFields(ctx context.Context, repos *repositories.Repositories, u NewUser, hash string, role models.RoleType) (models.UserFields, error) {
	userID, err := repos.Series.Next(ctx, identifier.User)
	if err != nil {
		return models.UserFields{}, err
	}
	f := models.UserFields{
		UserID:       userID,
		Username:     u.Username,
		PasswordHash: hash,
		Role:         role,
	}
	f.ApplyProfile(u.Profile)
	return f, nil
}

// ensureUsernameFree fails fast with a conflict before any identifier is issued.
func (b *base) ensureUsernameFree(ctx context.Context, username string) error {
	taken, err := b.repos.Users.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return apperrors.ErrUsernameAlreadyExists
	}
	return nil
}

func (b *base) ensureDepartment(ctx context.Context, repos *repositories.Repositories, departmentID *string) error {
	if departmentID == nil {
		return nil
	}
	ok, err := repos.Departments.ExistsByID(ctx, *departmentID)
	if err != nil {
		return fmt.Errorf("error checking department: %w", err)
	}
	if !ok {
		return apperrors.ErrDepartmentNotFound
	}
	return nil
}
