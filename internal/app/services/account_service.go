package services

import (
	"context"
	"errors"

	"github.com/yigit/registry/internal/app/models"
	"github.com/yigit/registry/internal/pkg/apperrors"
	"github.com/yigit/registry/internal/pkg/auth"
	"github.com/yigit/registry/internal/pkg/validation"
)

// AccountService handles credentials shared by every role.
type AccountService struct {
	base
}

// Verify checks a username and password. Unknown usernames and wrong passwords both yield
// apperrors.ErrInvalidCredentials.
func (s *AccountService) Verify(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.repos.Users.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(account.PasswordHash, password) {
		s.log.Debug().Str("username", username).Msg("Password mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}
	return account, nil
}

// ChangePassword replaces the password of username after verifying the old one
func (s *AccountService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if !validation.IsValidPassword(newPassword) {
		return invalid("password must be at least %d characters", validation.PasswordMinLength)
	}
	account, err := s.repos.Users.GetAccountByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(account.PasswordHash, oldPassword) {
		return apperrors.ErrInvalidCredentials
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repos.Users.UpdatePassword(ctx, account.UserID, hash); err != nil {
		return err
	}
	s.log.Info().Str("userID", account.UserID).Msg("Password changed")
	return nil
}
