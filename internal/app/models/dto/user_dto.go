package dto

import "github.com/yigit/registry/internal/app/models"

// ProfileRequest carries the mutable profile fields shared by every role
type ProfileRequest struct {
	FirstName   string `json:"firstName" binding:"max=100" example:"John"`
	LastName    string `json:"lastName" binding:"max=100" example:"Doe"`
	Email       string `json:"email" binding:"omitempty,email" example:"john.doe@school.edu"`
	Phone       string `json:"phone" binding:"max=30" example:"+90 555 000 0000"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,isodate" example:"2001-04-23"`
	Gender      string `json:"gender" binding:"max=20" example:"F"`
}

// ToProfile converts the request into the model profile
func (r ProfileRequest) ToProfile() models.Profile {
	return models.Profile{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth,
		Gender:      r.Gender,
	}
}

// CreateUserRequest holds the credentials and profile of a new user of any role
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,username" example:"jdoe"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	ProfileRequest
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	Username    string `json:"username" binding:"required" example:"jdoe"`
	OldPassword string `json:"oldPassword" binding:"required" example:"s3cret-pass"`
	NewPassword string `json:"newPassword" binding:"required,min=8" example:"n3w-s3cret"`
}

// VerifyCredentialsRequest represents a credential check
type VerifyCredentialsRequest struct {
	Username string `json:"username" binding:"required" example:"jdoe"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// AccountResponse identifies the user behind verified credentials
type AccountResponse struct {
	UserID   string          `json:"userId" example:"USER-0000001"`
	Username string          `json:"username" example:"jdoe"`
	Role     models.RoleType `json:"role" example:"STUDENT"`
	RoleID   string          `json:"roleId" example:"STD-0000001"`
}

// NewAccountResponse builds an AccountResponse from a verified account
func NewAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		UserID:   a.UserID,
		Username: a.Username,
		Role:     a.Role,
		RoleID:   a.RoleID,
	}
}
