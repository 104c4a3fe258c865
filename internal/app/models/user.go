package models

import (
	"time"
)

// UserFields holds the attributes shared by every user role, based on the 'users' table.
// It is embedded by Admin, Lecturer and Student and is never stored on its own.
type UserFields struct {
	UserID       string    `json:"userId" db:"user_id" example:"USER-0000001"`
	Username     string    `json:"username" db:"username" example:"jdoe"`
	PasswordHash string    `json:"-" db:"password"`
	FirstName    string    `json:"firstName" db:"first_name" example:"John"`
	LastName     string    `json:"lastName" db:"last_name" example:"Doe"`
	Email        string    `json:"email" db:"email" example:"john.doe@school.edu"`
	Phone        string    `json:"phone" db:"phone" example:"+90 555 000 0000"`
	DateOfBirth  string    `json:"dateOfBirth" db:"date_of_birth" example:"2001-04-23"`
	Gender       string    `json:"gender" db:"gender" example:"M"`
	Role         RoleType  `json:"role" db:"role" example:"STUDENT"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Profile is the mutable part of UserFields.
type Profile struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth string
	Gender      string
}

// Profile returns the mutable fields of u.
func (u *UserFields) Profile() Profile {
	return Profile{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		DateOfBirth: u.DateOfBirth,
		Gender:      u.Gender,
	}
}

// ApplyProfile overwrites the mutable fields of u. Identifiers, username and role are untouched.
func (u *UserFields) ApplyProfile(p Profile) {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Email = p.Email
	u.Phone = p.Phone
	u.DateOfBirth = p.DateOfBirth
	u.Gender = p.Gender
}

// FullName returns "First Last".
func (u *UserFields) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Account is the role-independent view of a user used for credential checks.
type Account struct {
	UserFields
	// RoleID is the role-specific identifier: lecturerId, studentId, or the userId for admins.
	RoleID string `json:"roleId"`
}
