package dto

// CreateStudentRequest represents student registration data
type CreateStudentRequest struct {
	CreateUserRequest
	DepartmentID *string `json:"departmentId,omitempty" example:"DEP-00001"`
}

// BatchCreateStudentsRequest creates several students in one transaction
type BatchCreateStudentsRequest struct {
	Students []CreateStudentRequest `json:"students" binding:"required,min=1,max=500,dive"`
}

// UpdateStudentRequest replaces the profile of a student
type UpdateStudentRequest struct {
	ProfileRequest
}

// CreateLecturerRequest represents lecturer registration data
type CreateLecturerRequest struct {
	CreateUserRequest
	DepartmentID *string `json:"departmentId,omitempty" example:"DEP-00001"`
	IsLIC        bool    `json:"isLIC" example:"false"`
}

// UpdateLecturerRequest replaces the profile of a lecturer
type UpdateLecturerRequest struct {
	ProfileRequest
}

// CreateAdminRequest represents admin registration data
type CreateAdminRequest struct {
	CreateUserRequest
	IsAdmin *bool `json:"isAdmin,omitempty" example:"true"`
}

// UpdateAdminRequest replaces the profile of an admin and optionally its admin flag
type UpdateAdminRequest struct {
	ProfileRequest
	IsAdmin *bool `json:"isAdmin,omitempty" example:"true"`
}
