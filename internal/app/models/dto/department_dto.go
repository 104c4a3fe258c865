package dto

import "github.com/yigit/registry/internal/app/models"

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Computer Engineering"`
	Description string `json:"description" binding:"max=500" example:"Software and hardware systems"`
}

// UpdateDepartmentRequest represents department update data
type UpdateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Computer Engineering"`
	Description string `json:"description" binding:"max=500" example:"Software and hardware systems"`
}

// DeleteDepartmentResponse is returned after a department cascade
type DeleteDepartmentResponse struct {
	Deleted bool                  `json:"deleted" example:"true"`
	Report  *models.CascadeReport `json:"report"`
}

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Name         string  `json:"name" binding:"required,max=100" example:"Data Structures"`
	DepartmentID *string `json:"departmentId,omitempty" example:"DEP-00001"`
}

// UpdateCourseRequest represents course update data. A missing departmentId detaches the course.
type UpdateCourseRequest struct {
	Name         string  `json:"name" binding:"required,max=100" example:"Data Structures"`
	DepartmentID *string `json:"departmentId,omitempty" example:"DEP-00001"`
}
