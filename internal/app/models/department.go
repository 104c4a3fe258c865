package models

import "time"

// Department represents an academic department
type Department struct {
	DepartmentID string    `json:"departmentId" db:"department_id" example:"DEP-00001"`
	Name         string    `json:"name" db:"name" example:"Computer Engineering"`
	Description  string    `json:"description" db:"description" example:"Software and hardware systems"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// CascadeReport summarizes what happened to the dependents of a deleted department.
type CascadeReport struct {
	DepartmentID      string   `json:"departmentId"`
	OrphanedStudents  int      `json:"orphanedStudents"`
	OrphanedLecturers int      `json:"orphanedLecturers"`
	AdoptedCourses    []string `json:"adoptedCourses"`
	DeletedCourses    []string `json:"deletedCourses"`
	SuccessorID       *string  `json:"successorId,omitempty"`
}
