package models

import "time"

// Course represents a course, optionally owned by a department.
type Course struct {
	CourseID     string    `json:"courseId" db:"course_id" example:"COURSE-00001"`
	Name         string    `json:"name" db:"name" example:"Data Structures"`
	DepartmentID *string   `json:"departmentId,omitempty" db:"department_id" example:"DEP-00001"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// CourseView is a course together with its enrolled students and assigned lecturers.
type CourseView struct {
	Course
	Students  []*Student  `json:"students"`
	Lecturers []*Lecturer `json:"lecturers"`
}
