package models

import "time"

// Enrollment is one Student-Course edge.
type Enrollment struct {
	StudentID string    `json:"studentId" db:"student_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// LecturerAssignment is one Lecturer-Course edge.
type LecturerAssignment struct {
	LecturerID string    `json:"lecturerId" db:"lecturer_id"`
	CourseID   string    `json:"courseId" db:"course_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
