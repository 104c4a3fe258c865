package models

// Student defines the student model based on the 'students' table
type Student struct {
	UserFields
	StudentID    string  `json:"studentId" db:"student_id" example:"STD-0000001"`
	DepartmentID *string `json:"departmentId,omitempty" db:"department_id" example:"DEP-00001"`
}

// Projection returns the summary view of the student.
func (s *Student) Projection() Projection {
	return Projection{
		"studentId":    s.StudentID,
		"userName":     s.Username,
		"firstName":    s.FirstName,
		"lastName":     s.LastName,
		"email":        s.Email,
		"departmentId": s.DepartmentID,
	}
}
