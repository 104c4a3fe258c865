package models

// Lecturer defines the lecturer model based on the 'lecturers' table
type Lecturer struct {
	UserFields
	LecturerID   string  `json:"lecturerId" db:"lecturer_id" example:"LEC-00001"`
	IsLIC        bool    `json:"isLIC" db:"is_lic" example:"false"`
	DepartmentID *string `json:"departmentId,omitempty" db:"department_id" example:"DEP-00001"`
}

// Projection returns the summary view of the lecturer including the ids of its courses.
func (l *Lecturer) Projection(courseIDs []string) Projection {
	if courseIDs == nil {
		courseIDs = []string{}
	}
	return Projection{
		"lecturerID":   l.LecturerID,
		"firstName":    l.FirstName,
		"lastName":     l.LastName,
		"email":        l.Email,
		"phone":        l.Phone,
		"isLIC":        l.IsLIC,
		"departmentId": l.DepartmentID,
		"courses":      courseIDs,
	}
}
