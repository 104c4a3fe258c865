package models

// Admin defines the admin model based on the 'admins' table
type Admin struct {
	UserFields
	IsAdmin bool `json:"isAdmin" db:"is_admin" example:"true"`
}

// Projection returns the summary view of the admin.
func (a *Admin) Projection() Projection {
	return Projection{
		"userId":   a.UserID,
		"userName": a.Username,
		"email":    a.Email,
		"phone":    a.Phone,
		"isAdmin":  a.IsAdmin,
	}
}
