package models

// AdminIdentifier is the distinguished account with management privileges.
// It is seeded at bootstrap and can never be deleted.
const AdminIdentifier = "admin"

// Student defines the student model based on the 'students' table
type Student struct {
	Identifier  string `json:"identifier" db:"identifier" example:"alice"` // Unique login identifier, doubles as the workspace directory name
	Password    string `json:"-" db:"password"`                            // Bcrypt hash (excluded from JSON)
	SectionName string `json:"sectionName" db:"section_name" example:"CS101"`
}

// IsAdmin reports whether this student is the distinguished admin account.
func (s *Student) IsAdmin() bool {
	return s.Identifier == AdminIdentifier
}
