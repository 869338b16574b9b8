package models

// Section defines the section model based on the 'sections' table.
// A section owns zero or more students.
type Section struct {
	Name string `json:"name" db:"name" example:"CS101"`
}
