package dto

// CreateSectionRequest is the payload for creating a section
type CreateSectionRequest struct {
	Name string `json:"name" binding:"required" example:"CS101"`
}

// DeleteRequest carries the confirmation token required by every
// destructive admin action. The token must literally be "DELETE".
type DeleteRequest struct {
	Confirmation string `json:"confirmation" example:"DELETE"`
}

// ConfirmationToken is the literal value a DeleteRequest must echo back.
const ConfirmationToken = "DELETE"
