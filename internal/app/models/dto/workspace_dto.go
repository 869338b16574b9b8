package dto

import "github.com/canberk/labdrop/internal/pkg/workspace"

// WorkspaceResponse is the student home payload: the three assignment
// slots with their files plus the public link to the workspace.
type WorkspaceResponse struct {
	Identifier string                  `json:"identifier" example:"alice"`
	Link       string                  `json:"link" example:"http://localhost:8080/student/alice"`
	Slots      []workspace.SlotListing `json:"slots"`
}
