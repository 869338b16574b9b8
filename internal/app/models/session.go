package models

import "time"

// Session defines a login session based on the 'sessions' table. The ID
// matches the JTI of the access token issued for it; deleting the row
// invalidates the token.
type Session struct {
	ID         string    `json:"id" db:"id"`
	Identifier string    `json:"identifier" db:"identifier"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
