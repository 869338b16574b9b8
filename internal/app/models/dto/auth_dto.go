package dto

// RegisterRequest is the payload for student registration
type RegisterRequest struct {
	Identifier   string `json:"identifier" binding:"required" example:"alice"`
	Password     string `json:"password" binding:"required"`
	Password2    string `json:"password2" binding:"required"`
	SectionName  string `json:"sectionName" binding:"required" example:"CS101"`
	CaptchaToken string `json:"captchaToken"`
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Identifier   string `json:"identifier" binding:"required" example:"alice"`
	Password     string `json:"password" binding:"required"`
	CaptchaToken string `json:"captchaToken"`
}

// PasswordResetRequest is the payload for a password change. For holds a
// target identifier and is honored only when the caller is the admin.
type PasswordResetRequest struct {
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
	For       string `json:"for,omitempty" example:"alice"`
}

// TokenResponse carries a freshly issued session token
type TokenResponse struct {
	Token      string `json:"token"`
	Identifier string `json:"identifier" example:"alice"`
	Admin      bool   `json:"admin"`
	ExpiresIn  int    `json:"expiresIn" example:"43200"` // seconds
}
