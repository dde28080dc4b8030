package domain

import "time"

// User is the authenticated account as returned by the backend.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

// LoginRequest carries the credentials for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries the sign-up form. PasswordConfirm is validated
// client-side and never sent to the backend.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"-"`
}

// LoginResponse is the payload of a successful login or registration.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ResetPasswordRequest asks the backend to mail a reset link.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest completes a password reset using the mailed token.
type UpdatePasswordRequest struct {
	Token              string `json:"token"`
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}
