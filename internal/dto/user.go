package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register. ConfirmPassword
// is optional; when present it must match Password.
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=1,max=150"`
	Password        string `json:"password" binding:"required,min=1"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResponse is returned when user info is needed (e.g. after login).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
