package dto

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,min=1"`
}

// AuthResponse is returned after register and login.
type AuthResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
