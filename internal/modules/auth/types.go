package auth

// LoginDTO is the request body for password login.
type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// sessionResponse is the outbound representation of a login session.
type sessionResponse struct {
	ID        string `json:"id"`
	IP        string `json:"ip,omitempty"`
	UA        string `json:"ua,omitempty"`
	ExpiresAt string `json:"expiresAt"`
	Created   string `json:"createdAt,omitempty"`
	Current   bool   `json:"current"`
}
