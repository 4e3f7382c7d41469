package user

// CreateUserDTO is the request body for creating an account. Password is
// optional; accounts without one cannot log in but can still own hosts.
type CreateUserDTO struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password"`
}

// userResponse is the outbound representation of a user (no password hash).
type userResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Hosts     []string `json:"hosts"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// EventUserCreated fires after a user record is committed.
const EventUserCreated = "user.created"
