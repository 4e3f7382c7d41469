package models

// UserModel represents a platform account that can own hosts.
// Password holds a bcrypt hash; it persists in the collection file but is
// stripped from every API response.
type UserModel struct {
	Base
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"`
	Hosts    []string `json:"hosts"`
}

// Collection names, one JSON array file each under the data directory.
const (
	CollectionUsers    = "users"
	CollectionHosts    = "hosts"
	CollectionWebhooks = "webhooks"
	CollectionSessions = "sessions"
)
