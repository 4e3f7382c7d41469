package models

// SessionModel tracks a signed-in JWT session so tokens can be revoked.
type SessionModel struct {
	Base
	UserID    string `json:"userId"`
	IP        string `json:"ip,omitempty"`
	UA        string `json:"ua,omitempty"`
	ExpiresAt string `json:"expiresAt"`
	RevokedAt string `json:"revokedAt,omitempty"`
}
