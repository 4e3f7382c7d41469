package models

// Webhook subscription delivery eligibility.
const (
	WebhookStatusActive   = "active"
	WebhookStatusInactive = "inactive"
)

// WebhookModel is an outbound webhook subscription. Secret is the HMAC
// signing key; it persists in the collection file, is returned in cleartext
// exactly once at creation, and is masked on every later read.
type WebhookModel struct {
	Base
	URL    string   `json:"url"`
	Events []string `json:"events"`
	Secret string   `json:"secret,omitempty"`
	Status string   `json:"status"`
}
