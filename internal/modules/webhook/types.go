package webhook

// CreateWebhookDTO is the request body for registering a subscription.
type CreateWebhookDTO struct {
	URL    string   `json:"url"    binding:"required,url"`
	Events []string `json:"events" binding:"required,min=1"`
	Secret string   `json:"secret"`
	Status string   `json:"status"`
}

// UpdateWebhookDTO is the request body for updating a subscription.
type UpdateWebhookDTO struct {
	URL    *string  `json:"url"`
	Events []string `json:"events"`
	Secret *string  `json:"secret"`
	Status *string  `json:"status"`
}

// webhookResponse is the outbound representation of a subscription.
// Secret is cleartext in the creation response only and masked afterwards.
type webhookResponse struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Events    []string `json:"events"`
	Secret    string   `json:"secret"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// maskedSecret replaces a stored secret on reads after creation.
const maskedSecret = "***"

// webhookEventEnum is the canonical list of supported event names.
var webhookEventEnum = []string{
	"user.created",
	"host.created",
	"host.updated",
	"host.deleted",
	"datm.updated",
}

// acceptedWebhookEvents is a set built from webhookEventEnum for O(1) lookup.
var acceptedWebhookEvents = func() map[string]struct{} {
	out := make(map[string]struct{}, len(webhookEventEnum))
	for _, event := range webhookEventEnum {
		out[event] = struct{}{}
	}
	return out
}()
