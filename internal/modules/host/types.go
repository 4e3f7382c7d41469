package host

import "github.com/kai-os/platform/internal/models"

// CreateHostDTO is the request body for creating a host persona.
type CreateHostDTO struct {
	Name        string                 `json:"name"      binding:"required"`
	CreatorID   string                 `json:"creatorId" binding:"required"`
	Description string                 `json:"description"`
	Avatar      string                 `json:"avatar"`
	Domain      string                 `json:"domain"`
	DATM        *models.DATM           `json:"datm"`
	Prompts     *models.PromptSet      `json:"prompts"`
	CozeConfig  map[string]interface{} `json:"cozeConfig"`
}

// UpdateDATMDTO carries a full matrix replacement. All four axes are
// required so a partial patch can never slip through.
type UpdateDATMDTO struct {
	Truth        *int `json:"truth"        binding:"required"`
	Goodness     *int `json:"goodness"     binding:"required"`
	Beauty       *int `json:"beauty"       binding:"required"`
	Intelligence *int `json:"intelligence" binding:"required"`
}

func (d *UpdateDATMDTO) matrix() models.DATM {
	return models.DATM{
		Truth:        *d.Truth,
		Goodness:     *d.Goodness,
		Beauty:       *d.Beauty,
		Intelligence: *d.Intelligence,
	}
}

// Event names fired by host mutations.
const (
	EventHostCreated = "host.created"
	EventHostUpdated = "host.updated"
	EventHostDeleted = "host.deleted"
	EventDATMUpdated = "datm.updated"
)
