package models

import "fmt"

// Host lifecycle states.
const (
	HostStatusDraft     = "draft"
	HostStatusPublished = "published"
)

// HostModel is a digital host persona record.
type HostModel struct {
	Base
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Avatar      string                 `json:"avatar"`
	Domain      string                 `json:"domain"`
	DATM        DATM                   `json:"datm"`
	Prompts     PromptSet              `json:"prompts"`
	CozeConfig  map[string]interface{} `json:"cozeConfig"`
	CreatorID   string                 `json:"creatorId"`
	Status      string                 `json:"status"`
}

// DATM is the four-axis knowledge matrix attached to a host.
// All four scores must be present and within [0,100]; a patch that violates
// this is rejected as a whole.
type DATM struct {
	Truth        int `json:"truth"`
	Goodness     int `json:"goodness"`
	Beauty       int `json:"beauty"`
	Intelligence int `json:"intelligence"`
}

// DefaultDATM is the matrix assigned to newly created hosts.
func DefaultDATM() DATM {
	return DATM{Truth: 50, Goodness: 50, Beauty: 50, Intelligence: 50}
}

// Validate checks every axis is within range.
func (d DATM) Validate() error {
	for _, axis := range []struct {
		name  string
		score int
	}{
		{"truth", d.Truth},
		{"goodness", d.Goodness},
		{"beauty", d.Beauty},
		{"intelligence", d.Intelligence},
	} {
		if axis.score < 0 || axis.score > 100 {
			return fmt.Errorf("datm.%s must be within [0,100], got %d", axis.name, axis.score)
		}
	}
	return nil
}

// PromptSet holds the per-agent prompt templates of a host.
type PromptSet struct {
	Scheduler string `json:"scheduler"`
	Expert    string `json:"expert"`
	QA        string `json:"qa"`
}

// DefaultPrompts returns the starter templates assigned to new hosts.
func DefaultPrompts() PromptSet {
	return PromptSet{
		Scheduler: "你是一个调度智能体...",
		Expert:    "你是一个专家智能体...",
		QA:        "你是一个问答智能体...",
	}
}
