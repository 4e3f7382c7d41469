package host

import (
	"errors"
	"fmt"

	"github.com/kai-os/platform/internal/models"
	"github.com/kai-os/platform/internal/modules/webhook"
	"github.com/kai-os/platform/internal/store"
)

// Service handles host persona CRUD against the hosts collection and fires
// webhook events after each committed mutation.
type Service struct {
	st    *store.Store
	hooks *webhook.Service
}

func NewService(st *store.Store, hooks *webhook.Service) *Service {
	return &Service{st: st, hooks: hooks}
}

func (s *Service) List() ([]models.HostModel, error) {
	records, err := s.st.List(models.CollectionHosts)
	if err != nil {
		return nil, err
	}
	items := make([]models.HostModel, 0, len(records))
	for _, rec := range records {
		var h models.HostModel
		if err := models.FromRecord(rec, &h); err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, nil
}

func (s *Service) GetByID(id string) (*models.HostModel, error) {
	rec, err := s.st.Get(models.CollectionHosts, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var h models.HostModel
	if err := models.FromRecord(rec, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Service) Create(dto *CreateHostDTO) (*models.HostModel, error) {
	h := models.HostModel{
		Name:        dto.Name,
		CreatorID:   dto.CreatorID,
		Description: dto.Description,
		Avatar:      dto.Avatar,
		Domain:      dto.Domain,
		DATM:        models.DefaultDATM(),
		Prompts:     models.DefaultPrompts(),
		CozeConfig:  dto.CozeConfig,
		Status:      models.HostStatusDraft,
	}
	if h.Domain == "" {
		h.Domain = "general"
	}
	if dto.DATM != nil {
		if err := dto.DATM.Validate(); err != nil {
			return nil, err
		}
		h.DATM = *dto.DATM
	}
	if dto.Prompts != nil {
		h.Prompts = *dto.Prompts
	}
	if h.CozeConfig == nil {
		h.CozeConfig = map[string]interface{}{}
	}

	fields, err := models.ToRecord(&h)
	if err != nil {
		return nil, err
	}
	rec, err := s.st.Create(models.CollectionHosts, fields,
		store.Required("name", "creatorId"))
	if err != nil {
		return nil, err
	}
	if err := models.FromRecord(rec, &h); err != nil {
		return nil, err
	}

	s.hooks.Dispatch(EventHostCreated, h)
	return &h, nil
}

// Update shallow-merges an arbitrary patch onto the host. An embedded datm
// patch must be a complete, in-range matrix or the whole update is rejected
// before anything is persisted.
func (s *Service) Update(id string, patch store.Record) (*models.HostModel, error) {
	if raw, ok := patch["datm"]; ok {
		if _, err := decodeDATM(raw); err != nil {
			return nil, err
		}
	}

	rec, err := s.st.Update(models.CollectionHosts, id, patch)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var h models.HostModel
	if err := models.FromRecord(rec, &h); err != nil {
		return nil, err
	}

	s.hooks.Dispatch(EventHostUpdated, h)
	return &h, nil
}

// UpdateDATM atomically replaces the host's knowledge matrix.
func (s *Service) UpdateDATM(id string, matrix models.DATM) (*models.DATM, error) {
	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	fields, err := models.ToRecord(&matrix)
	if err != nil {
		return nil, err
	}
	rec, err := s.st.Update(models.CollectionHosts, id, store.Record{"datm": map[string]interface{}(fields)})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var h models.HostModel
	if err := models.FromRecord(rec, &h); err != nil {
		return nil, err
	}

	s.hooks.Dispatch(EventDATMUpdated, map[string]interface{}{
		"hostId": id,
		"datm":   h.DATM,
	})
	return &h.DATM, nil
}

func (s *Service) Delete(id string) error {
	if err := s.st.Delete(models.CollectionHosts, id); err != nil {
		return err
	}
	s.hooks.Dispatch(EventHostDeleted, map[string]interface{}{"hostId": id})
	return nil
}

// decodeDATM validates a raw datm patch value: it must be an object carrying
// exactly the four axes, each in range.
func decodeDATM(raw interface{}) (models.DATM, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return models.DATM{}, fmt.Errorf("datm must be an object")
	}

	var matrix models.DATM
	for _, axis := range []struct {
		name string
		dst  *int
	}{
		{"truth", &matrix.Truth},
		{"goodness", &matrix.Goodness},
		{"beauty", &matrix.Beauty},
		{"intelligence", &matrix.Intelligence},
	} {
		v, ok := obj[axis.name]
		if !ok {
			return models.DATM{}, fmt.Errorf("datm.%s is required", axis.name)
		}
		switch score := v.(type) {
		case float64:
			if score != float64(int(score)) {
				return models.DATM{}, fmt.Errorf("datm.%s must be an integer", axis.name)
			}
			*axis.dst = int(score)
		case int:
			*axis.dst = score
		default:
			return models.DATM{}, fmt.Errorf("datm.%s must be an integer", axis.name)
		}
	}
	if err := matrix.Validate(); err != nil {
		return models.DATM{}, err
	}
	return matrix, nil
}
