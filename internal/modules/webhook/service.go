package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kai-os/platform/internal/models"
	"github.com/kai-os/platform/internal/store"
	"go.uber.org/zap"
)

// deliveryTimeout bounds each outbound POST; there is no retry beyond it.
const deliveryTimeout = 5 * time.Second

// Service handles subscription CRUD and signed event delivery.
type Service struct {
	st     *store.Store
	logger *zap.Logger
	client *http.Client
}

func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{
		st:     st,
		logger: logger,
		client: &http.Client{Timeout: deliveryTimeout},
	}
}

func (s *Service) List() ([]models.WebhookModel, error) {
	records, err := s.st.List(models.CollectionWebhooks)
	if err != nil {
		return nil, err
	}
	items := make([]models.WebhookModel, 0, len(records))
	for _, rec := range records {
		var w models.WebhookModel
		if err := models.FromRecord(rec, &w); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, nil
}

func (s *Service) GetByID(id string) (*models.WebhookModel, error) {
	rec, err := s.st.Get(models.CollectionWebhooks, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var w models.WebhookModel
	if err := models.FromRecord(rec, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Service) Create(dto *CreateWebhookDTO) (*models.WebhookModel, error) {
	events := normalizeWebhookEvents(dto.Events)
	if len(events) == 0 {
		return nil, fmt.Errorf("events is empty")
	}

	secret := strings.TrimSpace(dto.Secret)
	if secret == "" {
		generated, err := generateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}
	status := models.WebhookStatusActive
	if dto.Status == models.WebhookStatusInactive {
		status = models.WebhookStatusInactive
	}

	w := models.WebhookModel{
		URL:    dto.URL,
		Events: events,
		Secret: secret,
		Status: status,
	}
	fields, err := models.ToRecord(&w)
	if err != nil {
		return nil, err
	}
	rec, err := s.st.Create(models.CollectionWebhooks, fields, store.Required("url"))
	if err != nil {
		return nil, err
	}
	if err := models.FromRecord(rec, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Service) Update(id string, dto *UpdateWebhookDTO) (*models.WebhookModel, error) {
	w, err := s.GetByID(id)
	if err != nil || w == nil {
		return w, err
	}
	patch := store.Record{}
	if dto.URL != nil {
		if strings.TrimSpace(*dto.URL) == "" {
			return nil, fmt.Errorf("url must not be empty")
		}
		patch["url"] = *dto.URL
	}
	if dto.Events != nil {
		events := normalizeWebhookEvents(dto.Events)
		if len(events) == 0 {
			return nil, fmt.Errorf("events is empty")
		}
		patch["events"] = events
	}
	if dto.Secret != nil {
		// A blank secret would leave deliveries signed with an empty key.
		if strings.TrimSpace(*dto.Secret) == "" {
			return nil, fmt.Errorf("secret must not be empty")
		}
		patch["secret"] = strings.TrimSpace(*dto.Secret)
	}
	if dto.Status != nil {
		if *dto.Status != models.WebhookStatusActive && *dto.Status != models.WebhookStatusInactive {
			return nil, fmt.Errorf("status must be %q or %q", models.WebhookStatusActive, models.WebhookStatusInactive)
		}
		patch["status"] = *dto.Status
	}
	rec, err := s.st.Update(models.CollectionWebhooks, id, patch)
	if err != nil {
		return nil, err
	}
	if err := models.FromRecord(rec, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Delete(id string) error {
	return s.st.Delete(models.CollectionWebhooks, id)
}

// eventEnvelope is the body POSTed to subscribers.
type eventEnvelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Dispatch notifies all active subscriptions whose event set contains the
// fired event. Each delivery runs in its own goroutine; the caller never
// waits for or learns about the outcome.
func (s *Service) Dispatch(event string, data interface{}) {
	hooks, err := s.List()
	if err != nil {
		s.logger.Warn("webhook dispatch: load subscriptions", zap.Error(err))
		return
	}

	for _, hook := range hooks {
		if hook.Status != models.WebhookStatusActive {
			continue
		}
		if !containsEvent(hook.Events, event) {
			continue
		}
		go s.deliver(hook, event, data)
	}
}

// deliver performs one pending -> delivered|failed attempt, terminal either
// way. Outcomes are logged only; nothing is persisted or retried.
func (s *Service) deliver(hook models.WebhookModel, event string, data interface{}) {
	body, err := json.Marshal(eventEnvelope{
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			zap.String("hook", hook.ID), zap.String("event", event), zap.Error(err))
		return
	}

	req, err := http.NewRequest(http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			zap.String("hook", hook.ID), zap.String("event", event), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", event)
	req.Header.Set("X-Webhook-Id", hook.ID)
	req.Header.Set("X-Webhook-Timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	req.Header.Set("X-Webhook-Signature", Sign(hook.Secret, body))

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			zap.String("hook", hook.ID), zap.String("event", event),
			zap.String("url", hook.URL), zap.Error(err))
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.logger.Info("webhook delivered",
			zap.String("hook", hook.ID), zap.String("event", event),
			zap.Int("status", resp.StatusCode))
	} else {
		s.logger.Warn("webhook delivery failed",
			zap.String("hook", hook.ID), zap.String("event", event),
			zap.String("url", hook.URL), zap.Int("status", resp.StatusCode))
	}
}

// Sign computes the hex HMAC-SHA256 of the body keyed by the subscription
// secret. Exported so receivers in tests can verify signatures.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// normalizeWebhookEvents deduplicates events, lowercases them, and validates
// each against the accepted set. The special value "all" short-circuits.
func normalizeWebhookEvents(events []string) []string {
	if len(events) == 0 {
		return []string{}
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(events))
	for _, event := range events {
		next := strings.ToLower(strings.TrimSpace(event))
		if next == "" {
			continue
		}
		if next == "all" {
			return []string{"all"}
		}
		if _, ok := acceptedWebhookEvents[next]; !ok {
			continue
		}
		if _, ok := seen[next]; ok {
			continue
		}
		seen[next] = struct{}{}
		out = append(out, next)
	}
	return out
}

func containsEvent(events []string, event string) bool {
	event = strings.ToLower(strings.TrimSpace(event))
	for _, item := range events {
		next := strings.ToLower(strings.TrimSpace(item))
		if next == "all" || next == event {
			return true
		}
	}
	return false
}

func toResponse(w *models.WebhookModel, revealSecret bool) webhookResponse {
	events := w.Events
	if events == nil {
		events = []string{}
	}
	secret := w.Secret
	if !revealSecret && secret != "" {
		secret = maskedSecret
	}
	return webhookResponse{
		ID: w.ID, URL: w.URL, Events: events,
		Secret: secret, Status: w.Status,
		CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt,
	}
}
