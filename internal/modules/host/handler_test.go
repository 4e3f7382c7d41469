package host

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kai-os/platform/internal/models"
	"github.com/kai-os/platform/internal/modules/webhook"
	"github.com/kai-os/platform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type testEnv struct {
	router *gin.Engine
	store  *store.Store
	hooks  *webhook.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	hooks := webhook.NewService(st, zap.NewNop())

	router := gin.New()
	api := router.Group("/api")
	NewHandler(NewService(st, hooks)).RegisterRoutes(api)
	return &testEnv{router: router, store: st, hooks: hooks}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		content, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(content)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
		Error   string                 `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, got error: %s", envelope.Error)
	return envelope.Data
}

func TestCreateHostDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/hosts", gin.H{"name": "Kai", "creatorId": "u1"})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "draft", data["status"])
	assert.Equal(t, "general", data["domain"])

	datm, ok := data["datm"].(map[string]interface{})
	require.True(t, ok)
	for _, axis := range []string{"truth", "goodness", "beauty", "intelligence"} {
		assert.EqualValues(t, 50, datm[axis])
	}

	prompts, ok := data["prompts"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, prompts["scheduler"])
	assert.NotEmpty(t, prompts["expert"])
	assert.NotEmpty(t, prompts["qa"])
}

func TestCreateHostMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/hosts", gin.H{"name": "Kai"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestGetUnknownHost(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/hosts/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateHostMergesPatch(t *testing.T) {
	env := newTestEnv(t)

	created := decodeData(t, env.do(t, http.MethodPost, "/api/hosts", gin.H{
		"name": "Kai", "creatorId": "u1", "description": "barista",
	}))
	id := created["id"].(string)

	w := env.do(t, http.MethodPut, "/api/hosts/"+id, gin.H{"description": "coffee host"})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "coffee host", data["description"])
	assert.Equal(t, "Kai", data["name"])
	assert.Equal(t, created["createdAt"], data["createdAt"])
	assert.NotEmpty(t, data["updatedAt"])
}

func TestUpdateRejectsPartialDATM(t *testing.T) {
	env := newTestEnv(t)

	created := decodeData(t, env.do(t, http.MethodPost, "/api/hosts", gin.H{"name": "Kai", "creatorId": "u1"}))
	id := created["id"].(string)

	// An embedded datm patch must be complete and in range.
	w := env.do(t, http.MethodPut, "/api/hosts/"+id, gin.H{"datm": gin.H{"truth": 80}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	data := decodeData(t, env.do(t, http.MethodGet, "/api/hosts/"+id, nil))
	datm := data["datm"].(map[string]interface{})
	assert.EqualValues(t, 50, datm["truth"])
}

func TestDATMUpdateAtomicRejection(t *testing.T) {
	env := newTestEnv(t)

	created := decodeData(t, env.do(t, http.MethodPost, "/api/hosts", gin.H{"name": "Kai", "creatorId": "u1"}))
	id := created["id"].(string)

	w := env.do(t, http.MethodPut, "/api/hosts/"+id+"/datm", gin.H{
		"truth": 150, "goodness": 60, "beauty": 60, "intelligence": 60,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// One out-of-range axis rejects the whole update: all four prior scores survive.
	var out struct {
		Success bool                   `json:"success"`
		DATM    map[string]interface{} `json:"datm"`
	}
	resp := env.do(t, http.MethodGet, "/api/hosts/"+id+"/datm", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	for _, axis := range []string{"truth", "goodness", "beauty", "intelligence"} {
		assert.EqualValues(t, 50, out.DATM[axis])
	}
}

func TestDATMUpdateRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	created := decodeData(t, env.do(t, http.MethodPost, "/api/hosts", gin.H{"name": "Kai", "creatorId": "u1"}))
	id := created["id"].(string)

	w := env.do(t, http.MethodPut, "/api/hosts/"+id+"/datm", gin.H{
		"truth": 80, "goodness": 70, "beauty": 60, "intelligence": 90,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Success bool        `json:"success"`
		DATM    models.DATM `json:"datm"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, models.DATM{Truth: 80, Goodness: 70, Beauty: 60, Intelligence: 90}, out.DATM)
}

func TestDeleteHostFiresWebhook(t *testing.T) {
	env := newTestEnv(t)

	deliveries := make(chan []byte, 1)
	headers := make(chan http.Header, 1)
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		deliveries <- body
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer receiver.Close()

	_, err := env.hooks.Create(&webhook.CreateWebhookDTO{
		URL:    receiver.URL,
		Events: []string{"host.deleted"},
		Secret: "scenario-secret",
	})
	require.NoError(t, err)

	created := decodeData(t, env.do(t, http.MethodPost, "/api/hosts", gin.H{"name": "Kai", "creatorId": "u1"}))
	id := created["id"].(string)

	w := env.do(t, http.MethodDelete, "/api/hosts/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The host is gone from the collection.
	list := env.do(t, http.MethodGet, "/api/hosts", nil)
	assert.NotContains(t, list.Body.String(), id)

	select {
	case body := <-deliveries:
		var envelope struct {
			Event string                 `json:"event"`
			Data  map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, "host.deleted", envelope.Event)
		assert.Equal(t, id, envelope.Data["hostId"])
		h := <-headers
		assert.Equal(t, webhook.Sign("scenario-secret", body), h.Get("X-Webhook-Signature"))
	case <-time.After(3 * time.Second):
		t.Fatal("expected host.deleted delivery")
	}
}

func TestUpdateOnCorruptCollectionIsInternalError(t *testing.T) {
	env := newTestEnv(t)

	created := decodeData(t, env.do(t, http.MethodPost, "/api/hosts", gin.H{"name": "Kai", "creatorId": "u1"}))
	id := created["id"].(string)

	corrupt := filepath.Join(env.store.Dir(), "hosts.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	// A broken collection file is a storage failure, not a client error.
	w := env.do(t, http.MethodPut, "/api/hosts/"+id, gin.H{"description": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = env.do(t, http.MethodPut, "/api/hosts/"+id+"/datm", gin.H{
		"truth": 60, "goodness": 60, "beauty": 60, "intelligence": 60,
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteUnknownHost(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodDelete, "/api/hosts/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
