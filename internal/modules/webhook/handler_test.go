package webhook

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kai-os/platform/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestHandler(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)

	router := gin.New()
	passthrough := func(c *gin.Context) { c.Next() }
	NewHandler(NewService(st, zap.NewNop())).RegisterRoutes(router.Group("/api"), passthrough)
	return router, st
}

func requestJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	content, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(content))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateOnCorruptCollectionIsInternalError(t *testing.T) {
	router, st := newTestHandler(t)

	corrupt := filepath.Join(st.Dir(), "webhooks.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	w := requestJSON(t, router, http.MethodPost, "/api/webhooks", gin.H{
		"url":    "https://example.com/hook",
		"events": []string{"all"},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestUpdateOnCorruptCollectionIsInternalError(t *testing.T) {
	router, st := newTestHandler(t)

	created := requestJSON(t, router, http.MethodPost, "/api/webhooks", gin.H{
		"url":    "https://example.com/hook",
		"events": []string{"all"},
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &envelope))

	corrupt := filepath.Join(st.Dir(), "webhooks.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	w := requestJSON(t, router, http.MethodPut, "/api/webhooks/"+envelope.Data.ID, gin.H{
		"status": "inactive",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// Validation failures still map to 400; a fresh store is fine again.
	routerOK, _ := newTestHandler(t)
	bad := requestJSON(t, routerOK, http.MethodPost, "/api/webhooks", gin.H{
		"url":    "https://example.com/hook",
		"events": []string{"bogus.event"},
	})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
