package auth

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kai-os/platform/internal/middleware"
	"github.com/kai-os/platform/internal/modules/user"
	"github.com/kai-os/platform/internal/pkg/response"
	sessionpkg "github.com/kai-os/platform/internal/pkg/session"
	"github.com/kai-os/platform/internal/store"
)

// failedLoginDelay slows credential guessing on bad attempts.
const failedLoginDelay = 3 * time.Second

// Handler wires login and session management endpoints.
type Handler struct {
	st    *store.Store
	users *user.Service
}

func NewHandler(st *store.Store, users *user.Service) *Handler {
	return &Handler{st: st, users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/login", h.login)

	g := rg.Group("/sessions", authMW)
	g.GET("", h.listSessions)
	g.DELETE("/:id", h.revokeSession)
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.users.GetByEmail(dto.Email)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !h.users.VerifyPassword(u, dto.Password) {
		time.Sleep(failedLoginDelay)
		response.Unauthorized(c)
		return
	}

	token, s, err := sessionpkg.Issue(h.st, u.ID, c.ClientIP(), c.Request.UserAgent(), sessionpkg.DefaultTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"token":     token,
		"sessionId": s.ID,
		"userId":    u.ID,
	})
}

func (h *Handler) listSessions(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	sessions, err := sessionpkg.ListActive(h.st, userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	current := middleware.CurrentSessionID(c)
	out := make([]sessionResponse, len(sessions))
	for i, s := range sessions {
		out[i] = sessionResponse{
			ID: s.ID, IP: s.IP, UA: s.UA,
			ExpiresAt: s.ExpiresAt, Created: s.CreatedAt,
			Current: s.ID == current,
		}
	}
	response.OK(c, out)
}

func (h *Handler) revokeSession(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if err := sessionpkg.Revoke(h.st, userID, c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFoundMsg(c, "session not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, nil)
}
