package webhook

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kai-os/platform/internal/pkg/response"
	"github.com/kai-os/platform/internal/store"
)

// Handler wires webhook HTTP endpoints. All routes require authentication.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/webhooks", authMW)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/events", h.listEventsEnum)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]webhookResponse, len(items))
	for i, w := range items {
		out[i] = toResponse(&w, false)
	}
	response.OK(c, out)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateWebhookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	w, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, store.ErrStorage) {
			response.InternalError(c, err)
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	// The only response that ever carries the secret in cleartext.
	response.Created(c, toResponse(w, true))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateWebhookDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	w, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, store.ErrStorage) {
			response.InternalError(c, err)
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	if w == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(w, false))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *Handler) listEventsEnum(c *gin.Context) {
	response.OK(c, webhookEventEnum)
}
