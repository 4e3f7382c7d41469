package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kai-os/platform/internal/pkg/response"
	"github.com/kai-os/platform/internal/store"
)

// Handler wires user HTTP endpoints.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.GET("", h.list)
	g.POST("", h.create)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]userResponse, len(items))
	for i, u := range items {
		out[i] = toResponse(&u)
	}
	response.OK(c, out)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	created, err := h.svc.Create(&dto)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			response.Conflict(c, "email already registered")
		case errors.Is(err, store.ErrValidation):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, toResponse(created))
}
