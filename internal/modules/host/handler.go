package host

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kai-os/platform/internal/pkg/response"
	"github.com/kai-os/platform/internal/store"
)

// Handler wires host HTTP endpoints.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/hosts")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/datm", h.getDATM)
	g.PUT("/:id/datm", h.updateDATM)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateHostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	created, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, store.ErrValidation) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, created)
}

func (h *Handler) get(c *gin.Context) {
	found, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if found == nil {
		response.NotFoundMsg(c, "host not found")
		return
	}
	response.OK(c, found)
}

func (h *Handler) update(c *gin.Context) {
	var patch store.Record
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.svc.Update(c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrStorage) {
			response.InternalError(c, err)
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	if updated == nil {
		response.NotFoundMsg(c, "host not found")
		return
	}
	response.OK(c, updated)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFoundMsg(c, "host not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *Handler) getDATM(c *gin.Context) {
	found, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if found == nil {
		response.NotFoundMsg(c, "host not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "datm": found.DATM})
}

func (h *Handler) updateDATM(c *gin.Context) {
	var dto UpdateDATMDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	matrix, err := h.svc.UpdateDATM(c.Param("id"), dto.matrix())
	if err != nil {
		if errors.Is(err, store.ErrStorage) {
			response.InternalError(c, err)
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	if matrix == nil {
		response.NotFoundMsg(c, "host not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "datm": matrix})
}
