package masters

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// RegisterRoutes: マスタは管理者のみ。guard に RequireAuth / RequireRole を渡す
func RegisterRoutes(r gin.IRoutes, svc *Service, guard ...gin.HandlerFunc) {
	h := &Handler{svc: svc}
	with := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guard...), h.kind, fn)
	}
	r.GET("/masters/:kind", with(h.List)...)
	r.POST("/masters/:kind", with(h.Create)...)
	r.GET("/masters/:kind/:id", with(h.Get)...)
	r.PUT("/masters/:kind/:id", with(h.Update)...)
	r.DELETE("/masters/:kind/:id", with(h.Delete)...)
}

const ctxKind = "masters.kind"

func (h *Handler) kind(c *gin.Context) {
	k, ok := ParseKind(c.Param("kind"))
	if !ok {
		fail(c, ErrNotFound("unknown master: "+c.Param("kind")))
		c.Abort()
		return
	}
	c.Set(ctxKind, k)
	c.Next()
}

func kindOf(c *gin.Context) Kind { return c.MustGet(ctxKind).(Kind) }

func (h *Handler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), kindOf(c), c.Query("all"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), kindOf(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, ErrInvalid(err.Error()))
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), kindOf(c), req.ID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, ErrInvalid(err.Error()))
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), kindOf(c), c.Param("id"), req.Name, req.IsDisabled)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), kindOf(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// fail: {"error":{"code","message"}}
func fail(c *gin.Context, err error) {
	var api *APIError
	if !errors.As(err, &api) {
		api = ErrInternal(err.Error())
	}
	c.JSON(toHTTPStatus(api), gin.H{"error": api})
}
