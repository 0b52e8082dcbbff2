package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc AuthService }

// RegisterRoutes: /login は誰でも，アカウント管理は admin のみ
func RegisterRoutes(r gin.IRoutes, svc AuthService, secret []byte) {
	h := &AuthHandler{svc: svc}
	admin := []gin.HandlerFunc{RequireAuth(secret), RequireRole(RoleAdmin)}

	r.POST("/login", h.Login)
	r.POST("/managers", append(admin, h.Register)...)
	r.PATCH("/managers/:id", append(admin, h.Rename)...)
	r.POST("/managers/:id/disable", append(admin, h.disable(true))...)
	r.POST("/managers/:id/enable", append(admin, h.disable(false))...)
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 管理者ログイン
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   body body LoginRequest true "credentials"
// @Success 200 {object} Token
// @Router  /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if errors.Is(err, ErrAuthFailed) {
		abort(c, http.StatusUnauthorized, "UNAUTHENTICATED", "IDまたはパスワードが間違っています")
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, "INTERNAL", "login failed")
		return
	}
	c.JSON(http.StatusOK, token)
}

type RegisterRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty"` // 未指定なら manager
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request")
		return
	}

	err := h.svc.Register(c.Request.Context(), req.ID, req.Password, req.Role)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"id": req.ID})
	case errors.Is(err, ErrInvalidRole):
		abort(c, http.StatusBadRequest, "INVALID_ARGUMENT", "role must be manager or admin")
	case errors.Is(err, ErrAlreadyExists):
		abort(c, http.StatusConflict, "ALREADY_EXISTS", "id already exists")
	default:
		abort(c, http.StatusInternalServerError, "INTERNAL", "register failed")
	}
}

type RenameRequest struct {
	NewID string `json:"new_id" binding:"required"`
}

func (h *AuthHandler) Rename(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid request")
		return
	}
	err := h.svc.Rename(c.Request.Context(), c.Param("id"), req.NewID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"id": req.NewID})
	case errors.Is(err, ErrNotFound):
		abort(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, ErrAlreadyExists):
		abort(c, http.StatusConflict, "ALREADY_EXISTS", "new id already exists")
	default:
		abort(c, http.StatusInternalServerError, "INTERNAL", "rename failed")
	}
}

func (h *AuthHandler) disable(disabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h.svc.SetDisabled(c.Request.Context(), c.Param("id"), disabled)
		if errors.Is(err, ErrNotFound) {
			abort(c, http.StatusNotFound, "NOT_FOUND", "not found")
			return
		}
		if err != nil {
			abort(c, http.StatusInternalServerError, "INTERNAL", "update failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "disabled": disabled})
	}
}
