package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/internal/middleware"
	"github.com/medictrans/oncall-api/internal/model"
	userService "github.com/medictrans/oncall-api/internal/service/user"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

type Handler struct {
	service userService.UserServicer
	// forget drops a cached user record after it changed.
	forget func(uid string)
}

func NewHandler(service userService.UserServicer, forget func(uid string)) *Handler {
	if forget == nil {
		forget = func(string) {}
	}
	return &Handler{service: service, forget: forget}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	me := r.Group("/me", auth.Authenticate())
	{
		me.GET("", h.GetMe)
		me.POST("", h.EnsureMe)
	}

	users := r.Group("/users", auth.Authenticate(), auth.RequireProfile())
	{
		users.GET("", auth.RequireAdmin(), h.ListUsers)
		users.PATCH("/:id", h.UpdateUser)
	}
}

// GetMe returns the caller's user record.
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, user)
}

// EnsureMe returns the caller's record, creating a patient record for a
// fresh identity.
func (h *Handler) EnsureMe(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)
	user, err := h.service.EnsureProfile(c.Request.Context(), uid, c.GetString(middleware.ContextUserEmail))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.forget(uid)
	httputil.RespondWithSuccess(c, http.StatusOK, user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, users)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req model.UpdateProfileRequest
	if !httputil.BindJSON(c, &req) {
		return
	}

	id := c.Param("id")
	user, err := h.service.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.forget(id)
	httputil.RespondWithSuccess(c, http.StatusOK, user)
}
