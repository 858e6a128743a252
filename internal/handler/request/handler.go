package request

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/internal/middleware"
	"github.com/medictrans/oncall-api/internal/model"
	requestService "github.com/medictrans/oncall-api/internal/service/request"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

type Handler struct {
	service requestService.RequestServicer
}

func NewHandler(service requestService.RequestServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	requests := r.Group("/requests", auth.Authenticate(), auth.RequireProfile())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("/:id/cancel", h.CancelRequest)
		requests.DELETE("/:id", auth.RequireAdmin(), h.DeleteRequest)
	}
}

func (h *Handler) CreateRequest(c *gin.Context) {
	var req model.CreateRequestRequest
	if !httputil.BindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

// ListRequests returns the caller's own requests, upcoming first.
func (h *Handler) ListRequests(c *gin.Context) {
	requests, err := h.service.ListForPatient(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, requests)
}

func (h *Handler) GetRequest(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, r)
}

func (h *Handler) CancelRequest(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteRequest(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
