package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/internal/middleware"
	"github.com/medictrans/oncall-api/internal/model"
	triageService "github.com/medictrans/oncall-api/internal/service/triage"
	"github.com/medictrans/oncall-api/pkg/errors"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

type Handler struct {
	service triageService.TriageServicer
}

func NewHandler(service triageService.TriageServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	admin := r.Group("/admin", auth.Authenticate(), auth.RequireAdmin())
	{
		admin.GET("/requests", h.ListRequests)
		admin.GET("/statistics", h.Statistics)
	}
}

// ListRequests returns the triage board, or one column of it when the
// status query parameter is set.
func (h *Handler) ListRequests(c *gin.Context) {
	raw := c.Query("status")
	if raw == "" {
		board, err := h.service.Board(c.Request.Context())
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, http.StatusOK, board)
		return
	}

	status, ok := model.ParseTriageStatus(raw)
	if !ok {
		httputil.RespondWithError(c, errors.BadRequest(fmt.Sprintf("unknown status %q", raw), nil))
		return
	}

	requests, err := h.service.Requests(c.Request.Context(), status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, requests)
}

func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, stats)
}
