package message

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/internal/middleware"
	"github.com/medictrans/oncall-api/internal/model"
	messageService "github.com/medictrans/oncall-api/internal/service/message"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

type Handler struct {
	service messageService.MessageServicer
}

func NewHandler(service messageService.MessageServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	messages := r.Group("/requests/:id/messages", auth.Authenticate(), auth.RequireProfile())
	{
		messages.GET("", h.ListMessages)
		messages.POST("", h.CreateMessage)
	}
}

func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, messages)
}

func (h *Handler) CreateMessage(c *gin.Context) {
	var req model.CreateMessageRequest
	if !httputil.BindJSON(c, &req) {
		return
	}

	msg, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, msg)
}
