package question

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/internal/middleware"
	"github.com/medictrans/oncall-api/internal/model"
	questionService "github.com/medictrans/oncall-api/internal/service/question"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

type Handler struct {
	service questionService.QuestionServicer
}

func NewHandler(service questionService.QuestionServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	questions := r.Group("/questions")
	{
		questions.POST("", h.CreateQuestion)
		questions.GET("", auth.Authenticate(), auth.RequireAdmin(), h.ListQuestions)
	}
}

func (h *Handler) CreateQuestion(c *gin.Context) {
	var req model.CreateQuestionRequest
	if !httputil.BindJSON(c, &req) {
		return
	}

	q, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, q)
}

func (h *Handler) ListQuestions(c *gin.Context) {
	questions, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, questions)
}
