package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/internal/middleware"
	"github.com/medictrans/oncall-api/internal/model"
	catalogService "github.com/medictrans/oncall-api/internal/service/catalog"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

type Handler struct {
	service catalogService.CatalogServicer
	cache   middleware.CacheConfig
}

func NewHandler(service catalogService.CatalogServicer, cache middleware.CacheConfig) *Handler {
	return &Handler{service: service, cache: cache}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	services := r.Group("/services")
	{
		services.GET("", middleware.Cache(h.cache), h.ListServices)

		admin := services.Group("", auth.Authenticate(), auth.RequireAdmin())
		admin.POST("", h.CreateService)
		admin.PATCH("/:id", h.UpdateService)
		admin.DELETE("/:id", h.DeleteService)
	}
}

// ListServices returns the catalog localized by the locale query parameter.
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.List(c.Request.Context(), model.ParseLocale(c.Query("locale")))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, services)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if !httputil.BindJSON(c, &req) {
		return
	}

	svc, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, svc)
}

func (h *Handler) UpdateService(c *gin.Context) {
	var patch model.ServicePatch
	if !httputil.BindJSON(c, &patch) {
		return
	}

	if err := h.service.Update(c.Request.Context(), c.Param("id"), &patch); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
