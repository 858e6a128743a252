package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medictrans/oncall-api/pkg/errors"
	"github.com/medictrans/oncall-api/pkg/validator"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a success envelope with the given status code.
func RespondWithSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, Response{
		Status: StatusSuccess,
		Data:   data,
	})
}

// RespondWithError records err on the context for the error middleware and
// sends an error envelope. Errors without an AppError in their chain are
// reported as internal errors without detail.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	statusCode := http.StatusInternalServerError
	message := "internal server error"
	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.HTTPStatus()
		message = appErr.Message
	}

	c.AbortWithStatusJSON(statusCode, Response{
		Status:  StatusError,
		Message: message,
	})
}

// BindJSON decodes and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondWithError(c, errors.BadRequest(validator.Message(err), err))
		return false
	}
	return true
}
