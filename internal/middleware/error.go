package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medictrans/oncall-api/pkg/errors"
	"github.com/medictrans/oncall-api/pkg/httputil"
)

// ErrorHandler logs the errors handlers attach to the context. If a handler
// attached an error without writing a response, the last error is rendered.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			level := zerolog.ErrorLevel
			if appErr, ok := errors.As(e.Err); ok && appErr.HTTPStatus() < http.StatusInternalServerError {
				level = zerolog.DebugLevel
			}
			log.WithLevel(level).
				Err(e.Err).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		if !c.Writer.Written() {
			httputil.RespondWithError(c, c.Errors.Last().Err)
		}
	}
}
