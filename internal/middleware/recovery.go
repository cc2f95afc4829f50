package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/logging"
	"github.com/therealutkarshpriyadarshi/transcripts/internal/metrics"
	"github.com/therealutkarshpriyadarshi/transcripts/pkg/models"
)

// Recovery turns a handler panic into the standard 500 error body
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithRequestID(GetRequestID(c)).
			WithField("panic", fmt.Sprint(recovered)).
			Error("Recovered from panic")
		metrics.RecordError("api", "panic")

		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Internal server error",
			Details: fmt.Sprint(recovered),
		})
	})
}
