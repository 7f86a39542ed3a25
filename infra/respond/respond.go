package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/infra/requestid"
)

const internalMessage = "Internal server error"

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error maps err to its status code and writes {message, details?}.
// Unclassified errors are logged and their text withheld.
func Error(c *gin.Context, logger *zap.Logger, err error) {
	status := infra.StatusCode(err)

	var appErr *infra.Error
	if errors.As(err, &appErr) && appErr.Kind != infra.KindInternal {
		c.AbortWithStatusJSON(status, ErrorBody{Message: appErr.Message, Details: appErr.Details})
		return
	}

	logger.Error("Request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.FromContext(c.Request.Context())),
	)
	message := internalMessage
	if status == http.StatusGatewayTimeout {
		message = http.StatusText(http.StatusGatewayTimeout)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Message: message})
}

// Recovery turns panics into the generic 500 body instead of gin's empty response.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorBody{Message: internalMessage})
	})
}
