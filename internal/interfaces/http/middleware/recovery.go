package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/errors"
	"github.com/turtacn/molscene/pkg/types/common"
)

// Recovery turns a handler panic into a 500 with the standard error body.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			logging.String("panic", fmt.Sprint(recovered)),
			logging.String("path", c.Request.URL.Path),
			logging.String("request_id", GetRequestID(c)),
			logging.String("stack", string(debug.Stack())),
		)
		resp := common.NewErrorResponse(string(errors.ErrCodeInternal), errors.DefaultMessageForCode(errors.ErrCodeInternal), "")
		resp.RequestID = GetRequestID(c)
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}
