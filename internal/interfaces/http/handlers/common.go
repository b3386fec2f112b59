package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molscene/internal/interfaces/http/middleware"
	"github.com/turtacn/molscene/pkg/errors"
	"github.com/turtacn/molscene/pkg/types/common"
)

// respond writes data wrapped in the standard success envelope.
func respond[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// respondError maps err to its HTTP status and writes the error envelope.
// Server-side failures are masked behind the code's default message.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	message, detail := errors.DefaultMessageForCode(code), ""
	var ae *errors.AppError
	if status < http.StatusInternalServerError && errors.As(err, &ae) {
		message, detail = ae.Message, ae.Detail
	}

	resp := common.NewErrorResponse(string(code), message, detail)
	resp.RequestID = middleware.GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}
