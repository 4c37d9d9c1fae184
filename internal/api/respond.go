package api

import (
	stderrors "errors"
	"net/http"

	"sheetlens/domain/core"
	"sheetlens/internal"
	"sheetlens/internal/errors"

	"github.com/gin-gonic/gin"
)

// respondError writes {"error", "code"} with the status the error maps to.
// Server-side failures are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), errorBody(c, err))
}

func errorStatus(err error) int {
	return errors.HTTPStatus(err)
}

func errorBody(c *gin.Context, err error) gin.H {
	status := errorStatus(err)
	code := errors.GetCode(err)
	if status >= http.StatusInternalServerError {
		internal.DefaultLogger.Error("[%s %s] %v", c.Request.Method, c.FullPath(), err)
		return gin.H{"error": "Internal server error", "code": code}
	}
	return gin.H{"error": publicMessage(err), "code": code}
}

// publicMessage prefers the outermost AppError message; domain errors carry
// their own text.
func publicMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		if appErr.Cause != nil && (core.IsInsufficientDataError(err) || stderrors.Is(err, core.ErrInvalidInput)) {
			// keep the reason so callers can tell insufficient-data cases apart
			return appErr.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

func bindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
}

func paramID(c *gin.Context, name string) (core.ID, bool) {
	id, err := core.ParseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "code": errors.CodeInvalidInput})
		return "", false
	}
	return id, true
}
