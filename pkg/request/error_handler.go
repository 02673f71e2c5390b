package request

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/coursehub/curriculum-server-go/pkg/apperrors"
	"github.com/coursehub/curriculum-server-go/pkg/response"
)

// Handler returns a middleware that standardises error responses for
// handlers that attach errors to the gin context instead of writing
// their own response.
func Handler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := errors.Join(contextErrors(c.Errors)...)
		if err == nil {
			return
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			response.ErrorWithLog(logger, c, appErr.StatusCode(), appErr.Message(), err)
			return
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorWithLog(logger, c, http.StatusNotFound, "resource not found", err)
			return
		}

		if isBindingError(err) {
			response.ErrorWithLog(logger, c, http.StatusBadRequest, "invalid request payload", err)
			return
		}

		response.ErrorWithLog(logger, c, http.StatusInternalServerError, "internal server error", err)
	}
}

func contextErrors(ginErrors []*gin.Error) []error {
	errs := make([]error, 0, len(ginErrors))
	for _, ge := range ginErrors {
		if ge != nil && ge.Err != nil {
			errs = append(errs, ge.Err)
		}
	}
	return errs
}

func isBindingError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "binding") || strings.Contains(msg, "unmarshal")
}
