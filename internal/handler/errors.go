package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/pkg/logger"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": message, "field": field} for known kinds and a generic 500 otherwise
func respondError(c echo.Context, err error, msg string) error {
	log := logger.FromEcho(c)

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal {
		log.Info(msg, zap.String("kind", appErr.Kind.String()), zap.String("reason", appErr.Message))
		body := echo.Map{"error": appErr.Message}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		return c.JSON(statusFor(appErr.Kind), body)
	}

	log.Error(msg, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": message})
}
