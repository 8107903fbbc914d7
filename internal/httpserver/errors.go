package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/noteet/internal/service"
	"github.com/Skotchmaster/noteet/internal/transport"
	"github.com/Skotchmaster/noteet/pkg/logging"
)

const msgInternal = "internal server error"

// ErrorHandler renders every error as {"message": ...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, transport.ErrorResponse{Message: msg})
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", err)
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, httpErrorMessage(he)
	}

	msg := service.Message(err)
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, orDefault(msg, http.StatusBadRequest)
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, orDefault(msg, http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, orDefault(msg, http.StatusForbidden)
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}

func orDefault(msg string, code int) string {
	if msg != "" {
		return msg
	}
	return http.StatusText(code)
}
