package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, commands.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, errs.ErrUpstreamFailure):
		return http.StatusBadGateway, "upstream_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// NewErrorHandler renders errors returned by handlers and middleware.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var res ErrorResponse
		var he *echo.HTTPError
		if errors.As(err, &he) {
			res = ErrorResponse{Code: he.Code, Kind: "http", Message: http.StatusText(he.Code)}
			if msg, ok := he.Message.(string); ok {
				res.Message = msg
			}
		} else {
			res.Code, res.Kind = statusFor(err)
			res.Message = messageFor(res.Code, err)
		}

		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Int("status", res.Code),
			zap.Error(err),
		}
		switch {
		case res.Code >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case res.Code != http.StatusNotFound && res.Code != http.StatusUnauthorized:
			log.Info("request rejected", fields...)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(res.Code)
		} else {
			err = c.JSON(res.Code, res)
		}
		if err != nil {
			log.Warn("writing error response failed", zap.Error(err))
		}
	}
}

// messageFor keeps upstream and internal details out of responses.
func messageFor(code int, err error) string {
	switch code {
	case http.StatusInternalServerError:
		return "internal error"
	case http.StatusBadGateway:
		var up *errs.UpstreamFailureError
		if errors.As(err, &up) && up.Message != "" {
			return up.Message
		}
		return "upstream service unavailable"
	case http.StatusUnauthorized:
		return "invalid phone or password"
	default:
		return err.Error()
	}
}
