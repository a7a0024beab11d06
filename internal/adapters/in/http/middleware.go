package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/ports"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

const (
	AdminKeyHeader = "X-Admin-Key"

	driverIDKey    = "driver_id"
	sessionKeyName = "driver_token"
)

// Metrics records request and reconciliation counters.
type Metrics interface {
	HTTPRequest(method, route string, code int, seconds float64)
	Reconciliation(source, result string)
}

type nopMetrics struct{}

func (nopMetrics) HTTPRequest(string, string, int, float64) {}
func (nopMetrics) Reconciliation(string, string)            {}

func unauthorized(err error, _ echo.Context) error {
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized").SetInternal(err)
}

// AdminAuth accepts requests carrying the configured key in X-Admin-Key.
func AdminAuth(apiKey string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + AdminKeyHeader,
		Validator: func(key string, _ echo.Context) (bool, error) {
			return apiKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1, nil
		},
		ErrorHandler: unauthorized,
	})
}

// DriverAuth resolves "Authorization: Bearer <token>" to a driver id.
func DriverAuth(sessions ports.SessionStore) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(token string, c echo.Context) (bool, error) {
			id, err := sessions.Resolve(c.Request().Context(), token)
			if errors.Is(err, errs.ErrObjectNotFound) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			c.Set(driverIDKey, id)
			c.Set(sessionKeyName, token)
			return true, nil
		},
		ErrorHandler: unauthorized,
	})
}

func currentDriver(c echo.Context) (kernel.UUID, error) {
	id, ok := c.Get(driverIDKey).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

// RequestMetrics observes every request by its route template.
func RequestMetrics(m Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequest(c.Request().Method, route, c.Response().Status, time.Since(start).Seconds())
			return nil
		}
	}
}
