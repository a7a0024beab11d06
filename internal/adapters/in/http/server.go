// Package http exposes the fulfillment use cases over a JSON REST API.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/ports"
)

// Server adapts HTTP requests to commands and queries. Handlers bind and
// convert input, call a use case and render its result; every error goes
// through the echo error handler.
type Server struct {
	h         Handlers
	documents ports.DocumentStore
	sessions  ports.SessionStore
	metrics   Metrics
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Server)

func WithMetrics(m Metrics) Option { return func(s *Server) { s.metrics = m } }

func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

func NewServer(h Handlers, documents ports.DocumentStore, sessions ports.SessionStore, log *zap.Logger, opts ...Option) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		h:         h,
		documents: documents,
		sessions:  sessions,
		metrics:   nopMetrics{},
		log:       log.With(zap.String("component", "http")),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes configures the parts of the surface owned by other adapters.
type Routes struct {
	AdminAPIKey string
	// Tracking serves the realtime subprotocol.
	Tracking echo.HandlerFunc
	// Metrics serves the prometheus scrape endpoint.
	Metrics http.Handler
}

// NewEcho builds an echo instance with every route registered.
func (s *Server) NewEcho(r Routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(s.log)
	e.Use(middleware.Recover())
	e.Use(RequestMetrics(s.metrics))
	s.Register(e, r)
	return e
}

func (s *Server) Register(e *echo.Echo, r Routes) {
	e.GET("/health", s.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	api := e.Group("/api")
	api.GET("/pricing", s.GetPricing)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:number", s.GetOrder)
	api.GET("/orders/:number/document", s.DownloadDocument)
	api.GET("/orders/:number/payments", s.GetOrderPayments)

	api.POST("/payments/initiate", s.InitiatePayment)
	api.POST("/payments/callback", s.PaymentCallback)
	api.GET("/payments/:handle/status", s.GetPaymentStatus)

	if r.Tracking != nil {
		api.GET("/ws/track", r.Tracking)
	}

	admin := api.Group("/admin", AdminAuth(r.AdminAPIKey))
	admin.PATCH("/orders/:number", s.UpdateOrderStatus)
	admin.POST("/orders/:number/print", s.DispatchPrint)
	admin.POST("/orders/:number/assign", s.AssignDelivery)
	admin.GET("/print-queue", s.GetPrintQueue)
	admin.GET("/deliveries", s.GetActiveDeliveries)
	admin.GET("/drivers", s.ListDrivers)
	admin.POST("/drivers", s.CreateDriver)
	admin.PATCH("/drivers/:id", s.UpdateDriver)
	admin.DELETE("/drivers/:id", s.DeactivateDriver)

	api.POST("/driver/login", s.Login)
	driver := api.Group("/driver", DriverAuth(s.sessions))
	driver.POST("/logout", s.Logout)
	driver.GET("/me", s.Me)
	driver.GET("/deliveries", s.GetMyDeliveries)
	driver.GET("/deliveries/:id", s.GetMyDelivery)
	driver.POST("/deliveries/:id/start", s.StartDelivery)
	driver.POST("/deliveries/:id/complete", s.CompleteDelivery)
	driver.POST("/deliveries/:id/location", s.PostLocation)
}

func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "time": s.now().UTC().Format(time.RFC3339)})
}
