package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/adapters/out/mpesa"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
)

const maxCallbackBytes = 64 << 10

// InitiatePayment handles POST /api/payments/initiate.
func (s *Server) InitiatePayment(c echo.Context) error {
	var req InitiatePaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewInitiatePaymentCommand(req.OrderNumber, req.Phone)
	if err != nil {
		return err
	}

	res, err := s.h.InitiatePayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInitiatePayment(res))
}

// PaymentCallback handles POST /api/payments/callback. The gateway always
// receives an acceptance; problems are logged and counted.
func (s *Server) PaymentCallback(c echo.Context) error {
	log := s.log.With(zap.String("handler", "payment_callback"))

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxCallbackBytes))
	if err != nil {
		log.Warn("reading callback failed", zap.Error(err))
		s.metrics.Reconciliation("callback", "invalid")
		return c.JSON(http.StatusOK, mpesa.Accepted)
	}

	outcome, err := mpesa.ParseCallback(body)
	if err != nil {
		log.Warn("malformed callback", zap.Error(err))
		s.metrics.Reconciliation("callback", "invalid")
		return c.JSON(http.StatusOK, mpesa.Accepted)
	}
	log = log.With(zap.String("checkout_request_id", outcome.Handle))

	cmd, err := commands.NewReconcilePaymentCommand(outcome)
	if err != nil {
		log.Warn("unusable callback", zap.Error(err))
		s.metrics.Reconciliation("callback", "invalid")
		return c.JSON(http.StatusOK, mpesa.Accepted)
	}

	res, err := s.h.ReconcilePayment.Handle(c.Request().Context(), cmd)
	switch {
	case err != nil:
		log.Error("reconciling callback failed", zap.Error(err))
		s.metrics.Reconciliation("callback", "error")
	case !res.Applied:
		log.Info("callback changed nothing", zap.Stringer("result", res.Result))
		s.metrics.Reconciliation("callback", "ignored")
	default:
		log.Info("callback applied", zap.Stringer("result", res.Result))
		s.metrics.Reconciliation("callback", res.Result.String())
	}
	return c.JSON(http.StatusOK, mpesa.Accepted)
}

// GetPaymentStatus handles GET /api/payments/:handle/status.
func (s *Server) GetPaymentStatus(c echo.Context) error {
	cmd, err := commands.NewQueryPaymentStatusCommand(c.Param("handle"))
	if err != nil {
		return err
	}
	res, err := s.h.PaymentStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PaymentStatusResponse{
		CheckoutRequestID: res.Handle,
		Status:            res.Status.String(),
		Receipt:           res.Receipt,
		FailureReason:     res.FailureReason,
	})
}
