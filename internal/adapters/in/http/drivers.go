package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// Login handles POST /api/driver/login.
func (s *Server) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewAuthenticateDriverCommand(req.Phone, req.Password)
	if err != nil {
		return err
	}

	session, err := s.h.AuthenticateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: session.Token, Driver: fromDriver(session.Driver)})
}

// Logout handles POST /api/driver/logout.
func (s *Server) Logout(c echo.Context) error {
	token, _ := c.Get(sessionKeyName).(string)
	if err := s.sessions.Revoke(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /api/driver/me.
func (s *Server) Me(c echo.Context) error {
	driverID, err := currentDriver(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetDriverQuery(driverID)
	if err != nil {
		return err
	}
	view, err := s.h.Drivers.Get(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDriver(view))
}

// GetMyDeliveries handles GET /api/driver/deliveries.
func (s *Server) GetMyDeliveries(c echo.Context) error {
	driverID, err := currentDriver(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetDriverDeliveriesQuery(driverID)
	if err != nil {
		return err
	}
	views, err := s.h.Deliveries.ForDriver(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveries(views))
}

// GetMyDelivery handles GET /api/driver/deliveries/:id.
func (s *Server) GetMyDelivery(c echo.Context) error {
	driverID, err := currentDriver(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	query, err := queries.NewGetDeliveryQuery(id, &driverID)
	if err != nil {
		return err
	}
	detail, err := s.h.Deliveries.Get(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveryDetail(detail))
}

// StartDelivery handles POST /api/driver/deliveries/:id/start.
func (s *Server) StartDelivery(c echo.Context) error {
	driverID, err := currentDriver(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewStartDeliveryCommand(id, driverID)
	if err != nil {
		return err
	}
	if err = s.h.StartDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"delivery_id": id.String(), "status": delivery.InTransit.String()})
}

// CompleteDelivery handles POST /api/driver/deliveries/:id/complete.
func (s *Server) CompleteDelivery(c echo.Context) error {
	driverID, err := currentDriver(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req CompleteDeliveryRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewCompleteDeliveryCommand(id, driverID, delivery.Proof{
		Notes:     req.Notes,
		Photo:     req.Photo,
		Signature: req.Signature,
	})
	if err != nil {
		return err
	}
	if err = s.h.CompleteDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"delivery_id": id.String(), "status": delivery.Delivered.String()})
}

// PostLocation handles POST /api/driver/deliveries/:id/location.
func (s *Server) PostLocation(c echo.Context) error {
	driverID, err := currentDriver(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req LocationRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	if req.Lat == nil || req.Lng == nil {
		return errs.NewValueIsRequiredError("lat/lng")
	}
	cmd, err := commands.NewRecordLocationCommand(id, driverID, *req.Lat, *req.Lng, req.Accuracy, req.Speed)
	if err != nil {
		return err
	}
	if err = s.h.RecordLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}
