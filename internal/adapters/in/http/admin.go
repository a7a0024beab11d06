package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// UpdateOrderStatus handles PATCH /api/admin/orders/:number.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateOrderStatusCommand(c.Param("number"), req.Status, req.TrackingNumber, req.DeliveryNotes)
	if err != nil {
		return err
	}

	status, err := s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"order_number": cmd.OrderNumber().String(), "status": status.String()})
}

// DispatchPrint handles POST /api/admin/orders/:number/print.
func (s *Server) DispatchPrint(c echo.Context) error {
	ctx := c.Request().Context()
	view, err := s.getOrder(ctx, c.Param("number"))
	if err != nil {
		return err
	}
	cmd, err := commands.NewDispatchPrintCommand(view.ID)
	if err != nil {
		return err
	}

	res, err := s.h.DispatchPrint.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDispatch(res))
}

// AssignDelivery handles POST /api/admin/orders/:number/assign.
func (s *Server) AssignDelivery(c echo.Context) error {
	var req AssignDeliveryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("driver_id", err)
	}

	ctx := c.Request().Context()
	view, err := s.getOrder(ctx, c.Param("number"))
	if err != nil {
		return err
	}
	cmd, err := commands.NewAssignDeliveryCommand(view.ID, driverID, req.PickupAddress, req.Notes)
	if err != nil {
		return err
	}

	deliveryID, err := s.h.AssignDelivery.Handle(ctx, cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AssignDeliveryResponse{DeliveryID: deliveryID.String(), OrderNumber: view.Number})
}

// GetPrintQueue handles GET /api/admin/print-queue.
func (s *Server) GetPrintQueue(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("limit", err)
		}
		limit = n
	}
	query, err := queries.NewGetPrintQueueQuery(limit)
	if err != nil {
		return err
	}

	entries, err := s.h.GetPrintQueue.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrintQueue(entries))
}

// GetActiveDeliveries handles GET /api/admin/deliveries.
func (s *Server) GetActiveDeliveries(c echo.Context) error {
	views, err := s.h.Deliveries.Active(c.Request().Context(), queries.NewGetActiveDeliveriesQuery())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveries(views))
}

// ListDrivers handles GET /api/admin/drivers. ?active=true hides
// deactivated drivers.
func (s *Server) ListDrivers(c echo.Context) error {
	activeOnly := false
	if raw := c.QueryParam("active"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("active", err)
		}
		activeOnly = b
	}

	views, err := s.h.Drivers.List(c.Request().Context(), queries.NewListDriversQuery(activeOnly))
	if err != nil {
		return err
	}
	res := make([]DriverResponse, len(views))
	for i, v := range views {
		res[i] = toDriver(v)
	}
	return c.JSON(http.StatusOK, res)
}

// CreateDriver handles POST /api/admin/drivers.
func (s *Server) CreateDriver(c echo.Context) error {
	var req CreateDriverRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewCreateDriverCommand(kernel.NewUUID(), req.Name, req.Phone, req.Password, req.VehicleType, req.VehiclePlate)
	if err != nil {
		return err
	}

	d, err := s.h.CreateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fromDriver(d))
}

// UpdateDriver handles PATCH /api/admin/drivers/:id.
func (s *Server) UpdateDriver(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateDriverRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewUpdateDriverCommand(id, commands.DriverPatch{
		Name:         req.Name,
		Phone:        req.Phone,
		Password:     req.Password,
		VehicleType:  req.VehicleType,
		VehiclePlate: req.VehiclePlate,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return err
	}

	d, err := s.h.UpdateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromDriver(d))
}

// DeactivateDriver handles DELETE /api/admin/drivers/:id. Drivers are
// never removed because deliveries keep referring to them.
func (s *Server) DeactivateDriver(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeactivateDriverCommand(id)
	if err != nil {
		return err
	}
	if _, err = s.h.UpdateDriver.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
