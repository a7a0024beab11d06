package http

import (
	"context"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

func uuidParam(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// GetPricing handles GET /api/pricing. With ?quantity= it also quotes the
// order total for ?city=.
func (s *Server) GetPricing(c echo.Context) error {
	var quantity *int
	if raw := c.QueryParam("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("quantity", err)
		}
		quantity = &q
	}

	res, err := s.h.GetPricing.Handle(c.Request().Context(), queries.NewGetPricingQuery(quantity, c.QueryParam("city")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPricing(res))
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(commands.OrderDraft{
		OrderID:      kernel.NewUUID(),
		Number:       kernel.NewOrderNumber(s.now()),
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		Street:       req.DeliveryAddress,
		City:         req.City,
		Quantity:     req.Quantity,
		Artifacts: order.Artifacts{
			FrontImage: req.FrontImage,
			BackImage:  req.BackImage,
			Document:   req.DocumentPath,
		},
		Notes: req.Notes,
	})
	if err != nil {
		return err
	}

	res, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID:     res.OrderID.String(),
		OrderNumber: res.OrderNumber.String(),
		Status:      order.Pending.String(),
		Quote:       toQuote(res.Quote),
	})
}

func (s *Server) getOrder(ctx context.Context, number string) (queries.GetOrderQueryResponse, error) {
	query, err := queries.NewGetOrderQuery(number)
	if err != nil {
		return queries.GetOrderQueryResponse{}, err
	}
	return s.h.GetOrder.Handle(ctx, query)
}

// GetOrder handles GET /api/orders/:number.
func (s *Server) GetOrder(c echo.Context) error {
	view, err := s.getOrder(c.Request().Context(), c.Param("number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(view))
}

// DownloadDocument handles GET /api/orders/:number/document and streams the
// first item's printable document.
func (s *Server) DownloadDocument(c echo.Context) error {
	ctx := c.Request().Context()
	view, err := s.getOrder(ctx, c.Param("number"))
	if err != nil {
		return err
	}

	var doc string
	for _, it := range view.Items {
		if it.DocumentPath != nil && strings.TrimSpace(*it.DocumentPath) != "" {
			doc = *it.DocumentPath
			break
		}
	}
	if doc == "" {
		return errs.NewObjectNotFoundError("document", view.Number)
	}

	rc, err := s.documents.Open(ctx, doc)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+view.Number+path.Ext(doc)+`"`)
	return c.Stream(http.StatusOK, contentType(doc), rc)
}

func contentType(doc string) string {
	switch strings.ToLower(path.Ext(doc)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return echo.MIMEOctetStream
	}
}

// GetOrderPayments handles GET /api/orders/:number/payments.
func (s *Server) GetOrderPayments(c echo.Context) error {
	query, err := queries.NewGetOrderPaymentsQuery(c.Param("number"))
	if err != nil {
		return err
	}
	res, err := s.h.GetOrderPayments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderPayments(res))
}
