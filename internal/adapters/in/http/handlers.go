package http

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
)

// The interfaces below are satisfied by the command and query handlers.
type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error)
	}
	OrderStatusUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (order.Status, error)
	}
	PaymentInitiator interface {
		Handle(ctx context.Context, cmd commands.InitiatePaymentCommand) (commands.InitiatePaymentResult, error)
	}
	PaymentReconciler interface {
		Handle(ctx context.Context, cmd commands.ReconcilePaymentCommand) (commands.ReconcileResult, error)
	}
	PaymentStatusReader interface {
		Handle(ctx context.Context, cmd commands.QueryPaymentStatusCommand) (commands.PaymentStatusResult, error)
	}
	PrintDispatcher interface {
		Handle(ctx context.Context, cmd commands.DispatchPrintCommand) (commands.DispatchPrintResult, error)
	}
	DeliveryAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignDeliveryCommand) (kernel.UUID, error)
	}
	DeliveryStarter interface {
		Handle(ctx context.Context, cmd commands.StartDeliveryCommand) error
	}
	DeliveryCompleter interface {
		Handle(ctx context.Context, cmd commands.CompleteDeliveryCommand) error
	}
	LocationRecorder interface {
		Handle(ctx context.Context, cmd commands.RecordLocationCommand) error
	}
	DriverCreator interface {
		Handle(ctx context.Context, cmd commands.CreateDriverCommand) (*delivery.Driver, error)
	}
	DriverUpdater interface {
		Handle(ctx context.Context, cmd commands.UpdateDriverCommand) (*delivery.Driver, error)
	}
	DriverAuthenticator interface {
		Handle(ctx context.Context, cmd commands.AuthenticateDriverCommand) (commands.DriverSession, error)
	}

	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	OrderPaymentsReader interface {
		Handle(ctx context.Context, query queries.GetOrderPaymentsQuery) (queries.GetOrderPaymentsQueryResponse, error)
	}
	PricingReader interface {
		Handle(ctx context.Context, query queries.GetPricingQuery) (queries.GetPricingQueryResponse, error)
	}
	PrintQueueReader interface {
		Handle(ctx context.Context, query queries.GetPrintQueueQuery) ([]queries.PrintQueueEntry, error)
	}
	DriverReader interface {
		List(ctx context.Context, query queries.ListDriversQuery) ([]queries.DriverView, error)
		Get(ctx context.Context, query queries.GetDriverQuery) (queries.DriverView, error)
	}
	DeliveryReader interface {
		ForDriver(ctx context.Context, query queries.GetDriverDeliveriesQuery) ([]queries.DeliveryView, error)
		Active(ctx context.Context, query queries.GetActiveDeliveriesQuery) ([]queries.DeliveryView, error)
		Get(ctx context.Context, query queries.GetDeliveryQuery) (queries.DeliveryDetail, error)
	}
)

// Handlers groups the use cases the server exposes.
type Handlers struct {
	CreateOrder        OrderCreator
	UpdateOrderStatus  OrderStatusUpdater
	InitiatePayment    PaymentInitiator
	ReconcilePayment   PaymentReconciler
	PaymentStatus      PaymentStatusReader
	DispatchPrint      PrintDispatcher
	AssignDelivery     DeliveryAssigner
	StartDelivery      DeliveryStarter
	CompleteDelivery   DeliveryCompleter
	RecordLocation     LocationRecorder
	CreateDriver       DriverCreator
	UpdateDriver       DriverUpdater
	AuthenticateDriver DriverAuthenticator

	GetOrder         OrderReader
	GetOrderPayments OrderPaymentsReader
	GetPricing       PricingReader
	GetPrintQueue    PrintQueueReader
	Drivers          DriverReader
	Deliveries       DeliveryReader
}
