package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadapter "github.com/silver-ring/printke-web/internal/adapters/in/http"
	"github.com/silver-ring/printke-web/internal/adapters/in/ws"
	"github.com/silver-ring/printke-web/internal/adapters/out/kafka"
	"github.com/silver-ring/printke-web/internal/adapters/out/mpesa"
	"github.com/silver-ring/printke-web/internal/adapters/out/postgres"
	"github.com/silver-ring/printke-web/internal/adapters/out/printer"
	"github.com/silver-ring/printke-web/internal/adapters/out/publisher"
	"github.com/silver-ring/printke-web/internal/adapters/out/redis"
	"github.com/silver-ring/printke-web/internal/adapters/out/storage"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/commands"
	"github.com/silver-ring/printke-web/internal/core/application/usecases/queries"
	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/order"
	"github.com/silver-ring/printke-web/internal/core/ports"
	"github.com/silver-ring/printke-web/internal/jobs"
	"github.com/silver-ring/printke-web/internal/metrics"
	"github.com/silver-ring/printke-web/internal/realtime"
)

// CompositionRoot owns every adapter of the process and builds the use case
// handlers on top of them.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *zap.Logger

	registry  *prometheus.Registry
	collector *metrics.Collector
	hub       *realtime.Hub
	publisher ports.EventPublisher
	mirror    *kafka.Mirror
	gateway   ports.PaymentGateway
	backend   ports.PrintBackend
	documents *storage.FileStore
	redis     *goredis.Client
	sessions  ports.SessionStore
	prices    order.PriceList
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		registry:   prometheus.NewRegistry(),
		prices:     order.DefaultPriceList(),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.collector = metrics.New(c.registry)

	if err := c.initOutbound(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *CompositionRoot) initOutbound(ctx context.Context) error {
	mode, err := mpesa.ParseMode(c.cfg.Payments.GatewayMode)
	if err != nil {
		return err
	}
	c.gateway = mpesa.NewMockGateway(mode, c.cfg.Payments.SettleAfter, c.logger)

	var backend ports.PrintBackend
	switch c.cfg.Printing.Backend {
	case printer.CupsBackendName:
		backend, err = printer.NewCupsBackend(c.cfg.Printing.PrinterName, c.logger,
			printer.WithDuplex(c.cfg.Printing.Duplex))
		if err != nil {
			return err
		}
	default:
		backend = printer.NewMockBackend(c.logger)
	}
	c.backend = metrics.InstrumentPrintBackend(backend, c.collector)

	c.documents, err = storage.NewFileStore(c.cfg.Printing.DocumentRoot)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}

	c.redis, err = redis.NewClient(ctx, c.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	c.sessions = redis.NewSessionStore(c.redis)

	c.hub = realtime.NewHub(c.logger,
		realtime.WithSnapshots(c.trackingSnapshot),
		realtime.WithMetrics(c.collector),
	)
	sinks := []ports.EventPublisher{c.hub, c.collector.Events()}
	if c.cfg.KafkaHost != "" {
		w, err := kafka.NewWriter(c.cfg.KafkaHost, c.cfg.KafkaOrderChangedTopic)
		if err != nil {
			return err
		}
		c.mirror = kafka.NewMirror(w, c.cfg.KafkaWriteTimeout, c.collector, c.logger)
		sinks = append(sinks, c.mirror)
	}
	c.publisher = publisher.NewFanout(sinks...)
	return nil
}

func (c *CompositionRoot) trackingSnapshot(ctx context.Context, orderNumber string) (events.Event, error) {
	q, err := queries.NewGetTrackingSnapshotQuery(orderNumber)
	if err != nil {
		return events.Event{}, err
	}
	return c.CreateGetTrackingSnapshotQueryHandler().Handle(ctx, q)
}

// Close releases the adapters in reverse order of creation.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.mirror != nil {
		errs = append(errs, c.mirror.Close())
	}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.documents != nil {
		errs = append(errs, c.documents.Close())
	}
	return errors.Join(errs...)
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.prices)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.uow(), c.publisher)
}

func (c *CompositionRoot) CreateDispatchPrintCommandHandler() commands.DispatchPrintCommandHandler {
	return commands.NewDispatchPrintCommandHandler(c.uow(), c.backend, c.documents, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCompletePrintJobsCommandHandler() commands.CompletePrintJobsCommandHandler {
	return commands.NewCompletePrintJobsCommandHandler(c.uow(), c.backend, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateInitiatePaymentCommandHandler() commands.InitiatePaymentCommandHandler {
	return commands.NewInitiatePaymentCommandHandler(c.uow(), c.gateway, c.publisher,
		c.CreateDispatchPrintCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateReconcilePaymentCommandHandler() commands.ReconcilePaymentCommandHandler {
	return commands.NewReconcilePaymentCommandHandler(c.uow(), c.publisher,
		c.CreateDispatchPrintCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateQueryPaymentStatusCommandHandler() commands.QueryPaymentStatusCommandHandler {
	return commands.NewQueryPaymentStatusCommandHandler(c.uow(), c.gateway, c.publisher,
		c.CreateDispatchPrintCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreatePollPendingPaymentsCommandHandler() commands.PollPendingPaymentsCommandHandler {
	return commands.NewPollPendingPaymentsCommandHandler(c.uow(), c.gateway, c.publisher,
		c.CreateDispatchPrintCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	return commands.NewAssignDeliveryCommandHandler(c.uow(), c.publisher)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.uow(), c.publisher)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uow(), c.publisher)
}

func (c *CompositionRoot) CreateRecordLocationCommandHandler() commands.RecordLocationCommandHandler {
	return commands.NewRecordLocationCommandHandler(c.uow(), c.publisher)
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateUpdateDriverCommandHandler() commands.UpdateDriverCommandHandler {
	return commands.NewUpdateDriverCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateAuthenticateDriverCommandHandler() commands.AuthenticateDriverCommandHandler {
	return commands.NewAuthenticateDriverCommandHandler(c.uow(), c.sessions, c.cfg.SessionTTL)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderPaymentsQueryHandler() queries.GetOrderPaymentsQueryHandler {
	return queries.NewGetOrderPaymentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPricingQueryHandler() queries.GetPricingQueryHandler {
	return queries.NewGetPricingQueryHandler(c.prices)
}

func (c *CompositionRoot) CreateGetPrintQueueQueryHandler() queries.GetPrintQueueQueryHandler {
	return queries.NewGetPrintQueueQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTrackingSnapshotQueryHandler() queries.GetTrackingSnapshotQueryHandler {
	return queries.NewGetTrackingSnapshotQueryHandler(c.gormDB, nil)
}

func (c *CompositionRoot) CreateDriverQueryHandler() queries.DriverQueryHandler {
	return queries.NewDriverQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateDeliveryQueryHandler() queries.DeliveryQueryHandler {
	return queries.NewDeliveryQueryHandler(c.gormDB)
}

// NewEcho builds the HTTP surface including the tracking websocket and the
// scrape endpoint.
func (c *CompositionRoot) NewEcho() *echo.Echo {
	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:        c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatus:  c.CreateUpdateOrderStatusCommandHandler(),
		InitiatePayment:    c.CreateInitiatePaymentCommandHandler(),
		ReconcilePayment:   c.CreateReconcilePaymentCommandHandler(),
		PaymentStatus:      c.CreateQueryPaymentStatusCommandHandler(),
		DispatchPrint:      c.CreateDispatchPrintCommandHandler(),
		AssignDelivery:     c.CreateAssignDeliveryCommandHandler(),
		StartDelivery:      c.CreateStartDeliveryCommandHandler(),
		CompleteDelivery:   c.CreateCompleteDeliveryCommandHandler(),
		RecordLocation:     c.CreateRecordLocationCommandHandler(),
		CreateDriver:       c.CreateCreateDriverCommandHandler(),
		UpdateDriver:       c.CreateUpdateDriverCommandHandler(),
		AuthenticateDriver: c.CreateAuthenticateDriverCommandHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetOrderPayments:   c.CreateGetOrderPaymentsQueryHandler(),
		GetPricing:         c.CreateGetPricingQueryHandler(),
		GetPrintQueue:      c.CreateGetPrintQueueQueryHandler(),
		Drivers:            c.CreateDriverQueryHandler(),
		Deliveries:         c.CreateDeliveryQueryHandler(),
	}, c.documents, c.sessions, c.logger, httpadapter.WithMetrics(c.collector))

	tracking := ws.NewHandler(c.hub, ws.Config{
		WriteWait:      c.cfg.Tracking.WriteWait,
		IdleTimeout:    c.cfg.Tracking.IdleTimeout,
		AllowedOrigins: c.cfg.Tracking.AllowedOrigins,
	}, c.logger)

	return server.NewEcho(httpadapter.Routes{
		AdminAPIKey: c.cfg.AdminAPIKey,
		Tracking:    tracking.Track,
		Metrics:     c.metricsHandler(),
	})
}

func (c *CompositionRoot) metricsHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *CompositionRoot) NewJobManager() (*jobs.JobManager, error) {
	pollCmd, err := commands.NewPollPendingPaymentsCommand(
		c.cfg.Payments.PollAfter, c.cfg.Payments.PollAttempts, c.cfg.Payments.PollBatch)
	if err != nil {
		return nil, err
	}
	printCmd, err := commands.NewCompletePrintJobsCommand(c.cfg.Printing.StatusBatch)
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(
		jobs.NewPaymentPollJob(c.cfg.Payments.PollSchedule,
			c.CreatePollPendingPaymentsCommandHandler(), pollCmd, c.collector, c.logger),
		jobs.NewPrintStatusJob(c.cfg.Printing.StatusSchedule,
			c.CreateCompletePrintJobsCommandHandler(), printCmd, c.collector, c.logger),
	), nil
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
