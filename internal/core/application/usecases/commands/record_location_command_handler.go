package commands

import (
	"context"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// RecordLocationCommandHandler appends a fix to the delivery's history and
// moves the driver's last known position. Rejected fixes write nothing.
type RecordLocationCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	clock      Clock
}

func NewRecordLocationCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) RecordLocationCommandHandler {
	return RecordLocationCommandHandler{uowFactory: uowFactory, publisher: publisher, clock: time.Now}
}

func (h RecordLocationCommandHandler) Handle(ctx context.Context, cmd RecordLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}
	driver, err := uow.DriverRepository().GetForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	fix, err := d.RecordLocation(driver, kernel.NewUUID(), cmd.Location(), cmd.Accuracy(), cmd.Speed(), h.clock())
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().AppendLocation(ctx, fix); err != nil {
		return err
	}
	if err = uow.DriverRepository().Update(ctx, driver); err != nil {
		return err
	}
	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	return commitAndPublish(ctx, uow, h.publisher)
}
