package commands

import (
	"context"
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// ErrPhoneAlreadyRegistered is returned when a phone number already belongs to a driver.
var ErrPhoneAlreadyRegistered = errs.NewConflictError("driver", "phone number is already registered")

type CreateDriverCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewCreateDriverCommandHandler(uowFactory UoWFactory) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{uowFactory: uowFactory, clock: time.Now}
}

func (h CreateDriverCommandHandler) Handle(ctx context.Context, cmd CreateDriverCommand) (*delivery.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	driver, err := delivery.NewDriver(
		cmd.DriverID(),
		cmd.Name(),
		cmd.Phone(),
		cmd.Password(),
		cmd.VehicleType(),
		cmd.VehiclePlate(),
		h.clock(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = ensurePhoneFree(ctx, uow, cmd.Phone(), kernel.UUID{}); err != nil {
		return nil, err
	}
	if err = uow.DriverRepository().Add(ctx, driver); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return driver, nil
}

// ensurePhoneFree fails unless phone is unused or belongs to owner.
func ensurePhoneFree(ctx context.Context, uow UoW, phone kernel.Phone, owner kernel.UUID) error {
	existing, err := uow.DriverRepository().GetByPhone(ctx, phone)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID().IsEqual(owner) {
		return nil
	}
	return ErrPhoneAlreadyRegistered
}
