package commands

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
)

type UpdateDriverCommandHandler struct {
	uowFactory UoWFactory
}

func NewUpdateDriverCommandHandler(uowFactory UoWFactory) UpdateDriverCommandHandler {
	return UpdateDriverCommandHandler{uowFactory: uowFactory}
}

func (h UpdateDriverCommandHandler) Handle(ctx context.Context, cmd UpdateDriverCommand) (*delivery.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driver, err := uow.DriverRepository().GetForUpdate(ctx, cmd.DriverID())
	if err != nil {
		return nil, err
	}

	changes := cmd.Changes()
	if changes.Phone != nil {
		if err = ensurePhoneFree(ctx, uow, *changes.Phone, driver.ID()); err != nil {
			return nil, err
		}
	}
	if err = driver.Update(changes); err != nil {
		return nil, err
	}

	if err = uow.DriverRepository().Update(ctx, driver); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return driver, nil
}
