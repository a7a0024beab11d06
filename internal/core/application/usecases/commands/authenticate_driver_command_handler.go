package commands

import (
	"context"
	"errors"
	"time"

	"github.com/silver-ring/printke-web/internal/core/domain/model/delivery"
	"github.com/silver-ring/printke-web/internal/core/ports"
	"github.com/silver-ring/printke-web/internal/pkg/errs"
)

// DriverSession is issued on a successful login.
type DriverSession struct {
	Token  string
	Driver *delivery.Driver
}

type AuthenticateDriverCommandHandler struct {
	uowFactory UoWFactory
	sessions   ports.SessionStore
	ttl        time.Duration
}

func NewAuthenticateDriverCommandHandler(uowFactory UoWFactory, sessions ports.SessionStore, ttl time.Duration) AuthenticateDriverCommandHandler {
	return AuthenticateDriverCommandHandler{uowFactory: uowFactory, sessions: sessions, ttl: ttl}
}

func (h AuthenticateDriverCommandHandler) Handle(ctx context.Context, cmd AuthenticateDriverCommand) (DriverSession, error) {
	if err := cmd.Validate(); err != nil {
		return DriverSession{}, err
	}

	driver, err := h.uowFactory.Create().DriverRepository().GetByPhone(ctx, cmd.Phone())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return DriverSession{}, ErrInvalidCredentials
	}
	if err != nil {
		return DriverSession{}, err
	}

	if !driver.CheckPassword(cmd.Password()) {
		return DriverSession{}, ErrInvalidCredentials
	}
	if !driver.IsActive() {
		return DriverSession{}, delivery.ErrDriverAccountInactive
	}

	token, err := h.sessions.Create(ctx, driver.ID(), h.ttl)
	if err != nil {
		return DriverSession{}, err
	}
	return DriverSession{Token: token, Driver: driver}, nil
}
