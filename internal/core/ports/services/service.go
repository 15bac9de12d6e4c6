package services

import (
	"context"

	"github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Transfer       TransferSvcFacade
	Auth           AuthSvcFacade
	Notifications  NotificationDispatcher
	Reconciliation ReconciliationSvc
}

// ReconciliationSvc checks the balance audit property across the store.
type ReconciliationSvc interface {
	Run(ctx context.Context) ([]repositories.BalanceDrift, error)
}
