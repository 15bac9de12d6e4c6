package services

import (
	"github.com/SscSPs/pocket_wallet/internal/core/ports"
	portsrepo "github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/platform/config"
)

// Collaborators are the outbound adapters the services talk to besides the store.
// Any of them may be nil.
type Collaborators struct {
	Push   ports.PushTransport
	Events ports.EventPublisher
	Cache  ports.AccountCache
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The dispatcher goes first; both mutating services hand their side effects to it.
	container.Notifications = NewNotificationDispatcher(deps.Push, deps.Events, DispatcherConfig{
		Workers:   cfg.NotificationWorkers,
		QueueSize: cfg.NotificationQueueSize,
		Timeout:   cfg.NotificationTimeout,
	})

	accountOpts := []AccountServiceOption{
		WithAccountNotifier(container.Notifications),
		WithInitialBalance(cfg.InitialBalance),
	}
	transferOpts := []TransferServiceOption{
		WithTransferNotifier(container.Notifications),
		WithMaxAttempts(cfg.TransferMaxAttempts),
	}
	if deps.Cache != nil {
		accountOpts = append(accountOpts, WithAccountCache(deps.Cache))
		transferOpts = append(transferOpts, WithTransferCache(deps.Cache))
	}

	container.Account = NewAccountService(repos.AccountRepo, accountOpts...)
	container.Transfer = NewTransferService(repos.AccountRepo, transferOpts...)
	container.Auth = NewAuthService(
		container.Account,
		NewTokenService(cfg),
		NewGoogleIDTokenService(cfg.GoogleClientID),
	)
	container.Reconciliation = NewReconciliationService(repos.AccountRepo)

	return container
}
