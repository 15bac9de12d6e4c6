package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/pocket_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_wallet/internal/core/ports/services"
	"github.com/SscSPs/pocket_wallet/internal/utils"
)

// reconciliationService audits that every balance equals the sum of its movements.
type reconciliationService struct {
	BaseService
	accountRepo portsrepo.AccountReader
}

// NewReconciliationService creates the balance audit.
func NewReconciliationService(accountRepo portsrepo.AccountReader) portssvc.ReconciliationSvc {
	return &reconciliationService{accountRepo: accountRepo}
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// Run reports every drifting account. Each drift is logged at Error level.
func (s *reconciliationService) Run(ctx context.Context) ([]portsrepo.BalanceDrift, error) {
	drifts, err := s.accountRepo.ListBalanceDrifts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Balance reconciliation failed")
		return nil, fmt.Errorf("failed to list balance drifts: %w", err)
	}

	for _, d := range drifts {
		s.GetLogger(ctx).Error("Balance drift detected",
			slog.String("account_id", d.AccountID),
			slog.String("balance", utils.FormatMoney(d.Balance)),
			slog.String("movement_total", utils.FormatMoney(d.MovementTotal)))
	}
	s.LogInfo(ctx, "Balance reconciliation finished", slog.Int("drifts", len(drifts)))
	return drifts, nil
}
