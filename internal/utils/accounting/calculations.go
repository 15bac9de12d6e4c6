package accounting

import (
	"fmt"

	"github.com/SscSPs/pocket_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the sign convention of a movement kind to a positive magnitude.
// Outflows (debit, transfer-out) are negative; inflows are positive.
func SignedAmount(kind domain.MovementKind, magnitude decimal.Decimal) (decimal.Decimal, error) {
	if !kind.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnknownMovementKind, kind)
	}
	if !magnitude.IsPositive() {
		return decimal.Zero, fmt.Errorf("movement magnitude must be positive, got %s", magnitude.String())
	}
	if kind.IsOutflow() {
		return magnitude.Neg(), nil
	}
	return magnitude, nil
}

// ValidateTransferLegs checks that the two legs of a transfer are a transfer-out and a
// transfer-in of equal and opposite amount sharing one transfer ID.
func ValidateTransferLegs(out, in domain.Movement) error {
	if out.Kind != domain.MovementTransferOut || in.Kind != domain.MovementTransferIn {
		return fmt.Errorf("transfer legs must be %s and %s, got %s and %s", domain.MovementTransferOut, domain.MovementTransferIn, out.Kind, in.Kind)
	}
	if out.TransferID == "" || out.TransferID != in.TransferID {
		return fmt.Errorf("transfer legs must share a transfer ID, got %q and %q", out.TransferID, in.TransferID)
	}
	if !out.Amount.Add(in.Amount).IsZero() {
		return fmt.Errorf("transfer legs do not balance: %s + %s != 0", out.Amount.String(), in.Amount.String())
	}
	if err := out.Validate(); err != nil {
		return err
	}
	return in.Validate()
}
