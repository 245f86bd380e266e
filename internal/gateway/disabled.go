package gateway

import (
	"context"

	"github.com/promptpix/promptpix/internal/domain"
)

// Disabled is the gateway variant used when a processor's credential is
// absent at startup. Every operation fails fast with ErrGatewayUnavailable
// and no network call is attempted.
type Disabled struct {
	GatewayName string
}

func (d *Disabled) Name() string { return d.GatewayName }

func (d *Disabled) CreateSession(ctx context.Context, txn *domain.Transaction, plan domain.Plan) (*domain.CheckoutSession, error) {
	return nil, domain.ErrGatewayUnavailable
}

func (d *Disabled) FetchSettlementStatus(ctx context.Context, ref string) (bool, error) {
	return false, domain.ErrGatewayUnavailable
}

// Enabled reports whether gw is usable, letting handlers answer 503 without
// opening a session.
func Enabled(gw domain.PaymentGateway) bool {
	_, disabled := gw.(*Disabled)
	return !disabled
}
