package gateway

import (
	"context"
	"fmt"

	rzpsdk "github.com/razorpay/razorpay-go"

	"github.com/promptpix/promptpix/internal/domain"
)

// RazorpayGateway implements domain.PaymentGateway against the Razorpay
// Orders API. The client's checkout widget drives payment from the raw
// order object; settlement is confirmed by re-fetching the order.
type RazorpayGateway struct {
	client   *rzpsdk.Client
	currency string
}

// NewRazorpayGateway creates a Razorpay-backed gateway.
func NewRazorpayGateway(keyID, keySecret, currency string) *RazorpayGateway {
	client := rzpsdk.NewClient(keyID, keySecret)
	client.SetTimeout(15)
	return &RazorpayGateway{client: client, currency: currency}
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// CreateSession opens a Razorpay order for the transaction. The order
// receipt carries the transaction id so the verify flow can map the order
// back to the ledger.
func (g *RazorpayGateway) CreateSession(ctx context.Context, txn *domain.Transaction, plan domain.Plan) (*domain.CheckoutSession, error) {
	if plan.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	data := map[string]interface{}{
		"amount":   plan.Amount * 100, // minor currency units
		"currency": g.currency,
		"receipt":  txn.ID,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", domain.ErrGatewayUnavailable, err)
	}

	ref, _ := order["id"].(string)
	if ref == "" {
		return nil, fmt.Errorf("%w: order response missing id", domain.ErrGatewayUnavailable)
	}

	return &domain.CheckoutSession{Ref: ref, Order: order}, nil
}

// FetchSettlementStatus re-fetches the order and reports whether Razorpay
// considers it paid.
func (g *RazorpayGateway) FetchSettlementStatus(ctx context.Context, ref string) (bool, error) {
	order, err := g.client.Order.Fetch(ref, nil, nil)
	if err != nil {
		return false, fmt.Errorf("%w: fetch order: %v", domain.ErrGatewayUnavailable, err)
	}

	status, _ := order["status"].(string)
	return status == "paid", nil
}
