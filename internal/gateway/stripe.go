package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/promptpix/promptpix/internal/domain"
)

// StripeGateway implements domain.PaymentGateway against Stripe Checkout.
// The client is redirected to the hosted session URL; settlement is
// confirmed by re-fetching the session rather than trusting the redirect.
type StripeGateway struct {
	api      *client.API
	currency string
	origin   string
}

// NewStripeGateway creates a Stripe-backed gateway. origin is the front-end
// base URL the checkout session redirects back to.
func NewStripeGateway(secretKey, currency, origin string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, stripe.NewBackends(&http.Client{Timeout: 15 * time.Second}))
	return &StripeGateway{api: api, currency: currency, origin: origin}
}

func (g *StripeGateway) Name() string { return "stripe" }

// CreateSession opens a Stripe checkout session for the transaction. The
// redirect URLs carry the transaction id so the verify flow can resolve it.
func (g *StripeGateway) CreateSession(ctx context.Context, txn *domain.Transaction, plan domain.Plan) (*domain.CheckoutSession, error) {
	if plan.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(fmt.Sprintf("%s/verify?success=true&transactionId=%s", g.origin, txn.ID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/verify?success=false&transactionId=%s", g.origin, txn.ID)),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(g.currency)),
					UnitAmount: stripe.Int64(int64(plan.Amount) * 100), // minor currency units
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Credit Purchase"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", domain.ErrGatewayUnavailable, err)
	}

	return &domain.CheckoutSession{Ref: session.ID, URL: session.URL}, nil
}

// FetchSettlementStatus re-fetches the checkout session and reports whether
// Stripe considers it paid.
func (g *StripeGateway) FetchSettlementStatus(ctx context.Context, ref string) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.Get(ref, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("%w: fetch checkout session: %v", domain.ErrGatewayUnavailable, err)
	}

	return session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
