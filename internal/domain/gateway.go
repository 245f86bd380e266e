package domain

import "context"

// CheckoutSession is the gateway-side payment object opened for a purchase.
type CheckoutSession struct {
	// Ref is the gateway's identifier for the session (order id, session id).
	Ref string
	// URL is the hosted checkout page to redirect the client to, when the
	// gateway provides one.
	URL string
	// Order is the raw gateway order object, for gateways whose client SDK
	// drives checkout from it.
	Order map[string]any
}

// PaymentGateway is the capability both payment processors implement. The
// billing service is gateway-agnostic; variants are constructed once at
// startup and injected.
type PaymentGateway interface {
	Name() string

	// CreateSession opens a remote payment object for the transaction.
	// It mutates no local state.
	CreateSession(ctx context.Context, txn *Transaction, plan Plan) (*CheckoutSession, error)

	// FetchSettlementStatus reports whether the payment behind ref has
	// settled on the gateway side.
	FetchSettlementStatus(ctx context.Context, ref string) (bool, error)
}
