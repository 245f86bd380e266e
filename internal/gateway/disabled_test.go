package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/gateway"
)

// Compile-time checks that all variants satisfy the capability.
var (
	_ domain.PaymentGateway = (*gateway.RazorpayGateway)(nil)
	_ domain.PaymentGateway = (*gateway.StripeGateway)(nil)
	_ domain.PaymentGateway = (*gateway.Disabled)(nil)
)

func TestDisabled_FailsFast(t *testing.T) {
	gw := &gateway.Disabled{GatewayName: "stripe"}
	ctx := context.Background()

	if gw.Name() != "stripe" {
		t.Fatalf("expected name stripe, got %s", gw.Name())
	}

	plan, err := domain.ResolvePlan("Basic")
	if err != nil {
		t.Fatalf("ResolvePlan: %v", err)
	}

	_, err = gw.CreateSession(ctx, &domain.Transaction{ID: "txn-1"}, plan)
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}

	_, err = gw.FetchSettlementStatus(ctx, "ref-1")
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestEnabled(t *testing.T) {
	if gateway.Enabled(&gateway.Disabled{GatewayName: "stripe"}) {
		t.Fatal("disabled gateway must report not enabled")
	}
	if !gateway.Enabled(gateway.NewRazorpayGateway("key", "secret", "USD")) {
		t.Fatal("configured gateway must report enabled")
	}
}
