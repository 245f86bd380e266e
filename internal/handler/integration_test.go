package handler_test

import (
	"net/http"
	"testing"
)

// TestIntegration_PurchaseAndGenerateFlow walks the whole user journey:
// register, buy a credit bundle, verify the payment, spend the credits.
func TestIntegration_PurchaseAndGenerateFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	// 1. Register and confirm the signup grant.
	token := env.register(t, "Journey", "journey@example.com")
	if got := env.credits(t, token); got != 5 {
		t.Fatalf("expected starting balance 5, got %d", got)
	}

	// 2. Login again; the fresh credential works too.
	status, body := env.postJSON(t, "/login", "", map[string]string{
		"email": "journey@example.com", "password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%v)", status, body)
	}
	token, _ = body["token"].(string)

	// 3. Buy the Business plan through Razorpay.
	status, body = env.postJSON(t, "/pay/razorpay", token, map[string]string{"planId": "Business"})
	if status != http.StatusOK {
		t.Fatalf("pay: expected 200, got %d (%v)", status, body)
	}
	order, _ := body["order"].(map[string]any)
	orderID, _ := order["id"].(string)

	// 4. Payment settles on the gateway; verify credits the ledger once.
	env.razorpay.paid[orderID] = true
	for i := 0; i < 3; i++ {
		status, body = env.postJSON(t, "/pay/razorpay/verify", token, map[string]string{"razorpay_order_id": orderID})
		if status != http.StatusOK {
			t.Fatalf("verify %d: expected 200, got %d (%v)", i, status, body)
		}
		assertSuccess(t, body)
	}
	if got := env.credits(t, token); got != 5005 {
		t.Fatalf("expected balance 5005, got %d", got)
	}

	// 5. Generate an image; the cost comes off the balance.
	status, body = env.postJSON(t, "/generate", token, map[string]string{"prompt": "a mountain range"})
	if status != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d (%v)", status, body)
	}
	if balance, _ := body["creditBalance"].(float64); int(balance) != 5004 {
		t.Fatalf("expected balance 5004, got %v", body["creditBalance"])
	}
}
