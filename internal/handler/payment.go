package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/gateway"
	"github.com/promptpix/promptpix/internal/service"
)

// PaymentHandler handles purchase initiation and settlement verification
// for both gateway variants.
type PaymentHandler struct {
	billing  *service.BillingService
	razorpay domain.PaymentGateway
	stripe   domain.PaymentGateway
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(billing *service.BillingService, razorpay, stripe domain.PaymentGateway) *PaymentHandler {
	return &PaymentHandler{billing: billing, razorpay: razorpay, stripe: stripe}
}

// HandlePayRazorpay opens a Razorpay order for a plan purchase.
// POST /pay/razorpay
// Request:  {"planId":"Basic"}
// Response: {"success":true,"order":{...}}
func (h *PaymentHandler) HandlePayRazorpay(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		PlanID string `json:"planId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, session, err := h.billing.Purchase(r.Context(), h.razorpay, user.ID, req.PlanID)
	if err != nil {
		h.writePurchaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   session.Order,
	})
}

// HandleVerifyRazorpay confirms a Razorpay payment and credits the ledger.
// The settlement status always comes from the gateway, never the client.
// POST /pay/razorpay/verify
// Request:  {"razorpay_order_id":"order_..."}
// Response: {"success":true,"message":"Credits added"}
func (h *PaymentHandler) HandleVerifyRazorpay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"razorpay_order_id"`
	}
	if err := readJSON(r, &req); err != nil || req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.billing.TransactionByGatewayRef(r.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		slog.Error("lookup transaction", "error", err, "order", req.OrderID)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	settled, err := h.razorpay.FetchSettlementStatus(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Payment gateway unavailable")
		return
	}

	h.reconcileAndRespond(w, r, txn.ID, settled)
}

// HandlePayStripe opens a Stripe checkout session for a plan purchase.
// Answers 503 when the Stripe credential was absent at startup.
// POST /pay/stripe
// Request:  {"planId":"Basic"}
// Response: {"success":true,"session_url":"https://..."}
func (h *PaymentHandler) HandlePayStripe(w http.ResponseWriter, r *http.Request) {
	if !gateway.Enabled(h.stripe) {
		writeError(w, http.StatusServiceUnavailable, "Stripe payments disabled")
		return
	}

	user := UserFromContext(r.Context())

	var req struct {
		PlanID string `json:"planId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, session, err := h.billing.Purchase(r.Context(), h.stripe, user.ID, req.PlanID)
	if err != nil {
		h.writePurchaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"session_url": session.URL,
	})
}

// HandleVerifyStripe confirms a Stripe payment and credits the ledger. The
// client's success flag only short-circuits a cancellation; a success claim
// is verified against the gateway before any credit is applied.
// POST /pay/stripe/verify
// Request:  {"transactionId":"...","success":"true"}
// Response: {"success":true,"message":"Credits added"}
func (h *PaymentHandler) HandleVerifyStripe(w http.ResponseWriter, r *http.Request) {
	if !gateway.Enabled(h.stripe) {
		writeError(w, http.StatusServiceUnavailable, "Stripe payments disabled")
		return
	}

	var req struct {
		TransactionID string `json:"transactionId"`
		Success       string `json:"success"`
	}
	if err := readJSON(r, &req); err != nil || req.TransactionID == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.billing.TransactionByID(r.Context(), req.TransactionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		slog.Error("lookup transaction", "error", err, "transaction", req.TransactionID)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	settled := false
	if req.Success == "true" {
		settled, err = h.stripe.FetchSettlementStatus(r.Context(), txn.GatewayRef)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusBadGateway, "Payment gateway unavailable")
			return
		}
	}

	h.reconcileAndRespond(w, r, txn.ID, settled)
}

func (h *PaymentHandler) reconcileAndRespond(w http.ResponseWriter, r *http.Request, txnID string, settled bool) {
	result, err := h.billing.Reconcile(r.Context(), txnID, settled)
	if err != nil {
		slog.Error("reconcile", "error", err, "transaction", txnID)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	switch result {
	case service.ResultCredited:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Credits added"})
	case service.ResultAlreadyCredited:
		// Duplicate confirmation: success-shaped, nothing mutated.
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Payment already verified"})
	case service.ResultNotSettled:
		writeError(w, http.StatusOK, "Payment failed")
	case service.ResultTransactionNotFound:
		writeError(w, http.StatusNotFound, "Transaction not found")
	}
}

func (h *PaymentHandler) writePurchaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "Plan not found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "Invalid amount")
	case errors.Is(err, domain.ErrGatewayUnavailable):
		writeError(w, http.StatusBadGateway, "Payment gateway unavailable")
	default:
		slog.Error("initiate purchase", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
