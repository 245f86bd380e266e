package service

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/promptpix/promptpix/internal/domain"
)

// ReceiptNotifier sends a purchase receipt email after credits are applied.
// Delivery is best effort: failures are logged and never propagated, the
// ledger write is the source of truth.
type ReceiptNotifier struct {
	apiKey    string
	fromEmail string
}

// NewReceiptNotifier creates a ReceiptNotifier. Returns nil when apiKey is
// empty, disabling receipts.
func NewReceiptNotifier(apiKey, fromEmail string) *ReceiptNotifier {
	if apiKey == "" {
		return nil
	}
	return &ReceiptNotifier{apiKey: apiKey, fromEmail: fromEmail}
}

// Send emails the user a receipt for the settled transaction.
func (n *ReceiptNotifier) Send(user *domain.User, txn *domain.Transaction) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("receipt panic recovered", "recover", r)
		}
	}()

	subject := fmt.Sprintf("Receipt: %s plan, %d credits", txn.Plan, txn.Credits)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour payment has been confirmed.\n\nPlan: %s\nCredits added: %d\nAmount: %d\nTransaction: %s\n\nThanks!",
		user.Name, txn.Plan, txn.Credits, txn.Amount, txn.ID,
	)

	from := mail.NewEmail("PromptPix", n.fromEmail)
	to := mail.NewEmail(user.Name, user.Email)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(n.apiKey)

	resp, err := client.Send(message)
	if err != nil {
		slog.Error("send receipt", "error", err, "transaction", txn.ID)
		return
	}
	if resp.StatusCode >= 400 {
		slog.Error("send receipt", "status", resp.StatusCode, "transaction", txn.ID)
		return
	}
	slog.Info("receipt sent", "transaction", txn.ID, "email", user.Email)
}
