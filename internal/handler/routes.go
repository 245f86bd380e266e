package handler

import (
	"net/http"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	billing *service.BillingService,
	generation *service.GenerationService,
	limiter *service.TokenBucket,
	razorpay domain.PaymentGateway,
	stripe domain.PaymentGateway,
) {
	authHandler := NewAuthHandler(auth, billing)
	paymentHandler := NewPaymentHandler(billing, razorpay, stripe)
	generateHandler := NewGenerateHandler(generation, limiter)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /register", authHandler.HandleRegister)
	mux.HandleFunc("POST /login", authHandler.HandleLogin)

	protected := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(auth, fn)
	}

	mux.Handle("POST /credits", protected(authHandler.HandleCredits))

	mux.Handle("POST /pay/razorpay", protected(paymentHandler.HandlePayRazorpay))
	mux.Handle("POST /pay/razorpay/verify", protected(paymentHandler.HandleVerifyRazorpay))
	mux.Handle("POST /pay/stripe", protected(paymentHandler.HandlePayStripe))
	mux.Handle("POST /pay/stripe/verify", protected(paymentHandler.HandleVerifyStripe))

	mux.Handle("POST /generate", protected(generateHandler.HandleGenerate))
	mux.Handle("GET /generations", protected(generateHandler.HandleHistory))
	mux.Handle("GET /images/{key}", protected(generateHandler.HandleImage))
}
