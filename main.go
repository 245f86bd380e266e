package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/gateway"
	"github.com/promptpix/promptpix/internal/handler"
	"github.com/promptpix/promptpix/internal/provider"
	"github.com/promptpix/promptpix/internal/repository/sqlite"
	"github.com/promptpix/promptpix/internal/service"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, logOpts)))

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "promptpix.db")
	currency := envOrDefault("CURRENCY", "USD")
	appOrigin := envOrDefault("APP_ORIGIN", "http://localhost:5173")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if len(jwtSecret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
		os.Exit(1)
	}

	bcryptCost := 12
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			slog.Error("invalid BCRYPT_COST", "error", err)
			os.Exit(1)
		}
		if parsed < 4 || parsed > 14 {
			slog.Error("BCRYPT_COST must be between 4 and 14", "value", parsed)
			os.Exit(1)
		}
		bcryptCost = parsed
	}

	generationCost := 1
	if v := os.Getenv("GENERATION_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			slog.Error("GENERATION_COST must be a positive integer", "value", v)
			os.Exit(1)
		}
		generationCost = parsed
	}

	razorpayKeyID := os.Getenv("RAZORPAY_KEY_ID")
	razorpayKeySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if razorpayKeyID == "" || razorpayKeySecret == "" {
		slog.Error("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET environment variables are required")
		os.Exit(1)
	}

	clipdropKey := os.Getenv("CLIPDROP_API_KEY")
	if clipdropKey == "" {
		slog.Error("CLIPDROP_API_KEY environment variable is required")
		os.Exit(1)
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	razorpayGW := domain.PaymentGateway(gateway.NewRazorpayGateway(razorpayKeyID, razorpayKeySecret, currency))

	// Stripe is feature-flagged: no credential, no gateway.
	stripeGW := domain.PaymentGateway(&gateway.Disabled{GatewayName: "stripe"})
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		stripeGW = gateway.NewStripeGateway(key, currency, appOrigin)
		slog.Info("stripe payments enabled")
	} else {
		slog.Warn("stripe payments disabled, STRIPE_SECRET_KEY not set")
	}

	receipts := service.NewReceiptNotifier(os.Getenv("SENDGRID_API_KEY"), envOrDefault("RECEIPT_FROM_EMAIL", "billing@promptpix.app"))
	if receipts == nil {
		slog.Warn("receipt emails disabled, SENDGRID_API_KEY not set")
	}

	authService := service.NewAuthService(db.Users(), jwtSecret, bcryptCost)
	billingService := service.NewBillingService(db.Users(), db.Transactions(), receipts)
	generationService := service.NewGenerationService(
		db.Users(), db.Generations(), db.FileStore(),
		provider.NewClipdropClient(clipdropKey), generationCost,
	)

	// One generation every 10s sustained, bursts of 5, per user.
	limiter := service.NewTokenBucket(0.1, 5)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, billingService, generationService, limiter, razorpayGW, stripeGW)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
