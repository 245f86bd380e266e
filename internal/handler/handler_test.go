package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/handler"
	"github.com/promptpix/promptpix/internal/repository/sqlite"
	"github.com/promptpix/promptpix/internal/service"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

// fakeGateway implements domain.PaymentGateway with test-controlled settlement.
type fakeGateway struct {
	name      string
	createErr error
	fetchErr  error
	paid      map[string]bool
}

func newFakeGateway(name string) *fakeGateway {
	return &fakeGateway{name: name, paid: make(map[string]bool)}
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) CreateSession(ctx context.Context, txn *domain.Transaction, plan domain.Plan) (*domain.CheckoutSession, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	ref := "order_" + txn.ID
	return &domain.CheckoutSession{
		Ref:   ref,
		URL:   "https://gateway.test/checkout/" + ref,
		Order: map[string]any{"id": ref, "amount": plan.Amount * 100, "receipt": txn.ID},
	}, nil
}

func (g *fakeGateway) FetchSettlementStatus(ctx context.Context, ref string) (bool, error) {
	if g.fetchErr != nil {
		return false, g.fetchErr
	}
	return g.paid[ref], nil
}

// fakeProvider implements domain.ImageProvider.
type fakeProvider struct {
	image []byte
	err   error
}

func (p *fakeProvider) TextToImage(ctx context.Context, prompt string) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.image, nil
}

type testEnv struct {
	srv      *httptest.Server
	db       *sqlite.DB
	razorpay *fakeGateway
	stripe   domain.PaymentGateway
	provider *fakeProvider
}

// newTestEnv wires real services over a temp database with fake external
// collaborators. stripe may be nil, in which case a fake enabled gateway is
// used; pass a *gateway.Disabled to exercise the feature flag.
func newTestEnv(t *testing.T, stripe domain.PaymentGateway) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	razorpay := newFakeGateway("razorpay")
	if stripe == nil {
		stripe = newFakeGateway("stripe")
	}
	prov := &fakeProvider{image: []byte("fake-png-bytes")}

	auth := service.NewAuthService(db.Users(), testJWTSecret, 4)
	billing := service.NewBillingService(db.Users(), db.Transactions(), nil)
	generation := service.NewGenerationService(db.Users(), db.Generations(), db.FileStore(), prov, 1)
	limiter := service.NewTokenBucket(0.0001, 3)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, billing, generation, limiter, razorpay, stripe)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, db: db, razorpay: razorpay, stripe: stripe, provider: prov}
}

// postJSON sends a JSON POST and decodes the JSON response body.
func (e *testEnv) postJSON(t *testing.T, path, token string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response from %s: %v", path, err)
	}
	return resp.StatusCode, decoded
}

// register creates an account and returns its token.
func (e *testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	status, body := e.postJSON(t, "/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", email, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response", email)
	}
	return token
}

// credits returns the authenticated user's balance via the API.
func (e *testEnv) credits(t *testing.T, token string) int {
	t.Helper()
	status, body := e.postJSON(t, "/credits", token, map[string]string{})
	if status != http.StatusOK {
		t.Fatalf("credits: expected 200, got %d (%v)", status, body)
	}
	credits, ok := body["credits"].(float64)
	if !ok {
		t.Fatalf("credits: missing credits field in %v", body)
	}
	return int(credits)
}

func (e *testEnv) countTransactions(t *testing.T) int {
	t.Helper()
	var count int
	if err := e.db.SqlDB.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return count
}

func assertSuccess(t *testing.T, body map[string]any) {
	t.Helper()
	if success, _ := body["success"].(bool); !success {
		t.Fatalf("expected success response, got %v", body)
	}
}

func assertFailure(t *testing.T, body map[string]any) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected failure envelope, got %v", body)
	}
	if _, ok := body["message"].(string); !ok {
		t.Fatalf("failure envelope missing message: %v", body)
	}
}
