package handler_test

import (
	"net/http"
	"testing"
)

func TestHandleRegister(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.postJSON(t, "/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	assertSuccess(t, body)

	user, _ := body["user"].(map[string]any)
	if user["name"] != "Alice" {
		t.Fatalf("expected user.name Alice, got %v", body)
	}
	if token, _ := body["token"].(string); token == "" {
		t.Fatal("expected a token")
	}
}

func TestHandleRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.postJSON(t, "/register", "", map[string]string{
		"email": "noname@example.com", "password": "password123",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%v)", status, body)
	}
	assertFailure(t, body)
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "First", "dup@example.com")

	status, body := env.postJSON(t, "/register", "", map[string]string{
		"name": "Second", "email": "dup@example.com", "password": "password456",
	})
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%v)", status, body)
	}
	assertFailure(t, body)
}

func TestHandleLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "Bob", "bob@example.com")

	status, body := env.postJSON(t, "/login", "", map[string]string{
		"email": "bob@example.com", "password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	assertSuccess(t, body)

	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}

	// The issued credential must work on a protected route.
	if got := env.credits(t, token); got != 5 {
		t.Fatalf("expected signup balance 5, got %d", got)
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t, nil)
	env.register(t, "Carol", "carol@example.com")

	status, body := env.postJSON(t, "/login", "", map[string]string{
		"email": "carol@example.com", "password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (%v)", status, body)
	}
	assertFailure(t, body)
}

func TestHandleLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.postJSON(t, "/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (%v)", status, body)
	}
	assertFailure(t, body)
}

func TestHandleCredits_RequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.postJSON(t, "/credits", "", map[string]string{})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (%v)", status, body)
	}
	assertFailure(t, body)

	status, body = env.postJSON(t, "/credits", "not-a-valid-token", map[string]string{})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d (%v)", status, body)
	}
	assertFailure(t, body)
}
