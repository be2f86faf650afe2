package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"userhub/internal/platform/logger"
	"userhub/internal/token"
	"userhub/internal/user/service"
	"userhub/internal/user/store/memory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.New()
	users := service.New(memory.New())
	tokens := token.New(users, "test-secret", time.Hour)
	return NewRouter(NewUserHandler(users, log), NewTokenHandler(tokens, log), nil)
}

func createTom(t *testing.T, router http.Handler) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username":   "tom",
		"email":      "tom@test.com",
		"password":   "ilovesnakes",
		"first_name": "Tom",
		"last_name":  "Riddle",
	})
	req := httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating user, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return resp
}

func TestCreateUser(t *testing.T) {
	router := newTestRouter(t)
	resp := createTom(t, router)

	if resp["username"] != "tom" {
		t.Fatalf("expected username tom, got %v", resp["username"])
	}
	if resp["email"] != "tom@test.com" {
		t.Fatalf("expected email tom@test.com, got %v", resp["email"])
	}
	if resp["first_name"] != "Tom" || resp["last_name"] != "Riddle" {
		t.Fatalf("expected name Tom Riddle, got %v %v", resp["first_name"], resp["last_name"])
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must never appear in a response")
	}
	if id, ok := resp["id"].(string); !ok || id == "" {
		t.Fatalf("expected an assigned id, got %v", resp["id"])
	}
}

func TestGetUser(t *testing.T) {
	router := newTestRouter(t)
	created := createTom(t, router)
	id := created["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/users/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 getting user, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode get response: %v", err)
	}
	if resp["username"] != "tom" {
		t.Fatalf("expected username tom, got %v", resp["username"])
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must never appear in a response")
	}
}

func TestGetUserNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/users/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	router := newTestRouter(t)
	createTom(t, router)

	body, _ := json.Marshal(map[string]string{"username": "tom"})
	req := httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate username, got %d", rec.Code)
	}
}

func TestCreateUserInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid body, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from healthz, got %d", rec.Code)
	}
}
