package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireBearer_ValidToken(t *testing.T) {
	handler := RequireBearer("secret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireBearer_MissingToken(t *testing.T) {
	handler := RequireBearer("secret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireBearer_WrongToken(t *testing.T) {
	handler := RequireBearer("secret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireBearer_MalformedHeader(t *testing.T) {
	handler := RequireBearer("secret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Basic secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("malformed header: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireBearer_NoSecretDisablesEndpoint(t *testing.T) {
	handler := RequireBearer("")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("no secret: status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRequireAPIKey_OpenWithoutKeys(t *testing.T) {
	handler := RequireAPIKey(nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("no keys configured: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireAPIKey_Header(t *testing.T) {
	handler := RequireAPIKey([]string{"key-a", "key-b"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "key-b")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("valid key: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireAPIKey_Bearer(t *testing.T) {
	handler := RequireAPIKey([]string{"key-a"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer key-a")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("valid bearer key: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireAPIKey_WrongKey(t *testing.T) {
	handler := RequireAPIKey([]string{"key-a"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "nope")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireAPIKey_MissingKey(t *testing.T) {
	handler := RequireAPIKey([]string{"key-a"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
