package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(keys []string, method, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	BearerAuthMiddleware(keys)(okHandler()).ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_NoKeys_PassThrough(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		if rr := serveAuth(keys, http.MethodPut, "/entities/speaker/a", ""); rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_PublicRoutesOpen(t *testing.T) {
	tests := []struct{ method, path string }{
		{http.MethodGet, "/entities/speaker"},
		{http.MethodGet, "/events/conf-26"},
		{http.MethodGet, "/orders/web"},
		{http.MethodPost, "/sessions"},
		{http.MethodPut, "/sessions/s-1/text"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/metrics"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			if rr := serveAuth([]string{"secret"}, tc.method, tc.path, ""); rr.Code != http.StatusOK {
				t.Errorf("got %d, want %d", rr.Code, http.StatusOK)
			}
		})
	}
}

func TestAuthMiddleware_CatalogWrites(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"missing header", http.MethodPut, "/entities/speaker/a", "", http.StatusUnauthorized},
		{"basic scheme", http.MethodDelete, "/events/conf-26", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"wrong key", http.MethodPost, "/entities/speaker/batch", "Bearer wrong-key", http.StatusUnauthorized},
		{"first key", http.MethodPut, "/orders/web", "Bearer key1", http.StatusOK},
		{"second key", http.MethodPost, "/orders/web/move", "Bearer key2", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := serveAuth([]string{"key1", "key2"}, tc.method, tc.path, tc.header)
			if rr.Code != tc.want {
				t.Fatalf("got %d, want %d", rr.Code, tc.want)
			}
			if tc.want != http.StatusUnauthorized {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorCodeUnauthorized)
			}
		})
	}
}

func TestKnownKey(t *testing.T) {
	keys := [][]byte{[]byte("alpha"), []byte("beta")}
	if !knownKey(keys, "beta") {
		t.Error("expected beta to match")
	}
	if knownKey(keys, "alph") || knownKey(keys, "") {
		t.Error("expected partial and empty tokens to be rejected")
	}
}
