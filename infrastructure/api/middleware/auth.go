package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireBearer protects an endpoint with a shared bearer secret. With no
// secret configured the endpoint is disabled rather than left open.
func RequireBearer(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				WriteJSON(w, http.StatusServiceUnavailable, errorBody{
					Error: "endpoint disabled: no secret configured",
				})
				return
			}

			token := bearerToken(r)
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPIKey protects the read API with a fixed key set. An empty key
// set leaves the API open; with keys configured the caller must present one
// as `X-API-Key` or as a bearer token.
func RequireAPIKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(keys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			presented := r.Header.Get("X-API-Key")
			if presented == "" {
				presented = bearerToken(r)
			}

			for _, key := range keys {
				if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
