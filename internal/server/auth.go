package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// AuthConfig carries the shared secret every client presents, either raw in
// X-Api-Key or as the signing key of an HS256 bearer token.
type AuthConfig struct {
	APIKey string
	Logger zerolog.Logger
}

func newAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	open := map[string]bool{
		"/health":       true,
		"/docs":         true,
		"/openapi.json": true,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if cfg.APIKey == "" {
				cfg.Logger.Error().Msg("api key not configured; refusing request")
				forbid(w)
				return
			}
			if key := strings.TrimSpace(r.Header.Get("X-Api-Key")); key != "" {
				if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
				forbid(w)
				return
			}
			if authz := strings.TrimSpace(r.Header.Get("Authorization")); authz != "" {
				token, ok := bearerToken(authz)
				if ok {
					if err := verifyBearer(token, cfg.APIKey); err == nil {
						next.ServeHTTP(w, r)
						return
					} else {
						cfg.Logger.Warn().Err(err).Msg("rejected bearer token")
					}
				}
			}
			forbid(w)
		})
	}
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

func verifyBearer(token, secret string) error {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}
	return nil
}

func forbid(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Forbidden"})
}
