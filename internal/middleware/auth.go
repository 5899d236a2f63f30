package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"synclist-hub/internal/domain"
)

// APIKeyLookup resolves a hashed API key to its principal's name.
type APIKeyLookup interface {
	LookupPrincipalByAPIKeyHash(ctx context.Context, keyHash string) (string, error)
}

// PrincipalLookup resolves a principal by name.
type PrincipalLookup interface {
	GetByName(ctx context.Context, name string) (*domain.Principal, error)
}

// AuthConfig wires the credential sources the Authenticator accepts.
type AuthConfig struct {
	Validator    JWTValidator // nil disables bearer tokens
	APIKeys      APIKeyLookup // nil disables API keys
	APIKeyHeader string
	HashKey      func(rawKey string) string
}

// Authenticator tries a JWT bearer token first, then an API key, and
// stores the registered principal in the request context. Requests with no
// valid credential or an unregistered identity get 401.
type Authenticator struct {
	cfg        AuthConfig
	principals PrincipalLookup
	logger     *slog.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(cfg AuthConfig, principals PrincipalLookup, logger *slog.Logger) *Authenticator {
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = "X-API-Key"
	}
	return &Authenticator{cfg: cfg, principals: principals, logger: logger.With("component", "auth")}
}

// Middleware returns the HTTP middleware.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := a.identify(r)
		if !ok {
			writeUnauthorized(w, "unauthorized: provide a valid JWT Bearer token or API key")
			return
		}

		p, err := a.principals.GetByName(r.Context(), name)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				writeUnauthorized(w, "unauthorized: principal is not registered")
				return
			}
			a.logger.ErrorContext(r.Context(), "principal lookup failed", "principal", name, "error", err)
			writeJSON(w, http.StatusInternalServerError, "internal error")
			return
		}

		ctx := domain.WithPrincipal(r.Context(), domain.ContextPrincipal{
			ID:      p.ID,
			Name:    p.Name,
			IsAdmin: p.IsAdmin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) identify(r *http.Request) (string, bool) {
	if a.cfg.Validator != nil {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			claims, err := a.cfg.Validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err == nil && claims.Subject != "" {
				return claims.Subject, true
			}
			a.logger.DebugContext(r.Context(), "bearer token rejected", "error", err)
		}
	}

	if a.cfg.APIKeys != nil && a.cfg.HashKey != nil {
		if raw := r.Header.Get(a.cfg.APIKeyHeader); raw != "" {
			name, err := a.cfg.APIKeys.LookupPrincipalByAPIKeyHash(r.Context(), a.cfg.HashKey(raw))
			if err == nil {
				return name, true
			}
			a.logger.DebugContext(r.Context(), "api key rejected", "error", err)
		}
	}
	return "", false
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="synclist-hub"`)
	writeJSON(w, http.StatusUnauthorized, msg)
}

func writeJSON(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    code,
		"message": msg,
	})
}
