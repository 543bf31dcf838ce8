package session

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserCPF   = "X-User-Cpf"
	HeaderUserName  = "X-User-Name"
	HeaderUserRole  = "X-User-Role"

	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Principal is the authenticated caller as asserted by the upstream gateway.
// It is trusted without re-verification.
type Principal struct {
	ID    string
	Email string
	CPF   string
	Name  string
	Role  string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

func fromHeaders(r *http.Request) (Principal, bool) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return Principal{}, false
	}

	role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
	if role == "" {
		role = RoleCustomer
	}

	return Principal{
		ID:    id,
		Email: strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		CPF:   strings.TrimSpace(r.Header.Get(HeaderUserCPF)),
		Name:  strings.TrimSpace(r.Header.Get(HeaderUserName)),
		Role:  role,
	}, true
}

type errorBody struct {
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, code, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// Authenticated rejects requests that carry no principal with 401.
func Authenticated(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := fromHeaders(r)
			if !ok {
				logger.Debug("request without principal", zap.String("path", r.URL.Path))
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin must run after Authenticated.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok || !p.IsAdmin() {
				logger.Warn("admin route denied", zap.String("path", r.URL.Path), zap.String("userId", p.ID))
				writeError(w, http.StatusForbidden, "FORBIDDEN", "admin role required", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
