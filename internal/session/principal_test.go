package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthenticated_MissingPrincipal(t *testing.T) {
	called := false
	h := Authenticated(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestAuthenticated_PopulatesContext(t *testing.T) {
	var got Principal
	h := Authenticated(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		require.True(t, ok)
		got = p
	}))

	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set(HeaderUserID, "user-1")
	req.Header.Set(HeaderUserEmail, "maria@example.com")
	req.Header.Set(HeaderUserCPF, "123.456.789-09")
	req.Header.Set(HeaderUserName, "Maria")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "maria@example.com", got.Email)
	assert.Equal(t, "123.456.789-09", got.CPF)
	assert.Equal(t, RoleCustomer, got.Role)
	assert.False(t, got.IsAdmin())
}

func TestRequireAdmin(t *testing.T) {
	h := Authenticated(zap.NewNop())(RequireAdmin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodPatch, "/admin/orders/1/status", nil)
	req.Header.Set(HeaderUserID, "user-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/admin/orders/1/status", nil)
	req.Header.Set(HeaderUserID, "admin-1")
	req.Header.Set(HeaderUserRole, "Admin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
