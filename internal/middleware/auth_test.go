package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blooner/bloodlink/internal/authz"
	"github.com/blooner/bloodlink/internal/pkg/jwt"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type roleMap map[string]authz.Role

func (m roleMap) RoleByEmail(_ context.Context, email string) (authz.Role, error) {
	r, ok := m[email]
	if !ok {
		return "", fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
	}
	return r, nil
}

type failingResolver struct{}

func (failingResolver) RoleByEmail(context.Context, string) (authz.Role, error) {
	return "", errors.New("server selection timeout")
}

func newManager(t *testing.T) *jwt.Manager {
	t.Helper()
	m, err := jwt.NewManager(jwt.DefaultConfig("middleware-secret"))
	require.NoError(t, err)
	return m
}

func bearer(t *testing.T, m *jwt.Manager, email string) string {
	t.Helper()
	token, err := m.Issue(email)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r *gin.Engine, method, path, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	m := newManager(t)
	other, err := jwt.NewManager(jwt.DefaultConfig("someone-else"))
	require.NoError(t, err)

	r := gin.New()
	r.GET("/protected", Auth(m), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": p.Email, "fromKey": CurrentEmail(c)})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + "abc", http.StatusUnauthorized},
		{"raw token", bearer(t, m, "a@x.com")[len("Bearer "):], http.StatusUnauthorized},
		{"bad signature", bearer(t, other, "a@x.com"), http.StatusUnauthorized},
		{"valid", bearer(t, m, "a@x.com"), http.StatusOK},
		{"lowercase scheme", "bearer " + bearer(t, m, "a@x.com")[len("Bearer "):], http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/protected", tt.header)
			require.Equal(t, tt.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "unauthorized access", body["error"])
				assert.Equal(t, "UNAUTHORIZED", body["code"])
				return
			}
			assert.Equal(t, "a@x.com", body["email"])
			assert.Equal(t, "a@x.com", body["fromKey"])
		})
	}
}

func TestGuards(t *testing.T) {
	m := newManager(t)
	guards := NewGuards(m, roleMap{
		"admin@x.com":     authz.RoleAdmin,
		"volunteer@x.com": authz.RoleVolunteer,
		"donor@x.com":     authz.RoleDonor,
	}, zap.NewNop())

	r := gin.New()
	ok := func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": p.Role})
	}
	r.GET("/admin", With(guards.Admin, ok)...)
	r.GET("/staff", With(guards.AdminOrVolunteer, ok)...)

	tests := []struct {
		email string
		admin int
		staff int
	}{
		{"admin@x.com", http.StatusOK, http.StatusOK},
		{"volunteer@x.com", http.StatusForbidden, http.StatusOK},
		{"donor@x.com", http.StatusForbidden, http.StatusForbidden},
		{"ghost@x.com", http.StatusForbidden, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			auth := bearer(t, m, tt.email)
			assert.Equal(t, tt.admin, serve(r, http.MethodGet, "/admin", auth).Code)
			assert.Equal(t, tt.staff, serve(r, http.MethodGet, "/staff", auth).Code)
		})
	}

	t.Run("no session", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "").Code)
	})

	t.Run("forbidden body", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/admin", bearer(t, m, "donor@x.com"))
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "forbidden access", body["error"])
	})

	t.Run("resolved role reaches handler", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/staff", bearer(t, m, "volunteer@x.com"))
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "volunteer", body["role"])
	})
}

func TestGuardsLookupFailure(t *testing.T) {
	m := newManager(t)
	guards := NewGuards(m, failingResolver{}, zap.NewNop())

	r := gin.New()
	r.GET("/admin", With(guards.Admin, func(c *gin.Context) { c.Status(http.StatusOK) })...)

	w := serve(r, http.MethodGet, "/admin", bearer(t, m, "admin@x.com"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
