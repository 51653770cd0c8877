package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/blooner/bloodlink/docs"
	"github.com/blooner/bloodlink/internal/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// newRouter wires every feature against a client that never connects.
// Only routes that do not reach the database are exercised.
func newRouter(t *testing.T, health Pinger) *gin.Engine {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	tokens, err := jwt.NewManager(jwt.DefaultConfig("routes-test"))
	require.NoError(t, err)

	r := gin.New()
	SetupRoutes(r, Dependencies{
		Database: client.Database("bloodlink_routes_test"),
		Health:   health,
		Tokens:   tokens,
		Logger:   zap.NewNop(),
	})
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootBanner(t *testing.T) {
	r := newRouter(t, stubPinger{})
	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Blooner server is online", w.Body.String())
}

func TestHealth(t *testing.T) {
	w := serve(newRouter(t, stubPinger{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	w = serve(newRouter(t, stubPinger{err: errors.New("no primary")}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "DB_UNAVAILABLE")
}

func TestFeatureRoutesRegistered(t *testing.T) {
	r := newRouter(t, stubPinger{})

	w := serve(r, http.MethodPost, "/jwt", `{"email":"donor@x.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/users"},
		{http.MethodPut, "/users"},
		{http.MethodPost, "/donationRequests"},
		{http.MethodGet, "/donation-requests"},
		{http.MethodGet, "/admin/donation-requests"},
		{http.MethodPost, "/blogs"},
		{http.MethodPut, "/blogs/64b7f0c2e4b0a1a2b3c4d5e6"},
	} {
		w := serve(r, route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}

	w = serve(r, http.MethodGet, "/blogs/not-an-id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSwaggerDocServed(t *testing.T) {
	w := serve(newRouter(t, stubPinger{}), http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/donationRequests")
}
