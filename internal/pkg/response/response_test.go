package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blooner/bloodlink/internal/pkg/pagination"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessAndErrorResponses(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]string{"foo": "bar"})
	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	require.Equal(t, "success", body["status"])
	require.Equal(t, map[string]any{"foo": "bar"}, body["data"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, 400, "bad request", "BAD_REQ")
	require.Equal(t, 400, w.Code)
	body = decode(t, w)
	require.Equal(t, "bad request", body["error"])
	require.Equal(t, "BAD_REQ", body["code"])
}

func TestPaginatedResponse(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	items := []map[string]any{{"id": 1}, {"id": 2}}
	Paginated(c, items, pagination.New(2, 2, 5))

	require.Equal(t, 200, w.Code)
	body := decode(t, w)
	require.Equal(t, "success", body["status"])
	require.Len(t, body["data"], 2)
	require.Equal(t, float64(5), body["totalCount"])
	require.Equal(t, float64(2), body["page"])
	require.Equal(t, float64(2), body["pageSize"])
	require.Equal(t, float64(3), body["pages"])
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
		code    string
	}{
		{"typed not found", apperrors.NotFound("User not found"), http.StatusNotFound, "User not found", "NOT_FOUND"},
		{"wrapped sentinel", fmt.Errorf("blog x: %w", apperrors.ErrNotFound), http.StatusNotFound, "Resource not found", "NOT_FOUND"},
		{"forbidden", apperrors.Forbidden("forbidden access"), http.StatusForbidden, "forbidden access", "FORBIDDEN"},
		{"conflict", apperrors.Conflict("INVALID_TRANSITION", "cannot move done to pending"), http.StatusConflict, "cannot move done to pending", "INVALID_TRANSITION"},
		{"invalid id", apperrors.Invalid("INVALID_ID", "Invalid donation request ID"), http.StatusBadRequest, "Invalid donation request ID", "INVALID_ID"},
		{"internal hides cause", apperrors.Internal("Failed to load user", errors.New("socket closed")), http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestBindJSONError(t *testing.T) {
	type payload struct {
		Email string `json:"email" binding:"required,email"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	BindJSONError(c, binding.Validator.ValidateStruct(&payload{}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "email is required", decode(t, w)["error"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	BindJSONError(c, errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", decode(t, w)["code"])
}
