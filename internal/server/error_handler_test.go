// file: internal/server/error_handler_test.go
// version: 2.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestRespondWithBadRequest(t *testing.T) {
	c, w := testContext("/")
	RespondWithBadRequest(c, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "test error") {
		t.Errorf("expected error message in response, got %q", w.Body.String())
	}
}

func TestRespondWithNotFound(t *testing.T) {
	c, w := testContext("/")
	RespondWithNotFound(c, "cover", "isbn:123")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "NOT_FOUND", resp.Code)
	assert.Equal(t, "cover not found: isbn:123", resp.Error)
}

func TestRespondWithInternalError(t *testing.T) {
	c, w := testContext("/")
	RespondWithInternalError(c, "boom")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestRespondWithUnavailable(t *testing.T) {
	c, w := testContext("/")
	RespondWithUnavailable(c, "identify canceled")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CANCELED")
}

func TestRespondWithInvalid(t *testing.T) {
	c, w := testContext("/")
	RespondWithInvalid(c, ValidationError{Field: "isbn", Message: "bad", Code: "ISBN_INVALID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ISBN_INVALID"`)

	c, w = testContext("/")
	RespondWithInvalid(c, errors.New("plain"))
	assert.Contains(t, w.Body.String(), `"code":"BAD_REQUEST"`)
}

func TestParseQueryDuration(t *testing.T) {
	tests := []struct {
		query string
		want  time.Duration
	}{
		{"/?timeout=5s", 5 * time.Second},
		{"/?timeout=-1s", 0},
		{"/?timeout=soon", 0},
		{"/", 0},
	}
	for _, tt := range tests {
		c, _ := testContext(tt.query)
		if got := ParseQueryDuration(c, "timeout"); got != tt.want {
			t.Errorf("ParseQueryDuration(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestHandleBindError(t *testing.T) {
	c, _ := testContext("/")
	assert.False(t, HandleBindError(c, nil))

	c, w := testContext("/")
	assert.True(t, HandleBindError(c, errors.New("Key: 'BatchRequest.ISBNs' Error:Field validation for 'ISBNs' failed on the 'required' tag")))
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
