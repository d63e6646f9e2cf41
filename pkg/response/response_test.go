package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func run(h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreated(t *testing.T) {
	w := run(func(c *gin.Context) { Created(c, "Message sent successfully!", 7) })
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Message sent successfully!", body["message"])
	assert.EqualValues(t, 7, body["id"])
}

func TestValidationFailed(t *testing.T) {
	details := []map[string]string{{"field": "name", "code": "InvalidName"}}
	w := run(func(c *gin.Context) { ValidationFailed(c, details) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, MsgValidationFailed, body["error"])
	assert.Len(t, body["details"], 1)
}

func TestErrorShapes(t *testing.T) {
	cases := []struct {
		name   string
		h      gin.HandlerFunc
		status int
		msg    string
	}{
		{"challenge", ChallengeFailed, http.StatusBadRequest, MsgChallengeFailed},
		{"not found", NotFound, http.StatusNotFound, MsgNotFound},
		{"internal", func(c *gin.Context) { InternalError(c, errors.New("disk on fire")) }, http.StatusInternalServerError, MsgInternal},
		{"too many", func(c *gin.Context) { TooManyRequests(c, "slow down") }, http.StatusTooManyRequests, "slow down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := run(tc.h)
			assert.Equal(t, tc.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tc.msg, body["error"])
			assert.NotContains(t, w.Body.String(), "disk on fire")
			_, hasDetails := body["details"]
			assert.False(t, hasDetails)
		})
	}
}
