package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, http.StatusOK, "ok", map[string]int{"n": 1})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":200,"message":"ok","data":{"n":1}}`, rec.Body.String())
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()

	Created(rec, "/api/users/7", "user created", nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/users/7", rec.Header().Get("Location"))
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, http.StatusNotFound, "user not found")

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, Envelope{Code: http.StatusNotFound, Message: "user not found"}, env)
	assert.NotContains(t, rec.Body.String(), `"data"`)
}
