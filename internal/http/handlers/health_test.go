package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	cases := map[string]struct {
		db         Pinger
		wantStatus int
		wantDB     string
	}{
		"no database":   {db: nil, wantStatus: http.StatusOK, wantDB: "unchecked"},
		"database up":   {db: pingFunc(func(context.Context) error { return nil }), wantStatus: http.StatusOK, wantDB: "ok"},
		"database down": {db: pingFunc(func(context.Context) error { return errors.New("refused") }), wantStatus: http.StatusServiceUnavailable, wantDB: "unreachable"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewHealthHandler(time.Now().Add(-time.Minute), tc.db).Register(mux)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			var env envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			var body map[string]string
			require.NoError(t, json.Unmarshal(env.Data, &body))
			assert.Equal(t, tc.wantDB, body["database"])
			assert.Equal(t, "1m0s", body["uptime"])
		})
	}
}
