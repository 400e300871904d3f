package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/giftwallet/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestFromContext_DefaultsWhenMissing(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))
}

func TestWithAccount(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := slogx.WithContext(context.Background(), base)
	ctx = slogx.WithAccount(ctx, "acc_1")
	slogx.FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "acc_1", line["account_id"])

	require.Equal(t, ctx, slogx.WithAccount(ctx, ""))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	dec := json.NewDecoder(&buf)
	var inside, done map[string]any
	require.NoError(t, dec.Decode(&inside))
	require.NoError(t, dec.Decode(&done))
	require.Equal(t, "req-123", inside["req_id"])
	require.Equal(t, "http_request", done["msg"])
	require.EqualValues(t, http.StatusTeapot, done["status"])
}

func TestHTTPMiddleware_GeneratesRequestID(t *testing.T) {
	h := slogx.HTTPMiddleware(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNew(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{
		Service: "giftwallet-auth",
		Version: "v0.1.0",
		Env:     "test",
		Level:   "warn",
		Output:  &buf,
	})
	require.Equal(t, logger, slog.Default())

	logger.Info("dropped")
	logger.Warn("login failed", "account_id", "acc_1", "password", "hunter2", "PIN", 1234)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "login failed", line["msg"])
	require.Equal(t, "giftwallet-auth", line["service"])
	require.Equal(t, "test", line["env"])
	require.Equal(t, "acc_1", line["account_id"])
	require.Equal(t, slogx.Redacted, line["password"])
	require.Equal(t, slogx.Redacted, line["PIN"])
	require.NotContains(t, buf.String(), "hunter2")
}
