package middlewarex_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"website_revolution/pkg/contextx"
	"website_revolution/pkg/logx"
	"website_revolution/pkg/middlewarex"
)

func TestLoggerCarriesTraceID(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middlewarex.TraceID(middlewarex.Logger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contextx.LoggerFromContextOrDefault(r.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/searches", nil)
	req.Header.Set("X-Trace-Id", "trace-42")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	rq.Equal(http.StatusNoContent, w.Code)
	rq.Equal("trace-42", w.Header().Get("X-Trace-Id"))
	rq.Contains(buf.String(), `"trace-id":"trace-42"`)
	rq.Contains(buf.String(), `"url":"/api/searches"`)
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	h := middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	rq.Equal(http.StatusInternalServerError, w.Code)
}

func TestRequestLoggingMasksLeadContacts(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	ctx := contextx.WithLogger(t.Context(), slog.New(slog.NewJSONHandler(&buf, nil)))

	h := middlewarex.RequestLogging(logx.NewSensitiveDataMasker(), 4096)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	body := bytes.NewBufferString(`{"businesses":[{"name":"Cafe","phone":"+1 555 0100","email":"owner@cafe.example"}]}`)
	req := httptest.NewRequestWithContext(ctx, http.MethodPost, "/api/csv-file-export", body)

	h.ServeHTTP(httptest.NewRecorder(), req)

	rq.NotContains(buf.String(), "owner@cafe.example")
	rq.NotContains(buf.String(), "555 0100")
	rq.Contains(buf.String(), "[MASKED]")
}
