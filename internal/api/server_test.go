package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tac_converter/internal/conversion"
	"tac_converter/internal/converter"
	"tac_converter/internal/logging"
	"tac_converter/internal/observability"
	"tac_converter/internal/storage"
)

const (
	metar = "METAR EFHK 051050Z 22005KT CAVOK 15/08 Q1021 NOSIG="
	taf   = "TAF EFHK 010825Z 0109/0209 25015KT 9999 FEW020\nBECMG 0114/0116 BKN020="
)

var epoch = time.Date(2024, time.March, 5, 10, 55, 0, 0, time.UTC)

func newTestServer(t *testing.T, cfg Config, opts ...Option) http.Handler {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	conv := converter.New(converter.WithClock(clock), converter.WithLogger(logging.Discard()))
	opts = append([]Option{WithClock(clock), WithLogger(logging.Discard())}, opts...)
	s, err := NewServer(conv, cfg, opts...)
	require.NoError(t, err)
	return s.Router()
}

func do(t *testing.T, h http.Handler, method, target string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	switch b := body.(type) {
	case nil:
		r = httptest.NewRequest(method, target, nil)
	case string:
		r = httptest.NewRequest(method, target, strings.NewReader(b))
		r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = httptest.NewRequest(method, target, bytes.NewReader(data))
		r.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		r.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, Config{AuthEnabled: true, APIKeys: []string{"k"}})
	rec := do(t, h, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "2024-03-05T10:55:00Z", resp["time"])
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(t, Config{AuthEnabled: true, APIKeys: []string{"test-key-123", "another-key"}})

	tests := []struct {
		name       string
		header     []string
		wantStatus int
	}{
		{"no key", nil, http.StatusUnauthorized},
		{"invalid key", []string{"X-API-Key", "wrong"}, http.StatusForbidden},
		{"valid header", []string{"X-API-Key", "test-key-123"}, http.StatusOK},
		{"valid bearer", []string{"Authorization", "Bearer another-key"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/parse", ConvertRequest{TAC: metar}, tt.header...)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, Config{})
	rec := do(t, h, http.MethodOptions, "/api/v1/parse", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParse(t *testing.T) {
	m, _ := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClockAt(epoch)
	h := newTestServer(t, Config{}, WithMetrics(m, nil), WithClock(clock))

	rec := do(t, h, http.MethodPost, "/api/v1/parse", ConvertRequest{TAC: metar})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "METAR", resp["family"])
	assert.Equal(t, "SUCCESS", resp["status"])
	assert.NotContains(t, resp, "id")
	msg := resp["message"].(map[string]any)
	assert.Equal(t, "EFHK", msg["aerodrome"])
	assert.Equal(t, metar, msg["translated_tac"])
	assert.Equal(t, "2024-03-05T10:55:00Z", msg["translation_time"])

	clock.Advance(time.Minute)
	rec = do(t, h, http.MethodPost, "/api/v1/parse", ConvertRequest{TAC: metar})
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	resp = decode[map[string]any](t, rec)
	assert.Equal(t, "2024-03-05T10:56:00Z", resp["message"].(map[string]any)["translation_time"])
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/api/v1/parse", "200")))
}

func TestParsePlainText(t *testing.T) {
	h := newTestServer(t, Config{})

	rec := do(t, h, http.MethodPost, "/api/v1/parse?mode=lenient&status_policy=severity", taf)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "TAF", resp["family"])
	assert.Equal(t, "SUCCESS", resp["status"])
}

func TestParseErrors(t *testing.T) {
	h := newTestServer(t, Config{})

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"empty", ConvertRequest{}, http.StatusBadRequest},
		{"bad family", ConvertRequest{TAC: metar, Family: "NOTAM"}, http.StatusBadRequest},
		{"bad mode", ConvertRequest{TAC: metar, Mode: "sloppy"}, http.StatusBadRequest},
		{"unknown family", ConvertRequest{TAC: "HELLO WORLD"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/parse", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, decode[map[string]string](t, rec), "error")
		})
	}
}

func TestSerialize(t *testing.T) {
	h := newTestServer(t, Config{})

	parsed := do(t, h, http.MethodPost, "/api/v1/parse", ConvertRequest{TAC: taf})
	require.Equal(t, http.StatusOK, parsed.Code)
	var p struct {
		Message json.RawMessage `json:"message"`
	}
	require.NoError(t, json.NewDecoder(parsed.Body).Decode(&p))

	rec := do(t, h, http.MethodPost, "/api/v1/serialize", SerializeRequest{Family: "TAF", Message: p.Message})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[conversion.Result[string]](t, rec)
	assert.Equal(t, conversion.StatusSuccess, res.Status)
	require.NotNil(t, res.Message)
	assert.Equal(t, taf, *res.Message)

	rec = do(t, h, http.MethodPost, "/api/v1/serialize", SerializeRequest{Message: p.Message})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLex(t *testing.T) {
	h := newTestServer(t, Config{})

	rec := do(t, h, http.MethodPost, "/api/v1/lex", ConvertRequest{TAC: "METAR EFHK 051052Z blaablaa 9999="})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LexResponse](t, rec)
	assert.Equal(t, "METAR", resp.Family)
	require.Len(t, resp.Tokens, 6)
	assert.Equal(t, "UNRECOGNIZED", resp.Tokens[3].Status)
	assert.Equal(t, "END_TOKEN", resp.Tokens[5].Kind)
}

func TestArchiveEndpoints(t *testing.T) {
	a, err := storage.OpenArchive(filepath.Join(t.TempDir(), "a.db"))
	require.NoError(t, err)
	defer a.Close()
	h := newTestServer(t, Config{}, WithArchive(a), WithSink(a))

	rec := do(t, h, http.MethodPost, "/api/v1/parse", ConvertRequest{TAC: metar})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)
	do(t, h, http.MethodPost, "/api/v1/parse", ConvertRequest{TAC: taf})

	rec = do(t, h, http.MethodGet, "/api/v1/archive/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[RecordResponse](t, rec)
	assert.Equal(t, metar, got.TAC)
	assert.Equal(t, "api", got.Source)
	assert.Equal(t, "2024-03-05T10:50:00Z", got.IssuedAt)

	rec = do(t, h, http.MethodGet, "/api/v1/archive?q=CAVOK", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]RecordResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	rec = do(t, h, http.MethodGet, "/api/v1/archive?order=asc", nil)
	list = decode[[]RecordResponse](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "METAR", list[0].Family)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/archive/not-a-uuid", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/archive/00000000-0000-0000-0000-000000000001", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/archive?limit=5000", nil).Code)
}

type fakeLatest struct {
	records map[string]storage.Record
}

func (f *fakeLatest) GetLatest(_ context.Context, location, family string) (*storage.Record, error) {
	r, ok := f.records[location+"/"+family]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (f *fakeLatest) ListLatest(_ context.Context, location string) ([]storage.Record, error) {
	var out []storage.Record
	for k, r := range f.records {
		if strings.HasPrefix(k, location+"/") {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestLatestEndpoints(t *testing.T) {
	latest := &fakeLatest{records: map[string]storage.Record{
		"EFHK/METAR": {Family: "METAR", Location: "EFHK", RawTAC: metar, ReceivedAt: epoch, IssuesJSON: "[]"},
	}}
	h := newTestServer(t, Config{}, WithLatest(latest))

	rec := do(t, h, http.MethodGet, "/api/v1/latest/efhk/metar", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, metar, decode[RecordResponse](t, rec).TAC)

	rec = do(t, h, http.MethodGet, "/api/v1/latest/EFHK", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]RecordResponse](t, rec), 1)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/latest/EFHK/TAF", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/latest/ESSA", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/latest/EFHK/NOTAM", nil).Code)
}

func TestStoresNotConfigured(t *testing.T) {
	h := newTestServer(t, Config{})
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/api/v1/latest/EFHK", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/api/v1/archive", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	m, reg := observability.NewMetricsForTesting()
	h := newTestServer(t, Config{}, WithMetrics(m, reg))

	do(t, h, http.MethodPost, "/api/v1/parse", ConvertRequest{TAC: metar})
	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tac_converter_cache_lookups_total")
}
