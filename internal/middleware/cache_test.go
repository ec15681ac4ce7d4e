package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djungler/filmkatalog/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{
		"Content-Type": {"application/json"},
		"Etag":         {`"3"`},
	}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"titel":"Matrix"}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `"3"`, gotHdr.Get("Etag"))
	assert.Equal(t, `{"titel":"Matrix"}`, string(body))
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, {0, 0, 0, 200, 0, 0, 0, 99}} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}

func TestPayloadEmptyBody(t *testing.T) {
	payload, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)

	status, _, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body)
}

func TestCaptureWriterLimit(t *testing.T) {
	cw := &captureWriter{ResponseWriter: nopResponseWriter{}, limit: 4}
	_, _ = cw.Write([]byte("abcdef"))

	// The buffer is capped at the limit but the true size keeps counting, so
	// oversized responses can be recognized and skipped.
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(6), cw.size)
}

type nopResponseWriter struct{}

func (nopResponseWriter) Header() http.Header         { return http.Header{} }
func (nopResponseWriter) Write(b []byte) (int, error) { return len(b), nil }
func (nopResponseWriter) WriteHeader(int)             {}

func keyForPath(t *testing.T, cfg config.CacheConfig, target string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/filme")
	return cacheKeyFrom(cfg, c)
}

func TestCacheKeyStable(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "filme", KeyStrategy: "route_query"}

	a := keyForPath(t, cfg, "/api/filme?titel=mat")
	b := keyForPath(t, cfg, "/api/filme?titel=mat")
	other := keyForPath(t, cfg, "/api/filme?titel=inc")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Contains(t, a, "filme:")
}

func cachedGzipApp(t *testing.T) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         30 * time.Second,
		KeyStrategy: "route_query",
		Prefix:      "filme",
	}

	e := echo.New()
	e.Use(echomw.Gzip())
	e.GET("/api/filme", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []map[string]string{{"titel": "Matrix"}})
	}, NewRedisCache(cfg, rdb))
	return e
}

func getFilme(e *echo.Echo, acceptEncoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/filme", nil)
	if acceptEncoding != "" {
		req.Header.Set(echo.HeaderAcceptEncoding, acceptEncoding)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// The capture writer sits inside the gzip wrapper, so entries are stored
// uncompressed. A hit must not replay the miss request's negotiation
// headers: a plain client gets plain bytes, a gzip client gets the entry
// re-compressed by its own request's wrapper.
func TestCacheHitRenegotiatesEncoding(t *testing.T) {
	e := cachedGzipApp(t)

	rec := getFilme(e, "gzip")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = getFilme(e, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Values(echo.HeaderContentEncoding))
	assert.JSONEq(t, `[{"titel":"Matrix"}]`, rec.Body.String())

	rec = getFilme(e, "gzip")
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, []string{"gzip"}, rec.Header().Values(echo.HeaderContentEncoding))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"titel":"Matrix"}]`, string(plain))
}
