package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func fastOpts() SourceOptions {
	return SourceOptions{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		Limiter:    rate.NewLimiter(rate.Inf, 1),
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://docs.example.com/export?format=csv"))
	assert.True(t, IsRemote(" HTTP://host/x.csv"))
	assert.False(t, IsRemote("/data/operators.csv"))
	assert.False(t, IsRemote("operators.csv"))
}

func TestOpenSource_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o644))

	rc, err := OpenSource(context.Background(), path, fastOpts())
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestOpenSource_MissingFile(t *testing.T) {
	_, err := OpenSource(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), fastOpts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source: open")
}

func TestOpenSource_EmptyLocation(t *testing.T) {
	_, err := OpenSource(context.Background(), "  ", fastOpts())
	require.Error(t, err)
}

func TestOpenSource_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "callrecon/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("x,y\n"))
	}))
	defer srv.Close()

	rc, err := OpenSource(context.Background(), srv.URL+"/export.csv", fastOpts())
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(data))
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	rc, err := NewHTTPSource(fastOpts()).Open(context.Background(), srv.URL)
	require.NoError(t, err)
	defer rc.Close() //nolint:errcheck
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSource_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(fastOpts()).Open(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 attempts failed")
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSource_NotFoundIsFatal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(fastOpts()).Open(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.Equal(t, int32(1), calls.Load())
}
