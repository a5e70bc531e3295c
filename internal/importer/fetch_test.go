package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHTML_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "", nil)
	body := f.FetchHTML(context.Background(), srv.URL)

	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, defaultUserAgent, gotUA)
}

func TestFetchHTML_CustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "Custom/2.0", nil)
	f.FetchHTML(context.Background(), srv.URL)
	assert.Equal(t, "Custom/2.0", gotUA)
}

func TestFetchHTML_ErrorStatusIsEmpty(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "", nil)
	assert.Equal(t, "", f.FetchHTML(context.Background(), srv.URL))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "one GET, no retries")
}

func TestFetchHTML_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewFetcher(time.Second, "", nil)
	assert.Equal(t, "", f.FetchHTML(context.Background(), srv.URL))
}

func TestFetchHTML_BadURL(t *testing.T) {
	f := NewFetcher(time.Second, "", nil)
	assert.Equal(t, "", f.FetchHTML(context.Background(), "://bad"))
}

func TestHostLimiter(t *testing.T) {
	hl := NewHostLimiter(100, 1)
	ctx := context.Background()

	// Same host shares a limiter, different hosts do not.
	require.NoError(t, hl.WaitURL(ctx, "https://a.example.com/1"))
	require.NoError(t, hl.WaitURL(ctx, "https://b.example.com/1"))

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Millisecond)
	defer cancel()
	// Burst of 1 at 100 rps: the second hit on the same host waits ~10ms,
	// longer than the context allows.
	err := hl.WaitURL(ctx2, "https://b.example.com/2")
	assert.Error(t, err)
}

func TestHostLimiter_NilIsNoOp(t *testing.T) {
	var hl *HostLimiter
	assert.NoError(t, hl.WaitURL(context.Background(), "https://example.com"))
}
