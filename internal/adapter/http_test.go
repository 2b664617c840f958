package adapter_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/habitat-tracker/internal/adapter"
)

var fastRetry = &adapter.RetryConfig{
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
	MaxElapsedTime:  time.Second,
}

func TestHTTPClient_PostRetriesWithSameBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"method":"getAssetsByOwner"}`, string(body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"result":{}}`))
		}
	}))
	defer server.Close()

	client := adapter.NewHTTPClient(time.Second, fastRetry)
	resp, err := client.Post(context.Background(), server.URL, "application/json", []byte(`{"method":"getAssetsByOwner"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"result":{}}`, string(resp))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_PermanentError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad owner"))
	}))
	defer server.Close()

	client := adapter.NewHTTPClient(time.Second, fastRetry)
	_, err := client.Post(context.Background(), server.URL, "application/json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code 400: bad owner")
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := adapter.NewHTTPClient(time.Second, fastRetry)
	_, err := client.Post(ctx, server.URL, "application/json", []byte(`{}`))
	assert.Error(t, err)
}
