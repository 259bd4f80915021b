package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &statusError{code: 429, err: errRateLimited}, true},
		{"server error", &statusError{code: 502, err: errServerError}, true},
		{"client error", &statusError{code: 404, err: errUnexpected}, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"transport", errors.New("connection reset by peer"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, retryable(tc.err))
		})
	}
}

func TestHealthyOutcome(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"success", nil, true},
		{"cancelled", context.Canceled, true},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), true},
		{"not found", &statusError{code: 404, err: errUnexpected}, true},
		{"rate limited", &statusError{code: 429, err: errRateLimited}, false},
		{"server error", &statusError{code: 500, err: errServerError}, false},
		{"transport", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, healthyOutcome(tc.err))
		})
	}
}

func TestCallerDeadlinesDoNotOpenCircuit(t *testing.T) {
	var slow atomic.Bool
	slow.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := newHTTPConfig(srv.Client(), 0)
	cb := newBreaker("test")
	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := doRequestWithResilience(ctx, "test", cfg, cb, getter(srv.URL))
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}

	slow.Store(false)
	resp, err := doRequestWithResilience(context.Background(), "test", cfg, cb, getter(srv.URL))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestClientErrorsDoNotOpenCircuit(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := newHTTPConfig(srv.Client(), 0)
	cb := newBreaker("test")
	for i := 0; i < 10; i++ {
		_, err := doRequestWithResilience(context.Background(), "test", cfg, cb, getter(srv.URL))
		require.ErrorIs(t, err, errUnexpected)
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(&hits))
}

func TestExecuteInjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("traceparent")
	}))
	defer srv.Close()

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	resp, err := doRequestWithResilience(ctx, "test", newHTTPConfig(srv.Client(), 0), newBreaker("test"), getter(srv.URL))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", header)
}

func TestExecuteDoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := newHTTPConfig(srv.Client(), 3)
	_, err := doRequestWithResilience(context.Background(), "test", cfg, newBreaker("test"), getter(srv.URL))
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestExecuteStopsAfterMaxRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := newHTTPConfig(srv.Client(), 2)
	cfg.Backoff.InitialInterval = time.Millisecond
	_, err := doRequestWithResilience(context.Background(), "test", cfg, newBreaker("test"), getter(srv.URL))
	assert.ErrorIs(t, err, errRateLimited)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestExecuteOpensCircuit(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := newHTTPConfig(srv.Client(), 0)
	cb := newBreaker("test")
	for i := 0; i < 6; i++ {
		_, err := doRequestWithResilience(context.Background(), "test", cfg, cb, getter(srv.URL))
		require.ErrorIs(t, err, errServerError)
	}

	_, err := doRequestWithResilience(context.Background(), "test", cfg, cb, getter(srv.URL))
	assert.ErrorIs(t, err, errCircuitOpen)
	assert.Equal(t, int32(6), atomic.LoadInt32(&hits))
}

func TestExecuteCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cfg := newHTTPConfig(srv.Client(), 5)
	cfg.Backoff.InitialInterval = time.Second
	_, err := doRequestWithResilience(ctx, "test", cfg, newBreaker("test"), getter(srv.URL))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecuteRequiresClient(t *testing.T) {
	_, err := doRequestWithResilience(context.Background(), "test", newHTTPConfig(nil, 0), newBreaker("test"), getter("http://unused"))
	assert.ErrorIs(t, err, errNoHTTPClient)
}

func getter(url string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}
