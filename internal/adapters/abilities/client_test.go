package abilities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistify/internal/core/ability"
	perr "assistify/internal/platform/errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{BaseURL: srv.URL + "/", Token: "secret", MaxRetries: 2, RetryBase: time.Millisecond})
	require.NoError(t, err)
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Options{})
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}

func TestRun_PostsInputWithBearer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/abilities/afw/orders/refund/run", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var in runRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.EqualValues(t, 1042, in.Input["order_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"refund_id":7}`))
	})

	out, err := c.Run(context.Background(), ability.Meta{ID: "afw/orders/refund"}, map[string]any{"order_id": 1042})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"refund_id": float64(7)}, out)
}

func TestRun_UpstreamMessageVerbatim(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"refund_failed","message":"Refund amount exceeds order total"}`))
	})

	_, err := c.Run(context.Background(), ability.Meta{ID: "afw/orders/refund"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Refund amount exceeds order total", err.Error())
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUpstream))
}

func TestRun_ActionsAreNotRetried(t *testing.T) {
	var hits atomic.Int32
	c, slept := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Run(context.Background(), ability.Meta{ID: "afw/orders/refund", Destructive: true}, nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
	assert.Empty(t, *slept)
}

func TestRun_ReadOnlyRetriesTransient(t *testing.T) {
	var hits atomic.Int32
	c, slept := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[1,2]`))
	})

	out, err := c.Run(context.Background(), ability.Meta{ID: "afw/orders/list", ReadOnly: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, out)
	assert.EqualValues(t, 3, hits.Load())
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, *slept)
}

func TestRun_ReadOnlyGivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	_, err := c.Run(context.Background(), ability.Meta{ID: "afw/orders/list", ReadOnly: true}, nil)
	require.Error(t, err)
	assert.EqualValues(t, 3, hits.Load())
}

func TestNewClient_RetryCount(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{BaseURL: srv.URL, MaxRetries: 0})
	require.NoError(t, err)
	_, err = c.Run(context.Background(), ability.Meta{ID: "afw/orders/list", ReadOnly: true}, nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, hits.Load(), "zero disables retries")

	c, err = NewClient(Options{BaseURL: srv.URL, MaxRetries: -1})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxRetry, c.opts.MaxRetries)
}

func TestRun_EmptyBodyIsNil(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	out, err := c.Run(context.Background(), ability.Meta{ID: "afw/orders/add-note"}, nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestStatusError_Codes(t *testing.T) {
	cases := []struct {
		status int
		code   perr.ErrorCode
	}{
		{http.StatusUnauthorized, perr.ErrorCodeUnauthorized},
		{http.StatusForbidden, perr.ErrorCodeForbidden},
		{http.StatusNotFound, perr.ErrorCodeNotFound},
		{http.StatusInternalServerError, perr.ErrorCodeUpstream},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		rec.WriteHeader(tc.status)
		err := statusError(rec.Result())
		assert.True(t, perr.IsCode(err, tc.code), "status %d", tc.status)
		assert.Equal(t, http.StatusText(tc.status), err.Error())
	}
}

func TestBackoff_Caps(t *testing.T) {
	c := &Client{opts: Options{RetryBase: time.Second}}
	assert.Equal(t, time.Second, c.backoff(0))
	assert.Equal(t, 8*time.Second, c.backoff(3))
	assert.Equal(t, maxBackoff, c.backoff(10))
}
