package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONRetryRecoversFromTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	c := newRESTClient(nil)
	err := c.getJSONRetry(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSONRetryStopsOnPermanentFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var out map[string]any
	err := newRESTClient(nil).getJSONRetry(context.Background(), srv.URL, &out)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestGetJSONSendsConfiguredHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newRESTClient(map[string]string{"Authorization": "Bearer token123"})
	var out map[string]any
	require.NoError(t, c.getJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "Bearer token123", gotAuth)
}

func TestClassifyStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		want   ErrorCategory
	}{
		{http.StatusUnauthorized, ErrorAuthentication},
		{http.StatusForbidden, ErrorAuthentication},
		{http.StatusTooManyRequests, ErrorRateLimited},
		{http.StatusBadGateway, ErrorOutage},
		{http.StatusUnprocessableEntity, ErrorBadData},
	}

	for _, tc := range cases {
		err := classify("tcga", &httpStatusError{StatusCode: tc.status})
		assert.Equal(t, tc.want, GetCategory(err), "status %d", tc.status)
	}
}

func TestClassifyTimeout(t *testing.T) {
	err := classify("tcga", context.DeadlineExceeded)
	assert.Equal(t, ErrorTimeout, GetCategory(err))
	assert.True(t, IsRetryable(err))
}
