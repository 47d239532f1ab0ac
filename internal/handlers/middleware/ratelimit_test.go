package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiddleware_RateLimit(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		require.NoError(t, err, "should write response")
	})

	// Almost no refill so the burst is all a client gets during the test
	middleware := RateLimit(0.001, 2)
	srv := httptest.NewServer(middleware(okHandler))
	defer srv.Close()

	get := func(t *testing.T, ip string) (int, string) {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/test", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", ip)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		return resp.StatusCode, string(body)
	}

	t.Run("burst allowed then limited", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			status, body := get(t, "10.0.0.1")
			require.Equalf(t, http.StatusOK, status, "request %d within burst should pass. Resp: %s", i+1, body)
		}

		status, body := get(t, "10.0.0.1")
		require.Equal(t, http.StatusTooManyRequests, status)
		require.JSONEq(t,
			`{
				"code": "BadRequest",
				"message": "You have sent too many requests in a given amount of time. Please try again later."
			}`,
			body,
		)
	})

	t.Run("clients limited independently", func(t *testing.T) {
		status, body := get(t, "10.0.0.2")
		require.Equalf(t, http.StatusOK, status, "other client should have its own bucket. Resp: %s", body)
	})
}

func TestMiddleware_ClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		expected   string
	}{
		{
			name:       "x-forwarded-for single",
			xff:        "203.0.113.7",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain takes first",
			xff:        "203.0.113.7, 70.41.3.18, 150.172.238.178",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "x-real-ip fallback",
			realIP:     "203.0.113.8",
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.8",
		},
		{
			name:       "remote addr strips port",
			remoteAddr: "10.0.0.1:1234",
			expected:   "10.0.0.1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "10.0.0.1",
			expected:   "10.0.0.1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}

			require.Equal(t, tc.expected, clientIP(req))
		})
	}
}
