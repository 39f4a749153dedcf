package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/NordCoder/ResultWatch/internal/config/monitor"
	"github.com/NordCoder/ResultWatch/internal/domain/site"
)

func testHTTPClient() *http.Client {
	return NewHTTPClient(config.HTTP{
		Timeout:         5 * time.Second,
		UserAgent:       "result-watch-test",
		FollowRedirects: true,
		VerifyTLS:       true,
	})
}

func TestHTTPProbe_StatusClassification(t *testing.T) {
	tests := []struct {
		name string
		code int
		want site.Status
	}{
		{"ok", http.StatusOK, site.StatusUp},
		{"no content", http.StatusNoContent, site.StatusDown},
		{"not found", http.StatusNotFound, site.StatusDown},
		{"unavailable", http.StatusServiceUnavailable, site.StatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "result-watch-test", r.Header.Get("User-Agent"))
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			res := HTTPProbe{Client: testHTTPClient()}.Probe(context.Background(), srv.URL)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, tt.code, res.Code)
			assert.NoError(t, res.Err)
		})
	}
}

func TestHTTPProbe_TransportErrorIsDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := HTTPProbe{Client: testHTTPClient()}.Probe(context.Background(), url)
	assert.Equal(t, site.StatusDown, res.Status)
	assert.Zero(t, res.Code)
	require.Error(t, res.Err)
}

func TestHTTPProbe_TimeoutIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	res := HTTPProbe{Client: testHTTPClient(), Timeout: 30 * time.Millisecond}.Probe(context.Background(), srv.URL)
	assert.Equal(t, site.StatusDown, res.Status)
	require.Error(t, res.Err)
}

func TestHTTPClient_NoRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/moved", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(config.HTTP{Timeout: time.Second, VerifyTLS: true})
	res := HTTPProbe{Client: client}.Probe(context.Background(), srv.URL)
	assert.Equal(t, site.StatusDown, res.Status)
	assert.Equal(t, http.StatusFound, res.Code)

	res = HTTPProbe{Client: testHTTPClient()}.Probe(context.Background(), srv.URL)
	assert.Equal(t, site.StatusUp, res.Status)
}
