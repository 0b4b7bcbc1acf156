package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/grf/internal/core/domain"
)

func TestLocalSubdomain(t *testing.T) {
	tests := []struct {
		host string
		want string
		ok   bool
	}{
		{"grafana-dev.localhost", "grafana-dev", true},
		{"0123456789ab.localhost:7070", "0123456789ab", true},
		{"localhost:7070", "", false},
		{"127.0.0.1:7070", "", false},
		{"example.com", "", false},
		{"a.b.localhost", "", false},
		{".localhost", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got, ok := localSubdomain(tt.host)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProxyRequest(t *testing.T) {
	grafana := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte("grafana " + r.URL.Path + " host=" + r.Host))
	}))
	defer grafana.Close()

	u, err := url.Parse(grafana.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	svc := &fakeService{containers: []domain.Container{
		{ID: "0123456789abcdef", Name: "grafana-dev", Image: "grafana/grafana:latest", HostPort: uint16(port)},
	}}

	for _, host := range []string{"grafana-dev.localhost:7070", "0123456789ab.localhost"} {
		t.Run(host, func(t *testing.T) {
			req := httptest.NewRequest(nethttp.MethodGet, "/explore", nil)
			req.Host = host

			resp, body := do(t, svc, req)
			assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
			assert.Equal(t, "grafana /explore host="+u.Host, body)
		})
	}
}

func TestProxyRequest_UnknownContainer(t *testing.T) {
	svc := &fakeService{containers: []domain.Container{
		{ID: "0123456789abcdef", Name: "grafana-dev", Image: "grafana/grafana:latest"},
	}}

	req := httptest.NewRequest(nethttp.MethodGet, "/", nil)
	req.Host = "grafana-dev.localhost"
	resp, body := do(t, svc, req)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "grafana-dev")

	req = httptest.NewRequest(nethttp.MethodGet, "/", nil)
	req.Host = "other.localhost"
	resp, _ = do(t, svc, req)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestProxyRequest_PlainHostHitsAPI(t *testing.T) {
	svc := &fakeService{}

	req := httptest.NewRequest(nethttp.MethodGet, "/api/v1/tags", nil)
	req.Host = "localhost:7070"
	resp, _ := do(t, svc, req)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Empty(t, svc.matches)
}
