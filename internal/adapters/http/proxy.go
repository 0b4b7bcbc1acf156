package http

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/melih/grf/internal/core/domain"
	"github.com/melih/grf/internal/core/ports"
)

// ProxyHandler forwards <container>.localhost requests to the UI port a
// Grafana container publishes on the host. The subdomain is the container
// name or its short ID.
type ProxyHandler struct {
	service ports.LifecycleService
	logger  *slog.Logger
}

func NewProxyHandler(service ports.LifecycleService, logger *slog.Logger) *ProxyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProxyHandler{service: service, logger: logger}
}

func (h *ProxyHandler) ProxyRequest(c *fiber.Ctx) error {
	subdomain, ok := localSubdomain(c.Hostname())
	if !ok {
		return c.Next()
	}

	containers, err := h.service.FindContainers(c.Context(), domain.AnyWithBaseName())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).SendString("Failed to list containers")
	}

	var target *domain.Container
	for i := range containers {
		ctr := &containers[i]
		if ctr.Name == subdomain || ctr.ShortID() == subdomain {
			target = ctr
			break
		}
	}
	if target == nil || target.HostPort == 0 {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("Grafana '%s' not found or not published", subdomain))
	}

	remote, err := url.Parse(fmt.Sprintf("http://127.0.0.1:%d", target.HostPort))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Invalid target URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(remote)

	// Grafana checks the Host header against its root_url.
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = remote.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		h.logger.Warn("proxying to grafana", "containerID", target.ShortID(), "target", remote.Host, "error", err)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = fmt.Fprintf(w, "Proxy Info: target=%s error=%v", remote.Host, err)
	}

	return adaptor.HTTPHandler(proxy)(c)
}

// localSubdomain extracts "name" from "name.localhost" with or without a
// port.
func localSubdomain(host string) (string, bool) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	sub, ok := strings.CutSuffix(host, ".localhost")
	if !ok || sub == "" || strings.Contains(sub, ".") {
		return "", false
	}
	return sub, true
}
