package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/pharoslabs/pharos/internal/core/domain"
	"github.com/pharoslabs/pharos/internal/core/ports"
)

// ProxyHandler routes subdomain requests (e.g. app-name.localhost) to the
// corresponding container's IP at the fixed application port. What protocol
// the application speaks on that port is its own business; the proxy only
// forwards bytes.
type ProxyHandler struct {
	service ports.ContainerService
	appPort int
}

func NewProxyHandler(service ports.ContainerService, appPort int) *ProxyHandler {
	return &ProxyHandler{service: service, appPort: appPort}
}

// ProxyRequest intercepts requests whose host carries a subdomain and
// forwards them to the matching running container. Requests without a
// routable subdomain fall through to the API routes.
func (h *ProxyHandler) ProxyRequest(c *fiber.Ctx) error {
	host := c.Hostname()

	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return c.Next()
	}
	subdomain := parts[0]
	if subdomain == "www" || subdomain == "" {
		return c.Next()
	}

	containers, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to list containers")
	}

	var targetIP string
	for _, ctr := range containers {
		if ctr.Name != subdomain {
			continue
		}
		if ctr.Phase != domain.PhaseRunning {
			continue
		}
		targetIP = ctr.IPAddress
		break
	}
	if targetIP == "" {
		return c.Status(fiber.StatusNotFound).SendString(fmt.Sprintf("app %q not found or not running", subdomain))
	}

	remote, err := url.Parse(fmt.Sprintf("http://%s:%d", targetIP, h.appPort))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("invalid target URL")
	}

	proxy := httputil.NewSingleHostReverseProxy(remote)

	// Rewrite the Host header so the application sees a host it expects.
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = remote.Host
		req.URL.Host = remote.Host
		req.URL.Scheme = remote.Scheme
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, "proxy error: target=%s error=%v", targetIP, err)
	}

	return adaptor.HTTPHandler(proxy)(c)
}
