// Package doh implements DNS-over-HTTPS (RFC 8484) using gin, the way the
// teacher wires its management REST API: gin.New() with a recovery
// middleware and a slog request logger, registered routes, and a
// *http.Server wrapping the engine for graceful shutdown.
package doh

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestreldns/dnscore/internal/dns"
	"github.com/kestreldns/dnscore/internal/transport"
)

// dnsMessageMIME is the RFC 8484 §7 content type for both request and
// response bodies.
const dnsMessageMIME = "application/dns-message"

// maxGETParamBytes bounds the base64url "dns" query parameter accepted on a
// GET request, sized generously above dns.MaxMessageSize's base64 expansion.
const maxGETParamBytes = 1 << 18

// Server is the RFC 8484 HTTP transport: one HTTP request answers one DNS
// query, preserving the transaction ID end-to-end (§4.5).
type Server struct {
	Handler transport.Handler
	Logger  *slog.Logger

	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a DoH server bound to addr, serving POST and GET on path
// (default "/dns-query" when path is empty).
func New(addr, path string, h transport.Handler, logger *slog.Logger) *Server {
	if path == "" {
		path = "/dns-query"
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(slogRequestLogger(logger))

	s := &Server{Handler: h, Logger: logger, engine: engine}
	engine.POST(path, s.handlePOST)
	engine.GET(path, s.handleGET)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Engine exposes the underlying gin.Engine for tests and additional routes.
func (s *Server) Engine() *gin.Engine { return s.engine }

// ListenAndServe starts serving until the listener is closed.
func (s *Server) ListenAndServe() error { return s.httpServer.ListenAndServe() }

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error { return s.httpServer.Shutdown(ctx) }

func (s *Server) handlePOST(c *gin.Context) {
	if c.GetHeader("Content-Type") != dnsMessageMIME {
		c.Status(http.StatusUnsupportedMediaType)
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(dns.MaxMessageSize)))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	s.answer(c, body)
}

func (s *Server) handleGET(c *gin.Context) {
	param := c.Query("dns")
	if param == "" || len(param) > maxGETParamBytes {
		c.Status(http.StatusBadRequest)
		return
	}
	body, err := base64.RawURLEncoding.DecodeString(param)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	s.answer(c, body)
}

// answer decodes reqBytes, invokes the Handler, and writes back the
// RFC 8484 response: the raw wire message (no TCP length prefix) with the
// same content type as the request.
func (s *Server) answer(c *gin.Context, reqBytes []byte) {
	if s.Handler == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	peer := peerAddr(c.Request)

	req, err := dns.Unmarshal(reqBytes)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	resp := s.Handler.Handle(c.Request.Context(), "doh", peer, req)
	if resp == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	wire, err := resp.Marshal(true)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, dnsMessageMIME, wire)
}

func peerAddr(r *http.Request) netip.Addr {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}

func slogRequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		if logger == nil {
			return
		}
		latency := time.Since(start)
		logger.Debug("doh request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
