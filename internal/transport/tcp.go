package transport

import (
	"context"
	"crypto/tls"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kestreldns/dnscore/internal/logging"
	"github.com/kestreldns/dnscore/internal/pool"
)

// lenBufPool reduces allocations for TCP/TLS length-prefix reads and writes.
var lenBufPool = pool.New(func() *[]byte {
	buf := make([]byte, 2)
	return &buf
})

const tcpReadTimeout = 10 * time.Second

// TCPServer handles DNS queries over TCP or TLS with connection pipelining
// (§4.5, §5).
//
// Features:
//   - SO_REUSEPORT for multi-core scalability (multiple listeners per address)
//   - Per-IP connection limiting to prevent resource exhaustion
//   - Connection pipelining: multiple queries per connection, responses may
//     be written out of order relative to request arrival since each is
//     handled and written as soon as its Handler call returns
//   - Idle timeout to free unused connections
//   - Graceful shutdown with timeout
//
// TCP/TLS DNS message format (RFC 1035 §4.2.2): each message is prefixed
// with a 2-byte big-endian length field.
//
// Goroutine Lifecycle:
//
// For each CPU core, Run() spawns 1 listener goroutine. For each accepted
// connection, 1 handler goroutine reads queries and starts 1 goroutine per
// query that invokes Handler and writes the response. All goroutines share
// the same context and exit when it is cancelled.
type TCPServer struct {
	Logger  *slog.Logger
	Handler Handler
	Stats   *Stats
	Config  Config

	// TLSConfig, if non-nil, wraps every accepted connection in a TLS
	// server handshake before the DNS framing loop begins (§4.5 "same
	// framing as TCP, layered over an authenticated TLS session").
	TLSConfig *tls.Config

	listeners []net.Listener
	wg        sync.WaitGroup

	mu        sync.Mutex
	connPerIP map[string]int
}

// Run starts the server with multiple listeners using SO_REUSEPORT, one per
// CPU core, for better multi-core scalability.
func (s *TCPServer) Run(ctx context.Context, addr string) error {
	s.Config = s.Config.withDefaults()
	if s.Logger == nil {
		s.Logger = logging.Configure(logging.Config{Level: "INFO"})
	}

	socketCount := runtime.NumCPU()
	s.listeners = make([]net.Listener, 0, socketCount)

	s.mu.Lock()
	if s.connPerIP == nil {
		s.connPerIP = map[string]int{}
	}
	s.mu.Unlock()

	for range socketCount {
		ln, err := listenTCPReusePort(ctx, addr)
		if err != nil {
			for _, l := range s.listeners {
				_ = l.Close()
			}
			return err
		}
		s.listeners = append(s.listeners, ln)

		listener := ln
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.acceptLoop(ctx, listener)
		}()
	}

	<-ctx.Done()
	return s.Stop(5 * time.Second)
}

// acceptLoop accepts connections on a single listener until context is
// cancelled or the listener is closed.
func (s *TCPServer) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		c, err := ln.Accept()
		if err != nil {
			return
		}

		remoteIP := remoteIPString(c.RemoteAddr())

		if !s.tryAcquireConn(remoteIP) {
			if s.Logger != nil {
				s.Logger.WarnContext(ctx, "tcp connection limit exceeded", "ip", remoteIP)
			}
			_ = c.Close()
			continue
		}

		conn := c
		ip := remoteIP
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn, ip)
		}()
	}
}

// handleConnection processes DNS queries on a single connection, supporting
// pipelining: multiple queries may be in flight, each answered as soon as
// the Handler returns for it.
func (s *TCPServer) handleConnection(ctx context.Context, conn net.Conn, ip string) {
	defer s.releaseConn(ip)
	defer conn.Close()

	if s.TLSConfig != nil {
		tlsConn := tls.Server(conn, s.TLSConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return
		}
		conn = tlsConn
	}

	peerAddr, _ := netip.ParseAddr(ip)

	_ = conn.SetDeadline(time.Now().Add(s.Config.IdleTimeout))

	var writeMu sync.Mutex
	var pending sync.WaitGroup
	defer pending.Wait()

	for range s.Config.MaxQueriesPerConn {
		if ctx.Err() != nil {
			return
		}

		msg, ok := s.readMessage(conn)
		if !ok {
			return
		}
		if len(msg) == 0 {
			continue
		}

		_ = conn.SetDeadline(time.Now().Add(s.Config.IdleTimeout))

		if s.Handler == nil {
			return
		}

		reqCopy := msg
		pending.Add(1)
		go func() {
			defer pending.Done()
			start := time.Now()
			proto := "tcp"
			if s.TLSConfig != nil {
				proto = "tls"
			}
			result := process(ctx, s.Handler, proto, peerAddr, reqCopy, false)
			if s.Stats != nil {
				s.Stats.RecordQuery(proto)
				s.Stats.RecordLatency(time.Since(start).Nanoseconds())
			}
			if len(result.Response) == 0 {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			s.writeMessage(conn, result.Response)
		}()
	}
}

// readMessage reads one length-prefixed DNS message from conn.
func (s *TCPServer) readMessage(conn net.Conn) ([]byte, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(tcpReadTimeout))
	lenBufPtr := lenBufPool.Get()
	lenBuf := *lenBufPtr
	_, err := io.ReadFull(conn, lenBuf)
	if err != nil {
		lenBufPool.Put(lenBufPtr)
		return nil, false
	}
	msgLen := int(binary.BigEndian.Uint16(lenBuf))
	lenBufPool.Put(lenBufPtr)

	if msgLen == 0 {
		return nil, true
	}
	if msgLen > s.Config.MaxTCPMessageSize {
		return nil, false
	}

	_ = conn.SetReadDeadline(time.Now().Add(tcpReadTimeout))
	msg := make([]byte, msgLen)
	if _, err := io.ReadFull(conn, msg); err != nil {
		return nil, false
	}
	return msg, true
}

// writeMessage writes one length-prefixed DNS message to conn. Caller must
// hold the connection's write serialization lock (§5: the write path is
// serialised by a lock on the underlying stream).
func (s *TCPServer) writeMessage(conn net.Conn, response []byte) bool {
	respLen := len(response)
	if respLen > s.Config.MaxTCPMessageSize {
		return false
	}

	_ = conn.SetWriteDeadline(time.Now().Add(tcpReadTimeout))

	lenBufPtr := lenBufPool.Get()
	lenBuf := *lenBufPtr
	binary.BigEndian.PutUint16(lenBuf, uint16(respLen))

	bufs := net.Buffers{lenBuf, response}
	_, err := bufs.WriteTo(conn)

	lenBufPool.Put(lenBufPtr)
	return err == nil
}

// Stop gracefully shuts down the server, closing listeners and waiting up
// to timeout for in-flight connections to finish.
func (s *TCPServer) Stop(timeout time.Duration) error {
	for _, ln := range s.listeners {
		_ = ln.Close()
	}

	if timeout <= 0 {
		s.wg.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("tcp server: timeout waiting for connections")
	}
}

// listenTCPReusePort creates a TCP listener with SO_REUSEPORT enabled.
func listenTCPReusePort(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}

// remoteIPString extracts the IP address from a network address.
func remoteIPString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err == nil {
		return host
	}
	return addr.String()
}

// tryAcquireConn attempts to increment the connection count for an IP,
// returning false if the limit would be exceeded.
func (s *TCPServer) tryAcquireConn(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.connPerIP[ip]
	if cur >= s.Config.MaxConnsPerIP {
		return false
	}
	s.connPerIP[ip] = cur + 1
	return true
}

// releaseConn decrements the connection count for an IP.
func (s *TCPServer) releaseConn(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.connPerIP[ip]
	if cur <= 1 {
		delete(s.connPerIP, ip)
		return
	}
	s.connPerIP[ip] = cur - 1
}
