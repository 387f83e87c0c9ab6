package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/netip"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kestreldns/dnscore/internal/dns"
	"github.com/kestreldns/dnscore/internal/logging"
	"github.com/kestreldns/dnscore/internal/pool"
)

// Socket buffer sizes for high throughput (4MB each).
const (
	socketRecvBufferSize = 4 * 1024 * 1024
	socketSendBufferSize = 4 * 1024 * 1024
)

// bufferPool reduces allocations for incoming UDP packets.
var bufferPool = pool.New(func() *[]byte {
	buf := make([]byte, dns.MaxMessageSize)
	return &buf
})

// UDPServer handles DNS queries over UDP (§4.5).
//
// Features:
//   - Multiple sockets with SO_REUSEPORT for kernel-level load balancing
//   - Fixed worker pool per socket (no goroutine spawn per packet)
//   - Buffer pooling to reduce GC pressure under load
//   - Non-blocking receive path (drops packets if workers are busy)
//   - Rate limiting per source IP
//   - EDNS-aware response truncation (§4.5, §3.4)
//   - Graceful shutdown with timeout
//
// Goroutine Lifecycle:
//
// For each CPU core, Run() spawns 1 receiver goroutine and WorkersPerSocket
// worker goroutines. All goroutines share the same context and exit when it
// is cancelled. Per-message state (§5): UDP is stateless beyond the socket
// itself, so no per-request bookkeeping survives a single packet.
type UDPServer struct {
	Logger  *slog.Logger
	Handler Handler
	Limiter *RateLimiter
	Stats   *Stats
	Config  Config

	conns []*net.UDPConn
	wg    sync.WaitGroup
}

// packet represents a received UDP packet pending processing.
type packet struct {
	bufPtr *[]byte
	n      int
	peer   *net.UDPAddr
}

// Run starts the UDP server with multiple sockets using SO_REUSEPORT, one
// per CPU core, each with its own fixed worker pool.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	s.Config = s.Config.withDefaults()
	if s.Logger == nil {
		s.Logger = logging.Configure(logging.Config{Level: "INFO"})
	}

	socketCount := runtime.NumCPU()
	s.conns = make([]*net.UDPConn, 0, socketCount)

	for range socketCount {
		conn, err := listenUDPReusePort(addr)
		if err != nil {
			for _, c := range s.conns {
				_ = c.Close()
			}
			return err
		}
		_ = conn.SetReadBuffer(socketRecvBufferSize)
		_ = conn.SetWriteBuffer(socketSendBufferSize)
		s.conns = append(s.conns, conn)

		packetCh := make(chan packet, s.Config.WorkersPerSocket*2)
		c := conn
		ch := packetCh

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.recvLoop(ctx, c, ch)
		}()

		for range s.Config.WorkersPerSocket {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.workerLoop(ctx, c, ch)
			}()
		}
	}

	<-ctx.Done()
	return s.Stop(5 * time.Second)
}

// recvLoop reads packets from the socket and dispatches them to workers,
// never blocking on worker availability; it drops packets if all workers
// are busy so the receive path stays fast.
func (s *UDPServer) recvLoop(ctx context.Context, conn *net.UDPConn, out chan<- packet) {
	for {
		bufPtr := bufferPool.Get()
		buf := *bufPtr

		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			bufferPool.Put(bufPtr)
			return
		}

		if s.Limiter != nil {
			ip, ok := netipAddrFromUDPAddr(peer)
			if !ok || !s.Limiter.AllowAddr(ip) {
				bufferPool.Put(bufPtr)
				if s.Logger != nil {
					s.Logger.DebugContext(ctx, "udp packet rate-limited", "ip", ip)
				}
				continue
			}
		}

		select {
		case out <- packet{bufPtr, n, peer}:
		default:
			bufferPool.Put(bufPtr)
			if s.Logger != nil {
				s.Logger.WarnContext(ctx, "udp worker pool saturated, dropping packet")
			}
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// workerLoop processes packets from the channel until context is cancelled
// or the channel is closed.
func (s *UDPServer) workerLoop(ctx context.Context, conn *net.UDPConn, in <-chan packet) {
	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-in:
			if !ok {
				return
			}
			s.handlePacket(ctx, conn, pkt)
		}
	}
}

// handlePacket decodes and answers a single datagram, applying EDNS-aware
// truncation (§4.5) before writing the reply.
func (s *UDPServer) handlePacket(ctx context.Context, conn *net.UDPConn, p packet) {
	defer bufferPool.Put(p.bufPtr)

	if s.Handler == nil {
		return
	}

	peerIP, _ := netipAddrFromUDPAddr(p.peer)
	payload := (*p.bufPtr)[:p.n]

	start := time.Now()
	result := process(ctx, s.Handler, "udp", peerIP, payload, true)
	if s.Stats != nil {
		s.Stats.RecordQuery("udp")
		s.Stats.RecordLatency(time.Since(start).Nanoseconds())
	}

	if len(result.Response) == 0 {
		return
	}

	resp := result.Response
	if result.Decoded {
		limit := min(dns.ClientMaxUDPSize(result.Request), dns.EDNSMaxUDPPayloadSize)
		if len(resp) > limit {
			if m, err := dns.Unmarshal(resp); err == nil {
				if _, truncated, err := dns.Truncate(m, limit); err == nil {
					resp = truncated
					if s.Stats != nil {
						s.Stats.RecordTruncated()
					}
				}
			}
		}
	}

	_, _ = conn.WriteToUDP(resp, p.peer)
}

// Stop gracefully shuts down the UDP server, closing all sockets and
// waiting up to timeout for goroutines to exit.
func (s *UDPServer) Stop(timeout time.Duration) error {
	for _, c := range s.conns {
		_ = c.Close()
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
		return errors.New("udp server: timeout waiting for goroutines to exit")
	}
}

func netipAddrFromUDPAddr(addr *net.UDPAddr) (netip.Addr, bool) {
	if addr == nil {
		return netip.Addr{}, false
	}
	ip, ok := netip.AddrFromSlice(addr.IP)
	if !ok {
		return netip.Addr{}, false
	}
	return ip.Unmap(), true
}

// listenUDPReusePort creates a UDP socket with SO_REUSEPORT enabled, so
// multiple sockets can bind the same address with the kernel distributing
// incoming packets across them for multi-core scalability.
func listenUDPReusePort(addr string) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp", udpAddr.String())
	if err != nil {
		return nil, err
	}

	return pc.(*net.UDPConn), nil
}
