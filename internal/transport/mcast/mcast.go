// Package mcast implements a multicast UDP transport: queries and responses
// are exchanged on a shared group address, one socket bound to 0.0.0.0 and
// joined to the group on every up, multicast-capable interface.
package mcast

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"github.com/kestreldns/dnscore/internal/dns"
	"github.com/kestreldns/dnscore/internal/transport"
)

// minMaxQuerySize is the floor for the advertised maximum query size,
// regardless of how small the smallest joined interface's MTU is (§4.5).
const minMaxQuerySize = 512

// Server is a multicast UDP DNS transport. A single socket bound to
// 0.0.0.0:Port is joined to Group on every eligible interface; queries
// received on the group are answered via Handler and replies are sent back
// to the unicast source address of the sender, not re-multicast.
type Server struct {
	Logger  *slog.Logger
	Handler transport.Handler
	Stats   *transport.Stats
	Group   netip.Addr
	Port    int

	pc       *ipv4.PacketConn
	conn     net.PacketConn
	wg       sync.WaitGroup
	maxQuery int
}

// Run joins the multicast group on every up, multicast-capable interface and
// serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if !s.Group.Is4() {
		return fmt.Errorf("%w: mcast group must be an IPv4 address", dns.ErrTransportFailure)
	}

	lc := net.ListenConfig{Control: reuseAddrControl}
	pc, err := lc.ListenPacket(ctx, "udp4", fmt.Sprintf("0.0.0.0:%d", s.Port))
	if err != nil {
		return fmt.Errorf("%w: listen: %v", dns.ErrTransportFailure, err)
	}
	s.conn = pc

	p := ipv4.NewPacketConn(pc)
	s.pc = p

	ifaces, err := net.Interfaces()
	if err != nil {
		_ = pc.Close()
		return fmt.Errorf("%w: enumerate interfaces: %v", dns.ErrTransportFailure, err)
	}

	groupAddr := &net.UDPAddr{IP: s.Group.AsSlice()}
	joined := 0
	minMTU := 0
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagMulticast == 0 {
			continue
		}
		ifc := iface
		if err := p.JoinGroup(&ifc, groupAddr); err != nil {
			continue
		}
		joined++
		if minMTU == 0 || iface.MTU < minMTU {
			minMTU = iface.MTU
		}
	}
	if joined == 0 {
		_ = pc.Close()
		return fmt.Errorf("%w: joined multicast group on no interface", dns.ErrTransportFailure)
	}

	s.maxQuery = minMTU - ipv4HeaderOverhead
	if s.maxQuery < minMaxQuerySize {
		s.maxQuery = minMaxQuerySize
	}

	if err := p.SetMulticastTTL(255); err != nil {
		_ = pc.Close()
		return fmt.Errorf("%w: set ttl: %v", dns.ErrTransportFailure, err)
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		_ = pc.Close()
		return fmt.Errorf("%w: set loopback: %v", dns.ErrTransportFailure, err)
	}
	if udpConn, ok := pc.(*net.UDPConn); ok {
		_ = udpConn.SetReadBuffer(1 << 20)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.recvLoop(ctx)
	}()

	<-ctx.Done()
	return s.Stop(5 * time.Second)
}

// ipv4HeaderOverhead approximates the IPv4+UDP header cost subtracted from
// an interface's MTU to derive the practical maximum query payload.
const ipv4HeaderOverhead = 28

// reuseAddrControl sets SO_REUSEADDR (and SO_REUSEPORT where available) so
// the multicast socket can coexist with other mDNS-style responders bound
// to the same port, mirroring the platform control used for unicast
// listeners in this module.
func reuseAddrControl(_, _ string, c syscall.RawConn) error {
	return c.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
}

func (s *Server) recvLoop(ctx context.Context) {
	buf := make([]byte, 9000)
	for {
		if ctx.Err() != nil {
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(time.Second))
		n, peer, err := s.conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
		s.handlePacket(ctx, append([]byte(nil), buf[:n]...), peer)
	}
}

func (s *Server) handlePacket(ctx context.Context, payload []byte, peer net.Addr) {
	if s.Handler == nil {
		return
	}

	peerIP := peerAddr(peer)

	req, err := dns.Unmarshal(payload)
	if err != nil {
		return
	}

	start := time.Now()
	resp := s.Handler.Handle(ctx, "mcast", peerIP, req)
	if s.Stats != nil {
		s.Stats.RecordQuery("mcast")
		s.Stats.RecordLatency(time.Since(start).Nanoseconds())
	}
	if resp == nil {
		return
	}

	wire, err := resp.Marshal(true)
	if err != nil {
		return
	}
	if len(wire) > s.maxQuery {
		if _, truncated, err := dns.Truncate(*resp, s.maxQuery); err == nil {
			wire = truncated
		}
	}

	_, _ = s.conn.WriteTo(wire, peer)
}

func peerAddr(addr net.Addr) netip.Addr {
	udpAddr, ok := addr.(*net.UDPAddr)
	if !ok {
		return netip.Addr{}
	}
	ip, ok := netip.AddrFromSlice(udpAddr.IP)
	if !ok {
		return netip.Addr{}
	}
	return ip.Unmap()
}

// Query sends a one-shot multicast query from a fresh socket and returns the
// raw response bytes of the first reply received before timeout, the way a
// client probes a multicast-served zone (distinct from Server, which
// answers queries rather than issuing them).
func Query(ctx context.Context, group netip.Addr, port int, query []byte, timeout time.Duration) ([]byte, error) {
	lc := net.ListenConfig{Control: reuseAddrControl}
	pc, err := lc.ListenPacket(ctx, "udp4", "0.0.0.0:0")
	if err != nil {
		return nil, fmt.Errorf("%w: listen: %v", dns.ErrTransportFailure, err)
	}
	defer pc.Close()

	dst := &net.UDPAddr{IP: group.AsSlice(), Port: port}
	if _, err := pc.WriteTo(query, dst); err != nil {
		return nil, fmt.Errorf("%w: send: %v", dns.ErrTransportFailure, err)
	}

	_ = pc.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 9000)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: receive: %v", dns.ErrTransportFailure, err)
	}
	return buf[:n], nil
}

// Stop leaves the multicast group and closes the socket, waiting up to
// timeout for the receive loop to exit.
func (s *Server) Stop(timeout time.Duration) error {
	if s.conn != nil {
		_ = s.conn.Close()
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
		return fmt.Errorf("%w: timeout stopping multicast server", dns.ErrTransportFailure)
	}
}
