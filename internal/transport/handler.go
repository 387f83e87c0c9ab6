// Package transport implements the DNS message framing and server-side
// transports §4.5 describes to the extent the core codec touches them:
// UDP and TCP/TLS listeners with pipelining, idle timeouts, and truncation.
// It depends on internal/dns for wire framing and on a caller-supplied
// Handler for everything resolver/zone/policy related — those concerns are
// out of scope here (§1 Non-goals) and live entirely on the other side of
// this interface.
package transport

import (
	"context"
	"net/netip"

	"github.com/kestreldns/dnscore/internal/dns"
)

// Handler answers one already-decoded DNS request and returns the response
// to send. It is the collaborator boundary between this transport layer and
// whatever resolves queries (§6.3 "Resolver/validator" collaborator);
// internal/transport never depends on resolver, zone, or cache packages.
//
// A nil returned Message means "send nothing" (e.g. a notify with no
// reply expected). Handler implementations should not block indefinitely;
// ctx is the server's context and is cancelled on shutdown.
type Handler interface {
	Handle(ctx context.Context, proto string, peer netip.Addr, req dns.Message) *dns.Message
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, proto string, peer netip.Addr, req dns.Message) *dns.Message

func (f HandlerFunc) Handle(ctx context.Context, proto string, peer netip.Addr, req dns.Message) *dns.Message {
	return f(ctx, proto, peer, req)
}

// errorResponse builds a minimal reply carrying only the given rcode, used
// when a request cannot be decoded far enough to reach the Handler, or the
// Handler's response would not fit and no question survives truncation.
func errorResponse(id uint16, rcode dns.RCode, question *dns.Question) dns.Message {
	flags := uint16(dns.QRFlag) | uint16(rcode)&dns.RCodeMask
	m := dns.Message{Header: dns.Header{ID: id, Flags: flags}}
	if question != nil {
		m.Questions = []dns.Question{*question}
	}
	return m
}
