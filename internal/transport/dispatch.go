package transport

import (
	"context"
	"net/netip"

	"github.com/kestreldns/dnscore/internal/dns"
)

// dispatchResult is what process returns: the wire bytes to send (nil means
// send nothing), and the decoded request when parsing succeeded far enough
// to learn the OPT record for UDP truncation sizing.
type dispatchResult struct {
	Response []byte
	Request  dns.Message
	Decoded  bool
}

// process decodes req, invokes h, and falls back to a FORMERR envelope when
// decoding fails or a SERVFAIL envelope when the handler's response cannot
// be encoded; a nil response from the handler sends nothing. It never
// panics: a malformed request yields MalformedWire internally, which this
// function turns into a best-effort FORMERR reply rather than propagating
// the error to the caller (§7: the partial message is never delivered, but
// transports still answer with a DNS-level error when they can).
func process(ctx context.Context, h Handler, proto string, peer netip.Addr, reqBytes []byte, compress bool) dispatchResult {
	req, err := dns.Unmarshal(reqBytes)
	if err != nil {
		resp := errorResponse(formErrID(reqBytes), dns.RCodeFormErr, nil)
		wire, _ := resp.Marshal(compress)
		return dispatchResult{Response: wire}
	}

	resp := h.Handle(ctx, proto, peer, req)
	if resp == nil {
		return dispatchResult{Request: req, Decoded: true}
	}

	wire, err := resp.Marshal(compress)
	if err != nil {
		fallback := errorResponse(req.Header.ID, dns.RCodeServFail, firstQuestion(req))
		wire, _ = fallback.Marshal(compress)
	}
	return dispatchResult{Response: wire, Request: req, Decoded: true}
}

func firstQuestion(m dns.Message) *dns.Question {
	if len(m.Questions) == 0 {
		return nil
	}
	return &m.Questions[0]
}

// formErrID recovers a transaction ID from a request too malformed for
// dns.Unmarshal to fully decode, so the FORMERR reply still correlates with
// the client's request where possible.
func formErrID(reqBytes []byte) uint16 {
	if len(reqBytes) < 2 {
		return 0
	}
	return uint16(reqBytes[0])<<8 | uint16(reqBytes[1])
}
