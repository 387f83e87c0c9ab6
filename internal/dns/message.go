package dns

import (
	"fmt"

	"github.com/kestreldns/dnscore/internal/helpers"
)

// Message is a complete DNS message (§3.4): a header plus four sections.
// OPT, when present, lives in Additionals; TSIG, when present, is always
// the last record of Additionals and covers a prefix of the encoded bytes
// under a MAC (see SignTSIG and VerifyTSIG in tsig_verify.go).
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []RR
	Authorities []RR
	Additionals []RR
}

// Marshal encodes m to wire format. When compress is true, a fresh
// compression dictionary scoped to this call is used across the question
// and every RR section (§4.1, §5). Canonical encoding is never requested
// here; use MarshalCanonical for DNSSEC/ZONEMD contexts.
func (m Message) Marshal(compress bool) ([]byte, error) {
	return m.marshal(compress, false)
}

// MarshalCanonical encodes m with compression disabled and every name
// lowercased, the form §4.1/§4.3 require for DNSSEC signature input.
func (m Message) MarshalCanonical() ([]byte, error) {
	return m.marshal(false, true)
}

func (m Message) marshal(compress, canonical bool) ([]byte, error) {
	h := m.Header
	h.QDCount = helpers.ClampIntToUint16(len(m.Questions))
	h.ANCount = helpers.ClampIntToUint16(len(m.Answers))
	h.NSCount = helpers.ClampIntToUint16(len(m.Authorities))
	h.ARCount = helpers.ClampIntToUint16(len(m.Additionals))
	if err := validateAdditionalsTSIGPlacement(m.Additionals); err != nil {
		return nil, err
	}

	var dict compressionDict
	if compress && !canonical {
		dict = newCompressionDict()
	}

	buf := make([]byte, 0, HeaderSize+64*(len(m.Questions)+len(m.Answers)+len(m.Authorities)+len(m.Additionals)))
	buf = h.marshal(buf)

	for _, q := range m.Questions {
		var err error
		buf, err = q.marshal(buf, dict, canonical)
		if err != nil {
			return nil, err
		}
	}
	for _, section := range [][]RR{m.Answers, m.Authorities, m.Additionals} {
		for _, rr := range section {
			var err error
			buf, err = PackRR(buf, rr, dict, canonical)
			if err != nil {
				return nil, err
			}
		}
	}
	return buf, nil
}

// Unmarshal decodes a full DNS message from wire bytes (§3.4, §4.3).
func Unmarshal(msg []byte) (Message, error) {
	off := 0
	h, off, err := unmarshalHeader(msg, off)
	if err != nil {
		return Message{}, err
	}
	var m Message
	m.Header = h

	m.Questions = make([]Question, 0, h.QDCount)
	for i := uint16(0); i < h.QDCount; i++ {
		var q Question
		q, off, err = unmarshalQuestion(msg, off)
		if err != nil {
			return Message{}, err
		}
		m.Questions = append(m.Questions, q)
	}

	readSection := func(count uint16) ([]RR, error) {
		out := make([]RR, 0, count)
		for i := uint16(0); i < count; i++ {
			var rr RR
			rr, off, err = UnpackRR(msg, off)
			if err != nil {
				return nil, err
			}
			out = append(out, rr)
		}
		return out, nil
	}

	if m.Answers, err = readSection(h.ANCount); err != nil {
		return Message{}, err
	}
	if m.Authorities, err = readSection(h.NSCount); err != nil {
		return Message{}, err
	}
	if m.Additionals, err = readSection(h.ARCount); err != nil {
		return Message{}, err
	}
	return m, nil
}

// IsTruncated reports whether the TC flag is set in encoded wire bytes,
// without fully decoding the message.
func IsTruncated(wire []byte) bool {
	if len(wire) < 4 {
		return false
	}
	flags := uint16(wire[2])<<8 | uint16(wire[3])
	return flags&TCFlag != 0
}

// Truncate re-encodes m, dropping whole records from the end of Additionals,
// then Authorities, then Answers (never emitting a partial record) until the
// result fits within limit, setting TC=1 on the result (§4.5). The question
// section is always kept intact.
func Truncate(m Message, limit int) (Message, []byte, error) {
	wire, err := m.Marshal(true)
	if err != nil {
		return Message{}, nil, err
	}
	if len(wire) <= limit {
		return m, wire, nil
	}

	trimmed := m
	trimmed.Additionals = append([]RR(nil), m.Additionals...)
	trimmed.Authorities = append([]RR(nil), m.Authorities...)
	trimmed.Answers = append([]RR(nil), m.Answers...)

	for {
		wire, err = trimmed.Marshal(true)
		if err != nil {
			return Message{}, nil, err
		}
		if len(wire) <= limit {
			break
		}
		switch {
		case len(trimmed.Additionals) > 0:
			trimmed.Additionals = trimmed.Additionals[:len(trimmed.Additionals)-1]
		case len(trimmed.Authorities) > 0:
			trimmed.Authorities = trimmed.Authorities[:len(trimmed.Authorities)-1]
		case len(trimmed.Answers) > 0:
			trimmed.Answers = trimmed.Answers[:len(trimmed.Answers)-1]
		default:
			trimmed.Header.Flags |= TCFlag
			wire, err = trimmed.Marshal(true)
			if err != nil {
				return Message{}, nil, err
			}
			return trimmed, wire, nil
		}
	}
	trimmed.Header.Flags |= TCFlag
	wire, err = trimmed.Marshal(true)
	if err != nil {
		return Message{}, nil, err
	}
	return trimmed, wire, nil
}

// FindOPT returns the OPT pseudo-record in additionals, or nil if absent
// (§3.4, §6.1).
func FindOPT(additionals []RR) *OPTRecord {
	for _, rr := range additionals {
		if opt, ok := rr.(*OPTRecord); ok {
			return opt
		}
	}
	return nil
}

// ClientMaxUDPSize returns the advertised EDNS UDP payload size from req's
// OPT record, or DefaultUDPPayloadSize if absent (§4.5).
func ClientMaxUDPSize(req Message) int {
	if opt := FindOPT(req.Additionals); opt != nil {
		size := int(opt.Header().Class)
		if size < DefaultUDPPayloadSize {
			return DefaultUDPPayloadSize
		}
		return size
	}
	return DefaultUDPPayloadSize
}

// validateAdditionalsTSIGPlacement enforces §3.4: when present, TSIG MUST be
// the last record of Additionals.
func validateAdditionalsTSIGPlacement(additionals []RR) error {
	for i, rr := range additionals {
		if _, ok := rr.(*TSIGRecord); ok && i != len(additionals)-1 {
			return fmt.Errorf("%w: TSIG record must be last in the additional section", ErrMalformedWire)
		}
	}
	return nil
}
