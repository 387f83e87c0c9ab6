package dns

import "fmt"

// DefaultUDPPayloadSize is the classic pre-EDNS UDP response size ceiling
// (RFC 1035 §4.2.1), used when a query carries no OPT record.
const DefaultUDPPayloadSize = 512

// MaxMessageSize is the largest DNS message any transport needs to buffer:
// the 16-bit TCP length prefix's ceiling (RFC 1035 §4.2.2), which is also
// the practical upper bound EDNS0 senders advertise over UDP (§6.1).
const MaxMessageSize = 65535

// EDNSMaxUDPPayloadSize bounds the UDP payload size this module will honor
// from a peer's OPT record, regardless of what it advertises (§4.5, §6.1).
const EDNSMaxUDPPayloadSize = 4096

// UnknownRecord holds the raw rdata of any type code with no registered
// codec (§4.2). It round-trips exactly: unpack copies the bytes, pack
// replays them verbatim, and master-file form is always the generic
// "\# <len> <hex>" syntax since there is no type-specific text form to fall
// back to.
type UnknownRecord struct {
	H     RRHeader
	T     RecordType
	RData []byte
}

func (r *UnknownRecord) Header() *RRHeader { return &r.H }
func (r *UnknownRecord) Type() RecordType  { return r.T }
func (r *UnknownRecord) maxRDataLen() int  { return len(r.RData) }

func (r *UnknownRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return append(buf, r.RData...), nil
}

func (r *UnknownRecord) unpackRData(msg []byte, off, rdlen int) error {
	b, off, err := readBytes(msg, off, rdlen)
	if err != nil {
		return err
	}
	r.RData = b
	return requireExact(off, off)
}

func (r *UnknownRecord) packMasterRData() (string, error) {
	return genericRDataText(r.RData), nil
}

func (r *UnknownRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if !isGenericSyntax(fields) {
		return fmt.Errorf("%w: %s has no registered codec, only \\# generic syntax is accepted", ErrUnsupported, r.T.TypeName())
	}
	return decodeGenericRData(r, fields)
}
