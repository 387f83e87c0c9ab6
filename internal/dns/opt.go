package dns

import (
	"fmt"

	"github.com/kestreldns/dnscore/internal/helpers"
)

func init() {
	register(TypeOPT, func() RR { return &OPTRecord{} })
}

// EDNSOptionCode identifies one OPT option (RFC 6891 §6.1.2).
type EDNSOptionCode uint16

const (
	EDNSOptionNSID     EDNSOptionCode = 3
	EDNSOptionCookie   EDNSOptionCode = 10
	EDNSOptionPadding  EDNSOptionCode = 12
	EDNSOptionTCPKeep  EDNSOptionCode = 11
	EDNSOptionECS      EDNSOptionCode = 8
	EDNSOptionExtError EDNSOptionCode = 15
)

// EDNSOption is one OPTION-CODE/OPTION-LENGTH/OPTION-DATA triple carried in
// an OPT record's rdata.
type EDNSOption struct {
	Code EDNSOptionCode
	Data []byte
}

// OPTRecord is the EDNS(0) pseudo-record (RFC 6891 §6.1). Its owner name is
// always root; Class carries the requestor's UDP payload size and the TTL
// field is repurposed to carry the extended RCODE, version, and the DO bit.
type OPTRecord struct {
	H       RRHeader
	Options []EDNSOption
}

func NewOPTRecord(udpSize uint16, do bool) *OPTRecord {
	r := &OPTRecord{H: RRHeader{Name: Root, Type: TypeOPT, Class: RecordClass(udpSize)}}
	if do {
		r.SetDO(true)
	}
	return r
}

func (r *OPTRecord) Header() *RRHeader { return &r.H }
func (r *OPTRecord) Type() RecordType  { return TypeOPT }

func (r *OPTRecord) maxRDataLen() int {
	n := 0
	for _, opt := range r.Options {
		n += 4 + len(opt.Data)
	}
	return n
}

// ExtendedRCode returns the high 8 bits of the 12-bit extended RCODE stored
// in the TTL field (combine with RCodeFromFlags for the full value).
func (r *OPTRecord) ExtendedRCode() uint8 { return uint8(uint32(r.H.emitTTL()) >> 24) }

// SetExtendedRCode stores the high 8 bits of a 12-bit RCODE into the TTL field.
func (r *OPTRecord) SetExtendedRCode(ext uint8) {
	r.H.TTL = int32((uint32(ext) << 24) | (uint32(r.H.emitTTL()) & 0x00FFFFFF))
}

// Version returns the EDNS version (RFC 6891 §6.1.3).
func (r *OPTRecord) Version() uint8 { return uint8(uint32(r.H.emitTTL()) >> 16) }

func (r *OPTRecord) SetVersion(v uint8) {
	r.H.TTL = int32((uint32(r.H.emitTTL()) & 0xFF00FFFF) | (uint32(v) << 16))
}

// DO reports the DNSSEC OK bit (RFC 3225).
func (r *OPTRecord) DO() bool { return uint32(r.H.emitTTL())&0x00008000 != 0 }

func (r *OPTRecord) SetDO(on bool) {
	ttl := uint32(r.H.emitTTL())
	if on {
		ttl |= 0x00008000
	} else {
		ttl &^= 0x00008000
	}
	r.H.TTL = int32(ttl)
}

// UDPSize returns the requestor's advertised UDP payload size, carried in
// the record's class field.
func (r *OPTRecord) UDPSize() uint16 { return uint16(r.H.Class) }

func (r *OPTRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	for _, opt := range r.Options {
		if len(opt.Data) > 0xFFFF {
			return nil, fmt.Errorf("%w: EDNS option data exceeds 65535 octets", ErrMalformedWire)
		}
		buf = putUint16(buf, uint16(opt.Code))
		buf = putUint16(buf, helpers.ClampIntToUint16(len(opt.Data)))
		buf = append(buf, opt.Data...)
	}
	return buf, nil
}

func (r *OPTRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	var opts []EDNSOption
	for off < end {
		var code, length uint16
		var err error
		code, off, err = readUint16(msg, off)
		if err != nil {
			return err
		}
		length, off, err = readUint16(msg, off)
		if err != nil {
			return err
		}
		if off+int(length) > end {
			return fmt.Errorf("%w: EDNS option overruns rdata", ErrMalformedWire)
		}
		var data []byte
		data, off, err = readBytes(msg, off, int(length))
		if err != nil {
			return err
		}
		opts = append(opts, EDNSOption{Code: EDNSOptionCode(code), Data: data})
	}
	r.Options = opts
	return requireExact(off, end)
}

func (r *OPTRecord) packMasterRData() (string, error) {
	raw, err := r.packRData(nil, nil, false)
	if err != nil {
		return "", err
	}
	return genericRDataText(raw), nil
}

func (r *OPTRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if !isGenericSyntax(fields) {
		return fmt.Errorf("%w: OPT has no zone-file presentation form, only \\# generic syntax is accepted", ErrUnsupported)
	}
	return decodeGenericRData(r, fields)
}
