package dns

import (
	"fmt"
	"net"
	"net/netip"
)

func init() {
	register(TypeA, func() RR { return &ARecord{} })
	register(TypeAAAA, func() RR { return &AAAARecord{} })
}

// ARecord is a 4-octet IPv4 address record (RFC 1035 §3.4.1).
type ARecord struct {
	H    RRHeader
	Addr netip.Addr
}

func (r *ARecord) Header() *RRHeader { return &r.H }
func (r *ARecord) Type() RecordType  { return TypeA }
func (r *ARecord) maxRDataLen() int  { return 4 }

func (r *ARecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	if !r.Addr.Is4() {
		return nil, fmt.Errorf("%w: A record address must be IPv4", ErrMalformedWire)
	}
	b := r.Addr.As4()
	return append(buf, b[:]...), nil
}

func (r *ARecord) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 4 {
		return fmt.Errorf("%w: A record rdata must be 4 bytes, got %d", ErrMalformedWire, rdlen)
	}
	b, off, err := readBytes(msg, off, 4)
	if err != nil {
		return err
	}
	addr, ok := netip.AddrFromSlice(b)
	if !ok {
		return fmt.Errorf("%w: invalid A record address", ErrMalformedWire)
	}
	r.Addr = addr
	return requireExact(off, off)
}

func (r *ARecord) packMasterRData() (string, error) {
	return r.Addr.String(), nil
}

func (r *ARecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: A record requires exactly one address field", ErrMalformedMasterFile)
	}
	addr, err := netip.ParseAddr(fields[0])
	if err != nil || !addr.Is4() {
		return fmt.Errorf("%w: invalid IPv4 address %q", ErrMalformedMasterFile, fields[0])
	}
	r.Addr = addr
	return nil
}

// AAAARecord is a 16-octet IPv6 address record (RFC 3596 §2.2).
type AAAARecord struct {
	H    RRHeader
	Addr netip.Addr
}

func (r *AAAARecord) Header() *RRHeader { return &r.H }
func (r *AAAARecord) Type() RecordType  { return TypeAAAA }
func (r *AAAARecord) maxRDataLen() int  { return 16 }

func (r *AAAARecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	if !r.Addr.Is6() {
		return nil, fmt.Errorf("%w: AAAA record address must be IPv6", ErrMalformedWire)
	}
	b := r.Addr.As16()
	return append(buf, b[:]...), nil
}

func (r *AAAARecord) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 16 {
		return fmt.Errorf("%w: AAAA record rdata must be 16 bytes, got %d", ErrMalformedWire, rdlen)
	}
	b, off, err := readBytes(msg, off, 16)
	if err != nil {
		return err
	}
	ip := net.IP(b)
	addr, ok := netip.AddrFromSlice(ip.To16())
	if !ok {
		return fmt.Errorf("%w: invalid AAAA record address", ErrMalformedWire)
	}
	r.Addr = addr
	return requireExact(off, off)
}

func (r *AAAARecord) packMasterRData() (string, error) {
	return r.Addr.String(), nil
}

func (r *AAAARecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: AAAA record requires exactly one address field", ErrMalformedMasterFile)
	}
	addr, err := netip.ParseAddr(fields[0])
	if err != nil || !addr.Is6() {
		return fmt.Errorf("%w: invalid IPv6 address %q", ErrMalformedMasterFile, fields[0])
	}
	r.Addr = addr
	return nil
}
