package dns

import (
	"fmt"
	"net/netip"
)

func init() {
	register(TypeIPSECKEY, func() RR { return &IPSECKEYRecord{} })
}

// IPSECKEY gateway types (RFC 4025 §2.3).
const (
	IPSecGatewayNone   uint8 = 0
	IPSecGatewayIPv4   uint8 = 1
	IPSecGatewayIPv6   uint8 = 2
	IPSecGatewayDomain uint8 = 3
)

// IPSECKEYRecord publishes a public key for use with IPsec (RFC 4025 §2).
// The gateway field's wire shape depends on GatewayType: absent, an IPv4
// address, an IPv6 address, or an uncompressed domain name.
type IPSECKEYRecord struct {
	H           RRHeader
	Precedence  uint8
	GatewayType uint8
	Algorithm   uint8
	GatewayAddr netip.Addr
	GatewayName DomainName
	PublicKey   []byte
}

func (r *IPSECKEYRecord) Header() *RRHeader { return &r.H }
func (r *IPSECKEYRecord) Type() RecordType  { return TypeIPSECKEY }

func (r *IPSECKEYRecord) maxRDataLen() int {
	return 3 + r.gatewayLen() + len(r.PublicKey)
}

func (r *IPSECKEYRecord) gatewayLen() int {
	switch r.GatewayType {
	case IPSecGatewayIPv4:
		return 4
	case IPSecGatewayIPv6:
		return 16
	case IPSecGatewayDomain:
		return r.GatewayName.EncodedLen()
	default:
		return 0
	}
}

func (r *IPSECKEYRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf = putUint8(buf, r.Precedence)
	buf = putUint8(buf, r.GatewayType)
	buf = putUint8(buf, r.Algorithm)
	switch r.GatewayType {
	case IPSecGatewayIPv4:
		if !r.GatewayAddr.Is4() {
			return nil, fmt.Errorf("%w: IPSECKEY gateway type 1 requires an IPv4 address", ErrMalformedWire)
		}
		b := r.GatewayAddr.As4()
		buf = append(buf, b[:]...)
	case IPSecGatewayIPv6:
		if !r.GatewayAddr.Is6() {
			return nil, fmt.Errorf("%w: IPSECKEY gateway type 2 requires an IPv6 address", ErrMalformedWire)
		}
		b := r.GatewayAddr.As16()
		buf = append(buf, b[:]...)
	case IPSecGatewayDomain:
		var err error
		buf, err = EncodeName(buf, r.GatewayName, nil, canonical)
		if err != nil {
			return nil, err
		}
	case IPSecGatewayNone:
	default:
		return nil, fmt.Errorf("%w: unknown IPSECKEY gateway type %d", ErrUnsupported, r.GatewayType)
	}
	return append(buf, r.PublicKey...), nil
}

func (r *IPSECKEYRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	precedence, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	gatewayType, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	algorithm, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	var gwAddr netip.Addr
	var gwName DomainName
	switch gatewayType {
	case IPSecGatewayIPv4:
		b, next, err := readBytes(msg, off, 4)
		if err != nil {
			return err
		}
		gwAddr, _ = netip.AddrFromSlice(b)
		off = next
	case IPSecGatewayIPv6:
		b, next, err := readBytes(msg, off, 16)
		if err != nil {
			return err
		}
		gwAddr, _ = netip.AddrFromSlice(b)
		off = next
	case IPSecGatewayDomain:
		name, next, err := DecodeName(msg, off)
		if err != nil {
			return err
		}
		gwName = name
		off = next
	case IPSecGatewayNone:
	default:
		return fmt.Errorf("%w: unknown IPSECKEY gateway type %d", ErrUnsupported, gatewayType)
	}
	if off > end {
		return fmt.Errorf("%w: IPSECKEY rdata too short", ErrMalformedWire)
	}
	key, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.Precedence, r.GatewayType, r.Algorithm = precedence, gatewayType, algorithm
	r.GatewayAddr, r.GatewayName, r.PublicKey = gwAddr, gwName, key
	return requireExact(off, end)
}

func (r *IPSECKEYRecord) gatewayText() string {
	switch r.GatewayType {
	case IPSecGatewayIPv4, IPSecGatewayIPv6:
		return r.GatewayAddr.String()
	case IPSecGatewayDomain:
		return r.GatewayName.String()
	default:
		return "."
	}
}

func (r *IPSECKEYRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %d %s %s", r.Precedence, r.GatewayType, r.Algorithm, r.gatewayText(), EncodeBase64(r.PublicKey)), nil
}

func (r *IPSECKEYRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) < 5 {
		return fmt.Errorf("%w: IPSECKEY record requires precedence, gateway type, algorithm, gateway, and key fields", ErrMalformedMasterFile)
	}
	precedence, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	gatewayType, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	algorithm, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	var gwAddr netip.Addr
	var gwName DomainName
	switch gatewayType {
	case IPSecGatewayIPv4, IPSecGatewayIPv6:
		gwAddr, err = netip.ParseAddr(fields[3])
		if err != nil {
			return fmt.Errorf("%w: invalid IPSECKEY gateway address %q", ErrMalformedMasterFile, fields[3])
		}
	case IPSecGatewayDomain:
		gwName, err = ParseName(fields[3], origin)
		if err != nil {
			return err
		}
	case IPSecGatewayNone:
	default:
		return fmt.Errorf("%w: unknown IPSECKEY gateway type %d", ErrUnsupported, gatewayType)
	}
	key, err := DecodeBase64(joinFields(fields[4:]))
	if err != nil {
		return err
	}
	r.Precedence, r.GatewayType, r.Algorithm = precedence, gatewayType, algorithm
	r.GatewayAddr, r.GatewayName, r.PublicKey = gwAddr, gwName, key
	return nil
}
