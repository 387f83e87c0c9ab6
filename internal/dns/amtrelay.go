package dns

import (
	"fmt"
	"net/netip"
)

func init() {
	register(TypeAMTRELAY, func() RR { return &AMTRELAYRecord{} })
}

// AMTRELAYRecord advertises an AMT relay (RFC 8777 §4.2). The relay field's
// shape depends on Type: 0 = none, 1 = IPv4, 2 = IPv6, 3 = DomainName.
type AMTRELAYRecord struct {
	H          RRHeader
	Precedence uint8
	Discovery  bool // D bit
	RelayType  uint8
	RelayIP    netip.Addr
	RelayName  DomainName
}

func (r *AMTRELAYRecord) Header() *RRHeader { return &r.H }
func (r *AMTRELAYRecord) Type() RecordType  { return TypeAMTRELAY }

func (r *AMTRELAYRecord) maxRDataLen() int {
	switch r.RelayType {
	case 1:
		return 6
	case 2:
		return 18
	case 3:
		return 2 + r.RelayName.EncodedLen()
	default:
		return 2
	}
}

func (r *AMTRELAYRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf = putUint8(buf, r.Precedence)
	dBit := uint8(0)
	if r.Discovery {
		dBit = 0x80
	}
	buf = putUint8(buf, dBit|r.RelayType)
	switch r.RelayType {
	case 0:
		return buf, nil
	case 1:
		if !r.RelayIP.Is4() {
			return nil, fmt.Errorf("%w: AMTRELAY type 1 requires an IPv4 relay address", ErrMalformedWire)
		}
		b := r.RelayIP.As4()
		return append(buf, b[:]...), nil
	case 2:
		if !r.RelayIP.Is6() {
			return nil, fmt.Errorf("%w: AMTRELAY type 2 requires an IPv6 relay address", ErrMalformedWire)
		}
		b := r.RelayIP.As16()
		return append(buf, b[:]...), nil
	case 3:
		return EncodeName(buf, r.RelayName, nil, canonical)
	default:
		return nil, fmt.Errorf("%w: unsupported AMTRELAY relay type %d", ErrUnsupported, r.RelayType)
	}
}

func (r *AMTRELAYRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	precedence, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	typeByte, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	r.Precedence = precedence
	r.Discovery = typeByte&0x80 != 0
	r.RelayType = typeByte &^ 0x80

	switch r.RelayType {
	case 0:
		return requireExact(off, end)
	case 1:
		b, off, err := readBytes(msg, off, 4)
		if err != nil {
			return err
		}
		addr, ok := netip.AddrFromSlice(b)
		if !ok {
			return fmt.Errorf("%w: invalid AMTRELAY IPv4 relay address", ErrMalformedWire)
		}
		r.RelayIP = addr
		return requireExact(off, end)
	case 2:
		b, off, err := readBytes(msg, off, 16)
		if err != nil {
			return err
		}
		addr, ok := netip.AddrFromSlice(b)
		if !ok {
			return fmt.Errorf("%w: invalid AMTRELAY IPv6 relay address", ErrMalformedWire)
		}
		r.RelayIP = addr
		return requireExact(off, end)
	case 3:
		name, off, err := DecodeName(msg, off)
		if err != nil {
			return err
		}
		r.RelayName = name
		return requireExact(off, end)
	default:
		return fmt.Errorf("%w: unsupported AMTRELAY relay type %d", ErrUnsupported, r.RelayType)
	}
}

func (r *AMTRELAYRecord) packMasterRData() (string, error) {
	relay := "."
	switch r.RelayType {
	case 1, 2:
		relay = r.RelayIP.String()
	case 3:
		relay = r.RelayName.String()
	}
	d := 0
	if r.Discovery {
		d = 1
	}
	return fmt.Sprintf("%d %d %d %s", r.Precedence, d, r.RelayType, relay), nil
}

func (r *AMTRELAYRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 4 {
		return fmt.Errorf("%w: AMTRELAY record requires precedence, discovery, type, and relay fields", ErrMalformedMasterFile)
	}
	precedence, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	discovery, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	relayType, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	r.Precedence = precedence
	r.Discovery = discovery != 0
	r.RelayType = relayType
	switch relayType {
	case 0:
	case 1, 2:
		addr, err := netip.ParseAddr(fields[3])
		if err != nil {
			return fmt.Errorf("%w: invalid AMTRELAY relay address %q", ErrMalformedMasterFile, fields[3])
		}
		r.RelayIP = addr
	case 3:
		name, err := ParseName(fields[3], origin)
		if err != nil {
			return err
		}
		r.RelayName = name
	default:
		return fmt.Errorf("%w: unsupported AMTRELAY relay type %d", ErrUnsupported, relayType)
	}
	return nil
}
