package dns

import (
	"encoding/binary"
	"fmt"
	"net/netip"
)

func init() {
	register(TypeNID, func() RR { return &NIDRecord{} })
	register(TypeL32, func() RR { return &L32Record{} })
	register(TypeL64, func() RR { return &L64Record{} })
	register(TypeLP, func() RR { return &LPRecord{} })
}

// NIDRecord publishes an ILNP node identifier (RFC 6742 §2.1).
type NIDRecord struct {
	H          RRHeader
	Preference uint16
	NodeID     uint64
}

func (r *NIDRecord) Header() *RRHeader { return &r.H }
func (r *NIDRecord) Type() RecordType  { return TypeNID }
func (r *NIDRecord) maxRDataLen() int  { return 10 }

func (r *NIDRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint16(buf, r.Preference)
	return putUint64(buf, r.NodeID), nil
}

func (r *NIDRecord) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 10 {
		return fmt.Errorf("%w: NID rdata must be 10 bytes, got %d", ErrMalformedWire, rdlen)
	}
	end := off + rdlen
	pref, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	nodeID, off, err := readUint64(msg, off)
	if err != nil {
		return err
	}
	r.Preference, r.NodeID = pref, nodeID
	return requireExact(off, end)
}

func (r *NIDRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %s", r.Preference, formatNodeID(r.NodeID)), nil
}

func (r *NIDRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: NID record requires preference and node-id fields", ErrMalformedMasterFile)
	}
	pref, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	nodeID, err := parseNodeID(fields[1])
	if err != nil {
		return err
	}
	r.Preference, r.NodeID = pref, nodeID
	return nil
}

// formatNodeID renders a 64-bit ILNP locator/node-id as four colon-separated
// hex groups, matching the NID/L64 master-file convention (RFC 6742 §2.1).
func formatNodeID(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return fmt.Sprintf("%x:%x:%x:%x", binary.BigEndian.Uint16(b[0:2]), binary.BigEndian.Uint16(b[2:4]),
		binary.BigEndian.Uint16(b[4:6]), binary.BigEndian.Uint16(b[6:8]))
}

func parseNodeID(s string) (uint64, error) {
	var a, b, c, d uint16
	n, err := fmt.Sscanf(s, "%x:%x:%x:%x", &a, &b, &c, &d)
	if err != nil || n != 4 {
		return 0, fmt.Errorf("%w: invalid node-id %q", ErrMalformedMasterFile, s)
	}
	return uint64(a)<<48 | uint64(b)<<32 | uint64(c)<<16 | uint64(d), nil
}

// L32Record publishes an ILNP IPv4 locator (RFC 6742 §2.2).
type L32Record struct {
	H          RRHeader
	Preference uint16
	Locator    netip.Addr
}

func (r *L32Record) Header() *RRHeader { return &r.H }
func (r *L32Record) Type() RecordType  { return TypeL32 }
func (r *L32Record) maxRDataLen() int  { return 6 }

func (r *L32Record) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	if !r.Locator.Is4() {
		return nil, fmt.Errorf("%w: L32 locator must be IPv4", ErrMalformedWire)
	}
	buf = putUint16(buf, r.Preference)
	b := r.Locator.As4()
	return append(buf, b[:]...), nil
}

func (r *L32Record) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 6 {
		return fmt.Errorf("%w: L32 rdata must be 6 bytes, got %d", ErrMalformedWire, rdlen)
	}
	end := off + rdlen
	pref, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	b, off, err := readBytes(msg, off, 4)
	if err != nil {
		return err
	}
	addr, _ := netip.AddrFromSlice(b)
	r.Preference, r.Locator = pref, addr
	return requireExact(off, end)
}

func (r *L32Record) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %s", r.Preference, r.Locator.String()), nil
}

func (r *L32Record) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: L32 record requires preference and locator fields", ErrMalformedMasterFile)
	}
	pref, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(fields[1])
	if err != nil || !addr.Is4() {
		return fmt.Errorf("%w: invalid L32 locator %q", ErrMalformedMasterFile, fields[1])
	}
	r.Preference, r.Locator = pref, addr
	return nil
}

// L64Record publishes an ILNP 64-bit locator (RFC 6742 §2.3).
type L64Record struct {
	H          RRHeader
	Preference uint16
	Locator    uint64
}

func (r *L64Record) Header() *RRHeader { return &r.H }
func (r *L64Record) Type() RecordType  { return TypeL64 }
func (r *L64Record) maxRDataLen() int  { return 10 }

func (r *L64Record) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint16(buf, r.Preference)
	return putUint64(buf, r.Locator), nil
}

func (r *L64Record) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 10 {
		return fmt.Errorf("%w: L64 rdata must be 10 bytes, got %d", ErrMalformedWire, rdlen)
	}
	end := off + rdlen
	pref, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	locator, off, err := readUint64(msg, off)
	if err != nil {
		return err
	}
	r.Preference, r.Locator = pref, locator
	return requireExact(off, end)
}

func (r *L64Record) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %s", r.Preference, formatNodeID(r.Locator)), nil
}

func (r *L64Record) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: L64 record requires preference and locator fields", ErrMalformedMasterFile)
	}
	pref, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	locator, err := parseNodeID(fields[1])
	if err != nil {
		return err
	}
	r.Preference, r.Locator = pref, locator
	return nil
}

// LPRecord points an ILNP node at a locator-bearing name (RFC 6742 §2.4).
type LPRecord struct {
	H          RRHeader
	Preference uint16
	Target     DomainName
}

func (r *LPRecord) Header() *RRHeader { return &r.H }
func (r *LPRecord) Type() RecordType  { return TypeLP }
func (r *LPRecord) maxRDataLen() int  { return 2 + r.Target.EncodedLen() }

func (r *LPRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf = putUint16(buf, r.Preference)
	return EncodeName(buf, r.Target, nil, canonical)
}

func (r *LPRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	pref, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	target, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Preference, r.Target = pref, target
	return requireExact(off, end)
}

func (r *LPRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %s", r.Preference, r.Target.String()), nil
}

func (r *LPRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: LP record requires preference and target fields", ErrMalformedMasterFile)
	}
	pref, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	target, err := ParseName(fields[1], origin)
	if err != nil {
		return err
	}
	r.Preference, r.Target = pref, target
	return nil
}
