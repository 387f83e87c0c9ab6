package dns

import "fmt"

func init() {
	register(TypeZONEMD, func() RR { return &ZONEMDRecord{} })
	register(TypeCSYNC, func() RR { return &CSYNCRecord{} })
}

// ZONEMD hash algorithms (RFC 8976 §5.2).
const (
	ZonemdHashSHA384 uint8 = 1
	ZonemdHashSHA512 uint8 = 2
)

// ZONEMD scheme (RFC 8976 §5.1).
const ZonemdSchemeSimple uint8 = 1

// ZONEMDRecord carries a zone-wide digest at the zone apex (RFC 8976 §2).
// The digest itself is computed by the zonemd package's canonical zone
// walker (§4.4), not by this type, which is purely the wire envelope.
type ZONEMDRecord struct {
	H         RRHeader
	Serial    uint32
	Scheme    uint8
	HashAlgo  uint8
	Digest    []byte
}

func (r *ZONEMDRecord) Header() *RRHeader { return &r.H }
func (r *ZONEMDRecord) Type() RecordType  { return TypeZONEMD }
func (r *ZONEMDRecord) maxRDataLen() int  { return 6 + len(r.Digest) }

func (r *ZONEMDRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint32(buf, r.Serial)
	buf = putUint8(buf, r.Scheme)
	buf = putUint8(buf, r.HashAlgo)
	return append(buf, r.Digest...), nil
}

func (r *ZONEMDRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	serial, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	scheme, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	hashAlgo, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: ZONEMD rdata too short", ErrMalformedWire)
	}
	digest, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.Serial, r.Scheme, r.HashAlgo, r.Digest = serial, scheme, hashAlgo, digest
	return requireExact(off, end)
}

func (r *ZONEMDRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %d %s", r.Serial, r.Scheme, r.HashAlgo, EncodeBase16(r.Digest)), nil
}

func (r *ZONEMDRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("%w: ZONEMD record requires serial, scheme, hash algorithm, and digest fields", ErrMalformedMasterFile)
	}
	serial, err := ParseUint32Field(fields[0])
	if err != nil {
		return err
	}
	scheme, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	hashAlgo, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	digest, err := DecodeBase16(joinFields(fields[3:]))
	if err != nil {
		return err
	}
	r.Serial, r.Scheme, r.HashAlgo, r.Digest = serial, scheme, hashAlgo, digest
	return nil
}

// CSYNCRecord signals that a child zone wants its NS/A/AAAA republished by
// its parent (RFC 7477 §2.1.1): an SOA serial, a flags field, and a type
// bitmap identical in wire form to NSEC's (§4.4).
type CSYNCRecord struct {
	H      RRHeader
	Serial uint32
	Flags  uint16
	Types  []RecordType
}

func (r *CSYNCRecord) Header() *RRHeader { return &r.H }
func (r *CSYNCRecord) Type() RecordType  { return TypeCSYNC }
func (r *CSYNCRecord) maxRDataLen() int  { return 6 + typeBitmapLen(r.Types) }

func (r *CSYNCRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint32(buf, r.Serial)
	buf = putUint16(buf, r.Flags)
	return append(buf, encodeTypeBitmap(r.Types)...), nil
}

func (r *CSYNCRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	serial, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	flags, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: CSYNC rdata too short", ErrMalformedWire)
	}
	types, err := decodeTypeBitmap(msg[off:end])
	if err != nil {
		return err
	}
	r.Serial, r.Flags, r.Types = serial, flags, types
	return requireExact(end, end)
}

func (r *CSYNCRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %s", r.Serial, r.Flags, formatTypeBitmap(r.Types)), nil
}

func (r *CSYNCRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: CSYNC record requires serial and flags fields", ErrMalformedMasterFile)
	}
	serial, err := ParseUint32Field(fields[0])
	if err != nil {
		return err
	}
	flags, err := ParseUint16Field(fields[1])
	if err != nil {
		return err
	}
	types, err := parseTypeTokenList(fields[2:])
	if err != nil {
		return err
	}
	r.Serial, r.Flags, r.Types = serial, flags, types
	return nil
}
