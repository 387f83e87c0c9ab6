package dns

import "fmt"

func init() {
	register(TypeDS, func() RR { return &DSRecord{T: TypeDS} })
	register(TypeCDS, func() RR { return &DSRecord{T: TypeCDS} })
	register(TypeDLV, func() RR { return &DSRecord{T: TypeDLV} })
}

// DSRecord delegates trust to a child zone's key (RFC 4034 §5). It also
// backs CDS (RFC 8078 §2) and the deprecated DLV (RFC 4431), which share
// identical rdata.
type DSRecord struct {
	H          RRHeader
	T          RecordType
	KeyTag     uint16
	Algorithm  uint8
	DigestType uint8
	Digest     []byte
}

func (r *DSRecord) Header() *RRHeader { return &r.H }
func (r *DSRecord) Type() RecordType  { return r.T }
func (r *DSRecord) maxRDataLen() int  { return 4 + len(r.Digest) }

func (r *DSRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint16(buf, r.KeyTag)
	buf = putUint8(buf, r.Algorithm)
	buf = putUint8(buf, r.DigestType)
	return append(buf, r.Digest...), nil
}

func (r *DSRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	keyTag, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	algorithm, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	digestType, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: %s rdata too short", ErrMalformedWire, r.T.TypeName())
	}
	digest, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.KeyTag, r.Algorithm, r.DigestType, r.Digest = keyTag, algorithm, digestType, digest
	return requireExact(off, end)
}

func (r *DSRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %d %s", r.KeyTag, r.Algorithm, r.DigestType, EncodeBase16(r.Digest)), nil
}

func (r *DSRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("%w: %s record requires key tag, algorithm, digest type, and digest fields", ErrMalformedMasterFile, r.T.TypeName())
	}
	keyTag, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	algorithm, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	digestType, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	digest, err := DecodeBase16(joinFields(fields[3:]))
	if err != nil {
		return err
	}
	r.KeyTag, r.Algorithm, r.DigestType, r.Digest = keyTag, algorithm, digestType, digest
	return nil
}
