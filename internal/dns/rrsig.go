package dns

import "fmt"

func init() {
	register(TypeRRSIG, func() RR { return &RRSIGRecord{T: TypeRRSIG} })
	register(TypeSIG, func() RR { return &RRSIGRecord{T: TypeSIG} })
}

// RRSIGRecord carries a DNSSEC signature over an RRset (RFC 4034 §3). It
// also backs the legacy SIG record (RFC 2535 §4), identical rdata shape.
// SignerName is never compressed (RFC 4034 §3.1.7).
type RRSIGRecord struct {
	H           RRHeader
	T           RecordType
	TypeCovered RecordType
	Algorithm   uint8
	Labels      uint8
	OrigTTL     uint32
	Expiration  uint32
	Inception   uint32
	KeyTag      uint16
	SignerName  DomainName
	Signature   []byte
}

func (r *RRSIGRecord) Header() *RRHeader { return &r.H }
func (r *RRSIGRecord) Type() RecordType  { return r.T }

func (r *RRSIGRecord) maxRDataLen() int {
	return 18 + r.SignerName.EncodedLen() + len(r.Signature)
}

func (r *RRSIGRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf = putUint16(buf, uint16(r.TypeCovered))
	buf = putUint8(buf, r.Algorithm)
	buf = putUint8(buf, r.Labels)
	buf = putUint32(buf, r.OrigTTL)
	buf = putUint32(buf, r.Expiration)
	buf = putUint32(buf, r.Inception)
	buf = putUint16(buf, r.KeyTag)
	var err error
	buf, err = EncodeName(buf, r.SignerName, nil, canonical)
	if err != nil {
		return nil, err
	}
	return append(buf, r.Signature...), nil
}

func (r *RRSIGRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	typeCovered, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	algorithm, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	labels, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	origTTL, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	expiration, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	inception, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	keyTag, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	signerName, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: RRSIG rdata too short for signature", ErrMalformedWire)
	}
	signature, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.TypeCovered = RecordType(typeCovered)
	r.Algorithm, r.Labels = algorithm, labels
	r.OrigTTL, r.Expiration, r.Inception = origTTL, expiration, inception
	r.KeyTag, r.SignerName, r.Signature = keyTag, signerName, signature
	return requireExact(off, end)
}

func (r *RRSIGRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%s %d %d %d %d %d %d %s %s",
		r.TypeCovered.TypeName(), r.Algorithm, r.Labels, r.OrigTTL,
		r.Expiration, r.Inception, r.KeyTag, r.SignerName.String(),
		EncodeBase64(r.Signature)), nil
}

func (r *RRSIGRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) < 9 {
		return fmt.Errorf("%w: %s record requires 9 fields, got %d", ErrMalformedMasterFile, r.T.TypeName(), len(fields))
	}
	typeCovered, err := ParseTypeToken(fields[0])
	if err != nil {
		return err
	}
	algorithm, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	labels, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	origTTL, err := ParseUint32Field(fields[3])
	if err != nil {
		return err
	}
	expiration, err := ParseUint32Field(fields[4])
	if err != nil {
		return err
	}
	inception, err := ParseUint32Field(fields[5])
	if err != nil {
		return err
	}
	keyTag, err := ParseUint16Field(fields[6])
	if err != nil {
		return err
	}
	signerName, err := ParseName(fields[7], origin)
	if err != nil {
		return err
	}
	signature, err := DecodeBase64(joinFields(fields[8:]))
	if err != nil {
		return err
	}
	r.TypeCovered = typeCovered
	r.Algorithm, r.Labels = algorithm, labels
	r.OrigTTL, r.Expiration, r.Inception = origTTL, expiration, inception
	r.KeyTag, r.SignerName, r.Signature = keyTag, signerName, signature
	return nil
}
