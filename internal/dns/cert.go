package dns

import "fmt"

func init() {
	register(TypeCERT, func() RR { return &CERTRecord{} })
}

// CERTRecord stores a certificate or CRL (RFC 4398 §2): a 16-bit cert type,
// a key tag, an algorithm, and the base64-encoded certificate payload.
type CERTRecord struct {
	H           RRHeader
	CertType    uint16
	KeyTag      uint16
	Algorithm   uint8
	Certificate []byte
}

func (r *CERTRecord) Header() *RRHeader { return &r.H }
func (r *CERTRecord) Type() RecordType  { return TypeCERT }
func (r *CERTRecord) maxRDataLen() int  { return 5 + len(r.Certificate) }

func (r *CERTRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint16(buf, r.CertType)
	buf = putUint16(buf, r.KeyTag)
	buf = putUint8(buf, r.Algorithm)
	return append(buf, r.Certificate...), nil
}

func (r *CERTRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	certType, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	keyTag, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	algorithm, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: CERT rdata too short", ErrMalformedWire)
	}
	cert, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.CertType, r.KeyTag, r.Algorithm, r.Certificate = certType, keyTag, algorithm, cert
	return requireExact(off, end)
}

func (r *CERTRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %d %s", r.CertType, r.KeyTag, r.Algorithm, EncodeBase64(r.Certificate)), nil
}

func (r *CERTRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("%w: CERT record requires type, key tag, algorithm, and certificate fields", ErrMalformedMasterFile)
	}
	certType, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	keyTag, err := ParseUint16Field(fields[1])
	if err != nil {
		return err
	}
	algorithm, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	cert, err := DecodeBase64(joinFields(fields[3:]))
	if err != nil {
		return err
	}
	r.CertType, r.KeyTag, r.Algorithm, r.Certificate = certType, keyTag, algorithm, cert
	return nil
}
