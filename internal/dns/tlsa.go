package dns

import "fmt"

func init() {
	register(TypeTLSA, func() RR { return &TLSARecord{T: TypeTLSA} })
	register(TypeSMIMEA, func() RR { return &TLSARecord{T: TypeSMIMEA} })
}

// TLSARecord associates a TLS server certificate with the name (RFC 6698
// §2). It also backs SMIMEA (RFC 8162 §2), identical rdata.
type TLSARecord struct {
	H            RRHeader
	T            RecordType
	CertUsage    uint8
	Selector     uint8
	MatchingType uint8
	CertData     []byte
}

func (r *TLSARecord) Header() *RRHeader { return &r.H }
func (r *TLSARecord) Type() RecordType  { return r.T }
func (r *TLSARecord) maxRDataLen() int  { return 3 + len(r.CertData) }

func (r *TLSARecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint8(buf, r.CertUsage)
	buf = putUint8(buf, r.Selector)
	buf = putUint8(buf, r.MatchingType)
	return append(buf, r.CertData...), nil
}

func (r *TLSARecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	certUsage, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	selector, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	matchingType, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: %s rdata too short", ErrMalformedWire, r.T.TypeName())
	}
	certData, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.CertUsage, r.Selector, r.MatchingType, r.CertData = certUsage, selector, matchingType, certData
	return requireExact(off, end)
}

func (r *TLSARecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %d %s", r.CertUsage, r.Selector, r.MatchingType, EncodeBase16(r.CertData)), nil
}

func (r *TLSARecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("%w: %s record requires cert usage, selector, matching type, and data fields", ErrMalformedMasterFile, r.T.TypeName())
	}
	certUsage, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	selector, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	matchingType, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	certData, err := DecodeBase16(joinFields(fields[3:]))
	if err != nil {
		return err
	}
	r.CertUsage, r.Selector, r.MatchingType, r.CertData = certUsage, selector, matchingType, certData
	return nil
}
