package dns

import "fmt"

func init() {
	register(TypeDNSKEY, func() RR { return &DNSKEYRecord{T: TypeDNSKEY} })
	register(TypeCDNSKEY, func() RR { return &DNSKEYRecord{T: TypeCDNSKEY} })
	register(TypeKEY, func() RR { return &DNSKEYRecord{T: TypeKEY} })
}

// DNSKEYRecord carries a DNSSEC public key (RFC 4034 §2) and also backs
// CDNSKEY (RFC 8078 §2) and the legacy KEY record (RFC 2535 §3), which share
// the exact same rdata shape.
type DNSKEYRecord struct {
	H         RRHeader
	T         RecordType
	Flags     uint16
	Protocol  uint8
	Algorithm uint8
	PublicKey []byte
}

func (r *DNSKEYRecord) Header() *RRHeader { return &r.H }
func (r *DNSKEYRecord) Type() RecordType  { return r.T }
func (r *DNSKEYRecord) maxRDataLen() int  { return 4 + len(r.PublicKey) }

func (r *DNSKEYRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint16(buf, r.Flags)
	buf = putUint8(buf, r.Protocol)
	buf = putUint8(buf, r.Algorithm)
	return append(buf, r.PublicKey...), nil
}

func (r *DNSKEYRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	flags, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	protocol, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	algorithm, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: DNSKEY rdata too short", ErrMalformedWire)
	}
	key, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.Flags, r.Protocol, r.Algorithm, r.PublicKey = flags, protocol, algorithm, key
	return requireExact(off, end)
}

// KeyTag computes this key's RFC 4034 Appendix B key tag, the value DS/RRSIG
// records reference to select among the multiple keys a zone may publish.
func (r *DNSKEYRecord) KeyTag() (uint16, error) {
	canonical, err := r.canonicalRData()
	if err != nil {
		return 0, err
	}
	return computeKeyTag(r.Algorithm, canonical, r.PublicKey), nil
}

func (r *DNSKEYRecord) canonicalRData() ([]byte, error) {
	return r.packRData(nil, nil, true)
}

func (r *DNSKEYRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %d %s", r.Flags, r.Protocol, r.Algorithm, EncodeBase64(r.PublicKey)), nil
}

func (r *DNSKEYRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 4 {
		return fmt.Errorf("%w: %s record requires flags, protocol, algorithm, and key fields", ErrMalformedMasterFile, r.T.TypeName())
	}
	flags, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	protocol, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	algorithm, err := ParseUint8Field(fields[2])
	if err != nil {
		return err
	}
	key, err := DecodeBase64(joinFields(fields[3:]))
	if err != nil {
		return err
	}
	r.Flags, r.Protocol, r.Algorithm, r.PublicKey = flags, protocol, algorithm, key
	return nil
}

func joinFields(fields []string) string {
	out := ""
	for _, f := range fields {
		out += f
	}
	return out
}
