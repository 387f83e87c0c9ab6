package dns

import (
	"fmt"

	"github.com/kestreldns/dnscore/internal/helpers"
)

func init() {
	register(TypeTKEY, func() RR { return &TKEYRecord{} })
}

// TKEY mode values (RFC 2930 §2).
const (
	TKeyModeServerAssignment uint16 = 1
	TKeyModeDiffieHellman    uint16 = 2
	TKeyModeGSSAPI           uint16 = 3
	TKeyModeResolverAssigned uint16 = 4
	TKeyModeKeyDeletion      uint16 = 5
)

// TKEYRecord negotiates or deletes a shared secret for later TSIG use (RFC
// 2930 §2). Like TSIG, it is a pseudo-record never stored in a zone and has
// no zone-file presentation form other than the generic escape (§4.2).
type TKEYRecord struct {
	H          RRHeader
	Algorithm  DomainName
	Inception  uint32
	Expiration uint32
	Mode       uint16
	Error      RCode
	Key        []byte
	OtherData  []byte
}

func (r *TKEYRecord) Header() *RRHeader { return &r.H }
func (r *TKEYRecord) Type() RecordType  { return TypeTKEY }

func (r *TKEYRecord) maxRDataLen() int {
	return r.Algorithm.EncodedLen() + 4 + 4 + 2 + 2 + 2 + len(r.Key) + 2 + len(r.OtherData)
}

func (r *TKEYRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	var err error
	buf, err = EncodeName(buf, r.Algorithm, nil, true)
	if err != nil {
		return nil, err
	}
	buf = putUint32(buf, r.Inception)
	buf = putUint32(buf, r.Expiration)
	buf = putUint16(buf, r.Mode)
	buf = putUint16(buf, uint16(r.Error))
	if len(r.Key) > 0xFFFF {
		return nil, fmt.Errorf("%w: TKEY key data exceeds 65535 octets", ErrMalformedWire)
	}
	buf = putUint16(buf, helpers.ClampIntToUint16(len(r.Key)))
	buf = append(buf, r.Key...)
	if len(r.OtherData) > 0xFFFF {
		return nil, fmt.Errorf("%w: TKEY other-data exceeds 65535 octets", ErrMalformedWire)
	}
	buf = putUint16(buf, helpers.ClampIntToUint16(len(r.OtherData)))
	buf = append(buf, r.OtherData...)
	return buf, nil
}

func (r *TKEYRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	alg, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	inception, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	expiration, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	mode, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	tkeyErr, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	keyLen, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	key, off, err := readBytes(msg, off, int(keyLen))
	if err != nil {
		return err
	}
	otherLen, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	other, off, err := readBytes(msg, off, int(otherLen))
	if err != nil {
		return err
	}
	r.Algorithm, r.Inception, r.Expiration = alg, inception, expiration
	r.Mode, r.Error, r.Key, r.OtherData = mode, RCode(tkeyErr), key, other
	return requireExact(off, end)
}

func (r *TKEYRecord) packMasterRData() (string, error) {
	raw, err := r.packRData(nil, nil, false)
	if err != nil {
		return "", err
	}
	return genericRDataText(raw), nil
}

func (r *TKEYRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if !isGenericSyntax(fields) {
		return fmt.Errorf("%w: TKEY has no zone-file presentation form, only \\# generic syntax is accepted", ErrUnsupported)
	}
	return decodeGenericRData(r, fields)
}
