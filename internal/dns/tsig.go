package dns

import (
	"fmt"

	"github.com/kestreldns/dnscore/internal/helpers"
)

func init() {
	register(TypeTSIG, func() RR { return &TSIGRecord{} })
}

// TSIGRecord is the transaction signature pseudo-record (RFC 8945 §4.2).
// It is never stored in a zone; it is appended to the additional section of
// a signed message and MUST be the section's last record (enforced by
// validateAdditionalsTSIGPlacement, which Message.Marshal calls).
type TSIGRecord struct {
	H          RRHeader
	Algorithm  DomainName
	TimeSigned uint64 // 48-bit value
	Fudge      uint16
	MAC        []byte
	OriginalID uint16
	Error      RCode
	OtherData  []byte
}

func (r *TSIGRecord) Header() *RRHeader { return &r.H }
func (r *TSIGRecord) Type() RecordType  { return TypeTSIG }

func (r *TSIGRecord) maxRDataLen() int {
	return r.Algorithm.EncodedLen() + 6 + 2 + 2 + len(r.MAC) + 2 + 2 + 2 + len(r.OtherData)
}

func (r *TSIGRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	var err error
	buf, err = EncodeName(buf, r.Algorithm, nil, true)
	if err != nil {
		return nil, err
	}
	buf = putUint48(buf, r.TimeSigned)
	buf = putUint16(buf, r.Fudge)
	if len(r.MAC) > 0xFFFF {
		return nil, fmt.Errorf("%w: TSIG MAC exceeds 65535 octets", ErrMalformedWire)
	}
	buf = putUint16(buf, helpers.ClampIntToUint16(len(r.MAC)))
	buf = append(buf, r.MAC...)
	buf = putUint16(buf, r.OriginalID)
	buf = putUint16(buf, uint16(r.Error))
	if len(r.OtherData) > 0xFFFF {
		return nil, fmt.Errorf("%w: TSIG other-data exceeds 65535 octets", ErrMalformedWire)
	}
	buf = putUint16(buf, helpers.ClampIntToUint16(len(r.OtherData)))
	buf = append(buf, r.OtherData...)
	return buf, nil
}

func (r *TSIGRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	alg, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Algorithm = alg

	timeSigned, off, err := readUint48(msg, off)
	if err != nil {
		return err
	}
	r.TimeSigned = timeSigned

	fudge, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	r.Fudge = fudge

	macLen, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	mac, off, err := readBytes(msg, off, int(macLen))
	if err != nil {
		return err
	}
	r.MAC = mac

	origID, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	r.OriginalID = origID

	tsigErr, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	r.Error = RCode(tsigErr)

	otherLen, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	other, off, err := readBytes(msg, off, int(otherLen))
	if err != nil {
		return err
	}
	r.OtherData = other

	return requireExact(off, end)
}

func (r *TSIGRecord) packMasterRData() (string, error) {
	raw, err := r.packRData(nil, nil, false)
	if err != nil {
		return "", err
	}
	return genericRDataText(raw), nil
}

func (r *TSIGRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if !isGenericSyntax(fields) {
		return fmt.Errorf("%w: TSIG has no zone-file presentation form, only \\# generic syntax is accepted", ErrUnsupported)
	}
	return decodeGenericRData(r, fields)
}

func readUint48(msg []byte, off int) (uint64, int, error) {
	b, off, err := readBytes(msg, off, 6)
	if err != nil {
		return 0, off, err
	}
	v := uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 | uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
	return v, off, nil
}

func putUint48(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v>>40), byte(v>>32), byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
