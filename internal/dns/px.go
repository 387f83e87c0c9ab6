package dns

import "fmt"

func init() {
	register(TypePX, func() RR { return &PXRecord{} })
}

// PXRecord maps between RFC 822 and X.400 mail addressing (RFC 2163 §4):
// a preference followed by two uncompressed names.
type PXRecord struct {
	H          RRHeader
	Preference uint16
	Map822     DomainName
	MapX400    DomainName
}

func (r *PXRecord) Header() *RRHeader { return &r.H }
func (r *PXRecord) Type() RecordType  { return TypePX }

func (r *PXRecord) maxRDataLen() int {
	return 2 + r.Map822.EncodedLen() + r.MapX400.EncodedLen()
}

func (r *PXRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf = putUint16(buf, r.Preference)
	buf, err := EncodeName(buf, r.Map822, nil, canonical)
	if err != nil {
		return nil, err
	}
	return EncodeName(buf, r.MapX400, nil, canonical)
}

func (r *PXRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	pref, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	map822, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	mapX400, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Preference, r.Map822, r.MapX400 = pref, map822, mapX400
	return requireExact(off, end)
}

func (r *PXRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %s %s", r.Preference, r.Map822.String(), r.MapX400.String()), nil
}

func (r *PXRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("%w: PX record requires preference, map822, and mapx400 fields", ErrMalformedMasterFile)
	}
	pref, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	map822, err := ParseName(fields[1], origin)
	if err != nil {
		return err
	}
	mapX400, err := ParseName(fields[2], origin)
	if err != nil {
		return err
	}
	r.Preference, r.Map822, r.MapX400 = pref, map822, mapX400
	return nil
}
