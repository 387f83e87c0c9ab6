package dns

import "fmt"

func init() {
	register(TypeNSEC, func() RR { return &NSECRecord{} })
}

// NSECRecord proves non-existence by naming the next owner in canonical
// order and the set of types present at this owner (RFC 4034 §4). The next
// owner name is never compressed and is not lowercased on the wire (only
// canonical rdata comparison lowercases it).
type NSECRecord struct {
	H         RRHeader
	NextOwner DomainName
	Types     []RecordType
}

func (r *NSECRecord) Header() *RRHeader { return &r.H }
func (r *NSECRecord) Type() RecordType  { return TypeNSEC }

func (r *NSECRecord) maxRDataLen() int {
	return r.NextOwner.EncodedLen() + typeBitmapLen(r.Types)
}

func (r *NSECRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	var err error
	buf, err = EncodeName(buf, r.NextOwner, nil, canonical)
	if err != nil {
		return nil, err
	}
	return append(buf, encodeTypeBitmap(r.Types)...), nil
}

func (r *NSECRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	next, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: NSEC rdata too short", ErrMalformedWire)
	}
	types, err := decodeTypeBitmap(msg[off:end])
	if err != nil {
		return err
	}
	r.NextOwner, r.Types = next, types
	return requireExact(end, end)
}

func (r *NSECRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%s %s", r.NextOwner.String(), formatTypeBitmap(r.Types)), nil
}

func (r *NSECRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) < 1 {
		return fmt.Errorf("%w: NSEC record requires a next-owner field", ErrMalformedMasterFile)
	}
	next, err := ParseName(fields[0], origin)
	if err != nil {
		return err
	}
	types, err := parseTypeTokenList(fields[1:])
	if err != nil {
		return err
	}
	r.NextOwner, r.Types = next, types
	return nil
}

func parseTypeTokenList(fields []string) ([]RecordType, error) {
	types := make([]RecordType, 0, len(fields))
	for _, f := range fields {
		t, err := ParseTypeToken(f)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}
