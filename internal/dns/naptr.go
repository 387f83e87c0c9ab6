package dns

import "fmt"

func init() {
	register(TypeNAPTR, func() RR { return &NAPTRRecord{} })
}

// NAPTRRecord is a naming authority pointer record (RFC 3403 §4.1). The
// replacement name is never compressed (it was added after RFC 1035's
// compression rules and conventionally spelled out in full).
type NAPTRRecord struct {
	H           RRHeader
	Order       uint16
	Preference  uint16
	Flags       string
	Service     string
	Regexp      string
	Replacement DomainName
}

func (r *NAPTRRecord) Header() *RRHeader { return &r.H }
func (r *NAPTRRecord) Type() RecordType  { return TypeNAPTR }

func (r *NAPTRRecord) maxRDataLen() int {
	return 4 + stringSetLength([]string{r.Flags, r.Service, r.Regexp}) + r.Replacement.EncodedLen()
}

func (r *NAPTRRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf = putUint16(buf, r.Order)
	buf = putUint16(buf, r.Preference)
	var err error
	buf, err = putString(buf, r.Flags)
	if err != nil {
		return nil, err
	}
	buf, err = putString(buf, r.Service)
	if err != nil {
		return nil, err
	}
	buf, err = putString(buf, r.Regexp)
	if err != nil {
		return nil, err
	}
	return EncodeName(buf, r.Replacement, nil, canonical)
}

func (r *NAPTRRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	order, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	preference, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	flags, off, err := readString(msg, off)
	if err != nil {
		return err
	}
	service, off, err := readString(msg, off)
	if err != nil {
		return err
	}
	regexp, off, err := readString(msg, off)
	if err != nil {
		return err
	}
	replacement, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Order, r.Preference = order, preference
	r.Flags, r.Service, r.Regexp = flags, service, regexp
	r.Replacement = replacement
	return requireExact(off, end)
}

func (r *NAPTRRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %q %q %q %s", r.Order, r.Preference, r.Flags, r.Service, r.Regexp, r.Replacement.String()), nil
}

func (r *NAPTRRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 6 {
		return fmt.Errorf("%w: NAPTR record requires 6 fields, got %d", ErrMalformedMasterFile, len(fields))
	}
	order, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	preference, err := ParseUint16Field(fields[1])
	if err != nil {
		return err
	}
	flags, err := UnescapeCharString(fields[2])
	if err != nil {
		return err
	}
	service, err := UnescapeCharString(fields[3])
	if err != nil {
		return err
	}
	regexp, err := UnescapeCharString(fields[4])
	if err != nil {
		return err
	}
	replacement, err := ParseName(fields[5], origin)
	if err != nil {
		return err
	}
	r.Order, r.Preference = order, preference
	r.Flags, r.Service, r.Regexp = flags, service, regexp
	r.Replacement = replacement
	return nil
}
