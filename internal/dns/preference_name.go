package dns

import "fmt"

func init() {
	register(TypeMX, func() RR { return &PreferenceNameRecord{T: TypeMX} })
	register(TypeAFSDB, func() RR { return &PreferenceNameRecord{T: TypeAFSDB} })
	register(TypeRT, func() RR { return &PreferenceNameRecord{T: TypeRT} })
	register(TypeKX, func() RR { return &PreferenceNameRecord{T: TypeKX} })
}

// PreferenceNameRecord covers MX (RFC 1035 §3.3.9), AFSDB (RFC 1183 §1), RT
// (RFC 1183 §3), and KX (RFC 2230 §3): a 16-bit preference followed by a
// target DomainName, compressed on encode unless canonical.
type PreferenceNameRecord struct {
	H          RRHeader
	T          RecordType
	Preference uint16
	Target     DomainName
}

func NewMXRecord(h RRHeader, preference uint16, target DomainName) *PreferenceNameRecord {
	return &PreferenceNameRecord{H: h, T: TypeMX, Preference: preference, Target: target}
}

func (r *PreferenceNameRecord) Header() *RRHeader { return &r.H }
func (r *PreferenceNameRecord) Type() RecordType  { return r.T }
func (r *PreferenceNameRecord) maxRDataLen() int  { return 2 + r.Target.EncodedLen() }

func (r *PreferenceNameRecord) packRData(buf []byte, dict compressionDict, canonical bool) ([]byte, error) {
	buf = putUint16(buf, r.Preference)
	return EncodeName(buf, r.Target, dict, canonical)
}

func (r *PreferenceNameRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	pref, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	name, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Preference, r.Target = pref, name
	return requireExact(off, end)
}

func (r *PreferenceNameRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %s", r.Preference, r.Target.String()), nil
}

func (r *PreferenceNameRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: %s record requires preference and target fields", ErrMalformedMasterFile, r.T.TypeName())
	}
	pref, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	target, err := ParseName(fields[1], origin)
	if err != nil {
		return err
	}
	r.Preference, r.Target = pref, target
	return nil
}
