package dns

import "fmt"

func init() {
	register(TypeCAA, func() RR { return &CAARecord{} })
}

// CAARecord constrains which CAs may issue certificates for a name (RFC 8659 §4).
type CAARecord struct {
	H     RRHeader
	Flags uint8
	Tag   string
	Value string
}

func (r *CAARecord) Header() *RRHeader { return &r.H }
func (r *CAARecord) Type() RecordType  { return TypeCAA }
func (r *CAARecord) maxRDataLen() int  { return 2 + len(r.Tag) + len(r.Value) }

func (r *CAARecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint8(buf, r.Flags)
	var err error
	buf, err = putString(buf, r.Tag)
	if err != nil {
		return nil, err
	}
	return append(buf, r.Value...), nil
}

func (r *CAARecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	flags, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	tag, off, err := readString(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: CAA tag overruns rdata", ErrMalformedWire)
	}
	value, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.Flags, r.Tag, r.Value = flags, tag, string(value)
	return requireExact(off, end)
}

func (r *CAARecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %s %q", r.Flags, r.Tag, r.Value), nil
}

func (r *CAARecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("%w: CAA record requires flags, tag, and value fields", ErrMalformedMasterFile)
	}
	flags, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	value, err := UnescapeCharString(fields[2])
	if err != nil {
		return err
	}
	r.Flags, r.Tag, r.Value = flags, fields[1], value
	return nil
}
