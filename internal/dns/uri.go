package dns

import "fmt"

func init() {
	register(TypeURI, func() RR { return &URIRecord{} })
}

// URIRecord maps a service/name pair to a target URI (RFC 7553 §4.3): a
// priority, a weight, and a target carried as unquoted, non-length-prefixed
// text filling the rest of rdata.
type URIRecord struct {
	H        RRHeader
	Priority uint16
	Weight   uint16
	Target   string
}

func (r *URIRecord) Header() *RRHeader { return &r.H }
func (r *URIRecord) Type() RecordType  { return TypeURI }
func (r *URIRecord) maxRDataLen() int  { return 4 + len(r.Target) }

func (r *URIRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint16(buf, r.Priority)
	buf = putUint16(buf, r.Weight)
	return append(buf, r.Target...), nil
}

func (r *URIRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	priority, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	weight, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: URI rdata too short", ErrMalformedWire)
	}
	target, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.Priority, r.Weight, r.Target = priority, weight, string(target)
	return requireExact(off, end)
}

func (r *URIRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %q", r.Priority, r.Weight, r.Target), nil
}

func (r *URIRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("%w: URI record requires priority, weight, and target fields", ErrMalformedMasterFile)
	}
	priority, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	weight, err := ParseUint16Field(fields[1])
	if err != nil {
		return err
	}
	target, err := UnescapeCharString(fields[2])
	if err != nil {
		return err
	}
	r.Priority, r.Weight, r.Target = priority, weight, target
	return nil
}
