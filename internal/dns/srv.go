package dns

import "fmt"

func init() {
	register(TypeSRV, func() RR { return &SRVRecord{} })
}

// SRVRecord is a service location record (RFC 2782). Its target name is
// never compressed, per RFC 2782's canonicalization note.
type SRVRecord struct {
	H        RRHeader
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   DomainName
}

func (r *SRVRecord) Header() *RRHeader { return &r.H }
func (r *SRVRecord) Type() RecordType  { return TypeSRV }
func (r *SRVRecord) maxRDataLen() int  { return 6 + r.Target.EncodedLen() }

func (r *SRVRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf = putUint16(buf, r.Priority)
	buf = putUint16(buf, r.Weight)
	buf = putUint16(buf, r.Port)
	return EncodeName(buf, r.Target, nil, canonical)
}

func (r *SRVRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	priority, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	weight, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	port, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	target, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Priority, r.Weight, r.Port, r.Target = priority, weight, port, target
	return requireExact(off, end)
}

func (r *SRVRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %d %s", r.Priority, r.Weight, r.Port, r.Target.String()), nil
}

func (r *SRVRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 4 {
		return fmt.Errorf("%w: SRV record requires priority, weight, port, and target fields", ErrMalformedMasterFile)
	}
	priority, err := ParseUint16Field(fields[0])
	if err != nil {
		return err
	}
	weight, err := ParseUint16Field(fields[1])
	if err != nil {
		return err
	}
	port, err := ParseUint16Field(fields[2])
	if err != nil {
		return err
	}
	target, err := ParseName(fields[3], origin)
	if err != nil {
		return err
	}
	r.Priority, r.Weight, r.Port, r.Target = priority, weight, port, target
	return nil
}
