package dns

import "fmt"

func init() {
	register(TypeSOA, func() RR { return &SOARecord{} })
}

// SOARecord marks the start of a zone's authority (RFC 1035 §3.3.13).
type SOARecord struct {
	H       RRHeader
	MName   DomainName // primary master
	RName   DomainName // responsible party mailbox, encoded as a name
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32 // negative-caching TTL (RFC 2308)
}

func (r *SOARecord) Header() *RRHeader { return &r.H }
func (r *SOARecord) Type() RecordType  { return TypeSOA }

func (r *SOARecord) maxRDataLen() int {
	return r.MName.EncodedLen() + r.RName.EncodedLen() + 20
}

func (r *SOARecord) packRData(buf []byte, dict compressionDict, canonical bool) ([]byte, error) {
	var err error
	buf, err = EncodeName(buf, r.MName, dict, canonical)
	if err != nil {
		return nil, err
	}
	buf, err = EncodeName(buf, r.RName, dict, canonical)
	if err != nil {
		return nil, err
	}
	buf = putUint32(buf, r.Serial)
	buf = putUint32(buf, r.Refresh)
	buf = putUint32(buf, r.Retry)
	buf = putUint32(buf, r.Expire)
	buf = putUint32(buf, r.Minimum)
	return buf, nil
}

func (r *SOARecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	mname, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	rname, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	serial, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	refresh, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	retry, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	expire, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	minimum, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	r.MName, r.RName = mname, rname
	r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum = serial, refresh, retry, expire, minimum
	return requireExact(off, end)
}

func (r *SOARecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%s %s %d %d %d %d %d",
		r.MName.String(), r.RName.String(), r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum), nil
}

func (r *SOARecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 7 {
		return fmt.Errorf("%w: SOA record requires 7 fields, got %d", ErrMalformedMasterFile, len(fields))
	}
	mname, err := ParseName(fields[0], origin)
	if err != nil {
		return err
	}
	rname, err := ParseName(fields[1], origin)
	if err != nil {
		return err
	}
	serial, err := ParseUint32Field(fields[2])
	if err != nil {
		return err
	}
	refresh, err := ParseUint32Field(fields[3])
	if err != nil {
		return err
	}
	retry, err := ParseUint32Field(fields[4])
	if err != nil {
		return err
	}
	expire, err := ParseUint32Field(fields[5])
	if err != nil {
		return err
	}
	minimum, err := ParseUint32Field(fields[6])
	if err != nil {
		return err
	}
	r.MName, r.RName = mname, rname
	r.Serial, r.Refresh, r.Retry, r.Expire, r.Minimum = serial, refresh, retry, expire, minimum
	return nil
}
