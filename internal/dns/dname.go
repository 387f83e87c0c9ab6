package dns

import "fmt"

func init() {
	register(TypeDNAME, func() RR { return &DNAMERecord{} })
}

// DNAMERecord redirects a subtree to another subtree (RFC 6672 §2). Unlike
// NS/CNAME/PTR, the target name is never compressed on the wire, even in
// non-canonical messages: several historical resolvers mishandle a
// compressed DNAME target, so producers always spell it out in full.
type DNAMERecord struct {
	H      RRHeader
	Target DomainName
}

func NewDNAMERecord(h RRHeader, target DomainName) *DNAMERecord {
	return &DNAMERecord{H: h, Target: target}
}

func (r *DNAMERecord) Header() *RRHeader { return &r.H }
func (r *DNAMERecord) Type() RecordType  { return TypeDNAME }
func (r *DNAMERecord) maxRDataLen() int  { return r.Target.EncodedLen() }

func (r *DNAMERecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	return EncodeName(buf, r.Target, nil, canonical)
}

func (r *DNAMERecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	name, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Target = name
	return requireExact(off, end)
}

func (r *DNAMERecord) packMasterRData() (string, error) {
	return r.Target.String(), nil
}

func (r *DNAMERecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: DNAME record requires exactly one name field", ErrMalformedMasterFile)
	}
	n, err := ParseName(fields[0], origin)
	if err != nil {
		return err
	}
	r.Target = n
	return nil
}
