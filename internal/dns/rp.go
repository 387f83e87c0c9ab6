package dns

import "fmt"

func init() {
	register(TypeRP, func() RR { return &RPRecord{} })
}

// RPRecord names a responsible person for a domain (RFC 1183 §2.2): a
// mailbox name (first label user-part, '@' replaced by '.') and a name
// whose TXT records carry further information. Neither name is compressed.
type RPRecord struct {
	H         RRHeader
	Mbox      DomainName
	TXTDomain DomainName
}

func (r *RPRecord) Header() *RRHeader { return &r.H }
func (r *RPRecord) Type() RecordType  { return TypeRP }

func (r *RPRecord) maxRDataLen() int {
	return r.Mbox.EncodedLen() + r.TXTDomain.EncodedLen()
}

func (r *RPRecord) packRData(buf []byte, _ compressionDict, canonical bool) ([]byte, error) {
	buf, err := EncodeName(buf, r.Mbox, nil, canonical)
	if err != nil {
		return nil, err
	}
	return EncodeName(buf, r.TXTDomain, nil, canonical)
}

func (r *RPRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	mbox, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	txt, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Mbox, r.TXTDomain = mbox, txt
	return requireExact(off, end)
}

func (r *RPRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%s %s", r.Mbox.String(), r.TXTDomain.String()), nil
}

func (r *RPRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: RP record requires mbox and txt-domain fields", ErrMalformedMasterFile)
	}
	mbox, err := ParseName(fields[0], origin)
	if err != nil {
		return err
	}
	txt, err := ParseName(fields[1], origin)
	if err != nil {
		return err
	}
	r.Mbox, r.TXTDomain = mbox, txt
	return nil
}
