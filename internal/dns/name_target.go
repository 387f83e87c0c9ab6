package dns

import "fmt"

func init() {
	register(TypeNS, func() RR { return &NameTargetRecord{T: TypeNS} })
	register(TypeCNAME, func() RR { return &NameTargetRecord{T: TypeCNAME} })
	register(TypePTR, func() RR { return &NameTargetRecord{T: TypePTR} })
}

// NameTargetRecord covers NS, CNAME, and PTR (§3.3): a single target
// DomainName, compressed on encode unless canonical (§4.4).
type NameTargetRecord struct {
	H      RRHeader
	T      RecordType
	Target DomainName
}

func NewNSRecord(h RRHeader, target DomainName) *NameTargetRecord {
	return &NameTargetRecord{H: h, T: TypeNS, Target: target}
}
func NewCNAMERecord(h RRHeader, target DomainName) *NameTargetRecord {
	return &NameTargetRecord{H: h, T: TypeCNAME, Target: target}
}
func NewPTRRecord(h RRHeader, target DomainName) *NameTargetRecord {
	return &NameTargetRecord{H: h, T: TypePTR, Target: target}
}

func (r *NameTargetRecord) Header() *RRHeader { return &r.H }
func (r *NameTargetRecord) Type() RecordType  { return r.T }
func (r *NameTargetRecord) maxRDataLen() int  { return r.Target.EncodedLen() }

func (r *NameTargetRecord) packRData(buf []byte, dict compressionDict, canonical bool) ([]byte, error) {
	return EncodeName(buf, r.Target, dict, canonical)
}

func (r *NameTargetRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	name, off, err := DecodeName(msg, off)
	if err != nil {
		return err
	}
	r.Target = name
	return requireExact(off, end)
}

func (r *NameTargetRecord) packMasterRData() (string, error) {
	return r.Target.String(), nil
}

func (r *NameTargetRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: %s record requires exactly one name field", ErrMalformedMasterFile, r.T.TypeName())
	}
	n, err := ParseName(fields[0], origin)
	if err != nil {
		return err
	}
	r.Target = n
	return nil
}
