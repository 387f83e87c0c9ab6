package dns

import "fmt"

func init() {
	register(TypeNSAP, func() RR { return &NSAPRecord{} })
}

// NSAPRecord carries a raw NSAP address (RFC 1706 §5), presented in master
// files as "0x" followed by hex digits.
type NSAPRecord struct {
	H       RRHeader
	Address []byte
}

func (r *NSAPRecord) Header() *RRHeader { return &r.H }
func (r *NSAPRecord) Type() RecordType  { return TypeNSAP }
func (r *NSAPRecord) maxRDataLen() int  { return len(r.Address) }

func (r *NSAPRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return append(buf, r.Address...), nil
}

func (r *NSAPRecord) unpackRData(msg []byte, off, rdlen int) error {
	addr, off, err := readBytes(msg, off, rdlen)
	if err != nil {
		return err
	}
	r.Address = addr
	return requireExact(off, off)
}

func (r *NSAPRecord) packMasterRData() (string, error) {
	return "0x" + EncodeBase16(r.Address), nil
}

func (r *NSAPRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: NSAP record requires exactly one address field", ErrMalformedMasterFile)
	}
	hexText := fields[0]
	if len(hexText) >= 2 && (hexText[:2] == "0x" || hexText[:2] == "0X") {
		hexText = hexText[2:]
	}
	addr, err := DecodeBase16(hexText)
	if err != nil {
		return err
	}
	r.Address = addr
	return nil
}
