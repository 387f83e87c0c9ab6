package dns

import "fmt"

func init() {
	register(TypeX25, func() RR { return &X25Record{} })
	register(TypeISDN, func() RR { return &ISDNRecord{} })
}

// X25Record carries an X.121 PSDN address as a single character-string of
// decimal digits (RFC 1183 §3.1).
type X25Record struct {
	H       RRHeader
	Address string
}

func (r *X25Record) Header() *RRHeader { return &r.H }
func (r *X25Record) Type() RecordType  { return TypeX25 }
func (r *X25Record) maxRDataLen() int  { return 1 + len(r.Address) }

func (r *X25Record) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return putString(buf, r.Address)
}

func (r *X25Record) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	addr, off, err := readString(msg, off)
	if err != nil {
		return err
	}
	r.Address = addr
	return requireExact(off, end)
}

func (r *X25Record) packMasterRData() (string, error) {
	return fmt.Sprintf("%q", r.Address), nil
}

func (r *X25Record) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: X25 record requires exactly one address field", ErrMalformedMasterFile)
	}
	addr, err := UnescapeCharString(fields[0])
	if err != nil {
		return err
	}
	r.Address = addr
	return nil
}

// ISDNRecord carries an ISDN address and an optional subaddress (RFC 1183
// §3.2), both character-strings.
type ISDNRecord struct {
	H           RRHeader
	Address     string
	SubAddress  string
	HasSubAddr  bool
}

func (r *ISDNRecord) Header() *RRHeader { return &r.H }
func (r *ISDNRecord) Type() RecordType  { return TypeISDN }

func (r *ISDNRecord) maxRDataLen() int {
	n := 1 + len(r.Address)
	if r.HasSubAddr {
		n += 1 + len(r.SubAddress)
	}
	return n
}

func (r *ISDNRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf, err := putString(buf, r.Address)
	if err != nil {
		return nil, err
	}
	if r.HasSubAddr {
		return putString(buf, r.SubAddress)
	}
	return buf, nil
}

func (r *ISDNRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	addr, off, err := readString(msg, off)
	if err != nil {
		return err
	}
	r.Address = addr
	r.SubAddress, r.HasSubAddr = "", false
	if off < end {
		sub, off2, err := readString(msg, off)
		if err != nil {
			return err
		}
		r.SubAddress, r.HasSubAddr = sub, true
		off = off2
	}
	return requireExact(off, end)
}

func (r *ISDNRecord) packMasterRData() (string, error) {
	if r.HasSubAddr {
		return fmt.Sprintf("%q %q", r.Address, r.SubAddress), nil
	}
	return fmt.Sprintf("%q", r.Address), nil
}

func (r *ISDNRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 1 || len(fields) > 2 {
		return fmt.Errorf("%w: ISDN record requires an address and optional subaddress field", ErrMalformedMasterFile)
	}
	addr, err := UnescapeCharString(fields[0])
	if err != nil {
		return err
	}
	r.Address = addr
	if len(fields) == 2 {
		sub, err := UnescapeCharString(fields[1])
		if err != nil {
			return err
		}
		r.SubAddress, r.HasSubAddr = sub, true
	} else {
		r.SubAddress, r.HasSubAddr = "", false
	}
	return nil
}
