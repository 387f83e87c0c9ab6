package dns

import "fmt"

func init() {
	register(TypeEUI48, func() RR { return &EUI48Record{} })
	register(TypeEUI64, func() RR { return &EUI64Record{} })
}

// EUI48Record carries a 48-bit (MAC-48/EUI-48) hardware address (RFC 7043
// §3), presented as six hyphen-separated hex octets.
type EUI48Record struct {
	H       RRHeader
	Address [6]byte
}

func (r *EUI48Record) Header() *RRHeader { return &r.H }
func (r *EUI48Record) Type() RecordType  { return TypeEUI48 }
func (r *EUI48Record) maxRDataLen() int  { return 6 }

func (r *EUI48Record) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return append(buf, r.Address[:]...), nil
}

func (r *EUI48Record) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 6 {
		return fmt.Errorf("%w: EUI48 rdata must be 6 bytes, got %d", ErrMalformedWire, rdlen)
	}
	b, off, err := readBytes(msg, off, 6)
	if err != nil {
		return err
	}
	copy(r.Address[:], b)
	return requireExact(off, off)
}

func (r *EUI48Record) packMasterRData() (string, error) {
	a := r.Address
	return fmt.Sprintf("%02x-%02x-%02x-%02x-%02x-%02x", a[0], a[1], a[2], a[3], a[4], a[5]), nil
}

func (r *EUI48Record) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: EUI48 record requires exactly one address field", ErrMalformedMasterFile)
	}
	addr, err := parseEUI(fields[0], 6)
	if err != nil {
		return err
	}
	copy(r.Address[:], addr)
	return nil
}

// EUI64Record carries a 64-bit (EUI-64) hardware address (RFC 7043 §4).
type EUI64Record struct {
	H       RRHeader
	Address [8]byte
}

func (r *EUI64Record) Header() *RRHeader { return &r.H }
func (r *EUI64Record) Type() RecordType  { return TypeEUI64 }
func (r *EUI64Record) maxRDataLen() int  { return 8 }

func (r *EUI64Record) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return append(buf, r.Address[:]...), nil
}

func (r *EUI64Record) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 8 {
		return fmt.Errorf("%w: EUI64 rdata must be 8 bytes, got %d", ErrMalformedWire, rdlen)
	}
	b, off, err := readBytes(msg, off, 8)
	if err != nil {
		return err
	}
	copy(r.Address[:], b)
	return requireExact(off, off)
}

func (r *EUI64Record) packMasterRData() (string, error) {
	a := r.Address
	return fmt.Sprintf("%02x-%02x-%02x-%02x-%02x-%02x-%02x-%02x", a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7]), nil
}

func (r *EUI64Record) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 1 {
		return fmt.Errorf("%w: EUI64 record requires exactly one address field", ErrMalformedMasterFile)
	}
	addr, err := parseEUI(fields[0], 8)
	if err != nil {
		return err
	}
	copy(r.Address[:], addr)
	return nil
}

// parseEUI parses a '-'-separated hex-octet hardware address of exactly n
// octets (RFC 7043 §3/§4 master-file form).
func parseEUI(s string, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '-' {
			b, err := DecodeBase16(s[start:i])
			if err != nil || len(b) != 1 {
				return nil, fmt.Errorf("%w: invalid EUI octet in %q", ErrMalformedMasterFile, s)
			}
			out = append(out, b[0])
			start = i + 1
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: EUI address requires %d octets, got %d", ErrMalformedMasterFile, n, len(out))
	}
	return out, nil
}
