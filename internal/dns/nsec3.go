package dns

import "fmt"

func init() {
	register(TypeNSEC3, func() RR { return &NSEC3Record{} })
	register(TypeNSEC3PARAM, func() RR { return &NSEC3PARAMRecord{} })
}

// NSEC3Record proves non-existence via a hashed owner chain (RFC 5155 §3).
type NSEC3Record struct {
	H             RRHeader
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
	NextHashed    []byte
	Types         []RecordType
}

func (r *NSEC3Record) Header() *RRHeader { return &r.H }
func (r *NSEC3Record) Type() RecordType  { return TypeNSEC3 }

func (r *NSEC3Record) maxRDataLen() int {
	return 6 + len(r.Salt) + len(r.NextHashed) + typeBitmapLen(r.Types)
}

func (r *NSEC3Record) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	if len(r.Salt) > 0xFF {
		return nil, fmt.Errorf("%w: NSEC3 salt exceeds 255 octets", ErrMalformedWire)
	}
	if len(r.NextHashed) > 0xFF {
		return nil, fmt.Errorf("%w: NSEC3 next-hashed-owner exceeds 255 octets", ErrMalformedWire)
	}
	buf = putUint8(buf, r.HashAlgorithm)
	buf = putUint8(buf, r.Flags)
	buf = putUint16(buf, r.Iterations)
	buf = putUint8(buf, uint8(len(r.Salt)))
	buf = append(buf, r.Salt...)
	buf = putUint8(buf, uint8(len(r.NextHashed)))
	buf = append(buf, r.NextHashed...)
	return append(buf, encodeTypeBitmap(r.Types)...), nil
}

func (r *NSEC3Record) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	hashAlg, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	flags, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	iterations, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	saltLen, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	salt, off, err := readBytes(msg, off, int(saltLen))
	if err != nil {
		return err
	}
	hashLen, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	nextHashed, off, err := readBytes(msg, off, int(hashLen))
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: NSEC3 rdata too short", ErrMalformedWire)
	}
	types, err := decodeTypeBitmap(msg[off:end])
	if err != nil {
		return err
	}
	r.HashAlgorithm, r.Flags, r.Iterations = hashAlg, flags, iterations
	r.Salt, r.NextHashed, r.Types = salt, nextHashed, types
	return nil
}

func (r *NSEC3Record) packMasterRData() (string, error) {
	salt := "-"
	if len(r.Salt) > 0 {
		salt = EncodeBase16(r.Salt)
	}
	return fmt.Sprintf("%d %d %d %s %s %s",
		r.HashAlgorithm, r.Flags, r.Iterations, salt,
		EncodeBase32Hex(r.NextHashed), formatTypeBitmap(r.Types)), nil
}

func (r *NSEC3Record) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 5 {
		return fmt.Errorf("%w: NSEC3 record requires at least 5 fields", ErrMalformedMasterFile)
	}
	hashAlg, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	flags, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	iterations, err := ParseUint16Field(fields[2])
	if err != nil {
		return err
	}
	var salt []byte
	if fields[3] != "-" {
		salt, err = DecodeBase16(fields[3])
		if err != nil {
			return err
		}
	}
	nextHashed, err := DecodeBase32Hex(fields[4])
	if err != nil {
		return err
	}
	types, err := parseTypeTokenList(fields[5:])
	if err != nil {
		return err
	}
	r.HashAlgorithm, r.Flags, r.Iterations = hashAlg, flags, iterations
	r.Salt, r.NextHashed, r.Types = salt, nextHashed, types
	return nil
}

// NSEC3PARAMRecord advertises the NSEC3 hash parameters a zone uses for
// authenticated denial (RFC 5155 §4).
type NSEC3PARAMRecord struct {
	H             RRHeader
	HashAlgorithm uint8
	Flags         uint8
	Iterations    uint16
	Salt          []byte
}

func (r *NSEC3PARAMRecord) Header() *RRHeader { return &r.H }
func (r *NSEC3PARAMRecord) Type() RecordType  { return TypeNSEC3PARAM }
func (r *NSEC3PARAMRecord) maxRDataLen() int  { return 5 + len(r.Salt) }

func (r *NSEC3PARAMRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	if len(r.Salt) > 0xFF {
		return nil, fmt.Errorf("%w: NSEC3PARAM salt exceeds 255 octets", ErrMalformedWire)
	}
	buf = putUint8(buf, r.HashAlgorithm)
	buf = putUint8(buf, r.Flags)
	buf = putUint16(buf, r.Iterations)
	buf = putUint8(buf, uint8(len(r.Salt)))
	return append(buf, r.Salt...), nil
}

func (r *NSEC3PARAMRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	hashAlg, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	flags, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	iterations, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	saltLen, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	salt, off, err := readBytes(msg, off, int(saltLen))
	if err != nil {
		return err
	}
	r.HashAlgorithm, r.Flags, r.Iterations, r.Salt = hashAlg, flags, iterations, salt
	return requireExact(off, end)
}

func (r *NSEC3PARAMRecord) packMasterRData() (string, error) {
	salt := "-"
	if len(r.Salt) > 0 {
		salt = EncodeBase16(r.Salt)
	}
	return fmt.Sprintf("%d %d %d %s", r.HashAlgorithm, r.Flags, r.Iterations, salt), nil
}

func (r *NSEC3PARAMRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) != 4 {
		return fmt.Errorf("%w: NSEC3PARAM record requires 4 fields, got %d", ErrMalformedMasterFile, len(fields))
	}
	hashAlg, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	flags, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	iterations, err := ParseUint16Field(fields[2])
	if err != nil {
		return err
	}
	var salt []byte
	if fields[3] != "-" {
		salt, err = DecodeBase16(fields[3])
		if err != nil {
			return err
		}
	}
	r.HashAlgorithm, r.Flags, r.Iterations, r.Salt = hashAlg, flags, iterations, salt
	return nil
}
