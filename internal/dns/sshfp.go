package dns

import "fmt"

func init() {
	register(TypeSSHFP, func() RR { return &SSHFPRecord{} })
}

// SSHFPRecord publishes an SSH public key fingerprint (RFC 4255 §3.1).
type SSHFPRecord struct {
	H           RRHeader
	Algorithm   uint8
	FPType      uint8
	Fingerprint []byte
}

func (r *SSHFPRecord) Header() *RRHeader { return &r.H }
func (r *SSHFPRecord) Type() RecordType  { return TypeSSHFP }
func (r *SSHFPRecord) maxRDataLen() int  { return 2 + len(r.Fingerprint) }

func (r *SSHFPRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint8(buf, r.Algorithm)
	buf = putUint8(buf, r.FPType)
	return append(buf, r.Fingerprint...), nil
}

func (r *SSHFPRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	algorithm, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	fpType, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: SSHFP rdata too short", ErrMalformedWire)
	}
	fingerprint, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	r.Algorithm, r.FPType, r.Fingerprint = algorithm, fpType, fingerprint
	return requireExact(off, end)
}

func (r *SSHFPRecord) packMasterRData() (string, error) {
	return fmt.Sprintf("%d %d %s", r.Algorithm, r.FPType, EncodeBase16(r.Fingerprint)), nil
}

func (r *SSHFPRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: SSHFP record requires algorithm, fp type, and fingerprint fields", ErrMalformedMasterFile)
	}
	algorithm, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	fpType, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	fingerprint, err := DecodeBase16(joinFields(fields[2:]))
	if err != nil {
		return err
	}
	r.Algorithm, r.FPType, r.Fingerprint = algorithm, fpType, fingerprint
	return nil
}
