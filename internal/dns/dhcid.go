package dns

import "fmt"

func init() {
	register(TypeDHCID, func() RR { return &DHCIDRecord{} })
	register(TypeOPENPGPKEY, func() RR { return &OPENPGPKEYRecord{} })
}

// DHCIDRecord associates a DHCP client with a DNS name (RFC 4701 §3.1): an
// opaque digest, presented in master files as base64.
type DHCIDRecord struct {
	H      RRHeader
	Digest []byte
}

func (r *DHCIDRecord) Header() *RRHeader { return &r.H }
func (r *DHCIDRecord) Type() RecordType  { return TypeDHCID }
func (r *DHCIDRecord) maxRDataLen() int  { return len(r.Digest) }

func (r *DHCIDRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return append(buf, r.Digest...), nil
}

func (r *DHCIDRecord) unpackRData(msg []byte, off, rdlen int) error {
	digest, off, err := readBytes(msg, off, rdlen)
	if err != nil {
		return err
	}
	r.Digest = digest
	return requireExact(off, off)
}

func (r *DHCIDRecord) packMasterRData() (string, error) {
	return EncodeBase64(r.Digest), nil
}

func (r *DHCIDRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 1 {
		return fmt.Errorf("%w: DHCID record requires a digest field", ErrMalformedMasterFile)
	}
	digest, err := DecodeBase64(joinFields(fields))
	if err != nil {
		return err
	}
	r.Digest = digest
	return nil
}

// OPENPGPKEYRecord stores an OpenPGP transferable public key (RFC 7929
// §2.1), presented in master files as base64.
type OPENPGPKEYRecord struct {
	H      RRHeader
	PubKey []byte
}

func (r *OPENPGPKEYRecord) Header() *RRHeader { return &r.H }
func (r *OPENPGPKEYRecord) Type() RecordType  { return TypeOPENPGPKEY }
func (r *OPENPGPKEYRecord) maxRDataLen() int  { return len(r.PubKey) }

func (r *OPENPGPKEYRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return append(buf, r.PubKey...), nil
}

func (r *OPENPGPKEYRecord) unpackRData(msg []byte, off, rdlen int) error {
	key, off, err := readBytes(msg, off, rdlen)
	if err != nil {
		return err
	}
	r.PubKey = key
	return requireExact(off, off)
}

func (r *OPENPGPKEYRecord) packMasterRData() (string, error) {
	return EncodeBase64(r.PubKey), nil
}

func (r *OPENPGPKEYRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 1 {
		return fmt.Errorf("%w: OPENPGPKEY record requires a key field", ErrMalformedMasterFile)
	}
	key, err := DecodeBase64(joinFields(fields))
	if err != nil {
		return err
	}
	r.PubKey = key
	return nil
}
