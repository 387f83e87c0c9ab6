package dns

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// base32HexNoPad is the NSEC3 alphabet (RFC 4648 §7), unpadded — hashed
// owner names in zone files never carry '=' padding.
var base32HexNoPad = base32.HexEncoding.WithPadding(base32.NoPadding)

// EncodeBase32 encodes b with the standard padded base32 alphabet
// (RFC 4648 §6). No current record type's master-file form uses it, but the
// primitive codec layer (§3.1) specifies it alongside base32hex.
func EncodeBase32(b []byte) string {
	return base32.StdEncoding.EncodeToString(b)
}

// DecodeBase32 decodes standard or unpadded base32 text.
func DecodeBase32(s string) ([]byte, error) {
	if b, err := base32.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base32 text: %v", ErrMalformedMasterFile, err)
	}
	return b, nil
}

// EncodeBase16 encodes b as uppercase hex (RFC 4648 §8), the form DNSKEY/DS
// digests and RDATAHEX use.
func EncodeBase16(b []byte) string {
	return fmt.Sprintf("%X", b)
}

// DecodeBase16 decodes case-insensitive hex text.
func DecodeBase16(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base16 text: %v", ErrMalformedMasterFile, err)
	}
	return b, nil
}

// EncodeBase32Hex encodes b with the unpadded base32hex alphabet (RFC 4648
// §7), used for NSEC3 hashed owner/next-owner names.
func EncodeBase32Hex(b []byte) string {
	return base32HexNoPad.EncodeToString(b)
}

// DecodeBase32Hex decodes unpadded or padded base32hex text.
func DecodeBase32Hex(s string) ([]byte, error) {
	enc := base32HexNoPad
	if len(s)%8 != 0 {
		// unpadded input is decoded as is by base32HexNoPad below
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		// retry with padded variant in case the input carried '='
		b, err = base32.HexEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base32hex text: %v", ErrMalformedMasterFile, err)
		}
	}
	return b, nil
}

// EncodeBase64 encodes b with standard padded base64 (RFC 4648 §4), the form
// DNSKEY/RRSIG/TSIG master-file text uses.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 decodes standard or raw (unpadded) base64 text.
func DecodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 text: %v", ErrMalformedMasterFile, err)
	}
	return b, nil
}

// EncodeBase64URL encodes b with URL-safe unpadded base64 (RFC 4648 §5),
// used by SvcB/HTTPS "ech" style opaque parameter values in some deployments.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL decodes URL-safe base64 text, padded or not.
func DecodeBase64URL(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64url text: %v", ErrMalformedMasterFile, err)
	}
	return b, nil
}
