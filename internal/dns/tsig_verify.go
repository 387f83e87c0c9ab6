package dns

import (
	"crypto/subtle"
	"fmt"

	"github.com/kestreldns/dnscore/internal/crypto"
	"github.com/kestreldns/dnscore/internal/helpers"
)

// TSIG algorithm mnemonics (RFC 8945 §6), as they appear in the TSIG RR's
// Algorithm name field.
const (
	TSIGAlgoHMACMD5    = "hmac-md5.sig-alg.reg.int."
	TSIGAlgoHMACSHA1   = "hmac-sha1."
	TSIGAlgoHMACSHA256 = "hmac-sha256."
	TSIGAlgoHMACSHA384 = "hmac-sha384."
	TSIGAlgoHMACSHA512 = "hmac-sha512."
)

// tsigProviderAlgo maps a TSIG algorithm name to the mnemonic crypto.Provider.HMAC expects.
func tsigProviderAlgo(algo DomainName) (string, error) {
	switch algo.String() {
	case TSIGAlgoHMACMD5:
		return "hmac-md5", nil
	case TSIGAlgoHMACSHA1:
		return "hmac-sha1", nil
	case TSIGAlgoHMACSHA256:
		return "hmac-sha256", nil
	case TSIGAlgoHMACSHA384:
		return "hmac-sha384", nil
	case TSIGAlgoHMACSHA512:
		return "hmac-sha512", nil
	default:
		return "", fmt.Errorf("%w: TSIG algorithm %q", ErrUnsupported, algo.String())
	}
}

// tsigVariables encodes the RFC 8945 §4.2 "TSIG variables" that are hashed
// alongside the message: the signing key's owner name and class/TTL (fixed
// at ANY/0 for TSIG), the algorithm name, the signing time window, and the
// error/other-data fields, all in uncompressed wire form.
func tsigVariables(owner DomainName, r *TSIGRecord) ([]byte, error) {
	var buf []byte
	var err error
	buf, err = EncodeName(buf, owner, nil, true)
	if err != nil {
		return nil, err
	}
	buf = putUint16(buf, uint16(ClassANY))
	buf = putUint32(buf, 0)
	buf, err = EncodeName(buf, r.Algorithm, nil, true)
	if err != nil {
		return nil, err
	}
	buf = putUint48(buf, r.TimeSigned)
	buf = putUint16(buf, r.Fudge)
	buf = putUint16(buf, uint16(r.Error))
	buf = putUint16(buf, helpers.ClampIntToUint16(len(r.OtherData)))
	buf = append(buf, r.OtherData...)
	return buf, nil
}

// tsigMACData builds the full data covered by a TSIG MAC: an optional prior
// request MAC (for verifying a response signed in reply to a signed
// request), the message bytes with the TSIG record itself stripped off but
// the original message ID restored, then the TSIG variables.
func tsigMACData(msgWithoutTSIG []byte, owner DomainName, r *TSIGRecord, requestMAC []byte) ([]byte, error) {
	var data []byte
	if len(requestMAC) > 0 {
		data = putUint16(data, helpers.ClampIntToUint16(len(requestMAC)))
		data = append(data, requestMAC...)
	}
	data = append(data, msgWithoutTSIG...)
	vars, err := tsigVariables(owner, r)
	if err != nil {
		return nil, err
	}
	return append(data, vars...), nil
}

// SignTSIG computes the MAC for a message about to be signed and returns a
// populated TSIGRecord ready to append to the message's additional section
// (§6.3 crypto provider collaborator, RFC 8945 §4.2). msgWithoutTSIG is the
// fully encoded message (with OriginalID already in place) before the TSIG
// record is appended.
func SignTSIG(provider crypto.Provider, msgWithoutTSIG []byte, owner DomainName, algo DomainName, key []byte, timeSigned uint64, fudge uint16, requestMAC []byte) (TSIGRecord, error) {
	r := TSIGRecord{
		H:          RRHeader{Name: owner, Type: TypeTSIG, Class: ClassANY, TTL: 0},
		Algorithm:  algo,
		TimeSigned: timeSigned,
		Fudge:      fudge,
	}
	providerAlgo, err := tsigProviderAlgo(algo)
	if err != nil {
		return TSIGRecord{}, err
	}
	data, err := tsigMACData(msgWithoutTSIG, owner, &r, requestMAC)
	if err != nil {
		return TSIGRecord{}, err
	}
	mac, err := provider.HMAC(providerAlgo, key, data)
	if err != nil {
		return TSIGRecord{}, fmt.Errorf("%w: %v", ErrVerificationFailure, err)
	}
	r.MAC = mac
	return r, nil
}

// VerifyTSIG checks a received message's TSIG record against key material
// using provider, returning ErrVerificationFailure wrapping the specific
// DNS-level rcode (BADKEY, BADTIME, or BADSIG) on failure (§7, testable
// property 7). now is the verifier's current time as a 48-bit Unix
// timestamp; the signature is accepted when |now - TimeSigned| <= Fudge.
func VerifyTSIG(provider crypto.Provider, msgWithoutTSIG []byte, owner DomainName, tsig *TSIGRecord, key []byte, requestMAC []byte, now uint64) error {
	providerAlgo, err := tsigProviderAlgo(tsig.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: %v (BADKEY)", ErrVerificationFailure, err)
	}
	diff := int64(now) - int64(tsig.TimeSigned)
	if diff < 0 {
		diff = -diff
	}
	if diff > int64(tsig.Fudge) {
		return fmt.Errorf("%w: TSIG time outside fudge window (BADTIME)", ErrVerificationFailure)
	}
	data, err := tsigMACData(msgWithoutTSIG, owner, tsig, requestMAC)
	if err != nil {
		return err
	}
	expected, err := provider.HMAC(providerAlgo, key, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailure, err)
	}
	if len(expected) != len(tsig.MAC) || subtle.ConstantTimeCompare(expected, tsig.MAC) != 1 {
		return fmt.Errorf("%w: TSIG MAC mismatch (BADSIG)", ErrVerificationFailure)
	}
	return nil
}
