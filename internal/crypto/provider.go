// Package crypto defines the cryptographic collaborator the codec depends
// on but never implements itself (§6.3): digest, HMAC, sign, and
// verify operations keyed by algorithm name, so that TSIG and DNSSEC code
// paths can be exercised against a fake in tests without pulling in a real
// key store.
package crypto

import "errors"

// ErrUnknownAlgorithm is returned by a Provider when asked to operate on an
// algorithm it does not implement.
var ErrUnknownAlgorithm = errors.New("crypto: unknown algorithm")

// Provider is the collaborator interface consumed by TSIG signing and
// verification (internal/dns/tsig_verify.go) and DNSSEC signature
// verification. The dns package imports only this interface; envelope.Default
// (internal/crypto/envelope) is one concrete implementation, never imported by
// internal/dns itself.
type Provider interface {
	// Digest hashes data under the named algorithm ("md5", "sha1",
	// "sha256", "sha384", "sha512").
	Digest(algo string, data []byte) ([]byte, error)

	// HMAC computes a keyed MAC under the named TSIG algorithm mnemonic
	// ("hmac-md5", "hmac-sha1", "hmac-sha256", "hmac-sha384",
	// "hmac-sha512").
	HMAC(algo string, key, data []byte) ([]byte, error)

	// Verify checks sig against data under the named RRSIG algorithm
	// ("rsasha256", "rsasha512", "ecdsap256sha256", "ecdsap384sha384",
	// "ed25519"), using the supplied public key material in the form the
	// algorithm expects (DNSKEY rdata public-key octets).
	Verify(algo string, pubKey, data, sig []byte) (bool, error)

	// Sign produces a signature over data under the named RRSIG algorithm
	// using a private key in the algorithm's native encoding. Signing is
	// not needed by the codec itself; it exists so the same collaborator
	// interface can back test fixtures and signer tooling.
	Sign(algo string, privKey, data []byte) ([]byte, error)
}
