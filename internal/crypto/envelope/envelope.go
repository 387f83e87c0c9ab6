// Package envelope is the default concrete implementation of the
// crypto.Provider collaborator interface (§6.3). It is never imported
// by internal/dns; callers wire it in explicitly when they need TSIG or
// DNSSEC verification against real key material.
package envelope

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/md5"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"math/big"

	"golang.org/x/crypto/ed25519"

	dnscrypto "github.com/kestreldns/dnscore/internal/crypto"
)

// Default is the package's stock crypto.Provider, backed by the standard
// library's hash and HMAC primitives plus golang.org/x/crypto/ed25519 for
// the EdDSA signature algorithms DNSSEC uses (RFC 8080).
var Default dnscrypto.Provider = provider{}

type provider struct{}

// digestHash returns the crypto.Hash identifier for a digest algorithm mnemonic.
func digestHash(algo string) (crypto.Hash, error) {
	switch algo {
	case "md5":
		return crypto.MD5, nil
	case "sha1":
		return crypto.SHA1, nil
	case "sha256":
		return crypto.SHA256, nil
	case "sha384":
		return crypto.SHA384, nil
	case "sha512":
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("%w: digest algorithm %q", dnscrypto.ErrUnknownAlgorithm, algo)
	}
}

func (provider) Digest(algo string, data []byte) ([]byte, error) {
	h, err := digestHash(algo)
	if err != nil {
		return nil, err
	}
	switch h {
	case crypto.MD5:
		sum := md5.Sum(data)
		return sum[:], nil
	case crypto.SHA1:
		sum := sha1.Sum(data)
		return sum[:], nil
	case crypto.SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case crypto.SHA384:
		sum := sha512.Sum384(data)
		return sum[:], nil
	case crypto.SHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	}
	return nil, fmt.Errorf("%w: digest algorithm %q", dnscrypto.ErrUnknownAlgorithm, algo)
}

func (provider) HMAC(algo string, key, data []byte) ([]byte, error) {
	switch algo {
	case "hmac-md5", "hmac-md5.sig-alg.reg.int":
		mac := hmac.New(md5.New, key)
		mac.Write(data)
		return mac.Sum(nil), nil
	case "hmac-sha1":
		mac := hmac.New(sha1.New, key)
		mac.Write(data)
		return mac.Sum(nil), nil
	case "hmac-sha256":
		mac := hmac.New(sha256.New, key)
		mac.Write(data)
		return mac.Sum(nil), nil
	case "hmac-sha384":
		mac := hmac.New(sha512.New384, key)
		mac.Write(data)
		return mac.Sum(nil), nil
	case "hmac-sha512":
		mac := hmac.New(sha512.New, key)
		mac.Write(data)
		return mac.Sum(nil), nil
	default:
		return nil, fmt.Errorf("%w: HMAC algorithm %q", dnscrypto.ErrUnknownAlgorithm, algo)
	}
}

func (provider) Verify(algo string, pubKey, data, sig []byte) (bool, error) {
	switch algo {
	case "ed25519":
		if len(pubKey) != ed25519.PublicKeySize {
			return false, fmt.Errorf("%w: ed25519 public key must be %d bytes", dnscrypto.ErrUnknownAlgorithm, ed25519.PublicKeySize)
		}
		return ed25519.Verify(ed25519.PublicKey(pubKey), data, sig), nil
	case "rsasha1", "rsasha256", "rsasha512":
		pub, h, err := parseRSAPublicKey(pubKey, algo)
		if err != nil {
			return false, err
		}
		digest, err := hashData(h, data)
		if err != nil {
			return false, err
		}
		return rsa.VerifyPKCS1v15(pub, h, digest, sig) == nil, nil
	case "ecdsap256sha256":
		return verifyECDSA(elliptic.P256(), crypto.SHA256, pubKey, data, sig)
	case "ecdsap384sha384":
		return verifyECDSA(elliptic.P384(), crypto.SHA384, pubKey, data, sig)
	default:
		return false, fmt.Errorf("%w: signature algorithm %q", dnscrypto.ErrUnknownAlgorithm, algo)
	}
}

func (provider) Sign(algo string, privKey, data []byte) ([]byte, error) {
	switch algo {
	case "ed25519":
		if len(privKey) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes", dnscrypto.ErrUnknownAlgorithm, ed25519.PrivateKeySize)
		}
		return ed25519.Sign(ed25519.PrivateKey(privKey), data), nil
	default:
		return nil, fmt.Errorf("%w: signing algorithm %q", dnscrypto.ErrUnknownAlgorithm, algo)
	}
}

func hashData(h crypto.Hash, data []byte) ([]byte, error) {
	hasher := h.New()
	hasher.Write(data)
	return hasher.Sum(nil), nil
}

// parseRSAPublicKey decodes a DNSKEY-rdata-style RSA public key (RFC 3110):
// a one-octet exponent length (or 0 followed by a two-octet length for
// longer exponents), the exponent, then the modulus.
func parseRSAPublicKey(raw []byte, algo string) (*rsa.PublicKey, crypto.Hash, error) {
	var h crypto.Hash
	switch algo {
	case "rsasha1":
		h = crypto.SHA1
	case "rsasha256":
		h = crypto.SHA256
	case "rsasha512":
		h = crypto.SHA512
	}
	if len(raw) < 1 {
		return nil, h, fmt.Errorf("%w: RSA public key too short", dnscrypto.ErrUnknownAlgorithm)
	}
	elen := int(raw[0])
	off := 1
	if elen == 0 {
		if len(raw) < 3 {
			return nil, h, fmt.Errorf("%w: RSA public key truncated extended exponent length", dnscrypto.ErrUnknownAlgorithm)
		}
		elen = int(raw[1])<<8 | int(raw[2])
		off = 3
	}
	if off+elen > len(raw) {
		return nil, h, fmt.Errorf("%w: RSA public key exponent overruns buffer", dnscrypto.ErrUnknownAlgorithm)
	}
	e := new(big.Int).SetBytes(raw[off : off+elen])
	n := new(big.Int).SetBytes(raw[off+elen:])
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, h, nil
}

// verifyECDSA decodes a DNSKEY-rdata-style ECDSA public key (RFC 6605): the
// concatenated big-endian X and Y coordinates, each curve.Params().BitSize/8
// bytes, with no leading format octet.
func verifyECDSA(curve elliptic.Curve, h crypto.Hash, pubKey, data, sig []byte) (bool, error) {
	size := (curve.Params().BitSize + 7) / 8
	if len(pubKey) != 2*size {
		return false, fmt.Errorf("%w: ECDSA public key must be %d bytes", dnscrypto.ErrUnknownAlgorithm, 2*size)
	}
	if len(sig) != 2*size {
		return false, fmt.Errorf("%w: ECDSA signature must be %d bytes", dnscrypto.ErrUnknownAlgorithm, 2*size)
	}
	x := new(big.Int).SetBytes(pubKey[:size])
	y := new(big.Int).SetBytes(pubKey[size:])
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	digest, err := hashData(h, data)
	if err != nil {
		return false, err
	}
	r := new(big.Int).SetBytes(sig[:size])
	s := new(big.Int).SetBytes(sig[size:])
	return ecdsa.Verify(pub, digest, r, s), nil
}
