// Package dns implements the DNS wire-format codec and record-type registry:
// header/question/resource-record framing, name compression, and one
// implementation per resource-record variant (binary, master-file, and JSON
// forms), per RFC 1035 and its many extensions (RFC 3596, RFC 4034/4035,
// RFC 6891, RFC 7553, RFC 8427, and others named on each record type).
//
// Type-Oriented Design:
//
// Each resource-record variant is represented by an explicit Go type
// implementing the RR interface, rather than a single generic struct keyed
// by a type switch. This keeps per-type wire layouts and master-file
// grammars type-safe and makes DNS semantics explicit at the call site.
//
// Error Handling:
//
// Decoders never panic on malformed input; every parse failure is a value
// wrapped with fmt.Errorf("...: %w", ...) around one of the sentinels below.
package dns

import "errors"

var (
	// ErrMalformedWire is returned for truncated buffers, invalid compression
	// pointers, over-length names, rdlength mismatches, and other wire-format
	// violations detected while decoding.
	ErrMalformedWire = errors.New("dns: malformed wire data")

	// ErrMalformedMasterFile is returned for master-file (zone-file) syntax
	// errors: wrong field counts, unparseable numerics, bad escapes, bad
	// base16/32/64 text.
	ErrMalformedMasterFile = errors.New("dns: malformed master-file data")

	// ErrUnsupported is returned when a registered type's decoder refuses
	// input it cannot represent, e.g. an SvcB record with duplicate
	// parameter keys, or when no decoder is registered and generic syntax
	// was not used.
	ErrUnsupported = errors.New("dns: unsupported record data")

	// ErrVerificationFailure is returned for TSIG/DNSSEC verification
	// failures (bad key, bad time, bad signature, or bad MAC).
	ErrVerificationFailure = errors.New("dns: verification failed")

	// ErrTransportFailure is returned by transport-layer collaborators
	// (internal/transport and its subpackages) for send/receive failures
	// that are not themselves malformed-message errors: connection refused,
	// read/write deadline exceeded, listener closed, or a peer that closed
	// the stream mid-message.
	ErrTransportFailure = errors.New("dns: transport failure")
)
