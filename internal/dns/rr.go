package dns

// RRHeader is the envelope every resource record carries (§3.2): owner
// name, type, class, and TTL. rdata is type-specific and lives on the
// concrete RR implementation.
type RRHeader struct {
	Name  DomainName
	Type  RecordType
	Class RecordClass
	// TTL is the signed 32-bit seconds value as read from the wire.
	// Negative values MUST be treated as 0 on emit (§3.2); Marshal does
	// this without mutating the stored value.
	TTL int32
}

func (h RRHeader) emitTTL() uint32 {
	if h.TTL < 0 {
		return 0
	}
	return uint32(h.TTL)
}

// RR is the tagged-sum-type interface every record variant implements. The
// header is shared scaffolding (envelope.go); each variant supplies its own
// rdata codec, master-file codec, and size estimator.
type RR interface {
	// Header returns the record's envelope.
	Header() *RRHeader

	// Type returns the record's wire type code, which MUST match
	// Header().Type after construction via the registry.
	Type() RecordType

	// packRData appends this record's rdata to buf at the current length,
	// honoring compression (for types that allow it) and canonical form.
	packRData(buf []byte, dict compressionDict, canonical bool) ([]byte, error)

	// unpackRData parses rdata from msg[off:off+rdlen]; msg is the whole
	// message so embedded compression pointers resolve. Implementations
	// MUST consume exactly rdlen bytes of logical content; each
	// implementation enforces this itself (requireExact) and returns
	// ErrMalformedWire otherwise.
	unpackRData(msg []byte, off, rdlen int) error

	// packMasterRData formats rdata as master-file text (space-separated
	// fields), not including the owner/TTL/class/type preamble.
	packMasterRData() (string, error)

	// unpackMasterRData parses pre-tokenized, quote-aware master-file
	// fields into rdata, resolving relative names against origin.
	unpackMasterRData(origin DomainName, fields []string) error

	// maxRDataLen returns an exact-or-overestimate rdata byte count without
	// encoding, so callers can pre-size buffers (§3.2, §4.3).
	maxRDataLen() int
}

// MaxEncodedLen returns rr's maximum possible wire length: the owner name
// plus the 10-byte fixed envelope plus the type's maximum rdata length
// (§3.2). It never allocates.
func MaxEncodedLen(rr RR) int {
	h := rr.Header()
	return h.Name.EncodedLen() + 10 + rr.maxRDataLen()
}

// newByType constructs a zero-value RR for a registered type code, or an
// *UnknownRecord fallback otherwise (§4.2).
func newByType(t RecordType) RR {
	if ctor, ok := registry[t]; ok {
		return ctor()
	}
	return &UnknownRecord{T: t}
}
