package dns

import (
	"encoding/binary"
	"fmt"
)

func unknownTypeName(t RecordType) string  { return fmt.Sprintf("TYPE%d", uint16(t)) }
func unknownClassName(c RecordClass) string { return fmt.Sprintf("CLASS%d", uint16(c)) }

// readUint8 reads a big-endian u8 at off, returning the new offset.
func readUint8(msg []byte, off int) (uint8, int, error) {
	if off < 0 || off+1 > len(msg) {
		return 0, off, fmt.Errorf("%w: unexpected EOF reading u8", ErrMalformedWire)
	}
	return msg[off], off + 1, nil
}

func readUint16(msg []byte, off int) (uint16, int, error) {
	if off < 0 || off+2 > len(msg) {
		return 0, off, fmt.Errorf("%w: unexpected EOF reading u16", ErrMalformedWire)
	}
	return binary.BigEndian.Uint16(msg[off : off+2]), off + 2, nil
}

func readUint32(msg []byte, off int) (uint32, int, error) {
	if off < 0 || off+4 > len(msg) {
		return 0, off, fmt.Errorf("%w: unexpected EOF reading u32", ErrMalformedWire)
	}
	return binary.BigEndian.Uint32(msg[off : off+4]), off + 4, nil
}

func readUint64(msg []byte, off int) (uint64, int, error) {
	if off < 0 || off+8 > len(msg) {
		return 0, off, fmt.Errorf("%w: unexpected EOF reading u64", ErrMalformedWire)
	}
	return binary.BigEndian.Uint64(msg[off : off+8]), off + 8, nil
}

// readBytes copies exactly n octets starting at off, materializing a copy so
// the result outlives the input buffer.
func readBytes(msg []byte, off, n int) ([]byte, int, error) {
	if n < 0 || off < 0 || off+n > len(msg) {
		return nil, off, fmt.Errorf("%w: unexpected EOF reading %d raw bytes", ErrMalformedWire, n)
	}
	b := make([]byte, n)
	copy(b, msg[off:off+n])
	return b, off + n, nil
}

// readString reads a length-prefixed character-string (RFC 1035 §3.3): one
// length octet followed by that many octets, 0..255.
func readString(msg []byte, off int) (string, int, error) {
	n, off, err := readUint8(msg, off)
	if err != nil {
		return "", off, fmt.Errorf("%w: unexpected EOF reading character-string length", ErrMalformedWire)
	}
	b, off, err := readBytes(msg, off, int(n))
	if err != nil {
		return "", off, fmt.Errorf("%w: unexpected EOF reading character-string data", ErrMalformedWire)
	}
	return string(b), off, nil
}

// readStringSet reads a concatenation of character-strings filling the
// remaining `end` bytes of rdata (used by TXT/SPF).
func readStringSet(msg []byte, off, end int) ([]string, error) {
	var out []string
	for off < end {
		s, next, err := readString(msg, off)
		if err != nil {
			return nil, err
		}
		if next > end {
			return nil, fmt.Errorf("%w: character-string overruns rdata", ErrMalformedWire)
		}
		out = append(out, s)
		off = next
	}
	return out, nil
}

func putUint8(buf []byte, v uint8) []byte  { return append(buf, v) }
func putUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}
func putUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}
func putUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// putString appends a length-prefixed character-string. The caller MUST
// ensure len(s) <= 255; callers that split long text (TXT) do so before
// calling this.
func putString(buf []byte, s string) ([]byte, error) {
	if len(s) > 255 {
		return nil, fmt.Errorf("%w: character-string exceeds 255 octets", ErrMalformedWire)
	}
	buf = putUint8(buf, uint8(len(s)))
	return append(buf, s...), nil
}

// putStringSet appends each string in ss as its own character-string,
// splitting any string longer than 255 octets into 255-octet chunks (the
// same chunking TXT-record producers use in the wild).
func putStringSet(buf []byte, ss []string) ([]byte, error) {
	for _, s := range ss {
		for len(s) > 255 {
			var err error
			buf, err = putString(buf, s[:255])
			if err != nil {
				return nil, err
			}
			s = s[255:]
		}
		var err error
		buf, err = putString(buf, s)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func stringSetLength(ss []string) int {
	n := 0
	for _, s := range ss {
		chunks := (len(s) + 254) / 255
		if chunks == 0 {
			chunks = 1
		}
		n += chunks + len(s)
	}
	return n
}

// requireExact enforces §4.3's "per-type decoder MUST consume the slice
// exactly" rule: off must equal end after a type's unpackRData returns.
func requireExact(off, end int) error {
	if off != end {
		return fmt.Errorf("%w: rdata length mismatch (consumed to %d, rdlength ends at %d)", ErrMalformedWire, off, end)
	}
	return nil
}
