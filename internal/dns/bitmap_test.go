package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeBitmapS3 verifies scenario S3: an NSEC covering A, RRSIG, and its
// own NSEC type (every NSEC necessarily covers itself, since the NSEC
// record is present at the node it describes) encodes as window 0, length
// 6, bitmap 40 00 00 00 00 03.
func TestTypeBitmapS3(t *testing.T) {
	types := []RecordType{TypeA, TypeRRSIG, TypeNSEC}
	got := encodeTypeBitmap(types)
	want := []byte{0x00, 0x06, 0x40, 0x00, 0x00, 0x00, 0x00, 0x03}
	assert.Equal(t, want, got)

	decoded, err := decodeTypeBitmap(got)
	require.NoError(t, err)
	assert.True(t, sameTypeSet(decoded, types), "decodeTypeBitmap(encodeTypeBitmap(%v)) = %v", types, decoded)
}

func sameTypeSet(a, b []RecordType) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[RecordType]bool{}
	for _, t := range a {
		seen[t] = true
	}
	for _, t := range b {
		if !seen[t] {
			return false
		}
	}
	return true
}

func TestTypeBitmapMultiWindow(t *testing.T) {
	// One type in window 0, one in window 1 (type code 256, URI).
	types := []RecordType{TypeA, TypeURI}
	encoded := encodeTypeBitmap(types)
	decoded, err := decodeTypeBitmap(encoded)
	require.NoError(t, err)
	assert.True(t, sameTypeSet(decoded, types), "round trip mismatch: got %v, want %v", decoded, types)
	// Two window headers (2 bytes each) plus each window's trimmed bitmap.
	assert.Equal(t, byte(0), encoded[0], "first window number")
}

func TestTypeBitmapRejectsDuplicateWindow(t *testing.T) {
	// Two window-0 headers back to back.
	raw := []byte{0x00, 0x01, 0x80, 0x00, 0x01, 0x80}
	_, err := decodeTypeBitmap(raw)
	require.Error(t, err)
}

func TestTypeBitmapRejectsBadWindowLength(t *testing.T) {
	raw := []byte{0x00, 0x00} // length 0 is out of the allowed 1..32 range
	_, err := decodeTypeBitmap(raw)
	require.Error(t, err)

	raw2 := []byte{0x00, 33}
	_, err = decodeTypeBitmap(raw2)
	require.Error(t, err)
}

func TestTypeBitmapTrimsTrailingZeroOctets(t *testing.T) {
	// Only type A (bit 1 of byte 0); no other bits set in higher bytes.
	encoded := encodeTypeBitmap([]RecordType{TypeA})
	assert.Len(t, encoded, 3, "trailing zero octets should be trimmed") // window + length + one bitmap byte
}
