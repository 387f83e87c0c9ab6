package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustName(t *testing.T, s string) DomainName {
	t.Helper()
	n, err := ParseName(s, Root)
	require.NoError(t, err)
	return n
}

func TestParseNameAbsoluteVsRelative(t *testing.T) {
	origin := mustName(t, "example.com.")

	abs, err := ParseName("www.example.com.", Root)
	require.NoError(t, err)
	rel, err := ParseName("www", origin)
	require.NoError(t, err)
	assert.True(t, abs.Equal(rel), "absolute %q and relative-plus-origin %q should be equal", abs, rel)

	at, err := ParseName("@", origin)
	require.NoError(t, err)
	assert.True(t, at.Equal(origin), "@ should resolve to origin")
}

func TestParseNameEscapes(t *testing.T) {
	n, err := ParseName(`a\.b.example.com.`, Root)
	require.NoError(t, err)
	require.Equal(t, 3, n.NumLabels(), "escaped dot stays in one label")
	assert.Equal(t, "a.b", string(n.Label(0)))

	n2, err := ParseName(`\065bc.example.com.`, Root)
	require.NoError(t, err)
	assert.Equal(t, "Abc", string(n2.Label(0)))
}

func TestNameStringEscapesOnEmit(t *testing.T) {
	labels := [][]byte{[]byte("a.b"), []byte("com")}
	n, err := NameFromLabels(labels...)
	require.NoError(t, err)
	assert.Equal(t, `a\.b.com.`, n.String())
}

func TestNameEqualCaseInsensitive(t *testing.T) {
	a := mustName(t, "WWW.Example.COM.")
	b := mustName(t, "www.example.com.")
	assert.True(t, a.Equal(b), "names should compare equal case-insensitively")
}

func TestNameCanonicalCompareOrdering(t *testing.T) {
	// RFC 4034 §6.1 example ordering.
	names := []string{
		"example.",
		"a.example.",
		"yljkjljk.a.example.",
		"Z.a.example.",
		"zABC.a.EXAMPLE.",
		"z.example.",
		"\\001.z.example.",
		"*.z.example.",
		"\\200.z.example.",
	}
	var parsed []DomainName
	for _, s := range names {
		parsed = append(parsed, mustName(t, s))
	}
	for i := 0; i < len(parsed)-1; i++ {
		assert.Negative(t, parsed[i].CanonicalCompare(parsed[i+1]), "expected %q < %q in canonical order", names[i], names[i+1])
	}
}

func TestEncodeNameCompressionAndDecode(t *testing.T) {
	dict := newCompressionDict()
	var buf []byte
	buf, err := EncodeName(buf, mustName(t, "example.com."), dict, false)
	require.NoError(t, err)
	baseLen := len(buf)

	buf, err = EncodeName(buf, mustName(t, "mail.example.com."), dict, false)
	require.NoError(t, err)
	// S2: the suffix "example.com." must be replaced by a pointer, so the
	// second name's wire form is much shorter than an uncompressed "mail"
	// label plus uncompressed "example.com." would be.
	secondLen := len(buf) - baseLen
	assert.Equal(t, 1+4+2, secondLen, "compressed second name length") // len-byte + "mail" + 2-byte pointer

	decoded, off, err := DecodeName(buf, baseLen)
	require.NoError(t, err)
	assert.Equal(t, len(buf), off)
	assert.True(t, decoded.Equal(mustName(t, "mail.example.com.")))
}

func TestEncodeNameCanonicalNeverCompresses(t *testing.T) {
	dict := newCompressionDict()
	var buf []byte
	buf, _ = EncodeName(buf, mustName(t, "example.com."), dict, false)
	buf2, err := EncodeName(nil, mustName(t, "EXAMPLE.com."), dict, true)
	require.NoError(t, err)
	// Canonical encoding must lowercase and never reference the dict.
	decoded, _, err := DecodeName(buf2, 0)
	require.NoError(t, err)
	assert.Equal(t, "example", string(decoded.Label(0)))
	_ = buf
}

// TestDecodeNamePointerCycle verifies testable property 6: a pointer cycle
// must decode to ErrMalformedWire, never hang.
func TestDecodeNamePointerCycle(t *testing.T) {
	// offset 0: pointer to offset 2; offset 2: pointer to offset 0.
	msg := []byte{0xC0, 0x02, 0xC0, 0x00}
	done := make(chan struct{})
	var err error
	go func() {
		_, _, err = DecodeName(msg, 0)
		close(done)
	}()
	<-done
	require.Error(t, err, "expected error decoding a cyclic compression pointer")
}

func TestDecodeNamePointerOutOfRange(t *testing.T) {
	msg := []byte{0xC0, 0xFF} // points at offset 255, past end of message
	_, _, err := DecodeName(msg, 0)
	require.Error(t, err)
}

func TestDecodeNameTruncated(t *testing.T) {
	msg := []byte{3, 'w', 'w'} // label claims 3 octets but only 2 remain
	_, _, err := DecodeName(msg, 0)
	require.Error(t, err)
}

func TestDecodeNameRejectsReservedLengthBits(t *testing.T) {
	msg := []byte{0x80, 0x00} // top bits 10, neither a label nor a pointer
	_, _, err := DecodeName(msg, 0)
	require.Error(t, err)
}

func TestNameTooManyLabelsRejected(t *testing.T) {
	labels := make([][]byte, maxLabels+1)
	for i := range labels {
		labels[i] = []byte("a")
	}
	_, err := NameFromLabels(labels...)
	require.Error(t, err)
}

func TestNameTotalLengthTooLongRejected(t *testing.T) {
	// 5 labels of 63 octets each plus the root octet exceeds 255.
	label := make([]byte, 63)
	for i := range label {
		label[i] = 'a'
	}
	_, err := NameFromLabels(label, label, label, label, label)
	require.Error(t, err)
}
