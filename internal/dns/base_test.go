package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBaseEncodingsRoundTrip verifies testable property 8: the six RFC 4648
// test vectors round-trip byte-for-byte and string-for-string for each of
// base16, base32, base32hex, base64, and base64url.
func TestBaseEncodingsRoundTrip(t *testing.T) {
	vectors := []string{"", "f", "fo", "foo", "foob", "fooba", "foobar"}

	cases := []struct {
		name   string
		encode func([]byte) string
		decode func(string) ([]byte, error)
		want   []string
	}{
		{
			name:   "base16",
			encode: EncodeBase16,
			decode: DecodeBase16,
			want:   []string{"", "66", "666F", "666F6F", "666F6F62", "666F6F6261", "666F6F626172"},
		},
		{
			name:   "base32",
			encode: EncodeBase32,
			decode: DecodeBase32,
			want: []string{
				"", "MY======", "MZXQ====", "MZXW6===",
				"MZXW6YQ=", "MZXW6YTB", "MZXW6YTBOI======",
			},
		},
		{
			name:   "base32hex",
			encode: EncodeBase32Hex,
			decode: DecodeBase32Hex,
			want: []string{
				"", "CO", "CPNG", "CPNMU",
				"CPNMUOG", "CPNMUOJ1", "CPNMUOJ1E8",
			},
		},
		{
			name:   "base64",
			encode: EncodeBase64,
			decode: DecodeBase64,
			want:   []string{"", "Zg==", "Zm8=", "Zm9v", "Zm9vYg==", "Zm9vYmE=", "Zm9vYmFy"},
		},
		{
			name:   "base64url",
			encode: EncodeBase64URL,
			decode: DecodeBase64URL,
			want:   []string{"", "Zg", "Zm8", "Zm9v", "Zm9vYg", "Zm9vYmE", "Zm9vYmFy"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for i, v := range vectors {
				got := c.encode([]byte(v))
				assert.Equal(t, c.want[i], got, "encode(%q)", v)

				back, err := c.decode(got)
				require.NoError(t, err)
				assert.Equal(t, v, string(back), "decode(encode(%q))", v)
			}
		})
	}
}

func TestDecodeBase16Invalid(t *testing.T) {
	_, err := DecodeBase16("not-hex")
	require.Error(t, err)
}

func TestDecodeBase32HexRegression(t *testing.T) {
	// S4: a known-good NSEC3 hashed owner name must round-trip unchanged.
	const vector = "NI9BSNE6JGFGO330HU4KGSP09POHFG62"
	raw, err := DecodeBase32Hex(vector)
	require.NoError(t, err)
	assert.Equal(t, vector, EncodeBase32Hex(raw))
}
