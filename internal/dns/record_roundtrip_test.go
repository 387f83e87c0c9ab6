package dns

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestS1AEncoding verifies scenario S1: encoding "example.com. 3600 IN A
// 93.184.216.34" produces wire bytes ending with the documented suffix.
func TestS1AEncoding(t *testing.T) {
	rr := &ARecord{
		H:    RRHeader{Name: mustName(t, "example.com."), Type: TypeA, Class: ClassIN, TTL: 3600},
		Addr: netip.MustParseAddr("93.184.216.34"),
	}
	buf, err := PackRR(nil, rr, nil, false)
	require.NoError(t, err)
	want := []byte{0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x0E, 0x10, 0x00, 0x04, 0x5D, 0xB8, 0xD8, 0x22}
	require.GreaterOrEqual(t, len(buf), len(want))
	assert.Equal(t, want, buf[len(buf)-len(want):])
}

// TestS2MXCompression verifies scenario S2: a message with example.com. in
// the question and mail.example.com. as an MX target compresses the shared
// suffix down to the label "mail" plus a pointer to the question's name.
func TestS2MXCompression(t *testing.T) {
	q := Question{Name: mustName(t, "example.com."), Type: TypeMX, Class: ClassIN}
	mx := &PreferenceNameRecord{
		H:          RRHeader{Name: mustName(t, "example.com."), Type: TypeMX, Class: ClassIN, TTL: 300},
		T:          TypeMX,
		Preference: 10,
		Target:     mustName(t, "mail.example.com."),
	}
	m := Message{
		Header:    Header{ID: 1, Flags: QRFlag},
		Questions: []Question{q},
		Answers:   []RR{mx},
	}
	wire, err := m.Marshal(true)
	require.NoError(t, err)

	decoded, err := Unmarshal(wire)
	require.NoError(t, err)
	got := decoded.Answers[0].(*PreferenceNameRecord)
	assert.True(t, got.Target.Equal(mustName(t, "mail.example.com.")), "decoded MX target = %s", got.Target)

	// An uncompressed encoding would repeat "example.com." in full inside
	// the MX rdata; confirm the compressed message is smaller.
	uncompressed, err := m.Marshal(false)
	require.NoError(t, err)
	assert.Less(t, len(wire), len(uncompressed), "compressed message should be shorter than uncompressed")
}

// TestS5GenericSyntax verifies scenario S5: "example. 3600 CLASS1 TYPE65534
// \# 4 DEADBEEF" parses to an Unknown record with rdata DE AD BE EF, and
// re-emits to the identical master-file string.
func TestS5GenericSyntax(t *testing.T) {
	origin := Root
	recs, err := ParseMasterFile(`example. 3600 CLASS1 TYPE65534 \# 4 DEADBEEF`, origin, 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rr, err := DecodeMasterRR(origin, recs[0])
	require.NoError(t, err)
	unk, ok := rr.(*UnknownRecord)
	require.True(t, ok, "expected *UnknownRecord, got %T", rr)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, unk.RData)

	line, err := FormatMasterRR(rr)
	require.NoError(t, err)
	// CLASS1 and IN denote the same wire class code, so the mnemonic table
	// renders the class as "IN"; the generic rdata form itself is exact.
	assert.Equal(t, `example. 3600 IN TYPE65534 \# 4 DEADBEEF`, line)
}

func TestGenericSyntaxLengthMismatchRejected(t *testing.T) {
	origin := Root
	recs, err := ParseMasterFile(`example. 3600 IN TYPE65534 \# 4 DEADBE`, origin, 0)
	require.NoError(t, err)
	_, err = DecodeMasterRR(origin, recs[0])
	require.Error(t, err)
}

// recordWireRoundTrip packs rr standalone, unpacks it back through the
// registry, and asserts the decoded record equals the original (testable
// property 1, non-canonical form).
func recordWireRoundTrip(t *testing.T, rr RR) RR {
	t.Helper()
	buf, err := PackRR(nil, rr, nil, false)
	require.NoError(t, err, "PackRR(%T)", rr)
	assert.LessOrEqual(t, len(buf), MaxEncodedLen(rr), "%T encoded length exceeds MaxEncodedLen", rr)

	decoded, off, err := UnpackRR(buf, 0)
	require.NoError(t, err, "UnpackRR(%T)", rr)
	assert.Equal(t, len(buf), off, "UnpackRR(%T) should consume the whole buffer", rr)

	eq, err := Equal(rr, decoded)
	require.NoError(t, err)
	assert.True(t, eq, "%T: decode(encode(r)) != r", rr)
	return decoded
}

func TestWireRoundTripAcrossVariants(t *testing.T) {
	h := func(typ RecordType) RRHeader {
		return RRHeader{Name: mustName(t, "host.example.com."), Type: typ, Class: ClassIN, TTL: 3600}
	}

	cases := []RR{
		&ARecord{H: h(TypeA), Addr: netip.MustParseAddr("198.51.100.7")},
		&AAAARecord{H: h(TypeAAAA), Addr: netip.MustParseAddr("2001:db8::1")},
		NewNSRecord(h(TypeNS), mustName(t, "ns1.example.com.")),
		NewCNAMERecord(h(TypeCNAME), mustName(t, "canonical.example.com.")),
		NewPTRRecord(h(TypePTR), mustName(t, "host.example.com.")),
		&SOARecord{
			H: h(TypeSOA), MName: mustName(t, "ns1.example.com."), RName: mustName(t, "hostmaster.example.com."),
			Serial: 2024010100, Refresh: 7200, Retry: 3600, Expire: 1209600, Minimum: 300,
		},
		NewMXRecord(h(TypeMX), 10, mustName(t, "mail.example.com.")),
		NewTXTRecord(h(TypeTXT), "v=spf1 -all", "second string"),
		&SRVRecord{H: h(TypeSRV), Priority: 1, Weight: 2, Port: 5060, Target: mustName(t, "sip.example.com.")},
		&NAPTRRecord{
			H: h(TypeNAPTR), Order: 100, Preference: 10, Flags: "U", Service: "E2U+sip",
			Regexp: "!^.*$!sip:info@example.com!", Replacement: Root,
		},
		&CAARecord{H: h(TypeCAA), Flags: 0, Tag: "issue", Value: "letsencrypt.org"},
		&DNSKEYRecord{H: h(TypeDNSKEY), T: TypeDNSKEY, Flags: 257, Protocol: 3, Algorithm: 8, PublicKey: []byte{1, 2, 3, 4}},
		&DSRecord{H: h(TypeDS), T: TypeDS, KeyTag: 12345, Algorithm: 8, DigestType: 2, Digest: bytes.Repeat([]byte{0xAB}, 32)},
		&TLSARecord{H: h(TypeTLSA), T: TypeTLSA, CertUsage: 3, Selector: 1, MatchingType: 1, CertData: bytes.Repeat([]byte{0xCD}, 32)},
		&SSHFPRecord{H: h(TypeSSHFP), Algorithm: 4, FPType: 2, Fingerprint: bytes.Repeat([]byte{0xEF}, 32)},
		&UnknownRecord{H: h(RecordType(65280)), T: RecordType(65280), RData: []byte{0x01, 0x02, 0x03}},
	}

	for _, rr := range cases {
		rr := rr
		t.Run(rr.Header().Type.TypeName(), func(t *testing.T) {
			recordWireRoundTrip(t, rr)
		})
	}
}

// TestCanonicalWireRoundTrip verifies testable property 1's canonical-form
// clause: decoding a canonically-encoded record and re-canonicalizing it
// reproduces the same record (names lowercased, never compressed).
func TestCanonicalWireRoundTrip(t *testing.T) {
	rr := NewCNAMERecord(
		RRHeader{Name: mustName(t, "WWW.Example.COM."), Type: TypeCNAME, Class: ClassIN, TTL: 3600},
		mustName(t, "Target.EXAMPLE.com."),
	)
	buf, err := PackRR(nil, rr, nil, true)
	require.NoError(t, err)

	decoded, _, err := UnpackRR(buf, 0)
	require.NoError(t, err)
	got := decoded.(*NameTargetRecord)
	assert.Equal(t, "target", string(got.Target.Label(0)))
	assert.Equal(t, "www", string(got.H.Name.Label(0)))
}

func TestMasterFileRoundTripAcrossVariants(t *testing.T) {
	origin := mustName(t, "example.com.")
	lines := []string{
		"www 3600 IN A 198.51.100.7",
		"www 3600 IN AAAA 2001:db8::1",
		"@ 3600 IN NS ns1.example.com.",
		"mail 3600 IN MX 10 mx1.example.com.",
		`txt 3600 IN TXT "hello world"`,
		"_sip._tcp 3600 IN SRV 1 2 5060 sip.example.com.",
		`ca 3600 IN CAA 0 issue "letsencrypt.org"`,
		"@ 3600 IN SOA ns1.example.com. hostmaster.example.com. 2024010100 7200 3600 1209600 300",
	}
	for _, line := range lines {
		line := line
		t.Run(line, func(t *testing.T) {
			recs, err := ParseMasterFile(line, origin, 3600)
			require.NoError(t, err)
			require.Len(t, recs, 1)

			rr, err := DecodeMasterRR(origin, recs[0])
			require.NoError(t, err)

			formatted, err := FormatMasterRR(rr)
			require.NoError(t, err)

			reparsed, err := ParseMasterFile(formatted, origin, 3600)
			require.NoError(t, err, "re-ParseMasterFile(%q)", formatted)

			rr2, err := DecodeMasterRR(origin, reparsed[0])
			require.NoError(t, err, "re-DecodeMasterRR(%q)", formatted)

			eq, err := Equal(rr, rr2)
			require.NoError(t, err)
			assert.True(t, eq, "master-file round trip mismatch for %q: reformatted as %q", line, formatted)
		})
	}
}

func TestUnknownRecordGenericRoundTrip(t *testing.T) {
	origin := Root
	rr := &UnknownRecord{
		H:     RRHeader{Name: mustName(t, "obscure.example."), Type: RecordType(65001), Class: ClassIN, TTL: 60},
		T:     RecordType(65001),
		RData: []byte{0x00, 0x01, 0x02, 0x03, 0x04},
	}
	line, err := FormatMasterRR(rr)
	require.NoError(t, err)

	recs, err := ParseMasterFile(line, origin, 60)
	require.NoError(t, err, "ParseMasterFile(%q)", line)

	rr2, err := DecodeMasterRR(origin, recs[0])
	require.NoError(t, err)

	eq, err := Equal(rr, rr2)
	require.NoError(t, err)
	assert.True(t, eq, "Unknown record generic-syntax round trip failed via %q", line)
}
