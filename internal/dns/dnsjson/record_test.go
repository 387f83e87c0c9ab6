package dnsjson

import (
	"encoding/json"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestreldns/dnscore/internal/dns"
)

func aName(t *testing.T) dns.DomainName {
	t.Helper()
	n, err := dns.ParseName("example.com.", dns.Root)
	require.NoError(t, err)
	return n
}

func TestRecordMarshalJSONIncludesTextAndHexRData(t *testing.T) {
	rr := &dns.ARecord{
		H:    dns.RRHeader{Name: aName(t), Type: dns.TypeA, Class: dns.ClassIN, TTL: 300},
		Addr: netip.MustParseAddr("93.184.216.34"),
	}
	b, err := Record{RR: rr}.MarshalJSON()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, "example.com.", fields["NAME"])
	assert.Equal(t, "A", fields["TYPEname"])
	assert.Equal(t, "IN", fields["CLASSname"])
	assert.Equal(t, "93.184.216.34", fields["rdataA"])
	assert.Equal(t, "5DB8D822", fields["RDATAHEX"])
}

// TestRecordUnmarshalJSONTextWinsOverHex verifies scenario S6: an A record
// JSON document carrying both rdataA and RDATAHEX decodes using the text
// field regardless of which key appears first in the document.
func TestRecordUnmarshalJSONTextWinsOverHex(t *testing.T) {
	textFirst := `{
		"NAME": "example.com.", "TYPE": 1, "TYPEname": "A",
		"CLASS": 1, "CLASSname": "IN", "TTL": 300,
		"rdataA": "93.184.216.34", "RDATAHEX": "5DB8D822"
	}`
	hexFirst := `{
		"RDATAHEX": "5DB8D822", "rdataA": "93.184.216.34",
		"TTL": 300, "CLASSname": "IN", "CLASS": 1,
		"TYPEname": "A", "TYPE": 1, "NAME": "example.com."
	}`

	for _, doc := range []string{textFirst, hexFirst} {
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(doc), &rec))
		a, ok := rec.RR.(*dns.ARecord)
		require.True(t, ok, "expected *dns.ARecord, got %T", rec.RR)
		assert.Equal(t, "93.184.216.34", a.Addr.String())
	}
}

// TestRecordUnmarshalJSONFallsBackToHexWithoutText verifies that when no
// text rdata field is present, RDATAHEX alone is sufficient to decode.
func TestRecordUnmarshalJSONFallsBackToHexWithoutText(t *testing.T) {
	doc := `{
		"NAME": "example.com.", "TYPE": 1, "TYPEname": "A",
		"CLASS": 1, "CLASSname": "IN", "TTL": 300,
		"RDATAHEX": "5DB8D822"
	}`
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(doc), &rec))
	a, ok := rec.RR.(*dns.ARecord)
	require.True(t, ok)
	assert.Equal(t, "93.184.216.34", a.Addr.String())
}

func TestRecordUnmarshalJSONRejectsMissingRData(t *testing.T) {
	doc := `{"NAME": "example.com.", "TYPE": 1, "TYPEname": "A", "CLASS": 1, "CLASSname": "IN", "TTL": 300}`
	var rec Record
	err := json.Unmarshal([]byte(doc), &rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, dns.ErrMalformedWire)
}

func TestRecordMarshalJSONRejectsNilRR(t *testing.T) {
	_, err := Record{RR: nil}.MarshalJSON()
	require.Error(t, err)
	assert.ErrorIs(t, err, dns.ErrMalformedWire)
}
