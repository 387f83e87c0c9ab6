package zonemd

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestreldns/dnscore/internal/crypto/envelope"
	"github.com/kestreldns/dnscore/internal/dns"
)

func mustName(t *testing.T, s string) dns.DomainName {
	t.Helper()
	n, err := dns.ParseName(s, dns.Root)
	require.NoError(t, err)
	return n
}

func apexZone(t *testing.T) (dns.DomainName, []dns.RR) {
	t.Helper()
	apex := mustName(t, "example.com.")
	soa := &dns.SOARecord{
		H:      dns.RRHeader{Name: apex, Type: dns.TypeSOA, Class: dns.ClassIN, TTL: 3600},
		MName:  mustName(t, "ns1.example.com."),
		RName:  mustName(t, "hostmaster.example.com."),
		Serial: 2024010100, Refresh: 7200, Retry: 3600, Expire: 1209600, Minimum: 300,
	}
	ns := dns.NewNSRecord(dns.RRHeader{Name: apex, Type: dns.TypeNS, Class: dns.ClassIN, TTL: 3600}, mustName(t, "ns1.example.com."))
	www := &dns.ARecord{
		H:    dns.RRHeader{Name: mustName(t, "www.example.com."), Type: dns.TypeA, Class: dns.ClassIN, TTL: 300},
		Addr: netip.MustParseAddr("198.51.100.1"),
	}
	outOfZone := &dns.ARecord{
		H:    dns.RRHeader{Name: mustName(t, "other.org."), Type: dns.TypeA, Class: dns.ClassIN, TTL: 300},
		Addr: netip.MustParseAddr("198.51.100.2"),
	}
	return apex, []dns.RR{soa, ns, www, outOfZone}
}

func TestDigestSkipsOutOfZoneRecords(t *testing.T) {
	apex, records := apexZone(t)
	selected, err := selectRecords(apex, records)
	require.NoError(t, err)
	for _, rr := range selected {
		assert.True(t, rr.Header().Name.Equal(apex) || inZone(apex, rr.Header().Name), "selected record %s must be in-zone", rr.Header().Name)
		assert.NotEqual(t, "other.org.", rr.Header().Name.String())
	}
	assert.Len(t, selected, 3)
}

func TestDigestExcludesApexZONEMDAndCoveringRRSIG(t *testing.T) {
	apex, records := apexZone(t)
	zonemd := &dns.ZONEMDRecord{
		H:      dns.RRHeader{Name: apex, Type: dns.TypeZONEMD, Class: dns.ClassIN, TTL: 3600},
		Serial: 2024010100, Scheme: 1, HashAlgo: dns.ZonemdHashSHA384,
		Digest: make([]byte, 48),
	}
	coveringSig := &dns.RRSIGRecord{
		H:           dns.RRHeader{Name: apex, Type: dns.TypeRRSIG, Class: dns.ClassIN, TTL: 3600},
		T:           dns.TypeRRSIG,
		TypeCovered: dns.TypeZONEMD,
		SignerName:  apex,
		Signature:   []byte{1, 2, 3, 4},
	}
	otherSig := &dns.RRSIGRecord{
		H:           dns.RRHeader{Name: apex, Type: dns.TypeRRSIG, Class: dns.ClassIN, TTL: 3600},
		T:           dns.TypeRRSIG,
		TypeCovered: dns.TypeSOA,
		SignerName:  apex,
		Signature:   []byte{5, 6, 7, 8},
	}
	records = append(records, zonemd, coveringSig, otherSig)

	selected, err := selectRecords(apex, records)
	require.NoError(t, err)

	for _, rr := range selected {
		assert.NotEqual(t, dns.TypeZONEMD, rr.Header().Type, "apex ZONEMD RRset must be excluded")
		if sig, ok := rr.(*dns.RRSIGRecord); ok {
			assert.NotEqual(t, dns.TypeZONEMD, sig.TypeCovered, "RRSIG covering the apex ZONEMD RRset must be excluded")
		}
	}
	assert.Len(t, selected, 4) // soa, ns, www, otherSig
}

func TestDigestDeduplicatesIdenticalRecords(t *testing.T) {
	apex, records := apexZone(t)
	dup := &dns.ARecord{
		H:    dns.RRHeader{Name: mustName(t, "www.example.com."), Type: dns.TypeA, Class: dns.ClassIN, TTL: 300},
		Addr: netip.MustParseAddr("198.51.100.1"),
	}
	records = append(records, dup)

	selected, err := selectRecords(apex, records)
	require.NoError(t, err)
	assert.Len(t, selected, 3, "duplicate in-zone record must be counted once")
}

func TestDigestDeterministicAcrossInputOrder(t *testing.T) {
	apex, records := apexZone(t)
	reversed := make([]dns.RR, len(records))
	for i, rr := range records {
		reversed[len(records)-1-i] = rr
	}

	d1, err := Digest(envelope.Default, apex, records, dns.ZonemdHashSHA384)
	require.NoError(t, err)
	d2, err := Digest(envelope.Default, apex, reversed, dns.ZonemdHashSHA384)
	require.NoError(t, err)
	assert.Equal(t, d1, d2, "digest must not depend on input record order")
}

func TestDigestDiffersByHashAlgorithm(t *testing.T) {
	apex, records := apexZone(t)
	d384, err := Digest(envelope.Default, apex, records, dns.ZonemdHashSHA384)
	require.NoError(t, err)
	assert.Len(t, d384, 48)

	d512, err := Digest(envelope.Default, apex, records, dns.ZonemdHashSHA512)
	require.NoError(t, err)
	assert.Len(t, d512, 64)

	assert.NotEqual(t, d384, d512[:48])
}

func TestDigestRejectsUnsupportedHashAlgorithm(t *testing.T) {
	apex, records := apexZone(t)
	_, err := Digest(envelope.Default, apex, records, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, dns.ErrUnsupported)
}

func TestInZoneMatchesApexAndDescendantsCaseInsensitively(t *testing.T) {
	apex := mustName(t, "Example.COM.")
	assert.True(t, inZone(apex, mustName(t, "example.com.")))
	assert.True(t, inZone(apex, mustName(t, "WWW.example.com.")))
	assert.False(t, inZone(apex, mustName(t, "example.org.")))
	assert.False(t, inZone(apex, mustName(t, "com.")))
}
