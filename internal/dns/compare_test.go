package dns

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aRecord(t *testing.T, owner, addr string) *ARecord {
	t.Helper()
	return &ARecord{
		H:    RRHeader{Name: mustName(t, owner), Type: TypeA, Class: ClassIN, TTL: 3600},
		Addr: netip.MustParseAddr(addr),
	}
}

func TestEqualIgnoresTTL(t *testing.T) {
	a := aRecord(t, "www.example.com.", "192.0.2.1")
	b := aRecord(t, "www.example.com.", "192.0.2.1")
	b.H.TTL = 60

	eq, err := Equal(a, b)
	require.NoError(t, err)
	assert.True(t, eq, "records differing only in TTL should be Equal")
}

func TestEqualDetectsRDataDifference(t *testing.T) {
	a := aRecord(t, "www.example.com.", "192.0.2.1")
	b := aRecord(t, "www.example.com.", "192.0.2.2")
	eq, err := Equal(a, b)
	require.NoError(t, err)
	assert.False(t, eq, "records with different addresses must not be Equal")
}

// TestCompareTotalOrder verifies testable property 4: canonical ordering is
// a deterministic total order matching owner name, then type, then class,
// then rdata.
func TestCompareTotalOrder(t *testing.T) {
	recs := []RR{
		aRecord(t, "z.example.", "192.0.2.9"),
		aRecord(t, "a.example.", "192.0.2.1"),
		aRecord(t, "a.example.", "192.0.2.2"),
	}
	require.NoError(t, SortRRs(recs))
	assert.True(t, recs[0].Header().Name.Equal(mustName(t, "a.example.")))

	addr0 := recs[0].(*ARecord).Addr.String()
	addr1 := recs[1].(*ARecord).Addr.String()
	assert.Equal(t, "192.0.2.1", addr0)
	assert.Equal(t, "192.0.2.2", addr1)
	assert.True(t, recs[2].Header().Name.Equal(mustName(t, "z.example.")))
}

func TestCompareIsDeterministicAcrossPermutations(t *testing.T) {
	base := []RR{
		aRecord(t, "c.example.", "192.0.2.1"),
		aRecord(t, "a.example.", "192.0.2.1"),
		aRecord(t, "b.example.", "192.0.2.1"),
	}
	permuted := []RR{base[2], base[0], base[1]}

	require.NoError(t, SortRRs(base))
	require.NoError(t, SortRRs(permuted))
	for i := range base {
		eq, err := Equal(base[i], permuted[i])
		require.NoError(t, err)
		assert.True(t, eq, "sort order not deterministic at index %d", i)
	}
}
