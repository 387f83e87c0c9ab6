package dns

import (
	"bytes"
	"sort"
)

// canonicalRData returns rr's rdata encoded in canonical form (uncompressed,
// lowercased embedded names), used for both equality and ordering (§4.3).
func canonicalRData(rr RR) ([]byte, error) {
	return rr.packRData(nil, nil, true)
}

// Equal reports whether a and b are the same record: equal envelopes
// (owner name, type, class — TTL is NOT compared, matching RRset semantics
// where TTL may legitimately differ between otherwise-identical wire forms
// during decode) and equal canonical-encoded rdata (§4.3).
func Equal(a, b RR) (bool, error) {
	ha, hb := a.Header(), b.Header()
	if !ha.Name.Equal(hb.Name) || ha.Type != hb.Type || ha.Class != hb.Class {
		return false, nil
	}
	ra, err := canonicalRData(a)
	if err != nil {
		return false, err
	}
	rb, err := canonicalRData(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ra, rb), nil
}

// Compare implements the RFC 4034 §6 canonical total order (§4.3, §8.4):
// owner name canonical order, then type, then class, then canonical-encoded
// rdata lexicographic order. Returns -1/0/1.
func Compare(a, b RR) (int, error) {
	ha, hb := a.Header(), b.Header()
	if c := ha.Name.CanonicalCompare(hb.Name); c != 0 {
		return c, nil
	}
	if ha.Type != hb.Type {
		if ha.Type < hb.Type {
			return -1, nil
		}
		return 1, nil
	}
	if ha.Class != hb.Class {
		if ha.Class < hb.Class {
			return -1, nil
		}
		return 1, nil
	}
	ra, err := canonicalRData(a)
	if err != nil {
		return 0, err
	}
	rb, err := canonicalRData(b)
	if err != nil {
		return 0, err
	}
	return bytes.Compare(ra, rb), nil
}

type sortKey struct {
	rr    RR
	rdata []byte
}

// SortRRs sorts rrs in place by canonical total order (§4.3, §8.4). Rdata is
// canonicalized once per record up front rather than repeatedly inside the
// comparator.
func SortRRs(rrs []RR) error {
	keys := make([]sortKey, len(rrs))
	for i, rr := range rrs {
		rdata, err := canonicalRData(rr)
		if err != nil {
			return err
		}
		keys[i] = sortKey{rr: rr, rdata: rdata}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		ha, hb := a.rr.Header(), b.rr.Header()
		if c := ha.Name.CanonicalCompare(hb.Name); c != 0 {
			return c < 0
		}
		if ha.Type != hb.Type {
			return ha.Type < hb.Type
		}
		if ha.Class != hb.Class {
			return ha.Class < hb.Class
		}
		return bytes.Compare(a.rdata, b.rdata) < 0
	})
	for i, k := range keys {
		rrs[i] = k.rr
	}
	return nil
}
