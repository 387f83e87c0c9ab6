// Package zonemd computes the whole-zone digest RFC 8976 defines: walk
// every record in canonical order, concatenate each record's canonical
// wire form, and hash the result. It is a pure function over an in-memory
// record set; it does not load zones from disk.
package zonemd

import (
	"fmt"
	"strings"

	"github.com/kestreldns/dnscore/internal/crypto"
	"github.com/kestreldns/dnscore/internal/dns"
)

// digestAlgo maps a ZONEMD hash algorithm code (RFC 8976 §5.2) to the
// crypto.Provider mnemonic that implements it.
func digestAlgo(hashAlgo uint8) (string, error) {
	switch hashAlgo {
	case dns.ZonemdHashSHA384:
		return "sha384", nil
	case dns.ZonemdHashSHA512:
		return "sha512", nil
	default:
		return "", fmt.Errorf("%w: unsupported ZONEMD hash algorithm %d", dns.ErrUnsupported, hashAlgo)
	}
}

// Digest computes the RFC 8976 §2 Simple Scheme digest of the zone rooted
// at apex, over records. Per §3/§3.2:
//   - out-of-zone records are skipped
//   - duplicate records are counted once
//   - the apex ZONEMD RRset itself is skipped
//   - any RRSIG covering ZONEMD at the apex is skipped
//
// The remaining records are sorted into canonical total order (RFC 4034
// §6.1, extended to whole records by this module's Compare) and their
// canonical wire forms are concatenated and hashed.
func Digest(provider crypto.Provider, apex dns.DomainName, records []dns.RR, hashAlgo uint8) ([]byte, error) {
	algo, err := digestAlgo(hashAlgo)
	if err != nil {
		return nil, err
	}

	selected, err := selectRecords(apex, records)
	if err != nil {
		return nil, err
	}

	if err := dns.SortRRs(selected); err != nil {
		return nil, err
	}

	var buf []byte
	for _, rr := range selected {
		buf, err = dns.PackRR(buf, rr, nil, true)
		if err != nil {
			return nil, err
		}
	}

	return provider.Digest(algo, buf)
}

// selectRecords applies the inclusion/exclusion rules of §3.2, deduplicating
// as it goes.
func selectRecords(apex dns.DomainName, records []dns.RR) ([]dns.RR, error) {
	seen := make(map[string]struct{}, len(records))
	out := make([]dns.RR, 0, len(records))

	for _, rr := range records {
		h := rr.Header()
		if !inZone(apex, h.Name) {
			continue
		}
		if h.Name.Equal(apex) && h.Type == dns.TypeZONEMD {
			continue
		}
		if h.Name.Equal(apex) && h.Type == dns.TypeRRSIG {
			if sig, ok := rr.(*dns.RRSIGRecord); ok && sig.TypeCovered == dns.TypeZONEMD {
				continue
			}
		}

		wire, err := dns.PackRR(nil, rr, nil, true)
		if err != nil {
			return nil, err
		}
		key := string(wire)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rr)
	}

	return out, nil
}

// inZone reports whether name is apex or a descendant of apex, comparing
// labels case-insensitively per DNS name equivalence rules.
func inZone(apex, name dns.DomainName) bool {
	aLabels, nLabels := apex.NumLabels(), name.NumLabels()
	if nLabels < aLabels {
		return false
	}
	offset := nLabels - aLabels
	for i := range aLabels {
		if !strings.EqualFold(string(name.Label(offset+i)), string(apex.Label(i))) {
			return false
		}
	}
	return true
}
