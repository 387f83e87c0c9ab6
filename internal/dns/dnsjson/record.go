// Package dnsjson implements the RFC 8427 JSON representation of a DNS
// resource record (§6.4): NAME/TYPE/TYPEname/CLASS/CLASSname/TTL/
// RDLENGTH/RDATAHEX, plus an optional rdata<TYPEname> text form. Decoding
// prefers the text form when present and parseable, falling back to the
// hex form otherwise.
package dnsjson

import (
	"encoding/json"
	"fmt"

	"github.com/kestreldns/dnscore/internal/dns"
)

// Record is a JSON-codable wrapper around a dns.RR.
type Record struct {
	RR dns.RR
}

// jsonFields mirrors the fixed RFC 8427 member set; the text rdata field's
// name varies per type ("rdataA", "rdataMX", ...) so it is handled
// separately via a raw map.
type jsonFields struct {
	Name     string `json:"NAME"`
	Type     uint16 `json:"TYPE"`
	TypeName string `json:"TYPEname"`
	Class    uint16 `json:"CLASS"`
	ClassNam string `json:"CLASSname"`
	TTL      int32  `json:"TTL"`
	RDLength int    `json:"RDLENGTH"`
	RDataHex string `json:"RDATAHEX"`
}

// MarshalJSON renders r per §6.4: the fixed envelope fields plus, when the
// type has an unambiguous text form, an additional "rdata<TYPEname>" field.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.RR == nil {
		return nil, fmt.Errorf("%w: nil record", dns.ErrMalformedWire)
	}
	h := r.RR.Header()

	wire, err := dns.RDataBytes(r.RR)
	if err != nil {
		return nil, err
	}

	out := map[string]any{
		"NAME":      h.Name.String(),
		"TYPE":      uint16(h.Type),
		"TYPEname":  h.Type.TypeName(),
		"CLASS":     uint16(h.Class),
		"CLASSname": h.Class.ClassName(),
		"TTL":       h.TTL,
		"RDLENGTH":  len(wire),
		"RDATAHEX":  dns.EncodeBase16(wire),
	}

	if text, terr := dns.RDataText(r.RR); terr == nil {
		out["rdata"+h.Type.TypeName()] = text
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes r per §6.4's parse precedence: the text
// "rdata<TYPEname>" field wins when present and it parses; otherwise
// RDATAHEX is decoded and dispatched through the binary rdata codec.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", dns.ErrMalformedWire, err)
	}

	var f jsonFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %v", dns.ErrMalformedWire, err)
	}

	t, err := resolveType(f)
	if err != nil {
		return err
	}
	class, err := resolveClass(f)
	if err != nil {
		return err
	}
	name, err := dns.ParseName(f.Name, dns.Root)
	if err != nil {
		return fmt.Errorf("%w: NAME: %v", dns.ErrMalformedWire, err)
	}

	rr := dns.NewRR(t)
	*rr.Header() = dns.RRHeader{Name: name, Type: t, Class: class, TTL: f.TTL}

	textKey := "rdata" + t.TypeName()
	if textRaw, ok := raw[textKey]; ok {
		var text string
		if err := json.Unmarshal(textRaw, &text); err == nil {
			fields := dns.SplitFields(text)
			if err := dns.DecodeRDataText(rr, name, fields); err == nil {
				r.RR = rr
				return nil
			}
		}
	}

	if f.RDataHex == "" {
		return fmt.Errorf("%w: neither %s nor RDATAHEX parsed", dns.ErrMalformedWire, textKey)
	}
	rdata, err := dns.DecodeBase16(f.RDataHex)
	if err != nil {
		return fmt.Errorf("%w: RDATAHEX: %v", dns.ErrMalformedWire, err)
	}
	if err := dns.DecodeRDataBytes(rr, rdata); err != nil {
		return err
	}
	r.RR = rr
	return nil
}

func resolveType(f jsonFields) (dns.RecordType, error) {
	if f.TypeName != "" {
		if t, err := dns.ParseTypeToken(f.TypeName); err == nil {
			return t, nil
		}
	}
	if f.Type != 0 {
		return dns.RecordType(f.Type), nil
	}
	return 0, fmt.Errorf("%w: missing TYPE/TYPEname", dns.ErrMalformedWire)
}

func resolveClass(f jsonFields) (dns.RecordClass, error) {
	if f.ClassNam != "" {
		if c, err := dns.ParseClassToken(f.ClassNam); err == nil {
			return c, nil
		}
	}
	if f.Class != 0 {
		return dns.RecordClass(f.Class), nil
	}
	return dns.ClassIN, nil
}
