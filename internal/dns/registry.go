package dns

import (
	"fmt"
	"strconv"
	"strings"
)

// registry maps a type code to a constructor producing a zero-value RR of
// that variant. Each record file registers itself from an init() func: a
// global static dispatch table, initialised once, with no process-wide
// mutable registry beyond that.
var registry = map[RecordType]func() RR{}

func register(t RecordType, ctor func() RR) {
	registry[t] = ctor
}

// ParseTypeToken parses a type token from master-file or JSON input: either
// a known mnemonic ("A", "AAAA", ...) or the generic "TYPE<n>" form (§6.2).
func ParseTypeToken(tok string) (RecordType, error) {
	for t, name := range typeNames {
		if strings.EqualFold(name, tok) {
			return t, nil
		}
	}
	upper := strings.ToUpper(tok)
	if strings.HasPrefix(upper, "TYPE") {
		n, err := strconv.ParseUint(upper[4:], 10, 16)
		if err == nil {
			return RecordType(n), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown record type %q", ErrMalformedMasterFile, tok)
}

// ParseClassToken parses a class token: a known mnemonic or "CLASS<n>".
func ParseClassToken(tok string) (RecordClass, error) {
	for c, name := range classNames {
		if strings.EqualFold(name, tok) {
			return c, nil
		}
	}
	upper := strings.ToUpper(tok)
	if strings.HasPrefix(upper, "CLASS") {
		n, err := strconv.ParseUint(upper[5:], 10, 16)
		if err == nil {
			return RecordClass(n), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown record class %q", ErrMalformedMasterFile, tok)
}

// isGenericSyntax reports whether fields begin with the §4.2/§6.2 generic
// rdata escape hatch: "\# <length> <hex...>".
func isGenericSyntax(fields []string) bool {
	return len(fields) > 0 && fields[0] == `\#`
}

// decodeGenericRData implements §4.2: "\# <length> <hex>" decodes a raw
// byte stream whose length must match the declared count, then re-dispatches
// through the binary decoder so generic syntax works uniformly for every
// registered type and for Unknown alike.
func decodeGenericRData(rr RR, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: generic syntax requires a length field", ErrMalformedMasterFile)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return fmt.Errorf("%w: invalid generic rdata length %q", ErrMalformedMasterFile, fields[1])
	}
	hexText := strings.Join(fields[2:], "")
	raw, err := DecodeBase16(hexText)
	if err != nil {
		return fmt.Errorf("%w: generic rdata hex: %v", ErrMalformedMasterFile, err)
	}
	if len(raw) != n {
		return fmt.Errorf("%w: generic rdata length mismatch: declared %d, got %d bytes", ErrMalformedMasterFile, n, len(raw))
	}
	if err := rr.unpackRData(raw, 0, len(raw)); err != nil {
		return err
	}
	return nil
}

// genericRDataText renders rdata as the "\# <length> <hex>" form used when a
// type has no unambiguous text form, or by Unknown always.
func genericRDataText(rdata []byte) string {
	if len(rdata) == 0 {
		return `\# 0`
	}
	return fmt.Sprintf(`\# %d %s`, len(rdata), EncodeBase16(rdata))
}
