package dns

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// MasterRecord is one decoded line of master-file (zone-file) presentation
// format (§4.1/§6.2): the common name/ttl/class/type preamble plus the
// rdata fields, still in tokenized-but-unparsed form — ParseMasterRData
// dispatches the fields to the matching RR's unpackMasterRData.
type MasterRecord struct {
	Name   DomainName
	TTL    int32
	Class  RecordClass
	Type   RecordType
	Fields []string
}

// SplitFields tokenizes a single logical rdata line the way §6.2 describes:
// whitespace-separated, ';' starts a comment (outside quotes), and
// double-quoted strings may contain escaped characters and embedded
// whitespace and are returned as one field with quotes stripped.
func SplitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	haveField := false
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			haveField = true
			i++
		case c == '\\' && i+1 < len(line):
			cur.WriteByte(c)
			cur.WriteByte(line[i+1])
			haveField = true
			i += 2
		case !inQuotes && c == ';':
			i = len(line)
		case !inQuotes && (c == ' ' || c == '\t'):
			if haveField {
				fields = append(fields, cur.String())
				cur.Reset()
				haveField = false
			}
			i++
		default:
			cur.WriteByte(c)
			haveField = true
			i++
		}
	}
	if haveField {
		fields = append(fields, cur.String())
	}
	return fields
}

// UnescapeCharString resolves \DDD and \c escapes inside a character-string
// field already extracted by SplitFields (quotes already stripped).
func UnescapeCharString(s string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\\' {
			if i+1 >= len(s) {
				return "", fmt.Errorf("%w: dangling escape", ErrMalformedMasterFile)
			}
			if isDigit(s[i+1]) {
				if i+4 > len(s) || !isDigit(s[i+2]) || !isDigit(s[i+3]) {
					return "", fmt.Errorf("%w: invalid \\DDD escape", ErrMalformedMasterFile)
				}
				v := (int(s[i+1]-'0'))*100 + int(s[i+2]-'0')*10 + int(s[i+3]-'0')
				if v > 255 {
					return "", fmt.Errorf("%w: \\DDD escape out of range", ErrMalformedMasterFile)
				}
				b.WriteByte(byte(v))
				i += 4
			} else {
				b.WriteByte(s[i+1])
				i += 2
			}
		} else {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String(), nil
}

// ParseUint32Field parses a decimal numeric field (invariant-culture: plain
// base-10, no locale separators), as §4.4 requires for every numeric rdata
// field.
func ParseUint32Field(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid numeric field %q: %v", ErrMalformedMasterFile, s, err)
	}
	return uint32(v), nil
}

func ParseUint16Field(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid numeric field %q: %v", ErrMalformedMasterFile, s, err)
	}
	return uint16(v), nil
}

func ParseUint8Field(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid numeric field %q: %v", ErrMalformedMasterFile, s, err)
	}
	return uint8(v), nil
}

// ParseMasterFile tokenizes a full zone file into MasterRecords, handling
// $ORIGIN/$TTL directives, parenthesized multi-line records, comments, name
// inheritance from the previous line, and default TTL/class inheritance
// (§6.2). It does not dispatch into per-type rdata parsing; call
// DecodeMasterRR for that.
func ParseMasterFile(text string, origin DomainName, defaultTTL int32) ([]MasterRecord, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var out []MasterRecord
	var pending []string
	parenDepth := 0
	lastName := origin
	curTTL := defaultTTL
	curClass := ClassIN

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		rec, name, err := parseOneRecord(pending, origin, lastName, curTTL, curClass)
		pending = nil
		if err != nil {
			return err
		}
		lastName = name
		out = append(out, rec)
		return nil
	}

	for scanner.Scan() {
		raw := scanner.Text()
		line, depth, err := stripCommentsTrackParens(raw, parenDepth)
		if err != nil {
			return nil, err
		}
		parenDepth = depth

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "$ORIGIN") {
			fields := SplitFields(trimmed)
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: $ORIGIN requires a name", ErrMalformedMasterFile)
			}
			o, err := ParseName(fields[1], origin)
			if err != nil {
				return nil, err
			}
			origin = o
			lastName = origin
			continue
		}
		if strings.HasPrefix(trimmed, "$TTL") {
			fields := SplitFields(trimmed)
			if len(fields) < 2 {
				return nil, fmt.Errorf("%w: $TTL requires a value", ErrMalformedMasterFile)
			}
			v, err := ParseUint32Field(fields[1])
			if err != nil {
				return nil, err
			}
			curTTL = int32(v)
			continue
		}

		leadingSpace := len(raw) > 0 && (raw[0] == ' ' || raw[0] == '\t')
		if parenDepth > 0 || leadingSpace {
			pending = append(pending, trimmed)
			if parenDepth == 0 {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		pending = append(pending, trimmed)
		if parenDepth == 0 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if parenDepth > 0 {
		return nil, fmt.Errorf("%w: unbalanced '('", ErrMalformedMasterFile)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, scanner.Err()
}

// stripCommentsTrackParens removes a ';' comment (outside quotes) from line
// and tracks paren-nesting depth across logical records, returning the
// comment-free line and the updated depth.
func stripCommentsTrackParens(line string, depth int) (string, int, error) {
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			b.WriteByte(c)
		case c == '\\' && i+1 < len(line):
			b.WriteByte(c)
			b.WriteByte(line[i+1])
			i++
		case !inQuotes && c == ';':
			return b.String(), depth, nil
		case !inQuotes && c == '(':
			depth++
			b.WriteByte(' ')
		case !inQuotes && c == ')':
			depth--
			if depth < 0 {
				return "", 0, fmt.Errorf("%w: unbalanced ')'", ErrMalformedMasterFile)
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), depth, nil
}

func parseOneRecord(lines []string, origin, lastName DomainName, defaultTTL int32, defaultClass RecordClass) (MasterRecord, DomainName, error) {
	joined := strings.Join(lines, " ")
	fields := SplitFields(joined)
	if len(fields) == 0 {
		return MasterRecord{}, lastName, fmt.Errorf("%w: empty record line", ErrMalformedMasterFile)
	}

	name := lastName
	i := 0
	if !startsWithTTLClassOrType(fields[0]) {
		n, err := ParseName(fields[0], origin)
		if err != nil {
			return MasterRecord{}, lastName, err
		}
		name = n
		i = 1
	}

	ttl := defaultTTL
	class := defaultClass
	var typ *RecordType
	for i < len(fields) {
		f := fields[i]
		if v, err := strconv.ParseUint(f, 10, 32); err == nil {
			ttl = int32(v)
			i++
			continue
		}
		if c, err := ParseClassToken(f); err == nil && isClassToken(f) {
			class = c
			i++
			continue
		}
		t, err := ParseTypeToken(f)
		if err != nil {
			return MasterRecord{}, lastName, fmt.Errorf("%w: expected record type, got %q", ErrMalformedMasterFile, f)
		}
		typ = &t
		i++
		break
	}
	if typ == nil {
		return MasterRecord{}, lastName, fmt.Errorf("%w: record missing type", ErrMalformedMasterFile)
	}
	return MasterRecord{Name: name, TTL: ttl, Class: class, Type: *typ, Fields: fields[i:]}, name, nil
}

func isClassToken(f string) bool {
	u := strings.ToUpper(f)
	switch u {
	case "IN", "CH", "HS", "NONE", "ANY":
		return true
	}
	return strings.HasPrefix(u, "CLASS")
}

func startsWithTTLClassOrType(f string) bool {
	if _, err := strconv.ParseUint(f, 10, 32); err == nil {
		return true
	}
	if isClassToken(f) {
		return true
	}
	if _, err := ParseTypeToken(f); err == nil {
		return true
	}
	return false
}

// DecodeMasterRR dispatches a tokenized MasterRecord to the registered
// type's master-file decoder, or the generic "\# <len> <hex>" path (§4.2).
func DecodeMasterRR(origin DomainName, rec MasterRecord) (RR, error) {
	rr := newByType(rec.Type)
	*rr.Header() = RRHeader{Name: rec.Name, Type: rec.Type, Class: rec.Class, TTL: rec.TTL}

	if isGenericSyntax(rec.Fields) {
		if err := decodeGenericRData(rr, rec.Fields); err != nil {
			return nil, err
		}
		return rr, nil
	}
	if err := rr.unpackMasterRData(origin, rec.Fields); err != nil {
		return nil, err
	}
	return rr, nil
}

// FormatMasterRR renders rr as one master-file line: "name ttl class type rdata".
func FormatMasterRR(rr RR) (string, error) {
	h := rr.Header()
	rdata, err := rr.packMasterRData()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %d %s %s %s", h.Name.String(), h.TTL, h.Class.ClassName(), h.Type.TypeName(), rdata), nil
}
