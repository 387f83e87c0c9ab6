package dns

import "strings"

func init() {
	register(TypeTXT, func() RR { return &TXTRecord{T: TypeTXT} })
	register(TypeSPF, func() RR { return &TXTRecord{T: TypeSPF} })
}

// TypeSPF is the legacy SPF record (RFC 7208 §3.1, deprecated in favor of
// TXT but still seen in the wild); it shares TXT's exact wire and text form.
const TypeSPF RecordType = 99

func init() { typeNames[TypeSPF] = "SPF" }

// TXTRecord holds one or more character-strings concatenated for
// presentation (RFC 1035 §3.3.14); TXTRecord also backs the legacy SPF type.
type TXTRecord struct {
	H     RRHeader
	T     RecordType
	Texts []string
}

func NewTXTRecord(h RRHeader, texts ...string) *TXTRecord {
	return &TXTRecord{H: h, T: TypeTXT, Texts: texts}
}

func (r *TXTRecord) Header() *RRHeader { return &r.H }
func (r *TXTRecord) Type() RecordType  { return r.T }
func (r *TXTRecord) maxRDataLen() int  { return stringSetLength(r.Texts) }

func (r *TXTRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	return putStringSet(buf, r.Texts)
}

func (r *TXTRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	texts, err := readStringSet(msg, off, end)
	if err != nil {
		return err
	}
	r.Texts = texts
	return nil
}

func (r *TXTRecord) packMasterRData() (string, error) {
	var b strings.Builder
	for i, t := range r.Texts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('"')
		b.WriteString(escapeCharString(t))
		b.WriteByte('"')
	}
	return b.String(), nil
}

func (r *TXTRecord) unpackMasterRData(_ DomainName, fields []string) error {
	texts := make([]string, 0, len(fields))
	for _, f := range fields {
		s, err := UnescapeCharString(f)
		if err != nil {
			return err
		}
		texts = append(texts, s)
	}
	r.Texts = texts
	return nil
}

func escapeCharString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
