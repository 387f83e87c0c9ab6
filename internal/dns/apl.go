package dns

import (
	"fmt"
	"strconv"
	"strings"
)

func init() {
	register(TypeAPL, func() RR { return &APLRecord{} })
}

// APLItem is one address-prefix-list entry (RFC 3123 §4).
type APLItem struct {
	AddressFamily uint16 // 1 = IPv4, 2 = IPv6
	Prefix        uint8
	Negation      bool
	AFDData       []byte
}

// APLRecord lists address prefixes associated with a name (RFC 3123 §4).
type APLRecord struct {
	H     RRHeader
	Items []APLItem
}

func (r *APLRecord) Header() *RRHeader { return &r.H }
func (r *APLRecord) Type() RecordType  { return TypeAPL }

func (r *APLRecord) maxRDataLen() int {
	n := 0
	for _, it := range r.Items {
		n += 4 + len(it.AFDData)
	}
	return n
}

func (r *APLRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	for _, it := range r.Items {
		if len(it.AFDData) > 0x7F {
			return nil, fmt.Errorf("%w: APL afdlength exceeds 127 octets", ErrMalformedWire)
		}
		buf = putUint16(buf, it.AddressFamily)
		buf = putUint8(buf, it.Prefix)
		afdLen := uint8(len(it.AFDData))
		if it.Negation {
			afdLen |= 0x80
		}
		buf = putUint8(buf, afdLen)
		buf = append(buf, it.AFDData...)
	}
	return buf, nil
}

func (r *APLRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	var items []APLItem
	for off < end {
		family, o, err := readUint16(msg, off)
		if err != nil {
			return err
		}
		prefix, o, err := readUint8(msg, o)
		if err != nil {
			return err
		}
		afdLenByte, o, err := readUint8(msg, o)
		if err != nil {
			return err
		}
		negation := afdLenByte&0x80 != 0
		afdLen := int(afdLenByte & 0x7F)
		afd, o, err := readBytes(msg, o, afdLen)
		if err != nil {
			return err
		}
		items = append(items, APLItem{AddressFamily: family, Prefix: prefix, Negation: negation, AFDData: afd})
		off = o
	}
	r.Items = items
	return requireExact(off, end)
}

func (r *APLRecord) packMasterRData() (string, error) {
	var b strings.Builder
	for i, it := range r.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		if it.Negation {
			b.WriteByte('!')
		}
		fmt.Fprintf(&b, "%d:%s/%d", it.AddressFamily, formatAFD(it.AddressFamily, it.AFDData), it.Prefix)
	}
	return b.String(), nil
}

func formatAFD(family uint16, afd []byte) string {
	if family == 1 {
		var b [4]byte
		copy(b[:], afd)
		return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
	}
	return EncodeBase16(afd)
}

func (r *APLRecord) unpackMasterRData(_ DomainName, fields []string) error {
	items := make([]APLItem, 0, len(fields))
	for _, f := range fields {
		negation := strings.HasPrefix(f, "!")
		if negation {
			f = f[1:]
		}
		colon := strings.IndexByte(f, ':')
		slash := strings.LastIndexByte(f, '/')
		if colon < 0 || slash < 0 || slash < colon {
			return fmt.Errorf("%w: invalid APL item %q", ErrMalformedMasterFile, f)
		}
		family, err := strconv.ParseUint(f[:colon], 10, 16)
		if err != nil {
			return fmt.Errorf("%w: invalid APL address family %q", ErrMalformedMasterFile, f[:colon])
		}
		prefix, err := strconv.ParseUint(f[slash+1:], 10, 8)
		if err != nil {
			return fmt.Errorf("%w: invalid APL prefix %q", ErrMalformedMasterFile, f[slash+1:])
		}
		afdText := f[colon+1 : slash]
		var afd []byte
		if family == 1 {
			parts := strings.Split(afdText, ".")
			if len(parts) != 4 {
				return fmt.Errorf("%w: invalid APL IPv4 address %q", ErrMalformedMasterFile, afdText)
			}
			for _, p := range parts {
				v, err := strconv.ParseUint(p, 10, 8)
				if err != nil {
					return fmt.Errorf("%w: invalid APL IPv4 octet %q", ErrMalformedMasterFile, p)
				}
				afd = append(afd, byte(v))
			}
			afd = trimTrailingZeros(afd)
		} else {
			afd, err = DecodeBase16(afdText)
			if err != nil {
				return err
			}
		}
		items = append(items, APLItem{AddressFamily: uint16(family), Prefix: uint8(prefix), Negation: negation, AFDData: afd})
	}
	r.Items = items
	return nil
}

func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}
