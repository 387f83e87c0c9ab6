package dns

import (
	"fmt"
	"sort"
)

// encodeTypeBitmap implements the NSEC/NSEC3/CSYNC windowed bitmap (§4.4,
// RFC 4034 §4.1.2): grouped by window (the type code's high byte), each
// present window contributes a window number, an octet length (1..32), and
// that many MSB-first bitmap octets with trailing zero octets trimmed.
// Windows are emitted in ascending order and empty windows are skipped.
func encodeTypeBitmap(types []RecordType) []byte {
	byWindow := map[byte][]RecordType{}
	for _, t := range types {
		w := byte(t >> 8)
		byWindow[w] = append(byWindow[w], t)
	}
	windows := make([]byte, 0, len(byWindow))
	for w := range byWindow {
		windows = append(windows, w)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i] < windows[j] })

	var out []byte
	for _, w := range windows {
		var bits [32]byte
		maxByte := 0
		for _, t := range byWindow[w] {
			lo := byte(t & 0xFF)
			byteIdx := int(lo / 8)
			bitIdx := uint(lo % 8)
			bits[byteIdx] |= 0x80 >> bitIdx
			if byteIdx+1 > maxByte {
				maxByte = byteIdx + 1
			}
		}
		out = append(out, w, byte(maxByte))
		out = append(out, bits[:maxByte]...)
	}
	return out
}

// decodeTypeBitmap reverses encodeTypeBitmap, rejecting duplicate windows
// and malformed per-window lengths (§4.4).
func decodeTypeBitmap(rdata []byte) ([]RecordType, error) {
	var types []RecordType
	seen := map[byte]bool{}
	i := 0
	for i < len(rdata) {
		if i+2 > len(rdata) {
			return nil, fmt.Errorf("%w: truncated type-bitmap window header", ErrMalformedWire)
		}
		window := rdata[i]
		length := int(rdata[i+1])
		if length < 1 || length > 32 {
			return nil, fmt.Errorf("%w: invalid type-bitmap window length %d", ErrMalformedWire, length)
		}
		if seen[window] {
			return nil, fmt.Errorf("%w: duplicate type-bitmap window %d", ErrMalformedWire, window)
		}
		seen[window] = true
		i += 2
		if i+length > len(rdata) {
			return nil, fmt.Errorf("%w: truncated type-bitmap window data", ErrMalformedWire)
		}
		for byteIdx := 0; byteIdx < length; byteIdx++ {
			b := rdata[i+byteIdx]
			for bit := 0; bit < 8; bit++ {
				if b&(0x80>>uint(bit)) != 0 {
					types = append(types, RecordType(int(window)<<8|byteIdx*8+bit))
				}
			}
		}
		i += length
	}
	return types, nil
}

// formatTypeBitmap renders a type list as the space-separated mnemonic list
// master-file NSEC/NSEC3/CSYNC records use.
func formatTypeBitmap(types []RecordType) string {
	s := ""
	for i, t := range types {
		if i > 0 {
			s += " "
		}
		s += t.TypeName()
	}
	return s
}

func typeBitmapLen(types []RecordType) int {
	return len(encodeTypeBitmap(types))
}
