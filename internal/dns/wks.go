package dns

import (
	"fmt"
	"net/netip"
)

func init() {
	register(TypeWKS, func() RR { return &WKSRecord{} })
}

// WKSRecord describes well-known services available on a host (RFC 1035
// §3.4.2): an IPv4 address, an IP protocol number, and a bitmap of port
// numbers offered under that protocol.
type WKSRecord struct {
	H        RRHeader
	Address  [4]byte
	Protocol uint8
	Bitmap   []byte
}

func (r *WKSRecord) Header() *RRHeader { return &r.H }
func (r *WKSRecord) Type() RecordType  { return TypeWKS }
func (r *WKSRecord) maxRDataLen() int  { return 4 + 1 + len(r.Bitmap) }

func (r *WKSRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = append(buf, r.Address[:]...)
	buf = putUint8(buf, r.Protocol)
	return append(buf, r.Bitmap...), nil
}

func (r *WKSRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	addr, off, err := readBytes(msg, off, 4)
	if err != nil {
		return err
	}
	proto, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	if off > end {
		return fmt.Errorf("%w: WKS rdata too short", ErrMalformedWire)
	}
	bitmap, off, err := readBytes(msg, off, end-off)
	if err != nil {
		return err
	}
	copy(r.Address[:], addr)
	r.Protocol, r.Bitmap = proto, bitmap
	return requireExact(off, end)
}

func (r *WKSRecord) packMasterRData() (string, error) {
	ports := wksBitmapToPorts(r.Bitmap)
	s := fmt.Sprintf("%d.%d.%d.%d %d", r.Address[0], r.Address[1], r.Address[2], r.Address[3], r.Protocol)
	for _, p := range ports {
		s += fmt.Sprintf(" %d", p)
	}
	return s, nil
}

func (r *WKSRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("%w: WKS record requires address, protocol, and port fields", ErrMalformedMasterFile)
	}
	ip, err := netip.ParseAddr(fields[0])
	if err != nil || !ip.Is4() {
		return fmt.Errorf("%w: invalid IPv4 address %q", ErrMalformedMasterFile, fields[0])
	}
	addr := ip.As4()
	proto, err := ParseUint8Field(fields[1])
	if err != nil {
		return err
	}
	ports := make([]int, 0, len(fields)-2)
	for _, f := range fields[2:] {
		p, err := ParseUint16Field(f)
		if err != nil {
			return err
		}
		ports = append(ports, int(p))
	}
	r.Address, r.Protocol, r.Bitmap = addr, proto, wksPortsToBitmap(ports)
	return nil
}

func wksPortsToBitmap(ports []int) []byte {
	maxPort := 0
	for _, p := range ports {
		if p+1 > maxPort {
			maxPort = p + 1
		}
	}
	bitmap := make([]byte, (maxPort+7)/8)
	for _, p := range ports {
		bitmap[p/8] |= 0x80 >> uint(p%8)
	}
	return bitmap
}

func wksBitmapToPorts(bitmap []byte) []int {
	var ports []int
	for i, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			if b&(0x80>>uint(bit)) != 0 {
				ports = append(ports, i*8+bit)
			}
		}
	}
	return ports
}
