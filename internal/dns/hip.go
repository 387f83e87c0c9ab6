package dns

import (
	"fmt"
	"strings"

	"github.com/kestreldns/dnscore/internal/helpers"
)

func init() {
	register(TypeHIP, func() RR { return &HIPRecord{} })
}

// HIPRecord publishes a Host Identity Protocol host identity tag and public
// key (RFC 8005 §5): HIT length (u8), PK algorithm (u8), PK length (u16),
// then HIT, public key, and an ordered list of rendezvous-server names.
type HIPRecord struct {
	H                RRHeader
	PKAlgorithm      uint8
	HIT              []byte
	PublicKey        []byte
	RendezvousServer []DomainName
}

func (r *HIPRecord) Header() *RRHeader { return &r.H }
func (r *HIPRecord) Type() RecordType  { return TypeHIP }

func (r *HIPRecord) maxRDataLen() int {
	n := 4 + len(r.HIT) + len(r.PublicKey)
	for _, s := range r.RendezvousServer {
		n += s.EncodedLen()
	}
	return n
}

func (r *HIPRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	if len(r.HIT) > 255 {
		return nil, fmt.Errorf("%w: HIP HIT exceeds 255 octets", ErrMalformedWire)
	}
	if len(r.PublicKey) > 0xFFFF {
		return nil, fmt.Errorf("%w: HIP public key exceeds 65535 octets", ErrMalformedWire)
	}
	buf = putUint8(buf, helpers.ClampIntToUint8(len(r.HIT)))
	buf = putUint8(buf, r.PKAlgorithm)
	buf = putUint16(buf, helpers.ClampIntToUint16(len(r.PublicKey)))
	buf = append(buf, r.HIT...)
	buf = append(buf, r.PublicKey...)
	for _, s := range r.RendezvousServer {
		var err error
		buf, err = EncodeName(buf, s, nil, false)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (r *HIPRecord) unpackRData(msg []byte, off, rdlen int) error {
	end := off + rdlen
	hitLen, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	pkAlgorithm, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	pkLen, off, err := readUint16(msg, off)
	if err != nil {
		return err
	}
	if off+int(hitLen)+int(pkLen) > end {
		return fmt.Errorf("%w: HIP rdata too short for declared HIT/key lengths", ErrMalformedWire)
	}
	hit, off, err := readBytes(msg, off, int(hitLen))
	if err != nil {
		return err
	}
	pubKey, off, err := readBytes(msg, off, int(pkLen))
	if err != nil {
		return err
	}
	var servers []DomainName
	for off < end {
		name, next, err := DecodeName(msg, off)
		if err != nil {
			return err
		}
		servers = append(servers, name)
		off = next
	}
	r.PKAlgorithm, r.HIT, r.PublicKey, r.RendezvousServer = pkAlgorithm, hit, pubKey, servers
	return requireExact(off, end)
}

func (r *HIPRecord) packMasterRData() (string, error) {
	s := fmt.Sprintf("%d %s %s", r.PKAlgorithm, EncodeBase16(r.HIT), EncodeBase64(r.PublicKey))
	for _, rv := range r.RendezvousServer {
		s += " " + rv.String()
	}
	return s, nil
}

func (r *HIPRecord) unpackMasterRData(origin DomainName, fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("%w: HIP record requires algorithm, HIT, and public key fields", ErrMalformedMasterFile)
	}
	algorithm, err := ParseUint8Field(fields[0])
	if err != nil {
		return err
	}
	hit, err := DecodeBase16(fields[1])
	if err != nil {
		return err
	}
	pubKey, err := DecodeBase64(fields[2])
	if err != nil {
		return err
	}
	var servers []DomainName
	for _, f := range fields[3:] {
		if strings.TrimSpace(f) == "" {
			continue
		}
		n, err := ParseName(f, origin)
		if err != nil {
			return err
		}
		servers = append(servers, n)
	}
	r.PKAlgorithm, r.HIT, r.PublicKey, r.RendezvousServer = algorithm, hit, pubKey, servers
	return nil
}
