package dns

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func init() {
	register(TypeLOC, func() RR { return &LOCRecord{} })
}

// locEquator is the wire encoding of latitude/longitude 0, the midpoint of
// the unsigned 32-bit angle space (RFC 1876 §2).
const locEquator = uint32(1) << 31

// locAltitudeBase shifts altitude so that -100000.00m (the lowest point the
// format can express) encodes as 0 (RFC 1876 §2).
const locAltitudeBase = int64(10000000)

// LOCRecord publishes a geographic location (RFC 1876 §2).
type LOCRecord struct {
	H         RRHeader
	Version   uint8 // always 0
	Size      uint64 // centimeters
	HorizPre  uint64 // centimeters
	VertPre   uint64 // centimeters
	Latitude  uint32 // wire-encoded angle
	Longitude uint32 // wire-encoded angle
	Altitude  int64  // centimeters above/below the WGS84 reference
}

func (r *LOCRecord) Header() *RRHeader { return &r.H }
func (r *LOCRecord) Type() RecordType  { return TypeLOC }
func (r *LOCRecord) maxRDataLen() int  { return 16 }

func (r *LOCRecord) packRData(buf []byte, _ compressionDict, _ bool) ([]byte, error) {
	buf = putUint8(buf, r.Version)
	buf = putUint8(buf, encodeLOCPrecision(r.Size))
	buf = putUint8(buf, encodeLOCPrecision(r.HorizPre))
	buf = putUint8(buf, encodeLOCPrecision(r.VertPre))
	buf = putUint32(buf, r.Latitude)
	buf = putUint32(buf, r.Longitude)
	buf = putUint32(buf, uint32(r.Altitude+locAltitudeBase))
	return buf, nil
}

func (r *LOCRecord) unpackRData(msg []byte, off, rdlen int) error {
	if rdlen != 16 {
		return fmt.Errorf("%w: LOC rdata must be 16 bytes, got %d", ErrMalformedWire, rdlen)
	}
	end := off + rdlen
	version, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	size, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	horizPre, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	vertPre, off, err := readUint8(msg, off)
	if err != nil {
		return err
	}
	lat, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	lon, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	alt, off, err := readUint32(msg, off)
	if err != nil {
		return err
	}
	r.Version = version
	r.Size = decodeLOCPrecision(size)
	r.HorizPre = decodeLOCPrecision(horizPre)
	r.VertPre = decodeLOCPrecision(vertPre)
	r.Latitude, r.Longitude = lat, lon
	r.Altitude = int64(alt) - locAltitudeBase
	return requireExact(off, end)
}

// encodeLOCPrecision packs a centimeter value as RFC 1876's base*10^exponent
// nibble pair, rounding down to the largest representable value <= cm.
func encodeLOCPrecision(cm uint64) byte {
	exp := 0
	base := cm
	for base > 9 {
		base /= 10
		exp++
	}
	return byte(base<<4) | byte(exp)
}

func decodeLOCPrecision(b byte) uint64 {
	base := uint64(b >> 4)
	exp := uint64(b & 0x0F)
	v := base
	for i := uint64(0); i < exp; i++ {
		v *= 10
	}
	return v
}

func (r *LOCRecord) packMasterRData() (string, error) {
	latDeg, latDir := decodeLOCAngle(r.Latitude, true)
	lonDeg, lonDir := decodeLOCAngle(r.Longitude, false)
	return fmt.Sprintf("%s %s %s %s %sm %sm %sm %sm",
		formatDMS(latDeg), latDir, formatDMS(lonDeg), lonDir,
		formatMeters(float64(r.Altitude)/100),
		formatMeters(float64(r.Size)/100),
		formatMeters(float64(r.HorizPre)/100),
		formatMeters(float64(r.VertPre)/100)), nil
}

// decodeLOCAngle converts a wire-encoded angle back to signed degrees and
// its hemisphere letter.
func decodeLOCAngle(v uint32, isLat bool) (float64, string) {
	signed := int64(v) - int64(locEquator)
	degrees := float64(signed) / 1000.0 / 3600.0
	dir := "E"
	if isLat {
		dir = "N"
	}
	if degrees < 0 {
		degrees = -degrees
		if isLat {
			dir = "S"
		} else {
			dir = "W"
		}
	}
	return degrees, dir
}

func formatDMS(deg float64) string {
	d := math.Floor(deg)
	remMin := (deg - d) * 60
	m := math.Floor(remMin)
	s := (remMin - m) * 60
	return fmt.Sprintf("%d %d %s", int(d), int(m), formatMeters(s))
}

func formatMeters(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return strings.TrimSuffix(strings.TrimSuffix(s, "0"), "0.")
}

func (r *LOCRecord) unpackMasterRData(_ DomainName, fields []string) error {
	if len(fields) < 8 {
		return fmt.Errorf("%w: LOC record requires latitude, longitude, altitude, and precision fields", ErrMalformedMasterFile)
	}
	latDeg, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid LOC latitude degrees %q", ErrMalformedMasterFile, fields[0])
	}
	latMin, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid LOC latitude minutes %q", ErrMalformedMasterFile, fields[1])
	}
	latSec, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid LOC latitude seconds %q", ErrMalformedMasterFile, fields[2])
	}
	latDir := strings.ToUpper(fields[3])
	lonDeg, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid LOC longitude degrees %q", ErrMalformedMasterFile, fields[4])
	}
	lonMin, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid LOC longitude minutes %q", ErrMalformedMasterFile, fields[5])
	}
	lonSec, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid LOC longitude seconds %q", ErrMalformedMasterFile, fields[6])
	}
	lonDir := strings.ToUpper(fields[7])

	rest := fields[8:]
	altitude := 0.0
	size, horizPre, vertPre := 100.0, 1000000.0, 10.0
	if len(rest) > 0 {
		if altitude, err = parseLOCMeters(rest[0]); err != nil {
			return err
		}
	}
	if len(rest) > 1 {
		if size, err = parseLOCMeters(rest[1]); err != nil {
			return err
		}
	}
	if len(rest) > 2 {
		if horizPre, err = parseLOCMeters(rest[2]); err != nil {
			return err
		}
	}
	if len(rest) > 3 {
		if vertPre, err = parseLOCMeters(rest[3]); err != nil {
			return err
		}
	}

	r.Version = 0
	r.Latitude = encodeLOCAngle(latDeg, latMin, latSec, latDir == "S")
	r.Longitude = encodeLOCAngle(lonDeg, lonMin, lonSec, lonDir == "W")
	r.Altitude = int64(math.Round(altitude * 100))
	r.Size = uint64(math.Round(size * 100))
	r.HorizPre = uint64(math.Round(horizPre * 100))
	r.VertPre = uint64(math.Round(vertPre * 100))
	return nil
}

func encodeLOCAngle(deg, min, sec float64, negative bool) uint32 {
	total := (deg*3600 + min*60 + sec) * 1000
	if negative {
		total = -total
	}
	return uint32(int64(locEquator) + int64(math.Round(total)))
}

func parseLOCMeters(s string) (float64, error) {
	s = strings.TrimSuffix(s, "m")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid LOC meters value %q", ErrMalformedMasterFile, s)
	}
	return v, nil
}
