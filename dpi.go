package docproc

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// TIFF tag and field type constants used for resolution metadata.
const (
	tagXResolution    = 282
	tagYResolution    = 283
	tagResolutionUnit = 296

	fieldTypeShort    = 3
	fieldTypeRational = 5

	resolutionUnitInch = 2
)

// tiffEntry is one raw IFD entry. The 4-byte value field is kept verbatim
// so existing entries survive relocation unchanged.
type tiffEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value [4]byte
}

// setTIFFResolution embeds the DPI into a TIFF stream by rewriting its
// first IFD with XResolution, YResolution, and ResolutionUnit tags. The
// IFD is relocated to the end of the stream; all other entries and offsets
// are absolute and keep their meaning.
func setTIFFResolution(b []byte, dpi int) ([]byte, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("truncated TIFF header")
	}
	var bo binary.ByteOrder
	switch {
	case b[0] == 'I' && b[1] == 'I':
		bo = binary.LittleEndian
	case b[0] == 'M' && b[1] == 'M':
		bo = binary.BigEndian
	default:
		return nil, fmt.Errorf("not a TIFF stream")
	}

	ifdOff := int(bo.Uint32(b[4:8]))
	if ifdOff+2 > len(b) {
		return nil, fmt.Errorf("IFD offset out of range")
	}
	n := int(bo.Uint16(b[ifdOff:]))
	entriesEnd := ifdOff + 2 + n*12
	if entriesEnd+4 > len(b) {
		return nil, fmt.Errorf("IFD out of range")
	}
	nextIFD := bo.Uint32(b[entriesEnd:])

	entries := make([]tiffEntry, 0, n+3)
	for i := 0; i < n; i++ {
		off := ifdOff + 2 + i*12
		e := tiffEntry{
			tag:   bo.Uint16(b[off:]),
			typ:   bo.Uint16(b[off+2:]),
			count: bo.Uint32(b[off+4:]),
		}
		copy(e.value[:], b[off+8:off+12])
		switch e.tag {
		case tagXResolution, tagYResolution, tagResolutionUnit:
			continue // replaced below
		}
		entries = append(entries, e)
	}

	out := make([]byte, len(b), len(b)+len(entries)*12+64)
	copy(out, b)
	if len(out)%2 == 1 {
		out = append(out, 0) // value offsets must be word-aligned
	}

	// Resolution rationals (dpi/1), then the relocated IFD.
	xResOff := uint32(len(out))
	out = appendUint32(bo, out, uint32(dpi))
	out = appendUint32(bo, out, 1)
	yResOff := uint32(len(out))
	out = appendUint32(bo, out, uint32(dpi))
	out = appendUint32(bo, out, 1)

	var unitValue [4]byte
	bo.PutUint16(unitValue[:2], resolutionUnitInch)
	entries = append(entries,
		rationalEntry(bo, tagXResolution, xResOff),
		rationalEntry(bo, tagYResolution, yResOff),
		tiffEntry{tag: tagResolutionUnit, typ: fieldTypeShort, count: 1, value: unitValue},
	)
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	newIFDOff := uint32(len(out))
	var count [2]byte
	bo.PutUint16(count[:], uint16(len(entries)))
	out = append(out, count[:]...)
	for _, e := range entries {
		var raw [12]byte
		bo.PutUint16(raw[0:], e.tag)
		bo.PutUint16(raw[2:], e.typ)
		bo.PutUint32(raw[4:], e.count)
		copy(raw[8:], e.value[:])
		out = append(out, raw[:]...)
	}
	out = appendUint32(bo, out, nextIFD)

	bo.PutUint32(out[4:8], newIFDOff)
	return out, nil
}

func rationalEntry(bo binary.ByteOrder, tag uint16, valueOff uint32) tiffEntry {
	e := tiffEntry{tag: tag, typ: fieldTypeRational, count: 1}
	bo.PutUint32(e.value[:], valueOff)
	return e
}

func appendUint32(bo binary.ByteOrder, b []byte, v uint32) []byte {
	var raw [4]byte
	bo.PutUint32(raw[:], v)
	return append(b, raw[:]...)
}

// readTIFFResolution reads back the XResolution tag in dots per inch.
// Returns 0 if the stream carries no resolution metadata.
func readTIFFResolution(b []byte) (int, error) {
	if len(b) < 8 {
		return 0, fmt.Errorf("truncated TIFF header")
	}
	var bo binary.ByteOrder
	switch {
	case b[0] == 'I' && b[1] == 'I':
		bo = binary.LittleEndian
	case b[0] == 'M' && b[1] == 'M':
		bo = binary.BigEndian
	default:
		return 0, fmt.Errorf("not a TIFF stream")
	}
	ifdOff := int(bo.Uint32(b[4:8]))
	if ifdOff+2 > len(b) {
		return 0, fmt.Errorf("IFD offset out of range")
	}
	n := int(bo.Uint16(b[ifdOff:]))
	for i := 0; i < n; i++ {
		off := ifdOff + 2 + i*12
		if off+12 > len(b) {
			return 0, fmt.Errorf("IFD out of range")
		}
		if bo.Uint16(b[off:]) != tagXResolution {
			continue
		}
		valOff := int(bo.Uint32(b[off+8:]))
		if valOff+8 > len(b) {
			return 0, fmt.Errorf("resolution value out of range")
		}
		num := bo.Uint32(b[valOff:])
		den := bo.Uint32(b[valOff+4:])
		if den == 0 {
			return 0, fmt.Errorf("zero resolution denominator")
		}
		return int(num / den), nil
	}
	return 0, nil
}

// setJFIFDensity embeds the DPI into a JPEG stream's JFIF APP0 segment,
// inserting one after SOI when the encoder wrote none.
func setJFIFDensity(b []byte, dpi int) ([]byte, error) {
	if len(b) < 2 || b[0] != 0xFF || b[1] != 0xD8 {
		return nil, fmt.Errorf("not a JPEG stream")
	}

	// Existing APP0 directly after SOI: patch density in place.
	if len(b) >= 18 && b[2] == 0xFF && b[3] == 0xE0 && string(b[6:11]) == "JFIF\x00" {
		out := make([]byte, len(b))
		copy(out, b)
		out[13] = resolutionUnitInch - 1 // JFIF unit 1 = dots per inch
		binary.BigEndian.PutUint16(out[14:], uint16(dpi))
		binary.BigEndian.PutUint16(out[16:], uint16(dpi))
		return out, nil
	}

	seg := make([]byte, 18)
	seg[0], seg[1] = 0xFF, 0xE0
	binary.BigEndian.PutUint16(seg[2:], 16)
	copy(seg[4:], "JFIF\x00")
	seg[9], seg[10] = 1, 2 // JFIF version 1.02
	seg[11] = 1            // density unit: dots per inch
	binary.BigEndian.PutUint16(seg[12:], uint16(dpi))
	binary.BigEndian.PutUint16(seg[14:], uint16(dpi))

	out := make([]byte, 0, len(b)+len(seg))
	out = append(out, b[:2]...)
	out = append(out, seg...)
	out = append(out, b[2:]...)
	return out, nil
}

// readJFIFDensity reads back the APP0 X density. Returns 0 when the
// stream has no JFIF segment.
func readJFIFDensity(b []byte) (int, error) {
	if len(b) < 2 || b[0] != 0xFF || b[1] != 0xD8 {
		return 0, fmt.Errorf("not a JPEG stream")
	}
	if len(b) < 18 || b[2] != 0xFF || b[3] != 0xE0 || string(b[6:11]) != "JFIF\x00" {
		return 0, nil
	}
	return int(binary.BigEndian.Uint16(b[14:16])), nil
}
