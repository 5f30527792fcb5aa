package dds3

import "fmt"

// GSPixelFormat is a PS2 graphics synthesizer pixel storage format.
type GSPixelFormat uint8

const (
	PSMCT32  GSPixelFormat = 0x00
	PSMCT24  GSPixelFormat = 0x01
	PSMCT16  GSPixelFormat = 0x02
	PSMCT16S GSPixelFormat = 0x0A
	PSMT8    GSPixelFormat = 0x13
	PSMT4    GSPixelFormat = 0x14
	PSMT8H   GSPixelFormat = 0x1B
	PSMT4HL  GSPixelFormat = 0x24
	PSMT4HH  GSPixelFormat = 0x2C
	PSMZ32   GSPixelFormat = 0x30
	PSMZ24   GSPixelFormat = 0x31
	PSMZ16   GSPixelFormat = 0x32
	PSMZ16S  GSPixelFormat = 0x3A
)

var gsPixelFormatNames = map[GSPixelFormat]string{
	PSMCT32: "PSMCT32", PSMCT24: "PSMCT24", PSMCT16: "PSMCT16", PSMCT16S: "PSMCT16S",
	PSMT8: "PSMT8", PSMT4: "PSMT4", PSMT8H: "PSMT8H", PSMT4HL: "PSMT4HL", PSMT4HH: "PSMT4HH",
	PSMZ32: "PSMZ32", PSMZ24: "PSMZ24", PSMZ16: "PSMZ16", PSMZ16S: "PSMZ16S",
}

func (f GSPixelFormat) String() string {
	if s, ok := gsPixelFormatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("GSPixelFormat(0x%02x)", uint8(f))
}

func (f GSPixelFormat) IsIndexed() bool {
	switch f {
	case PSMT8, PSMT8H, PSMT4, PSMT4HL, PSMT4HH:
		return true
	}
	return false
}

// PaletteColorCount returns the palette size of an indexed format.
func (f GSPixelFormat) PaletteColorCount() int {
	switch f {
	case PSMT4, PSMT4HL, PSMT4HH:
		return 16
	}
	return 256
}

// gsOpaque is the alpha of an opaque GS pixel.
const gsOpaque = 0x80

// AlphaFromGS scales GS alpha (0..128) to 0..255.
func AlphaFromGS(a uint8) uint8 {
	v := float32(a) / 128 * 255
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func (r *reader) readGSPixels(format GSPixelFormat, width, height int) []Color {
	pixels := make([]Color, width*height)
	switch format {
	case PSMCT32, PSMZ32:
		for i := range pixels {
			pixels[i] = r.readColor()
		}
	case PSMCT24, PSMZ24:
		for i := range pixels {
			b := r.bytes(3)
			pixels[i] = Color{R: b[0], G: b[1], B: b[2], A: gsOpaque}
		}
	case PSMCT16, PSMZ16, PSMCT16S, PSMZ16S:
		for i := range pixels {
			c := r.readUint16()
			pixels[i] = Color{
				R: uint8(c&0x1F) << 3,
				G: uint8(c>>5&0x1F) << 3,
				B: uint8(c>>10&0x1F) << 3,
				A: gsOpaque,
			}
		}
	default:
		r.failf("pixel format %v is not a color format", format)
	}
	return pixels
}

func (r *reader) readGSIndices(format GSPixelFormat, width, height int) []uint8 {
	indices := make([]uint8, width*height)
	switch format {
	case PSMT8, PSMT8H:
		copy(indices, r.bytes(len(indices)))
	case PSMT4, PSMT4HL, PSMT4HH:
		for i := 0; i+1 < len(indices); i += 2 {
			b := r.readUint8()
			indices[i] = b & 0x0F
			indices[i+1] = b >> 4
		}
	default:
		r.failf("pixel format %v is not an indexed format", format)
	}
	return indices
}

// TilePalette swaps the second and third 8-color run of every 32 colors (CSM1 layout).
// It is its own inverse.
func TilePalette(palette []Color) []Color {
	tiled := make([]Color, len(palette))
	copy(tiled, palette)
	for base := 0; base+32 <= len(palette); base += 32 {
		copy(tiled[base+8:base+16], palette[base+16:base+24])
		copy(tiled[base+16:base+24], palette[base+8:base+16])
	}
	return tiled
}
