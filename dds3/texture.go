package dds3

import (
	"image"
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
)

// TexturePack is a TXP0 resource (.TB file or part of a model pack).
type TexturePack struct {
	Header   *ResourceHeader
	Textures []*Texture
}

// Texture is a TMX0 resource.
type Texture struct {
	Header        *ResourceHeader
	PaletteFormat GSPixelFormat
	PixelFormat   GSPixelFormat
	Width         int
	Height        int
	MipKL         uint16
	WrapModes     uint8
	UserTextureID int32
	UserClutID    int32
	UserComment   string

	// Palettes are in linear order.
	Palettes     [][]Color
	PixelIndices [][]uint8 // per mip level
	Pixels       [][]Color // per mip level, non-indexed formats
}

const userCommentSize = 28

// LoadTexturePack reads a .TB file.
func LoadTexturePack(path string) (*TexturePack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTexturePack(f)
}

func ParseTexturePack(r io.Reader) (*TexturePack, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := newReader(b)
	pack := p.readTexturePack()
	if p.err != nil {
		return nil, errors.Wrap(p.err, "texture pack")
	}
	return pack, nil
}

// readTexturePack leaves the reader at the 64 byte aligned end of the last texture.
// Only the first texture offset is trusted; the others follow each other.
func (r *reader) readTexturePack() *TexturePack {
	pack := &TexturePack{}
	pack.Header = r.readResource(IdentifierTexturePack, true, func(h *ResourceHeader) {
		count := int(r.readInt32())
		next := 0
		for i := 0; i < count && r.err == nil; i++ {
			offset := r.readOffset()
			ret := r.pos
			if i == 0 {
				r.seek(offset)
			} else {
				r.seek(next)
			}
			t := r.readTexture()
			if r.err != nil {
				r.err = errors.Wrapf(r.err, "texture %d", i)
				return
			}
			pack.Textures = append(pack.Textures, t)
			r.align(64)
			if i < count-1 {
				next = r.pos
				r.seek(ret)
			}
		}
	})
	return pack
}

func (r *reader) readTexture() *Texture {
	t := &Texture{}
	t.Header = r.readResource(IdentifierTexture, false, func(h *ResourceHeader) {
		paletteCount := int(r.readUint8())
		t.PaletteFormat = GSPixelFormat(r.readUint8())
		t.Width = int(r.readUint16())
		t.Height = int(r.readUint16())
		t.PixelFormat = GSPixelFormat(r.readUint8())
		mipCount := int(r.readUint8())
		t.MipKL = r.readUint16()
		if reserved := r.readUint8(); reserved != 0 && r.err == nil {
			r.failf("texture reserved field is %d", reserved)
			return
		}
		t.WrapModes = r.readUint8()
		t.UserTextureID = r.readInt32()
		t.UserClutID = r.readInt32()
		t.UserComment = r.readFixedString(userCommentSize)

		if paletteCount > 0 {
			colors := t.PixelFormat.PaletteColorCount()
			dim := 16
			if colors == 16 {
				dim = 4
			}
			for i := 0; i < paletteCount; i++ {
				palette := r.readGSPixels(t.PaletteFormat, dim, dim)
				if colors == 256 {
					palette = TilePalette(palette)
				}
				t.Palettes = append(t.Palettes, palette)
			}
			for i := 0; i <= mipCount; i++ {
				w, h := t.MipSize(i)
				t.PixelIndices = append(t.PixelIndices, r.readGSIndices(t.PixelFormat, w, h))
			}
		} else {
			for i := 0; i <= mipCount; i++ {
				w, h := t.MipSize(i)
				t.Pixels = append(t.Pixels, r.readGSPixels(t.PixelFormat, w, h))
			}
		}
	})
	return t
}

// MipSize returns the dimensions of a mip level. Level i > 0 is 1/(4i) of the base size.
func (t *Texture) MipSize(mip int) (int, int) {
	if mip == 0 {
		return t.Width, t.Height
	}
	return t.Width / (4 * mip), t.Height / (4 * mip)
}

func (t *Texture) IsIndexed() bool {
	return t.PixelFormat.IsIndexed() && len(t.Palettes) > 0
}

func (t *Texture) MipCount() int {
	if t.IsIndexed() {
		return len(t.PixelIndices)
	}
	return len(t.Pixels)
}

// Image decodes a mip level with the given palette. GS alpha is scaled to 0..255.
func (t *Texture) Image(palette, mip int) (*image.NRGBA, error) {
	if mip < 0 || mip >= t.MipCount() {
		return nil, errors.Errorf("mip level %d out of range", mip)
	}
	w, h := t.MipSize(mip)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	nrgba := func(c Color) color.NRGBA {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: AlphaFromGS(c.A)}
	}
	if t.IsIndexed() {
		if palette < 0 || palette >= len(t.Palettes) {
			return nil, errors.Errorf("palette %d out of range", palette)
		}
		pal := t.Palettes[palette]
		for i, index := range t.PixelIndices[mip] {
			if int(index) < len(pal) {
				img.SetNRGBA(i%w, i/w, nrgba(pal[index]))
			}
		}
		return img, nil
	}
	for i, c := range t.Pixels[mip] {
		img.SetNRGBA(i%w, i/w, nrgba(c))
	}
	return img, nil
}
