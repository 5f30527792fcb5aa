package dds3

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

// writeTestTexture writes a TMX0 resource. palettes are written as PSMCT32 colors.
func writeTestTexture(w *testWriter, format GSPixelFormat, width, height int, palettes [][]Color, data []byte) {
	w.resource(FileTypeTexture, IdentifierTexture, func(start int) {
		w.u8(uint8(len(palettes)), uint8(PSMCT32))
		w.u16(uint16(width), uint16(height))
		w.u8(uint8(format), 0)
		w.u16(0)
		w.u8(0, 0)
		w.i32(7, 8)
		w.Write([]byte("comment"))
		w.Write(make([]byte, userCommentSize-len("comment")))
		for _, p := range palettes {
			for _, c := range p {
				w.u8(c.R, c.G, c.B, c.A)
			}
		}
		w.Write(data)
	})
}

func linearPalette(n int) []Color {
	p := make([]Color, n)
	for i := range p {
		p[i] = Color{R: uint8(i), A: gsOpaque}
	}
	return p
}

func TestTilePalette(t *testing.T) {
	p := linearPalette(256)
	tiled := TilePalette(p)
	for i, expected := range map[int]uint8{0: 0, 7: 7, 8: 16, 15: 23, 16: 8, 23: 15, 24: 24, 40: 48, 255: 255} {
		if tiled[i].R != expected {
			t.Errorf("tiled[%d] = %d, expected %d", i, tiled[i].R, expected)
		}
	}
	back := TilePalette(tiled)
	for i := range p {
		if back[i] != p[i] {
			t.Fatal("TilePalette should be its own inverse at ", i)
		}
	}
}

func TestAlphaFromGS(t *testing.T) {
	for a, expected := range map[uint8]uint8{0: 0, 64: 127, 128: 255, 255: 255} {
		if v := AlphaFromGS(a); v != expected {
			t.Errorf("AlphaFromGS(%d) = %d, expected %d", a, v, expected)
		}
	}
}

func TestReadTexture4bit(t *testing.T) {
	w := &testWriter{}
	writeTestTexture(w, PSMT4, 4, 2, [][]Color{linearPalette(16), linearPalette(16)}, []byte{0x21, 0x43, 0x65, 0xF7})

	r := newReader(w.Bytes())
	tex := r.readTexture()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if tex.Width != 4 || tex.Height != 2 || !tex.IsIndexed() || tex.MipCount() != 1 || len(tex.Palettes) != 2 {
		t.Fatal("texture: ", tex.Width, tex.Height, tex.IsIndexed(), tex.MipCount())
	}
	if tex.UserComment != "comment" || tex.UserTextureID != 7 || tex.UserClutID != 8 {
		t.Error("user fields: ", tex.UserComment, tex.UserTextureID, tex.UserClutID)
	}
	img, err := tex.Image(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c := img.NRGBAAt(0, 0); c.R != 1 || c.A != 255 {
		t.Error("pixel (0, 0): ", c)
	}
	if c := img.NRGBAAt(1, 0); c.R != 2 {
		t.Error("pixel (1, 0): ", c)
	}
	if c := img.NRGBAAt(3, 1); c.R != 15 {
		t.Error("pixel (3, 1): ", c)
	}
	if _, err := tex.Image(2, 0); err == nil {
		t.Error("palette out of range should fail")
	}
	if _, err := tex.Image(0, 1); err == nil {
		t.Error("mip out of range should fail")
	}
}

func TestReadTexture8bit(t *testing.T) {
	w := &testWriter{}
	writeTestTexture(w, PSMT8, 2, 1, [][]Color{linearPalette(256)}, []byte{8, 16})

	r := newReader(w.Bytes())
	tex := r.readTexture()
	if r.err != nil {
		t.Fatal(r.err)
	}
	img, err := tex.Image(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if img.NRGBAAt(0, 0).R != 16 || img.NRGBAAt(1, 0).R != 8 {
		t.Error("palette should be tiled: ", img.Pix)
	}
}

func TestReadTextureTrueColor(t *testing.T) {
	w := &testWriter{}
	writeTestTexture(w, PSMCT16, 2, 1, nil, []byte{0x1F, 0x00, 0xE0, 0x03})

	r := newReader(w.Bytes())
	tex := r.readTexture()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if tex.IsIndexed() || tex.MipCount() != 1 {
		t.Fatal("texture: ", tex.IsIndexed(), tex.MipCount())
	}
	img, _ := tex.Image(0, 0)
	if c := img.NRGBAAt(0, 0); c.R != 0xF8 || c.G != 0 || c.A != 255 {
		t.Error("pixel (0, 0): ", c)
	}
	if c := img.NRGBAAt(1, 0); c.R != 0 || c.G != 0xF8 {
		t.Error("pixel (1, 0): ", c)
	}
}

func TestReadTextureBadFormat(t *testing.T) {
	w := &testWriter{}
	writeTestTexture(w, GSPixelFormat(0x55), 2, 1, nil, make([]byte, 8))
	r := newReader(w.Bytes())
	r.readTexture()
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}

// writeTestTexturePack writes a TXP0 resource with textures following each other at 64 byte boundaries.
func writeTestTexturePack(w *testWriter, textures int) {
	w.resource(FileTypeTexturePack, IdentifierTexturePack, func(start int) {
		w.i32(int32(textures))
		var offsets []int
		for i := 0; i < textures; i++ {
			offsets = append(offsets, w.reserve())
		}
		w.align(64)
		w.patchOffset(offsets[0], start)
		for i := 0; i < textures; i++ {
			writeTestTexture(w, PSMCT32, 2, 2, nil, bytes.Repeat([]byte{byte(i), 0, 0, gsOpaque}, 4))
			w.align(64)
		}
	})
}

func TestParseTexturePack(t *testing.T) {
	w := &testWriter{}
	writeTestTexturePack(w, 3)

	pack, err := ParseTexturePack(bytes.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(pack.Textures) != 3 {
		t.Fatal("textures: ", len(pack.Textures))
	}
	for i, tex := range pack.Textures {
		if tex.PixelFormat != PSMCT32 || tex.Pixels[0][3].R != uint8(i) {
			t.Error("texture ", i, tex.PixelFormat, tex.Pixels[0])
		}
	}
}
