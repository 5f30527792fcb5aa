package converter

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/blezek/tga"
	"golang.org/x/image/bmp"
)

func TestTextureFileName(t *testing.T) {
	if n := TextureFileName(3, TextureFormatPNG); n != "texture_03.png" {
		t.Error(n)
	}
	if n := TextureFileName(120, TextureFormatTGA); n != "texture_120.tga" {
		t.Error(n)
	}
}

func TestSaveTextureTGA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex", "texture_00.tga")
	if err := SaveTexture(newTestTexturePack().Textures[0], path, TextureFormatTGA); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := tga.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatal("size: ", img.Bounds())
	}
	if r, g, _, a := img.At(0, 0).RGBA(); r>>8 != 255 || g != 0 || a>>8 != 255 {
		t.Error("pixel (0, 0): ", img.At(0, 0))
	}
}

func TestEncodeImageBMP(t *testing.T) {
	src, _ := newTestTexturePack().Textures[0].Image(0, 0)
	var buf bytes.Buffer
	if err := EncodeImage(&buf, src, TextureFormatBMP); err != nil {
		t.Fatal(err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, _ := img.At(1, 0).RGBA(); r != 0 || g>>8 != 255 || b != 0 {
		t.Error("pixel (1, 0): ", img.At(1, 0))
	}
}

func TestEncodeImageUnsupported(t *testing.T) {
	if err := EncodeImage(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), "jpg"); err == nil {
		t.Error("jpg should be unsupported")
	}
}

func TestExportTextures(t *testing.T) {
	dir := t.TempDir()
	pack := newTestTexturePack()
	pack.Textures = append(pack.Textures, pack.Textures[0])
	if n := ExportTextures(pack, dir, TextureFormatPNG); n != 2 {
		t.Fatal("saved: ", n)
	}
	for _, name := range []string{"texture_00.png", "texture_01.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Error(err)
		}
	}
}

func TestCheckTextureFormat(t *testing.T) {
	for in, expected := range map[string]string{
		"":    TextureFormatPNG,
		"TGA": TextureFormatTGA,
		"bmp": TextureFormatBMP,
		"jpg": TextureFormatPNG,
	} {
		if f := CheckTextureFormat(in); f != expected {
			t.Errorf("%q: %s, expected %s", in, f, expected)
		}
	}
}
