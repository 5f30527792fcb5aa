package converter

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/dds3conv/dds3"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

const (
	TextureFormatPNG = "png"
	TextureFormatTGA = "tga"
	TextureFormatBMP = "bmp"
)

// CheckTextureFormat returns the format in lower case, or png for unsupported formats.
func CheckTextureFormat(format string) string {
	f := strings.ToLower(format)
	switch f {
	case TextureFormatPNG, TextureFormatTGA, TextureFormatBMP:
		return f
	case "":
	default:
		log.Printf("unsupported texture format %q, using png", format)
	}
	return TextureFormatPNG
}

// EncodeImage writes img in the given format.
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case TextureFormatPNG:
		return png.Encode(w, img)
	case TextureFormatTGA:
		return tga.Encode(w, img)
	case TextureFormatBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported texture format: %s", format)
}

// SaveTexture writes the first palette and mip level of the texture.
func SaveTexture(tex *dds3.Texture, path, format string) error {
	img, err := tex.Image(0, 0)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return EncodeImage(w, img, format)
}

// ExportTextures writes every texture of the pack to dir. Errors are logged and skipped.
func ExportTextures(pack *dds3.TexturePack, dir, format string) int {
	saved := 0
	for i, tex := range pack.Textures {
		path := filepath.Join(dir, TextureFileName(i, format))
		if err := SaveTexture(tex, path, format); err != nil {
			log.Printf("texture %d: %v", i, err)
			continue
		}
		saved++
	}
	return saved
}
