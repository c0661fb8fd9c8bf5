package pix

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Formats accepted by Write
const (
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatJPEG = "jpeg"
	FormatSpix = "spix"
)

// Read decodes a png, gif, jpeg, bmp, tiff, webp or spix stream. Paletted
// sources become 8 bpp colormapped images, everything else 32 bpp. The name
// of the detected format is returned.
func Read(r io.Reader) (*Pix, string, error) {
	br := newPeekReader(r)
	if br.hasPrefix(spixMagic) {
		p, err := ReadSpix(br)
		return p, FormatSpix, err
	}
	img, format, err := image.Decode(br)
	if err != nil {
		return nil, "", fmt.Errorf("pix: decode: %w", err)
	}
	if pal, ok := img.(*image.Paletted); ok {
		p, err := FromPaletted(pal)
		return p, format, err
	}
	p, err := FromImage(img)
	return p, format, err
}

// Write encodes the image in the named format. Colormapped images are written
// as paletted images wherever the format supports it.
func Write(w io.Writer, p *Pix, format string) error {
	var img image.Image = p
	if p.cmap != nil {
		pal, err := p.Paletted()
		if err != nil {
			return err
		}
		img = pal
	}
	switch strings.ToLower(format) {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF, "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatJPEG, "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case FormatSpix:
		return WriteSpix(w, p, true)
	default:
		return fmt.Errorf("pix: %w: %q", ErrFormat, format)
	}
}

// FormatFromPath guesses the output format from a file extension
func FormatFromPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return FormatPNG
	}
	switch ext := strings.ToLower(path[i+1:]); ext {
	case "jpg":
		return FormatJPEG
	case "tif":
		return FormatTIFF
	default:
		return ext
	}
}
