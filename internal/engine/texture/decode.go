// Package texture loads image files into OpenGL textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Texture errors.
var (
	ErrTextureDecode  = errors.New("texture decode failed")
	ErrInvalidKTX     = errors.New("invalid KTX data")
	ErrUnsupportedKTX = errors.New("unsupported KTX layout")
)

// decoders maps file extensions to image codecs. TGA has no magic number,
// so every format is chosen by extension rather than sniffed.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Pixels is decoded texture data ready for upload.
type Pixels struct {
	Width         int
	Height        int
	BytesPerPixel int // 0 for compressed data

	InternalFormat uint32
	Format         uint32 // pixel format, unused when compressed
	Type           uint32 // component type, unused when compressed
	Compressed     bool

	// Levels holds mip levels, base level first. A single level means
	// mipmaps are generated after upload.
	Levels [][]byte
}

// Decode turns file contents into uploadable pixels. The format is chosen by
// the extension of path. Generic images are converted to RGBA and flipped
// vertically so row 0 is the bottom of the image.
func Decode(path string, data []byte) (*Pixels, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ktx" {
		px, err := DecodeKTX(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTextureDecode, path, err)
		}
		return px, nil
	}

	var (
		img image.Image
		err error
	)
	if dec, ok := decoders[ext]; ok {
		img, err = dec(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTextureDecode, path, err)
	}

	rgba := ImageToRGBA(img)
	FlipVertical(rgba)

	b := rgba.Bounds()
	return rgba8(b.Dx(), b.Dy(), rgba.Pix), nil
}

// SolidPixels returns a single RGBA8 texel.
func SolidPixels(r, g, b, a byte) *Pixels {
	return rgba8(1, 1, []byte{r, g, b, a})
}

func rgba8(width, height int, pix []byte) *Pixels {
	return &Pixels{
		Width:          width,
		Height:         height,
		BytesPerPixel:  4,
		InternalFormat: gl.RGBA,
		Format:         gl.RGBA,
		Type:           gl.UNSIGNED_BYTE,
		Levels:         [][]byte{pix},
	}
}

// ImageToRGBA converts any image.Image to a tightly packed *image.RGBA with
// its origin at (0, 0).
func ImageToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			rgba.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
				R: uint8(r16 >> 8), G: uint8(g16 >> 8), B: uint8(b16 >> 8), A: uint8(a16 >> 8),
			})
		}
	}

	return rgba
}

// FlipVertical swaps image rows in place.
func FlipVertical(img *image.RGBA) {
	h := img.Bounds().Dy()
	rowLen := img.Bounds().Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bot := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}
