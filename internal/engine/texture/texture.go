package texture

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/logger"
)

// Texture is a GL texture object backed by an image file.
// The GL object is created on the first successful Load.
type Texture struct {
	target uint32
	path   string
	id     uint32

	Width         int
	Height        int
	BytesPerPixel int
}

// New creates an unloaded texture for the given target (usually gl.TEXTURE_2D).
func New(target uint32, path string) *Texture {
	return &Texture{target: target, path: path}
}

// Path returns the source file path.
func (t *Texture) Path() string {
	return t.path
}

// Load reads, decodes and uploads the texture.
func (t *Texture) Load() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTextureDecode, err)
	}
	px, err := Decode(t.path, data)
	if err != nil {
		return err
	}

	t.upload(px)
	t.Width, t.Height, t.BytesPerPixel = px.Width, px.Height, px.BytesPerPixel

	logger.Debug("texture loaded",
		zap.String("path", t.path),
		zap.Int("width", px.Width),
		zap.Int("height", px.Height),
		zap.Bool("compressed", px.Compressed),
		zap.Int("levels", len(px.Levels)))
	return nil
}

func (t *Texture) upload(px *Pixels) {
	if t.id == 0 {
		gl.GenTextures(1, &t.id)
	}
	gl.BindTexture(t.target, t.id)

	w, h := int32(px.Width), int32(px.Height)
	for level, data := range px.Levels {
		var ptr unsafe.Pointer
		if len(data) > 0 {
			ptr = unsafe.Pointer(&data[0])
		}
		if px.Compressed {
			gl.CompressedTexImage2D(t.target, int32(level), px.InternalFormat, w, h, 0, int32(len(data)), ptr)
		} else {
			gl.TexImage2D(t.target, int32(level), int32(px.InternalFormat), w, h, 0, px.Format, px.Type, ptr)
		}
		w, h = max(w/2, 1), max(h/2, 1)
	}

	gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(t.target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(t.target, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(t.target, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if len(px.Levels) == 1 {
		gl.GenerateMipmap(t.target)
	} else {
		gl.TexParameteri(t.target, gl.TEXTURE_MAX_LEVEL, int32(len(px.Levels)-1))
	}

	gl.BindTexture(t.target, 0)
}

// Bind activates the texture unit (gl.TEXTURE0 + n) and binds the texture to it.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(unit)
	gl.BindTexture(t.target, t.id)
}

// Destroy deletes the GL object. The texture can be loaded again afterwards.
func (t *Texture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// NewSolid uploads a 1x1 texture of one color. It is bound where a material
// has no diffuse map so sampling yields the color instead of black.
func NewSolid(r, g, b, a byte) *Texture {
	t := &Texture{target: gl.TEXTURE_2D, path: "<solid>"}
	px := SolidPixels(r, g, b, a)
	t.upload(px)
	t.Width, t.Height, t.BytesPerPixel = px.Width, px.Height, px.BytesPerPixel
	return t
}
