package material

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/engine/sceneio"
	"github.com/Faultbox/skinview/internal/engine/texture"
	"github.com/Faultbox/skinview/internal/logger"
)

// noPathShininess is a placeholder some exporters write for an unset
// shininess map.
const noPathShininess = `C:\\`

// TextureLoader creates and loads a texture from a resolved file path.
type TextureLoader interface {
	Load(path string) (Texture, error)
}

// GLTextureLoader loads 2D textures into OpenGL.
type GLTextureLoader struct{}

// Load implements TextureLoader.
func (GLTextureLoader) Load(path string) (Texture, error) {
	t := texture.New(gl.TEXTURE_2D, path)
	if err := t.Load(); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

// Slot names the texture role inside a material.
type Slot string

const (
	SlotDiffuse          Slot = "diffuse"
	SlotSpecularExponent Slot = "specular exponent"
)

// TextureError records a texture that could not be loaded.
type TextureError struct {
	Material int
	Slot     Slot
	Path     string
	Err      error
}

func (e *TextureError) Error() string {
	return fmt.Sprintf("material %d %s texture %s: %v", e.Material, e.Slot, e.Path, e.Err)
}

func (e *TextureError) Unwrap() error {
	return e.Err
}

// Resolver turns scene materials into Materials.
type Resolver struct {
	Loader TextureLoader

	// Strict aborts on the first texture failure. Otherwise the texture is
	// dropped and the material marked Degraded.
	Strict bool
}

// TexturePath builds the path of a texture relative to the scene directory.
// A leading `.\` is stripped. The shininess placeholder `C:\\` resolves to the
// directory itself.
func TexturePath(dir, p string, shininess bool) string {
	switch {
	case shininess && p == noPathShininess:
		p = ""
	case strings.HasPrefix(p, `.\`):
		p = p[2:]
	}
	return dir + "/" + p
}

// Resolve loads every material slot in order. In lenient mode the returned
// slice of texture errors lists everything that was dropped. In strict mode
// the first failure is returned as error and nothing stays loaded.
func (r *Resolver) Resolve(dir string, src []sceneio.Material) ([]Material, []*TextureError, error) {
	materials := make([]Material, len(src))
	var dropped []*TextureError

	for i := range src {
		m := &materials[i]
		m.Name = src[i].Name

		for _, slot := range []Slot{SlotDiffuse, SlotSpecularExponent} {
			raw := src[i].DiffuseTexture
			if slot == SlotSpecularExponent {
				raw = src[i].ShininessTexture
			}
			if raw == "" {
				continue
			}

			path := TexturePath(dir, raw, slot == SlotSpecularExponent)
			tex, err := r.Loader.Load(path)
			if err != nil {
				texErr := &TextureError{Material: i, Slot: slot, Path: path, Err: err}
				if r.Strict {
					destroyAll(materials[:i+1])
					return nil, nil, texErr
				}
				logger.Warn("texture dropped",
					zap.Int("material", i), zap.String("slot", string(slot)),
					zap.String("path", path), zap.Error(err))
				m.Degraded = true
				dropped = append(dropped, texErr)
				continue
			}

			logger.Debug("loaded texture", zap.Int("material", i), zap.String("slot", string(slot)), zap.String("path", path))
			if slot == SlotDiffuse {
				m.Diffuse = tex
			} else {
				m.SpecularExponent = tex
			}
		}

		loadColors(m, &src[i], i)
	}

	return materials, dropped, nil
}

func loadColors(m *Material, src *sceneio.Material, index int) {
	if src.HasAmbient {
		m.AmbientColor = rgb(src.Ambient)
		logger.Debug("loaded ambient color", zap.Int("material", index), zap.Any("color", m.AmbientColor.Vec3()))
	} else {
		m.AmbientColor = mgl32.Vec4{1, 1, 1, 1}
	}
	if src.HasDiffuse {
		m.DiffuseColor = rgb(src.Diffuse)
		logger.Debug("loaded diffuse color", zap.Int("material", index), zap.Any("color", m.DiffuseColor.Vec3()))
	}
	if src.HasSpecular {
		m.SpecularColor = rgb(src.Specular)
		logger.Debug("loaded specular color", zap.Int("material", index), zap.Any("color", m.SpecularColor.Vec3()))
	}
}

// rgb keeps the color channels and leaves alpha at zero.
func rgb(c mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{c[0], c[1], c[2], 0}
}

func destroyAll(materials []Material) {
	for i := range materials {
		materials[i].Destroy()
	}
}
