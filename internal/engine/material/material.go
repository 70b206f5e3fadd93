// Package material resolves scene material slots into colors and textures.
package material

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Texture units used by the skinning shader.
const (
	ColorUnit            = 0
	SpecularExponentUnit = 8
)

// Texture is a bindable GPU texture owned by one material.
type Texture interface {
	Bind(unit uint32)
	Destroy()
}

// Material is a resolved material slot. Alpha channels of colors read from a
// file stay zero; only the default ambient is opaque white.
type Material struct {
	Name string

	AmbientColor  mgl32.Vec4
	DiffuseColor  mgl32.Vec4
	SpecularColor mgl32.Vec4

	Diffuse          Texture // nil when absent or dropped
	SpecularExponent Texture // nil when absent or dropped

	// Degraded is set when a texture failed to load and was dropped.
	Degraded bool
}

// Destroy releases the material's textures.
func (m *Material) Destroy() {
	if m.Diffuse != nil {
		m.Diffuse.Destroy()
		m.Diffuse = nil
	}
	if m.SpecularExponent != nil {
		m.SpecularExponent.Destroy()
		m.SpecularExponent = nil
	}
}

// Representative returns the first material with a non-zero ambient color,
// falling back to the first material. Returns nil for an empty list.
func Representative(materials []Material) *Material {
	if len(materials) == 0 {
		return nil
	}
	for i := range materials {
		if materials[i].AmbientColor != (mgl32.Vec4{}) {
			return &materials[i]
		}
	}
	return &materials[0]
}
