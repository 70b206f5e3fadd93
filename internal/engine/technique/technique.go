// Package technique drives the skinning shader program.
package technique

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/engine/lighting"
	"github.com/Faultbox/skinview/internal/engine/material"
	"github.com/Faultbox/skinview/internal/engine/shader"
	"github.com/Faultbox/skinview/internal/logger"
	"github.com/Faultbox/skinview/shaders"
)

// Maximum lights of each kind the shader accepts.
const (
	MaxDirectionalLights = 2
	MaxPointLights       = 2
	MaxSpotLights        = 2
)

// Skinning is the skinned mesh shading technique.
type Skinning struct {
	program uint32
	sink    uniformSink

	wvp                 int32
	sampler             int32
	samplerSpecular     int32
	cameraLocalPos      int32
	displayBoneIndex    int32
	numDirectionalLight int32
	numPointLights      int32
	numSpotLights       int32

	material    materialLocs
	directional [MaxDirectionalLights]directionalLocs
	point       [MaxPointLights]pointLocs
	spot        [MaxSpotLights]spotLocs

	warned map[lighting.Kind]bool
}

// New compiles the skinning program and resolves its uniforms. Sources are
// read from the configured paths, falling back to the embedded copies.
func New(cfg config.ShaderConfig) (*Skinning, error) {
	program, err := shader.LoadProgram(
		shader.Source{Path: cfg.Vertex, Fallback: shaders.SkinningVertexShader},
		shader.Source{Path: cfg.Fragment, Fallback: shaders.SkinningFragmentShader},
	)
	if err != nil {
		return nil, fmt.Errorf("skinning technique: %w", err)
	}

	t := newSkinning(func(name string) int32 {
		return shader.GetUniform(program, name)
	}, glSink{})
	t.program = program

	t.Enable()
	t.setTextureUnits(material.ColorUnit, material.SpecularExponentUnit)

	logger.Debug("skinning technique ready", zap.Uint32("program", program))
	return t, nil
}

func newSkinning(lookup lookupFunc, sink uniformSink) *Skinning {
	t := &Skinning{
		sink:                sink,
		wvp:                 lookup("gWVP"),
		sampler:             lookup("gSampler"),
		samplerSpecular:     lookup("gSamplerSpecularExponent"),
		cameraLocalPos:      lookup("gCameraLocalPos"),
		displayBoneIndex:    lookup("gDisplayBoneIndex"),
		numDirectionalLight: lookup("gNumDirectionalLights"),
		numPointLights:      lookup("gNumPointLights"),
		numSpotLights:       lookup("gNumSpotLights"),
		material: materialLocs{
			ambient:  lookup("gMaterial.AmbientColor"),
			diffuse:  lookup("gMaterial.DiffuseColor"),
			specular: lookup("gMaterial.SpecularColor"),
		},
		warned: make(map[lighting.Kind]bool),
	}
	for i := range t.directional {
		t.directional[i] = lookupDirectional(lookup, i)
	}
	for i := range t.point {
		t.point[i] = lookupPoint(lookup, fmt.Sprintf("gPointLights[%d].", i))
	}
	for i := range t.spot {
		t.spot[i] = lookupSpot(lookup, i)
	}
	return t
}

// Enable makes the program current.
func (t *Skinning) Enable() {
	gl.UseProgram(t.program)
}

// Destroy deletes the program.
func (t *Skinning) Destroy() {
	if t.program != 0 {
		gl.DeleteProgram(t.program)
		t.program = 0
	}
}

func (t *Skinning) setTextureUnits(color, specularExponent int32) {
	t.sink.Int(t.sampler, color)
	t.sink.Int(t.samplerSpecular, specularExponent)
}

// SetWVP uploads the world-view-projection matrix.
func (t *Skinning) SetWVP(wvp mgl32.Mat4) {
	t.sink.Mat4(t.wvp, wvp)
}

// SetCameraLocalPos uploads the camera position in mesh-local space.
func (t *Skinning) SetCameraLocalPos(pos mgl32.Vec3) {
	t.sink.Vec3(t.cameraLocalPos, pos)
}

// SetDisplayBoneIndex selects the bone whose weights are shown; -1 disables it.
func (t *Skinning) SetDisplayBoneIndex(index int) {
	t.sink.Int(t.displayBoneIndex, int32(index))
}

// SetMaterial uploads material colors.
func (t *Skinning) SetMaterial(m *material.Material) {
	if m == nil {
		return
	}
	t.sink.Vec3(t.material.ambient, m.AmbientColor.Vec3())
	t.sink.Vec3(t.material.diffuse, m.DiffuseColor.Vec3())
	t.sink.Vec3(t.material.specular, m.SpecularColor.Vec3())
}

// SetLights uploads every light of the set using its local-space values.
func (t *Skinning) SetLights(lights *lighting.Set) {
	t.SetDirectionalLights(lights.Directional)
	t.SetPointLights(lights.Point)
	t.SetSpotLights(lights.Spot)
}

// SetDirectionalLights uploads directional lights.
func (t *Skinning) SetDirectionalLights(lights []lighting.Light) {
	lights = t.bound(lighting.Directional, lights, MaxDirectionalLights)
	t.sink.Int(t.numDirectionalLight, int32(len(lights)))
	for i := range lights {
		l := &lights[i]
		loc := t.directional[i]
		t.setBase(loc.base, l)
		t.sink.Vec3(loc.direction, l.LocalDirection)
	}
}

// SetPointLights uploads point lights.
func (t *Skinning) SetPointLights(lights []lighting.Light) {
	lights = t.bound(lighting.Point, lights, MaxPointLights)
	t.sink.Int(t.numPointLights, int32(len(lights)))
	for i := range lights {
		t.setPoint(t.point[i], &lights[i])
	}
}

// SetSpotLights uploads spot lights. Cutoff is sent as the cosine of the
// cone half angle.
func (t *Skinning) SetSpotLights(lights []lighting.Light) {
	lights = t.bound(lighting.Spot, lights, MaxSpotLights)
	t.sink.Int(t.numSpotLights, int32(len(lights)))
	for i := range lights {
		l := &lights[i]
		loc := t.spot[i]
		t.setPoint(loc.point, l)
		t.sink.Vec3(loc.direction, l.LocalDirection)
		t.sink.Float(loc.cutoff, float32(math.Cos(float64(mgl32.DegToRad(l.Cutoff)))))
	}
}

func (t *Skinning) setBase(loc baseLocs, l *lighting.Light) {
	t.sink.Vec3(loc.color, l.Color)
	t.sink.Float(loc.ambientIntensity, l.AmbientIntensity)
	t.sink.Float(loc.diffuseIntensity, l.DiffuseIntensity)
}

func (t *Skinning) setPoint(loc pointLocs, l *lighting.Light) {
	t.setBase(loc.base, l)
	t.sink.Vec3(loc.localPos, l.LocalPosition)
	t.sink.Float(loc.atten.constant, l.Attenuation.Constant)
	t.sink.Float(loc.atten.linear, l.Attenuation.Linear)
	t.sink.Float(loc.atten.exp, l.Attenuation.Exp)
}

// bound truncates lights to limit, warning once per kind.
func (t *Skinning) bound(kind lighting.Kind, lights []lighting.Light, limit int) []lighting.Light {
	if len(lights) <= limit {
		return lights
	}
	if !t.warned[kind] {
		logger.Warn("too many lights, extra lights dropped",
			zap.Stringer("kind", kind),
			zap.Int("count", len(lights)),
			zap.Int("max", limit),
		)
		t.warned[kind] = true
	}
	return lights[:limit]
}
