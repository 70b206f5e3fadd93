package technique

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/skinview/internal/engine/lighting"
	"github.com/Faultbox/skinview/internal/engine/material"
	"github.com/Faultbox/skinview/internal/logger"
)

// registry hands out a location per uniform name and records uploads by name.
type registry struct {
	locs   map[string]int32
	names  []string
	values map[string]any
}

func newRegistry() *registry {
	return &registry{locs: make(map[string]int32), values: make(map[string]any)}
}

func (r *registry) lookup(name string) int32 {
	if loc, ok := r.locs[name]; ok {
		return loc
	}
	loc := int32(len(r.names))
	r.locs[name] = loc
	r.names = append(r.names, name)
	return loc
}

func (r *registry) set(loc int32, v any) {
	r.values[r.names[loc]] = v
}

func (r *registry) Int(loc int32, v int32) { r.set(loc, v) }
func (r *registry) Float(loc int32, v float32) { r.set(loc, v) }
func (r *registry) Vec3(loc int32, v mgl32.Vec3) { r.set(loc, v) }
func (r *registry) Mat4(loc int32, m mgl32.Mat4) { r.set(loc, m) }

func newTestSkinning() (*Skinning, *registry) {
	r := newRegistry()
	return newSkinning(r.lookup, r), r
}

func TestUniformNames(t *testing.T) {
	_, r := newTestSkinning()

	want := []string{
		"gWVP",
		"gSampler",
		"gSamplerSpecularExponent",
		"gCameraLocalPos",
		"gDisplayBoneIndex",
		"gNumDirectionalLights",
		"gNumPointLights",
		"gNumSpotLights",
		"gMaterial.AmbientColor",
		"gMaterial.DiffuseColor",
		"gMaterial.SpecularColor",
		"gDirectionalLights[0].Base.Color",
		"gDirectionalLights[1].Direction",
		"gPointLights[0].Base.AmbientIntensity",
		"gPointLights[1].LocalPos",
		"gPointLights[1].Atten.Exp",
		"gSpotLights[0].Base.Base.Color",
		"gSpotLights[0].Base.Base.DiffuseIntensity",
		"gSpotLights[1].Base.LocalPos",
		"gSpotLights[1].Base.Atten.Linear",
		"gSpotLights[1].Direction",
		"gSpotLights[1].Cutoff",
	}
	for _, name := range want {
		if _, ok := r.locs[name]; !ok {
			t.Errorf("uniform %q not looked up", name)
		}
	}
	if _, ok := r.locs["gPointLights[2].LocalPos"]; ok {
		t.Error("looked up point light beyond the bound")
	}
}

func TestTextureUnits(t *testing.T) {
	s, r := newTestSkinning()
	s.setTextureUnits(material.ColorUnit, material.SpecularExponentUnit)

	if got := r.values["gSampler"]; got != int32(0) {
		t.Errorf("gSampler = %v, want 0", got)
	}
	if got := r.values["gSamplerSpecularExponent"]; got != int32(8) {
		t.Errorf("gSamplerSpecularExponent = %v, want 8", got)
	}
}

func TestSetSpotLights(t *testing.T) {
	s, r := newTestSkinning()

	s.SetSpotLights([]lighting.Light{{
		Kind:           lighting.Spot,
		Color:          mgl32.Vec3{1, 1, 0},
		LocalPosition:  mgl32.Vec3{0, 1, 0},
		LocalDirection: mgl32.Vec3{0, -1, 0},
		Attenuation:    lighting.Attenuation{Constant: 1, Linear: 0.01},
		Cutoff:         30,
	}})

	if got := r.values["gNumSpotLights"]; got != int32(1) {
		t.Errorf("gNumSpotLights = %v, want 1", got)
	}
	cutoff := r.values["gSpotLights[0].Cutoff"].(float32)
	if want := math.Cos(30 * math.Pi / 180); math.Abs(float64(cutoff)-want) > 1e-6 {
		t.Errorf("Cutoff = %v, want %v", cutoff, want)
	}
	if got := r.values["gSpotLights[0].Base.LocalPos"]; got != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("LocalPos = %v", got)
	}
	if got := r.values["gSpotLights[0].Base.Atten.Linear"]; got != float32(0.01) {
		t.Errorf("Atten.Linear = %v", got)
	}
	if got := r.values["gSpotLights[0].Base.Base.Color"]; got != (mgl32.Vec3{1, 1, 0}) {
		t.Errorf("Color = %v", got)
	}
}

func TestLightBound(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetLogger(zap.New(core))
	defer logger.SetLogger(nil)

	s, r := newTestSkinning()

	var set lighting.Set
	for i := 0; i < 4; i++ {
		set.Add(lighting.Light{Kind: lighting.Point, LocalPosition: mgl32.Vec3{float32(i), 0, 0}})
	}
	set.Add(lighting.Light{Kind: lighting.Directional, LocalDirection: mgl32.Vec3{0, -1, 0}})

	s.SetLights(&set)
	s.SetLights(&set)

	tests := []struct {
		name string
		want int32
	}{
		{"gNumPointLights", 2},
		{"gNumDirectionalLights", 1},
		{"gNumSpotLights", 0},
	}
	for _, tt := range tests {
		if got := r.values[tt.name]; got != tt.want {
			t.Errorf("%s = %v, want %d", tt.name, got, tt.want)
		}
	}
	if got := r.values["gPointLights[1].LocalPos"]; got != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("second point light = %v, want (1, 0, 0)", got)
	}
	if got := r.values["gDirectionalLights[0].Direction"]; got != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("directional direction = %v", got)
	}

	warnings := logs.FilterMessage("too many lights, extra lights dropped").All()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if kind := warnings[0].ContextMap()["kind"]; kind != "point" {
		t.Errorf("warning kind = %v, want point", kind)
	}
}

func TestSetMaterial(t *testing.T) {
	s, r := newTestSkinning()

	s.SetMaterial(nil)
	if len(r.values) != 0 {
		t.Fatalf("nil material uploaded %v", r.values)
	}

	s.SetMaterial(&material.Material{
		AmbientColor:  mgl32.Vec4{0.1, 0.2, 0.3, 0},
		DiffuseColor:  mgl32.Vec4{0.4, 0.5, 0.6, 0},
		SpecularColor: mgl32.Vec4{0.7, 0.8, 0.9, 0},
	})
	if got := r.values["gMaterial.DiffuseColor"]; got != (mgl32.Vec3{0.4, 0.5, 0.6}) {
		t.Errorf("DiffuseColor = %v", got)
	}
	if got := r.values["gMaterial.SpecularColor"]; got != (mgl32.Vec3{0.7, 0.8, 0.9}) {
		t.Errorf("SpecularColor = %v", got)
	}
}

func TestSetMatricesAndBone(t *testing.T) {
	s, r := newTestSkinning()

	wvp := mgl32.Translate3D(1, 2, 3)
	s.SetWVP(wvp)
	s.SetCameraLocalPos(mgl32.Vec3{4, 5, 6})
	s.SetDisplayBoneIndex(-1)

	if got := r.values["gWVP"]; got != wvp {
		t.Errorf("gWVP = %v", got)
	}
	if got := r.values["gCameraLocalPos"]; got != (mgl32.Vec3{4, 5, 6}) {
		t.Errorf("gCameraLocalPos = %v", got)
	}
	if got := r.values["gDisplayBoneIndex"]; got != int32(-1) {
		t.Errorf("gDisplayBoneIndex = %v", got)
	}
}
