package material

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/skinview/internal/engine/sceneio"
	"github.com/Faultbox/skinview/internal/logger"
)

type fakeTexture struct {
	path      string
	destroyed bool
}

func (f *fakeTexture) Bind(uint32) {}
func (f *fakeTexture) Destroy()    { f.destroyed = true }

// fakeLoader fails for paths listed in fail.
type fakeLoader struct {
	fail   map[string]bool
	loaded []*fakeTexture
}

var errBadImage = errors.New("bad image")

func (l *fakeLoader) Load(path string) (Texture, error) {
	if l.fail[path] {
		return nil, errBadImage
	}
	t := &fakeTexture{path: path}
	l.loaded = append(l.loaded, t)
	return t, nil
}

func TestTexturePath(t *testing.T) {
	tests := []struct {
		name      string
		p         string
		shininess bool
		want      string
	}{
		{"plain", "skin.png", false, "res/boblamp/skin.png"},
		{"dot backslash", `.\skin.png`, false, "res/boblamp/skin.png"},
		{"shininess placeholder", `C:\\`, true, "res/boblamp/"},
		{"placeholder only for shininess", `C:\\`, false, `res/boblamp/C:\\`},
		{"shininess dot backslash", `.\spec.tga`, true, "res/boblamp/spec.tga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TexturePath("res/boblamp", tt.p, tt.shininess); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve_Colors(t *testing.T) {
	r := &Resolver{Loader: &fakeLoader{}}
	mats, dropped, err := r.Resolve("dir", []sceneio.Material{
		{Name: "none"},
		{
			Name:        "lit",
			Ambient:     mgl32.Vec4{0.1, 0.2, 0.3, 1},
			Diffuse:     mgl32.Vec4{0.5, 0.5, 0.5, 1},
			Specular:    mgl32.Vec4{1, 1, 1, 1},
			HasAmbient:  true,
			HasDiffuse:  true,
			HasSpecular: true,
		},
	})
	if err != nil || len(dropped) != 0 {
		t.Fatalf("Resolve: %v, dropped %v", err, dropped)
	}

	if mats[0].AmbientColor != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("absent ambient should default to white, got %v", mats[0].AmbientColor)
	}
	if mats[0].DiffuseColor != (mgl32.Vec4{}) || mats[0].SpecularColor != (mgl32.Vec4{}) {
		t.Errorf("absent diffuse/specular should be zero")
	}
	if mats[1].AmbientColor != (mgl32.Vec4{0.1, 0.2, 0.3, 0}) {
		t.Errorf("unexpected ambient %v", mats[1].AmbientColor)
	}
	if mats[1].Name != "lit" {
		t.Errorf("expected name lit, got %q", mats[1].Name)
	}
}

func TestResolve_Textures(t *testing.T) {
	loader := &fakeLoader{}
	r := &Resolver{Loader: loader}
	mats, _, err := r.Resolve("scene", []sceneio.Material{
		{DiffuseTexture: `.\diffuse.png`, ShininessTexture: "shine.png"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if mats[0].Diffuse == nil || mats[0].Diffuse.(*fakeTexture).path != "scene/diffuse.png" {
		t.Errorf("unexpected diffuse texture %+v", mats[0].Diffuse)
	}
	if mats[0].SpecularExponent == nil || mats[0].SpecularExponent.(*fakeTexture).path != "scene/shine.png" {
		t.Errorf("unexpected specular exponent texture %+v", mats[0].SpecularExponent)
	}

	mats[0].Destroy()
	for _, tex := range loader.loaded {
		if !tex.destroyed {
			t.Errorf("texture %s not destroyed", tex.path)
		}
	}
}

func TestResolve_LenientDropsTexture(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger.SetLogger(zap.New(core))
	defer logger.SetLogger(nil)

	loader := &fakeLoader{fail: map[string]bool{"d/broken.png": true}}
	r := &Resolver{Loader: loader}
	mats, dropped, err := r.Resolve("d", []sceneio.Material{
		{DiffuseTexture: "broken.png", ShininessTexture: "ok.png"},
		{DiffuseTexture: "fine.png"},
	})
	if err != nil {
		t.Fatalf("lenient resolve must not fail: %v", err)
	}

	if !mats[0].Degraded || mats[0].Diffuse != nil {
		t.Errorf("expected degraded material without diffuse, got %+v", mats[0])
	}
	if mats[0].SpecularExponent == nil {
		t.Error("healthy texture of a degraded material must stay")
	}
	if mats[1].Degraded || mats[1].Diffuse == nil {
		t.Errorf("second material should be intact, got %+v", mats[1])
	}

	if len(dropped) != 1 {
		t.Fatalf("expected 1 dropped texture, got %d", len(dropped))
	}
	if dropped[0].Material != 0 || dropped[0].Slot != SlotDiffuse || !errors.Is(dropped[0], errBadImage) {
		t.Errorf("unexpected texture error %v", dropped[0])
	}
	if logs.FilterMessage("texture dropped").Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
}

func TestResolve_StrictAborts(t *testing.T) {
	loader := &fakeLoader{fail: map[string]bool{"d/broken.png": true}}
	r := &Resolver{Loader: loader, Strict: true}
	mats, _, err := r.Resolve("d", []sceneio.Material{
		{DiffuseTexture: "first.png"},
		{DiffuseTexture: "broken.png"},
	})
	if mats != nil {
		t.Error("expected no materials on strict failure")
	}

	var texErr *TextureError
	if !errors.As(err, &texErr) || texErr.Material != 1 || texErr.Path != "d/broken.png" {
		t.Fatalf("expected TextureError for material 1, got %v", err)
	}
	if !loader.loaded[0].destroyed {
		t.Error("textures loaded before the failure must be released")
	}
}

func TestRepresentative(t *testing.T) {
	tests := []struct {
		name string
		mats []Material
		want int
	}{
		{"empty", nil, -1},
		{"all zero falls back to first", []Material{{Name: "a"}, {Name: "b"}}, 0},
		{"first non-zero ambient", []Material{{}, {AmbientColor: mgl32.Vec4{0, 0, 0.1, 0}}, {AmbientColor: mgl32.Vec4{1, 1, 1, 1}}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Representative(tt.mats)
			if tt.want < 0 {
				if got != nil {
					t.Errorf("expected nil, got %+v", got)
				}
				return
			}
			if got != &tt.mats[tt.want] {
				t.Errorf("expected material %d", tt.want)
			}
		})
	}
}
