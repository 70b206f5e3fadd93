package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skinview/internal/engine/material"
	"github.com/Faultbox/skinview/internal/engine/model"
)

type call struct {
	what string
	arg  uint32
}

type recorder struct {
	calls []call
}

type recTexture struct {
	name string
	rec  *recorder
	dead bool
}

func (t *recTexture) Bind(unit uint32) {
	t.rec.calls = append(t.rec.calls, call{"bind " + t.name, unit})
}

func (t *recTexture) Destroy() { t.dead = true }

type recSetter struct {
	rec *recorder
}

func (s recSetter) SetMaterial(m *material.Material) {
	s.rec.calls = append(s.rec.calls, call{"material " + m.Name, 0})
}

func TestRenderOrder(t *testing.T) {
	rec := &recorder{}
	m := &SkinnedMesh{
		entries: []model.MeshEntry{
			{NumIndices: 3, MaterialIndex: 1},
			{NumIndices: 6, BaseVertex: 3, BaseIndex: 3, MaterialIndex: model.InvalidMaterial},
			{NumIndices: 3, BaseVertex: 7, BaseIndex: 9, MaterialIndex: 0},
		},
		materials: []material.Material{
			{Name: "plain"},
			{
				Name:             "skin",
				Diffuse:          &recTexture{name: "diffuse", rec: rec},
				SpecularExponent: &recTexture{name: "spec", rec: rec},
			},
		},
	}

	m.render(recSetter{rec}, func(e model.MeshEntry) {
		rec.calls = append(rec.calls, call{"draw", e.BaseIndex})
	})

	want := []call{
		{"bind diffuse", gl.TEXTURE0},
		{"bind spec", gl.TEXTURE8},
		{"material skin", 0},
		{"draw", 0},
		{"draw", 3},
		{"material plain", 0},
		{"draw", 9},
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("got %d calls %v, want %v", len(rec.calls), rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("call %d: got %v, want %v", i, rec.calls[i], want[i])
		}
	}
}

func TestRenderWithoutSetter(t *testing.T) {
	draws := 0
	m := &SkinnedMesh{
		entries:   []model.MeshEntry{{NumIndices: 3}},
		materials: []material.Material{{Name: "a"}},
	}
	m.render(nil, func(model.MeshEntry) { draws++ })
	if draws != 1 {
		t.Errorf("expected 1 draw, got %d", draws)
	}
}

func TestMaterialRepresentative(t *testing.T) {
	m := &SkinnedMesh{materials: []material.Material{
		{Name: "black"},
		{Name: "lit", AmbientColor: mgl32.Vec4{1, 1, 1, 1}},
	}}
	if got := m.Material(); got == nil || got.Name != "lit" {
		t.Errorf("expected lit material, got %+v", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	if _, err := Build(&model.Result{}); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
}

func TestDestroyReleasesTextures(t *testing.T) {
	tex := &recTexture{name: "d", rec: &recorder{}}
	m := &SkinnedMesh{materials: []material.Material{{Diffuse: tex}}}
	m.Destroy()
	if !tex.dead {
		t.Error("expected texture destroyed")
	}
	if m.materials[0].Diffuse != nil {
		t.Error("expected texture reference cleared")
	}
}

func TestBoneLookup(t *testing.T) {
	m := &SkinnedMesh{
		boneIndex: map[string]uint32{"hip": 0, "knee": 1},
		offsets:   []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()},
	}
	if m.NumBones() != 2 {
		t.Errorf("expected 2 bones, got %d", m.NumBones())
	}
	if id, ok := m.BoneID("knee"); !ok || id != 1 {
		t.Errorf("unexpected knee id %d %v", id, ok)
	}
	if _, ok := m.BoneID("tail"); ok {
		t.Error("unknown bone must not resolve")
	}
}

func TestRenderFallbackTexture(t *testing.T) {
	rec := &recorder{}
	m := &SkinnedMesh{
		entries: []model.MeshEntry{{NumIndices: 3}},
		materials: []material.Material{
			{Name: "bare", SpecularExponent: &recTexture{name: "spec", rec: rec}},
		},
		Fallback: &recTexture{name: "white", rec: rec},
	}

	m.render(nil, func(model.MeshEntry) {})

	want := []call{
		{"bind white", gl.TEXTURE0},
		{"bind spec", gl.TEXTURE8},
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("got calls %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Errorf("call %d: got %v, want %v", i, rec.calls[i], want[i])
		}
	}
}
