package sceneio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scene.mtl", `newmtl Skin
Ka 0.2 0.2 0.2
Kd 0.8 0.6 0.5
map_Kd skin.png
`)
	path := writeFile(t, dir, "scene.obj", `mtllib scene.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl Skin
f 1/1 2/2 3/3 4/4
usemtl Missing
f 1 2 3
`)

	scene, err := Load(path, DefaultFlags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if scene.Path != path || scene.Dir() != dir {
		t.Errorf("unexpected path/dir %q %q", scene.Path, scene.Dir())
	}

	if len(scene.Materials) != 2 {
		t.Fatalf("expected Skin plus default material, got %d", len(scene.Materials))
	}
	skin := scene.Materials[0]
	if !skin.HasAmbient || skin.Ambient != (mgl32.Vec4{0.2, 0.2, 0.2, 1}) {
		t.Errorf("unexpected ambient %v", skin.Ambient)
	}
	if skin.DiffuseTexture != "skin.png" {
		t.Errorf("unexpected diffuse texture %q", skin.DiffuseTexture)
	}
	if scene.Materials[1].Name != defaultMaterialName {
		t.Errorf("expected default material, got %q", scene.Materials[1].Name)
	}

	if len(scene.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(scene.Meshes))
	}
	quad := scene.Meshes[0]
	if quad.MaterialIndex != 0 || len(quad.Faces) != 2 {
		t.Errorf("quad: material %d, %d faces", quad.MaterialIndex, len(quad.Faces))
	}
	if len(quad.Normals) != 4 {
		t.Errorf("expected generated normals, got %d", len(quad.Normals))
	}
	// vt 1 1 flipped to (1, 0)
	if quad.TexCoords[2] != (mgl32.Vec2{1, 0}) {
		t.Errorf("expected flipped uv, got %v", quad.TexCoords[2])
	}

	tri := scene.Meshes[1]
	if tri.MaterialIndex != 1 {
		t.Errorf("expected default material index 1, got %d", tri.MaterialIndex)
	}
	if tri.TexCoords != nil {
		t.Error("expected no texcoords on position-only faces")
	}
}

func TestLoadOBJ_DeduplicatesCorners(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shared.obj", `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`)
	scene, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n := len(scene.Meshes[0].Positions); n != 4 {
		t.Errorf("expected 4 unique vertices, got %d", n)
	}
	if scene.NumVertices() != 4 {
		t.Errorf("expected NumVertices 4, got %d", scene.NumVertices())
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", writeFile(t, dir, "mesh.fbx", "")},
		{"missing file", filepath.Join(dir, "missing.obj")},
		{"bad face", writeFile(t, dir, "bad.obj", "v 0 0 0\nf 1 2 3\n")},
		{"no faces", writeFile(t, dir, "empty.obj", "v 0 0 0\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, DefaultFlags)
			if !errors.Is(err, ErrSceneParse) {
				t.Errorf("expected ErrSceneParse, got %v", err)
			}
		})
	}
}
