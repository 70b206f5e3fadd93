package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const cubeFaceOBJ = `# two quads
mtllib cube.mtl
o Cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl Red
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl Blue
f -4//-1 -3//-1 -2//-1
`

func TestParseOBJ(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeFaceOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if len(obj.Positions) != 4 {
		t.Errorf("expected 4 positions, got %d", len(obj.Positions))
	}
	if len(obj.TexCoords) != 4 {
		t.Errorf("expected 4 texcoords, got %d", len(obj.TexCoords))
	}
	if len(obj.Normals) != 1 {
		t.Errorf("expected 1 normal, got %d", len(obj.Normals))
	}
	if len(obj.MaterialLibs) != 1 || obj.MaterialLibs[0] != "cube.mtl" {
		t.Errorf("unexpected material libs %v", obj.MaterialLibs)
	}

	if len(obj.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(obj.Groups))
	}
	red, blue := obj.Groups[0], obj.Groups[1]
	if red.Object != "Cube" || red.Material != "Red" {
		t.Errorf("unexpected first group %q/%q", red.Object, red.Material)
	}
	if blue.Material != "Blue" {
		t.Errorf("expected second group material Blue, got %q", blue.Material)
	}
	if got := len(red.Faces[0].Corners); got != 4 {
		t.Errorf("expected quad with 4 corners, got %d", got)
	}

	want := OBJCorner{Position: 0, TexCoord: -1, Normal: 0}
	if got := blue.Faces[0].Corners[0]; got != want {
		t.Errorf("negative index corner: got %+v, want %+v", got, want)
	}
	if !blue.HasNormals() {
		t.Error("expected blue group to report normals")
	}
}

func TestParseOBJ_PositionOnlyFaces(t *testing.T) {
	obj, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(obj.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(obj.Groups))
	}
	g := obj.Groups[0]
	if g.HasNormals() {
		t.Error("expected no normals")
	}
	for i, c := range g.Faces[0].Corners {
		if c.Position != i || c.TexCoord != -1 || c.Normal != -1 {
			t.Errorf("corner %d: unexpected %+v", i, c)
		}
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"bad vertex", "v 1 x 3\n", ErrMalformedOBJ},
		{"short vertex", "v 1 2\n", ErrMalformedOBJ},
		{"two corner face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrInvalidOBJFace},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrOBJIndexOutOfRange},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", ErrOBJIndexOutOfRange},
		{"texcoord past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n", ErrOBJIndexOutOfRange},
		{"garbage index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf a b c\n", ErrInvalidOBJFace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseOBJ_IgnoresCommentsAndUnknown(t *testing.T) {
	data := "# header\n\nv 0 0 0 # trailing\nv 1 0 0\nv 0 1 0\ns off\nf 1 2 3\n"
	obj, err := ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(obj.Positions) != 3 || len(obj.Groups) != 1 {
		t.Errorf("unexpected result: %d positions, %d groups", len(obj.Positions), len(obj.Groups))
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(cubeFaceOBJ), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadOBJ(path); err != nil {
		t.Errorf("LoadOBJ: %v", err)
	}
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
