// Package sceneio parses scene files into a flat, format-neutral mesh set.
package sceneio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrSceneParse wraps every failure to read or interpret a scene file.
var ErrSceneParse = errors.New("scene parse failed")

// Flags select post-processing steps applied after parsing.
type Flags uint32

const (
	// Triangulate fan-splits faces with more than three corners.
	Triangulate Flags = 1 << iota
	// GenSmoothNormals generates normals for meshes that have none.
	GenSmoothNormals
	// FlipUVs maps texture coordinate v to 1-v.
	FlipUVs
)

// DefaultFlags is the set requested by the mesh importer.
const DefaultFlags = Triangulate | GenSmoothNormals | FlipUVs

// Face is a polygon of mesh-local vertex ids.
type Face struct {
	Indices []uint32
}

// VertexWeight is one bone influence on a mesh-local vertex.
type VertexWeight struct {
	VertexID uint32
	Weight   float32
}

// Bone is a named joint and the vertices it influences.
type Bone struct {
	Name    string
	Offset  mgl32.Mat4 // inverse bind matrix
	Weights []VertexWeight
}

// Mesh is one draw range worth of geometry using a single material.
// Normals and TexCoords are nil when the source had none.
type Mesh struct {
	Name          string
	Positions     []mgl32.Vec3
	Normals       []mgl32.Vec3
	TexCoords     []mgl32.Vec2
	Faces         []Face
	Bones         []Bone
	MaterialIndex int
}

// Material holds the raw material properties as found in the file.
// Has* flags mark which colors the file defined.
type Material struct {
	Name string

	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4

	HasAmbient  bool
	HasDiffuse  bool
	HasSpecular bool

	// Texture paths as written in the file, relative to the scene directory.
	DiffuseTexture   string
	ShininessTexture string
}

// Scene is the parsed content of one scene file.
type Scene struct {
	Path      string
	Meshes    []Mesh
	Materials []Material
}

// Dir returns the directory textures are resolved against.
func (s *Scene) Dir() string {
	if s.Path == "" {
		return "."
	}
	return filepath.Dir(s.Path)
}

// NumVertices returns the vertex total over all meshes.
func (s *Scene) NumVertices() int {
	n := 0
	for i := range s.Meshes {
		n += len(s.Meshes[i].Positions)
	}
	return n
}

// Load parses the scene at path and applies the requested post-processing.
func Load(path string, flags Flags) (*Scene, error) {
	var (
		scene *Scene
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		scene, err = loadOBJ(path)
	case ".gltf", ".glb":
		scene, err = loadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %s: unsupported extension %q", ErrSceneParse, path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSceneParse, path, err)
	}

	scene.Path = path
	Process(scene, flags)
	return scene, nil
}
