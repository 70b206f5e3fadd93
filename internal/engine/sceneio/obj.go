package sceneio

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/logger"
	"github.com/Faultbox/skinview/pkg/formats"
)

// defaultMaterialName is used for faces without a known material.
const defaultMaterialName = "DefaultMaterial"

// cornerKey identifies a unique (position, texcoord, normal) triple.
type cornerKey struct {
	p, t, n int
}

func loadOBJ(path string) (*Scene, error) {
	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return nil, err
	}

	scene := &Scene{}
	matIndex := make(map[string]int)

	dir := filepath.Dir(path)
	for _, lib := range obj.MaterialLibs {
		mats, err := formats.LoadMTL(filepath.Join(dir, lib))
		if err != nil {
			// A missing library leaves faces on the default material
			logger.Warn("material library not loaded",
				zap.String("obj", path), zap.String("mtllib", lib), zap.Error(err))
			continue
		}
		for i := range mats {
			if _, ok := matIndex[mats[i].Name]; ok {
				continue
			}
			matIndex[mats[i].Name] = len(scene.Materials)
			scene.Materials = append(scene.Materials, convertMTL(&mats[i]))
		}
	}

	for gi := range obj.Groups {
		g := &obj.Groups[gi]
		idx, ok := matIndex[g.Material]
		if !ok {
			if idx, ok = matIndex[defaultMaterialName]; !ok {
				idx = len(scene.Materials)
				matIndex[defaultMaterialName] = idx
				scene.Materials = append(scene.Materials, Material{Name: defaultMaterialName})
			}
		}
		mesh := convertOBJGroup(obj, g)
		mesh.MaterialIndex = idx
		scene.Meshes = append(scene.Meshes, mesh)
	}

	if len(scene.Meshes) == 0 {
		return nil, fmt.Errorf("no faces in %s", filepath.Base(path))
	}
	return scene, nil
}

// convertOBJGroup de-duplicates face corners into mesh vertices.
func convertOBJGroup(obj *formats.OBJ, g *formats.OBJGroup) Mesh {
	mesh := Mesh{Name: g.Object}
	hasNormals := g.HasNormals()
	hasUVs := false
	for _, f := range g.Faces {
		for _, c := range f.Corners {
			if c.TexCoord >= 0 {
				hasUVs = true
			}
		}
	}

	seen := make(map[cornerKey]uint32)
	for _, f := range g.Faces {
		face := Face{Indices: make([]uint32, 0, len(f.Corners))}
		for _, c := range f.Corners {
			key := cornerKey{c.Position, c.TexCoord, c.Normal}
			id, ok := seen[key]
			if !ok {
				id = uint32(len(mesh.Positions))
				seen[key] = id
				mesh.Positions = append(mesh.Positions, mgl32.Vec3(obj.Positions[c.Position]))
				if hasNormals {
					var n mgl32.Vec3
					if c.Normal >= 0 {
						n = mgl32.Vec3(obj.Normals[c.Normal])
					}
					mesh.Normals = append(mesh.Normals, n)
				}
				if hasUVs {
					var uv mgl32.Vec2
					if c.TexCoord >= 0 {
						uv = mgl32.Vec2(obj.TexCoords[c.TexCoord])
					}
					mesh.TexCoords = append(mesh.TexCoords, uv)
				}
			}
			face.Indices = append(face.Indices, id)
		}
		mesh.Faces = append(mesh.Faces, face)
	}
	return mesh
}

func convertMTL(m *formats.MTLMaterial) Material {
	out := Material{
		Name:             m.Name,
		DiffuseTexture:   m.DiffuseMap,
		ShininessTexture: m.ShininessMap,
	}
	if m.HasAmbient {
		out.Ambient = mgl32.Vec3(m.Ambient).Vec4(1)
		out.HasAmbient = true
	}
	if m.HasDiffuse {
		out.Diffuse = mgl32.Vec3(m.Diffuse).Vec4(m.Dissolve)
		out.HasDiffuse = true
	}
	if m.HasSpecular {
		out.Specular = mgl32.Vec3(m.Specular).Vec4(1)
		out.HasSpecular = true
	}
	return out
}
