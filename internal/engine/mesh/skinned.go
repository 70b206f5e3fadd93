// Package mesh owns the GPU buffers of an imported skinned mesh and draws it.
package mesh

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skinview/internal/engine/material"
	"github.com/Faultbox/skinview/internal/engine/model"
)

// ErrEmptyMesh is returned when building from a result without geometry.
var ErrEmptyMesh = errors.New("mesh has no vertices or indices")

// Vertex attribute locations shared with the skinning shader.
const (
	PositionLocation = 0
	TexCoordLocation = 1
	NormalLocation   = 2
	BoneIDLocation   = 3
	WeightLocation   = 4
)

const (
	indexBuffer = iota
	positionBuffer
	texCoordBuffer
	normalBuffer
	boneBuffer
	numBuffers
)

// MaterialSetter receives the material of each submesh before it is drawn.
type MaterialSetter interface {
	SetMaterial(m *material.Material)
}

// SkinnedMesh is one VAO with five static buffers and its materials.
type SkinnedMesh struct {
	vao     uint32
	buffers [numBuffers]uint32

	entries   []model.MeshEntry
	materials []material.Material
	boneIndex map[string]uint32
	offsets   []mgl32.Mat4

	// Fallback is bound in place of a missing diffuse or specular map.
	// The mesh does not own it.
	Fallback material.Texture
}

// Build uploads the import result. The mesh takes ownership of the result's materials.
func Build(res *model.Result) (*SkinnedMesh, error) {
	if len(res.Positions) == 0 || len(res.Indices) == 0 {
		return nil, ErrEmptyMesh
	}

	m := &SkinnedMesh{
		entries:   res.Entries,
		materials: res.Materials,
		boneIndex: res.BoneIndex,
		offsets:   res.BoneOffsets,
	}
	res.Materials = nil

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)
	gl.GenBuffers(numBuffers, &m.buffers[0])

	gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[positionBuffer])
	gl.BufferData(gl.ARRAY_BUFFER, len(res.Positions)*3*4, unsafe.Pointer(&res.Positions[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(PositionLocation)
	gl.VertexAttribPointerWithOffset(PositionLocation, 3, gl.FLOAT, false, 0, 0)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[texCoordBuffer])
	gl.BufferData(gl.ARRAY_BUFFER, len(res.TexCoords)*2*4, unsafe.Pointer(&res.TexCoords[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(TexCoordLocation)
	gl.VertexAttribPointerWithOffset(TexCoordLocation, 2, gl.FLOAT, false, 0, 0)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[normalBuffer])
	gl.BufferData(gl.ARRAY_BUFFER, len(res.Normals)*3*4, unsafe.Pointer(&res.Normals[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(NormalLocation)
	gl.VertexAttribPointerWithOffset(NormalLocation, 3, gl.FLOAT, false, 0, 0)

	// Bone ids are integer attributes, weights follow them in the same struct
	boneSize := int32(unsafe.Sizeof(model.VertexBoneData{}))
	gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[boneBuffer])
	gl.BufferData(gl.ARRAY_BUFFER, len(res.Bones)*int(boneSize), unsafe.Pointer(&res.Bones[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(BoneIDLocation)
	gl.VertexAttribIPointer(BoneIDLocation, model.MaxBonesPerVertex, gl.UNSIGNED_INT, boneSize, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(WeightLocation)
	gl.VertexAttribPointerWithOffset(WeightLocation, model.MaxBonesPerVertex, gl.FLOAT, false, boneSize,
		unsafe.Offsetof(model.VertexBoneData{}.Weights))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.buffers[indexBuffer])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(res.Indices)*4, unsafe.Pointer(&res.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m, nil
}

// Render draws every submesh in order. A non-nil setter receives each
// submesh's material before its draw call.
func (m *SkinnedMesh) Render(setter MaterialSetter) {
	gl.BindVertexArray(m.vao)
	m.render(setter, func(e model.MeshEntry) {
		gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(e.NumIndices), gl.UNSIGNED_INT,
			gl.PtrOffset(int(e.BaseIndex)*4), int32(e.BaseVertex))
	})
	gl.BindVertexArray(0)
}

func (m *SkinnedMesh) render(setter MaterialSetter, draw func(model.MeshEntry)) {
	for _, e := range m.entries {
		if mat := m.material(e); mat != nil {
			m.bind(mat.Diffuse, material.ColorUnit)
			m.bind(mat.SpecularExponent, material.SpecularExponentUnit)
			if setter != nil {
				setter.SetMaterial(mat)
			}
		}
		draw(e)
	}
}

func (m *SkinnedMesh) bind(tex material.Texture, unit uint32) {
	if tex == nil {
		tex = m.Fallback
	}
	if tex != nil {
		tex.Bind(gl.TEXTURE0 + unit)
	}
}

func (m *SkinnedMesh) material(e model.MeshEntry) *material.Material {
	if e.MaterialIndex == model.InvalidMaterial || int(e.MaterialIndex) >= len(m.materials) {
		return nil
	}
	return &m.materials[e.MaterialIndex]
}

// Material returns the representative material used for the shared uniform upload.
func (m *SkinnedMesh) Material() *material.Material {
	return material.Representative(m.materials)
}

// Entries returns the submesh draw ranges.
func (m *SkinnedMesh) Entries() []model.MeshEntry {
	return m.entries
}

// NumBones returns the number of distinct bones.
func (m *SkinnedMesh) NumBones() int {
	return len(m.offsets)
}

// BoneID returns the id assigned to a bone name.
func (m *SkinnedMesh) BoneID(name string) (uint32, bool) {
	id, ok := m.boneIndex[name]
	return id, ok
}

// Destroy releases the VAO, buffers and all material textures.
func (m *SkinnedMesh) Destroy() {
	for i := range m.materials {
		m.materials[i].Destroy()
	}
	if m.buffers[0] != 0 {
		gl.DeleteBuffers(numBuffers, &m.buffers[0])
		m.buffers = [numBuffers]uint32{}
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}
