// Package model imports skinned scenes into flattened vertex, index and
// bone buffers with per-submesh draw ranges.
package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skinview/internal/engine/material"
)

// MaxBonesPerVertex is the number of bone slots per vertex.
const MaxBonesPerVertex = 4

// InvalidMaterial marks a submesh whose material index does not resolve.
const InvalidMaterial uint32 = 0xFFFFFFFF

// weightTolerance is how far a weight sum may exceed 1 before it is rescaled.
const weightTolerance = 1e-4

// VertexBoneData holds up to four bone influences. A zero weight marks a free slot.
type VertexBoneData struct {
	BoneIDs [MaxBonesPerVertex]uint32
	Weights [MaxBonesPerVertex]float32
}

// AddBoneData stores an influence in the first free slot. Zero weights are ignored.
func (v *VertexBoneData) AddBoneData(boneID uint32, weight float32) error {
	if weight == 0 {
		return nil
	}
	for i := range v.Weights {
		if v.Weights[i] == 0 {
			v.BoneIDs[i] = boneID
			v.Weights[i] = weight
			return nil
		}
	}
	return fmt.Errorf("%w: bone %d weight %g", ErrTooManyBones, boneID, weight)
}

// Sum returns the total weight.
func (v *VertexBoneData) Sum() float32 {
	var s float32
	for _, w := range v.Weights {
		s += w
	}
	return s
}

// Used returns the number of populated slots.
func (v *VertexBoneData) Used() int {
	n := 0
	for _, w := range v.Weights {
		if w != 0 {
			n++
		}
	}
	return n
}

// Normalize rescales the weights to sum to 1 when they exceed it.
func (v *VertexBoneData) Normalize() {
	s := v.Sum()
	if s <= 1+weightTolerance {
		return
	}
	for i := range v.Weights {
		v.Weights[i] /= s
	}
}

// MeshEntry is the draw range of one submesh in the shared buffers.
type MeshEntry struct {
	NumIndices    uint32
	BaseVertex    uint32
	BaseIndex     uint32
	MaterialIndex uint32
}

// Result is the importer output, ready for GPU upload.
type Result struct {
	Path string

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Bones     []VertexBoneData
	Indices   []uint32

	Entries []MeshEntry

	// BoneIndex maps bone names to their ids in insertion order.
	BoneIndex   map[string]uint32
	BoneOffsets []mgl32.Mat4

	Materials []material.Material

	// TextureErrors lists textures dropped under the lenient policy.
	TextureErrors []*material.TextureError
}

// NumBones returns the number of distinct bones.
func (r *Result) NumBones() int {
	return len(r.BoneOffsets)
}

// Material returns the material of an entry, or nil for InvalidMaterial.
func (r *Result) Material(e MeshEntry) *material.Material {
	if e.MaterialIndex == InvalidMaterial || int(e.MaterialIndex) >= len(r.Materials) {
		return nil
	}
	return &r.Materials[e.MaterialIndex]
}
