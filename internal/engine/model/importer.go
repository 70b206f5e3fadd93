package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/engine/material"
	"github.com/Faultbox/skinview/internal/engine/sceneio"
	"github.com/Faultbox/skinview/internal/logger"
)

var defaultNormal = mgl32.Vec3{0, 1, 0}

// Options controls an import.
type Options struct {
	// StrictTextures aborts the import on the first texture failure.
	StrictTextures bool
	// Flags are passed to the scene parser. Zero means sceneio.DefaultFlags.
	Flags sceneio.Flags
}

// Importer loads scene files into Results.
type Importer struct {
	opts   Options
	loader material.TextureLoader

	// parse is replaceable in tests.
	parse func(path string, flags sceneio.Flags) (*sceneio.Scene, error)
}

// NewImporter creates an importer that loads textures through loader.
func NewImporter(loader material.TextureLoader, opts Options) *Importer {
	if opts.Flags == 0 {
		opts.Flags = sceneio.DefaultFlags
	}
	return &Importer{opts: opts, loader: loader, parse: sceneio.Load}
}

// Import parses the scene file at path and flattens it.
func (im *Importer) Import(path string) (*Result, error) {
	scene, err := im.parse(path, im.opts.Flags)
	if err != nil {
		logger.Error("scene parse failed", zap.String("path", path), zap.Error(err))
		return nil, &LoadError{Kind: KindParse, Path: path, Err: err}
	}
	return im.ImportScene(scene)
}

// ImportScene flattens an already parsed scene.
func (im *Importer) ImportScene(scene *sceneio.Scene) (*Result, error) {
	res := &Result{
		Path:      scene.Path,
		BoneIndex: make(map[string]uint32),
	}

	numVertices, numIndices := countVerticesAndIndices(scene, res)
	res.reserve(numVertices, numIndices)

	for i := range scene.Meshes {
		if err := res.initSingleMesh(i, &scene.Meshes[i]); err != nil {
			return nil, err
		}
	}
	for i := range res.Bones {
		res.Bones[i].Normalize()
	}

	if err := im.initMaterials(scene, res); err != nil {
		return nil, err
	}

	logger.Info("mesh imported",
		zap.String("path", scene.Path),
		zap.Int("submeshes", len(res.Entries)),
		zap.Int("vertices", len(res.Positions)),
		zap.Int("indices", len(res.Indices)),
		zap.Int("bones", res.NumBones()),
		zap.Int("materials", len(res.Materials)),
		zap.Int("droppedTextures", len(res.TextureErrors)))
	return res, nil
}

// countVerticesAndIndices fills the entries with prefix-sum offsets before any
// vertex is appended.
func countVerticesAndIndices(scene *sceneio.Scene, res *Result) (numVertices, numIndices uint32) {
	res.Entries = make([]MeshEntry, len(scene.Meshes))
	for i := range scene.Meshes {
		m := &scene.Meshes[i]
		res.Entries[i] = MeshEntry{
			MaterialIndex: uint32(m.MaterialIndex),
			NumIndices:    uint32(len(m.Faces) * 3),
			BaseVertex:    numVertices,
			BaseIndex:     numIndices,
		}
		numVertices += uint32(len(m.Positions))
		numIndices += res.Entries[i].NumIndices
	}
	return numVertices, numIndices
}

func (r *Result) reserve(numVertices, numIndices uint32) {
	r.Positions = make([]mgl32.Vec3, 0, numVertices)
	r.Normals = make([]mgl32.Vec3, 0, numVertices)
	r.TexCoords = make([]mgl32.Vec2, 0, numVertices)
	r.Indices = make([]uint32, 0, numIndices)
	// Influences address vertices directly
	r.Bones = make([]VertexBoneData, numVertices)
}

func (r *Result) initSingleMesh(index int, m *sceneio.Mesh) error {
	for i, p := range m.Positions {
		r.Positions = append(r.Positions, p)

		n := defaultNormal
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		r.Normals = append(r.Normals, n)

		var uv mgl32.Vec2
		if i < len(m.TexCoords) {
			uv = m.TexCoords[i]
		}
		r.TexCoords = append(r.TexCoords, uv)
	}

	numVertices := uint32(len(m.Positions))
	for fi, f := range m.Faces {
		if len(f.Indices) != 3 {
			return &LoadError{Kind: KindGeometry, Path: r.Path,
				Err: fmt.Errorf("%w: mesh %d face %d has %d corners", ErrNonTriangularFace, index, fi, len(f.Indices))}
		}
		for _, idx := range f.Indices {
			if idx >= numVertices {
				return &LoadError{Kind: KindGeometry, Path: r.Path,
					Err: fmt.Errorf("%w: mesh %d face %d index %d of %d", ErrVertexOutOfRange, index, fi, idx, numVertices)}
			}
		}
		r.Indices = append(r.Indices, f.Indices...)
	}

	return r.loadMeshBones(index, m)
}

func (r *Result) loadMeshBones(index int, m *sceneio.Mesh) error {
	base := r.Entries[index].BaseVertex
	for bi := range m.Bones {
		bone := &m.Bones[bi]
		id := r.boneID(bone)
		for _, vw := range bone.Weights {
			if vw.VertexID >= uint32(len(m.Positions)) {
				return &LoadError{Kind: KindBones, Path: r.Path,
					Err: fmt.Errorf("%w: bone %q vertex %d of %d", ErrVertexOutOfRange, bone.Name, vw.VertexID, len(m.Positions))}
			}
			global := base + vw.VertexID
			if err := r.Bones[global].AddBoneData(id, vw.Weight); err != nil {
				return &LoadError{Kind: KindBones, Path: r.Path,
					Err: fmt.Errorf("mesh %d vertex %d: %w", index, global, err)}
			}
		}
	}
	return nil
}

// boneID returns the id for a bone name, assigning the next id on first use.
func (r *Result) boneID(b *sceneio.Bone) uint32 {
	if id, ok := r.BoneIndex[b.Name]; ok {
		return id
	}
	id := uint32(len(r.BoneOffsets))
	r.BoneIndex[b.Name] = id
	r.BoneOffsets = append(r.BoneOffsets, b.Offset)
	return id
}

func (im *Importer) initMaterials(scene *sceneio.Scene, res *Result) error {
	resolver := &material.Resolver{Loader: im.loader, Strict: im.opts.StrictTextures}
	mats, dropped, err := resolver.Resolve(scene.Dir(), scene.Materials)
	if err != nil {
		logger.Error("texture load failed", zap.String("path", scene.Path), zap.Error(err))
		return &LoadError{Kind: KindTexture, Path: scene.Path, Err: err}
	}
	res.Materials = mats
	res.TextureErrors = dropped

	for i := range res.Entries {
		if res.Entries[i].MaterialIndex >= uint32(len(mats)) {
			res.Entries[i].MaterialIndex = InvalidMaterial
		}
	}
	return nil
}

// Destroy releases all material textures held by the result.
func (r *Result) Destroy() {
	for i := range r.Materials {
		r.Materials[i].Destroy()
	}
}
