package sceneio

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/logger"
)

var errNoPosition = errors.New("primitive has no POSITION attribute")

func loadGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return convertGLTF(doc)
}

// convertGLTF flattens every primitive of every mesh into one scene mesh.
func convertGLTF(doc *gltf.Document) (*Scene, error) {
	scene := &Scene{}
	for i, m := range doc.Materials {
		scene.Materials = append(scene.Materials, convertGLTFMaterial(doc, i, m))
	}

	// Skins are attached to nodes, not meshes
	skinOf := make(map[int]*gltf.Skin)
	for _, node := range doc.Nodes {
		if node.Mesh != nil && node.Skin != nil && *node.Skin < len(doc.Skins) {
			skinOf[*node.Mesh] = doc.Skins[*node.Skin]
		}
	}

	defaultMat := -1
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			mesh, err := convertPrimitive(doc, prim, skinOf[mi])
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			mesh.Name = m.Name

			if prim.Material != nil && *prim.Material < len(scene.Materials) {
				mesh.MaterialIndex = *prim.Material
			} else {
				if defaultMat < 0 {
					defaultMat = len(scene.Materials)
					scene.Materials = append(scene.Materials, Material{Name: defaultMaterialName})
				}
				mesh.MaterialIndex = defaultMat
			}
			scene.Meshes = append(scene.Meshes, mesh)
		}
	}

	if len(scene.Meshes) == 0 {
		return nil, errors.New("no meshes in document")
	}
	return scene, nil
}

func convertPrimitive(doc *gltf.Document, prim *gltf.Primitive, skin *gltf.Skin) (Mesh, error) {
	var mesh Mesh

	if prim.Mode != gltf.PrimitiveTriangles {
		return mesh, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return mesh, errNoPosition
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return mesh, fmt.Errorf("read positions: %w", err)
	}
	mesh.Positions = make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		mesh.Positions[i] = p
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return mesh, fmt.Errorf("read normals: %w", err)
		}
		mesh.Normals = make([]mgl32.Vec3, len(normals))
		for i, n := range normals {
			mesh.Normals[i] = n
		}
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return mesh, fmt.Errorf("read texcoords: %w", err)
		}
		mesh.TexCoords = make([]mgl32.Vec2, len(uvs))
		for i, uv := range uvs {
			mesh.TexCoords[i] = uv
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return mesh, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return mesh, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	mesh.Faces = make([]Face, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		mesh.Faces = append(mesh.Faces, Face{Indices: []uint32{indices[i], indices[i+1], indices[i+2]}})
	}

	jointsIdx, hasJoints := prim.Attributes[gltf.JOINTS_0]
	weightsIdx, hasWeights := prim.Attributes[gltf.WEIGHTS_0]
	if hasJoints && hasWeights {
		joints, err := modeler.ReadJoints(doc, doc.Accessors[jointsIdx], nil)
		if err != nil {
			return mesh, fmt.Errorf("read joints: %w", err)
		}
		weights, err := modeler.ReadWeights(doc, doc.Accessors[weightsIdx], nil)
		if err != nil {
			return mesh, fmt.Errorf("read weights: %w", err)
		}
		mesh.Bones, err = groupBones(doc, skin, joints, weights)
		if err != nil {
			return mesh, err
		}
	}

	return mesh, nil
}

// groupBones turns per-vertex joint/weight quadruples into per-bone influence
// lists ordered by joint index. Zero weights are dropped.
func groupBones(doc *gltf.Document, skin *gltf.Skin, joints [][4]uint16, weights [][4]float32) ([]Bone, error) {
	if len(joints) != len(weights) {
		return nil, fmt.Errorf("joints/weights length mismatch: %d vs %d", len(joints), len(weights))
	}

	byJoint := make(map[int][]VertexWeight)
	for v := range joints {
		for k := 0; k < 4; k++ {
			w := weights[v][k]
			if w == 0 {
				continue
			}
			j := int(joints[v][k])
			if skin != nil && j >= len(skin.Joints) {
				return nil, fmt.Errorf("joint %d out of range for skin with %d joints", j, len(skin.Joints))
			}
			byJoint[j] = append(byJoint[j], VertexWeight{VertexID: uint32(v), Weight: w})
		}
	}

	order := make([]int, 0, len(byJoint))
	for j := range byJoint {
		order = append(order, j)
	}
	sort.Ints(order)

	offsets := readInverseBind(doc, skin)
	bones := make([]Bone, 0, len(order))
	for _, j := range order {
		b := Bone{Name: jointName(doc, skin, j), Offset: mgl32.Ident4(), Weights: byJoint[j]}
		if j < len(offsets) {
			b.Offset = offsets[j]
		}
		bones = append(bones, b)
	}
	return bones, nil
}

func jointName(doc *gltf.Document, skin *gltf.Skin, j int) string {
	if skin == nil {
		return fmt.Sprintf("joint%d", j)
	}
	node := skin.Joints[j]
	if node < len(doc.Nodes) && doc.Nodes[node].Name != "" {
		return doc.Nodes[node].Name
	}
	return fmt.Sprintf("node%d", node)
}

func readInverseBind(doc *gltf.Document, skin *gltf.Skin) []mgl32.Mat4 {
	if skin == nil || skin.InverseBindMatrices == nil {
		return nil
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[*skin.InverseBindMatrices], nil)
	if err != nil {
		logger.Warn("inverse bind matrices unreadable", zap.Error(err))
		return nil
	}
	mats, ok := data.([][4][4]float32)
	if !ok {
		logger.Warn("inverse bind matrices have unexpected type", zap.String("type", fmt.Sprintf("%T", data)))
		return nil
	}

	out := make([]mgl32.Mat4, len(mats))
	for i, m := range mats {
		// glTF matrices are column-major, as is mgl32
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				out[i][c*4+r] = m[c][r]
			}
		}
	}
	return out
}

func convertGLTFMaterial(doc *gltf.Document, idx int, m *gltf.Material) Material {
	out := Material{Name: m.Name}
	if out.Name == "" {
		out.Name = fmt.Sprintf("material%d", idx)
	}

	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return out
	}
	if f := pbr.BaseColorFactor; f != nil {
		out.Diffuse = mgl32.Vec4{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
		out.HasDiffuse = true
	}
	if pbr.BaseColorTexture != nil {
		out.DiffuseTexture = imageURI(doc, pbr.BaseColorTexture.Index)
	}
	return out
}

// imageURI returns the external file a texture refers to, or "" for embedded images.
func imageURI(doc *gltf.Document, texIdx int) string {
	if texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return ""
	}
	src := *doc.Textures[texIdx].Source
	if src >= len(doc.Images) {
		return ""
	}
	img := doc.Images[src]
	if img.URI == "" || img.IsEmbeddedResource() {
		logger.Debug("skipping embedded texture image", zap.Int("image", src))
		return ""
	}
	return img.URI
}
