package sceneio

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// weldEpsilon is the position quantum used when smoothing across split vertices.
const weldEpsilon float32 = 0.001

// Process applies post-processing steps to every mesh in place.
func Process(scene *Scene, flags Flags) {
	for i := range scene.Meshes {
		m := &scene.Meshes[i]
		if flags&Triangulate != 0 {
			triangulate(m)
		}
		if flags&GenSmoothNormals != 0 && m.Normals == nil {
			genSmoothNormals(m)
		}
		if flags&FlipUVs != 0 {
			for j := range m.TexCoords {
				m.TexCoords[j][1] = 1 - m.TexCoords[j][1]
			}
		}
	}
}

// triangulate fan-splits polygons around their first corner.
// Degenerate faces with fewer than three corners are left as they are.
func triangulate(m *Mesh) {
	needed := false
	for _, f := range m.Faces {
		if len(f.Indices) > 3 {
			needed = true
			break
		}
	}
	if !needed {
		return
	}

	out := make([]Face, 0, len(m.Faces))
	for _, f := range m.Faces {
		if len(f.Indices) <= 3 {
			out = append(out, f)
			continue
		}
		for k := 1; k+1 < len(f.Indices); k++ {
			out = append(out, Face{Indices: []uint32{f.Indices[0], f.Indices[k], f.Indices[k+1]}})
		}
	}
	m.Faces = out
}

// genSmoothNormals accumulates area-weighted face normals per vertex, then
// averages them across vertices sharing a position.
func genSmoothNormals(m *Mesh) {
	normals := make([]mgl32.Vec3, len(m.Positions))

	count := uint32(len(m.Positions))
	for _, f := range m.Faces {
		if len(f.Indices) < 3 || !facesInRange(f, count) {
			continue
		}
		p0 := m.Positions[f.Indices[0]]
		for k := 1; k+1 < len(f.Indices); k++ {
			p1 := m.Positions[f.Indices[k]]
			p2 := m.Positions[f.Indices[k+1]]
			// Unnormalized cross product is proportional to the triangle area
			n := p1.Sub(p0).Cross(p2.Sub(p0))
			normals[f.Indices[0]] = normals[f.Indices[0]].Add(n)
			normals[f.Indices[k]] = normals[f.Indices[k]].Add(n)
			normals[f.Indices[k+1]] = normals[f.Indices[k+1]].Add(n)
		}
	}

	posMap := make(map[[3]int64][]int)
	var loose [][]int
	for i, p := range m.Positions {
		key, ok := weldKey(p)
		if !ok {
			loose = append(loose, []int{i})
			continue
		}
		posMap[key] = append(posMap[key], i)
	}

	m.Normals = make([]mgl32.Vec3, len(m.Positions))
	groups := loose
	for _, idxs := range posMap {
		groups = append(groups, idxs)
	}
	for _, idxs := range groups {
		var sum mgl32.Vec3
		for _, idx := range idxs {
			sum = sum.Add(normals[idx])
		}
		avg := normalizeOr(sum, mgl32.Vec3{0, 1, 0})
		for _, idx := range idxs {
			m.Normals[idx] = avg
		}
	}
}

// weldKey buckets p onto the weldEpsilon grid. Positions off the grid range
// (huge, infinite or NaN) are not welded.
func weldKey(p mgl32.Vec3) ([3]int64, bool) {
	var key [3]int64
	for i, c := range p {
		q := math.Floor(float64(c) / float64(weldEpsilon))
		if !(math.Abs(q) < 1<<62) {
			return key, false
		}
		key[i] = int64(q)
	}
	return key, true
}

func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < 1e-6 {
		return fallback
	}
	return v.Normalize()
}

func facesInRange(f Face, count uint32) bool {
	for _, idx := range f.Indices {
		if idx >= count {
			return false
		}
	}
	return true
}
