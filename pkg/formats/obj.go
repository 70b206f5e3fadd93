// Wavefront OBJ parser for polygon meshes.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedOBJ       = errors.New("malformed OBJ statement")
	ErrInvalidOBJFace     = errors.New("invalid OBJ face")
	ErrOBJIndexOutOfRange = errors.New("OBJ index out of range")
)

// OBJCorner references one face corner. Indices are 0-based, -1 means absent.
type OBJCorner struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a polygon with three or more corners.
type OBJFace struct {
	Corners []OBJCorner
}

// OBJGroup is a run of faces sharing one object name and one material.
type OBJGroup struct {
	Object   string
	Material string
	Faces    []OBJFace
}

// OBJ represents a parsed Wavefront OBJ file.
type OBJ struct {
	Positions    [][3]float32
	TexCoords    [][2]float32
	Normals      [][3]float32
	MaterialLibs []string
	Groups       []OBJGroup
}

// HasNormals returns true if any face corner references a normal.
func (g *OBJGroup) HasNormals() bool {
	for _, f := range g.Faces {
		for _, c := range f.Corners {
			if c.Normal >= 0 {
				return true
			}
		}
	}
	return false
}

// LoadOBJ reads and parses an OBJ file from disk.
func LoadOBJ(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return ParseOBJ(data)
}

// ParseOBJ parses OBJ data from a byte slice.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	cur := OBJGroup{}

	// flush closes the current run; empty runs are dropped.
	flush := func() {
		if len(cur.Faces) > 0 {
			obj.Groups = append(obj.Groups, cur)
		}
		cur = OBJGroup{Object: cur.Object, Material: cur.Material}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		ident, args := fields[0], fields[1:]

		switch ident {
		case "v", "vn":
			v, err := parseFloats(args, 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s: %v", ErrMalformedOBJ, lineNo, ident, err)
			}
			if ident == "v" {
				obj.Positions = append(obj.Positions, [3]float32{v[0], v[1], v[2]})
			} else {
				obj.Normals = append(obj.Normals, [3]float32{v[0], v[1], v[2]})
			}

		case "vt":
			v, err := parseFloats(args, 1)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: vt: %v", ErrMalformedOBJ, lineNo, err)
			}
			uv := [2]float32{v[0], 0}
			if len(v) > 1 {
				uv[1] = v[1]
			}
			obj.TexCoords = append(obj.TexCoords, uv)

		case "f":
			face, err := parseFace(obj, args)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur.Faces = append(cur.Faces, face)

		case "o", "g":
			name := strings.Join(args, " ")
			if name != cur.Object {
				flush()
				cur.Object = name
			}

		case "usemtl":
			name := strings.Join(args, " ")
			if name != cur.Material {
				flush()
				cur.Material = name
			}

		case "mtllib":
			obj.MaterialLibs = append(obj.MaterialLibs, args...)

		default:
			// s, l, p and vendor extensions are ignored
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning OBJ: %w", err)
	}
	flush()

	return obj, nil
}

func parseFace(obj *OBJ, args []string) (OBJFace, error) {
	if len(args) < 3 {
		return OBJFace{}, fmt.Errorf("%w: %d corners", ErrInvalidOBJFace, len(args))
	}

	face := OBJFace{Corners: make([]OBJCorner, 0, len(args))}
	for _, arg := range args {
		parts := strings.Split(arg, "/")
		if len(parts) > 3 || parts[0] == "" {
			return OBJFace{}, fmt.Errorf("%w: corner %q", ErrInvalidOBJFace, arg)
		}

		c := OBJCorner{Position: -1, TexCoord: -1, Normal: -1}
		var err error
		if c.Position, err = resolveIndex(parts[0], len(obj.Positions)); err != nil {
			return OBJFace{}, err
		}
		if len(parts) > 1 && parts[1] != "" {
			if c.TexCoord, err = resolveIndex(parts[1], len(obj.TexCoords)); err != nil {
				return OBJFace{}, err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if c.Normal, err = resolveIndex(parts[2], len(obj.Normals)); err != nil {
				return OBJFace{}, err
			}
		}
		face.Corners = append(face.Corners, c)
	}
	return face, nil
}

// resolveIndex converts a 1-based or negative (relative) OBJ index to 0-based.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, fmt.Errorf("%w: index %q", ErrInvalidOBJFace, s)
	}
	idx := n - 1
	if n < 0 {
		idx = count + n
	}
	if n == 0 || idx < 0 || idx >= count {
		return -1, fmt.Errorf("%w: %d of %d", ErrOBJIndexOutOfRange, n, count)
	}
	return idx, nil
}

func parseFloats(args []string, min int) ([]float32, error) {
	if len(args) < min {
		return nil, fmt.Errorf("expected %d values, got %d", min, len(args))
	}
	out := make([]float32, 0, len(args))
	for _, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, float32(f))
	}
	return out, nil
}
