// Wavefront MTL parser for OBJ material libraries.
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

// MTL format errors.
var (
	ErrMalformedMTL  = errors.New("malformed MTL statement")
	ErrMTLNoMaterial = errors.New("MTL property before newmtl")
)

// MTLMaterial is one newmtl block. Has* flags record which colors were present.
type MTLMaterial struct {
	Name string

	Ambient  [3]float32
	Diffuse  [3]float32
	Specular [3]float32

	HasAmbient  bool
	HasDiffuse  bool
	HasSpecular bool

	Shininess float32 // Ns
	Dissolve  float32 // d, 1 = opaque
	Illum     int

	DiffuseMap   string // map_Kd
	ShininessMap string // map_Ns
}

// LoadMTL reads and parses an MTL file from disk.
func LoadMTL(path string) ([]MTLMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL: %w", err)
	}
	return ParseMTL(data)
}

// ParseMTL parses MTL data from a byte slice. Materials are returned in file order.
func ParseMTL(data []byte) ([]MTLMaterial, error) {
	var materials []MTLMaterial
	var cur *MTLMaterial

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

		if ident == "newmtl" {
			materials = append(materials, MTLMaterial{Name: strings.Join(args, " "), Dissolve: 1})
			cur = &materials[len(materials)-1]
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrMTLNoMaterial, lineNo, ident)
		}

		var err error
		switch ident {
		case "Ka":
			cur.Ambient, err = parseColor(args)
			cur.HasAmbient = true
		case "Kd":
			cur.Diffuse, err = parseColor(args)
			cur.HasDiffuse = true
		case "Ks":
			cur.Specular, err = parseColor(args)
			cur.HasSpecular = true
		case "Ns":
			cur.Shininess, err = parseScalar(args)
		case "d":
			cur.Dissolve, err = parseScalar(args)
		case "illum":
			if len(args) == 0 {
				err = errors.New("missing value")
			} else {
				cur.Illum, err = strconv.Atoi(args[0])
			}
		case "map_Kd":
			cur.DiffuseMap = mapPath(args)
		case "map_Ns":
			cur.ShininessMap = mapPath(args)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %v", ErrMalformedMTL, lineNo, ident, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning MTL: %w", err)
	}

	return materials, nil
}

// parseColor accepts "r g b" or a single grey value.
func parseColor(args []string) ([3]float32, error) {
	v, err := parseFloats(args, 1)
	if err != nil {
		return [3]float32{}, err
	}
	if len(v) < 3 {
		return [3]float32{v[0], v[0], v[0]}, nil
	}
	return [3]float32{v[0], v[1], v[2]}, nil
}

func parseScalar(args []string) (float32, error) {
	v, err := parseFloats(args, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// mapPath drops texture options such as -bm 1 or -clamp on and returns the file name.
func mapPath(args []string) string {
	i := 0
	for i < len(args) && strings.HasPrefix(args[i], "-") {
		i++
		for i < len(args) {
			if args[i] != "on" && args[i] != "off" {
				if _, err := strconv.ParseFloat(args[i], 32); err != nil {
					break
				}
			}
			i++
		}
	}
	return strings.Join(args[i:], " ")
}
