package model

import (
	"errors"
	"fmt"
)

// Import errors.
var (
	ErrTooManyBones      = errors.New("vertex has more than 4 bone influences")
	ErrNonTriangularFace = errors.New("face is not a triangle")
	ErrVertexOutOfRange  = errors.New("vertex id out of range")
)

// ErrorKind classifies a LoadError.
type ErrorKind int

const (
	KindParse    ErrorKind = iota // scene file could not be parsed
	KindGeometry                  // faces or indices are unusable
	KindBones                     // bone influences are unusable
	KindTexture                   // a texture failed under the strict policy
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindGeometry:
		return "geometry"
	case KindBones:
		return "bones"
	case KindTexture:
		return "texture"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LoadError is returned by the importer for every asset failure.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
