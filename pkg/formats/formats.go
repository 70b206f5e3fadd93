// Package formats provides parsers for Wavefront OBJ geometry and MTL
// material library files.
package formats
