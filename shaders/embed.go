// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SkinningVertexShader passes bone ids and weights through to the fragment stage.
//
//go:embed skinning.vs
var SkinningVertexShader string

// SkinningFragmentShader lights the mesh with directional, point and spot
// lights, or shows the weights of one bone when gDisplayBoneIndex >= 0.
//
//go:embed skinning.fs
var SkinningFragmentShader string
