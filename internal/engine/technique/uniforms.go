package technique

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// uniformSink receives uniform uploads for the bound program.
type uniformSink interface {
	Int(loc int32, v int32)
	Float(loc int32, v float32)
	Vec3(loc int32, v mgl32.Vec3)
	Mat4(loc int32, m mgl32.Mat4)
}

// glSink uploads to the current GL program.
type glSink struct{}

func (glSink) Int(loc int32, v int32)     { gl.Uniform1i(loc, v) }
func (glSink) Float(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (glSink) Vec3(loc int32, v mgl32.Vec3) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}
func (glSink) Mat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// lookupFunc resolves a uniform name to its location.
type lookupFunc func(name string) int32

type baseLocs struct {
	color            int32
	ambientIntensity int32
	diffuseIntensity int32
}

type attenLocs struct {
	constant int32
	linear   int32
	exp      int32
}

type directionalLocs struct {
	base      baseLocs
	direction int32
}

type pointLocs struct {
	base     baseLocs
	localPos int32
	atten    attenLocs
}

type spotLocs struct {
	point     pointLocs
	direction int32
	cutoff    int32
}

type materialLocs struct {
	ambient  int32
	diffuse  int32
	specular int32
}

func lookupBase(lookup lookupFunc, prefix string) baseLocs {
	return baseLocs{
		color:            lookup(prefix + "Color"),
		ambientIntensity: lookup(prefix + "AmbientIntensity"),
		diffuseIntensity: lookup(prefix + "DiffuseIntensity"),
	}
}

func lookupDirectional(lookup lookupFunc, i int) directionalLocs {
	prefix := fmt.Sprintf("gDirectionalLights[%d].", i)
	return directionalLocs{
		base:      lookupBase(lookup, prefix+"Base."),
		direction: lookup(prefix + "Direction"),
	}
}

func lookupPoint(lookup lookupFunc, prefix string) pointLocs {
	return pointLocs{
		base:     lookupBase(lookup, prefix+"Base."),
		localPos: lookup(prefix + "LocalPos"),
		atten: attenLocs{
			constant: lookup(prefix + "Atten.Constant"),
			linear:   lookup(prefix + "Atten.Linear"),
			exp:      lookup(prefix + "Atten.Exp"),
		},
	}
}

func lookupSpot(lookup lookupFunc, i int) spotLocs {
	prefix := fmt.Sprintf("gSpotLights[%d].", i)
	return spotLocs{
		point:     lookupPoint(lookup, prefix+"Base."),
		direction: lookup(prefix + "Direction"),
		cutoff:    lookup(prefix + "Cutoff"),
	}
}
