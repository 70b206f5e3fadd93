package frame

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/logger"
)

// Transform places the mesh in the world.
type Transform struct {
	Translate mgl32.Vec3
	Rotate    mgl32.Vec3 // degrees around X, Y, Z
	Scale     mgl32.Vec3
}

// TransformFromConfig converts configuration into a Transform.
func TransformFromConfig(cfg config.TransformConfig) Transform {
	return Transform{
		Translate: cfg.Translate,
		Rotate:    cfg.Rotate,
		Scale:     cfg.Scale,
	}
}

// World returns T * Rx * Ry * Rz * S.
func (t Transform) World() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2])
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(t.Rotate[0]))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(t.Rotate[1]))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(t.Rotate[2]))
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])

	return translate.Mul4(rx).Mul4(ry).Mul4(rz).Mul4(scale)
}

// Projection holds perspective parameters and the viewport size.
type Projection struct {
	FOV    float32 // vertical, degrees
	Width  int
	Height int
	Near   float32
	Far    float32
}

// ProjectionFromConfig builds a projection for a viewport of width x height.
func ProjectionFromConfig(cfg config.ProjectionConfig, width, height int) Projection {
	return Projection{FOV: cfg.FOV, Width: width, Height: height, Near: cfg.Near, Far: cfg.Far}
}

// Aspect returns width/height. A zero height yields 1 and logs a warning.
func (p Projection) Aspect() float32 {
	if p.Height == 0 {
		logger.Warn("zero viewport height, using aspect ratio 1", zap.Int("width", p.Width))
		return 1
	}
	return float32(p.Width) / float32(p.Height)
}

// Matrix returns the perspective projection matrix.
func (p Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.FOV), p.Aspect(), p.Near, p.Far)
}
