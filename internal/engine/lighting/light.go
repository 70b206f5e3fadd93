// Package lighting describes directional, point and spot lights and converts
// them into model-local space.
package lighting

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skinview/internal/config"
)

// Kind selects which fields of a Light are meaningful.
type Kind int

const (
	Directional Kind = iota // WorldDirection
	Point                   // WorldPosition, Attenuation
	Spot                    // WorldPosition, WorldDirection, Attenuation, Cutoff
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Attenuation is the constant/linear/quadratic distance falloff.
type Attenuation struct {
	Constant float32
	Linear   float32
	Exp      float32
}

// Light is a single light descriptor authored in world space.
type Light struct {
	Kind Kind

	Color            mgl32.Vec3
	AmbientIntensity float32
	DiffuseIntensity float32

	WorldPosition  mgl32.Vec3
	WorldDirection mgl32.Vec3
	Attenuation    Attenuation
	Cutoff         float32 // degrees

	// FollowCamera lights take the camera position and front every frame.
	FollowCamera bool

	// Recomputed by ToLocal before every use.
	LocalPosition  mgl32.Vec3
	LocalDirection mgl32.Vec3
}

// HasPosition reports whether the kind carries a position.
func (l *Light) HasPosition() bool {
	return l.Kind == Point || l.Kind == Spot
}

// HasDirection reports whether the kind carries a direction.
func (l *Light) HasDirection() bool {
	return l.Kind == Directional || l.Kind == Spot
}

// ToLocal converts the world position and direction through invWorld.
// Positions use w=1; directions use w=0 and are renormalized.
func (l *Light) ToLocal(invWorld mgl32.Mat4) {
	if l.HasPosition() {
		l.LocalPosition = invWorld.Mul4x1(l.WorldPosition.Vec4(1)).Vec3()
	}
	if l.HasDirection() {
		d := invWorld.Mul4x1(l.WorldDirection.Vec4(0)).Vec3()
		if d.Len() > 1e-6 {
			d = d.Normalize()
		}
		l.LocalDirection = d
	}
}

// Set holds lights grouped by kind, each in authoring order.
type Set struct {
	Directional []Light
	Point       []Light
	Spot        []Light
}

// Add appends a light to the list for its kind.
func (s *Set) Add(l Light) {
	switch l.Kind {
	case Directional:
		s.Directional = append(s.Directional, l)
	case Point:
		s.Point = append(s.Point, l)
	case Spot:
		s.Spot = append(s.Spot, l)
	}
}

// Len returns the total number of lights.
func (s *Set) Len() int {
	return len(s.Directional) + len(s.Point) + len(s.Spot)
}

// Follow moves every camera-attached light to the given position and direction.
func (s *Set) Follow(pos, dir mgl32.Vec3) {
	for _, list := range [][]Light{s.Directional, s.Point, s.Spot} {
		for i := range list {
			if list[i].FollowCamera {
				list[i].WorldPosition = pos
				list[i].WorldDirection = dir
			}
		}
	}
}

// ToLocal converts every light with the same inverse world transform.
func (s *Set) ToLocal(invWorld mgl32.Mat4) {
	for _, list := range [][]Light{s.Directional, s.Point, s.Spot} {
		for i := range list {
			list[i].ToLocal(invWorld)
		}
	}
}

// FromConfig builds a light set from configuration.
func FromConfig(cfg config.LightsConfig) Set {
	var s Set
	for _, d := range cfg.Directional {
		l := Light{
			Kind:           Directional,
			WorldDirection: mgl32.Vec3(d.Direction),
		}
		applyBase(&l, d.BaseLightConfig)
		if d.Sun != nil {
			// The light travels from the sun towards the scene
			l.WorldDirection = SunDirection(d.Sun.Longitude, d.Sun.Latitude).Mul(-1)
		}
		s.Add(l)
	}
	for _, p := range cfg.Point {
		s.Add(pointFromConfig(p, Point))
	}
	for _, sp := range cfg.Spot {
		l := pointFromConfig(sp.PointLightConfig, Spot)
		l.WorldDirection = mgl32.Vec3(sp.Direction)
		l.Cutoff = sp.Cutoff
		l.FollowCamera = sp.FollowCamera
		s.Add(l)
	}
	return s
}

func pointFromConfig(p config.PointLightConfig, kind Kind) Light {
	l := Light{
		Kind:          kind,
		WorldPosition: mgl32.Vec3(p.Position),
		Attenuation: Attenuation{
			Constant: p.Attenuation.Constant,
			Linear:   p.Attenuation.Linear,
			Exp:      p.Attenuation.Exp,
		},
	}
	applyBase(&l, p.BaseLightConfig)
	return l
}

func applyBase(l *Light, b config.BaseLightConfig) {
	l.Color = mgl32.Vec3(b.Color)
	l.AmbientIntensity = b.AmbientIntensity
	l.DiffuseIntensity = b.DiffuseIntensity
}
