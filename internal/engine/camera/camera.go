// Package camera provides a free-fly camera driven by keyboard and cursor input.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Default camera settings.
const (
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultEdgeMargin          = 10
	DefaultEdgeStep    float32 = 1.0
)

// Key is a movement command.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// Camera tracks position and yaw/pitch orientation in degrees.
// Yaw 0 looks along +X, yaw -90 along -Z.
type Camera struct {
	width, height int

	position mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3
	worldUp  mgl32.Vec3

	yaw, pitch float32

	// Speed is the movement speed in units per second.
	Speed float32

	steering Steering
}

// New creates a camera at (0, 0, 3) looking down -Z with mouse-look steering.
func New(width, height int) *Camera {
	c := &Camera{
		width:    width,
		height:   height,
		position: mgl32.Vec3{0, 0, 3},
		worldUp:  mgl32.Vec3{0, 1, 0},
		yaw:      -90,
		Speed:    DefaultSpeed,
	}
	c.steering = NewMouseLook(width, height, DefaultSensitivity)
	c.updateVectors()
	return c
}

// NewLookAt creates a camera at pos looking along the direction target.
// Yaw and pitch are derived from the normalized direction.
func NewLookAt(width, height int, pos, target, up mgl32.Vec3) *Camera {
	c := &Camera{
		width:    width,
		height:   height,
		position: pos,
		worldUp:  up.Normalize(),
		Speed:    DefaultSpeed,
	}
	f := target.Normalize()
	c.yaw = mgl32.RadToDeg(float32(math.Atan2(float64(f[2]), float64(f[0]))))
	c.pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(f[1], -1, 1)))))
	c.steering = NewMouseLook(width, height, DefaultSensitivity)
	c.updateVectors()
	return c
}

// SetSteering replaces the cursor steering strategy.
func (c *Camera) SetSteering(s Steering) {
	c.steering = s
}

// Steering returns the active steering strategy.
func (c *Camera) Steering() Steering {
	return c.steering
}

// SetPosition teleports the camera.
func (c *Camera) SetPosition(x, y, z float32) {
	c.position = mgl32.Vec3{x, y, z}
	c.updateVectors()
}

// Resize updates the window size used by steering.
func (c *Camera) Resize(width, height int) {
	c.width, c.height = width, height
	c.steering.Resize(width, height)
}

// OnKeyboard moves the camera for one pressed key over dt seconds.
func (c *Camera) OnKeyboard(key Key, dt float32) {
	velocity := c.Speed * dt

	switch key {
	case KeyForward:
		c.position = c.position.Add(c.front.Mul(velocity))
	case KeyBackward:
		c.position = c.position.Sub(c.front.Mul(velocity))
	case KeyLeft:
		c.position = c.position.Sub(c.right.Mul(velocity))
	case KeyRight:
		c.position = c.position.Add(c.right.Mul(velocity))
	case KeyUp:
		c.position = c.position.Add(c.worldUp.Mul(velocity))
	case KeyDown:
		c.position = c.position.Sub(c.worldUp.Mul(velocity))
	}
}

// OnMouse feeds a cursor position to the steering strategy.
func (c *Camera) OnMouse(x, y float32) {
	dYaw, dPitch := c.steering.Cursor(x, y)
	if dYaw == 0 && dPitch == 0 {
		return
	}
	c.rotate(dYaw, dPitch)
}

// OnRender advances steering that acts every frame, such as edge scrolling.
func (c *Camera) OnRender() {
	dYaw, dPitch, changed := c.steering.Tick(c.pitch)
	if !changed {
		return
	}
	c.rotate(dYaw, dPitch)
}

func (c *Camera) rotate(dYaw, dPitch float32) {
	limit := c.steering.PitchLimit()
	c.yaw += dYaw
	c.pitch = mgl32.Clamp(c.pitch+dPitch, -limit, limit)
	c.updateVectors()
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))

	c.front = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()

	right := c.front.Cross(c.worldUp)
	if right.Len() < 1e-6 {
		// Looking straight along world-up
		right = mgl32.Vec3{float32(-math.Sin(yaw)), 0, float32(math.Cos(yaw))}
	}
	c.right = right.Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

// Matrix returns the view matrix for the current state.
func (c *Camera) Matrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// Position returns the camera position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 { return c.front }

// Up returns the camera up vector.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// Right returns the camera right vector.
func (c *Camera) Right() mgl32.Vec3 { return c.right }

// Yaw returns the yaw angle in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch angle in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }
