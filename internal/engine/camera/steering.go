package camera

// Steering turns cursor input into orientation changes in degrees.
type Steering interface {
	// Cursor consumes a cursor position and returns the yaw/pitch change.
	Cursor(x, y float32) (dYaw, dPitch float32)
	// Tick is called once per frame with the current pitch. changed is false
	// when nothing should be recomputed.
	Tick(pitch float32) (dYaw, dPitch float32, changed bool)
	// PitchLimit is the absolute pitch bound.
	PitchLimit() float32
	// Resize informs the strategy of a new window size.
	Resize(width, height int)
}

// MouseLook rotates by cursor movement. The first sample only latches the
// reference position.
type MouseLook struct {
	Sensitivity float32

	lastX, lastY float32
	firstMouse   bool
}

// NewMouseLook creates mouse-look steering centered in the window.
func NewMouseLook(width, height int, sensitivity float32) *MouseLook {
	return &MouseLook{
		Sensitivity: sensitivity,
		lastX:       float32(width) / 2,
		lastY:       float32(height) / 2,
		firstMouse:  true,
	}
}

// Cursor implements Steering.
func (m *MouseLook) Cursor(x, y float32) (float32, float32) {
	if m.firstMouse {
		m.lastX, m.lastY = x, y
		m.firstMouse = false
		return 0, 0
	}

	dx := x - m.lastX
	dy := m.lastY - y // screen y grows downward
	m.lastX, m.lastY = x, y

	return dx * m.Sensitivity, dy * m.Sensitivity
}

// Tick implements Steering. Mouse-look has no per-frame motion.
func (m *MouseLook) Tick(float32) (float32, float32, bool) {
	return 0, 0, false
}

// PitchLimit implements Steering.
func (m *MouseLook) PitchLimit() float32 {
	return 89
}

// Resize implements Steering.
func (m *MouseLook) Resize(int, int) {}

// EdgeScroll rotates while the cursor rests within Margin pixels of a window edge.
type EdgeScroll struct {
	Margin int
	Step   float32 // degrees per frame

	width, height int

	onLeft, onRight bool
	onTop, onBottom bool
}

// NewEdgeScroll creates edge-scroll steering for a window.
func NewEdgeScroll(width, height, margin int, step float32) *EdgeScroll {
	return &EdgeScroll{Margin: margin, Step: step, width: width, height: height}
}

// Cursor implements Steering. It only updates the edge flags.
func (e *EdgeScroll) Cursor(x, y float32) (float32, float32) {
	margin := float32(e.Margin)
	e.onLeft = x <= margin
	e.onRight = !e.onLeft && x >= float32(e.width)-margin
	e.onTop = y <= margin
	e.onBottom = !e.onTop && y >= float32(e.height)-margin
	return 0, 0
}

// Tick implements Steering. Horizontal steps always apply at the left or right
// edge; vertical steps stop at the pitch limit.
func (e *EdgeScroll) Tick(pitch float32) (float32, float32, bool) {
	var dYaw, dPitch float32
	changed := false

	if e.onLeft {
		dYaw = -e.Step
		changed = true
	} else if e.onRight {
		dYaw = e.Step
		changed = true
	}

	limit := e.PitchLimit()
	if e.onTop {
		if pitch < limit {
			dPitch = e.Step
			changed = true
		}
	} else if e.onBottom {
		if pitch > -limit {
			dPitch = -e.Step
			changed = true
		}
	}

	return dYaw, dPitch, changed
}

// PitchLimit implements Steering.
func (e *EdgeScroll) PitchLimit() float32 {
	return 90
}

// Resize implements Steering.
func (e *EdgeScroll) Resize(width, height int) {
	e.width, e.height = width, height
}

// Edges reports the current edge flags.
func (e *EdgeScroll) Edges() (left, right, top, bottom bool) {
	return e.onLeft, e.onRight, e.onTop, e.onBottom
}
