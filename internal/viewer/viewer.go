// Package viewer implements the interactive skinned mesh viewer loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/engine/camera"
	"github.com/Faultbox/skinview/internal/engine/debug"
	"github.com/Faultbox/skinview/internal/engine/frame"
	"github.com/Faultbox/skinview/internal/engine/input"
	"github.com/Faultbox/skinview/internal/engine/lighting"
	"github.com/Faultbox/skinview/internal/engine/material"
	"github.com/Faultbox/skinview/internal/engine/mesh"
	"github.com/Faultbox/skinview/internal/engine/model"
	"github.com/Faultbox/skinview/internal/engine/technique"
	"github.com/Faultbox/skinview/internal/engine/texture"
	"github.com/Faultbox/skinview/internal/engine/window"
	"github.com/Faultbox/skinview/internal/logger"
)

// Viewer owns the window, GPU resources and per-frame state.
type Viewer struct {
	cfg     *config.Config
	running bool

	window      *window.Window
	input       *input.Input
	camera      *camera.Camera
	technique   *technique.Skinning
	mesh        *mesh.SkinnedMesh
	white       *texture.Texture
	frame       *frame.Orchestrator
	screenshots *debug.ScreenshotCapture

	// Unbounded cursor position accumulated from relative motion.
	cursorX, cursorY float32
}

// New opens the window, initializes OpenGL and loads the mesh.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{cfg: cfg}

	var err error
	v.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := initGL(); err != nil {
		v.Close()
		return nil, err
	}

	v.technique, err = technique.New(cfg.Shaders)
	if err != nil {
		v.Close()
		return nil, err
	}

	if err := v.loadMesh(); err != nil {
		v.Close()
		return nil, err
	}

	width, height := v.window.GetSize()
	v.camera = newCamera(cfg.Camera, width, height)
	if cfg.Camera.Steering == config.SteeringMouseLook {
		v.window.SetRelativeMouse(true)
	}

	dw, dh := v.window.DrawableSize()
	gl.Viewport(0, 0, int32(dw), int32(dh))
	v.frame = frame.New(
		v.technique,
		v.camera,
		lighting.FromConfig(cfg.Lights),
		frame.TransformFromConfig(cfg.Transform),
		frame.ProjectionFromConfig(cfg.Projection, dw, dh),
	)
	v.frame.PerSubmeshMaterials = cfg.Scene.PerSubmeshMaterials
	v.frame.DisplayBoneIndex = cfg.Debug.DisplayBoneIndex

	v.input = input.New()
	v.screenshots = debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "skinview")

	logger.Info("viewer initialized")
	return v, nil
}

func initGL() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.ClearColor(0, 0, 0, 0)
	gl.FrontFace(gl.CW)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	return nil
}

func (v *Viewer) loadMesh() error {
	importer := model.NewImporter(material.GLTextureLoader{}, model.Options{
		StrictTextures: v.cfg.Scene.StrictTextures,
	})

	res, err := importer.Import(v.cfg.Scene.Mesh)
	if err != nil {
		return err
	}
	if n := len(res.TextureErrors); n > 0 {
		logger.Warn("mesh loaded with missing textures", zap.Int("count", n))
	}

	v.mesh, err = mesh.Build(res)
	if err != nil {
		res.Destroy()
		return fmt.Errorf("building mesh %s: %w", v.cfg.Scene.Mesh, err)
	}

	v.white = texture.NewSolid(255, 255, 255, 255)
	v.mesh.Fallback = v.white

	logger.Info("mesh ready",
		zap.String("path", v.cfg.Scene.Mesh),
		zap.Int("submeshes", len(v.mesh.Entries())),
		zap.Int("bones", v.mesh.NumBones()),
	)
	return nil
}

// newCamera builds the camera and its steering from configuration.
func newCamera(cfg config.CameraConfig, width, height int) *camera.Camera {
	c := camera.NewLookAt(width, height, cfg.Position, cfg.Target, cfg.Up)
	if cfg.Speed > 0 {
		c.Speed = cfg.Speed
	}

	switch cfg.Steering {
	case config.SteeringEdgeScroll:
		margin, step := cfg.EdgeMargin, cfg.EdgeStep
		if margin <= 0 {
			margin = camera.DefaultEdgeMargin
		}
		if step <= 0 {
			step = camera.DefaultEdgeStep
		}
		c.SetSteering(camera.NewEdgeScroll(width, height, margin, step))
	default:
		sensitivity := cfg.Sensitivity
		if sensitivity <= 0 {
			sensitivity = camera.DefaultSensitivity
		}
		c.SetSteering(camera.NewMouseLook(width, height, sensitivity))
	}
	return c
}

// nextBoneIndex cycles -1, 0, 1, ... numBones-1, -1.
func nextBoneIndex(current, numBones int) int {
	next := current + 1
	if next >= numBones {
		return -1
	}
	return next
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		for _, key := range v.input.HeldMovement() {
			v.camera.OnKeyboard(key, dt)
		}

		v.frame.Render(v.mesh)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.resize(event.Width, event.Height)

		case input.EventMouseMove:
			if v.cfg.Camera.Steering == config.SteeringEdgeScroll {
				v.camera.OnMouse(float32(event.MouseX), float32(event.MouseY))
			} else {
				v.cursorX += float32(event.RelX)
				v.cursorY += float32(event.RelY)
				v.camera.OnMouse(v.cursorX, v.cursorY)
			}

		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F12:
				v.screenshot()
			case sdl.SCANCODE_B:
				v.frame.DisplayBoneIndex = nextBoneIndex(v.frame.DisplayBoneIndex, v.mesh.NumBones())
				logger.Info("display bone", zap.Int("index", v.frame.DisplayBoneIndex))
			}
		}
	}
}

func (v *Viewer) resize(width, height int) {
	dw, dh := v.window.DrawableSize()
	gl.Viewport(0, 0, int32(dw), int32(dh))
	v.frame.Resize(dw, dh)
	v.camera.Resize(width, height)
	logger.Debug("window resized", zap.Int("width", width), zap.Int("height", height))
}

func (v *Viewer) screenshot() {
	w, h := v.window.DrawableSize()
	if _, err := v.screenshots.Capture(w, h); err != nil {
		logger.Error("screenshot failed", zap.Error(err))
	}
}

// Close releases GPU resources and the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.mesh != nil {
		v.mesh.Destroy()
	}
	if v.white != nil {
		v.white.Destroy()
	}
	if v.technique != nil {
		v.technique.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
