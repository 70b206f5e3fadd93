// Package window owns the SDL2 window and the OpenGL 4.1 core context the
// viewer renders into.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/skinview/internal/config"
	"github.com/Faultbox/skinview/internal/logger"
)

func init() {
	// The GL context is bound to the thread that created it
	runtime.LockOSThread()
}

// glAttribute is one SDL_GL_SetAttribute request.
type glAttribute struct {
	attr  sdl.GLattr
	value int
}

// contextAttributes must be applied before the window exists.
var contextAttributes = []glAttribute{
	{sdl.GL_CONTEXT_MAJOR_VERSION, 4},
	{sdl.GL_CONTEXT_MINOR_VERSION, 1},
	{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
	{sdl.GL_DOUBLEBUFFER, 1},
	{sdl.GL_DEPTH_SIZE, 24},
}

// Window is a resizable SDL2 window with a current GL context.
type Window struct {
	handle  *sdl.Window
	context sdl.GLContext
}

// New initializes SDL video, opens the window and makes its GL context current.
// On failure everything acquired so far is released.
func New(cfg config.WindowConfig) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	for _, a := range contextAttributes {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			logger.Warn("GL attribute rejected", zap.Int("attr", int(a.attr)), zap.Int("value", a.value), zap.Error(err))
		}
	}

	handle, err := sdl.CreateWindow(title(cfg), sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), windowFlags(cfg))
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window %dx%d: %w", cfg.Width, cfg.Height, err)
	}

	ctx, err := handle.GLCreateContext()
	if err != nil {
		handle.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create GL 4.1 core context: %w", err)
	}

	if err := sdl.GLSetSwapInterval(swapInterval(cfg)); err != nil {
		logger.Warn("swap interval not applied", zap.Bool("vsync", cfg.VSync), zap.Error(err))
	}

	logger.Info("window opened",
		zap.String("title", title(cfg)),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)
	return &Window{handle: handle, context: ctx}, nil
}

func windowFlags(cfg config.WindowConfig) uint32 {
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}
	return flags
}

func swapInterval(cfg config.WindowConfig) int {
	if cfg.VSync {
		return 1
	}
	return 0
}

func title(cfg config.WindowConfig) string {
	if cfg.Title == "" {
		return "skinview"
	}
	return cfg.Title
}

// Close releases the context and the window, then shuts SDL down.
func (w *Window) Close() {
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
		w.context = nil
	}
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
	sdl.Quit()
	logger.Debug("window closed")
}

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() {
	w.handle.GLSwap()
}

// GetSize returns the window size in screen coordinates.
func (w *Window) GetSize() (int, int) {
	width, height := w.handle.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the framebuffer size in pixels. It is larger than
// GetSize on high-DPI displays.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.handle.GLGetDrawableSize()
	return int(width), int(height)
}

// SetRelativeMouse toggles SDL relative mouse mode, which hides the cursor
// and reports motion past the window edges.
func (w *Window) SetRelativeMouse(enabled bool) {
	if sdl.SetRelativeMouseMode(enabled) < 0 {
		logger.Warn("relative mouse mode unavailable", zap.Error(sdl.GetError()))
	}
}
