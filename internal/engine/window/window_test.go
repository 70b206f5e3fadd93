package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/skinview/internal/config"
)

func TestWindowFlags(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.WindowConfig
		fullscreen bool
	}{
		{"windowed", config.WindowConfig{Width: 800, Height: 600}, false},
		{"fullscreen", config.WindowConfig{Width: 800, Height: 600, Fullscreen: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := windowFlags(tt.cfg)
			for _, want := range []uint32{sdl.WINDOW_OPENGL, sdl.WINDOW_RESIZABLE} {
				if flags&want == 0 {
					t.Errorf("flags %#x missing %#x", flags, want)
				}
			}
			if got := flags&sdl.WINDOW_FULLSCREEN != 0; got != tt.fullscreen {
				t.Errorf("fullscreen = %v, want %v", got, tt.fullscreen)
			}
		})
	}
}

func TestSwapInterval(t *testing.T) {
	if got := swapInterval(config.WindowConfig{VSync: true}); got != 1 {
		t.Errorf("vsync on: got %d, want 1", got)
	}
	if got := swapInterval(config.WindowConfig{}); got != 0 {
		t.Errorf("vsync off: got %d, want 0", got)
	}
}

func TestTitle(t *testing.T) {
	if got := title(config.WindowConfig{Title: "rig"}); got != "rig" {
		t.Errorf("got %q, want rig", got)
	}
	if got := title(config.WindowConfig{}); got != "skinview" {
		t.Errorf("empty title: got %q, want skinview", got)
	}
}

func TestContextAttributesRequestCoreProfile(t *testing.T) {
	want := map[sdl.GLattr]int{
		sdl.GL_CONTEXT_MAJOR_VERSION: 4,
		sdl.GL_CONTEXT_MINOR_VERSION: 1,
		sdl.GL_CONTEXT_PROFILE_MASK:  sdl.GL_CONTEXT_PROFILE_CORE,
		sdl.GL_DOUBLEBUFFER:          1,
	}
	got := make(map[sdl.GLattr]int, len(contextAttributes))
	for _, a := range contextAttributes {
		got[a.attr] = a.value
	}
	for attr, v := range want {
		if got[attr] != v {
			t.Errorf("attribute %d = %d, want %d", attr, got[attr], v)
		}
	}
}
