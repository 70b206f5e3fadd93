package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the standard locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail deep inside the renderer.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height))
	}
	if c.Scene.Mesh == "" {
		errs = append(errs, errors.New("scene.mesh is empty"))
	}
	switch c.Camera.Steering {
	case SteeringMouseLook, SteeringEdgeScroll:
	default:
		errs = append(errs, fmt.Errorf("camera.steering %q is not one of %q, %q",
			c.Camera.Steering, SteeringMouseLook, SteeringEdgeScroll))
	}
	switch {
	case c.Camera.Target == [3]float32{}:
		errs = append(errs, errors.New("camera.target is zero"))
	case c.Camera.Up == [3]float32{}:
		errs = append(errs, errors.New("camera.up is zero"))
	case cross(c.Camera.Target, c.Camera.Up) == [3]float32{}:
		errs = append(errs, fmt.Errorf("camera.target %v is parallel to camera.up %v", c.Camera.Target, c.Camera.Up))
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		errs = append(errs, fmt.Errorf("projection near/far %v/%v is invalid", c.Projection.Near, c.Projection.Far))
	}
	return errors.Join(errs...)
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./skinview.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "SkinView")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "SkinView")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "skinview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "skinview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
