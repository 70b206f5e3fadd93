package config

import (
	"flag"
	"path/filepath"
)

var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagDebug          = flag.Bool("debug", false, "Enable debug logging")
	flagMesh           = flag.String("mesh", "", "Scene file to load (.obj, .gltf, .glb)")
	flagWidth          = flag.Int("width", 0, "Window width")
	flagHeight         = flag.Int("height", 0, "Window height")
	flagFullscreen     = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagSteering       = flag.String("steering", "", "Camera steering: mouselook or edgescroll")
	flagStrictTextures = flag.Bool("strict-textures", false, "Abort when a texture fails to decode")
	flagBone           = flag.Int("bone", -1, "Highlight weights of this bone index")
	flagWriteConfig    = flag.Bool("write-config", false, "Write the effective config to --config (or the user config dir) and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns where --write-config should save the effective
// config, or "" when the flag is not set.
func WriteConfigPath() string {
	if !*flagWriteConfig {
		return ""
	}
	if *flagConfig != "" {
		return *flagConfig
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMesh != "" {
		cfg.Scene.Mesh = *flagMesh
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagSteering != "" {
		cfg.Camera.Steering = *flagSteering
	}
	if *flagStrictTextures {
		cfg.Scene.StrictTextures = true
	}
	if *flagBone >= 0 {
		cfg.Debug.DisplayBoneIndex = *flagBone
	}
}
