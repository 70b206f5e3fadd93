// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Scene      SceneConfig      `yaml:"scene"`
	Shaders    ShaderConfig     `yaml:"shaders"`
	Camera     CameraConfig     `yaml:"camera"`
	Projection ProjectionConfig `yaml:"projection"`
	Transform  TransformConfig  `yaml:"transform"`
	Lights     LightsConfig     `yaml:"lights"`
	Debug      DebugConfig      `yaml:"debug"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// SceneConfig selects the mesh to load and the asset error policy.
type SceneConfig struct {
	Mesh string `yaml:"mesh"`
	// StrictTextures aborts the import when a texture fails to decode.
	// When false the texture is dropped and the material is marked degraded.
	StrictTextures bool `yaml:"strict_textures"`
	// PerSubmeshMaterials uploads each submesh's material before its draw call
	// instead of one representative material for the whole mesh.
	PerSubmeshMaterials bool `yaml:"per_submesh_materials"`
}

// ShaderConfig holds shader source paths.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

// CameraConfig holds the initial camera placement and control tuning.
type CameraConfig struct {
	Position    [3]float32 `yaml:"position"`
	Target      [3]float32 `yaml:"target"` // view direction, relative to position
	Up          [3]float32 `yaml:"up"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Steering    string     `yaml:"steering"` // "mouselook" or "edgescroll"
	EdgeMargin  int        `yaml:"edge_margin"`
	EdgeStep    float32    `yaml:"edge_step"`
}

// ProjectionConfig holds perspective projection parameters.
type ProjectionConfig struct {
	FOV  float32 `yaml:"fov"` // degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// TransformConfig is the world transform of the mesh (translate, rotate, scale).
type TransformConfig struct {
	Translate [3]float32 `yaml:"translate"`
	Rotate    [3]float32 `yaml:"rotate"` // degrees around X, Y, Z
	Scale     [3]float32 `yaml:"scale"`
}

// LightsConfig lists the lights of the scene, authored in world space.
type LightsConfig struct {
	Directional []DirectionalLightConfig `yaml:"directional"`
	Point       []PointLightConfig       `yaml:"point"`
	Spot        []SpotLightConfig        `yaml:"spot"`
}

// BaseLightConfig holds fields shared by every light kind.
type BaseLightConfig struct {
	Color            [3]float32 `yaml:"color"`
	AmbientIntensity float32    `yaml:"ambient_intensity"`
	DiffuseIntensity float32    `yaml:"diffuse_intensity"`
}

// SunConfig describes a directional light by longitude/latitude in degrees.
type SunConfig struct {
	Longitude float32 `yaml:"longitude"`
	Latitude  float32 `yaml:"latitude"`
}

// DirectionalLightConfig describes a directional light.
// Sun, when set, overrides Direction.
type DirectionalLightConfig struct {
	BaseLightConfig `yaml:",inline"`
	Direction       [3]float32 `yaml:"direction"`
	Sun             *SunConfig `yaml:"sun,omitempty"`
}

// AttenuationConfig holds distance attenuation factors.
type AttenuationConfig struct {
	Constant float32 `yaml:"constant"`
	Linear   float32 `yaml:"linear"`
	Exp      float32 `yaml:"exp"`
}

// PointLightConfig describes a point light.
type PointLightConfig struct {
	BaseLightConfig `yaml:",inline"`
	Position        [3]float32        `yaml:"position"`
	Attenuation     AttenuationConfig `yaml:"attenuation"`
}

// SpotLightConfig describes a spot light.
// FollowCamera places the light at the camera looking along its view direction.
type SpotLightConfig struct {
	PointLightConfig `yaml:",inline"`
	Direction        [3]float32 `yaml:"direction"`
	Cutoff           float32    `yaml:"cutoff"` // degrees
	FollowCamera     bool       `yaml:"follow_camera"`
}

// DebugConfig holds debugging aids.
type DebugConfig struct {
	// DisplayBoneIndex highlights the weights of one bone; -1 disables it.
	DisplayBoneIndex int    `yaml:"display_bone_index"`
	ScreenshotDir    string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Steering modes.
const (
	SteeringMouseLook  = "mouselook"
	SteeringEdgeScroll = "edgescroll"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Skinned Mesh Viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Scene: SceneConfig{
			Mesh: "res/cube/cube.obj",
		},
		Shaders: ShaderConfig{
			Vertex:   "shaders/skinning.vs",
			Fragment: "shaders/skinning.fs",
		},
		Camera: CameraConfig{
			Position:    [3]float32{0, 5, -8},
			Target:      [3]float32{0, -0.5, 1},
			Up:          [3]float32{0, 1, 0},
			Speed:       2.5,
			Sensitivity: 0.1,
			Steering:    SteeringMouseLook,
			EdgeMargin:  10,
			EdgeStep:    1,
		},
		Projection: ProjectionConfig{
			FOV:  60,
			Near: 0.1,
			Far:  100,
		},
		Transform: TransformConfig{
			Translate: [3]float32{0, 0, -10},
			Rotate:    [3]float32{90, 180, 0},
			Scale:     [3]float32{0.1, 0.1, 0.1},
		},
		Lights: LightsConfig{
			Point: []PointLightConfig{
				{
					BaseLightConfig: BaseLightConfig{Color: [3]float32{1, 1, 0}, AmbientIntensity: 1, DiffuseIntensity: 1},
					Position:        [3]float32{0, 1, 1},
					Attenuation:     AttenuationConfig{Constant: 1},
				},
				{
					BaseLightConfig: BaseLightConfig{Color: [3]float32{0, 1, 1}},
					Position:        [3]float32{10, 1, 0},
					Attenuation:     AttenuationConfig{Constant: 1, Exp: 0.2},
				},
			},
			Spot: []SpotLightConfig{
				{
					PointLightConfig: PointLightConfig{
						BaseLightConfig: BaseLightConfig{Color: [3]float32{1, 1, 1}, DiffuseIntensity: 1},
						Attenuation:     AttenuationConfig{Constant: 1, Linear: 0.01},
					},
					Cutoff:       20,
					FollowCamera: true,
				},
				{
					PointLightConfig: PointLightConfig{
						BaseLightConfig: BaseLightConfig{Color: [3]float32{1, 1, 0}, DiffuseIntensity: 1},
						Position:        [3]float32{0, 1, 0},
						Attenuation:     AttenuationConfig{Constant: 1, Linear: 0.01},
					},
					Direction: [3]float32{0, -1, 0},
					Cutoff:    30,
				},
			},
		},
		Debug: DebugConfig{
			DisplayBoneIndex: -1,
			ScreenshotDir:    "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
