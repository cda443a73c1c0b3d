// Package config loads the plexus TOML configuration file and converts
// it into the per-package tuning structs. Every value has a default; a
// missing file just means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/plexkit/plexus/pkg/camera"
	"github.com/plexkit/plexus/pkg/gesture"
	"github.com/plexkit/plexus/pkg/physics"
	"github.com/plexkit/plexus/pkg/scene"
)

// Config holds plexus configuration.
type Config struct {
	Physics PhysicsConfig     `toml:"physics"`
	Camera  CameraConfig      `toml:"camera"`
	Canvas  CanvasConfig      `toml:"canvas"`
	Input   InputConfig       `toml:"input"`
	Persist PersistConfig     `toml:"persist"`
	Store   StoreConfig       `toml:"store"`
	Colors  map[string]string `toml:"colors"`
}

// PhysicsConfig tunes the force layout.
type PhysicsConfig struct {
	ChargeStrength    float64 `toml:"charge_strength"`
	ChargeDistanceMax float64 `toml:"charge_distance_max"`
	LinkDistance      float64 `toml:"link_distance"`
	LinkStrength      float64 `toml:"link_strength"`
	CollisionRadius   float64 `toml:"collision_radius"`
	CollisionStrength float64 `toml:"collision_strength"`
	CenterStrength    float64 `toml:"center_strength"`
	AlphaDecay        float64 `toml:"alpha_decay"`
	AlphaMin          float64 `toml:"alpha_min"`
	AlphaTarget       float64 `toml:"alpha_target"`
	VelocityDecay     float64 `toml:"velocity_decay"`
	ReheatAlpha       float64 `toml:"reheat_alpha"`
	DragAlphaTarget   float64 `toml:"drag_alpha_target"`
}

// CameraConfig tunes pan, zoom and view animations.
type CameraConfig struct {
	ScaleMin   float64 `toml:"scale_min"`
	ScaleMax   float64 `toml:"scale_max"`
	FitMargin  float64 `toml:"fit_margin"`
	FocusScale float64 `toml:"focus_scale"`
	TweenMs    int     `toml:"tween_ms"`
}

// CanvasConfig tunes node rendering and scene transitions.
type CanvasConfig struct {
	NodeRadius   float64 `toml:"node_radius"`
	LabelGap     float64 `toml:"label_gap"`
	TransitionMs int     `toml:"transition_ms"`
	PulseMs      int     `toml:"pulse_ms"`
	PulseScale   float64 `toml:"pulse_scale"`
}

// InputConfig tunes pointer hit testing and gestures.
type InputConfig struct {
	NodeHitRadius    float64 `toml:"node_hit_radius"`
	EdgeHitTolerance float64 `toml:"edge_hit_tolerance"`
	DragThreshold    float64 `toml:"drag_threshold"`
	FocusDelayMs     int     `toml:"focus_delay_ms"`
}

// PersistConfig tunes position write-back.
type PersistConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

// StoreConfig selects the graph backend.
type StoreConfig struct {
	Backend   string `toml:"backend"` // "memory", "sqlite", "redis"
	DBPath    string `toml:"db_path"`
	RedisAddr string `toml:"redis_addr"`
}

// Default returns the default configuration, taken from the per-package
// defaults so the two never drift apart.
func Default() *Config {
	phy := physics.DefaultConfig()
	cam := camera.DefaultConfig()
	scn := scene.DefaultConfig()
	in := gesture.DefaultConfig()

	return &Config{
		Physics: PhysicsConfig{
			ChargeStrength:    phy.ChargeStrength,
			ChargeDistanceMax: phy.ChargeDistanceMax,
			LinkDistance:      phy.LinkDistance,
			LinkStrength:      phy.LinkStrength,
			CollisionRadius:   phy.CollisionRadius,
			CollisionStrength: phy.CollisionStrength,
			CenterStrength:    phy.CenterStrength,
			AlphaDecay:        phy.AlphaDecay,
			AlphaMin:          phy.AlphaMin,
			AlphaTarget:       phy.AlphaTarget,
			VelocityDecay:     phy.VelocityDecay,
			ReheatAlpha:       phy.ReheatAlpha,
			DragAlphaTarget:   phy.DragAlphaTarget,
		},
		Camera: CameraConfig{
			ScaleMin:   cam.ScaleMin,
			ScaleMax:   cam.ScaleMax,
			FitMargin:  cam.FitMargin,
			FocusScale: cam.FocusScale,
			TweenMs:    int(cam.TweenDuration / time.Millisecond),
		},
		Canvas: CanvasConfig{
			NodeRadius:   scn.NodeRadius,
			LabelGap:     scn.LabelGap,
			TransitionMs: int(scn.TransitionDuration / time.Millisecond),
			PulseMs:      int(scn.PulseDuration / time.Millisecond),
			PulseScale:   scn.PulseScale,
		},
		Input: InputConfig{
			NodeHitRadius:    in.NodeHitRadius,
			EdgeHitTolerance: in.EdgeHitTolerance,
			DragThreshold:    in.DragThreshold,
			FocusDelayMs:     int(in.FocusDelay / time.Millisecond),
		},
		Persist: PersistConfig{
			DebounceMs: 500,
		},
		Store: StoreConfig{
			Backend:   "memory",
			DBPath:    "plexus.db",
			RedisAddr: "127.0.0.1:6379",
		},
		Colors: map[string]string{
			"":         "#c0caf5",
			"service":  "#7aa2f7",
			"database": "#9ece6a",
			"queue":    "#e0af68",
			"cache":    "#bb9af7",
			"user":     "#f7768e",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "plexus", "config.toml")
}

// Load reads the config file at path, falling back to DefaultPath when
// path is empty. A missing file is not an error; callers get defaults.
// A malformed file also yields defaults, plus the parse error so the CLI
// can warn about it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		// Unmarshal may have half-filled cfg before failing.
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// PhysicsConfig converts the TOML section into the physics package form.
func (c *Config) PhysicsConfig() physics.Config {
	return physics.Config{
		ChargeStrength:    c.Physics.ChargeStrength,
		ChargeDistanceMax: c.Physics.ChargeDistanceMax,
		LinkDistance:      c.Physics.LinkDistance,
		LinkStrength:      c.Physics.LinkStrength,
		CollisionRadius:   c.Physics.CollisionRadius,
		CollisionStrength: c.Physics.CollisionStrength,
		CenterStrength:    c.Physics.CenterStrength,
		AlphaDecay:        c.Physics.AlphaDecay,
		AlphaMin:          c.Physics.AlphaMin,
		AlphaTarget:       c.Physics.AlphaTarget,
		VelocityDecay:     c.Physics.VelocityDecay,
		ReheatAlpha:       c.Physics.ReheatAlpha,
		DragAlphaTarget:   c.Physics.DragAlphaTarget,
	}
}

// CameraConfig converts the TOML section into the camera package form.
func (c *Config) CameraConfig() camera.Config {
	return camera.Config{
		ScaleMin:      c.Camera.ScaleMin,
		ScaleMax:      c.Camera.ScaleMax,
		FitMargin:     c.Camera.FitMargin,
		FocusScale:    c.Camera.FocusScale,
		TweenDuration: time.Duration(c.Camera.TweenMs) * time.Millisecond,
	}
}

// SceneConfig converts the TOML section into the scene package form.
func (c *Config) SceneConfig() scene.Config {
	return scene.Config{
		NodeRadius:         c.Canvas.NodeRadius,
		LabelGap:           c.Canvas.LabelGap,
		TransitionDuration: time.Duration(c.Canvas.TransitionMs) * time.Millisecond,
		PulseDuration:      time.Duration(c.Canvas.PulseMs) * time.Millisecond,
		PulseScale:         c.Canvas.PulseScale,
	}
}

// GestureConfig converts the TOML section into the gesture package form.
func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{
		NodeHitRadius:    c.Input.NodeHitRadius,
		EdgeHitTolerance: c.Input.EdgeHitTolerance,
		DragThreshold:    c.Input.DragThreshold,
		FocusDelay:       time.Duration(c.Input.FocusDelayMs) * time.Millisecond,
	}
}

// DebounceWindow returns the position write-back window.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Persist.DebounceMs) * time.Millisecond
}

// Color returns the display color for a node type, falling back to the
// untyped entry.
func (c *Config) Color(nodeType string) string {
	if col, ok := c.Colors[nodeType]; ok {
		return col
	}
	return c.Colors[""]
}
