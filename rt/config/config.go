// Package config is the configuration collaborator: it loads the
// enumerated render options (spec §6), overlays command-line flag
// overrides, and validates the result into the one class of error the
// core treats as fatal at construction time (spec §7).
//
// TOML decoding follows NoiseTorch's config.go readConfig/writeConfig
// pair (toml.DecodeFile into a plain struct, toml.NewEncoder back out).
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/bvh"
	"github.com/lumenrt/tracer/rt/scene"
)

// Options is the full set of enumerated render options from spec §6,
// in the flat shape that both TOML and flag.FlagSet can populate
// directly.
type Options struct {
	Algorithm       string  `toml:"algorithm"`
	BVHMode         string  `toml:"bvh_mode"`
	GridVoxelSize   float64 `toml:"grid_voxel_size"`
	DrawBoxes       bool    `toml:"draw_boxes"`
	ImageWidth      int     `toml:"image_width"`
	ImageHeight     int     `toml:"image_height"`
	SamplesPerPixel int     `toml:"samples_per_pixel"`
	MaxDepth        int     `toml:"max_depth"`
	VFov            float64 `toml:"vfov"`
	LookFromX       float64 `toml:"look_from_x"`
	LookFromY       float64 `toml:"look_from_y"`
	LookFromZ       float64 `toml:"look_from_z"`
	LookAtX         float64 `toml:"look_at_x"`
	LookAtY         float64 `toml:"look_at_y"`
	LookAtZ         float64 `toml:"look_at_z"`
	VUpX            float64 `toml:"v_up_x"`
	VUpY            float64 `toml:"v_up_y"`
	VUpZ            float64 `toml:"v_up_z"`
	DefocusAngle    float64 `toml:"defocus_angle"`
	FocusDist       float64 `toml:"focus_dist"`

	SceneFile string `toml:"scene_file"`
	StatsFile string `toml:"stats_file"`
}

// Default returns the spec's baseline options: SAH-full BVH, a
// 16:9-ish frame, and a camera with a 0.6 degree defocus angle.
func Default() Options {
	return Options{
		Algorithm:       "bvh",
		BVHMode:         "sah-full",
		GridVoxelSize:   1.0,
		ImageWidth:      400,
		ImageHeight:     225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		VFov:            20,
		LookFromX:       13, LookFromY: 2, LookFromZ: 3,
		VUpY:         1,
		DefocusAngle: 0.6,
		FocusDist:    10,
	}
}

// Load reads a TOML config file on top of Default(), so a file only
// needs to set the fields it wants to override.
func Load(path string) (Options, error) {
	opts := Default()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return opts, nil
}

// Write serializes opts back to a TOML file, the inverse of Load.
func Write(path string, opts Options) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(&opts); err != nil {
		return fmt.Errorf("config: encoding: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ConfigError is the one fatal-at-construction-time error class the
// core's taxonomy defines: mutually exclusive options both set, a
// non-positive voxel size, or similar.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }

// Validate checks the enumerated option values and ranges (bvh_mode is
// a single string, so two split modes cannot both be set),
// independent of how many primitives end up in the scene (the
// empty-scene check lives in scene.New, since it needs the built
// primitive list).
func (o Options) Validate() error {
	switch o.Algorithm {
	case "linear", "bvh", "grid":
	default:
		return &ConfigError{Reason: fmt.Sprintf("algorithm must be one of linear|bvh|grid, got %q", o.Algorithm)}
	}
	switch o.BVHMode {
	case "naive", "sah-plane", "sah-full":
	default:
		return &ConfigError{Reason: fmt.Sprintf("bvh_mode must be one of naive|sah-plane|sah-full, got %q", o.BVHMode)}
	}
	if o.Algorithm == "grid" && o.GridVoxelSize <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("grid_voxel_size must be positive, got %v", o.GridVoxelSize)}
	}
	if o.ImageWidth <= 0 || o.ImageHeight <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("image dimensions must be positive, got %dx%d", o.ImageWidth, o.ImageHeight)}
	}
	if o.SamplesPerPixel <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("samples_per_pixel must be positive, got %d", o.SamplesPerPixel)}
	}
	if o.MaxDepth <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("max_depth must be positive, got %d", o.MaxDepth)}
	}
	return nil
}

// SceneAlgorithm translates the TOML string enum into scene.Algorithm.
func (o Options) SceneAlgorithm() scene.Algorithm {
	switch o.Algorithm {
	case "linear":
		return scene.Linear
	case "grid":
		return scene.Grid
	default:
		return scene.BVH
	}
}

// BVHSplitMode translates the TOML string enum into bvh.Mode.
func (o Options) BVHSplitMode() bvh.Mode {
	switch o.BVHMode {
	case "naive":
		return bvh.Naive
	case "sah-plane":
		return bvh.SAHPlane
	default:
		return bvh.SAHFull
	}
}

func (o Options) LookFrom() mgl64.Vec3 { return mgl64.Vec3{o.LookFromX, o.LookFromY, o.LookFromZ} }
func (o Options) LookAt() mgl64.Vec3   { return mgl64.Vec3{o.LookAtX, o.LookAtY, o.LookAtZ} }
func (o Options) VUp() mgl64.Vec3      { return mgl64.Vec3{o.VUpX, o.VUpY, o.VUpZ} }
