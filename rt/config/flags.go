package config

import "flag"

// BindFlags registers one flag per Options field on fs, defaulting to
// opts' current values, and returns a function that must be called
// after fs.Parse to write the parsed values back into opts. Mirrors
// the teacher's flag.Bool/flag.Parse CLI idiom (rt_main.go), extended
// to the full option set a batch renderer needs instead of a single
// debug toggle.
func BindFlags(fs *flag.FlagSet, opts *Options) func() {
	algorithm := fs.String("algorithm", opts.Algorithm, "intersection strategy: linear|bvh|grid")
	bvhMode := fs.String("bvh-mode", opts.BVHMode, "bvh split mode: naive|sah-plane|sah-full")
	gridVoxelSize := fs.Float64("grid-voxel-size", opts.GridVoxelSize, "uniform grid voxel size")
	drawBoxes := fs.Bool("draw-boxes", opts.DrawBoxes, "color near-AABB-edge hits red for debugging")
	imageWidth := fs.Int("width", opts.ImageWidth, "output image width in pixels")
	imageHeight := fs.Int("height", opts.ImageHeight, "output image height in pixels")
	samplesPerPixel := fs.Int("samples", opts.SamplesPerPixel, "samples per pixel")
	maxDepth := fs.Int("max-depth", opts.MaxDepth, "max ray bounce depth")
	vfov := fs.Float64("vfov", opts.VFov, "vertical field of view in degrees")
	defocusAngle := fs.Float64("defocus-angle", opts.DefocusAngle, "camera defocus cone angle in degrees")
	focusDist := fs.Float64("focus-dist", opts.FocusDist, "camera focus distance")
	sceneFile := fs.String("scene", opts.SceneFile, "path to the native scene file")
	statsFile := fs.String("stats", opts.StatsFile, "path to append per-run CSV statistics")

	return func() {
		opts.Algorithm = *algorithm
		opts.BVHMode = *bvhMode
		opts.GridVoxelSize = *gridVoxelSize
		opts.DrawBoxes = *drawBoxes
		opts.ImageWidth = *imageWidth
		opts.ImageHeight = *imageHeight
		opts.SamplesPerPixel = *samplesPerPixel
		opts.MaxDepth = *maxDepth
		opts.VFov = *vfov
		opts.DefocusAngle = *defocusAngle
		opts.FocusDist = *focusDist
		opts.SceneFile = *sceneFile
		opts.StatsFile = *statsFile
	}
}
