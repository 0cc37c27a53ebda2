// Package shaders embeds the WGSL sources for the wavefront compute
// pipeline, the same way the teacher's rt/shaders package embeds its
// WGSL passes. Unlike the teacher's shaders, none of these are wired
// to a working render loop: see rt/gpu's doc comment for why.
package shaders

import _ "embed"

//go:embed wavefront_generate.wgsl
var WavefrontGenerateWGSL string

//go:embed wavefront_intersect.wgsl
var WavefrontIntersectWGSL string

//go:embed wavefront_shade.wgsl
var WavefrontShadeWGSL string
