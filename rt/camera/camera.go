// Package camera implements the pinhole camera with an optional
// defocus disk: viewport setup, per-pixel multi-sample primary ray
// generation, and the gamma-2 tonemap to 8-bit output.
//
// The viewport/pixel-delta construction and the gamma tonemap are
// grounded on the original source's camera.rs initialise() and
// value/color.rs linear_to_gamma/color_to_string; vfov, look_from/
// look_at/v_up framing and the defocus disk are the spec's extension
// of that early fixed-frame camera into a full orientable one.
package camera

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/interval"
	"github.com/lumenrt/tracer/rt/material"
	"github.com/lumenrt/tracer/rt/primitives"
	"github.com/lumenrt/tracer/rt/scene"
	"github.com/lumenrt/tracer/rt/stats"
)

// Options configures a Camera. Angles are in degrees.
type Options struct {
	ImageWidth      int
	ImageHeight     int
	SamplesPerPixel int
	MaxDepth        int
	VFov            float64
	LookFrom        mgl64.Vec3
	LookAt          mgl64.Vec3
	VUp             mgl64.Vec3
	DefocusAngle    float64
	FocusDist       float64
}

// Camera is built once from Options; Render issues every primary ray
// in strict row-major, sample-major order.
type Camera struct {
	opts Options

	center        mgl64.Vec3
	pixel00Loc    mgl64.Vec3
	pixelDeltaU   mgl64.Vec3
	pixelDeltaV   mgl64.Vec3
	defocusDiskU  mgl64.Vec3
	defocusDiskV  mgl64.Vec3
}

func New(opts Options) *Camera {
	c := &Camera{opts: opts}
	c.initialise()
	return c
}

func (c *Camera) initialise() {
	o := &c.opts
	c.center = o.LookFrom

	theta := o.VFov * math.Pi / 180.0
	h := math.Tan(theta / 2.0)
	viewportHeight := 2.0 * h * o.FocusDist
	viewportWidth := viewportHeight * (float64(o.ImageWidth) / float64(o.ImageHeight))

	w := o.LookFrom.Sub(o.LookAt).Normalize()
	u := o.VUp.Cross(w).Normalize()
	v := w.Cross(u)

	viewportU := u.Mul(viewportWidth)
	viewportV := v.Mul(-1).Mul(viewportHeight)

	c.pixelDeltaU = viewportU.Mul(1.0 / float64(o.ImageWidth))
	c.pixelDeltaV = viewportV.Mul(1.0 / float64(o.ImageHeight))

	viewportUpperLeft := c.center.
		Sub(w.Mul(o.FocusDist)).
		Sub(viewportU.Mul(0.5)).
		Sub(viewportV.Mul(0.5))
	c.pixel00Loc = viewportUpperLeft.Add(c.pixelDeltaU.Add(c.pixelDeltaV).Mul(0.5))

	defocusRadius := o.FocusDist * math.Tan((o.DefocusAngle/2.0)*math.Pi/180.0)
	c.defocusDiskU = u.Mul(defocusRadius)
	c.defocusDiskV = v.Mul(defocusRadius)
}

// Image is 8-bit RGBA pixel data, row-major from top-left, matching
// the rendered-output external interface.
type Image struct {
	Width, Height int
	Pixels        []byte // len == Width*Height*4
}

// Render issues SamplesPerPixel primary rays per pixel, strictly
// row-major then sample-major, and averages + tonemaps the result.
func (c *Camera) Render(s *scene.Scene, rng *rand.Rand, counters *stats.Counters) *Image {
	img := &Image{Width: c.opts.ImageWidth, Height: c.opts.ImageHeight}
	img.Pixels = make([]byte, img.Width*img.Height*4)

	for j := 0; j < c.opts.ImageHeight; j++ {
		for i := 0; i < c.opts.ImageWidth; i++ {
			accum := mgl64.Vec3{0, 0, 0}
			for sample := 0; sample < c.opts.SamplesPerPixel; sample++ {
				r := c.primaryRay(i, j, rng)
				if counters != nil {
					counters.AddPrimaryRay()
				}
				accum = accum.Add(s.RayColor(r, c.opts.MaxDepth, rng, counters))
			}
			pixelColor := accum.Mul(1.0 / float64(c.opts.SamplesPerPixel))
			writePixel(img, i, j, pixelColor)
		}
	}
	return img
}

// primaryRay builds one jittered sample ray for pixel (i,j): the
// subpixel offset is uniform in [-1/2, 1/2] on both axes, and when the
// defocus disk has nonzero radius the ray origin is jittered uniformly
// on that disk instead of issuing from the exact camera center.
func (c *Camera) primaryRay(i, j int, rng *rand.Rand) primitives.Ray {
	offsetU := rng.Float64() - 0.5
	offsetV := rng.Float64() - 0.5

	pixelSample := c.pixel00Loc.
		Add(c.pixelDeltaU.Mul(float64(i) + offsetU)).
		Add(c.pixelDeltaV.Mul(float64(j) + offsetV))

	origin := c.center
	if c.opts.DefocusAngle > 0 {
		origin = c.defocusDiskSample(rng)
	}
	dir := pixelSample.Sub(origin)
	return primitives.Ray{Origin: origin, Dir: dir}
}

func (c *Camera) defocusDiskSample(rng *rand.Rand) mgl64.Vec3 {
	p := material.RandomInUnitDisk(rng)
	return c.center.Add(c.defocusDiskU.Mul(p.X())).Add(c.defocusDiskV.Mul(p.Y()))
}

func writePixel(img *Image, i, j int, color mgl64.Vec3) {
	intensity := interval.New(0.0, 0.999)
	r := intensity.Clamp(linearToGamma(color.X()))
	g := intensity.Clamp(linearToGamma(color.Y()))
	b := intensity.Clamp(linearToGamma(color.Z()))

	off := (j*img.Width + i) * 4
	img.Pixels[off+0] = byte(256.0 * r)
	img.Pixels[off+1] = byte(256.0 * g)
	img.Pixels[off+2] = byte(256.0 * b)
	img.Pixels[off+3] = 255
}

func linearToGamma(x float64) float64 {
	if x > 0 {
		return math.Sqrt(x)
	}
	return 0
}
