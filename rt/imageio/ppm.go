// Package imageio is the rendered-output collaborator: encoding a
// camera.Image to a file format is explicitly not the core's concern,
// so this package is deliberately thin. WritePPM mirrors the original
// source's camera.rs render(), which builds a "P3\nW H\n255\n" ASCII
// PPM header followed by one "r g b" triple per pixel.
package imageio

import (
	"bufio"
	"fmt"
	"os"
)

// Image is the minimal shape WritePPM needs, matching camera.Image's
// fields without importing rt/camera (keeps this collaborator
// decoupled from the core).
type Image struct {
	Width, Height int
	Pixels        []byte // RGBA, row-major from top-left
}

func WritePPM(path string, img Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P3\n%d %d\n255\n", img.Width, img.Height)
	for j := 0; j < img.Height; j++ {
		for i := 0; i < img.Width; i++ {
			off := (j*img.Width + i) * 4
			fmt.Fprintf(w, "%d %d %d\n", img.Pixels[off], img.Pixels[off+1], img.Pixels[off+2])
		}
	}
	return w.Flush()
}
