package sceneio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lumenrt/tracer/rt/material"
	"github.com/lumenrt/tracer/rt/primitives"
)

// LoadPLY parses the ASCII PLY subset the spec requires — a
// `vertex {x,y,z}` element and a `face {vertex_indices}` element,
// every face a triangle — and builds primitives sharing defaultMat.
// Vertex coordinate convention (handedness, up-axis) is this loader's
// call, not the core's: coordinates are used exactly as they appear in
// the file.
func LoadPLY(path string, defaultMat material.Handle) ([]primitives.Primitive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sceneio: opening %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() || strings.TrimSpace(sc.Text()) != "ply" {
		return nil, fmt.Errorf("sceneio: %s is not a PLY file (missing magic header)", path)
	}

	var vertexCount, faceCount int
	var format string

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "format":
			if len(fields) > 1 {
				format = fields[1]
			}
		case "comment":
			continue
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("sceneio: malformed element line %q", line)
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("sceneio: malformed element count in %q: %w", line, err)
			}
			switch fields[1] {
			case "vertex":
				vertexCount = count
			case "face":
				faceCount = count
			}
		case "property":
			continue
		case "end_header":
			goto header_done
		}
	}

header_done:
	if format != "" && format != "ascii" {
		return nil, fmt.Errorf("sceneio: only ascii PLY is supported, got format %q", format)
	}

	vertices := make([]mgl64.Vec3, 0, vertexCount)
	for i := 0; i < vertexCount; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sceneio: %s: expected %d vertices, ran out after %d", path, vertexCount, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			return nil, fmt.Errorf("sceneio: malformed vertex line %q", sc.Text())
		}
		x, err1 := strconv.ParseFloat(fields[0], 64)
		y, err2 := strconv.ParseFloat(fields[1], 64)
		z, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("sceneio: malformed vertex coordinates in %q", sc.Text())
		}
		vertices = append(vertices, mgl64.Vec3{x, y, z})
	}

	prims := make([]primitives.Primitive, 0, faceCount)
	for i := 0; i < faceCount; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sceneio: %s: expected %d faces, ran out after %d", path, faceCount, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 1 {
			return nil, fmt.Errorf("sceneio: malformed face line %q", sc.Text())
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("sceneio: malformed face vertex count in %q: %w", sc.Text(), err)
		}
		if n != 3 {
			return nil, fmt.Errorf("sceneio: face with %d vertices is not a triangle (only triangulated meshes are supported)", n)
		}
		if len(fields) < 1+n {
			return nil, fmt.Errorf("sceneio: malformed face line %q", sc.Text())
		}
		idx := make([]int, n)
		for k := 0; k < n; k++ {
			v, err := strconv.Atoi(fields[1+k])
			if err != nil || v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("sceneio: face references invalid vertex index in %q", sc.Text())
			}
			idx[k] = v
		}
		prims = append(prims, primitives.NewTriangle(vertices[idx[0]], vertices[idx[1]], vertices[idx[2]], defaultMat))
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sceneio: reading %s: %w", path, err)
	}
	return prims, nil
}
