package sceneio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenrt/tracer/rt/material"
	"github.com/lumenrt/tracer/rt/primitives"
)

const samplePLY = `ply
format ascii 1.0
comment single triangle
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
3 0 1 2
`

func writeTemp(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPLYSingleTriangle(t *testing.T) {
	path := writeTemp(t, "tri.ply", samplePLY)
	prims, err := LoadPLY(path, material.Handle(0))
	require.NoError(t, err)
	require.Len(t, prims, 1)
	assert.Equal(t, primitives.KindTriangle, prims[0].Kind)
}

func TestLoadPLYRejectsNonTriangleFace(t *testing.T) {
	content := `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`
	path := writeTemp(t, "quad.ply", content)
	_, err := LoadPLY(path, material.Handle(0))
	assert.Error(t, err, "expected LoadPLY to reject a non-triangulated face")
}

func TestLoadPLYRejectsMissingMagic(t *testing.T) {
	path := writeTemp(t, "notply.txt", "hello\n")
	_, err := LoadPLY(path, material.Handle(0))
	assert.Error(t, err, "expected LoadPLY to reject a file without the ply magic header")
}
