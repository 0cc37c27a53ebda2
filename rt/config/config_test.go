package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsUnknownAlgorithm(t *testing.T) {
	o := Default()
	o.Algorithm = "quantum"
	assert.Error(t, o.Validate())
}

func TestValidateRejectsZeroGridVoxelSize(t *testing.T) {
	o := Default()
	o.Algorithm = "grid"
	o.GridVoxelSize = 0
	assert.Error(t, o.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.toml")
	content := "image_width = 800\nimage_height = 450\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, opts.ImageWidth)
	assert.Equal(t, 450, opts.ImageHeight)
	assert.Equal(t, Default().MaxDepth, opts.MaxDepth, "unset field should keep the default")
}

func TestBindFlagsOverridesFromArgs(t *testing.T) {
	opts := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	apply := BindFlags(fs, &opts)

	require.NoError(t, fs.Parse([]string{"-algorithm=grid", "-width=123"}))
	apply()

	assert.Equal(t, "grid", opts.Algorithm)
	assert.Equal(t, 123, opts.ImageWidth)
}
