package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignsRunID(t *testing.T) {
	c := New()
	assert.NotEmpty(t, c.RunID)
}

func TestIncrementHelpers(t *testing.T) {
	c := New()
	c.AddPrimaryRay()
	c.AddScatterRay()
	c.AddScatterRay()
	c.AddAABBCheck()
	c.AddPrimitiveCheck()
	c.AddGridVoxelCheck()
	c.AddTraversalStep()
	c.AddOverlappingAABB()

	assert.EqualValues(t, 1, c.PrimaryRays)
	assert.EqualValues(t, 2, c.ScatterRays)
	assert.EqualValues(t, 1, c.AABBChecks)
	assert.EqualValues(t, 1, c.PrimitiveChecks)
	assert.EqualValues(t, 1, c.GridVoxelChecks)
	assert.EqualValues(t, 1, c.TraversalSteps)
	assert.EqualValues(t, 1, c.OverlappingAABBs)
}

func TestWriteCSVWritesHeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")

	c1 := New()
	c1.AddPrimaryRay()
	c1.InitTime = 5 * time.Millisecond
	c1.RenderTime = 250 * time.Millisecond
	require.NoError(t, c1.WriteCSV(path))

	c2 := New()
	c2.AddPrimaryRay()
	require.NoError(t, c2.WriteCSV(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3, "expected 1 header + 2 data rows")
	assert.Equal(t, strings.Join(csvHeader, ","), lines[0])
	assert.Contains(t, lines[1], c1.RunID)
	assert.Contains(t, lines[2], c2.RunID)
}
