// Package stats holds the per-run diagnostic counters the core
// increments on its hot path (spec §6 Statistics) and the collaborator
// that emits them: a CSV writer appending one row per run, grounded on
// the teacher's app/profiler.go scope-timer idiom and the original
// source's Data::write_to_csv.
package stats

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Counters is the mutable accumulator the acceleration core writes
// into. It holds no file handles and performs no I/O itself — writing
// it out is WriteCSV's job, never called from the hot path.
type Counters struct {
	RunID string

	PrimaryRays       uint64
	ScatterRays       uint64
	AABBChecks        uint64
	PrimitiveChecks   uint64
	GridVoxelChecks   uint64
	TraversalSteps    uint64
	OverlappingAABBs  uint64

	InitTime   time.Duration
	RenderTime time.Duration
}

// New stamps a fresh Counters with a run identifier, so repeated CSV
// appends (the same process run twice, or two concurrent renders
// sharing one stats file) can be joined back to one invocation without
// relying on wall-clock ordering, which the spec excludes from its
// reproducibility guarantees.
func New() *Counters {
	return &Counters{RunID: uuid.NewString()}
}

func (c *Counters) AddPrimaryRay()      { c.PrimaryRays++ }
func (c *Counters) AddScatterRay()      { c.ScatterRays++ }
func (c *Counters) AddAABBCheck()       { c.AABBChecks++ }
func (c *Counters) AddPrimitiveCheck()  { c.PrimitiveChecks++ }
func (c *Counters) AddGridVoxelCheck()  { c.GridVoxelChecks++ }
func (c *Counters) AddTraversalStep()   { c.TraversalSteps++ }
func (c *Counters) AddOverlappingAABB() { c.OverlappingAABBs++ }

// csvHeader and row order must stay in sync.
var csvHeader = []string{
	"run_id", "primary_rays", "scatter_rays", "aabb_checks",
	"primitive_checks", "grid_voxel_checks", "traversal_steps",
	"overlapping_aabbs", "init_time_ms", "render_time_ms",
}

func (c *Counters) row() []string {
	return []string{
		c.RunID,
		strconv.FormatUint(c.PrimaryRays, 10),
		strconv.FormatUint(c.ScatterRays, 10),
		strconv.FormatUint(c.AABBChecks, 10),
		strconv.FormatUint(c.PrimitiveChecks, 10),
		strconv.FormatUint(c.GridVoxelChecks, 10),
		strconv.FormatUint(c.TraversalSteps, 10),
		strconv.FormatUint(c.OverlappingAABBs, 10),
		strconv.FormatFloat(float64(c.InitTime.Microseconds())/1000.0, 'f', 3, 64),
		strconv.FormatFloat(float64(c.RenderTime.Microseconds())/1000.0, 'f', 3, 64),
	}
}

// WriteCSV appends one row to filename, writing the header first only
// if the file does not already exist — matching the append-with-
// headers-if-new convention of the original source's write_to_csv.
func (c *Counters) WriteCSV(filename string) error {
	_, statErr := os.Stat(filename)
	fileExists := statErr == nil

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if !fileExists {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	return w.Write(c.row())
}
