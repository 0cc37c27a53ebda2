// Package gpu mirrors the shape of the teacher's GpuBufferManager: a
// device-owned set of storage buffers sized and uploaded on demand.
// Nothing here is wired to an actual compute dispatch or swapchain.
// There is no wgpu.Instance/Adapter bring-up, no pipeline creation, no
// present loop; UploadBVH/UploadMaterials only encode the scene the CPU path
// already rendered, in case a future wavefront pass wants to consume
// it. Treat this package as a typed layout reference, not a working
// renderer.
package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/lumenrt/tracer/rt/bvh"
	"github.com/lumenrt/tracer/rt/material"
)

const (
	headroomNodes     = 64 * 1024
	headroomMaterials = 16 * 1024
	safeBufferLimit   = 1024 * 1024 * 1024
)

// BufferManager owns the storage buffers a wavefront intersect/shade
// pass would read. Every buffer is sized geometrically (1.5x growth)
// the way the teacher's ensureBuffer does, to avoid a reallocation per
// frame as the scene grows.
type BufferManager struct {
	Device *wgpu.Device

	BVHNodesBuf *wgpu.Buffer
	PrimIdxBuf  *wgpu.Buffer
	MaterialBuf *wgpu.Buffer
	RaysBuf     *wgpu.Buffer
	HitsBuf     *wgpu.Buffer
}

func NewBufferManager(device *wgpu.Device) *BufferManager {
	return &BufferManager{Device: device}
}

// UploadBVH encodes tree.Nodes via bvh.Node.ToBytes (the same 64-byte
// layout wavefront_intersect.wgsl's BVHNode struct expects) and
// uploads it, growing BVHNodesBuf/PrimIdxBuf as needed.
func (m *BufferManager) UploadBVH(tree *bvh.BVH) error {
	nodeData := make([]byte, 0, len(tree.Nodes)*64)
	for _, n := range tree.Nodes {
		nodeData = append(nodeData, n.ToBytes()...)
	}
	if err := m.ensureBuffer(&m.BVHNodesBuf, "BVHNodesBuf", nodeData, wgpu.BufferUsageStorage, headroomNodes); err != nil {
		return err
	}

	idxData := make([]byte, len(tree.Indices)*4)
	for i, idx := range tree.Indices {
		binary.LittleEndian.PutUint32(idxData[i*4:], uint32(idx))
	}
	return m.ensureBuffer(&m.PrimIdxBuf, "PrimIdxBuf", idxData, wgpu.BufferUsageStorage, headroomNodes)
}

// UploadMaterials encodes the material table into the 32-byte layout
// wavefront_shade.wgsl's Material struct expects: kind (u32), albedo
// (three f32), fuzz (f32), refraction_index (f32), padded to 32 bytes.
func (m *BufferManager) UploadMaterials(table *material.Table) error {
	entries := table.All()
	data := make([]byte, len(entries)*32)
	for i, mat := range entries {
		off := i * 32
		kind, albedo, fuzz, ior := materialFields(mat)
		binary.LittleEndian.PutUint32(data[off:], kind)
		binary.LittleEndian.PutUint32(data[off+4:], math.Float32bits(float32(albedo[0])))
		binary.LittleEndian.PutUint32(data[off+8:], math.Float32bits(float32(albedo[1])))
		binary.LittleEndian.PutUint32(data[off+12:], math.Float32bits(float32(albedo[2])))
		binary.LittleEndian.PutUint32(data[off+16:], math.Float32bits(float32(fuzz)))
		binary.LittleEndian.PutUint32(data[off+20:], math.Float32bits(float32(ior)))
	}
	return m.ensureBuffer(&m.MaterialBuf, "MaterialBuf", data, wgpu.BufferUsageStorage, headroomMaterials)
}

// ensureBuffer is the teacher's geometric-growth allocator, trimmed of
// the old-buffer-preserving copy path: every call here re-uploads the
// full scene, there is no incremental update to preserve.
func (m *BufferManager) ensureBuffer(buf **wgpu.Buffer, name string, data []byte, usage wgpu.BufferUsage, headroom int) error {
	needed := uint64(len(data) + headroom)
	usage = usage | wgpu.BufferUsageCopyDst

	current := *buf
	if current == nil || current.GetSize() < needed {
		newSize := needed
		if current != nil {
			grown := uint64(float64(current.GetSize()) * 1.5)
			if grown > newSize {
				newSize = grown
			}
		}
		if newSize > safeBufferLimit {
			return fmt.Errorf("gpu: buffer %s size %d exceeds safety limit %d", name, newSize, safeBufferLimit)
		}
		newBuf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            name,
			Size:             newSize,
			Usage:            usage,
			MappedAtCreation: false,
		})
		if err != nil {
			return fmt.Errorf("gpu: creating buffer %s: %w", name, err)
		}
		*buf = newBuf
		current = newBuf
	}
	m.Device.GetQueue().WriteBuffer(current, 0, data)
	return nil
}
