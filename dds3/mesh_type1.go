package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

// RenderMode selects the VU microprogram of a batch.
type RenderMode int

const (
	RenderMode1 RenderMode = 1 // microprogram 0x0C
	RenderMode2 RenderMode = 2
)

func renderMode(tag VifTag) RenderMode {
	if tag.Immediate == 0x0C {
		return RenderMode1
	}
	return RenderMode2
}

// Mesh1 is a rigid mesh stored as a VIF stream of batches.
type Mesh1 struct {
	MaterialIndex int
	Batches       []*Mesh1Batch
}

type Mesh1Batch struct {
	Flags      MeshFlags
	Triangles  []Triangle
	Positions  []*geom.Vector3
	Normals    []*geom.Vector3
	TexCoords  []*geom.Vector2
	TexCoords2 []*geom.Vector2
	Colors     []Color
	RenderMode RenderMode
}

func (m *Mesh1) Type() MeshType { return MeshType1 }
func (m *Mesh1) Material() int  { return m.MaterialIndex }

func (m *Mesh1) VertexCount() int {
	n := 0
	for _, b := range m.Batches {
		n += len(b.Positions)
	}
	return n
}

func (m *Mesh1) TriangleCount() int {
	n := 0
	for _, b := range m.Batches {
		n += len(b.Triangles)
	}
	return n
}

// Transform returns positions and normals in model space. Normals are nil when absent.
func (b *Mesh1Batch) Transform(world *geom.Matrix4) ([]*geom.Vector3, []*geom.Vector3) {
	return transformRigid(b.Positions, b.Normals, world)
}

// readVifStream calls readBatch until the end of the stream or its padding.
func (r *reader) readVifStream(size int, readBatch func()) {
	end := r.pos + size*16
	for r.pos < end && r.err == nil {
		tag := r.readVifTag()
		if tag.Command == uint8(VifNop) && align(r.pos, 16) == end {
			break
		}
		r.skip(-vifTagSize)
		readBatch()
	}
}

func (r *reader) readMesh1() *Mesh1 {
	m := &Mesh1{}
	size := int(r.readInt16())
	m.MaterialIndex = int(r.readInt16())
	r.atOffset(r.readOffset(), func() {
		r.readVifStream(size, func() {
			m.Batches = append(m.Batches, r.readMesh1Batch())
		})
	})
	r.align(16)
	return m
}

func (r *reader) readMesh1Batch() *Mesh1Batch {
	b := &Mesh1Batch{}
	h := r.vifBatchHeader(4)
	triangleCount, vertexCount := h[0], h[1]
	b.Flags = MeshFlags(uint32(uint16(h[2])) | uint32(uint16(h[3]))<<16)

	b.Triangles = r.readVifPacket(VifByte, 4, triangleCount).triangles(r)
	b.Positions = r.readVifPacket(VifFloat, 3, vertexCount).vector3s()
	if b.Flags.Has(MeshFlagNormal) {
		b.Normals = r.readVifPacket(VifFloat, 3, vertexCount).vector3s()
	}
	b.TexCoords, b.TexCoords2 = r.readVifTexCoords(b.Flags, vertexCount)
	if b.Flags.Has(MeshFlagColor) {
		b.Colors = r.readVifPacket(VifByte, 4, vertexCount).colors()
	}
	b.RenderMode = renderMode(r.readVifCode(VifActMicro))
	return b
}

// readVifTexCoords reads uv xy, or xyzw split into two sets when TexCoord2 is set.
func (r *reader) readVifTexCoords(flags MeshFlags, vertexCount int) ([]*geom.Vector2, []*geom.Vector2) {
	if !flags.Has(MeshFlagTexCoord) {
		return nil, nil
	}
	if !flags.Has(MeshFlagTexCoord2) {
		return r.readVifPacket(VifFloat, 2, vertexCount).vector2s(), nil
	}
	return splitTexCoords(r.readVifPacket(VifFloat, 4, vertexCount).vector4s())
}
