package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

// Mesh8 is a rigid mesh with indexed triangles and VIF vertex batches.
type Mesh8 struct {
	MaterialIndex int
	Flags         MeshFlags
	Triangles     []Triangle
	Batches       []*Mesh8Batch
	TexCoords2    []*geom.Vector2
}

type Mesh8Batch struct {
	Positions []*geom.Vector3
	Normals   []*geom.Vector3
	TexCoords []*geom.Vector2
}

func (m *Mesh8) Type() MeshType     { return MeshType8 }
func (m *Mesh8) Material() int      { return m.MaterialIndex }
func (m *Mesh8) TriangleCount() int { return len(m.Triangles) }

func (m *Mesh8) VertexCount() int {
	n := 0
	for _, b := range m.Batches {
		n += len(b.Positions)
	}
	return n
}

func (b *Mesh8Batch) Transform(world *geom.Matrix4) ([]*geom.Vector3, []*geom.Vector3) {
	return transformRigid(b.Positions, b.Normals, world)
}

func (r *reader) readMesh8() *Mesh8 {
	m := &Mesh8{}
	r.expectInt16(0, "mesh type 8 field00")
	m.MaterialIndex = int(r.readInt16())
	r.expectInt32(0, "mesh type 8 field04")
	r.expectInt32(0, "mesh type 8 field08")
	triangleCount := int(r.readInt16())
	vertexCount := int(r.readInt16())
	m.Flags = MeshFlags(r.readUint32())
	r.align(16)
	m.Triangles = r.readTriangles16(triangleCount)
	r.align(16)
	for read := 0; read < vertexCount && r.err == nil; {
		b := r.readMesh8Batch()
		if len(b.Positions) == 0 && r.err == nil {
			r.failf("empty mesh type 8 batch")
		}
		read += len(b.Positions)
		m.Batches = append(m.Batches, b)
	}
	if m.Flags.Has(MeshFlagTexCoord2) {
		m.TexCoords2 = r.readVector2s(vertexCount)
	}
	return m
}

func (r *reader) readMesh8Batch() *Mesh8Batch {
	b := &Mesh8Batch{}
	h := r.vifBatchHeader(2)
	if h[1] != 0 && r.err == nil {
		r.failf("mesh type 8 batch header second short is %d", h[1])
		return b
	}
	vertexCount := h[0]
	b.Positions = r.readVifPacket(VifFloat, 3, vertexCount).vector3s()
	b.Normals = r.readVifPacket(VifFloat, 3, vertexCount).vector3s()
	b.TexCoords = r.readVifPacket(VifFloat, 2, vertexCount).vector2s()
	r.readVifCode(VifActMicro)
	r.readVifCode(VifFlushEnd)
	r.align(16)
	return b
}
