package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

// Mesh7 is a weighted mesh with indexed triangles and VIF vertex batches.
type Mesh7 struct {
	MaterialIndex int
	Flags         MeshFlags
	Triangles     []Triangle
	Batches       []*Mesh7Batch
	TexCoords2    []*geom.Vector2
}

type Mesh7Batch struct {
	NodeBatches []*NodeBatch
	TexCoords   []*geom.Vector2
}

func (m *Mesh7) Type() MeshType     { return MeshType7 }
func (m *Mesh7) Material() int      { return m.MaterialIndex }
func (m *Mesh7) TriangleCount() int { return len(m.Triangles) }

func (m *Mesh7) VertexCount() int {
	n := 0
	for _, b := range m.Batches {
		n += b.VertexCount()
	}
	return n
}

func (m *Mesh7) UsedNodes() []int {
	var nodes []int
	if len(m.Batches) > 0 {
		for _, nb := range m.Batches[0].NodeBatches {
			nodes = append(nodes, nb.NodeIndex)
		}
	}
	return nodes
}

func (b *Mesh7Batch) VertexCount() int {
	if len(b.NodeBatches) == 0 {
		return 0
	}
	return len(b.NodeBatches[0].Positions)
}

func (b *Mesh7Batch) Transform(nodes []*Node) ([]*geom.Vector3, []*geom.Vector3, [][]NodeWeight) {
	return transformWeighted(b.NodeBatches, b.VertexCount(), nodes)
}

func (r *reader) readMesh7() *Mesh7 {
	m := &Mesh7{}
	r.expectInt16(0, "mesh type 7 field00")
	m.MaterialIndex = int(r.readInt16())
	r.expectInt32(0, "mesh type 7 field04")
	r.expectInt32(0, "mesh type 7 field08")
	triangleCount := int(r.readInt16())
	vertexCount := int(r.readInt16())
	m.Flags = MeshFlags(r.readUint32())
	usedNodes := r.readInt16s(int(r.readInt16()))
	r.align(16)
	m.Triangles = r.readTriangles16(triangleCount)
	r.align(16)
	for read := 0; read < vertexCount && r.err == nil; {
		b := r.readMesh7Batch(usedNodes)
		if b.VertexCount() == 0 && r.err == nil {
			r.failf("empty mesh type 7 batch")
		}
		read += b.VertexCount()
		m.Batches = append(m.Batches, b)
	}
	if m.Flags.Has(MeshFlagTexCoord2) {
		m.TexCoords2 = r.readVector2s(vertexCount)
	}
	return m
}

func (r *reader) readMesh7Batch(usedNodes []int16) *Mesh7Batch {
	b := &Mesh7Batch{}
	h := r.vifBatchHeader(2)
	if h[0]+1 != len(usedNodes) && r.err == nil {
		r.failf("batch node count %d does not match %d used nodes", h[0]+1, len(usedNodes))
		return b
	}
	vertexCount := h[1]
	for _, node := range usedNodes {
		nb := &NodeBatch{NodeIndex: int(node)}
		nb.Positions = r.readVifPacket(VifFloat, 4, -1).vector4s()
		nb.Normals = r.readVifPacket(VifFloat, 3, len(nb.Positions)).vector3s()
		r.readVifCode(VifActMicro, VifCntMicro)
		b.NodeBatches = append(b.NodeBatches, nb)
	}
	b.TexCoords = r.readVifPacket(VifFloat, 2, vertexCount).vector2s()
	r.readVifCode(VifCntMicro)
	r.readVifCode(VifFlushEnd)
	r.align(16)
	return b
}
