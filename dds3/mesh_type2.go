package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

// Mesh2 is a weighted mesh stored as a VIF stream. Each batch has one node batch per used node.
type Mesh2 struct {
	MaterialIndex int
	UsedNodes     []int
	Batches       []*Mesh2Batch
}

type Mesh2Batch struct {
	NodeBatches []*Mesh2NodeBatch
	Triangles   []Triangle
	TexCoords   []*geom.Vector2
	TexCoords2  []*geom.Vector2
	Colors      []Color
}

type Mesh2NodeBatch struct {
	NodeBatch
	Flags      MeshFlags
	RenderMode RenderMode
}

func (m *Mesh2) Type() MeshType { return MeshType2 }
func (m *Mesh2) Material() int  { return m.MaterialIndex }

func (m *Mesh2) VertexCount() int {
	n := 0
	for _, b := range m.Batches {
		n += b.VertexCount()
	}
	return n
}

func (m *Mesh2) TriangleCount() int {
	n := 0
	for _, b := range m.Batches {
		n += len(b.Triangles)
	}
	return n
}

func (b *Mesh2Batch) VertexCount() int {
	if len(b.NodeBatches) == 0 {
		return 0
	}
	return len(b.NodeBatches[0].Positions)
}

// Transform returns weighted positions, normals and per-vertex node weights in model space.
func (b *Mesh2Batch) Transform(nodes []*Node) ([]*geom.Vector3, []*geom.Vector3, [][]NodeWeight) {
	batches := make([]*NodeBatch, len(b.NodeBatches))
	for i, nb := range b.NodeBatches {
		batches[i] = &nb.NodeBatch
	}
	return transformWeighted(batches, b.VertexCount(), nodes)
}

func (r *reader) readMesh2() *Mesh2 {
	m := &Mesh2{}
	size := int(r.readInt16())
	m.MaterialIndex = int(r.readInt16())
	vifOffset := r.readOffset()
	usedNodeCount := int(r.readInt16())
	r.expectInt16(0, "mesh type 2 field0A")
	for _, n := range r.readInt16s(usedNodeCount) {
		m.UsedNodes = append(m.UsedNodes, int(n))
	}
	if usedNodeCount == 0 && r.err == nil {
		r.failf("mesh type 2 without used nodes")
	}
	r.atOffset(vifOffset, func() {
		r.readVifStream(size, func() {
			m.Batches = append(m.Batches, r.readMesh2Batch(m.UsedNodes))
		})
	})
	r.align(16)
	return m
}

func (r *reader) readMesh2Batch(usedNodes []int) *Mesh2Batch {
	b := &Mesh2Batch{}
	for i, node := range usedNodes {
		last := i == len(usedNodes)-1
		nb := &Mesh2NodeBatch{NodeBatch: NodeBatch{NodeIndex: node}}
		h := r.vifBatchHeader(4)
		triangleCount, vertexCount := h[0], h[1]
		nb.Flags = MeshFlags(uint32(uint16(h[2])) | uint32(uint16(h[3]))<<16)
		if last {
			b.Triangles = r.readVifPacket(VifByte, 4, triangleCount).triangles(r)
		}
		nb.Positions = r.readVifPacket(VifFloat, 4, vertexCount).vector4s()
		if nb.Flags.Has(MeshFlagNormal) {
			nb.Normals = r.readVifPacket(VifFloat, 3, vertexCount).vector3s()
		}
		if last {
			b.TexCoords, b.TexCoords2 = r.readVifTexCoords(nb.Flags, vertexCount)
			if nb.Flags.Has(MeshFlagColor) {
				b.Colors = r.readVifPacket(VifByte, 4, vertexCount).colors()
			}
		}
		nb.RenderMode = renderMode(r.readVifCode(VifActMicro))
		b.NodeBatches = append(b.NodeBatches, nb)
	}
	return b
}
