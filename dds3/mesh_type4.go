package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

// Mesh4 is a rigid mesh with positions and normals only.
type Mesh4 struct {
	MaterialIndex int
	Flags         MeshFlags
	Triangles     []Triangle
	Positions     []*geom.Vector3
	Normals       []*geom.Vector3
}

func (m *Mesh4) Type() MeshType     { return MeshType4 }
func (m *Mesh4) Material() int      { return m.MaterialIndex }
func (m *Mesh4) VertexCount() int   { return len(m.Positions) }
func (m *Mesh4) TriangleCount() int { return len(m.Triangles) }

func (m *Mesh4) Transform(world *geom.Matrix4) ([]*geom.Vector3, []*geom.Vector3) {
	return transformRigid(m.Positions, m.Normals, world)
}

func (r *reader) readMesh4() *Mesh4 {
	m := &Mesh4{}
	r.expectInt16(0, "mesh type 4 field00")
	m.MaterialIndex = int(r.readInt16())
	r.expectInt16(0, "mesh type 4 field04")
	r.expectInt16(0, "mesh type 4 field06")
	r.expectInt32(0, "mesh type 4 field08")
	triangleCount := int(r.readInt16())
	vertexCount := int(r.readInt16())
	m.Flags = MeshFlags(r.readUint32())
	r.align(16)
	m.Triangles = r.readTriangles16(triangleCount)
	r.align(16)
	m.Positions = r.readVector3s(vertexCount)
	r.align(16)
	m.Normals = r.readVector3s(vertexCount)
	r.align(16)
	return m
}
