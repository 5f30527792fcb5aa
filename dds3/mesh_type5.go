package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

// Mesh5 is a mesh with blend shapes. Shape 0 is the base shape; the others are deltas from it.
// Meshes with node batches are weighted instead.
type Mesh5 struct {
	MaterialIndex  int
	Material2Index int
	Flags          MeshFlags
	Triangles      []Triangle
	BlendShapes    []*BlendShape
	TexCoords      []*geom.Vector2
	TexCoords2     []*geom.Vector2
	NodeBatches    []*NodeBatch
}

type BlendShape struct {
	Positions []*geom.Vector3
	Normals   []*geom.Vector3
}

func (m *Mesh5) Type() MeshType     { return MeshType5 }
func (m *Mesh5) Material() int      { return m.MaterialIndex }
func (m *Mesh5) TriangleCount() int { return len(m.Triangles) }

func (m *Mesh5) VertexCount() int {
	if len(m.BlendShapes) > 0 {
		return len(m.BlendShapes[0].Positions)
	}
	if len(m.NodeBatches) > 0 {
		return len(m.NodeBatches[0].Positions)
	}
	return 0
}

// Transform returns every blend shape as absolute positions and normals in model space.
func (m *Mesh5) Transform(world *geom.Matrix4) []*BlendShape {
	shapes := make([]*BlendShape, len(m.BlendShapes))
	for i, shape := range m.BlendShapes {
		positions := shape.Positions
		normals := shape.Normals
		if i > 0 {
			base := m.BlendShapes[0]
			positions = make([]*geom.Vector3, len(shape.Positions))
			normals = make([]*geom.Vector3, len(shape.Normals))
			for j := range positions {
				positions[j] = shape.Positions[j].Add(base.Positions[j])
			}
			for j := range normals {
				normals[j] = shape.Normals[j].Add(base.Normals[j]).Normalize()
			}
		}
		p, n := transformRigid(positions, normals, world)
		shapes[i] = &BlendShape{Positions: p, Normals: n}
	}
	return shapes
}

// TransformWeighted returns positions, normals and weights of a mesh with node batches.
func (m *Mesh5) TransformWeighted(nodes []*Node) ([]*geom.Vector3, []*geom.Vector3, [][]NodeWeight) {
	return transformWeighted(m.NodeBatches, m.VertexCount(), nodes)
}

func (r *reader) readMesh5() *Mesh5 {
	m := &Mesh5{}
	r.expectInt16(0, "mesh type 5 field00")
	m.MaterialIndex = int(r.readInt16())
	shapeCount := int(r.readInt16())
	m.Material2Index = int(r.readInt16())
	r.expectInt32(0, "mesh type 5 field08")
	triangleCount := int(r.readInt16())
	vertexCount := int(r.readInt16())
	m.Flags = MeshFlags(r.readUint32())
	usedNodes := r.readInt16s(int(r.readInt16()))
	r.align(16)
	m.Triangles = r.readTriangles16(triangleCount)
	r.align(16)
	for i := 0; i < shapeCount && r.err == nil; i++ {
		shape := &BlendShape{}
		shape.Positions = r.readVector3s(vertexCount)
		r.align(16)
		shape.Normals = r.readVector3s(vertexCount)
		r.align(16)
		m.BlendShapes = append(m.BlendShapes, shape)
	}
	if m.Flags.Has(MeshFlagTexCoord) {
		m.TexCoords = r.readVector2s(vertexCount)
	}
	if m.Flags.Has(MeshFlagTexCoord2) {
		m.TexCoords2 = r.readVector2s(vertexCount)
	}
	for _, node := range usedNodes {
		nb := &NodeBatch{NodeIndex: int(node)}
		nb.Positions = r.readVector4s(vertexCount)
		nb.Normals = r.readVector3s(vertexCount)
		r.align(16)
		m.NodeBatches = append(m.NodeBatches, nb)
	}
	return m
}
