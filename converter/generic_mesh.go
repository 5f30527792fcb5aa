package converter

import (
	"fmt"

	"github.com/binzume/dds3conv/dds3"
	"github.com/binzume/dds3conv/geom"
)

// GenericMesh is a mesh of any DDS3 mesh type flattened into vertex buffers in model space.
type GenericMesh struct {
	Name      string
	Source    dds3.Mesh
	Node      *dds3.Node // nil for merged meshes
	NodeIndex int

	Positions []*geom.Vector3
	Normals   []*geom.Vector3 // nil when absent
	Colors    []*geom.Vector4
	UV1       []*geom.Vector2
	UV2       []*geom.Vector2

	// Weights is nil for meshes rigidly bound to Node.
	Weights     [][]dds3.NodeWeight
	Groups      []*PrimitiveGroup
	BlendShapes []*BlendShapeTarget

	// ShapeOf is the base mesh of a blend shape converted to a mesh.
	ShapeOf *GenericMesh
}

type PrimitiveGroup struct {
	MaterialIndex int
	Triangles     []dds3.Triangle
}

// BlendShapeTarget holds absolute positions and normals for every vertex of the mesh.
type BlendShapeTarget struct {
	Name      string
	Positions []*geom.Vector3
	Normals   []*geom.Vector3
}

func (m *GenericMesh) VertexCount() int {
	return len(m.Positions)
}

func (m *GenericMesh) IsRigid() bool {
	return m.Weights == nil
}

// Triangles returns all triangles of all groups.
func (m *GenericMesh) Triangles() []dds3.Triangle {
	var tris []dds3.Triangle
	for _, g := range m.Groups {
		tris = append(tris, g.Triangles...)
	}
	return tris
}

// NodeName returns the node name, or node_NN for unnamed nodes.
func NodeName(model *dds3.Model, node *dds3.Node) string {
	if node.Name != "" {
		return node.Name
	}
	for i, n := range model.Nodes {
		if n == node {
			return fmt.Sprintf("node_%02d", i)
		}
	}
	return fmt.Sprintf("node_%02d", node.Index)
}

// meshBuilder appends vertex batches to a GenericMesh.
// Attributes missing from some batches are padded with zero values.
type meshBuilder struct {
	*GenericMesh
}

func padVector3(v []*geom.Vector3, n int) []*geom.Vector3 {
	for len(v) < n {
		v = append(v, &geom.Vector3{})
	}
	return v
}

func padVector2(v []*geom.Vector2, n int) []*geom.Vector2 {
	for len(v) < n {
		v = append(v, &geom.Vector2{})
	}
	return v
}

func padVector4(v []*geom.Vector4, n int) []*geom.Vector4 {
	for len(v) < n {
		v = append(v, &geom.Vector4{})
	}
	return v
}

func colorsToVector4(colors []dds3.Color) []*geom.Vector4 {
	v := make([]*geom.Vector4, len(colors))
	for i, c := range colors {
		v[i] = &geom.Vector4{X: float32(c.R) / 255, Y: float32(c.G) / 255, Z: float32(c.B) / 255, W: float32(c.A) / 255}
	}
	return v
}

// addVertices appends a batch and returns the index of its first vertex.
func (b *meshBuilder) addVertices(positions, normals []*geom.Vector3, uv1, uv2 []*geom.Vector2, colors []dds3.Color) int {
	start := len(b.Positions)
	b.Positions = append(b.Positions, positions...)
	if normals != nil {
		b.Normals = append(padVector3(b.Normals, start), normals...)
	}
	if uv1 != nil {
		b.UV1 = append(padVector2(b.UV1, start), uv1...)
	}
	if uv2 != nil {
		b.UV2 = append(padVector2(b.UV2, start), uv2...)
	}
	if colors != nil {
		b.Colors = append(padVector4(b.Colors, start), colorsToVector4(colors)...)
	}
	return start
}

func (b *meshBuilder) addWeights(weights [][]dds3.NodeWeight) {
	b.Weights = append(b.Weights, weights...)
}

func (b *meshBuilder) addTriangles(material int, tris []dds3.Triangle, start int) {
	var g *PrimitiveGroup
	for _, pg := range b.Groups {
		if pg.MaterialIndex == material {
			g = pg
		}
	}
	if g == nil {
		g = &PrimitiveGroup{MaterialIndex: material}
		b.Groups = append(b.Groups, g)
	}
	for _, t := range tris {
		g.Triangles = append(g.Triangles, dds3.Triangle{t[0] + start, t[1] + start, t[2] + start})
	}
}

func (b *meshBuilder) finish() *GenericMesh {
	n := len(b.Positions)
	if b.Normals != nil {
		b.Normals = padVector3(b.Normals, n)
	}
	if b.UV1 != nil {
		b.UV1 = padVector2(b.UV1, n)
	}
	if b.UV2 != nil {
		b.UV2 = padVector2(b.UV2, n)
	}
	if b.Colors != nil {
		b.Colors = padVector4(b.Colors, n)
	}
	return b.GenericMesh
}

// NewGenericMesh flattens a mesh of the node. It returns nil for unsupported mesh types.
func NewGenericMesh(model *dds3.Model, node *dds3.Node, mesh dds3.Mesh, name string) *GenericMesh {
	b := &meshBuilder{&GenericMesh{Name: name, Source: mesh, Node: node, NodeIndex: node.Index}}
	for i, n := range model.Nodes {
		if n == node {
			b.NodeIndex = i
		}
	}
	world := node.WorldTransform()

	switch m := mesh.(type) {
	case *dds3.Mesh1:
		for _, batch := range m.Batches {
			pos, nrm := batch.Transform(world)
			start := b.addVertices(pos, nrm, batch.TexCoords, batch.TexCoords2, batch.Colors)
			b.addTriangles(m.MaterialIndex, batch.Triangles, start)
		}
	case *dds3.Mesh2:
		b.Weights = [][]dds3.NodeWeight{}
		for _, batch := range m.Batches {
			pos, nrm, weights := batch.Transform(model.Nodes)
			start := b.addVertices(pos, nrm, batch.TexCoords, batch.TexCoords2, batch.Colors)
			b.addWeights(weights)
			b.addTriangles(m.MaterialIndex, batch.Triangles, start)
		}
	case *dds3.Mesh4:
		pos, nrm := m.Transform(world)
		start := b.addVertices(pos, nrm, nil, nil, nil)
		b.addTriangles(m.MaterialIndex, m.Triangles, start)
	case *dds3.Mesh5:
		if len(m.NodeBatches) == 0 {
			shapes := m.Transform(world)
			if len(shapes) == 0 {
				return nil
			}
			start := b.addVertices(shapes[0].Positions, shapes[0].Normals, m.TexCoords, m.TexCoords2, nil)
			for j, shape := range shapes[1:] {
				b.BlendShapes = append(b.BlendShapes, &BlendShapeTarget{
					Name:      fmt.Sprintf("%s_shape%d", name, j+1),
					Positions: shape.Positions,
					Normals:   shape.Normals,
				})
			}
			b.addTriangles(m.MaterialIndex, m.Triangles, start)
		} else {
			pos, nrm, weights := m.TransformWeighted(model.Nodes)
			start := b.addVertices(pos, nrm, m.TexCoords, m.TexCoords2, nil)
			b.Weights = weights
			b.addTriangles(m.MaterialIndex, m.Triangles, start)
		}
	case *dds3.Mesh7:
		b.Weights = [][]dds3.NodeWeight{}
		for _, batch := range m.Batches {
			pos, nrm, weights := batch.Transform(model.Nodes)
			b.addVertices(pos, nrm, batch.TexCoords, nil, nil)
			b.addWeights(weights)
		}
		if m.TexCoords2 != nil {
			b.UV2 = m.TexCoords2
		}
		b.addTriangles(m.MaterialIndex, m.Triangles, 0)
	case *dds3.Mesh8:
		for _, batch := range m.Batches {
			pos, nrm := batch.Transform(world)
			b.addVertices(pos, nrm, batch.TexCoords, nil, nil)
		}
		if m.TexCoords2 != nil {
			b.UV2 = m.TexCoords2
		}
		b.addTriangles(m.MaterialIndex, m.Triangles, 0)
	default:
		return nil
	}
	return b.finish()
}

// ConvertMeshes flattens every exported mesh list of the model.
// Meshes are named <node>_mesh<i> with i the index in the mesh list.
func ConvertMeshes(model *dds3.Model) []*GenericMesh {
	var meshes []*GenericMesh
	model.Meshes(func(node *dds3.Node, list *dds3.MeshList) {
		for i, mesh := range list.Meshes {
			name := fmt.Sprintf("%s_mesh%d", NodeName(model, node), i)
			if m := NewGenericMesh(model, node, mesh, name); m != nil {
				meshes = append(meshes, m)
			}
		}
	})
	return meshes
}

// ConvertBlendShapesToMeshes adds a mesh for every blend shape, after its base mesh.
// The base meshes lose their blend shapes.
func ConvertBlendShapesToMeshes(meshes []*GenericMesh) []*GenericMesh {
	var result []*GenericMesh
	for _, m := range meshes {
		result = append(result, m)
		for _, shape := range m.BlendShapes {
			sm := *m
			sm.Name = shape.Name
			sm.Positions = shape.Positions
			sm.Normals = shape.Normals
			sm.BlendShapes = nil
			sm.ShapeOf = m
			result = append(result, &sm)
		}
		m.BlendShapes = nil
	}
	return result
}

// rigidWeights binds every vertex to the mesh node.
func (m *GenericMesh) rigidWeights() [][]dds3.NodeWeight {
	weights := make([][]dds3.NodeWeight, m.VertexCount())
	for i := range weights {
		weights[i] = []dds3.NodeWeight{{NodeIndex: m.NodeIndex, Weight: 1}}
	}
	return weights
}

const mergedMeshName = "merged_mesh"

// MergeMeshes concatenates all meshes except converted blend shapes into one weighted mesh
// with one primitive group per source mesh and material.
func MergeMeshes(meshes []*GenericMesh) []*GenericMesh {
	merged := &meshBuilder{&GenericMesh{Name: mergedMeshName, NodeIndex: -1, Weights: [][]dds3.NodeWeight{}}}
	var sources []*GenericMesh
	var rest []*GenericMesh
	for _, m := range meshes {
		if m.ShapeOf != nil {
			rest = append(rest, m)
		} else {
			sources = append(sources, m)
		}
	}
	if len(sources) == 0 {
		return meshes
	}

	type shapeRange struct {
		start int
		shape *BlendShapeTarget
	}
	var shapes []shapeRange
	for _, m := range sources {
		start := len(merged.Positions)
		merged.Positions = append(merged.Positions, m.Positions...)
		if m.Normals != nil {
			merged.Normals = append(padVector3(merged.Normals, start), m.Normals...)
		}
		if m.UV1 != nil {
			merged.UV1 = append(padVector2(merged.UV1, start), m.UV1...)
		}
		if m.UV2 != nil {
			merged.UV2 = append(padVector2(merged.UV2, start), m.UV2...)
		}
		if m.Colors != nil {
			merged.Colors = append(padVector4(merged.Colors, start), m.Colors...)
		}
		if m.IsRigid() {
			merged.addWeights(m.rigidWeights())
		} else {
			merged.addWeights(m.Weights)
		}
		for _, g := range m.Groups {
			tris := make([]dds3.Triangle, len(g.Triangles))
			for i, t := range g.Triangles {
				tris[i] = dds3.Triangle{t[0] + start, t[1] + start, t[2] + start}
			}
			merged.Groups = append(merged.Groups, &PrimitiveGroup{MaterialIndex: g.MaterialIndex, Triangles: tris})
		}
		for _, s := range m.BlendShapes {
			shapes = append(shapes, shapeRange{start: start, shape: s})
		}
	}
	result := merged.finish()

	for _, s := range shapes {
		target := &BlendShapeTarget{
			Name:      s.shape.Name,
			Positions: append([]*geom.Vector3(nil), result.Positions...),
		}
		copy(target.Positions[s.start:], s.shape.Positions)
		if result.Normals != nil {
			target.Normals = append([]*geom.Vector3(nil), result.Normals...)
			copy(target.Normals[s.start:], s.shape.Normals)
		}
		result.BlendShapes = append(result.BlendShapes, target)
	}
	return append([]*GenericMesh{result}, rest...)
}
