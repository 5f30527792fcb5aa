package dds3

import (
	"fmt"
	"log"
	"strings"

	"github.com/binzume/dds3conv/geom"
)

type MeshFlags uint32

const (
	MeshFlagSmoothShading    MeshFlags = 1 << 1
	MeshFlagTexCoord         MeshFlags = 1 << 4
	MeshFlagColor            MeshFlags = 1 << 11
	MeshFlagTexCoord2        MeshFlags = 1 << 12
	MeshFlagRequiredForField MeshFlags = 1 << 21
	MeshFlagNormal           MeshFlags = 1 << 23
	MeshFlagFieldTexture     MeshFlags = 1 << 24
	MeshFlagWeights          MeshFlags = 1 << 27
)

var meshFlagNames = []struct {
	flag MeshFlags
	name string
}{
	{MeshFlagSmoothShading, "SmoothShading"},
	{MeshFlagTexCoord, "TexCoord"},
	{MeshFlagColor, "Color"},
	{MeshFlagTexCoord2, "TexCoord2"},
	{MeshFlagRequiredForField, "RequiredForField"},
	{MeshFlagNormal, "Normal"},
	{MeshFlagFieldTexture, "FieldTexture"},
	{MeshFlagWeights, "Weights"},
}

func (f MeshFlags) Has(flag MeshFlags) bool {
	return f&flag == flag
}

func (f MeshFlags) String() string {
	var names []string
	rest := f
	for _, n := range meshFlagNames {
		if f.Has(n.flag) {
			names = append(names, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

type MeshType int

const (
	MeshType1 MeshType = 1
	MeshType2 MeshType = 2
	MeshType3 MeshType = 3
	MeshType4 MeshType = 4
	MeshType5 MeshType = 5
	MeshType7 MeshType = 7
	MeshType8 MeshType = 8
)

// HasWeights reports whether meshes of the type are skinned to several nodes.
func (t MeshType) HasWeights() bool {
	return t == MeshType2 || t == MeshType7
}

// HasMorphers reports whether meshes of the type carry blend shapes.
func (t MeshType) HasMorphers() bool {
	return t == MeshType3 || t == MeshType5
}

type Mesh interface {
	Type() MeshType
	Material() int
	VertexCount() int
	TriangleCount() int
}

// Geometry holds up to three mesh lists.
type Geometry struct {
	MeshLists [3]*MeshList
}

func (g *Geometry) Meshes() *MeshList {
	return g.MeshLists[0]
}

func (g *Geometry) TranslucentMeshes() *MeshList {
	return g.MeshLists[1]
}

func (g *Geometry) MeshList3() *MeshList {
	return g.MeshLists[2]
}

func (r *reader) readGeometry() *Geometry {
	g := &Geometry{}
	for i := 0; i < len(g.MeshLists) && r.err == nil; i++ {
		off := r.readOffset()
		if off == 0 {
			break
		}
		r.atOffset(off, func() { g.MeshLists[i] = r.readMeshList() })
	}
	return g
}

type MeshList struct {
	Field02 int16
	Meshes  []Mesh
}

func (r *reader) readMeshList() *MeshList {
	l := &MeshList{}
	count := int(r.readInt16())
	l.Field02 = r.readInt16()
	for i := 0; i < count && r.err == nil; i++ {
		r.atOffset(r.readOffset(), func() {
			var mesh Mesh
			switch t := MeshType(r.readInt32()); t {
			case MeshType1:
				mesh = r.readMesh1()
			case MeshType2:
				mesh = r.readMesh2()
			case MeshType3:
				log.Println("mesh type 3 is not supported. skipped.")
			case MeshType4:
				mesh = r.readMesh4()
			case MeshType5:
				mesh = r.readMesh5()
			case MeshType7:
				mesh = r.readMesh7()
			case MeshType8:
				mesh = r.readMesh8()
			default:
				r.failf("unknown mesh type %d", t)
			}
			if mesh != nil && r.err == nil {
				l.Meshes = append(l.Meshes, mesh)
			}
		})
	}
	return l
}

// transformRigid transforms positions as points and normals as directions.
func transformRigid(positions, normals []*geom.Vector3, world *geom.Matrix4) ([]*geom.Vector3, []*geom.Vector3) {
	rp := make([]*geom.Vector3, len(positions))
	for i, p := range positions {
		rp[i] = world.ApplyTo(p)
	}
	var rn []*geom.Vector3
	if normals != nil {
		rn = make([]*geom.Vector3, len(normals))
		for i, n := range normals {
			rn[i] = world.ApplyToNormal(n)
		}
	}
	return rp, rn
}

// NodeBatch is the part of a weighted batch influenced by one node.
// Position W is the weight of the node.
type NodeBatch struct {
	NodeIndex int
	Positions []*geom.Vector4
	Normals   []*geom.Vector3
}

// transformWeighted sums weight * (world * position) over the node batches.
// Normals are nil when no batch has them.
func transformWeighted(batches []*NodeBatch, vertexCount int, nodes []*Node) ([]*geom.Vector3, []*geom.Vector3, [][]NodeWeight) {
	positions := make([]*geom.Vector3, vertexCount)
	normals := make([]*geom.Vector3, vertexCount)
	weights := make([][]NodeWeight, vertexCount)
	for i := range positions {
		positions[i] = &geom.Vector3{}
		normals[i] = &geom.Vector3{}
		weights[i] = make([]NodeWeight, len(batches))
	}
	hasNormals := false
	for b, batch := range batches {
		world := geom.NewMatrix4()
		if batch.NodeIndex >= 0 && batch.NodeIndex < len(nodes) {
			world = nodes[batch.NodeIndex].WorldTransform()
		}
		for i, p := range batch.Positions {
			if i >= vertexCount {
				break
			}
			weighted := world.Scaled(p.W)
			positions[i] = positions[i].Add(weighted.ApplyTo(p.XYZ()))
			if i < len(batch.Normals) {
				normals[i] = normals[i].Add(weighted.ApplyToNormal(batch.Normals[i]))
				hasNormals = true
			}
			weights[i][b] = NodeWeight{NodeIndex: batch.NodeIndex, Weight: p.W}
		}
	}
	if !hasNormals {
		normals = nil
	}
	return positions, normals, weights
}
