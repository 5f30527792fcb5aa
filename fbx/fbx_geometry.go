package fbx

import (
	"github.com/binzume/dds3conv/geom"
)

type Geometry struct {
	Obj
	Vertices []*geom.Vector3
	Polygons [][]int
}

type MappingType string

const (
	AllSame         MappingType = "AllSame"
	ByPolygon       MappingType = "ByPolygon"
	ByVertice       MappingType = "ByVertice"
	ByPolygonVertex MappingType = "ByPolygonVertex"
	ByControlPoint  MappingType = "ByControlPoint"
)

type ReferenceType string

const (
	Direct        ReferenceType = "Direct"
	IndexToDirect ReferenceType = "IndexToDirect"
)

type LayerElement struct {
	*Node
	Array     *Node
	IndexNode *Node
}

func vec3ToFloat64Array(v []*geom.Vector3) []float64 {
	r := make([]float64, 0, len(v)*3)
	for _, v := range v {
		r = append(r, float64(v.X), float64(v.Y), float64(v.Z))
	}
	return r
}

func NewGeometry(name string, verts []*geom.Vector3, faces [][]int) *Geometry {
	var indices []int32
	for _, f := range faces {
		for _, i := range f {
			indices = append(indices, int32(i))
		}
		if len(f) > 0 {
			indices[len(indices)-1] = ^indices[len(indices)-1]
		}
	}

	geom := &Geometry{
		Obj: *newObj("Geometry", objectName(name, "Geometry"), "Mesh", []*Node{
			NewNode("GeometryVersion", 124),
			NewNode("Vertices", vec3ToFloat64Array(verts)),
			NewNode("PolygonVertexIndex", indices),
		}),
		Vertices: verts,
		Polygons: faces,
	}
	return geom
}

// NewShape returns a blend shape target holding sparse deltas.
func NewShape(name string, indexes []int32, vertices, normals []*geom.Vector3) *Geometry {
	return &Geometry{
		Obj: *newObj("Geometry", objectName(name, "Geometry"), "Shape", []*Node{
			NewNode("Version", 100),
			NewNode("Indexes", indexes),
			NewNode("Vertices", vec3ToFloat64Array(vertices)),
			NewNode("Normals", vec3ToFloat64Array(normals)),
		}),
		Vertices: vertices,
	}
}

func (g *Geometry) GetVertices() []*geom.Vector3 {
	return g.FindChild("Vertices").GetVec3Array()
}

// GetPolygons returns polygons decoded from PolygonVertexIndex.
func (g *Geometry) GetPolygons() [][]int {
	var faces [][]int
	var face []int
	for _, index := range g.FindChild("PolygonVertexIndex").GetInt32Array() {
		if index < 0 {
			faces = append(faces, append(face, int(^index)))
			face = nil
			continue
		}
		face = append(face, int(index))
	}
	return faces
}

func (g *Geometry) GetDeformers() []*Deformer {
	var r []*Deformer
	for _, o := range g.FindRefs("Deformer") {
		if d, ok := o.(*Deformer); ok {
			r = append(r, d)
		}
	}
	return r
}

func (g *Geometry) layer(index int) *Node {
	for _, l := range g.FindChildren("Layer") {
		if l.GetInt() == index {
			return l
		}
	}
	l := NewNode("Layer", index).AddChild(NewNode("Version", 100))
	g.Children = append(g.Children, l)
	return l
}

// addLayerElement inserts the element before the Layer nodes and registers it in the given layer.
func (g *Geometry) addLayerElement(layer int, element *Node) {
	typedIndex := len(g.FindChildren(element.Name))
	element.Attributes = AttributeList{{Value: int32(typedIndex)}}

	l := g.layer(layer)
	pos := len(g.Children)
	for i, c := range g.Children {
		if c.Name == "Layer" {
			pos = i
			break
		}
	}
	g.Children = append(g.Children[:pos], append([]*Node{element}, g.Children[pos:]...)...)

	l.AddChild(NewNode("LayerElement").AddChild(
		NewNode("Type", element.Name),
		NewNode("TypedIndex", typedIndex),
	))
}

func (g *Geometry) SetLayerElementMaterialIndex(mat []int32, mappingType MappingType) {
	g.addLayerElement(0, NewNode("LayerElementMaterial").AddChild(
		NewNode("Version", 101),
		NewNode("Name", ""),
		NewNode("MappingInformationType", string(mappingType)),
		NewNode("ReferenceInformationType", string(IndexToDirect)),
		NewNode("Materials", mat),
	))
}

func (g *Geometry) SetLayerElementNormal(normals []*geom.Vector3, mappingType MappingType) {
	g.addLayerElement(0, NewNode("LayerElementNormal").AddChild(
		NewNode("Version", 101),
		NewNode("Name", ""),
		NewNode("MappingInformationType", string(mappingType)),
		NewNode("ReferenceInformationType", string(Direct)),
		NewNode("Normals", vec3ToFloat64Array(normals)),
	))
}

func (g *Geometry) SetLayerElementColor(colors []*geom.Vector4, mappingType MappingType) {
	floatArray := make([]float64, 0, len(colors)*4)
	for _, c := range colors {
		floatArray = append(floatArray, float64(c.X), float64(c.Y), float64(c.Z), float64(c.W))
	}
	g.addLayerElement(0, NewNode("LayerElementColor").AddChild(
		NewNode("Version", 101),
		NewNode("Name", ""),
		NewNode("MappingInformationType", string(mappingType)),
		NewNode("ReferenceInformationType", string(Direct)),
		NewNode("Colors", floatArray),
	))
}

// AddLayerElementUV adds a named uv set to the layer.
func (g *Geometry) AddLayerElementUV(layer int, name string, uv []*geom.Vector2, mappingType MappingType) {
	floatArray := make([]float64, 0, len(uv)*2)
	for _, v := range uv {
		floatArray = append(floatArray, float64(v.X), float64(v.Y))
	}
	g.addLayerElement(layer, NewNode("LayerElementUV").AddChild(
		NewNode("Version", 101),
		NewNode("Name", name),
		NewNode("MappingInformationType", string(mappingType)),
		NewNode("ReferenceInformationType", string(Direct)),
		NewNode("UV", floatArray),
	))
}

func (g *Geometry) GetLayerElement(name string, arrayName string, indexName string) *LayerElement {
	node := g.FindChild(name)
	return &LayerElement{node, node.FindChild(arrayName), node.FindChild(indexName)}
}

func (g *Geometry) GetLayerElements(name string, arrayName string, indexName string) []*LayerElement {
	var r []*LayerElement
	for _, node := range g.FindChildren(name) {
		r = append(r, &LayerElement{node, node.FindChild(arrayName), node.FindChild(indexName)})
	}
	return r
}

func (g *Geometry) GetLayerElementUVs() []*LayerElement {
	return g.GetLayerElements("LayerElementUV", "UV", "UVIndex")
}

func (g *Geometry) GetLayerElementMaterial() *LayerElement {
	return g.GetLayerElement("LayerElementMaterial", "Materials", "Materials")
}

func (g *Geometry) GetLayerElementNormal() *LayerElement {
	return g.GetLayerElement("LayerElementNormal", "Normals", "NormalsIndex")
}

func (g *Geometry) GetLayerElementColor() *LayerElement {
	return g.GetLayerElement("LayerElementColor", "Colors", "ColorIndex")
}

// GetLayerElementTypes returns the element types registered in the layer, in order.
func (g *Geometry) GetLayerElementTypes(layer int) []string {
	var types []string
	for _, l := range g.FindChildren("Layer") {
		if l.GetInt() != layer {
			continue
		}
		for _, e := range l.FindChildren("LayerElement") {
			types = append(types, e.FindChild("Type").GetString())
		}
	}
	return types
}

func (e *LayerElement) GetName() string {
	return e.FindChild("Name").GetString()
}

func (e *LayerElement) GetMappingInformationType() MappingType {
	return MappingType(e.FindChild("MappingInformationType").GetString())
}

func (e *LayerElement) GetReferenceInformationType() ReferenceType {
	return ReferenceType(e.FindChild("ReferenceInformationType").GetString())
}

func (e *LayerElement) GetIndexes() []int32 {
	return e.IndexNode.GetInt32Array()
}
