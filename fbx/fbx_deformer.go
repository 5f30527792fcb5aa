package fbx

import "github.com/binzume/dds3conv/geom"

type Deformer struct {
	Obj
}

type LinkMode string

const (
	LinkModeNormalize LinkMode = "Normalize"
	LinkModeTotalOne  LinkMode = "Total1"
)

func NewSkin(name string) *Deformer {
	return &Deformer{
		Obj: *newObj("Deformer", objectName(name, "Deformer"), "Skin", []*Node{
			NewNode("Version", 101),
			NewNode("Link_DeformAcuracy", float64(50)),
			NewNode("SkinningType", "Linear"),
		}),
	}
}

// NewCluster returns a skin cluster. transform is the mesh bind matrix and transformLink the bone world matrix.
func NewCluster(name string, mode LinkMode, indexes []int32, weights []float64, transform, transformLink *geom.Matrix4) *Deformer {
	return &Deformer{
		Obj: *newObj("Deformer", objectName(name, "SubDeformer"), "Cluster", []*Node{
			NewNode("Version", 100),
			NewNode("UserData", "", ""),
			NewNode("Mode", string(mode)),
			NewNode("Indexes", indexes),
			NewNode("Weights", weights),
			NewNode("Transform", transform.ToFloat64Slice()),
			NewNode("TransformLink", transformLink.ToFloat64Slice()),
		}),
	}
}

func NewBlendShape(name string) *Deformer {
	return &Deformer{
		Obj: *newObj("Deformer", objectName(name, "Deformer"), "BlendShape", []*Node{
			NewNode("Version", 100),
		}),
	}
}

func NewBlendShapeChannel(name string) *Deformer {
	d := &Deformer{
		Obj: *newObj("Deformer", objectName(name, "SubDeformer"), "BlendShapeChannel", []*Node{
			NewNode("Version", 100),
			NewNode("DeformPercent", float64(0)),
			NewNode("FullWeights", []float64{100}),
		}),
	}
	d.SetProperty("DeformPercent", &Property{Type: "Number", Flag: "A", AttributeList: AttributeList{{Value: float64(0)}}})
	return d
}

func (d *Deformer) GetWeights() []float32 {
	return d.FindChild("Weights").GetFloat32Array()
}

func (d *Deformer) GetIndexes() []int32 {
	return d.FindChild("Indexes").GetInt32Array()
}

func (d *Deformer) GetMode() LinkMode {
	return LinkMode(d.FindChild("Mode").GetString())
}

func (d *Deformer) GetTransform() *geom.Matrix4 {
	return float32ArrayToMatrix(d.FindChild("Transform").GetFloat32Array())
}

func (d *Deformer) GetTransformLink() *geom.Matrix4 {
	return float32ArrayToMatrix(d.FindChild("TransformLink").GetFloat32Array())
}

// GetSubDeformers returns clusters of a skin or channels of a blend shape.
func (d *Deformer) GetSubDeformers() []*Deformer {
	var r []*Deformer
	for _, o := range d.FindRefs("Deformer") {
		if sub, ok := o.(*Deformer); ok {
			r = append(r, sub)
		}
	}
	return r
}

func (d *Deformer) GetTarget() *Model {
	nodes := d.FindRefs("Model")
	if len(nodes) == 0 {
		return nil
	}
	m, _ := nodes[0].(*Model)
	return m
}

func (d *Deformer) GetShapes() []*Geometry {
	var shapes []*Geometry
	for _, o := range d.FindRefs("Geometry") {
		if g, ok := o.(*Geometry); ok && g.Kind() == "Shape" {
			shapes = append(shapes, g)
		}
	}
	return shapes
}
