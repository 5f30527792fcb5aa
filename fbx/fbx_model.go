package fbx

import (
	"math"

	"github.com/binzume/dds3conv/geom"
)

type Model struct {
	Obj
	Parent       *Model
	cachedMatrix *geom.Matrix4
}

func NewModel(name, kind string) *Model {
	model := &Model{
		Obj: *newObj("Model", objectName(name, "Model"), kind, []*Node{
			NewNode("Version", 232),
		}),
	}
	model.AddChild(NewNode("Shading", true), NewNode("Culling", "CullingOff"))
	return model
}

func (m *Model) GetTranslation() *geom.Vector3 {
	return m.GetProperty("Lcl Translation").ToVector3(0, 0, 0)
}

func (m *Model) SetTranslation(v *geom.Vector3) {
	m.setVectorProperty("Lcl Translation", v)
	m.cachedMatrix = nil
}

// GetRotation returns euler angles in degrees.
func (m *Model) GetRotation() *geom.Vector3 {
	return m.GetProperty("Lcl Rotation").ToVector3(0, 0, 0)
}

func (m *Model) SetRotation(v *geom.Vector3) {
	m.setVectorProperty("Lcl Rotation", v)
	m.cachedMatrix = nil
}

func (m *Model) GetScaling() *geom.Vector3 {
	return m.GetProperty("Lcl Scaling").ToVector3(1, 1, 1)
}

func (m *Model) SetScaling(v *geom.Vector3) {
	m.setVectorProperty("Lcl Scaling", v)
	m.cachedMatrix = nil
}

func (m *Model) SetPreferedAngle(v *geom.Vector3) {
	m.SetProperty("PreferedAngleX", &Property{Type: "double", Label: "Number", Flag: "A", AttributeList: AttributeList{{Value: float64(v.X)}}})
	m.SetProperty("PreferedAngleY", &Property{Type: "double", Label: "Number", Flag: "A", AttributeList: AttributeList{{Value: float64(v.Y)}}})
	m.SetProperty("PreferedAngleZ", &Property{Type: "double", Label: "Number", Flag: "A", AttributeList: AttributeList{{Value: float64(v.Z)}}})
}

// UpdateMatrix evaluates T * R * S with the default XYZ euler order (x applied first).
func (m *Model) UpdateMatrix() {
	translation := m.GetTranslation()
	rotation := m.GetRotation().Scale(math.Pi / 180)
	scale := m.GetScaling()
	tr := geom.NewTranslateMatrix4(translation.X, translation.Y, translation.Z)
	rot := geom.NewEulerRotationMatrix4(geom.NewEuler(rotation.X, rotation.Y, rotation.Z, geom.RotationOrderZYX))
	sc := geom.NewScaleMatrix4(scale.X, scale.Y, scale.Z)
	m.cachedMatrix = tr.Mul(rot).Mul(sc)
}

func (m *Model) GetMatrix() *geom.Matrix4 {
	if m.cachedMatrix == nil {
		m.UpdateMatrix()
	}
	return m.cachedMatrix
}

func (m *Model) GetWorldMatrix() *geom.Matrix4 {
	if m.Parent == nil {
		return m.GetMatrix()
	}
	return m.Parent.GetWorldMatrix().Mul(m.GetMatrix())
}

func (m *Model) GetChildModels() []*Model {
	var r []*Model
	for _, o := range m.Refs {
		if c, ok := o.(*Model); ok {
			r = append(r, c)
		}
	}
	return r
}

func (m *Model) GetGeometry() *Geometry {
	for _, o := range m.Refs {
		if g, ok := o.(*Geometry); ok {
			return g
		}
	}
	return nil
}

func (m *Model) GetMaterials() []*Material {
	var r []*Material
	for _, o := range m.Refs {
		if mat, ok := o.(*Material); ok {
			r = append(r, mat)
		}
	}
	return r
}

func (m *Model) GetNodeAttribute() *NodeAttribute {
	for _, o := range m.Refs {
		if a, ok := o.(*NodeAttribute); ok {
			return a
		}
	}
	return nil
}

// NodeAttribute holds the skeleton (LimbNode) attribute of a model.
type NodeAttribute struct {
	Obj
}

func NewSkeletonAttribute(name, kind string) *NodeAttribute {
	return &NodeAttribute{
		Obj: *newObj("NodeAttribute", objectName(name, "NodeAttribute"), kind, []*Node{
			NewNode("TypeFlags", "Skeleton"),
		}),
	}
}

// Pose is a bind pose holding world matrices of nodes.
type Pose struct {
	Obj
}

func NewBindPose(name string) *Pose {
	return &Pose{
		Obj: *newObj("Pose", objectName(name, "Pose"), "BindPose", []*Node{
			NewNode("Type", "BindPose"),
			NewNode("Version", 100),
			NewNode("NbPoseNodes", 0),
		}),
	}
}

func (p *Pose) Add(model *Model, mat *geom.Matrix4) {
	p.AddChild(NewNode("PoseNode").AddChild(
		NewNode("Node", model.ID()),
		NewNode("Matrix", mat.ToFloat64Slice()),
	))
	p.FindChild("NbPoseNodes").Attributes[0] = &Attribute{Value: int32(len(p.FindChildren("PoseNode")))}
}

// NodeIDs returns the ids of models in the pose.
func (p *Pose) NodeIDs() []int64 {
	var ids []int64
	for _, n := range p.FindChildren("PoseNode") {
		ids = append(ids, n.FindChild("Node").GetInt64())
	}
	return ids
}

func (p *Pose) GetMatrix(id int64) *geom.Matrix4 {
	for _, n := range p.FindChildren("PoseNode") {
		if n.FindChild("Node").GetInt64() == id {
			return float32ArrayToMatrix(n.FindChild("Matrix").GetFloat32Array())
		}
	}
	return nil
}

func float32ArrayToMatrix(a []float32) *geom.Matrix4 {
	if len(a) != 16 {
		return geom.NewMatrix4()
	}
	return geom.NewMatrix4FromSlice(a)
}
