package fbx

import (
	"strings"

	"github.com/binzume/dds3conv/geom"
)

// Property is an entry of Properties70.
type Property struct {
	AttributeList
	Type  string
	Label string
	Flag  string
}

func (p *Property) ToFloat32(defvalue float32) float32 {
	return p.Get(0).ToFloat32(defvalue)
}

func (p *Property) ToString() string {
	return p.Get(0).ToString()
}

func (p *Property) ToVector3(x, y, z float32) *geom.Vector3 {
	return &geom.Vector3{X: p.Get(0).ToFloat32(x), Y: p.Get(1).ToFloat32(y), Z: p.Get(2).ToFloat32(z)}
}

type Connection struct {
	Type string
	From int64
	To   int64
	Prop string
}

type Object interface {
	GetNode() *Node
	NodeName() string
	ID() int64
	Name() string
	Kind() string
	GetProperty(name string) *Property
	SetProperty(name string, prop *Property) *Property
	FindRefs(name string) []Object
	AddRef(o Object)
	setID(id int64)
}

type Obj struct {
	*Node
	Template   *Obj
	Refs       []Object
	properties map[string]*Property // lazy initialize
}

func objectName(name, class string) string {
	return name + "\x00\x01" + class
}

func newObj(typ, name, kind string, nodes []*Node) *Obj {
	children := append(nodes, &Node{Name: "Properties70"})
	obj := &Obj{Node: &Node{
		Name:       typ,
		Attributes: AttributeList{{Value: int64(0)}, {Value: name}, {Value: kind}},
		Children:   children,
	}}
	return obj
}

func (o *Obj) GetNode() *Node {
	return o.Node
}

func (o *Obj) NodeName() string {
	return o.Node.Name
}

func (o *Obj) ID() int64 {
	return o.Attr(0).ToInt64(0)
}

func (o *Obj) setID(id int64) {
	o.Attributes[0] = &Attribute{Value: id}
}

// Name returns the object name without the class part.
func (o *Obj) Name() string {
	s := o.Attr(1).ToString()
	if n := strings.SplitN(s, "\x00\x01", 2); len(n) == 2 {
		return n[0]
	}
	if n := strings.SplitN(s, "::", 2); len(n) == 2 {
		return n[1]
	}
	return s
}

func (o *Obj) Kind() string {
	return o.Attr(2).ToString()
}

func (o *Obj) GetProperty(name string) *Property {
	if o.properties == nil {
		o.properties = map[string]*Property{}
		for _, node := range o.FindChild("Properties70").GetChildren() {
			if len(node.Attributes) < 4 {
				continue
			}
			o.properties[node.Attr(0).ToString()] = &Property{
				AttributeList: node.Attributes[4:],
				Type:          node.Attr(1).ToString(),
				Label:         node.Attr(2).ToString(),
				Flag:          node.Attr(3).ToString()}
		}
	}
	if p, ok := o.properties[name]; ok {
		return p
	} else if o.Template != nil {
		return o.Template.GetProperty(name)
	}
	return &Property{}
}

func (o *Obj) SetProperty(name string, prop *Property) *Property {
	if o.properties != nil {
		o.properties[name] = prop
	}
	attrs := AttributeList{
		&Attribute{Value: name},
		&Attribute{Value: prop.Type},
		&Attribute{Value: prop.Label},
		&Attribute{Value: prop.Flag},
	}
	attrs = append(attrs, prop.AttributeList...)
	properties70 := o.FindChild("Properties70")
	for _, node := range properties70.GetChildren() {
		if node.Attr(0).ToString() == name {
			node.Attributes = attrs
			return prop
		}
	}
	properties70.Children = append(properties70.Children, &Node{Name: "P", Attributes: attrs})
	return prop
}

func (o *Obj) SetIntProperty(name string, v int) *Property {
	return o.SetProperty(name, &Property{Type: "int", Label: "Integer", AttributeList: AttributeList{{Value: int32(v)}}})
}

func (o *Obj) SetBoolProperty(name string, v bool) *Property {
	var i int32
	if v {
		i = 1
	}
	return o.SetProperty(name, &Property{Type: "bool", AttributeList: AttributeList{{Value: i}}})
}

func (o *Obj) SetEnumProperty(name string, v int) *Property {
	return o.SetProperty(name, &Property{Type: "enum", AttributeList: AttributeList{{Value: int32(v)}}})
}

func (o *Obj) SetFloatProperty(name string, v float64) *Property {
	return o.SetProperty(name, &Property{Type: "double", Label: "Number", AttributeList: AttributeList{{Value: v}}})
}

func (o *Obj) SetStringProperty(name string, v string) *Property {
	return o.SetProperty(name, &Property{Type: "KString", AttributeList: AttributeList{{Value: v}}})
}

func (o *Obj) SetColorProperty(name string, r, g, b float32) *Property {
	return o.SetProperty(name, &Property{Type: "Color", Flag: "A", AttributeList: AttributeList{
		{Value: float64(r)}, {Value: float64(g)}, {Value: float64(b)}}})
}

func (o *Obj) setVectorProperty(name string, v *geom.Vector3) *Property {
	return o.SetProperty(name, &Property{Type: name, Flag: "A", AttributeList: AttributeList{
		{Value: float64(v.X)}, {Value: float64(v.Y)}, {Value: float64(v.Z)}}})
}

func (o *Obj) FindRefs(typ string) []Object {
	var refs []Object
	for _, o := range o.Refs {
		if o.NodeName() == typ {
			refs = append(refs, o)
		}
	}
	return refs
}

func (o *Obj) AddRef(ref Object) {
	o.Refs = append(o.Refs, ref)
}

func (o *Obj) AddOrReplaceChild(node *Node) bool {
	for i, c := range o.Children {
		if c.Name == node.Name {
			o.Children[i] = node
			return false
		}
	}
	o.Children = append(o.Children, node)
	return true
}
