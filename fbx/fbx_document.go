package fbx

import (
	"sort"
	"time"

	"github.com/binzume/dds3conv/geom"
)

const (
	DefaultCreator = "dds3conv"
	firstObjectID  = 1000000
)

type Document struct {
	FileId       []byte
	Creator      string
	CreationTime string

	GlobalSettings *Obj
	Objects        map[int64]Object
	Scene          *Model

	Materials   []*Material
	Connections []*Connection

	RawNode *Node
	lastID  int64
}

// GlobalSettings describes the scene axis system and unit.
type GlobalSettings struct {
	UpAxis, UpAxisSign       int
	FrontAxis, FrontAxisSign int
	CoordAxis, CoordAxisSign int
	UnitScaleFactor          float64 // centimeters per unit
}

// DirectXAxisSystem is Y-up, left-handed, in meters.
var DirectXAxisSystem = &GlobalSettings{
	UpAxis: 1, UpAxisSign: 1,
	FrontAxis: 2, FrontAxisSign: 1,
	CoordAxis: 0, CoordAxisSign: -1,
	UnitScaleFactor: 100,
}

func newDocumentNode() *Node {
	return &Node{Name: "_FBX_ROOT"}
}

// NewDocument returns an empty scene with the given global settings (DirectXAxisSystem if nil).
func NewDocument(settings *GlobalSettings) *Document {
	if settings == nil {
		settings = DirectXAxisSystem
	}
	now := time.Now()
	doc := &Document{
		FileId:       []byte{0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2, 0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1},
		Creator:      DefaultCreator,
		CreationTime: now.Format("2006-01-02 15:04:05:000"),
		Objects:      map[int64]Object{},
		RawNode:      newDocumentNode(),
		lastID:       firstObjectID,
	}
	doc.Scene = &Model{Obj: Obj{Node: &Node{Name: "Model", Attributes: AttributeList{{Value: int64(0)}, {Value: objectName("RootNode", "Model")}, {Value: "Null"}}}}}
	doc.Objects[0] = doc.Scene

	gs := &Obj{Node: NewNode("GlobalSettings").AddChild(NewNode("Version", 1000), &Node{Name: "Properties70"})}
	gs.SetIntProperty("UpAxis", settings.UpAxis)
	gs.SetIntProperty("UpAxisSign", settings.UpAxisSign)
	gs.SetIntProperty("FrontAxis", settings.FrontAxis)
	gs.SetIntProperty("FrontAxisSign", settings.FrontAxisSign)
	gs.SetIntProperty("CoordAxis", settings.CoordAxis)
	gs.SetIntProperty("CoordAxisSign", settings.CoordAxisSign)
	gs.SetIntProperty("OriginalUpAxis", settings.UpAxis)
	gs.SetIntProperty("OriginalUpAxisSign", settings.UpAxisSign)
	gs.SetFloatProperty("UnitScaleFactor", settings.UnitScaleFactor)
	gs.SetFloatProperty("OriginalUnitScaleFactor", settings.UnitScaleFactor)
	gs.SetProperty("AmbientColor", &Property{Type: "ColorRGB", Label: "Color", AttributeList: AttributeList{{Value: float64(0)}, {Value: float64(0)}, {Value: float64(0)}}})
	gs.SetStringProperty("DefaultCamera", "Producer Perspective")
	doc.GlobalSettings = gs

	doc.RawNode.AddChild(
		NewNode("FBXHeaderExtension").AddChild(
			NewNode("FBXHeaderVersion", 1003),
			NewNode("FBXVersion", 7400),
			NewNode("EncryptionType", 0),
			NewNode("CreationTimeStamp").AddChild(
				NewNode("Version", 1000),
				NewNode("Year", now.Year()),
				NewNode("Month", int(now.Month())),
				NewNode("Day", now.Day()),
				NewNode("Hour", now.Hour()),
				NewNode("Minute", now.Minute()),
				NewNode("Second", now.Second()),
				NewNode("Millisecond", 0),
			),
			NewNode("Creator", doc.Creator),
		),
		NewNode("FileId", doc.FileId),
		NewNode("CreationTime", doc.CreationTime),
		NewNode("Creator", doc.Creator),
		gs.Node,
		NewNode("Documents").AddChild(
			NewNode("Count", 1),
			NewNode("Document", int64(firstObjectID), "Scene", "Scene").AddChild(
				NewNode("RootNode", int64(0)),
			),
		),
		NewNode("References"),
		NewNode("Definitions"),
		NewNode("Objects"),
		NewNode("Connections"),
		NewNode("Takes").AddChild(NewNode("Current", "")),
	)
	return doc
}

func (doc *Document) GenerateID() int64 {
	doc.lastID++
	return doc.lastID
}

// AddObject assigns an id to the object and registers it.
func (doc *Document) AddObject(o Object) Object {
	if o.ID() == 0 {
		o.setID(doc.GenerateID())
	}
	doc.Objects[o.ID()] = o
	if m, ok := o.(*Material); ok {
		doc.Materials = append(doc.Materials, m)
	}
	objects := doc.RawNode.FindChild("Objects")
	objects.Children = append(objects.Children, o.GetNode())
	return o
}

// AddConnection connects child to parent (OO).
func (doc *Document) AddConnection(parent, child Object) {
	doc.addConnection(&Connection{Type: "OO", From: child.ID(), To: parent.ID()})
	parent.AddRef(child)
	if m, ok := child.(*Model); ok {
		if p, ok := parent.(*Model); ok && p != doc.Scene {
			m.Parent = p
		}
	}
}

// AddPropertyConnection connects child to a property of parent (OP).
func (doc *Document) AddPropertyConnection(parent, child Object, prop string) {
	doc.addConnection(&Connection{Type: "OP", From: child.ID(), To: parent.ID(), Prop: prop})
	parent.AddRef(child)
}

func (doc *Document) addConnection(c *Connection) {
	doc.Connections = append(doc.Connections, c)
	node := NewNode("C", c.Type, c.From, c.To)
	if c.Type == "OP" {
		node.Attributes = append(node.Attributes, &Attribute{Value: c.Prop})
	}
	connections := doc.RawNode.FindChild("Connections")
	connections.Children = append(connections.Children, node)
}

var propertyTemplates = map[string]func() *Node{
	"Model": func() *Node {
		t := &Obj{Node: NewNode("PropertyTemplate", "FbxNode").AddChild(&Node{Name: "Properties70"})}
		t.SetEnumProperty("QuaternionInterpolate", 0)
		t.setVectorProperty("Lcl Translation", &geom.Vector3{})
		t.setVectorProperty("Lcl Rotation", &geom.Vector3{})
		t.setVectorProperty("Lcl Scaling", &geom.Vector3{X: 1, Y: 1, Z: 1})
		t.SetIntProperty("DefaultAttributeIndex", -1)
		t.SetEnumProperty("InheritType", 0)
		return t.Node
	},
	"Material": func() *Node {
		t := &Obj{Node: NewNode("PropertyTemplate", "FbxSurfacePhong").AddChild(&Node{Name: "Properties70"})}
		t.SetStringProperty("ShadingModel", "Phong")
		t.SetColorProperty("DiffuseColor", 0.8, 0.8, 0.8)
		t.SetColorProperty("AmbientColor", 0.2, 0.2, 0.2)
		t.SetColorProperty("SpecularColor", 0.2, 0.2, 0.2)
		return t.Node
	},
	"Texture": func() *Node {
		t := &Obj{Node: NewNode("PropertyTemplate", "FbxFileTexture").AddChild(&Node{Name: "Properties70"})}
		t.SetEnumProperty("TextureTypeUse", 0)
		t.SetEnumProperty("WrapModeU", 0)
		t.SetEnumProperty("WrapModeV", 0)
		t.SetBoolProperty("UseMaterial", false)
		return t.Node
	},
	"Geometry": func() *Node {
		t := &Obj{Node: NewNode("PropertyTemplate", "FbxMesh").AddChild(&Node{Name: "Properties70"})}
		t.SetBoolProperty("Primary Visibility", true)
		t.SetBoolProperty("Casts Shadows", true)
		t.SetBoolProperty("Receive Shadows", true)
		return t.Node
	},
}

// UpdateDefinitions rebuilds the Definitions section from the registered objects.
func (doc *Document) UpdateDefinitions() {
	definitions := doc.RawNode.FindChild("Definitions")
	if definitions == nil {
		return
	}
	counts := map[string]int{"GlobalSettings": 1}
	for _, o := range doc.RawNode.FindChild("Objects").GetChildren() {
		counts[o.Name]++
	}
	var names []string
	total := 0
	for name, count := range counts {
		names = append(names, name)
		total += count
	}
	sort.Strings(names)

	definitions.Children = []*Node{NewNode("Version", 100), NewNode("Count", total)}
	for _, name := range names {
		objectType := NewNode("ObjectType", name).AddChild(NewNode("Count", counts[name]))
		if t, ok := propertyTemplates[name]; ok {
			objectType.AddChild(t())
		}
		definitions.AddChild(objectType)
	}
}
