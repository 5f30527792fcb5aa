package fbx

func parseConnection(node *Node) *Connection {
	c := &Connection{
		Type: node.Attr(0).ToString(),
		From: node.Attr(1).ToInt64(0),
		To:   node.Attr(2).ToInt64(0),
	}
	if c.Type == "OP" {
		c.Prop = node.Attr(3).ToString()
	}
	return c
}

// BuildDocument builds the object graph from a parsed node tree.
func BuildDocument(root *Node) (*Document, error) {
	doc := &Document{RawNode: root}
	doc.Scene = &Model{Obj: Obj{Node: &Node{Name: "Model", Attributes: AttributeList{{Value: int64(0)}, {Value: objectName("RootNode", "Model")}, {Value: "Null"}}}}}
	doc.Objects = map[int64]Object{0: doc.Scene}

	doc.Creator = root.FindChild("Creator").GetString()
	doc.CreationTime = root.FindChild("CreationTime").GetString()
	if a := root.FindChild("FileId").Attr(0); a != nil {
		doc.FileId, _ = a.Value.([]byte)
	}

	templates := map[string]*Obj{}
	for _, node := range root.FindChild("Definitions").GetChildren() {
		if node.Name != "ObjectType" {
			continue
		}
		templates[node.GetString()] = &Obj{Node: node.FindChild("PropertyTemplate")}
	}
	doc.GlobalSettings = &Obj{Node: root.FindChild("GlobalSettings"), Template: templates["GlobalSettings"]}

	for _, node := range root.FindChild("Objects").GetChildren() {
		base := Obj{Node: node, Template: templates[node.Name]}
		var obj Object
		switch node.Name {
		case "Geometry":
			g := &Geometry{Obj: base}
			g.Vertices = g.GetVertices()
			g.Polygons = g.GetPolygons()
			obj = g
		case "Material":
			m := &Material{base}
			doc.Materials = append(doc.Materials, m)
			obj = m
		case "Model":
			obj = &Model{Obj: base}
		case "Deformer":
			obj = &Deformer{base}
		case "Pose":
			obj = &Pose{base}
		case "NodeAttribute":
			obj = &NodeAttribute{base}
		case "Texture":
			obj = &Texture{base}
		case "Video":
			obj = &Video{base}
		default:
			obj = &base
		}
		doc.Objects[obj.ID()] = obj
		if obj.ID() > doc.lastID {
			doc.lastID = obj.ID()
		}
	}

	for _, node := range root.FindChild("Connections").GetChildren() {
		if node.Name != "C" {
			continue
		}
		c := parseConnection(node)
		doc.Connections = append(doc.Connections, c)
		if c.Type == "OO" || c.Type == "OP" {
			from := doc.Objects[c.From]
			to := doc.Objects[c.To]
			if to != nil && from != nil {
				to.AddRef(from)
				if m, ok := from.(*Model); ok {
					if p, ok := to.(*Model); ok && p != doc.Scene {
						m.Parent = p
					}
				}
			}
		}
	}

	return doc, nil
}
