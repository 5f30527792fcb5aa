package fbx

import (
	"fmt"
	"io"
	"strings"

	"github.com/binzume/dds3conv/geom"
)

type Node struct {
	Name       string
	Attributes AttributeList
	Children   []*Node
}

// NewNode returns a node with the given values as attributes.
// Slices become array attributes.
func NewNode(name string, values ...interface{}) *Node {
	node := &Node{Name: name}
	for _, v := range values {
		node.Attributes = append(node.Attributes, NewAttribute(v))
	}
	return node
}

func (n *Node) AddChild(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node) FindChild(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) FindChildren(name string) []*Node {
	if n == nil {
		return nil
	}
	var r []*Node
	for _, c := range n.Children {
		if c.Name == name {
			r = append(r, c)
		}
	}
	return r
}

func (n *Node) GetChildren() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

func (n *Node) Attr(i int) *Attribute {
	if n == nil {
		return nil
	}
	return n.Attributes.Get(i)
}

func (n *Node) GetInt() int {
	return int(n.Attr(0).ToInt64(0))
}

func (n *Node) GetInt64() int64 {
	return n.Attr(0).ToInt64(0)
}

func (n *Node) GetFloat() float32 {
	return n.Attr(0).ToFloat32(0)
}

func (n *Node) GetString() string {
	return n.Attr(0).ToString()
}

func (n *Node) GetInt32Array() []int32 {
	return n.Attr(0).ToInt32Array()
}

func (n *Node) GetFloat32Array() []float32 {
	return n.Attr(0).ToFloat32Array()
}

func (n *Node) GetVec3Array() []*geom.Vector3 {
	return n.Attr(0).ToVec3Array()
}

func (n *Node) GetVec2Array() []*geom.Vector2 {
	return n.Attr(0).ToVec2Array()
}

type Attribute struct {
	Value     interface{}
	ArraySize uint
}

func NewAttribute(v interface{}) *Attribute {
	var size int
	switch a := v.(type) {
	case int:
		v = int32(a)
	case []int32:
		size = len(a)
	case []int64:
		size = len(a)
	case []float32:
		size = len(a)
	case []float64:
		size = len(a)
	}
	return &Attribute{Value: v, ArraySize: uint(size)}
}

type AttributeList []*Attribute

func (l AttributeList) Get(i int) *Attribute {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func (a *Attribute) ToInt64(defvalue int64) int64 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case byte:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return defvalue
}

func (a *Attribute) ToFloat32(defvalue float32) float32 {
	if a == nil {
		return defvalue
	}
	switch v := a.Value.(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int16:
		return float32(v)
	case int32:
		return float32(v)
	case int64:
		return float32(v)
	case int:
		return float32(v)
	}
	return defvalue
}

func (a *Attribute) ToString() string {
	if a == nil {
		return ""
	}
	if v, ok := a.Value.(string); ok {
		return v
	} else if v, ok := a.Value.([]byte); ok {
		return string(v)
	}
	return ""
}

func (a *Attribute) ToInt32Array() []int32 {
	if a == nil {
		return nil
	}
	switch vv := a.Value.(type) {
	case []int32:
		return vv
	case []int64:
		r := make([]int32, len(vv))
		for i, v := range vv {
			r[i] = int32(v)
		}
		return r
	case []float64:
		r := make([]int32, len(vv))
		for i, v := range vv {
			r[i] = int32(v)
		}
		return r
	}
	return nil
}

func (a *Attribute) ToFloat32Array() []float32 {
	if a == nil {
		return nil
	}
	switch vv := a.Value.(type) {
	case []float32:
		return vv
	case []float64:
		r := make([]float32, len(vv))
		for i, v := range vv {
			r[i] = float32(v)
		}
		return r
	case []int32:
		r := make([]float32, len(vv))
		for i, v := range vv {
			r[i] = float32(v)
		}
		return r
	case []int64:
		r := make([]float32, len(vv))
		for i, v := range vv {
			r[i] = float32(v)
		}
		return r
	}
	return nil
}

func (a *Attribute) ToVec3Array() []*geom.Vector3 {
	v := a.ToFloat32Array()
	var vv []*geom.Vector3
	for i := 0; i+2 < len(v); i += 3 {
		vv = append(vv, &geom.Vector3{X: v[i], Y: v[i+1], Z: v[i+2]})
	}
	return vv
}

func (a *Attribute) ToVec2Array() []*geom.Vector2 {
	v := a.ToFloat32Array()
	var vv []*geom.Vector2
	for i := 0; i+1 < len(v); i += 2 {
		vv = append(vv, &geom.Vector2{X: v[i], Y: v[i+1]})
	}
	return vv
}

func (a *Attribute) IsArray() bool {
	switch a.Value.(type) {
	case []int32, []int64, []float32, []float64:
		return true
	}
	return a.ArraySize > 0
}

func (a *Attribute) String() string {
	switch v := a.Value.(type) {
	case string:
		if name := strings.SplitN(v, "\x00\x01", 2); len(name) == 2 {
			return fmt.Sprintf("%q", name[1]+"::"+name[0])
		}
		return fmt.Sprintf("%q", v)
	case []byte:
		return fmt.Sprintf("\"%v\"", v)
	case bool:
		if v {
			return "T"
		}
		return "F"
	default:
		return fmt.Sprint(v)
	}
}

func (n *Node) Dump(w io.Writer, d int, full bool) {
	fmt.Fprint(w, strings.Repeat("  ", d), n.Name, ":")
	var arrayReplacer = strings.NewReplacer("[", "{ a:", "]", "}", " ", ",")
	for i, p := range n.Attributes {
		if !full && p.ArraySize > 16 {
			fmt.Fprintf(w, " *%d { SKIPPED }", p.ArraySize)
			continue
		}
		s := p.String()
		if p.IsArray() {
			s = fmt.Sprint("*", p.ArraySize, " ", arrayReplacer.Replace(s))
		}
		if i == 0 {
			fmt.Fprint(w, " ", s)
		} else {
			fmt.Fprint(w, ", ", s)
		}
	}
	if len(n.Children) > 0 || len(n.Attributes) == 0 {
		fmt.Fprintln(w, " {")
		for _, c := range n.Children {
			c.Dump(w, d+1, full)
		}
		fmt.Fprintln(w, strings.Repeat("  ", d)+"}")
	} else {
		fmt.Fprintln(w, "")
	}
}
