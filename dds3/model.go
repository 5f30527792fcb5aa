package dds3

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Model is an MD00 resource.
type Model struct {
	Header           *ResourceHeader
	Nodes            []*Node
	Materials        []*Material
	MorpherMeshCount int
	Extensions       []*ModelExtension
}

// ModelExtension is an extension kept as raw bytes.
type ModelExtension struct {
	ID   uint32
	Data []byte
}

const extensionNodeName = 0x4D4E444E // NDNM

// LoadModel reads a .MB file.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseModel(f)
}

func ParseModel(r io.Reader) (*Model, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := newReader(b)
	m := p.readModel()
	if p.err != nil {
		return nil, errors.Wrap(p.err, "model")
	}
	return m, nil
}

func (r *reader) readModel() *Model {
	m := &Model{}
	m.Header = r.readResource(IdentifierModel, false, func(h *ResourceHeader) {
		r.readInt32() // relocation table offset
		r.readInt32() // relocation table size
		r.readUint32()
		r.readUint32()
		r.pushBase(r.pos)
		defer r.popBase()

		r.atOffset(r.readOffset(), func() {
			count := int(r.readInt32())
			r.align(16)
			for i := 0; i < count && r.err == nil; i++ {
				m.Nodes = append(m.Nodes, r.readNode())
				if r.err != nil {
					r.err = errors.Wrapf(r.err, "node %d", i)
				}
			}
		})
		r.atOffset(r.readOffset(), func() {
			count := int(r.readInt32())
			for i := 0; i < count && r.err == nil; i++ {
				m.Materials = append(m.Materials, r.readMaterial())
				if r.err != nil {
					r.err = errors.Wrapf(r.err, "material %d", i)
				}
			}
		})
		m.MorpherMeshCount = int(r.readInt32())
		r.atOffset(r.readOffset(), func() { r.readModelExtensions(m) })
	})
	m.linkNodes()
	return m
}

func (r *reader) readModelExtensions(m *Model) {
	for r.err == nil {
		start := r.pos
		id := r.readUint32()
		size := int(r.readInt32())
		if id == 0 {
			break
		}
		if size < 8 {
			r.failf("extension size %d", size)
			return
		}
		if id == extensionNodeName {
			for range m.Nodes {
				name := r.readCString()
				r.align(4)
				index := int(r.readInt32())
				if index < 0 || index >= len(m.Nodes) {
					r.failf("node name %q refers node %d", name, index)
					return
				}
				m.Nodes[index].Name = name
			}
		} else {
			m.Extensions = append(m.Extensions, &ModelExtension{ID: id, Data: append([]byte(nil), r.bytes(size-8)...)})
		}
		r.seek(start + size)
	}
}

func (m *Model) linkNodes() {
	for _, n := range m.Nodes {
		n.Parent = nil
		if n.ParentIndex >= 0 && n.ParentIndex < len(m.Nodes) {
			n.Parent = m.Nodes[n.ParentIndex]
		}
	}
}

// Meshes calls f for every exportable mesh list of every node.
func (m *Model) Meshes(f func(node *Node, list *MeshList)) {
	for _, n := range m.Nodes {
		if n.Geometry != nil {
			for _, l := range []*MeshList{n.Geometry.Meshes(), n.Geometry.TranslucentMeshes()} {
				if l != nil {
					f(n, l)
				}
			}
		}
		for _, l := range []*MeshList{n.DeprecatedMeshList, n.DeprecatedMeshList2} {
			if l != nil {
				f(n, l)
			}
		}
	}
}
