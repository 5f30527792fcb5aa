package fbx

import (
	"io"
	"io/ioutil"
	"os"

	mfbx "github.com/mogaika/fbx"
	"github.com/pkg/errors"
)

const binaryVersion = 7400

// Write encodes the document as binary FBX 7.4.
func Write(w io.Writer, doc *Document) error {
	doc.UpdateDefinitions()

	f := mfbx.NewFBX(binaryVersion)
	for _, n := range doc.RawNode.Children {
		f.Root.AddNodes(toBinaryNode(n))
	}

	// the encoder needs a seekable file.
	tempFile, err := ioutil.TempFile("", "dds3conv.*.fbx")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if err := mfbx.Write(tempFile, f); err != nil {
		return errors.Wrap(err, "fbx encode")
	}
	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, "Unable to seek")
	}
	_, err = io.Copy(w, tempFile)
	return err
}

func toBinaryNode(n *Node) *mfbx.Node {
	node := &mfbx.Node{Name: n.Name}
	for _, a := range n.Attributes {
		node.Properties = append(node.Properties, toBinaryValue(a.Value))
	}
	for _, c := range n.Children {
		node.Nodes = append(node.Nodes, toBinaryNode(c))
	}
	return node
}

// toBinaryValue narrows values to the types the encoder supports.
func toBinaryValue(v interface{}) interface{} {
	switch v := v.(type) {
	case int:
		return int32(v)
	case uint8:
		return int32(v)
	case int16:
		return int32(v)
	case uint16:
		return int32(v)
	case uint32:
		return int64(v)
	case float32:
		return float64(v)
	case []float32:
		r := make([]float64, len(v))
		for i, f := range v {
			r[i] = float64(f)
		}
		return r
	case []int:
		r := make([]int32, len(v))
		for i, n := range v {
			r[i] = int32(n)
		}
		return r
	}
	return v
}
