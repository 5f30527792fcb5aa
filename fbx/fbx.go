package fbx

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const binaryMagic = "Kaydara FBX Binary  "

func Load(path string) (*Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// Parse reads a binary or ASCII FBX document.
func Parse(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	var root *Node
	var err error
	if magic, _ := br.Peek(len(binaryMagic)); string(magic) == binaryMagic {
		p := binaryParser{r: &positionReader{r: br}}
		root, err = p.Parse()
	} else {
		p := textParser{r: br}
		root, err = p.Parse()
	}
	if err != nil {
		return nil, err
	}
	return BuildDocument(root)
}

// Save writes the document as binary FBX, or ASCII FBX when ascii is set.
func Save(doc *Document, path string, ascii bool) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	if ascii {
		return Dump(w, doc)
	}
	return Write(w, doc)
}

// Dump writes the document as ASCII FBX.
func Dump(w io.Writer, doc *Document) error {
	doc.UpdateDefinitions()
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "; FBX 7.4.0 project file")
	fmt.Fprintln(bw, "; Generator: https://github.com/binzume/dds3conv")
	fmt.Fprintln(bw, "; -----------------------------------------------")
	for _, n := range doc.RawNode.Children {
		if n.Name != "FileId" {
			n.Dump(bw, 0, true)
		}
	}
	return bw.Flush()
}
