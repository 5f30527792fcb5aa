package dds3

import (
	"testing"

	"github.com/binzume/dds3conv/geom"
	"github.com/pkg/errors"
)

const eps = 0.00001

func testNodes() []*Node {
	root := &Node{Index: 0, ParentIndex: -1,
		Rotation: &geom.Vector3{}, Position: &geom.Vector3{}, Scale: &geom.Vector3{X: 1, Y: 1, Z: 1}}
	child := &Node{Index: 1, ParentIndex: 0, Parent: root,
		Rotation: &geom.Vector3{}, Position: &geom.Vector3{Y: 10}, Scale: &geom.Vector3{X: 1, Y: 1, Z: 1}}
	return []*Node{root, child}
}

func checkVector3(t *testing.T, name string, v *geom.Vector3, x, y, z float32) {
	t.Helper()
	if v.Sub(&geom.Vector3{X: x, Y: y, Z: z}).Len() > eps {
		t.Errorf("%s: %v, expected (%v, %v, %v)", name, *v, x, y, z)
	}
}

func TestMeshFlagsString(t *testing.T) {
	if s := (MeshFlagTexCoord | MeshFlagNormal).String(); s != "TexCoord|Normal" {
		t.Error(s)
	}
	if s := (MeshFlagWeights | 1).String(); s != "Weights|0x1" {
		t.Error(s)
	}
	if s := MeshFlags(0).String(); s != "" {
		t.Error(s)
	}
	if !MeshType7.HasWeights() || MeshType8.HasWeights() || !MeshType5.HasMorphers() {
		t.Error("mesh type attributes")
	}
}

func TestReadMesh1(t *testing.T) {
	w := &testWriter{}
	w.i16(0) // size
	w.i16(3)
	off := w.reserve()
	w.align(16)
	w.patchOffset(off, 0)
	size := w.vifStream(func() {
		w.vifShorts(4, 1, 3, int16(MeshFlagTexCoord), 0)
		w.vifBytes(4, 0, 1, 2, 0)
		w.vifFloats(3, 0, 0, 0, 1, 0, 0, 0, 1, 0)
		w.vifFloats(2, 0, 0, 1, 0, 0, 1)
		w.vifTag(0x0C, 0, VifActMicro)

		w.vifShorts(4, 1, 3, int16(MeshFlagColor), int16(MeshFlagNormal>>16))
		w.vifBytes(4, 2, 1, 0, 0)
		w.vifFloats(3, 0, 0, 1, 1, 0, 1, 0, 1, 1)
		w.vifFloats(3, 0, 0, 1, 0, 0, 1, 0, 0, 1)
		w.vifBytes(4, 255, 0, 0, 128, 0, 255, 0, 128, 0, 0, 255, 128)
		w.vifTag(0x10, 0, VifActMicro)
	})
	w.patch16(0, int16(size))

	r := newReader(w.Bytes())
	m := r.readMesh1()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.pos != 16 {
		t.Error("position after header: ", r.pos)
	}
	if m.Material() != 3 || len(m.Batches) != 2 || m.VertexCount() != 6 || m.TriangleCount() != 2 {
		t.Fatal("mesh: ", m.Material(), len(m.Batches), m.VertexCount(), m.TriangleCount())
	}
	b0, b1 := m.Batches[0], m.Batches[1]
	if b0.Triangles[0] != (Triangle{0, 1, 2}) || b0.RenderMode != RenderMode1 {
		t.Error("batch 0: ", b0.Triangles, b0.RenderMode)
	}
	if b0.Normals != nil || len(b0.TexCoords) != 3 || b0.TexCoords[2].Y != 1 {
		t.Error("batch 0 attributes: ", b0.Normals, b0.TexCoords)
	}
	if !b1.Flags.Has(MeshFlagNormal) || len(b1.Normals) != 3 || b1.RenderMode != RenderMode2 {
		t.Error("batch 1: ", b1.Flags, b1.RenderMode)
	}
	if b1.Colors[1] != (Color{0, 255, 0, 128}) {
		t.Error("batch 1 colors: ", b1.Colors)
	}

	pos, nrm := b1.Transform(geom.NewTranslateMatrix4(0, 0, 5))
	checkVector3(t, "position", pos[2], 0, 1, 6)
	checkVector3(t, "normal", nrm[2], 0, 0, 1)
}

func TestReadMesh1BadTriangle(t *testing.T) {
	w := &testWriter{}
	w.i16(0)
	w.i16(0)
	off := w.reserve()
	w.align(16)
	w.patchOffset(off, 0)
	size := w.vifStream(func() {
		w.vifShorts(4, 1, 3, 0, 0)
		w.vifBytes(4, 0, 1, 2, 1)
		w.vifFloats(3, 0, 0, 0, 1, 0, 0, 0, 1, 0)
		w.vifTag(0x0C, 0, VifActMicro)
	})
	w.patch16(0, int16(size))

	r := newReader(w.Bytes())
	r.readMesh1()
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}

func TestReadMesh2(t *testing.T) {
	w := &testWriter{}
	w.i16(0)
	w.i16(1)
	off := w.reserve()
	w.i16(2, 0)
	w.i16(0, 1)
	w.align(16)
	w.patchOffset(off, 0)
	size := w.vifStream(func() {
		w.vifShorts(4, 0, 2, 0, 0)
		w.vifFloats(4, 1, 0, 0, 0.5, 0, 2, 0, 1)
		w.vifTag(0x0C, 0, VifActMicro)
		w.vifShorts(4, 1, 2, int16(MeshFlagTexCoord), 0)
		w.vifBytes(4, 0, 1, 0, 0)
		w.vifFloats(4, 1, 0, 0, 0.5, 0, 0, 0, 0)
		w.vifFloats(2, 0, 0, 1, 1)
		w.vifTag(0x0C, 0, VifActMicro)
	})
	w.patch16(0, int16(size))

	r := newReader(w.Bytes())
	m := r.readMesh2()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if len(m.UsedNodes) != 2 || len(m.Batches) != 1 || m.VertexCount() != 2 || m.TriangleCount() != 1 {
		t.Fatal("mesh: ", m.UsedNodes, len(m.Batches), m.VertexCount(), m.TriangleCount())
	}
	b := m.Batches[0]
	if len(b.TexCoords) != 2 || b.NodeBatches[1].NodeIndex != 1 {
		t.Error("batch: ", b.TexCoords, b.NodeBatches[1].NodeIndex)
	}
	pos, nrm, weights := b.Transform(testNodes())
	checkVector3(t, "vertex 0", pos[0], 1, 5, 0)
	checkVector3(t, "vertex 1", pos[1], 0, 2, 0)
	if nrm != nil {
		t.Error("normals should be nil")
	}
	if weights[0][1] != (NodeWeight{NodeIndex: 1, Weight: 0.5}) || weights[1][0].Weight != 1 {
		t.Error("weights: ", weights)
	}
}

func TestReadMesh5(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 2, 2, 2)
	w.i32(0)
	w.i16(1, 3)
	w.u32(uint32(MeshFlagTexCoord))
	w.i16(0)
	w.align(16)
	w.u16(0, 1, 2)
	w.align(16)
	w.f32(0, 0, 0, 1, 0, 0, 0, 1, 0)
	w.align(16)
	w.f32(0, 0, 1, 0, 0, 1, 0, 0, 1)
	w.align(16)
	w.f32(0, 0, 1, 0, 0, 0, 0, 0, 0)
	w.align(16)
	w.f32(0, 1, 0, 0, 0, 0, 0, 0, 0)
	w.align(16)
	w.f32(0, 0, 1, 0, 0, 1)

	r := newReader(w.Bytes())
	m := r.readMesh5()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.pos != w.Len() {
		t.Error("end position: ", r.pos, w.Len())
	}
	if m.Material() != 2 || len(m.BlendShapes) != 2 || m.VertexCount() != 3 || len(m.TexCoords) != 3 || m.TexCoords2 != nil {
		t.Fatal("mesh: ", m.Material(), len(m.BlendShapes), m.VertexCount())
	}
	shapes := m.Transform(geom.NewMatrix4())
	checkVector3(t, "base", shapes[0].Positions[1], 1, 0, 0)
	checkVector3(t, "shape position", shapes[1].Positions[0], 0, 0, 1)
	checkVector3(t, "shape normal", shapes[1].Normals[0], 0, 0.70710677, 0.70710677)
	checkVector3(t, "unchanged normal", shapes[1].Normals[1], 0, 0, 1)
}

func TestReadMesh5Weighted(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 1, 0, 1)
	w.i32(0)
	w.i16(1, 2)
	w.u32(0)
	w.i16(2, 0, 1)
	w.align(16)
	w.u16(0, 1, 0)
	w.align(16)
	w.f32(1, 0, 0, 1, 0, 0, 0, 0.5)
	w.f32(0, 0, 1, 0, 0, 1)
	w.align(16)
	w.f32(0, 0, 0, 0, 0, 0, 0, 0.5)
	w.f32(0, 0, 1, 0, 0, 1)
	w.align(16)

	r := newReader(w.Bytes())
	m := r.readMesh5()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if len(m.BlendShapes) != 0 || len(m.NodeBatches) != 2 || m.VertexCount() != 2 {
		t.Fatal("mesh: ", len(m.BlendShapes), len(m.NodeBatches), m.VertexCount())
	}
	if m.NodeBatches[1].NodeIndex != 1 {
		t.Error("node index: ", m.NodeBatches[1].NodeIndex)
	}
	pos, nrm, weights := m.TransformWeighted(testNodes())
	checkVector3(t, "vertex 0", pos[0], 1, 0, 0)
	checkVector3(t, "vertex 1", pos[1], 0, 5, 0)
	if nrm == nil {
		t.Fatal("normals")
	}
	checkVector3(t, "normal 1", nrm[1], 0, 0, 1)
	if weights[0][0] != (NodeWeight{NodeIndex: 0, Weight: 1}) || weights[1][1] != (NodeWeight{NodeIndex: 1, Weight: 0.5}) {
		t.Error("weights: ", weights)
	}
}

func TestReadMesh5BadCount(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 1, 0, 1)
	w.i32(0)
	w.u16(0xFFFF, 3)
	w.u32(0)
	w.i16(0)
	w.align(64)

	r := newReader(w.Bytes())
	r.readMesh5()
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}

func TestReadMesh7(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 4)
	w.i32(0, 0)
	w.i16(1, 2)
	w.u32(uint32(MeshFlagWeights | MeshFlagTexCoord2))
	w.i16(2, 0, 1)
	w.align(16)
	w.u16(0, 1, 1)
	w.align(16)
	w.vifShorts(2, 1, 2)
	w.vifFloats(4, 1, 0, 0, 0.5, 0, 2, 0, 1)
	w.vifFloats(3, 0, 0, 1, 0, 0, 1)
	w.vifTag(0, 0, VifActMicro)
	w.vifFloats(4, 1, 0, 0, 0.5, 0, 0, 0, 0)
	w.vifFloats(3, 0, 0, 1, 0, 0, 1)
	w.vifTag(0, 0, VifCntMicro)
	w.vifFloats(2, 0, 0, 1, 1)
	w.vifTag(0, 0, VifCntMicro)
	w.vifTag(0, 0, VifFlushEnd)
	w.align(16)
	w.f32(0.5, 0.5, 0.25, 0.25)

	r := newReader(w.Bytes())
	m := r.readMesh7()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if m.Material() != 4 || m.VertexCount() != 2 || m.TriangleCount() != 1 || len(m.TexCoords2) != 2 {
		t.Fatal("mesh: ", m.Material(), m.VertexCount(), m.TriangleCount(), len(m.TexCoords2))
	}
	if used := m.UsedNodes(); len(used) != 2 || used[1] != 1 {
		t.Error("used nodes: ", used)
	}
	pos, nrm, _ := m.Batches[0].Transform(testNodes())
	checkVector3(t, "vertex 0", pos[0], 1, 5, 0)
	checkVector3(t, "vertex 1", pos[1], 0, 2, 0)
	checkVector3(t, "normal 0", nrm[0], 0, 0, 1)
}

func TestReadMesh7NodeCountMismatch(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 0)
	w.i32(0, 0)
	w.i16(0, 1)
	w.u32(0)
	w.i16(2, 0, 1)
	w.align(16)
	w.vifShorts(2, 0, 1)
	r := newReader(w.Bytes())
	r.readMesh7()
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}

func TestReadMesh8(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 1)
	w.i32(0, 0)
	w.i16(1, 3)
	w.u32(uint32(MeshFlagNormal))
	w.align(16)
	w.u16(0, 1, 2)
	w.align(16)
	w.vifShorts(2, 2, 0)
	w.vifFloats(3, 0, 0, 0, 1, 0, 0)
	w.vifFloats(3, 0, 0, 1, 0, 0, 1)
	w.vifFloats(2, 0, 0, 1, 0)
	w.vifTag(0, 0, VifActMicro)
	w.vifTag(0, 0, VifFlushEnd)
	w.align(16)
	w.vifShorts(2, 1, 0)
	w.vifFloats(3, 0, 1, 0)
	w.vifFloats(3, 0, 0, 1)
	w.vifFloats(2, 0, 1)
	w.vifTag(0, 0, VifActMicro)
	w.vifTag(0, 0, VifFlushEnd)
	w.align(16)

	r := newReader(w.Bytes())
	m := r.readMesh8()
	if r.err != nil {
		t.Fatal(r.err)
	}
	if len(m.Batches) != 2 || m.VertexCount() != 3 || m.TexCoords2 != nil {
		t.Fatal("mesh: ", len(m.Batches), m.VertexCount())
	}
	pos, _ := m.Batches[1].Transform(geom.NewScaleMatrix4(2, 2, 2))
	checkVector3(t, "position", pos[0], 0, 2, 0)
}

func TestReadMesh8BadHeader(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 1)
	w.i32(0, 0)
	w.i16(0, 1)
	w.u32(0)
	w.align(16)
	w.vifShorts(2, 1, 1)
	r := newReader(w.Bytes())
	r.readMesh8()
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}

func TestReadMeshListUnknownType(t *testing.T) {
	w := &testWriter{}
	w.i16(1, 0)
	off := w.reserve()
	w.patchOffset(off, 0)
	w.i32(6)
	r := newReader(w.Bytes())
	r.readMeshList()
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}
