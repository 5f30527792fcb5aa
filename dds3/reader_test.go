package dds3

import (
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestReaderOffsets(t *testing.T) {
	w := &testWriter{}
	w.i32(0, 0)
	base := w.pos()
	p := w.reserve()
	w.i32(0) // null
	w.i32(123)
	w.patch(p, int32(w.pos()-4-base))

	r := newReader(w.Bytes())
	r.skip(8)
	r.pushBase(base)
	off := r.readOffset()
	if off != 16 {
		t.Fatal("offset: ", off)
	}
	if r.readOffset() != 0 {
		t.Error("null offset")
	}
	pos := r.pos
	var v int32
	r.atOffset(off, func() { v = r.readInt32() })
	if v != 123 || r.pos != pos {
		t.Error("atOffset: ", v, r.pos)
	}
	r.popBase()
	if r.base() != 0 {
		t.Error("base: ", r.base())
	}
}

func TestReaderStickyError(t *testing.T) {
	r := newReader([]byte{1, 0})
	if r.readUint16() != 1 {
		t.Error("readUint16")
	}
	if r.readInt32() != 0 {
		t.Error("read after end should return 0")
	}
	if errors.Cause(r.err) != io.ErrUnexpectedEOF {
		t.Fatal("expected EOF: ", r.err)
	}
	r.failf("other")
	if errors.Cause(r.err) != io.ErrUnexpectedEOF {
		t.Error("first error should stick: ", r.err)
	}
}

func TestReaderExpect(t *testing.T) {
	w := &testWriter{}
	w.i16(0, 5)
	r := newReader(w.Bytes())
	r.expectInt16(0, "a")
	if r.err != nil {
		t.Fatal(r.err)
	}
	r.expectInt16(0, "b")
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}

func TestReaderStrings(t *testing.T) {
	w := &testWriter{}
	w.u8(0x82, 0xA0, 'a', 0) // "あa" in Shift-JIS
	w.u8('x', 'y', 0, 'z')
	r := newReader(w.Bytes())
	if s := r.readCString(); s != "あa" {
		t.Error("readCString: ", s)
	}
	if s := r.readFixedString(4); s != "xy" {
		t.Error("readFixedString: ", s)
	}
	if r.err != nil {
		t.Error(r.err)
	}
}

func TestReaderAlign(t *testing.T) {
	r := newReader(make([]byte, 64))
	r.skip(17)
	r.align(16)
	if r.pos != 32 {
		t.Error("align: ", r.pos)
	}
	r.align(16)
	if r.pos != 32 {
		t.Error("aligned position should not move: ", r.pos)
	}
	if align(65, 64) != 128 || align(0, 4) != 0 {
		t.Error("align func")
	}
}

func TestVifTag(t *testing.T) {
	tag := VifTag{Immediate: 0xC123, Count: 3, Command: 0x6D}
	if !tag.IsUnpack() {
		t.Error("IsUnpack")
	}
	if tag.Format() != VifShort || tag.Elements() != 4 {
		t.Error("format: ", tag.Format(), tag.Elements())
	}
	if tag.Address() != 0x123 || !tag.Signed() || !tag.Flag() {
		t.Error("immediate: ", tag.Address(), tag.Signed(), tag.Flag())
	}
	if (VifTag{Command: uint8(VifActMicro)}).IsUnpack() {
		t.Error("ActMicro is not unpack")
	}
}

func TestReadVifPacket(t *testing.T) {
	w := &testWriter{}
	w.vifShorts(1, -1, 2, 3)
	w.vifFloats(3, 1, 2, 3)
	w.vifBytes(4, 1, 2, 3, 0)
	r := newReader(w.Bytes())
	p := r.readVifPacket(VifShort, 1, 3)
	if p.element(0, 0) != -1 || p.element(2, 0) != 3 {
		t.Error("shorts: ", p.ints)
	}
	if r.pos%4 != 0 {
		t.Error("packet should be aligned to 4: ", r.pos)
	}
	v := r.readVifPacket(VifFloat, 3, -1).vector3s()
	if len(v) != 1 || v[0].Z != 3 {
		t.Error("floats: ", v)
	}
	tri := r.readVifPacket(VifByte, 4, 1).triangles(r)
	if tri[0] != (Triangle{1, 2, 3}) {
		t.Error("triangles: ", tri)
	}
	if r.err != nil {
		t.Fatal(r.err)
	}

	r = newReader(w.Bytes())
	p = r.readVifPacket(VifFloat, 3, 3)
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("format mismatch should fail: ", r.err)
	}
	if len(p.vector3s()) != 0 {
		t.Error("failed packet should be empty")
	}
}

func TestReaderCount(t *testing.T) {
	r := newReader(make([]byte, 16))
	if v := r.readVector3s(1); len(v) != 1 || r.err != nil {
		t.Fatal("readVector3s: ", len(v), r.err)
	}
	if v := r.readInt16s(-1); len(v) != 0 {
		t.Error("negative count: ", len(v))
	}
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}

	r = newReader(make([]byte, 16))
	if v := r.readTriangles16(0x7FFF); len(v) != 0 {
		t.Error("count beyond data: ", len(v))
	}
	if errors.Cause(r.err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", r.err)
	}
}
