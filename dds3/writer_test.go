package dds3

import (
	"bytes"
	"encoding/binary"
	"math"
)

// testWriter builds little-endian test files.
type testWriter struct {
	bytes.Buffer
}

func (w *testWriter) pos() int {
	return w.Len()
}

func (w *testWriter) u8(v ...uint8) {
	w.Write(v)
}

func (w *testWriter) u16(v ...uint16) {
	for _, x := range v {
		binary.Write(w, binary.LittleEndian, x)
	}
}

func (w *testWriter) i16(v ...int16) {
	for _, x := range v {
		binary.Write(w, binary.LittleEndian, x)
	}
}

func (w *testWriter) u32(v ...uint32) {
	for _, x := range v {
		binary.Write(w, binary.LittleEndian, x)
	}
}

func (w *testWriter) i32(v ...int32) {
	for _, x := range v {
		binary.Write(w, binary.LittleEndian, x)
	}
}

func (w *testWriter) f32(v ...float32) {
	for _, x := range v {
		w.u32(math.Float32bits(x))
	}
}

func (w *testWriter) align(n int) {
	for w.Len()%n != 0 {
		w.WriteByte(0)
	}
}

func (w *testWriter) str(s string) {
	w.WriteString(s)
	w.WriteByte(0)
}

// reserve writes a placeholder int32 and returns its position.
func (w *testWriter) reserve() int {
	p := w.pos()
	w.i32(0)
	return p
}

func (w *testWriter) patch(p int, v int32) {
	binary.LittleEndian.PutUint32(w.Bytes()[p:], uint32(v))
}

func (w *testWriter) patch16(p int, v int16) {
	binary.LittleEndian.PutUint16(w.Bytes()[p:], uint16(v))
}

// patchOffset stores the current position relative to base at p.
func (w *testWriter) patchOffset(p, base int) {
	w.patch(p, int32(w.pos()-base))
}

// resource writes a resource header, the content and patches the file size.
func (w *testWriter) resource(fileType FileType, id Identifier, content func(start int)) {
	start := w.pos()
	w.u8(uint8(fileType), 0)
	w.u16(0)
	size := w.reserve()
	w.u32(uint32(id))
	w.u32(0)
	content(start)
	w.patch(size, int32(w.pos()-start))
}

func (w *testWriter) vifTag(immediate uint16, count uint8, command VifCommand) {
	w.u16(immediate)
	w.u8(count, uint8(command))
}

func unpackCommand(format VifFormat, elements int) VifCommand {
	return VifUnpack | VifCommand(elements-1)<<2 | VifCommand(format)
}

func (w *testWriter) vifFloats(elements int, v ...float32) {
	w.vifTag(0, uint8(len(v)/elements), unpackCommand(VifFloat, elements))
	w.f32(v...)
	w.align(4)
}

func (w *testWriter) vifShorts(elements int, v ...int16) {
	w.vifTag(1<<14, uint8(len(v)/elements), unpackCommand(VifShort, elements))
	w.i16(v...)
	w.align(4)
}

func (w *testWriter) vifBytes(elements int, v ...uint8) {
	w.vifTag(0, uint8(len(v)/elements), unpackCommand(VifByte, elements))
	w.u8(v...)
	w.align(4)
}

// vifStream writes a VIF stream padded to 16 bytes and returns its size in 16 byte units.
func (w *testWriter) vifStream(content func()) int {
	start := w.pos()
	content()
	w.align(16)
	return (w.pos() - start) / 16
}
