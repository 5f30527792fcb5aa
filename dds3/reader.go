package dds3

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/binzume/dds3conv/geom"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// reader reads little-endian data from an in-memory file.
// Offsets stored in the data are relative to the innermost base offset.
// The first error sticks; reads after it return zero values.
type reader struct {
	buf   []byte
	pos   int
	bases []int
	err   error
}

func newReader(b []byte) *reader {
	return &reader{buf: b}
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) failf(format string, args ...interface{}) {
	r.fail(errors.Wrapf(ErrUnexpectedData, format+" at 0x%x", append(args, r.pos)...))
}

func (r *reader) len() int {
	return len(r.buf)
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil || n < 0 || r.pos+n > len(r.buf) {
		r.fail(errors.Wrapf(io.ErrUnexpectedEOF, "read %d bytes at 0x%x", n, r.pos))
		r.pos = len(r.buf)
		return make([]byte, n)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) seek(pos int) {
	if pos < 0 || pos > len(r.buf) {
		r.fail(errors.Wrapf(io.ErrUnexpectedEOF, "seek to 0x%x", pos))
		return
	}
	r.pos = pos
}

func (r *reader) skip(n int) {
	r.seek(r.pos + n)
}

func align(v, n int) int {
	return (v + n - 1) / n * n
}

func (r *reader) align(n int) {
	r.seek(align(r.pos, n))
}

func (r *reader) base() int {
	if len(r.bases) == 0 {
		return 0
	}
	return r.bases[len(r.bases)-1]
}

func (r *reader) pushBase(pos int) {
	r.bases = append(r.bases, pos)
}

func (r *reader) popBase() {
	r.bases = r.bases[:len(r.bases)-1]
}

// readOffset reads a relative offset and returns the absolute position, or 0 for null.
func (r *reader) readOffset() int {
	off := int(r.readInt32())
	if off == 0 {
		return 0
	}
	return r.base() + off
}

// atOffset calls f at the absolute position and restores the current position.
func (r *reader) atOffset(pos int, f func()) {
	if pos == 0 || r.err != nil {
		return
	}
	ret := r.pos
	r.seek(pos)
	f()
	r.seek(ret)
}

func (r *reader) readUint8() uint8 {
	return r.bytes(1)[0]
}

func (r *reader) readUint16() uint16 {
	return binary.LittleEndian.Uint16(r.bytes(2))
}

func (r *reader) readInt16() int16 {
	return int16(r.readUint16())
}

func (r *reader) readUint32() uint32 {
	return binary.LittleEndian.Uint32(r.bytes(4))
}

func (r *reader) readInt32() int32 {
	return int32(r.readUint32())
}

func (r *reader) readFloat() float32 {
	return math.Float32frombits(r.readUint32())
}

// count validates an element count read from the file against the remaining data.
func (r *reader) count(n, size int) int {
	if r.err != nil {
		return 0
	}
	if n < 0 || n*size > len(r.buf)-r.pos {
		r.failf("invalid count %d", n)
		return 0
	}
	return n
}

func (r *reader) readInt16s(n int) []int16 {
	v := make([]int16, r.count(n, 2))
	for i := range v {
		v[i] = r.readInt16()
	}
	return v
}

func (r *reader) readFloats(n int) []float32 {
	v := make([]float32, r.count(n, 4))
	for i := range v {
		v[i] = r.readFloat()
	}
	return v
}

func (r *reader) readVector2() *geom.Vector2 {
	return &geom.Vector2{X: r.readFloat(), Y: r.readFloat()}
}

func (r *reader) readVector3() *geom.Vector3 {
	return &geom.Vector3{X: r.readFloat(), Y: r.readFloat(), Z: r.readFloat()}
}

func (r *reader) readVector4() *geom.Vector4 {
	return &geom.Vector4{X: r.readFloat(), Y: r.readFloat(), Z: r.readFloat(), W: r.readFloat()}
}

func (r *reader) readVector2s(n int) []*geom.Vector2 {
	v := make([]*geom.Vector2, r.count(n, 8))
	for i := range v {
		v[i] = r.readVector2()
	}
	return v
}

func (r *reader) readVector3s(n int) []*geom.Vector3 {
	v := make([]*geom.Vector3, r.count(n, 12))
	for i := range v {
		v[i] = r.readVector3()
	}
	return v
}

func (r *reader) readVector4s(n int) []*geom.Vector4 {
	v := make([]*geom.Vector4, r.count(n, 16))
	for i := range v {
		v[i] = r.readVector4()
	}
	return v
}

func (r *reader) readColor() Color {
	b := r.bytes(4)
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}
}

func (r *reader) readTriangles16(n int) []Triangle {
	v := make([]Triangle, r.count(n, 6))
	for i := range v {
		v[i] = Triangle{int(r.readUint16()), int(r.readUint16()), int(r.readUint16())}
	}
	return v
}

// readCString reads a null-terminated Shift-JIS string.
func (r *reader) readCString() string {
	if r.err != nil {
		return ""
	}
	end := bytes.IndexByte(r.buf[r.pos:], 0)
	if end < 0 {
		r.fail(errors.Wrapf(io.ErrUnexpectedEOF, "string at 0x%x", r.pos))
		return ""
	}
	s := decodeShiftJIS(r.buf[r.pos : r.pos+end])
	r.pos += end + 1
	return s
}

// readFixedString reads a null-padded Shift-JIS string of n bytes.
func (r *reader) readFixedString(n int) string {
	return decodeShiftJIS(bytes.SplitN(r.bytes(n), []byte{0}, 2)[0])
}

func decodeShiftJIS(b []byte) string {
	utf8Data, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(utf8Data)
}

func (r *reader) expectInt16(v int16, field string) {
	if got := r.readInt16(); got != v && r.err == nil {
		r.failf("%s is %d, expected %d", field, got, v)
	}
}

func (r *reader) expectInt32(v int32, field string) {
	if got := r.readInt32(); got != v && r.err == nil {
		r.failf("%s is %d, expected %d", field, got, v)
	}
}
