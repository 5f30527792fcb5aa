package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

// VIF (PS2 vector interface) command stream.

type VifCommand uint8

const (
	VifNop      VifCommand = 0x00
	VifFlushEnd VifCommand = 0x10
	VifActMicro VifCommand = 0x14
	VifCntMicro VifCommand = 0x17
	VifUnpack   VifCommand = 0x60
)

type VifFormat int

const (
	VifFloat   VifFormat = 0
	VifShort   VifFormat = 1
	VifByte    VifFormat = 2
	VifRGBA5A1 VifFormat = 3
)

const vifTagSize = 4

type VifTag struct {
	Immediate uint16
	Count     uint8
	Command   uint8
}

func (t VifTag) IsUnpack() bool {
	return t.Command&0x60 == 0x60
}

func (t VifTag) Address() int {
	return int(t.Immediate & 0x1FF)
}

func (t VifTag) Signed() bool {
	return t.Immediate&(1<<14) != 0
}

func (t VifTag) Flag() bool {
	return t.Immediate&(1<<15) != 0
}

func (t VifTag) Format() VifFormat {
	return VifFormat(t.Command & 3)
}

func (t VifTag) Elements() int {
	return int(t.Command>>2&3) + 1
}

func (r *reader) readVifTag() VifTag {
	return VifTag{Immediate: r.readUint16(), Count: r.readUint8(), Command: r.readUint8()}
}

// readVifCode reads a non-unpack code and checks its command.
func (r *reader) readVifCode(commands ...VifCommand) VifTag {
	tag := r.readVifTag()
	for _, c := range commands {
		if VifCommand(tag.Command) == c {
			return tag
		}
	}
	if r.err == nil {
		r.failf("vif command 0x%02x, expected %v", tag.Command, commands)
	}
	return tag
}

// vifPacket is the data of an unpack command.
type vifPacket struct {
	VifTag
	floats []float32
	ints   []int32
}

// readVifPacket reads an unpack packet of the given format.
// count < 0 accepts any element count.
func (r *reader) readVifPacket(format VifFormat, elements, count int) *vifPacket {
	p := &vifPacket{VifTag: r.readVifTag()}
	switch {
	case r.err != nil:
	case !p.IsUnpack():
		r.failf("vif command 0x%02x, expected unpack", p.Command)
	case p.Format() != format || p.Elements() != elements:
		r.failf("vif unpack format %d x %d, expected %d x %d", p.Format(), p.Elements(), format, elements)
	case count >= 0 && int(p.Count) != count:
		r.failf("vif unpack count %d, expected %d", p.Count, count)
	}
	if r.err != nil {
		// accessors return empty slices
		p.Count = 0
		return p
	}
	n := int(p.Count) * elements
	switch format {
	case VifFloat:
		p.floats = r.readFloats(n)
	case VifShort, VifRGBA5A1:
		p.ints = make([]int32, n)
		for i := range p.ints {
			if p.Signed() {
				p.ints[i] = int32(r.readInt16())
			} else {
				p.ints[i] = int32(r.readUint16())
			}
		}
	case VifByte:
		p.ints = make([]int32, n)
		for i := range p.ints {
			if p.Signed() {
				p.ints[i] = int32(int8(r.readUint8()))
			} else {
				p.ints[i] = int32(r.readUint8())
			}
		}
	}
	r.align(4)
	return p
}

func (p *vifPacket) vector2s() []*geom.Vector2 {
	v := make([]*geom.Vector2, p.Count)
	e := p.Elements()
	for i := range v {
		v[i] = &geom.Vector2{X: p.floats[i*e], Y: p.floats[i*e+1]}
	}
	return v
}

func (p *vifPacket) vector3s() []*geom.Vector3 {
	v := make([]*geom.Vector3, p.Count)
	for i := range v {
		v[i] = &geom.Vector3{X: p.floats[i*3], Y: p.floats[i*3+1], Z: p.floats[i*3+2]}
	}
	return v
}

func (p *vifPacket) vector4s() []*geom.Vector4 {
	v := make([]*geom.Vector4, p.Count)
	for i := range v {
		v[i] = &geom.Vector4{X: p.floats[i*4], Y: p.floats[i*4+1], Z: p.floats[i*4+2], W: p.floats[i*4+3]}
	}
	return v
}

// element returns element j of vector i.
func (p *vifPacket) element(i, j int) int {
	return int(p.ints[i*p.Elements()+j])
}

func (p *vifPacket) triangles(r *reader) []Triangle {
	v := make([]Triangle, p.Count)
	for i := range v {
		if p.element(i, 3) != 0 && r.err == nil {
			r.failf("fourth element of triangle %d is not 0", i)
		}
		v[i] = Triangle{p.element(i, 0) & 0xff, p.element(i, 1) & 0xff, p.element(i, 2) & 0xff}
	}
	return v
}

func (p *vifPacket) colors() []Color {
	v := make([]Color, p.Count)
	for i := range v {
		v[i] = Color{R: uint8(p.element(i, 0)), G: uint8(p.element(i, 1)), B: uint8(p.element(i, 2)), A: uint8(p.element(i, 3))}
	}
	return v
}

// splitTexCoords splits xyzw texcoords into two uv sets.
func splitTexCoords(v []*geom.Vector4) ([]*geom.Vector2, []*geom.Vector2) {
	uv1 := make([]*geom.Vector2, len(v))
	uv2 := make([]*geom.Vector2, len(v))
	for i, t := range v {
		uv1[i] = &geom.Vector2{X: t.X, Y: t.Y}
		uv2[i] = &geom.Vector2{X: t.Z, Y: t.W}
	}
	return uv1, uv2
}

// vifBatchHeader reads the short header unpack that starts a batch.
func (r *reader) vifBatchHeader(elements int) []int {
	p := r.readVifPacket(VifShort, elements, 1)
	h := make([]int, elements)
	if r.err != nil {
		return h
	}
	for i := range h {
		h[i] = p.element(0, i)
	}
	return h
}
