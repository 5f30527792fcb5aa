package dds3

type MaterialFlags uint32

const (
	MaterialColor1            MaterialFlags = 1 << 16
	MaterialColor2            MaterialFlags = 1 << 17
	MaterialTextureID         MaterialFlags = 1 << 18
	MaterialFloatArray1       MaterialFlags = 1 << 19
	MaterialColor3            MaterialFlags = 1 << 20
	MaterialOverlayTextureIDs MaterialFlags = 1 << 21
	MaterialFloatArray2       MaterialFlags = 1 << 22
	MaterialColor4            MaterialFlags = 1 << 23
	MaterialColor5            MaterialFlags = 1 << 24
	MaterialFloat1            MaterialFlags = 1 << 25
	MaterialFloatArray3       MaterialFlags = 1 << 26
)

// Material holds the optional fields selected by Flags. Absent fields are nil.
type Material struct {
	Index int
	Flags MaterialFlags

	Color1            *Color
	Color2            *Color
	TextureID         *int
	FloatArray1       []float32
	Color3            *Color
	OverlayTextureIDs []int16
	FloatArray2       []float32
	Color4            *Color
	Color5            *Color
	Float1            *float32
	FloatArray3       []float32
}

func (r *reader) readMaterial() *Material {
	m := &Material{}
	m.Index = int(r.readInt32())
	m.Flags = MaterialFlags(r.readUint32())
	readColor := func() *Color {
		c := r.readColor()
		return &c
	}
	for i := 0; i < 31 && r.err == nil; i++ {
		flag := MaterialFlags(1 << i)
		if m.Flags&flag == 0 {
			continue
		}
		switch flag {
		case MaterialColor1:
			m.Color1 = readColor()
		case MaterialColor2:
			m.Color2 = readColor()
		case MaterialTextureID:
			id := int(r.readInt32())
			m.TextureID = &id
		case MaterialFloatArray1:
			m.FloatArray1 = r.readFloats(5)
		case MaterialColor3:
			m.Color3 = readColor()
		case MaterialOverlayTextureIDs:
			m.OverlayTextureIDs = r.readInt16s(2)
		case MaterialFloatArray2:
			m.FloatArray2 = r.readFloats(5)
		case MaterialColor4:
			m.Color4 = readColor()
		case MaterialColor5:
			m.Color5 = readColor()
		case MaterialFloat1:
			f := r.readFloat()
			m.Float1 = &f
		case MaterialFloatArray3:
			m.FloatArray3 = r.readFloats(2)
		default:
			r.failf("unknown material flag bit %d", i)
		}
	}
	return m
}
