package fbx

import "github.com/binzume/dds3conv/geom"

type Material struct {
	Obj
}

func NewMaterial(name string) *Material {
	mat := &Material{
		Obj: *newObj("Material", objectName(name, "Material"), "", []*Node{
			NewNode("Version", 102),
			NewNode("ShadingModel", "Phong"),
			NewNode("MultiLayer", 0),
		}),
	}
	mat.SetStringProperty("ShadingModel", "Phong")
	return mat
}

func (m *Material) GetColor(name string, def *geom.Vector3) *geom.Vector3 {
	if def == nil {
		def = &geom.Vector3{}
	}
	return m.GetProperty(name).ToVector3(def.X, def.Y, def.Z)
}

func (m *Material) SetColor(name string, c *geom.Vector3) {
	m.SetColorProperty(name, c.X, c.Y, c.Z)
}

func (m *Material) GetFactor(name string, def float32) float32 {
	return m.GetProperty(name).ToFloat32(def)
}

func (m *Material) SetFactor(name string, v float32) {
	m.SetProperty(name, &Property{Type: "Number", Flag: "A", AttributeList: AttributeList{{Value: float64(v)}}})
}

func (m *Material) GetTexture() *Texture {
	for _, o := range m.Refs {
		if t, ok := o.(*Texture); ok {
			return t
		}
	}
	return nil
}

type Texture struct {
	Obj
}

func NewTexture(name, fileName string) *Texture {
	tex := &Texture{
		Obj: *newObj("Texture", objectName(name, "Texture"), "", []*Node{
			NewNode("Type", "TextureVideoClip"),
			NewNode("Version", 202),
			NewNode("TextureName", objectName(name, "Texture")),
			NewNode("Media", objectName(name, "Video")),
			NewNode("FileName", fileName),
			NewNode("RelativeFilename", fileName),
			NewNode("ModelUVTranslation", float64(0), float64(0)),
			NewNode("ModelUVScaling", float64(1), float64(1)),
			NewNode("Texture_Alpha_Source", "None"),
			NewNode("Cropping", 0, 0, 0, 0),
		}),
	}
	return tex
}

func (t *Texture) GetFileName() string {
	return t.FindChild("RelativeFilename").GetString()
}

type Video struct {
	Obj
}

func NewVideo(name, fileName string) *Video {
	v := &Video{
		Obj: *newObj("Video", objectName(name, "Video"), "Clip", []*Node{
			NewNode("Type", "Clip"),
			NewNode("UseMipMap", 0),
			NewNode("Filename", fileName),
			NewNode("RelativeFilename", fileName),
		}),
	}
	v.SetProperty("Path", &Property{Type: "KString", Label: "XRefUrl", AttributeList: AttributeList{{Value: fileName}}})
	return v
}
