package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"sort"

	"github.com/binzume/dds3conv/dds3"
	"github.com/binzume/dds3conv/geom"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type DDS3ToGLTFOption struct {
	Scale       float32 `yaml:"scale"` // Default: 1
	MergeMeshes bool    `yaml:"mergeMeshes"`
	ForceUnlit  bool    `yaml:"forceUnlit"`
}

type dds3ToGltf struct {
	*DDS3ToGLTFOption
	*gltf.Document
	model    *dds3.Model
	textures *dds3.TexturePack
	texIndex map[int]*uint32
	skin     *uint32
}

func NewDDS3ToGLTFConverter(options *DDS3ToGLTFOption) *dds3ToGltf {
	if options == nil {
		options = &DDS3ToGLTFOption{}
	}
	if options.Scale == 0 {
		options.Scale = 1
	}
	return &dds3ToGltf{
		DDS3ToGLTFOption: options,
		Document:         gltf.NewDocument(),
	}
}

// DDS3 space is left-handed. glTF is right-handed, so Z is negated.
var flipZ = geom.NewScaleMatrix4(1, 1, -1)

func (m *dds3ToGltf) toGltfMatrix(mat *geom.Matrix4) *geom.Matrix4 {
	return flipZ.Mul(mat).Mul(flipZ)
}

func (m *dds3ToGltf) position(v *geom.Vector3) [3]float32 {
	return [3]float32{v.X * m.Scale, v.Y * m.Scale, -v.Z * m.Scale}
}

func (m *dds3ToGltf) addMatrices(mat []*geom.Matrix4) uint32 {
	a := make([][4]float32, len(mat)*4)
	for i, m := range mat {
		for c := 0; c < 4; c++ {
			copy(a[i*4+c][:], m[c*4:c*4+4])
		}
	}
	acc := modeler.WriteTangent(m.Document, a)
	m.Accessors[acc].Type = gltf.AccessorMat4
	m.Accessors[acc].Count /= 4
	m.BufferViews[*m.Accessors[acc].BufferView].ByteStride *= 4
	return acc
}

func (m *dds3ToGltf) addNodes() {
	for _, node := range m.model.Nodes {
		n := &gltf.Node{Name: NodeName(m.model, node)}
		local := m.toGltfMatrix(node.LocalTransform())
		local[12] *= m.Scale
		local[13] *= m.Scale
		local[14] *= m.Scale
		local.ToArray(n.Matrix[:])
		m.Nodes = append(m.Nodes, n)
	}
	for i, node := range m.model.Nodes {
		if node.Parent != nil {
			parent := m.Nodes[node.ParentIndex]
			parent.Children = append(parent.Children, uint32(i))
		} else {
			m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, uint32(i))
		}
	}
}

// addSkin adds one skin that uses every model node as a joint.
func (m *dds3ToGltf) addSkin() *uint32 {
	if m.skin != nil {
		return m.skin
	}
	joints := make([]uint32, len(m.model.Nodes))
	invmats := make([]*geom.Matrix4, len(m.model.Nodes))
	for i, node := range m.model.Nodes {
		joints[i] = uint32(i)
		world := m.toGltfMatrix(node.WorldTransform())
		world[12] *= m.Scale
		world[13] *= m.Scale
		world[14] *= m.Scale
		invmats[i] = world.Inverse()
	}
	m.Skins = append(m.Skins, &gltf.Skin{
		Joints:              joints,
		InverseBindMatrices: gltf.Index(m.addMatrices(invmats)),
	})
	m.skin = gltf.Index(uint32(len(m.Skins) - 1))
	return m.skin
}

// vertexJoints keeps the four largest weights of every vertex and normalizes them.
func vertexJoints(weights [][]dds3.NodeWeight) ([][4]uint16, [][4]float32) {
	joints := make([][4]uint16, len(weights))
	values := make([][4]float32, len(weights))
	for v, ws := range weights {
		ws = append([]dds3.NodeWeight(nil), ws...)
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].Weight > ws[j].Weight })
		if len(ws) > 4 {
			log.Printf("vertex %d has %d weights", v, len(ws))
			ws = ws[:4]
		}
		var sum float32
		for _, w := range ws {
			sum += w.Weight
		}
		for i, w := range ws {
			joints[v][i] = uint16(w.NodeIndex)
			if sum > 0 {
				values[v][i] = w.Weight / sum
			}
		}
	}
	return joints, values
}

func (m *dds3ToGltf) addTexture(id int) *uint32 {
	if t, ok := m.texIndex[id]; ok {
		return t
	}
	m.texIndex[id] = nil
	if m.textures == nil || id < 0 || id >= len(m.textures.Textures) {
		log.Printf("texture %d not found in texture pack", id)
		return nil
	}
	img, err := m.textures.Textures[id].Image(0, 0)
	if err != nil {
		log.Print("Texture read error:", err)
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Print("Texture encode error:", err)
		return nil
	}
	imgIndex, err := modeler.WriteImage(m.Document, TextureFileName(id, TextureFormatPNG), "image/png", &buf)
	if err != nil {
		log.Print("Texture write error:", err)
		return nil
	}
	m.Buffers[0].ByteLength = uint32(len(m.Buffers[0].Data)) // avoid AddImage bug
	m.Textures = append(m.Textures, &gltf.Texture{Sampler: gltf.Index(0), Source: gltf.Index(imgIndex)})
	m.texIndex[id] = gltf.Index(uint32(len(m.Textures) - 1))
	return m.texIndex[id]
}

func hasAlpha(img image.Image) bool {
	if nrgba, ok := img.(*image.NRGBA); ok {
		for i := 3; i < len(nrgba.Pix); i += 4 {
			if nrgba.Pix[i] < 255 {
				return true
			}
		}
	}
	return false
}

func (m *dds3ToGltf) convertMaterial(i int, mat *dds3.Material) *gltf.Material {
	var rf float32 = 1
	var mf float32 = 0
	mm := &gltf.Material{
		Name: fmt.Sprintf("material_%02d", i),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
			RoughnessFactor: &rf,
			MetallicFactor:  &mf,
		},
	}
	if c := mat.Color1; c != nil {
		mm.PBRMetallicRoughness.BaseColorFactor = &[4]float32{
			float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(dds3.AlphaFromGS(c.A)) / 255}
		if c.A < 128 {
			mm.AlphaMode = gltf.AlphaBlend
		}
	}
	if mat.TextureID != nil {
		if tex := m.addTexture(*mat.TextureID); tex != nil {
			mm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: *tex}
			if img, err := m.textures.Textures[*mat.TextureID].Image(0, 0); err == nil && hasAlpha(img) {
				mm.AlphaMode = gltf.AlphaBlend
			}
		}
	}
	if m.ForceUnlit {
		mm.Extensions = map[string]interface{}{"KHR_materials_unlit": map[string]string{}}
	}
	return mm
}

func (m *dds3ToGltf) convertMesh(mesh *GenericMesh) *gltf.Mesh {
	vertexes := make([][3]float32, mesh.VertexCount())
	for i, p := range mesh.Positions {
		vertexes[i] = m.position(p)
	}
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(m.Document, vertexes),
	}
	if mesh.Normals != nil {
		normals := make([][3]float32, len(mesh.Normals))
		for i, n := range mesh.Normals {
			normals[i] = [3]float32{n.X, n.Y, -n.Z}
		}
		attributes["NORMAL"] = modeler.WriteNormal(m.Document, normals)
	}
	if mesh.UV1 != nil {
		uv := make([][2]float32, len(mesh.UV1))
		for i, t := range mesh.UV1 {
			uv[i] = [2]float32{t.X, t.Y}
		}
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(m.Document, uv)
	}
	if mesh.UV2 != nil {
		uv := make([][2]float32, len(mesh.UV2))
		for i, t := range mesh.UV2 {
			uv[i] = [2]float32{t.X, t.Y}
		}
		attributes["TEXCOORD_1"] = modeler.WriteTextureCoord(m.Document, uv)
	}
	if mesh.Colors != nil {
		colors := make([][4]uint8, len(mesh.Colors))
		for i, c := range mesh.Colors {
			colors[i] = [4]uint8{uint8(c.X * 255), uint8(c.Y * 255), uint8(c.Z * 255), uint8(c.W * 255)}
		}
		attributes["COLOR_0"] = modeler.WriteColor(m.Document, colors)
	}
	weights := mesh.Weights
	if mesh.IsRigid() {
		weights = mesh.rigidWeights()
	}
	joints0, weights0 := vertexJoints(weights)
	attributes["JOINTS_0"] = modeler.WriteJoints(m.Document, joints0)
	attributes["WEIGHTS_0"] = modeler.WriteWeights(m.Document, weights0)

	var targets []map[string]uint32
	var targetNames []string
	for _, shape := range mesh.BlendShapes {
		dv := make([][3]float32, mesh.VertexCount())
		for i, p := range shape.Positions {
			v := m.position(p)
			dv[i] = [3]float32{v[0] - vertexes[i][0], v[1] - vertexes[i][1], v[2] - vertexes[i][2]}
		}
		target := map[string]uint32{"POSITION": modeler.WritePosition(m.Document, dv)}
		if shape.Normals != nil && mesh.Normals != nil {
			dn := make([][3]float32, mesh.VertexCount())
			for i, n := range shape.Normals {
				d := n.Sub(mesh.Normals[i])
				dn[i] = [3]float32{d.X, d.Y, -d.Z}
			}
			target["NORMAL"] = modeler.WriteNormal(m.Document, dn)
		}
		targets = append(targets, target)
		targetNames = append(targetNames, shape.Name)
	}

	var primitives []*gltf.Primitive
	for _, g := range mesh.Groups {
		indices := make([]uint32, 0, len(g.Triangles)*3)
		for _, t := range g.Triangles {
			indices = append(indices, uint32(t[0]), uint32(t[2]), uint32(t[1]))
		}
		p := &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(m.Document, indices)),
			Attributes: attributes,
			Targets:    targets,
		}
		if g.MaterialIndex >= 0 && g.MaterialIndex < len(m.Materials) {
			p.Material = gltf.Index(uint32(g.MaterialIndex))
		}
		primitives = append(primitives, p)
	}
	gm := &gltf.Mesh{Name: mesh.Name, Primitives: primitives}
	if len(targetNames) > 0 {
		gm.Extras = map[string]interface{}{"targetNames": targetNames}
	}
	return gm
}

// Convert builds a glTF document of the model. textures may be nil.
func (m *dds3ToGltf) Convert(model *dds3.Model, textures *dds3.TexturePack) (*gltf.Document, error) {
	m.model = model
	m.textures = textures
	m.texIndex = map[int]*uint32{}

	m.addNodes()

	for i, mat := range model.Materials {
		m.Document.Materials = append(m.Document.Materials, m.convertMaterial(i, mat))
	}
	if m.ForceUnlit {
		m.ExtensionsUsed = append(m.ExtensionsUsed, "KHR_materials_unlit")
	}

	meshes := ConvertMeshes(model)
	if m.MergeMeshes {
		meshes = MergeMeshes(meshes)
	}
	for _, mesh := range meshes {
		if len(mesh.Groups) == 0 {
			continue
		}
		node := &gltf.Node{
			Name: mesh.Name,
			Mesh: gltf.Index(uint32(len(m.Document.Meshes))),
		}
		m.Document.Meshes = append(m.Document.Meshes, m.convertMesh(mesh))
		if len(model.Nodes) > 0 {
			node.Skin = m.addSkin()
		}
		m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, uint32(len(m.Nodes)))
		m.Nodes = append(m.Nodes, node)
	}

	if len(m.Document.Textures) > 0 {
		m.Document.Samplers = []*gltf.Sampler{{}}
	}
	return m.Document, nil
}
