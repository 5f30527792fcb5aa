package converter

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/binzume/dds3conv/dds3"
	"github.com/binzume/dds3conv/fbx"
	"github.com/binzume/dds3conv/geom"
)

type DDS3ToFBXOption struct {
	ExportMultipleUvLayers     bool `yaml:"exportMultipleUvLayers"`
	MergeMeshes                bool `yaml:"mergeMeshes"`
	ConvertBlendShapesToMeshes bool `yaml:"convertBlendShapesToMeshes"`

	ExportTextures bool   `yaml:"exportTextures"`
	TextureDir     string `yaml:"textureDir"`
	TextureFormat  string `yaml:"textureFormat"` // png, tga or bmp. Default: png
}

// DefaultDDS3ToFBXOption returns the options 3ds Max users expect.
func DefaultDDS3ToFBXOption() *DDS3ToFBXOption {
	return &DDS3ToFBXOption{
		ExportMultipleUvLayers:     true,
		MergeMeshes:                true,
		ConvertBlendShapesToMeshes: true,
		ExportTextures:             true,
		TextureFormat:              TextureFormatPNG,
	}
}

type dds3ToFbx struct {
	*DDS3ToFBXOption
	doc       *fbx.Document
	model     *dds3.Model
	textures  *dds3.TexturePack
	nodes     []*fbx.Model
	materials []*fbx.Material
	fileTex   map[int]*fbx.Texture
	bindPose  *fbx.Pose
}

func NewDDS3ToFBXConverter(options *DDS3ToFBXOption) *dds3ToFbx {
	if options == nil {
		options = DefaultDDS3ToFBXOption()
	}
	options.TextureFormat = CheckTextureFormat(options.TextureFormat)
	return &dds3ToFbx{DDS3ToFBXOption: options}
}

// TextureFileName returns the file name of an exported texture.
func TextureFileName(id int, format string) string {
	return fmt.Sprintf("texture_%02d.%s", id, format)
}

func (c *dds3ToFbx) convertMaterial(i int, mat *dds3.Material) *fbx.Material {
	m := fbx.NewMaterial(fmt.Sprintf("material_%02d", i))
	c.doc.AddObject(m)
	if mat.Color1 != nil {
		m.SetColor("DiffuseColor", &geom.Vector3{
			X: float32(mat.Color1.R) / 255, Y: float32(mat.Color1.G) / 255, Z: float32(mat.Color1.B) / 255})
	}
	if mat.TextureID == nil {
		return m
	}
	id := *mat.TextureID
	fileName := TextureFileName(id, c.TextureFormat)
	if c.ExportTextures && c.textures != nil && id >= 0 && id < len(c.textures.Textures) {
		path := filepath.Join(c.TextureDir, fileName)
		if err := SaveTexture(c.textures.Textures[id], path, c.TextureFormat); err != nil {
			log.Print("texture export error: ", err)
		}
	} else if c.textures != nil {
		log.Printf("texture %d not found in texture pack", id)
	}

	tex, ok := c.fileTex[id]
	if !ok {
		tex = fbx.NewTexture("Bitmaptexture", fileName)
		tex.SetStringProperty("UVSet", "UVChannel_1")
		tex.SetBoolProperty("UseMaterial", true)
		c.doc.AddObject(tex)
		video := fbx.NewVideo("Bitmaptexture", fileName)
		c.doc.AddObject(video)
		c.doc.AddConnection(tex, video)
		c.fileTex[id] = tex
	}
	c.doc.AddPropertyConnection(m, tex, "DiffuseColor")
	return m
}

func (c *dds3ToFbx) convertNodes() {
	for i, node := range c.model.Nodes {
		m := fbx.NewModel(NodeName(c.model, node), "LimbNode")
		m.SetTranslation(node.Position)
		m.SetRotation(node.Euler().Degrees())
		m.SetScaling(node.Scale)
		m.SetPreferedAngle(node.Euler().Degrees())
		c.doc.AddObject(m)
		c.nodes[i] = m
	}
	for i, node := range c.model.Nodes {
		m := c.nodes[i]
		if node.Parent != nil {
			c.doc.AddConnection(c.nodes[node.ParentIndex], m)
		} else {
			c.doc.AddConnection(c.doc.Scene, m)
		}
		attr := fbx.NewSkeletonAttribute(m.Name(), "LimbNode")
		c.doc.AddObject(attr)
		c.doc.AddConnection(m, attr)
		c.bindPose.Add(m, node.WorldTransform())
	}
}

// flipV converts DDS3 texture coordinates to FBX (v' = 1 - v).
func flipV(uv []*geom.Vector2) []*geom.Vector2 {
	r := make([]*geom.Vector2, len(uv))
	for i, v := range uv {
		r[i] = &geom.Vector2{X: v.X, Y: 1 - v.Y}
	}
	return r
}

func (c *dds3ToFbx) convertGeometry(mesh *GenericMesh, meshNode *fbx.Model) *fbx.Geometry {
	var faces [][]int
	var polygonMaterials []int32
	var usedMaterials []int
	materialSlot := map[int]int32{}
	for _, g := range mesh.Groups {
		slot, ok := materialSlot[g.MaterialIndex]
		if !ok {
			slot = int32(len(usedMaterials))
			materialSlot[g.MaterialIndex] = slot
			usedMaterials = append(usedMaterials, g.MaterialIndex)
		}
		for _, t := range g.Triangles {
			faces = append(faces, []int{t[0], t[1], t[2]})
			polygonMaterials = append(polygonMaterials, slot)
		}
	}

	g := fbx.NewGeometry(mesh.Name, mesh.Positions, faces)
	normals := mesh.Normals
	if normals == nil {
		normals = padVector3(nil, mesh.VertexCount())
	}
	g.SetLayerElementNormal(normals, fbx.ByControlPoint)
	if len(usedMaterials) > 1 {
		g.SetLayerElementMaterialIndex(polygonMaterials, fbx.ByPolygon)
	} else {
		g.SetLayerElementMaterialIndex([]int32{0}, fbx.AllSame)
	}
	if mesh.Colors != nil {
		g.SetLayerElementColor(mesh.Colors, fbx.ByControlPoint)
	}
	uv1 := mesh.UV1
	if uv1 == nil {
		uv1 = padVector2(nil, mesh.VertexCount())
	}
	g.AddLayerElementUV(0, "UVChannel_1", flipV(uv1), fbx.ByControlPoint)
	if c.ExportMultipleUvLayers && mesh.UV2 != nil {
		g.AddLayerElementUV(1, "UVChannel_2", flipV(mesh.UV2), fbx.ByControlPoint)
	}
	c.doc.AddObject(g)
	c.doc.AddConnection(meshNode, g)

	for _, mi := range usedMaterials {
		if mi < 0 || mi >= len(c.materials) {
			log.Printf("%s: material %d not found", mesh.Name, mi)
			continue
		}
		c.doc.AddConnection(meshNode, c.materials[mi])
	}
	return g
}

type clusterData struct {
	node    int
	indexes []int32
	weights []float64
}

func (c *dds3ToFbx) convertSkin(mesh *GenericMesh, g *fbx.Geometry) {
	skin := fbx.NewSkin(mesh.Name)
	c.doc.AddObject(skin)
	c.doc.AddConnection(g, skin)

	addCluster := func(cd *clusterData, mode fbx.LinkMode) {
		if cd.node < 0 || cd.node >= len(c.nodes) {
			log.Printf("%s: node %d not found", mesh.Name, cd.node)
			return
		}
		bone := c.nodes[cd.node]
		cluster := fbx.NewCluster(bone.Name(), mode, cd.indexes, cd.weights,
			geom.NewMatrix4(), c.model.Nodes[cd.node].WorldTransform())
		c.doc.AddObject(cluster)
		c.doc.AddConnection(skin, cluster)
		c.doc.AddConnection(cluster, bone)
	}

	if mesh.IsRigid() {
		cd := &clusterData{node: mesh.NodeIndex}
		for i := 0; i < mesh.VertexCount(); i++ {
			cd.indexes = append(cd.indexes, int32(i))
			cd.weights = append(cd.weights, 1)
		}
		addCluster(cd, fbx.LinkModeTotalOne)
		return
	}

	var clusters []*clusterData
	lookup := map[int]*clusterData{}
	for v, weights := range mesh.Weights {
		for _, w := range weights {
			if w.Weight == 0 {
				continue
			}
			cd, ok := lookup[w.NodeIndex]
			if !ok {
				cd = &clusterData{node: w.NodeIndex}
				lookup[w.NodeIndex] = cd
				clusters = append(clusters, cd)
			}
			cd.indexes = append(cd.indexes, int32(v))
			cd.weights = append(cd.weights, float64(w.Weight))
		}
	}
	for _, cd := range clusters {
		addCluster(cd, fbx.LinkModeNormalize)
	}
}

func (c *dds3ToFbx) convertBlendShapes(mesh *GenericMesh, g *fbx.Geometry) {
	if len(mesh.BlendShapes) == 0 {
		return
	}
	bs := fbx.NewBlendShape(mesh.Name)
	c.doc.AddObject(bs)
	c.doc.AddConnection(g, bs)
	zero := &geom.Vector3{}
	for _, target := range mesh.BlendShapes {
		var indexes []int32
		var vertices, normals []*geom.Vector3
		for i, p := range target.Positions {
			dp := p.Sub(mesh.Positions[i])
			dn := zero
			if target.Normals != nil && mesh.Normals != nil {
				dn = target.Normals[i].Sub(mesh.Normals[i])
			}
			if *dp == *zero && *dn == *zero {
				continue
			}
			indexes = append(indexes, int32(i))
			vertices = append(vertices, dp)
			normals = append(normals, dn)
		}
		if len(indexes) == 0 {
			log.Printf("%s: blend shape %s has no deltas", mesh.Name, target.Name)
			continue
		}
		channel := fbx.NewBlendShapeChannel(target.Name)
		c.doc.AddObject(channel)
		c.doc.AddConnection(bs, channel)
		shape := fbx.NewShape(target.Name, indexes, vertices, normals)
		c.doc.AddObject(shape)
		c.doc.AddConnection(channel, shape)
	}
}

func (c *dds3ToFbx) convertMesh(mesh *GenericMesh) {
	meshNode := fbx.NewModel(mesh.Name, "Mesh")
	c.doc.AddObject(meshNode)
	c.doc.AddConnection(c.doc.Scene, meshNode)
	c.bindPose.Add(meshNode, geom.NewMatrix4())

	g := c.convertGeometry(mesh, meshNode)
	c.convertSkin(mesh, g)
	c.convertBlendShapes(mesh, g)
}

// Convert builds an FBX scene of the model. textures may be nil.
func (c *dds3ToFbx) Convert(model *dds3.Model, textures *dds3.TexturePack) (*fbx.Document, error) {
	c.doc = fbx.NewDocument(fbx.DirectXAxisSystem)
	c.model = model
	c.textures = textures
	c.nodes = make([]*fbx.Model, len(model.Nodes))
	c.materials = nil
	c.fileTex = map[int]*fbx.Texture{}

	for i, mat := range model.Materials {
		c.materials = append(c.materials, c.convertMaterial(i, mat))
	}

	c.bindPose = fbx.NewBindPose("BIND_POSES")
	c.doc.AddObject(c.bindPose)

	c.convertNodes()

	meshes := ConvertMeshes(model)
	if c.ConvertBlendShapesToMeshes {
		meshes = ConvertBlendShapesToMeshes(meshes)
	}
	if c.MergeMeshes {
		meshes = MergeMeshes(meshes)
	}
	for _, mesh := range meshes {
		c.convertMesh(mesh)
	}
	return c.doc, nil
}
