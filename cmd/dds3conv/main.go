package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/dds3conv/converter"
	"github.com/binzume/dds3conv/dds3"
	"github.com/binzume/dds3conv/fbx"
	"github.com/davecgh/go-spew/spew"
	"github.com/qmuntal/gltf"
)

func defaultOutputFile(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := input[0 : len(input)-len(ext)]
	if ext == ".tb" {
		return base + "_textures"
	}
	return base + ".fbx"
}

type outputFile struct {
	path     string
	model    *dds3.Model
	textures *dds3.TexturePack
}

func saveModel(out *outputFile, opts *converter.Options, ascii bool) error {
	ext := strings.ToLower(filepath.Ext(out.path))
	if ext == ".fbx" {
		fbxOpts := *opts.FBX
		if fbxOpts.TextureDir == "" {
			fbxOpts.TextureDir = filepath.Dir(out.path)
		} else if !filepath.IsAbs(fbxOpts.TextureDir) {
			fbxOpts.TextureDir = filepath.Join(filepath.Dir(out.path), fbxOpts.TextureDir)
		}
		doc, err := converter.NewDDS3ToFBXConverter(&fbxOpts).Convert(out.model, out.textures)
		if err != nil {
			return err
		}
		return fbx.Save(doc, out.path, ascii)
	} else if ext == ".glb" || ext == ".gltf" {
		gltfOpts := *opts.GLTF
		doc, err := converter.NewDDS3ToGLTFConverter(&gltfOpts).Convert(out.model, out.textures)
		if err != nil {
			return err
		}
		if ext == ".gltf" {
			return gltf.Save(doc, out.path)
		}
		return gltf.SaveBinary(doc, out.path)
	}
	return fmt.Errorf("Unsupported output type: %v", ext)
}

// outputsForPack returns one output per model. <base>_<i> is used when the pack has several models.
func outputsForPack(pack *dds3.ModelPack, output string) []*outputFile {
	var outputs []*outputFile
	ext := filepath.Ext(output)
	base := output[0 : len(output)-len(ext)]
	for i, model := range pack.Models {
		path := output
		if len(pack.Models) > 1 {
			path = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		outputs = append(outputs, &outputFile{path: path, model: model, textures: pack.TexturePack})
	}
	return outputs
}

func dump(input string) error {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".pb":
		pack, err := dds3.LoadModelPack(input)
		if err != nil {
			return err
		}
		spew.Dump(pack)
	case ".mb":
		model, err := dds3.LoadModel(input)
		if err != nil {
			return err
		}
		spew.Dump(model)
	case ".tb":
		pack, err := dds3.LoadTexturePack(input)
		if err != nil {
			return err
		}
		spew.Dump(pack)
	case ".fbx":
		doc, err := fbx.Load(input)
		if err != nil {
			return err
		}
		return fbx.Dump(os.Stdout, doc)
	default:
		return fmt.Errorf("Unsupported input type: %v", input)
	}
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.PB|input.MB|input.TB [output.fbx]\n", os.Args[0])
		flag.PrintDefaults()
	}
	texFile := flag.String("tex", "", "texture pack (.TB) for a .MB input")
	confFile := flag.String("config", "", "converter options (.yaml)")
	ascii := flag.Bool("ascii", false, "write ASCII FBX")
	noUV2 := flag.Bool("nouv2", false, "do not export the second uv layer (.fbx)")
	noMerge := flag.Bool("nomerge", false, "do not merge meshes")
	keepShapes := flag.Bool("keepshapes", false, "export blend shapes as deformers instead of meshes (.fbx)")
	texFormat := flag.String("texformat", "", "texture format: png, tga or bmp")
	dumpOnly := flag.Bool("dump", false, "print the decoded input")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	if *dumpOnly {
		if err := dump(input); err != nil {
			log.Fatal(err)
		}
		return
	}
	output := defaultOutputFile(input)
	if flag.NArg() > 1 {
		output = flag.Arg(1)
	}

	opts := converter.DefaultOptions()
	if *confFile != "" {
		o, err := converter.LoadOptions(*confFile)
		if err != nil {
			log.Fatal(err)
		}
		opts = o
	}
	if *noUV2 {
		opts.FBX.ExportMultipleUvLayers = false
	}
	if *noMerge {
		opts.FBX.MergeMeshes = false
		opts.GLTF.MergeMeshes = false
	}
	if *keepShapes {
		opts.FBX.ConvertBlendShapesToMeshes = false
	}
	if *texFormat != "" {
		opts.FBX.TextureFormat = *texFormat
	}

	var outputs []*outputFile
	switch strings.ToLower(filepath.Ext(input)) {
	case ".pb":
		pack, err := dds3.LoadModelPack(input)
		if err != nil {
			log.Fatal(err)
		}
		outputs = outputsForPack(pack, output)
	case ".mb":
		model, err := dds3.LoadModel(input)
		if err != nil {
			log.Fatal(err)
		}
		out := &outputFile{path: output, model: model}
		if *texFile != "" {
			if out.textures, err = dds3.LoadTexturePack(*texFile); err != nil {
				log.Fatal(err)
			}
		}
		outputs = append(outputs, out)
	case ".tb":
		pack, err := dds3.LoadTexturePack(input)
		if err != nil {
			log.Fatal(err)
		}
		format := converter.CheckTextureFormat(opts.FBX.TextureFormat)
		n := converter.ExportTextures(pack, output, format)
		log.Printf("%d/%d textures saved to %s", n, len(pack.Textures), output)
		return
	default:
		log.Fatal("Unsupported input type: ", input)
	}

	for _, out := range outputs {
		log.Print("out: ", out.path)
		if err := saveModel(out, opts, *ascii); err != nil {
			log.Fatal(err)
		}
	}
}
