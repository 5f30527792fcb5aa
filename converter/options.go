package converter

import (
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

// Options is the content of a converter config file.
//
//	fbx:
//	  mergeMeshes: false
//	  textureFormat: tga
//	gltf:
//	  scale: 0.01
type Options struct {
	FBX  *DDS3ToFBXOption  `yaml:"fbx"`
	GLTF *DDS3ToGLTFOption `yaml:"gltf"`
}

func DefaultOptions() *Options {
	return &Options{
		FBX:  DefaultDDS3ToFBXOption(),
		GLTF: &DDS3ToGLTFOption{Scale: 1, MergeMeshes: true},
	}
}

// ParseOptions reads YAML options. Omitted keys keep their default values.
func ParseOptions(r io.Reader) (*Options, error) {
	opts := DefaultOptions()
	if err := yaml.NewDecoder(r).Decode(opts); err != nil && err != io.EOF {
		return nil, err
	}
	if opts.FBX == nil {
		opts.FBX = DefaultDDS3ToFBXOption()
	}
	if opts.GLTF == nil {
		opts.GLTF = DefaultOptions().GLTF
	}
	return opts, nil
}

func LoadOptions(path string) (*Options, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ParseOptions(r)
}
