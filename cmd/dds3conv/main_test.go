package main

import (
	"testing"

	"github.com/binzume/dds3conv/dds3"
)

func TestDefaultOutputFile(t *testing.T) {
	for input, expected := range map[string]string{
		"dir/model.PB": "dir/model.fbx",
		"model.mb":     "model.fbx",
		"field.TB":     "field_textures",
	} {
		if out := defaultOutputFile(input); out != expected {
			t.Errorf("%s: %s, expected %s", input, out, expected)
		}
	}
}

func TestOutputsForPack(t *testing.T) {
	pack := &dds3.ModelPack{Models: []*dds3.Model{{}}}
	if outs := outputsForPack(pack, "a/out.fbx"); len(outs) != 1 || outs[0].path != "a/out.fbx" {
		t.Error("single model: ", outs)
	}
	pack.Models = append(pack.Models, &dds3.Model{})
	outs := outputsForPack(pack, "a/out.glb")
	if len(outs) != 2 || outs[0].path != "a/out_0.glb" || outs[1].path != "a/out_1.glb" {
		t.Error("multiple models: ", outs[0].path, outs[1].path)
	}
}
