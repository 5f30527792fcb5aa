package dds3

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func writeTestModelPackInfo(w *testWriter) {
	w.resource(FileTypeDefault, IdentifierModelPackInfo, func(start int) {
		w.u32(modelPackInfoBOM, 0)
		w.i16(1, 0, 1, 0, 0, 0)
		w.i32(42, 12)
		w.i16(1, 2)
	})
}

func TestParseModelPack(t *testing.T) {
	w := &testWriter{}
	writeTestModelPackInfo(w)
	w.align(64)
	writeTestTexturePack(w, 2)
	writeTestModel(w, []testNode{{parent: -1, mesh: true}}, []string{"body"})
	w.align(64)
	w.resource(FileTypeMotionPack, IdentifierMotionPack, func(start int) {
		w.u32(1, 2, 3)
	})
	w.align(64)
	w.resource(FileTypeModelPackEnd, IdentifierModelPackEnd, func(start int) {})

	pack, err := ParseModelPack(bytes.NewReader(w.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if pack.Info == nil || pack.Info.ModelCount != 1 || len(pack.Info.EffectInfos) != 1 {
		t.Fatal("info: ", pack.Info)
	}
	if e := pack.Info.EffectInfos[0]; e.ID != 42 || len(e.Fields) != 2 || e.Fields[1] != 2 {
		t.Error("effect info: ", e)
	}
	if pack.TexturePack == nil || len(pack.TexturePack.Textures) != 2 {
		t.Fatal("texture pack: ", pack.TexturePack)
	}
	if len(pack.Models) != 1 || pack.Models[0].Nodes[0].Name != "body" {
		t.Fatal("models: ", pack.Models)
	}
	if len(pack.MotionPacks) != 1 || len(pack.MotionPacks[0].Data) != 12 {
		t.Error("motion packs: ", pack.MotionPacks)
	}
}

func TestParseModelPackUnknownChunk(t *testing.T) {
	w := &testWriter{}
	writeTestModelPackInfo(w)
	w.align(64)
	w.resource(FileTypeDefault, Identifier(0x4B4E554A), func(start int) {
		w.u32(0)
	})
	_, err := ParseModelPack(bytes.NewReader(w.Bytes()))
	if errors.Cause(err) != ErrUnexpectedData {
		t.Error("expected ErrUnexpectedData: ", err)
	}
}

func TestIdentifierString(t *testing.T) {
	if s := IdentifierModel.String(); s != `"MD00"` {
		t.Error(s)
	}
	if s := Identifier(0x01020304).String(); s != "0x01020304" {
		t.Error(s)
	}
}
