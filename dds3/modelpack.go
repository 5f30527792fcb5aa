package dds3

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// ModelPack is the content of a .PB file.
type ModelPack struct {
	Info        *ModelPackInfo
	Effects     []*BinaryResource
	TexturePack *TexturePack
	Models      []*Model
	MotionPacks []*BinaryResource
}

type ModelPackInfo struct {
	ModelCount     int
	EffectCount    int
	AnimationCount int
	EffectInfos    []*EffectInfo
}

type EffectInfo struct {
	ID     int32
	Fields []int16
}

const modelPackInfoBOM = 0xFFFFFFFE

func (r *reader) readModelPackInfo() *ModelPackInfo {
	info := &ModelPackInfo{}
	r.readResource(IdentifierModelPackInfo, false, func(h *ResourceHeader) {
		if bom := r.readUint32(); bom != modelPackInfoBOM && r.err == nil {
			r.failf("model pack info byte order mark 0x%x", bom)
			return
		}
		r.readUint32() // info offset
		info.ModelCount = int(r.readInt16())
		r.readInt16()
		effectInfoCount := int(r.readInt16())
		info.EffectCount = int(r.readInt16())
		info.AnimationCount = int(r.readInt16())
		r.readInt16()
		for i := 0; i < effectInfoCount && r.err == nil; i++ {
			e := &EffectInfo{ID: r.readInt32()}
			size := int(r.readInt32())
			if size < 8 {
				r.failf("effect info size %d", size)
				return
			}
			e.Fields = r.readInt16s((size - 8) / 2)
			info.EffectInfos = append(info.EffectInfos, e)
		}
	})
	return info
}

// LoadModelPack reads a .PB file.
func LoadModelPack(path string) (*ModelPack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseModelPack(f)
}

func ParseModelPack(r io.Reader) (*ModelPack, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return newReader(b).readModelPack()
}

func (r *reader) readModelPack() (*ModelPack, error) {
	pack := &ModelPack{}
	for r.err == nil && r.pos+resourceHeaderSize <= r.len() {
		start := r.pos
		h := r.readResourceHeader()
		r.seek(start)
		if r.err != nil {
			break
		}
		if h.FileType == FileTypeModelPackEnd || h.Identifier == IdentifierModelPackEnd {
			break
		}
		end := align(start+int(h.FileSize), 64)

		switch h.Identifier {
		case IdentifierModelPackInfo:
			pack.Info = r.readModelPackInfo()
		case IdentifierParticle, IdentifierVideo:
			pack.Effects = append(pack.Effects, r.readBinaryResource(h.Identifier))
		case IdentifierTexturePack:
			pack.TexturePack = r.readTexturePack()
			continue
		case IdentifierModel:
			pack.Models = append(pack.Models, r.readModel())
		case IdentifierMotionPack:
			pack.MotionPacks = append(pack.MotionPacks, r.readBinaryResource(h.Identifier))
		default:
			return nil, errors.Wrapf(ErrUnexpectedData, "unexpected chunk %v in model pack at 0x%x", h.Identifier, start)
		}
		if end > r.len() {
			end = r.len()
		}
		r.seek(end)
	}
	if r.err != nil {
		return nil, errors.Wrap(r.err, "model pack")
	}
	return pack, nil
}
