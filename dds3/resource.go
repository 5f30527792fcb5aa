package dds3

import (
	"fmt"

	"github.com/pkg/errors"
)

type FileType uint8

const (
	FileTypeDefault       FileType = 1
	FileTypeTexture       FileType = 2
	FileTypeModel         FileType = 6
	FileTypeMotionPack    FileType = 8
	FileTypeTexturePack   FileType = 9
	FileTypeFieldResource FileType = 21
	FileTypeModelPackEnd  FileType = 0xFF
)

// Identifier is the four character code of a resource.
type Identifier uint32

const (
	IdentifierModelPackInfo  Identifier = 0x30424950 // PIB0
	IdentifierTexturePack    Identifier = 0x30505854 // TXP0
	IdentifierTexture        Identifier = 0x30584D54 // TMX0
	IdentifierModel          Identifier = 0x3030444D // MD00
	IdentifierMotionPack     Identifier = 0x3030544D // MT00
	IdentifierModelPackEnd   Identifier = 0x30444E45 // END0
	IdentifierParticle       Identifier = 0x00503344
	IdentifierVideo          Identifier = 0x00555049
	IdentifierFieldScene     Identifier = 0x31444C46 // FLD1
	IdentifierFieldResource2 Identifier = 0x32444C46 // FLD2
)

func (id Identifier) String() string {
	b := []byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)}
	for _, c := range b {
		if c != 0 && (c < 0x20 || c > 0x7e) {
			return fmt.Sprintf("0x%08x", uint32(id))
		}
	}
	return fmt.Sprintf("%q", string(b))
}

const resourceHeaderSize = 16

type ResourceHeader struct {
	FileType     FileType
	IsCompressed bool
	UserID       uint16
	FileSize     uint32
	Identifier   Identifier
	MemorySize   uint32
}

func (r *reader) readResourceHeader() *ResourceHeader {
	h := &ResourceHeader{}
	h.FileType = FileType(r.readUint8())
	h.IsCompressed = r.readUint8() != 0
	h.UserID = r.readUint16()
	h.FileSize = r.readUint32()
	h.Identifier = Identifier(r.readUint32())
	h.MemorySize = r.readUint32()
	return h
}

// readResource reads a resource header at the current position, checks the identifier and
// calls content with the base offset set to the header start.
// The reader is left at the end of the resource unless keepPosition is set.
func (r *reader) readResource(want Identifier, keepPosition bool, content func(h *ResourceHeader)) *ResourceHeader {
	start := r.pos
	h := r.readResourceHeader()
	if r.err != nil {
		return h
	}
	if h.Identifier != want {
		r.failf("resource is %v, expected %v", h.Identifier, want)
		return h
	}
	if h.IsCompressed {
		r.fail(errors.Wrapf(ErrCompressed, "%v at 0x%x", h.Identifier, start))
		return h
	}
	r.pushBase(start)
	content(h)
	if !keepPosition {
		r.seek(start + int(h.FileSize))
	}
	r.popBase()
	return h
}

// BinaryResource is a resource kept as raw bytes.
type BinaryResource struct {
	Header *ResourceHeader
	Data   []byte
}

func (r *reader) readBinaryResource(want Identifier) *BinaryResource {
	res := &BinaryResource{}
	res.Header = r.readResource(want, false, func(h *ResourceHeader) {
		res.Data = append([]byte(nil), r.bytes(int(h.FileSize)-resourceHeaderSize)...)
	})
	return res
}

// peekIdentifier returns the identifier of the resource at the current position.
func (r *reader) peekIdentifier() Identifier {
	if r.pos+resourceHeaderSize > len(r.buf) {
		return 0
	}
	pos := r.pos
	h := r.readResourceHeader()
	r.pos = pos
	return h.Identifier
}
