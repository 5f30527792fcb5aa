// Package dds3 reads models and textures of the PlayStation 2 DDS3 engine
// (Shin Megami Tensei III: Nocturne, Digital Devil Saga).
package dds3

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedData is the cause of every validation failure.
	ErrUnexpectedData = errors.New("unexpected data")
	// ErrCompressed is returned for compressed resources.
	ErrCompressed = errors.New("compressed resources are not supported")
)

// Color is an 8 bit RGBA color as stored in the file.
type Color struct {
	R, G, B, A uint8
}

type Triangle [3]int

// NodeWeight is the influence of a node on a vertex.
type NodeWeight struct {
	NodeIndex int
	Weight    float32
}
