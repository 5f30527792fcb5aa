package dds3

import (
	"github.com/binzume/dds3conv/geom"
)

type Node struct {
	Name        string
	Field00     int32
	Index       int
	ParentIndex int // -1 for root nodes
	Parent      *Node

	// Rotation is XYZ euler angles in radians.
	Rotation *geom.Vector3
	Position *geom.Vector3
	Scale    *geom.Vector3

	BoundingBox         *BoundingBox
	Geometry            *Geometry
	DeprecatedMeshList  *MeshList
	DeprecatedMeshList2 *MeshList
}

type BoundingBox struct {
	Min, Max *geom.Vector3
}

func (r *reader) readNode() *Node {
	n := &Node{}
	n.Field00 = r.readInt32()
	r.expectInt32(0, "node field04")
	n.Index = int(r.readInt32())
	n.ParentIndex = int(r.readInt32())
	n.Rotation = r.readVector3()
	r.readFloat()
	n.Position = r.readVector3()
	r.readFloat()
	n.Scale = r.readVector3()
	r.readFloat()

	r.atOffset(r.readOffset(), func() {
		n.BoundingBox = &BoundingBox{Min: r.readVector3(), Max: r.readVector3()}
	})
	r.atOffset(r.readOffset(), func() {
		if n.BoundingBox != nil {
			n.Geometry = r.readGeometry()
		} else {
			n.DeprecatedMeshList = r.readMeshList()
		}
	})
	r.expectInt32(0, "node field48")
	r.atOffset(r.readOffset(), func() {
		n.DeprecatedMeshList2 = r.readMeshList()
	})
	return n
}

// Euler returns the node rotation. X is applied first.
func (n *Node) Euler() *geom.EulerAngles {
	return geom.NewEuler(n.Rotation.X, n.Rotation.Y, n.Rotation.Z, geom.RotationOrderZYX)
}

// LocalTransform returns T * S * Rz * Ry * Rx.
func (n *Node) LocalTransform() *geom.Matrix4 {
	rot := geom.NewEulerRotationMatrix4(n.Euler())
	return geom.NewTranslateMatrix4(n.Position.X, n.Position.Y, n.Position.Z).
		Mul(geom.NewScaleMatrix4(n.Scale.X, n.Scale.Y, n.Scale.Z)).
		Mul(rot)
}

func (n *Node) WorldTransform() *geom.Matrix4 {
	if n.Parent == nil {
		return n.LocalTransform()
	}
	return n.Parent.WorldTransform().Mul(n.LocalTransform())
}
