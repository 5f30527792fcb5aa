package geom

import (
	"math"
	"testing"
)

func TestDecomposeMatrix(t *testing.T) {
	const eps = 0.00001

	pos := NewVector3(1, 2, 3)
	rot := NewEuler(10*math.Pi/180, 20*math.Pi/180, 30*math.Pi/180, RotationOrderZXY).ToQuaternion()
	scale := NewVector3(1.5, 1.6, 1.7)

	mat := NewTRSMatrix4(pos, rot, scale)
	pos1, rot1, scale1 := mat.Decompose()

	if pos.Sub(pos1).Len() > eps {
		t.Error("pos: ", pos, pos1)
	}
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if scale.Sub(scale1).Len() > eps {
		t.Error("scale: ", scale, scale1)
	}

	mat2 := NewRotationMatrix4FromQuaternion(rot)
	pos1, rot1, scale1 = mat2.Decompose()
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if pos1.Len() > eps {
		t.Error("pos: ", pos1)
	}
	if scale1.Sub(NewVector3(1, 1, 1)).Len() > eps {
		t.Error("scale: ", scale1)
	}
}

func TestRotationMatrix(t *testing.T) {
	const eps = 0.00001

	v := NewRotationXMatrix4(math.Pi / 2).ApplyTo(NewVector3(0, 1, 0))
	if v.Sub(NewVector3(0, 0, 1)).Len() > eps {
		t.Error("rotX: ", v)
	}
	v = NewRotationYMatrix4(math.Pi / 2).ApplyTo(NewVector3(0, 0, 1))
	if v.Sub(NewVector3(1, 0, 0)).Len() > eps {
		t.Error("rotY: ", v)
	}
	v = NewRotationZMatrix4(math.Pi / 2).ApplyTo(NewVector3(1, 0, 0))
	if v.Sub(NewVector3(0, 1, 0)).Len() > eps {
		t.Error("rotZ: ", v)
	}

	e := NewEuler(0.1, 0.2, 0.3, RotationOrderZYX)
	m1 := NewEulerRotationMatrix4(e)
	m2 := NewRotationMatrix4FromQuaternion(e.ToQuaternion())
	for i := range m1 {
		if Abs(m1[i]-m2[i]) > eps {
			t.Fatal("euler matrix != quaternion matrix: ", m1, m2)
		}
	}
}

func TestMatrixApply(t *testing.T) {
	const eps = 0.00001

	m := NewTranslateMatrix4(1, 2, 3).Mul(NewScaleMatrix4(2, 2, 2))
	if v := m.ApplyTo(NewVector3(1, 1, 1)); v.Sub(NewVector3(3, 4, 5)).Len() > eps {
		t.Error("ApplyTo: ", v)
	}
	if v := m.ApplyToNormal(NewVector3(1, 0, 0)); v.Sub(NewVector3(2, 0, 0)).Len() > eps {
		t.Error("ApplyToNormal: ", v)
	}

	inv := m.Inverse()
	if v := inv.ApplyTo(m.ApplyTo(NewVector3(5, 6, 7))); v.Sub(NewVector3(5, 6, 7)).Len() > eps {
		t.Error("Inverse: ", v)
	}
	if !NewScaleMatrix4(1, 1, 1).IsIdentity() {
		t.Error("IsIdentity")
	}
}

func TestMatrixScaled(t *testing.T) {
	const eps = 0.00001

	// weight 0.5 applied to a node at y=10
	m := NewTranslateMatrix4(0, 10, 0).Scaled(0.5)
	if v := m.ApplyTo(NewVector3(2, 0, 0)); v.Sub(NewVector3(1, 5, 0)).Len() > eps {
		t.Error("Scaled.ApplyTo: ", v)
	}
	if v := m.ApplyToNormal(NewVector3(0, 0, 1)); v.Sub(NewVector3(0, 0, 0.5)).Len() > eps {
		t.Error("Scaled.ApplyToNormal: ", v)
	}
}
