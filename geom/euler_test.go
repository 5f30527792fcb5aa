package geom

import (
	"math"
	"testing"
)

func TestEulerQuaternionRoundTrip(t *testing.T) {
	const eps = 0.00001

	for _, c := range []struct {
		order   RotationOrder
		x, y, z float32
	}{
		{RotationOrderZYX, 10, 20, 30},
		{RotationOrderZYX, 0, 90, 10},
		{RotationOrderZYX, -45, 5, 60},
		{RotationOrderXYZ, 10, 20, 30},
		{RotationOrderYXZ, 90, 10, 0},
		{RotationOrderZXY, 10, 20, 30},
	} {
		e1 := NewEuler(DegToRad(c.x), DegToRad(c.y), DegToRad(c.z), c.order)
		q := e1.ToQuaternion()
		if Abs(q.Len()-1) > eps {
			t.Error("quaternion is not normalized: ", c)
		}
		e2 := NewEulerFromQuaternion(q, c.order)
		if e1.Vector3.Sub(&e2.Vector3).Len() > eps {
			t.Error("euler: ", c, e2)
		}
	}
}

func TestEulerDegrees(t *testing.T) {
	d := NewEuler(math.Pi/2, -math.Pi, 0, RotationOrderZYX).Degrees()
	if d.Sub(NewVector3(90, -180, 0)).Len() > 0.0001 {
		t.Error("Degrees: ", d)
	}
}
