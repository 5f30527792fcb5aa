package geom

import (
	"math"
	"testing"
)

func TestQuaternionIdentity(t *testing.T) {
	const eps = 0.00001
	v := NewVector3(1, 2, 3)

	full := NewEuler(0, 2*math.Pi, 0, RotationOrderZYX).ToQuaternion()
	half := NewEuler(0, 0, math.Pi, RotationOrderZYX).ToQuaternion()
	q := NewEuler(0.3, -0.2, 1.1, RotationOrderZYX).ToQuaternion()
	for name, r := range map[string]*Quaternion{
		"zero":    NewEuler(0, 0, 0, RotationOrderZYX).ToQuaternion(),
		"2pi":     full,
		"pi*pi":   half.Mul(half),
		"inverse": q.Mul(q.Inverse()),
	} {
		if d := r.ApplyTo(v).Sub(v); d.Len() > eps {
			t.Error(name, ": ", r.ApplyTo(v))
		}
	}
	if l := q.ApplyTo(v).Len(); Abs(l-v.Len()) > eps {
		t.Error("rotation should keep length: ", l)
	}
}
