package geom

import "math"

func Abs(v Element) Element {
	if v < 0 {
		return -v
	}
	return v
}

func Clamp(v, min, max Element) Element {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func RadToDeg(v Element) Element {
	return v * 180 / math.Pi
}

func DegToRad(v Element) Element {
	return v * math.Pi / 180
}
