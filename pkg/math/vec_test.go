package math

import (
	"testing"
)

func TestVec2Sub(t *testing.T) {
	a := Vec2{5, 7}
	b := Vec2{3, 4}
	got := a.Sub(b)
	want := Vec2{2, 3}
	if got != want {
		t.Errorf("Vec2.Sub() = %v, want %v", got, want)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 0, -4}

	if got, want := a.Min(b), (Vec3{1, 0, -4}); got != want {
		t.Errorf("Vec3.Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, -2}); got != want {
		t.Errorf("Vec3.Max() = %v, want %v", got, want)
	}
	if got := a.MaxComponent(); got != 5 {
		t.Errorf("Vec3.MaxComponent() = %v, want 5", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{1, 1, 1}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3ArrayRoundTrip(t *testing.T) {
	a := [3]float32{1, 2, 3}
	if V3(a).Array() != a {
		t.Errorf("V3(%v).Array() = %v", a, V3(a).Array())
	}
}
