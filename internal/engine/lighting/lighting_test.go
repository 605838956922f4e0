package lighting

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestDefault(t *testing.T) {
	l := Default()
	if l.Ambient != 0.3 || l.Diffuse != 0.7 || l.Specular != 1 {
		t.Errorf("unexpected default light %+v", l)
	}

	d := l.Normalized()
	inv := float32(1 / math.Sqrt(3))
	for i := range d {
		if !near(d[i], inv) {
			t.Errorf("component %d = %v, want %v", i, d[i], inv)
		}
	}
}

func TestNormalizedZero(t *testing.T) {
	l := Directional{}
	if got := l.Normalized(); got != [3]float32{0, 0, 1} {
		t.Errorf("zero direction normalized to %v, want (0,0,1)", got)
	}
}
