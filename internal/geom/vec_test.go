package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecArithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	assert.Equal(t, V(4, 2), a.Add(b))
	assert.Equal(t, V(2, 6), a.Sub(b))
	assert.Equal(t, V(6, 8), a.Scale(2))
	assert.InDelta(t, -5.0, a.Dot(b), 1e-12)
	assert.InDelta(t, -10.0, a.Cross(b), 1e-12)
	assert.InDelta(t, 25.0, a.LenSq(), 1e-12)
}

func TestHitNode(t *testing.T) {
	p := V(10, 10)

	assert.True(t, HitNode(p, 5, V(12, 13)))
	assert.True(t, HitNode(p, 5, V(10, 10)))
	assert.False(t, HitNode(p, 5, V(14, 13)))
	// Boundary is exclusive.
	assert.False(t, HitNode(p, 5, V(15, 10)))
}

func TestHitSegment(t *testing.T) {
	a := V(0, 0)
	b := V(100, 0)

	tests := []struct {
		name string
		q    Vec
		want bool
	}{
		{"midpoint", V(50, 0), true},
		{"within tolerance above", V(50, 9), true},
		{"beyond tolerance above", V(50, 11), false},
		{"just past end within extension", V(105, 0), true},
		{"past extended end", V(115, 0), false},
		{"before start within extension", V(-5, 0), true},
		{"before extended start", V(-15, 0), false},
		{"endpoint", V(100, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HitSegment(a, b, 10, tt.q))
		})
	}
}

func TestHitSegmentDegenerate(t *testing.T) {
	a := V(5, 5)
	b := V(5.05, 5)

	// A near-zero-length segment never hits, even at its own location.
	assert.False(t, HitSegment(a, b, 10, a))
	assert.False(t, HitSegment(a, b, 10, V(5, 6)))
}
