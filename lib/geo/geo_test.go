package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeMidpoints(t *testing.T) {
	t.Parallel()

	b := NewBox(NewPoint(0, 0), 40, 20)
	exp := Points{NewPoint(20, 0), NewPoint(40, 10), NewPoint(20, 20), NewPoint(0, 10)}
	got := b.EdgeMidpoints()
	for i := range exp {
		if !exp[i].Equals(got[i]) {
			t.Fatalf("vertex %d: expected %s, got %s", i, exp[i].ToString(), got[i].ToString())
		}
	}

	shifted := NewBox(NewPoint(5, 7), 10, 4).EdgeMidpoints()
	assert.Equal(t, "(10, 7), (15, 9), (10, 11), (5, 9)", shifted.ToString())
}

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	var b BoundingBox
	assert.True(t, b.IsEmpty())

	b.AddPoint(3, 4)
	assert.False(t, b.IsEmpty())
	assert.Equal(t, 0., b.Width())

	b.AddPoint(-1, 10)
	assert.Equal(t, -1., b.X1)
	assert.Equal(t, 3., b.X2)
	assert.Equal(t, 4., b.Y1)
	assert.Equal(t, 10., b.Y2)
}

func TestBoundingBoxQuad(t *testing.T) {
	t.Parallel()

	// Apex of this curve is at y=5, halfway to its control point.
	var b BoundingBox
	b.AddQuad(0, 0, 5, 10, 10, 0)
	assert.Equal(t, 0., b.X1)
	assert.Equal(t, 10., b.X2)
	assert.Equal(t, 0., b.Y1)
	assert.Equal(t, 5., b.Y2)

	var line BoundingBox
	line.AddQuad(0, 0, 5, 5, 10, 10)
	assert.Equal(t, 10., line.Width())
	assert.Equal(t, 10., line.Height())
}

func TestBoundingBoxUnion(t *testing.T) {
	t.Parallel()

	var a, b BoundingBox
	a.AddPoint(0, 0)
	a.Union(&b)
	assert.Equal(t, 0., a.Width())

	b.AddPoint(7, -2)
	a.Union(&b)
	assert.Equal(t, 7., a.X2)
	assert.Equal(t, -2., a.Y1)
}
