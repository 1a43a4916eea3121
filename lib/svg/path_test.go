package svg_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"oss.terrastruct.com/diff"

	"oss.terrastruct.com/tefcha/lib/svg"
)

func TestFormatNum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "120", svg.FormatNum(120, -1))
	assert.Equal(t, "0.1", svg.FormatNum(0.1, -1))
	assert.Equal(t, "1.23", svg.FormatNum(1.23456, 2))
	assert.Equal(t, "2", svg.FormatNum(1.999, 2))
	assert.Equal(t, "0", svg.FormatNum(math.Copysign(0, -1), -1))
	assert.Equal(t, "0", svg.FormatNum(-0.001, 2))
}

func TestPathContext(t *testing.T) {
	t.Parallel()

	pc := svg.NewPathContext(2)
	pc.StartAt(1.005, 2)
	pc.L(10, 2)
	pc.Q(12.3456, 4, 10, 6)
	pc.C(1, 2, 3, 4, 5, 6)
	pc.Z()
	diff.AssertStringEq(t, "M 1 2 L 10 2 Q 12.35 4 10 6 C 1 2 3 4 5 6 Z", pc.PathData())
	assert.Equal(t, 1.005, pc.Current.X)

	rel := svg.NewPathContext(-1)
	rel.StartAt(10, 20)
	rel.Relative("l", 0, 30)
	rel.Relative("c", 0, 5, 5, 10, 10, 10)
	diff.AssertStringEq(t, "M 10 20 l 0 30 c 0 5 5 10 10 10", rel.PathData())
	assert.Equal(t, 20., rel.Current.X)
	assert.Equal(t, 60., rel.Current.Y)
}
