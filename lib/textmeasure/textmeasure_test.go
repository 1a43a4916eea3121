package textmeasure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oss.terrastruct.com/tefcha/lib/textmeasure"
	"oss.terrastruct.com/tefcha/tffonts"
	"oss.terrastruct.com/tefcha/tfthemes"
)

func newRuler(t *testing.T) (*textmeasure.Ruler, *tffonts.Font) {
	f, err := tffonts.Default()
	require.NoError(t, err)
	return textmeasure.NewRuler(f), f
}

func TestMeasureTwoLines(t *testing.T) {
	t.Parallel()

	r, f := newRuler(t)
	attrs := map[string]string{"font-size": "14px"}

	size, err := r.Measure(`short\na much longer line`, attrs)
	require.NoError(t, err)
	assert.Equal(t, 28., size.H)

	long, err := f.Outline("a much longer line", 0, 14, 14)
	require.NoError(t, err)
	assert.Equal(t, long.X2(), size.W)

	single, err := r.Measure("a much longer line", attrs)
	require.NoError(t, err)
	assert.Equal(t, size.W, single.W)
	assert.Equal(t, 14., single.H)
}

func TestMeasureEmpty(t *testing.T) {
	t.Parallel()

	r, _ := newRuler(t)
	size, err := r.Measure("", map[string]string{"font-size": "10px"})
	require.NoError(t, err)
	assert.Equal(t, 0., size.W)
	assert.Equal(t, 10., size.H)

	size, err = r.Measure(`\n\n`, map[string]string{"font-size": "10px"})
	require.NoError(t, err)
	assert.Equal(t, 30., size.H)
}

func TestMeasureRequiresPx(t *testing.T) {
	t.Parallel()

	r, _ := newRuler(t)
	for _, attrs := range []map[string]string{nil, {"font-size": "14"}, {"font-size": "1em"}} {
		_, err := r.MeasureFunc()("hi", attrs)
		assert.ErrorIs(t, err, tfthemes.ErrFontSizeUnit)
	}
}

func TestMeasureCachesLines(t *testing.T) {
	t.Parallel()

	r, _ := newRuler(t)
	attrs := map[string]string{"font-size": "14px"}

	first, err := r.Measure(`a\nb\na`, attrs)
	require.NoError(t, err)
	assert.Equal(t, 2, r.CachedLines())

	second, err := r.Measure(`a\nb\na`, attrs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, r.CachedLines())

	_, err = r.Measure("a", map[string]string{"font-size": "20px"})
	require.NoError(t, err)
	assert.Equal(t, 3, r.CachedLines())
}
