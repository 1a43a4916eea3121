package tfthemescatalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	t.Parallel()

	theme, ok := Find(2)
	require.True(t, ok)
	assert.Equal(t, "Dark", theme.Name)

	_, ok = Find(42)
	assert.False(t, ok)

	theme, ok = FindByName("grey")
	require.True(t, ok)
	assert.Equal(t, int64(1), theme.ID)

	theme.Rect.Attrs["fill"] = "red"
	assert.NotEqual(t, "red", Grey.Rect.Attrs["fill"])
}

func TestUniqueIDs(t *testing.T) {
	t.Parallel()

	seen := map[int64]string{}
	for _, theme := range Catalog {
		if other, ok := seen[theme.ID]; ok {
			t.Fatalf("%s and %s share id %d", theme.Name, other, theme.ID)
		}
		seen[theme.ID] = theme.Name
	}
}

func TestDerivedColors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Blue.Path.Attrs["stroke"], Blue.ArrowHead.Attrs["fill"])
	assert.NotEqual(t, Blue.Rect.Attrs["stroke"], Blue.Path.Attrs["stroke"])
	assert.Equal(t, Dark.Text.Attrs["fill"], Dark.Label.Attrs["fill"])
}

func TestCLIString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "- Blue: 0\n- Grey: 1\n- Dark: 2\n", CLIString())
}
