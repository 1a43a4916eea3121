package xexec

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPath(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("executable bits")
	}

	a := t.TempDir()
	b := t.TempDir()
	write := func(dir, name string, mode os.FileMode) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), mode))
	}
	write(a, "tefcha-layout-one", 0755)
	write(a, "tefcha-layout-notexec", 0644)
	write(a, "other", 0755)
	write(b, "tefcha-layout-two", 0755)
	require.NoError(t, os.Mkdir(filepath.Join(b, "tefcha-layout-dir"), 0755))

	pathList := strings.Join([]string{a, filepath.Join(a, "missing"), b, a}, string(os.PathListSeparator))
	matches, err := SearchPath(pathList, "tefcha-layout-")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(a, "tefcha-layout-one"),
		filepath.Join(b, "tefcha-layout-two"),
	}, matches)
}
