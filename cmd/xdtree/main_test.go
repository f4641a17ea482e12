package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdapi/internal/xdtest"
)

func init() {
	color.NoColor = true
}

func TestRun_PrintsTree(t *testing.T) {
	path := xdtest.WriteFile(t, xdtest.Sample(t))
	var stdout, stderr bytes.Buffer

	code := run([]string{"--no-color", path}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	want := strings.Join([]string{
		"- " + path + "(Xd)",
		"    - Home(Artboard)",
		"        - Background(shape) / img-1, ",
		"        - Header(group) / , ",
		"            - Title(text) / , ",
		"            - Icons(group) / , sym-icons",
		"                - Blank(shape) / , ",
		"        - Footer(shape) / , ",
		"    - Detail(Artboard)",
		"",
	}, "\n")
	assert.Equal(t, want, stdout.String())
}

func TestRun_Resources(t *testing.T) {
	path := xdtest.WriteFile(t, xdtest.Sample(t))
	var stdout, stderr bytes.Buffer

	code := run([]string{"--no-color", "--resources", path}, &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "- Background(shape) / img-1,  [10 bytes]\n")
}

func TestRun_MissingResource(t *testing.T) {
	data := xdtest.Files(t, map[string]string{
		"manifest":                 xdtest.SampleManifest,
		xdtest.ArtboardEntry("ab1"): xdtest.SampleArtboard1,
		xdtest.ArtboardEntry("ab2"): xdtest.SampleArtboard2,
	})
	path := xdtest.WriteFile(t, data)
	var stdout, stderr bytes.Buffer

	code := run([]string{"--resources", path}, &stdout, &stderr)

	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "img-1,  [missing]")
}

func TestRun_Errors(t *testing.T) {
	t.Run("no file argument", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 2, run(nil, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "usage: xdtree")
	})

	t.Run("unknown flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, 2, run([]string{"--bogus", "a.xd"}, &stdout, &stderr))
	})

	t.Run("load failure", func(t *testing.T) {
		path := xdtest.WriteFile(t, []byte("not a zip"))
		var stdout, stderr bytes.Buffer

		assert.Equal(t, 1, run([]string{path}, &stdout, &stderr))
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "xdtree: load xd: archive_open")
	})
}
