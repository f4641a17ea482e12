// Package xdtest builds small in-memory XD containers for tests.
package xdtest

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Entry is a single named file inside a test container.
type Entry struct {
	Name string
	Data []byte
}

// Zip packs entries into a zip container, preserving the given order.
func Zip(t testing.TB, entries ...Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("create zip entry %q: %v", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			t.Fatalf("write zip entry %q: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return buf.Bytes()
}

// Files packs a name -> contents map, sorted by name.
func Files(t testing.TB, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Data: []byte(files[name])})
	}
	return Zip(t, entries...)
}

// WriteFile writes data to a temp file and returns its path.
func WriteFile(t testing.TB, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "document.xd")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write container: %v", err)
	}
	return path
}

// ArtboardEntry is the graphics document path for an artboard entry path.
func ArtboardEntry(path string) string {
	return "artwork/" + path + "/graphics/graphicContent.agc"
}

// MinimalManifest has one artwork section with a single artboard at path p1.
const MinimalManifest = `{"children":[{"path":"artwork","children":[{"id":"a1","name":"Board1","path":"p1"}]}]}`

// Sample returns a container with two artboards, nested groups, a patterned
// fill backed by a resource entry, and a blank-uid pattern.
func Sample(t testing.TB) []byte {
	t.Helper()
	return Files(t, map[string]string{
		"manifest":            SampleManifest,
		ArtboardEntry("ab1"): SampleArtboard1,
		ArtboardEntry("ab2"): SampleArtboard2,
		"resources/img-1":     string(SampleResource),
	})
}

// SampleResource is the bytes stored at resources/img-1 in Sample.
var SampleResource = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0xff}

const SampleManifest = `{
  "id": "doc-1",
  "type": "application/vnd.adobe.sparkler.project+dcx",
  "name": "Sample",
  "manifest-format-version": "3",
  "state": "unmodified",
  "components": [{"id": "c1", "path": "meta.json", "type": "application/json", "rel": "metadata", "width": 10, "height": 20.5}],
  "children": [
    {"id": "r1", "name": "resources", "path": "resources"},
    {"id": "aw", "name": "artwork", "path": "artwork", "children": [
      {"id": "ab1", "name": "Home", "path": "ab1", "components": [{"id": "g1", "path": "graphicContent.agc"}]},
      {"id": "ab2", "name": "Detail", "path": "ab2"}
    ]}
  ],
  "x-future-field": true
}`

const SampleArtboard1 = `{
  "version": "1.5.0",
  "children": [{
    "type": "artboard",
    "id": "top-1",
    "meta": {"ux": {"symbolId": "sym-top"}},
    "artboard": {
      "ref": "ab1",
      "children": [
        {"type": "shape", "name": "Background", "id": "s1",
         "transform": {"a": 1, "b": 0, "c": 0, "d": 1, "tx": 10.5, "ty": 20},
         "style": {"fill": {"type": "pattern", "pattern": {"width": 640, "height": 480.5, "href": "/resources/img-1",
           "meta": {"ux": {"scaleBehavior": "cover", "uid": "img-1", "hrefLastModifiedDate": 1580000000}}}}},
         "shape": {"type": "rect", "x": 0, "y": 0, "width": 640, "height": 480}},
        {"type": "group", "name": "Header", "id": "g1",
         "group": {"children": [
           {"type": "text", "name": "Title", "id": "t1",
            "style": {"fill": {"type": "solid", "color": {"mode": "RGB", "r": 255, "g": 0, "b": 10}},
                      "stroke": {"type": "solid", "color": {"mode": "RGB", "r": 0, "g": 0, "b": 0}, "width": 1.5, "align": "inside"}}},
           {"type": "group", "name": "Icons", "id": "g2",
            "meta": {"ux": {"symbolId": "sym-icons"}},
            "group": {"children": [
              {"type": "shape", "name": "Blank", "id": "s2",
               "style": {"fill": {"type": "pattern", "pattern": {"meta": {"ux": {"uid": "   "}}}}}}
            ]}}
         ]}},
        {"type": "shape", "name": "Footer", "id": "s3", "unknown": [1, 2, 3]}
      ]
    }
  }],
  "resources": {"href": "/resources/graphics/graphicContent.agc"},
  "artboards": {"href": "/artwork/graphics/graphicContent.agc"}
}`

const SampleArtboard2 = `{"version": "1.5.0", "children": []}`
