package model

import "fmt"

// ArtworkPath is the manifest path of the section listing artboards.
const ArtworkPath = "artwork"

// Manifest is the container's top-level index, stored in the "manifest" entry.
type Manifest struct {
	ID            string              `json:"id,omitempty"`
	Type          string              `json:"type,omitempty"`
	Name          string              `json:"name,omitempty"`
	FormatVersion string              `json:"manifest-format-version,omitempty"`
	State         string              `json:"state,omitempty"`
	Components    []ManifestComponent `json:"components,omitempty"`
	Children      []ManifestEntry     `json:"children,omitempty"`
}

// ManifestEntry names a directory-like section of the container. Artboard
// entries live under the single entry whose Path is ArtworkPath.
type ManifestEntry struct {
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name,omitempty"`
	Path       string              `json:"path"`
	Children   []ManifestEntry     `json:"children,omitempty"`
	Components []ManifestComponent `json:"components,omitempty"`
}

// ManifestComponent describes a file belonging to a manifest entry.
type ManifestComponent struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name,omitempty"`
	Path   string  `json:"path,omitempty"`
	Type   string  `json:"type,omitempty"`
	State  string  `json:"state,omitempty"`
	Rel    string  `json:"rel,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// EntriesWithPath returns the top-level entries whose path equals path.
func (m *Manifest) EntriesWithPath(path string) []ManifestEntry {
	if m == nil {
		return nil
	}
	var out []ManifestEntry
	for _, c := range m.Children {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// MissingFields lists JSON pointers of required fields absent from m.
func (m *Manifest) MissingFields() []string {
	var missing []string
	for i := range m.Children {
		missing = m.Children[i].missingFields(fmt.Sprintf("/children/%d", i), missing)
	}
	return missing
}

func (e *ManifestEntry) missingFields(ptr string, missing []string) []string {
	if e.Path == "" {
		missing = append(missing, ptr+"/path")
	}
	for i := range e.Children {
		missing = e.Children[i].missingFields(fmt.Sprintf("%s/children/%d", ptr, i), missing)
	}
	return missing
}
