package model

import "strings"

type Style struct {
	Fill   *Fill   `json:"fill,omitempty"`
	Stroke *Stroke `json:"stroke,omitempty"`
}

type Fill struct {
	Type    string   `json:"type,omitempty"`
	Color   *Color   `json:"color,omitempty"`
	Pattern *Pattern `json:"pattern,omitempty"`
}

// Pattern is an image fill backed by a resources/{uid} entry.
type Pattern struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Href   string       `json:"href,omitempty"`
	Meta   *PatternMeta `json:"meta,omitempty"`
}

type PatternMeta struct {
	UX *PatternMetaUX `json:"ux,omitempty"`
}

type PatternMetaUX struct {
	ScaleBehavior        string `json:"scaleBehavior,omitempty"`
	UID                  string `json:"uid,omitempty"`
	HrefLastModifiedDate uint64 `json:"hrefLastModifiedDate,omitempty"`
}

type Stroke struct {
	Type  string  `json:"type,omitempty"`
	Color *Color  `json:"color,omitempty"`
	Width float64 `json:"width"`
	Align string  `json:"align,omitempty"`
}

type Color struct {
	Mode string  `json:"mode,omitempty"`
	R    float64 `json:"r"`
	G    float64 `json:"g"`
	B    float64 `json:"b"`
}

// PatternMeta returns fill.pattern.meta, or nil at the first absent link.
func (s *Style) PatternMeta() *PatternMeta {
	if s == nil || s.Fill == nil || s.Fill.Pattern == nil {
		return nil
	}
	return s.Fill.Pattern.Meta
}

// UID returns ux.uid, or "" when it is absent or blank. An empty result
// means the pattern references no resource.
func (m *PatternMeta) UID() string {
	if m == nil || m.UX == nil || strings.TrimSpace(m.UX.UID) == "" {
		return ""
	}
	return m.UX.UID
}
