package model

import "fmt"

// ArtboardDocument is one parsed artwork/{path}/graphics/graphicContent.agc entry.
type ArtboardDocument struct {
	Version   string           `json:"version,omitempty"`
	Children  []*ArtboardChild `json:"children"`
	Resources *Href            `json:"resources,omitempty"`
	Artboards *Href            `json:"artboards,omitempty"`
}

// Href points at another document inside the container.
type Href struct {
	Href string `json:"href"`
}

// Meta holds the subset of node metadata that is read.
type Meta struct {
	UX *MetaUX `json:"ux,omitempty"`
}

type MetaUX struct {
	SymbolID string `json:"symbolId,omitempty"`
}

// SymbolID returns meta.ux.symbolId, or "" if any link is absent.
func (m *Meta) SymbolID() string {
	if m == nil || m.UX == nil {
		return ""
	}
	return m.UX.SymbolID
}

// ArtboardChild is a top-level node of an artboard document. Its nested
// content lives under Artboard rather than Group.
type ArtboardChild struct {
	Type     string           `json:"type"`
	ID       string           `json:"id,omitempty"`
	Meta     *Meta            `json:"meta,omitempty"`
	Style    *Style           `json:"style,omitempty"`
	Artboard *ArtboardContent `json:"artboard,omitempty"`
}

// ArtboardContent is the canvas body of a top-level artboard node.
type ArtboardContent struct {
	Children []*GroupChild `json:"children"`
	Meta     *Meta         `json:"meta,omitempty"`
	Ref      string        `json:"ref,omitempty"`
}

// GroupChild is a node at any depth below a top-level artboard node.
type GroupChild struct {
	Type      string     `json:"type"`
	Name      string     `json:"name,omitempty"`
	ID        string     `json:"id,omitempty"`
	Meta      *Meta      `json:"meta,omitempty"`
	Transform *Transform `json:"transform,omitempty"`
	Group     *Group     `json:"group,omitempty"`
	Style     *Style     `json:"style,omitempty"`
	Shape     *Shape     `json:"shape,omitempty"`
}

// Group is the only recursive construct in the tree.
type Group struct {
	Children []*GroupChild `json:"children"`
}

// Transform is a 2x3 affine matrix.
type Transform struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	C  float64 `json:"c"`
	D  float64 `json:"d"`
	TX float64 `json:"tx"`
	TY float64 `json:"ty"`
}

// Shape is a shape type with its axis-aligned bounds.
type Shape struct {
	Type   string  `json:"type,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is the common view over ArtboardChild and GroupChild. Both may hold
// nested nodes; consumers must check presence of Style, Group and Shape
// rather than assume they are exclusive.
type Node interface {
	NodeType() string
	NodeID() string
	NodeName() string
	NodeStyle() *Style
	NodeMeta() *Meta
	ChildNodes() []Node
}

var (
	_ Node = (*ArtboardChild)(nil)
	_ Node = (*GroupChild)(nil)
)

func (n *ArtboardChild) NodeType() string  { return n.Type }
func (n *ArtboardChild) NodeID() string    { return n.ID }
func (n *ArtboardChild) NodeName() string  { return "" }
func (n *ArtboardChild) NodeStyle() *Style { return n.Style }
func (n *ArtboardChild) NodeMeta() *Meta   { return n.Meta }

func (n *ArtboardChild) ChildNodes() []Node {
	if n.Artboard == nil {
		return nil
	}
	return groupNodes(n.Artboard.Children)
}

func (n *GroupChild) NodeType() string  { return n.Type }
func (n *GroupChild) NodeID() string    { return n.ID }
func (n *GroupChild) NodeName() string  { return n.Name }
func (n *GroupChild) NodeStyle() *Style { return n.Style }
func (n *GroupChild) NodeMeta() *Meta   { return n.Meta }

func (n *GroupChild) ChildNodes() []Node {
	if n.Group == nil {
		return nil
	}
	return groupNodes(n.Group.Children)
}

func groupNodes(children []*GroupChild) []Node {
	nodes := make([]Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

// Nodes returns the document's top-level children as Nodes.
func (d *ArtboardDocument) Nodes() []Node {
	if d == nil {
		return nil
	}
	nodes := make([]Node, 0, len(d.Children))
	for _, c := range d.Children {
		if c != nil {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

// ResourceUID returns the pattern resource key of n's fill, or "".
func ResourceUID(n Node) string {
	if n == nil {
		return ""
	}
	return n.NodeStyle().PatternMeta().UID()
}

// MissingFields lists JSON pointers of required fields absent from d.
// Every node at every depth must carry a type tag.
func (d *ArtboardDocument) MissingFields() []string {
	var missing []string
	for i, c := range d.Children {
		ptr := fmt.Sprintf("/children/%d", i)
		if c == nil {
			missing = append(missing, ptr)
			continue
		}
		if c.Type == "" {
			missing = append(missing, ptr+"/type")
		}
		if c.Artboard != nil {
			missing = groupMissing(ptr+"/artboard", c.Artboard.Children, missing)
		}
	}
	return missing
}

func groupMissing(ptr string, children []*GroupChild, missing []string) []string {
	for i, c := range children {
		p := fmt.Sprintf("%s/children/%d", ptr, i)
		if c == nil {
			missing = append(missing, p)
			continue
		}
		if c.Type == "" {
			missing = append(missing, p+"/type")
		}
		if c.Group != nil {
			missing = groupMissing(p+"/group", c.Group.Children, missing)
		}
	}
	return missing
}
