// Package tree walks node trees depth-first.
package tree

import (
	"iter"

	"xdapi/internal/model"
)

// Visit describes one node reached by Walk.
type Visit struct {
	Depth       int        `json:"depth"`
	Type        string     `json:"type"`
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name,omitempty"`
	ResourceUID string     `json:"resource_uid,omitempty"`
	SymbolID    string     `json:"symbol_id,omitempty"`
	Node        model.Node `json:"-"`
}

// Walk yields every node under roots in pre-order, children in document
// order. Roots are at depth 0. Each range over the result starts a fresh
// traversal.
func Walk(roots []model.Node) iter.Seq[Visit] {
	return func(yield func(Visit) bool) {
		walk(roots, 0, yield)
	}
}

func walk(nodes []model.Node, depth int, yield func(Visit) bool) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		v := Visit{
			Depth:       depth,
			Type:        n.NodeType(),
			ID:          n.NodeID(),
			Name:        n.NodeName(),
			ResourceUID: model.ResourceUID(n),
			SymbolID:    n.NodeMeta().SymbolID(),
			Node:        n,
		}
		if !yield(v) {
			return false
		}
		if !walk(n.ChildNodes(), depth+1, yield) {
			return false
		}
	}
	return true
}

// Collect runs Walk over roots and returns the visits.
func Collect(roots []model.Node) []Visit {
	var out []Visit
	for v := range Walk(roots) {
		out = append(out, v)
	}
	return out
}
