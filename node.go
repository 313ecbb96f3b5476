package ofxparse

import (
	"bytes"
	"strings"
)

// Node is an element of the recovered OFX tag tree. Leaf elements carry Text, aggregates
// carry Children.
type Node struct {
	Tag      string
	Text     string
	Children []*Node
}

// Anomaly is a recovery the tree builder made that did not lose data, such as a tag placed
// inside an aggregate that does not expect it.
type Anomaly struct {
	// Node is where the anomaly was observed.
	Node    *Node
	Message string
}

// Tree is the result of building a document body.
type Tree struct {
	// Root is the OFX element.
	Root      *Node
	Anomalies []Anomaly
}

// Walk visits n and its descendants in document order. Returning false from fn skips the
// descendants of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindFirst returns the first descendant of n with the given tag in document order.
func (n *Node) FindFirst(tag string) *Node {
	tag = strings.ToUpper(tag)
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
		if found := c.FindFirst(tag); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all descendants of n with the given tag in document order, including
// matches nested inside other matches.
func (n *Node) FindAll(tag string) []*Node {
	tag = strings.ToUpper(tag)
	result := make([]*Node, 0)
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if d.Tag == tag {
				result = append(result, d)
			}
			return true
		})
	}
	return result
}

// Child returns the first direct child of n with the given tag.
func (n *Node) Child(tag string) *Node {
	tag = strings.ToUpper(tag)
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Lookup returns the text of the first descendant with the given tag, and whether it exists.
func (n *Node) Lookup(tag string) (string, bool) {
	if n == nil {
		return "", false
	}
	found := n.FindFirst(tag)
	if found == nil {
		return "", false
	}
	return strings.TrimSpace(found.Text), true
}

// Value returns the text of the first descendant with the given tag, "" when absent.
func (n *Node) Value(tag string) string {
	v, _ := n.Lookup(tag)
	return v
}

// Contains reports whether d is n or one of its descendants.
func (n *Node) Contains(d *Node) bool {
	found := false
	n.Walk(func(c *Node) bool {
		if c == d {
			found = true
		}
		return !found
	})
	return found
}

// String renders n and its descendants as closed, escaped XML.
func (n *Node) String() string {
	var buff bytes.Buffer
	writeNode(n, &buff)
	return buff.String()
}
