package ofxparse

import (
	"errors"
)

// NodeStack is a stack of open tree nodes.
type NodeStack interface {
	Push(*Node)
	Pop() (*Node, error)
	Peek() *Node
	// At returns the node i positions below the top, nil when out of range.
	At(i int) *Node
	Size() int
	Dump() []string
}

// stack is a stack of node pointers.
type stack struct {
	items []*Node
}

// NewStack returns an initialized empty stack.
func NewStack() NodeStack {
	return &stack{
		items: make([]*Node, 0),
	}
}

// Push adds the given node to top of stack.
func (s *stack) Push(n *Node) {
	s.items = append(s.items, n)
}

// Pop removes and returns the topmost node of the stack.
func (s *stack) Pop() (*Node, error) {
	l := len(s.items)
	if l == 0 {
		return nil, errors.New("error - popping from empty stack")
	}
	i := s.items[l-1]
	s.items = s.items[:l-1]
	return i, nil
}

// Peek returns the topmost node without removing it, nil if the stack is empty.
func (s *stack) Peek() *Node {
	return s.At(0)
}

func (s *stack) At(i int) *Node {
	idx := len(s.items) - 1 - i
	if i < 0 || idx < 0 {
		return nil
	}
	return s.items[idx]
}

// Size returns the current size of the stack.
func (s *stack) Size() int {
	return len(s.items)
}

// Dump returns the tags on the stack, bottom first, for debugging.
func (s *stack) Dump() []string {
	result := make([]string, 0, len(s.items))
	for _, item := range s.items {
		result = append(result, item.Tag)
	}
	return result
}
