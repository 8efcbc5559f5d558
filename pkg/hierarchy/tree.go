package hierarchy

import (
	"github.com/cuemby/catalogengine/pkg/types"
)

// Node is one node of an ENTITY_TREE: a value Entity plus an
// insertion-ordered map of child nodes keyed by string (spec.md §4.E).
type Node struct {
	value    types.Entity
	order    []string
	children map[string]*Node
}

// NewNode builds a leaf Node holding value, with no children yet.
func NewNode(value types.Entity) *Node {
	return &Node{value: value, children: make(map[string]*Node)}
}

// Value returns the Entity held at this node.
func (n *Node) Value() types.Entity { return n.value }

// Get returns the child at key.
func (n *Node) Get(key string) (*Node, bool) {
	c, ok := n.children[key]
	return c, ok
}

// Put inserts child at key, overwriting any existing child there.
func (n *Node) Put(key string, child *Node) error {
	if _, exists := n.children[key]; !exists {
		n.order = append(n.order, key)
	}
	n.children[key] = child
	return nil
}

// Remove deletes the child at key and all of its descendants (cascade
// delete per spec.md §4.E).
func (n *Node) Remove(key string) error {
	if _, exists := n.children[key]; !exists {
		return noSuchNode("Node.Remove", key)
	}
	delete(n.children, key)
	for i, k := range n.order {
		if k == key {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return nil
}

// ChildKeys returns this node's child keys in insertion order.
func (n *Node) ChildKeys() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Tree is the ENTITY_TREE container: a rooted tree of Nodes, traversed
// depth-first by insertion order (spec.md §4.E).
type Tree struct {
	name       string
	modifiable bool
	root       *Node
}

// NewTree builds an ENTITY_TREE hierarchy rooted at rootValue.
func NewTree(name string, modifiable bool, rootValue types.Entity) *Tree {
	return &Tree{name: name, modifiable: modifiable, root: NewNode(rootValue)}
}

func (t *Tree) Name() string              { return t.name }
func (t *Tree) Kind() types.HierarchyKind { return types.EntityTree }
func (t *Tree) Modifiable() bool          { return t.modifiable }

// SetModifiable overrides the modifiable flag directly, bypassing
// AddAtPath's gate. Loaders build a container as modifiable, populate it,
// then apply the persisted flag with this method.
func (t *Tree) SetModifiable(modifiable bool) { t.modifiable = modifiable }

// Size counts every node in the tree, including the root.
func (t *Tree) Size() int {
	n := 0
	var walk func(*Node)
	walk = func(node *Node) {
		n++
		for _, k := range node.order {
			walk(node.children[k])
		}
	}
	walk(t.root)
	return n
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// NodeAt resolves path, a sequence of keys from the root, to a node.
func (t *Tree) NodeAt(path []string) (*Node, error) {
	cur := t.root
	for _, key := range path {
		child, ok := cur.Get(key)
		if !ok {
			return nil, noSuchNode("Tree.NodeAt", key)
		}
		cur = child
	}
	return cur, nil
}

// AddAtPath adds child under the existing parent identified by
// parentPath, keyed by key (spec.md §4.E: "absent parent is an error").
func (t *Tree) AddAtPath(parentPath []string, key string, value types.Entity) error {
	if !t.modifiable {
		return notModifiable("Tree.AddAtPath", t.name)
	}
	parent, err := t.NodeAt(parentPath)
	if err != nil {
		return err
	}
	return parent.Put(key, NewNode(value))
}

// RemoveAtPath removes the node identified by path from its parent,
// cascading to descendants.
func (t *Tree) RemoveAtPath(path []string) error {
	if !t.modifiable {
		return notModifiable("Tree.RemoveAtPath", t.name)
	}
	if len(path) == 0 {
		return noSuchNode("Tree.RemoveAtPath", "<root>")
	}
	parent, err := t.NodeAt(path[:len(path)-1])
	if err != nil {
		return err
	}
	return parent.Remove(path[len(path)-1])
}
