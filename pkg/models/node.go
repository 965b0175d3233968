package models

import (
	"github.com/taigrr/vitrine/pkg/math3d"
)

// Node is one element of the scene graph. Its local transform is either the
// translation/rotation/scale triple (the form animations write to) or, for
// nodes the asset stores as a raw matrix, Matrix.
type Node struct {
	Name        string
	Translation math3d.Vec3
	Rotation    math3d.Quat
	Scale       math3d.Vec3
	Matrix      *math3d.Mat4

	Meshes   []*Mesh
	Children []*Node

	parent *Node
	world  math3d.Mat4
}

// NewNode creates a node with the identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math3d.QuatIdentity(),
		Scale:    math3d.One3(),
		world:    math3d.Identity(),
	}
}

// Add attaches child under n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the node n is attached to, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() math3d.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	return math3d.Compose(n.Translation, n.Rotation, n.Scale)
}

// World returns the world matrix computed by the last UpdateWorld.
func (n *Node) World() math3d.Mat4 {
	return n.world
}

// UpdateWorld recomputes world matrices for n and its descendants, taking
// parentWorld as the transform above n.
func (n *Node) UpdateWorld(parentWorld math3d.Mat4) {
	n.world = parentWorld.Mul(n.LocalMatrix())
	for _, c := range n.Children {
		c.UpdateWorld(n.world)
	}
}

// parentWorld composes the local matrices of every ancestor of n.
func (n *Node) parentWorld() math3d.Mat4 {
	m := math3d.Identity()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// WorldBounds returns the world-space box around every mesh in the subtree,
// refreshing world matrices first. Each mesh contributes its local box
// transformed to world space.
func (n *Node) WorldBounds() math3d.AABB {
	n.UpdateWorld(n.parentWorld())

	box := math3d.EmptyAABB()
	n.Walk(func(c *Node) bool {
		for _, m := range c.Meshes {
			box = box.Union(m.Bounds().Transform(c.world))
		}
		return true
	})
	return box
}

// TriangleCount returns the number of triangles in the subtree.
func (n *Node) TriangleCount() int {
	count := 0
	n.Walk(func(c *Node) bool {
		for _, m := range c.Meshes {
			count += m.TriangleCount()
		}
		return true
	})
	return count
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}
