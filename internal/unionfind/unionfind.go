// Package unionfind implements a disjoint-set (union-find) structure over
// arbitrary comparable elements, with path compression and union by size.
//
// A DisjointSet is not safe for concurrent use: Find rewrites parent links
// while it walks. Wrap it in a Locked when several goroutines share one.
package unionfind

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateElement is returned by MakeSet when the element is already known.
	ErrDuplicateElement = errors.New("element already exists")
	// ErrUnknownElement is returned when an element was never created in this set.
	ErrUnknownElement = errors.New("unknown element")
)

// DisjointSet partitions known elements into disjoint groups.
type DisjointSet[T comparable] struct {
	parent map[T]T
	size   map[T]int // only read for roots
	order  []T       // creation order, for deterministic enumeration
	groups int
}

// New creates a DisjointSet seeded with values, each in its own group.
func New[T comparable](values ...T) (*DisjointSet[T], error) {
	d := &DisjointSet[T]{
		parent: make(map[T]T, len(values)),
		size:   make(map[T]int, len(values)),
		order:  make([]T, 0, len(values)),
	}
	for _, v := range values {
		if err := d.MakeSet(v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MakeSet adds v as a new singleton group.
func (d *DisjointSet[T]) MakeSet(v T) error {
	if d.parent == nil {
		d.parent = make(map[T]T)
		d.size = make(map[T]int)
	}
	if _, ok := d.parent[v]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateElement, v)
	}
	d.parent[v] = v
	d.size[v] = 1
	d.order = append(d.order, v)
	d.groups++
	return nil
}

// Find returns the root of v's group, compressing the path it walked.
func (d *DisjointSet[T]) Find(v T) (T, error) {
	if _, ok := d.parent[v]; !ok {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrUnknownElement, v)
	}
	return d.root(v), nil
}

// root assumes v is known.
func (d *DisjointSet[T]) root(v T) T {
	// Walk to the root.
	root := v
	for p := d.parent[root]; p != root; p = d.parent[root] {
		root = p
	}
	// Point every node on the path directly at the root.
	for v != root {
		next := d.parent[v]
		d.parent[v] = root
		v = next
	}
	return root
}

// Union merges the groups containing a and b, attaching the smaller tree
// under the larger root. On equal sizes b's root goes under a's root.
// It reports false when a and b were already in the same group.
func (d *DisjointSet[T]) Union(a, b T) (bool, error) {
	if !d.Contains(a) {
		return false, fmt.Errorf("%w: %v", ErrUnknownElement, a)
	}
	if !d.Contains(b) {
		return false, fmt.Errorf("%w: %v", ErrUnknownElement, b)
	}

	rootA, rootB := d.root(a), d.root(b)
	if rootA == rootB {
		return false, nil
	}
	if d.size[rootA] < d.size[rootB] {
		rootA, rootB = rootB, rootA
	}
	d.parent[rootB] = rootA
	d.size[rootA] += d.size[rootB]
	d.groups--
	return true, nil
}

// SizeOf returns the number of elements in v's group.
func (d *DisjointSet[T]) SizeOf(v T) (int, error) {
	root, err := d.Find(v)
	if err != nil {
		return 0, err
	}
	return d.size[root], nil
}

// Connected reports whether a and b are in the same group.
func (d *DisjointSet[T]) Connected(a, b T) (bool, error) {
	rootA, err := d.Find(a)
	if err != nil {
		return false, err
	}
	rootB, err := d.Find(b)
	if err != nil {
		return false, err
	}
	return rootA == rootB, nil
}

// Contains reports whether v was created in this set.
func (d *DisjointSet[T]) Contains(v T) bool {
	_, ok := d.parent[v]
	return ok
}

// Groups returns the current number of disjoint groups.
func (d *DisjointSet[T]) Groups() int { return d.groups }

// Len returns the number of elements ever created.
func (d *DisjointSet[T]) Len() int { return len(d.parent) }

// Elements returns every known element in creation order.
func (d *DisjointSet[T]) Elements() []T {
	out := make([]T, len(d.order))
	copy(out, d.order)
	return out
}

// Components returns every group as a slice of its members. Members keep
// creation order; groups are ordered by their earliest-created member.
func (d *DisjointSet[T]) Components() [][]T {
	index := make(map[T]int, d.groups)
	result := make([][]T, 0, d.groups)
	for _, v := range d.order {
		root := d.root(v)
		i, ok := index[root]
		if !ok {
			i = len(result)
			index[root] = i
			result = append(result, make([]T, 0, d.size[root]))
		}
		result[i] = append(result[i], v)
	}
	return result
}
