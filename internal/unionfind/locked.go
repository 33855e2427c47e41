package unionfind

import "sync"

// Locked serializes every operation on a DisjointSet behind one mutex.
// Its methods mirror DisjointSet's.
// Find writes during path compression, so reads take the same exclusive lock.
type Locked[T comparable] struct {
	mu  sync.Mutex
	set *DisjointSet[T]
}

// NewLocked creates a Locked set seeded with values.
func NewLocked[T comparable](values ...T) (*Locked[T], error) {
	set, err := New(values...)
	if err != nil {
		return nil, err
	}
	return &Locked[T]{set: set}, nil
}

// MakeSet adds v as a new singleton group.
func (l *Locked[T]) MakeSet(v T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.MakeSet(v)
}

// Find returns the root of v's group.
func (l *Locked[T]) Find(v T) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Find(v)
}

// Union merges the groups containing a and b. See DisjointSet.Union.
func (l *Locked[T]) Union(a, b T) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Union(a, b)
}

// SizeOf returns the number of elements in v's group.
func (l *Locked[T]) SizeOf(v T) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.SizeOf(v)
}

// Connected reports whether a and b are in the same group.
func (l *Locked[T]) Connected(a, b T) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Connected(a, b)
}

// Contains reports whether v was created in this set.
func (l *Locked[T]) Contains(v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Contains(v)
}

// Groups returns the current number of disjoint groups.
func (l *Locked[T]) Groups() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Groups()
}

// Len returns the number of elements ever created.
func (l *Locked[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Len()
}

// Elements returns every known element in creation order.
func (l *Locked[T]) Elements() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Elements()
}

// Components returns every group as a slice of its members.
func (l *Locked[T]) Components() [][]T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set.Components()
}
