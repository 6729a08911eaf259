package utils

import (
	"cmp"
	"slices"
)

// Set is an unordered collection of distinct keys.
type Set[K cmp.Ordered] struct {
	local map[K]struct{}
}

func NewSet[K cmp.Ordered]() *Set[K] {
	return &Set[K]{
		local: make(map[K]struct{}),
	}
}

func SetFrom[K cmp.Ordered](items ...K) *Set[K] {
	set := NewSet[K]()
	set.Add(items...)
	return set
}

func (s *Set[K]) Add(keys ...K) {
	for _, k := range keys {
		s.local[k] = struct{}{}
	}
}

func (s *Set[K]) Remove(key K) {
	delete(s.local, key)
}

func (s *Set[K]) Contains(key K) bool {
	_, ok := s.local[key]
	return ok
}

// Items returns the keys in ascending order.
func (s *Set[K]) Items() []K {
	items := make([]K, 0, len(s.local))
	for k := range s.local {
		items = append(items, k)
	}
	slices.Sort(items)
	return items
}

func (s *Set[K]) Size() int {
	return len(s.local)
}
