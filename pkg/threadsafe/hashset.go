package threadsafe

import (
	"sort"
	"sync"
)

type HashSet[T int | string] struct {
	inner map[T]struct{}
	mux   *sync.Mutex
}

func NewHashSet[T int | string]() *HashSet[T] {
	return &HashSet[T]{
		inner: make(map[T]struct{}),
		mux:   &sync.Mutex{},
	}
}

func (h *HashSet[T]) Add(item T) bool {
	h.mux.Lock()
	defer h.mux.Unlock()
	if _, ok := h.inner[item]; ok {
		return false
	}
	h.inner[item] = struct{}{}
	return true
}

func (h *HashSet[T]) Remove(item T) bool {
	h.mux.Lock()
	defer h.mux.Unlock()
	if _, ok := h.inner[item]; !ok {
		return false
	}
	delete(h.inner, item)
	return true
}

func (h *HashSet[T]) Contains(item T) bool {
	h.mux.Lock()
	defer h.mux.Unlock()
	_, ok := h.inner[item]
	return ok
}

func (h *HashSet[T]) Len() int {
	h.mux.Lock()
	defer h.mux.Unlock()
	return len(h.inner)
}

func (h *HashSet[T]) Clear() {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.inner = make(map[T]struct{})
}

// Items returns a sorted snapshot of the set.
func (h *HashSet[T]) Items() []T {
	h.mux.Lock()
	defer h.mux.Unlock()
	res := make([]T, 0, len(h.inner))
	for item := range h.inner {
		res = append(res, item)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Retain drops every item for which keep returns false and reports how many were dropped.
func (h *HashSet[T]) Retain(keep func(item T) bool) int {
	h.mux.Lock()
	defer h.mux.Unlock()
	dropped := 0
	for item := range h.inner {
		if !keep(item) {
			delete(h.inner, item)
			dropped++
		}
	}
	return dropped
}
