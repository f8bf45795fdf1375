package stroke

import (
	"iter"
	"sync/atomic"
)

// Seq is a persistent append-only sequence. Append returns a new Seq and
// leaves the receiver untouched, so a Seq value can be shared freely
// between goroutines once published.
//
// Versions derived from one another share a backing array. The version
// holding the newest element appends in place; any other version copies
// before appending. Repeated appends to the newest version are therefore
// amortised O(1).
type Seq[T any] struct {
	items []T
	// tip is the number of slots claimed in the shared backing array.
	tip *atomic.Int64
}

// SeqOf returns a sequence holding a copy of items.
func SeqOf[T any](items ...T) Seq[T] {
	var s Seq[T]
	for _, it := range items {
		s = s.Append(it)
	}
	return s
}

// Append returns a sequence with v added at the end.
func (s Seq[T]) Append(v T) Seq[T] {
	n := len(s.items)
	if s.tip != nil && n < cap(s.items) && s.tip.CompareAndSwap(int64(n), int64(n+1)) {
		items := s.items[:n+1]
		items[n] = v
		return Seq[T]{items: items, tip: s.tip}
	}
	grown := make([]T, n, growCap(n))
	copy(grown, s.items)
	grown = append(grown, v)
	tip := new(atomic.Int64)
	tip.Store(int64(n + 1))
	return Seq[T]{items: grown, tip: tip}
}

func growCap(n int) int {
	if n < 8 {
		return 16
	}
	return n * 2
}

// Len reports the number of elements.
func (s Seq[T]) Len() int { return len(s.items) }

// At returns the i-th element. It panics if i is out of range.
func (s Seq[T]) At(i int) T { return s.items[i] }

// Last returns the final element and whether the sequence is non-empty.
func (s Seq[T]) Last() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Slice returns a copy of the elements.
func (s Seq[T]) Slice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// All iterates over the elements in insertion order.
func (s Seq[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.items {
			if !yield(i, v) {
				return
			}
		}
	}
}
