// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/gviegas/scenegl/internal/bitm"
)

// idTable assigns identifiers of type I to values of
// type V. Identifiers are small integers, reused after
// removal. Values are kept densely packed so they can
// be iterated without gaps.
type idTable[I ~int, V any] struct {
	// Position in vals of each identifier, or -1.
	pos  []int
	used bitm.Bitm[uint32]
	vals []V
	// Identifier of each element of vals.
	ids []I
}

// add inserts v into t and returns its identifier.
func (t *idTable[I, V]) add(v V) I {
	if t.used.Rem() == 0 {
		// Double the capacity, one word at least.
		n := max(1, t.used.Cap()/32)
		t.used.Grow(n)
		for range 32 * n {
			t.pos = append(t.pos, -1)
		}
	}
	i, ok := t.used.Search()
	if !ok {
		// Should never happen.
		panic("engine: no free identifier after growing")
	}
	t.used.Set(i)
	t.pos[i] = len(t.vals)
	t.vals = append(t.vals, v)
	t.ids = append(t.ids, I(i))
	return I(i)
}

// del removes the value identified by id and returns it.
// The last value takes its place in the packed order.
// id must belong to t.
func (t *idTable[I, V]) del(id I) V {
	p := t.pos[id]
	v := t.vals[p]
	last := len(t.vals) - 1
	if p < last {
		t.vals[p] = t.vals[last]
		t.ids[p] = t.ids[last]
		t.pos[t.ids[p]] = p
	}
	var zero V
	t.vals[last] = zero
	t.vals = t.vals[:last]
	t.ids = t.ids[:last]
	t.pos[id] = -1
	t.used.Unset(int(id))
	return v
}

// has returns whether id belongs to t.
func (t *idTable[I, V]) has(id I) bool {
	return int(id) >= 0 && int(id) < len(t.pos) && t.pos[id] >= 0
}

// at returns the value identified by id.
// id must belong to t.
func (t *idTable[I, V]) at(id I) V { return t.vals[t.pos[id]] }

// values returns the values of t in packed order.
// The slice aliases t and must not be modified.
func (t *idTable[I, V]) values() []V { return t.vals }

func (t *idTable[_, _]) len() int { return len(t.vals) }
