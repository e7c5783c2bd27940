// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitm defines a growable bitmap used to
// allocate small integer identifiers.
package bitm

import (
	"math/bits"
	"unsafe"
)

// Uint represents the granularity of a bitmap.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Bitm is a growable bitmap with custom granularity.
// The zero value is an empty map.
type Bitm[T Uint] struct {
	m   []T
	rem int
}

// nbit returns the number of bits in T.
func (m *Bitm[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits set in the map.
func (m *Bitm[_]) Len() int { return m.Cap() - m.rem }

// Cap returns the number of bits in the map.
func (m *Bitm[_]) Cap() int { return len(m.m) * m.nbit() }

// Rem returns the number of bits not set in the map.
func (m *Bitm[_]) Rem() int { return m.rem }

// Grow adds n words of unset bits to the map.
// It returns the index of the first new bit.
func (m *Bitm[T]) Grow(n int) int {
	i := m.Cap()
	m.m = append(m.m, make([]T, n)...)
	m.rem += n * m.nbit()
	return i
}

// IsSet returns whether bit i is set.
func (m *Bitm[T]) IsSet(i int) bool {
	nb := m.nbit()
	return m.m[i/nb]&(T(1)<<(i%nb)) != 0
}

// Set sets bit i.
func (m *Bitm[T]) Set(i int) {
	nb := m.nbit()
	b := T(1) << (i % nb)
	if m.m[i/nb]&b == 0 {
		m.m[i/nb] |= b
		m.rem--
	}
}

// Unset unsets bit i.
func (m *Bitm[T]) Unset(i int) {
	nb := m.nbit()
	b := T(1) << (i % nb)
	if m.m[i/nb]&b != 0 {
		m.m[i/nb] &^= b
		m.rem++
	}
}

// Search returns the index of the first unset bit.
// It returns false if every bit is set.
func (m *Bitm[T]) Search() (int, bool) {
	if m.rem == 0 {
		return 0, false
	}
	for i, w := range m.m {
		if w != ^T(0) {
			return i*m.nbit() + bits.TrailingZeros64(uint64(^w)), true
		}
	}
	// Should never happen.
	panic("bitm: inconsistent bit count")
}
