// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package bitm

import (
	"testing"
	"unsafe"
)

func TestNbit(t *testing.T) {
	for _, x := range [...][2]int{
		{int(unsafe.Sizeof(uint(0))) * 8, (&Bitm[uint]{}).nbit()},
		{8, (&Bitm[uint8]{}).nbit()},
		{16, (&Bitm[uint16]{}).nbit()},
		{32, (&Bitm[uint32]{}).nbit()},
		{64, (&Bitm[uint64]{}).nbit()},
	} {
		if x[0] != x[1] {
			t.Fatalf("Bitm[T].nbit:\nhave %v\nwant %v", x[1], x[0])
		}
	}
}

func TestZero(t *testing.T) {
	var m Bitm[uint16]
	if m.Len() != 0 || m.Cap() != 0 || m.Rem() != 0 {
		t.Fatalf("Bitm: zero value\nhave %d/%d/%d\nwant 0/0/0", m.Len(), m.Cap(), m.Rem())
	}
	if _, ok := m.Search(); ok {
		t.Fatal("Bitm.Search: empty map\nhave true\nwant false")
	}
}

func TestSetUnset(t *testing.T) {
	var m Bitm[uint8]
	if i := m.Grow(2); i != 0 {
		t.Fatalf("Bitm.Grow:\nhave %d\nwant 0", i)
	}
	for i := range 11 {
		j, ok := m.Search()
		if !ok || j != i {
			t.Fatalf("Bitm.Search:\nhave %d, %t\nwant %d, true", j, ok, i)
		}
		m.Set(j)
	}
	m.Set(3)
	if m.Len() != 11 || m.Rem() != 5 {
		t.Fatalf("Bitm.Set:\nhave %d set, %d unset\nwant 11, 5", m.Len(), m.Rem())
	}
	m.Unset(9)
	m.Unset(9)
	m.Unset(4)
	if m.IsSet(4) || !m.IsSet(5) || m.Rem() != 7 {
		t.Fatalf("Bitm.Unset:\nhave %d unset\nwant 7", m.Rem())
	}
	if i, _ := m.Search(); i != 4 {
		t.Fatalf("Bitm.Search:\nhave %d\nwant 4", i)
	}
	for range 7 {
		i, _ := m.Search()
		m.Set(i)
	}
	if _, ok := m.Search(); ok || m.Len() != 16 {
		t.Fatal("Bitm.Search: full map\nhave true\nwant false")
	}
	if i := m.Grow(1); i != 16 || m.Cap() != 24 {
		t.Fatalf("Bitm.Grow:\nhave %d, cap %d\nwant 16, cap 24", i, m.Cap())
	}
	if i, _ := m.Search(); i != 16 {
		t.Fatalf("Bitm.Search: after Grow\nhave %d\nwant 16", i)
	}
}
