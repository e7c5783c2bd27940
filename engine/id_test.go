// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"slices"
	"testing"
)

func TestIDTable(t *testing.T) {
	var tab idTable[int, string]
	if tab.len() != 0 || tab.has(0) {
		t.Fatal("idTable: zero value not empty")
	}
	var ids []int
	for _, s := range [...]string{"a", "b", "c", "d"} {
		ids = append(ids, tab.add(s))
	}
	if !slices.Equal(ids, []int{0, 1, 2, 3}) {
		t.Fatalf("idTable.add:\nhave %v\nwant [0 1 2 3]", ids)
	}
	if v := tab.del(1); v != "b" {
		t.Fatalf("idTable.del:\nhave %q\nwant \"b\"", v)
	}
	// The last value fills the gap.
	if have := tab.values(); !slices.Equal(have, []string{"a", "d", "c"}) {
		t.Fatalf("idTable.values:\nhave %v\nwant [a d c]", have)
	}
	if tab.has(1) || tab.at(3) != "d" || tab.at(2) != "c" {
		t.Fatal("idTable.del: identifiers not preserved")
	}
	if id := tab.add("e"); id != 1 || tab.at(1) != "e" {
		t.Fatalf("idTable.add: identifier not reused\nhave %d\nwant 1", id)
	}
	tab.del(0)
	tab.del(3)
	if have := tab.values(); tab.len() != 2 || !slices.Contains(have, "c") || !slices.Contains(have, "e") {
		t.Fatalf("idTable.del:\nhave %v\nwant [c e] in any order", have)
	}
	if tab.has(-1) || tab.has(1000) {
		t.Fatal("idTable.has: out of range identifiers")
	}
}

func TestIDTableGrow(t *testing.T) {
	var tab idTable[TextureID, int]
	for i := range 100 {
		if id := tab.add(i); int(id) != i {
			t.Fatalf("idTable.add:\nhave %d\nwant %d", id, i)
		}
	}
	for i := 0; i < 100; i += 2 {
		tab.del(TextureID(i))
	}
	for i := 1; i < 100; i += 2 {
		if v := tab.at(TextureID(i)); v != i {
			t.Fatalf("idTable.at(%d):\nhave %d\nwant %d", i, v, i)
		}
	}
	if id := tab.add(-1); id != 0 || tab.len() != 51 {
		t.Fatalf("idTable.add: after removals\nhave %d, len %d\nwant 0, len 51", id, tab.len())
	}
}
