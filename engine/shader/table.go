// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

// table is an insertion-ordered set of named
// declarations.
type table[T any] struct {
	names []string
	m     map[string]T
}

// put inserts or replaces the entry for name.
// It returns whether an entry was replaced.
// A replaced entry keeps its original position.
func (t *table[T]) put(name string, x T) bool {
	if t.m == nil {
		t.m = make(map[string]T)
	}
	_, ok := t.m[name]
	if !ok {
		t.names = append(t.names, name)
	}
	t.m[name] = x
	return ok
}

func (t *table[T]) get(name string) (x T, ok bool) {
	x, ok = t.m[name]
	return
}

func (t *table[T]) len() int { return len(t.names) }

// each calls f for every entry in insertion order.
func (t *table[T]) each(f func(name string, x T)) {
	for _, n := range t.names {
		f(n, t.m[n])
	}
}

// clone returns a shallow copy of t.
func (t *table[T]) clone() table[T] {
	c := table[T]{names: make([]string, len(t.names)), m: make(map[string]T, len(t.m))}
	copy(c.names, t.names)
	for k, v := range t.m {
		c.m[k] = v
	}
	return c
}
