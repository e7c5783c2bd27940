// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func TestTaskQueue(t *testing.T) {
	var q taskQueue
	var order []int
	for i := range 3 {
		q.offer(TaskAdd, SubjectObject, func() error {
			order = append(order, i)
			return nil
		})
	}
	if n := q.len(); n != 3 {
		t.Fatalf("taskQueue.len:\nhave %d\nwant 3", n)
	}
	if err := q.drain(); err != nil {
		t.Fatalf("taskQueue.drain:\nhave %v\nwant nil", err)
	}
	if want := []int{0, 1, 2}; !slices.Equal(order, want) {
		t.Fatalf("taskQueue.drain: order\nhave %v\nwant %v", order, want)
	}
	if n := q.len(); n != 0 {
		t.Fatalf("taskQueue.len: after drain\nhave %d\nwant 0", n)
	}
}

func TestTaskQueueOfferWhileDraining(t *testing.T) {
	var q taskQueue
	var order []string
	q.offer(TaskAdd, SubjectScene, func() error {
		order = append(order, "a")
		q.offer(TaskInitialize, SubjectScene, func() error {
			order = append(order, "c")
			return nil
		})
		return nil
	})
	q.offer(TaskRemove, SubjectScene, func() error {
		order = append(order, "b")
		return nil
	})
	q.drain()
	if want := []string{"a", "b", "c"}; !slices.Equal(order, want) {
		t.Fatalf("taskQueue.drain: order\nhave %v\nwant %v", order, want)
	}
}

func TestTaskQueueErrors(t *testing.T) {
	var q taskQueue
	e1, e2 := errors.New("e1"), errors.New("e2")
	ran := 0
	q.offer(TaskAdd, SubjectTexture, func() error { ran++; return e1 })
	q.offer(TaskAdd, SubjectTexture, func() error { ran++; return nil })
	q.offer(TaskAdd, SubjectTexture, func() error { ran++; return e2 })
	err := q.drain()
	if ran != 3 {
		t.Fatalf("taskQueue.drain: tasks run\nhave %d\nwant 3", ran)
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("taskQueue.drain: error\nhave %v\nwant e1 and e2 joined", err)
	}
}

func TestTaskQueueConcurrent(t *testing.T) {
	var q taskQueue
	var mu sync.Mutex
	n := 0
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				q.offer(TaskAdd, SubjectObject, func() error {
					mu.Lock()
					n++
					mu.Unlock()
					return nil
				})
			}
		}()
	}
	wg.Wait()
	q.drain()
	if n != 800 {
		t.Fatalf("taskQueue: concurrent offers\nhave %d\nwant 800", n)
	}
}

func TestTaskStrings(t *testing.T) {
	if s := TaskReplace.String(); s != "Replace" {
		t.Fatalf("TaskType.String:\nhave %s\nwant Replace", s)
	}
	if s := TaskType(-1).String(); s != "!engine.TaskType" {
		t.Fatalf("TaskType.String: invalid\nhave %s", s)
	}
	if s := SubjectRenderTarget.String(); s != "RenderTarget" {
		t.Fatalf("Subject.String:\nhave %s\nwant RenderTarget", s)
	}
}

func TestTaskQueueForward(t *testing.T) {
	var q, dst taskQueue
	var order []string
	add := func(q *taskQueue, s string) {
		q.offer(TaskAdd, SubjectObject, func() error {
			order = append(order, s)
			return nil
		})
	}
	add(&dst, "a")
	add(&q, "b")
	q.forward(&dst)
	add(&q, "c")
	add(&dst, "d")
	// Forwarding is set once.
	var other taskQueue
	q.forward(&other)
	add(&q, "e")
	if q.len() != 0 || other.len() != 0 || dst.len() != 5 {
		t.Fatalf("taskQueue.forward:\nhave %d/%d/%d pending\nwant 0/0/5", q.len(), other.len(), dst.len())
	}
	dst.drain()
	if want := []string{"a", "b", "c", "d", "e"}; !slices.Equal(order, want) {
		t.Fatalf("taskQueue.forward: order\nhave %v\nwant %v", order, want)
	}
}
