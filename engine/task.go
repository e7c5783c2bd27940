// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"sync"
)

// TaskType is the type of deferred tasks.
type TaskType int

// Task types.
const (
	TaskAdd TaskType = iota
	TaskAddAll
	TaskRemove
	TaskRemoveAll
	TaskReplace
	TaskReload
	TaskReset
	TaskInitialize
)

// String implements fmt.Stringer.
func (t TaskType) String() string {
	switch t {
	case TaskAdd:
		return "Add"
	case TaskAddAll:
		return "AddAll"
	case TaskRemove:
		return "Remove"
	case TaskRemoveAll:
		return "RemoveAll"
	case TaskReplace:
		return "Replace"
	case TaskReload:
		return "Reload"
	case TaskReset:
		return "Reset"
	case TaskInitialize:
		return "Initialize"
	default:
		return "!engine.TaskType"
	}
}

// Subject is the type of resources that tasks act on.
type Subject int

// Task subjects.
const (
	SubjectObject Subject = iota
	SubjectCamera
	SubjectLight
	SubjectTexture
	SubjectRenderTarget
	SubjectScene
	SubjectPass
)

// String implements fmt.Stringer.
func (s Subject) String() string {
	switch s {
	case SubjectObject:
		return "Object"
	case SubjectCamera:
		return "Camera"
	case SubjectLight:
		return "Light"
	case SubjectTexture:
		return "Texture"
	case SubjectRenderTarget:
		return "RenderTarget"
	case SubjectScene:
		return "Scene"
	case SubjectPass:
		return "Pass"
	default:
		return "!engine.Subject"
	}
}

type task struct {
	typ  TaskType
	subj Subject
	fn   func() error
}

// taskQueue is a FIFO of tasks that mutate GPU-backed
// state. Tasks can be offered from any goroutine; they
// run on the goroutine that owns the GPU, when the
// queue is drained at the start of a frame.
type taskQueue struct {
	mu    sync.Mutex
	tasks []task
	// Set once q forwards its tasks.
	next *taskQueue
}

func (q *taskQueue) offer(typ TaskType, subj Subject, fn func() error) {
	q.mu.Lock()
	if next := q.next; next != nil {
		q.mu.Unlock()
		next.offer(typ, subj, fn)
		return
	}
	q.tasks = append(q.tasks, task{typ, subj, fn})
	q.mu.Unlock()
}

// forward moves the pending tasks of q to the end of
// dst and makes q offer every later task to dst, so
// that the tasks of both run in a single order.
// It does nothing if q already forwards.
// dst must not forward.
func (q *taskQueue) forward(dst *taskQueue) {
	if q == dst {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.next != nil {
		return
	}
	dst.mu.Lock()
	dst.tasks = append(dst.tasks, q.tasks...)
	dst.mu.Unlock()
	q.tasks = nil
	q.next = dst
}

func (q *taskQueue) poll() (t task, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return
	}
	t = q.tasks[0]
	q.tasks[0] = task{}
	q.tasks = q.tasks[1:]
	return t, true
}

// len returns the number of pending tasks.
func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// drain runs every pending task in order, including
// tasks offered while draining.
// Every task runs even if a previous one fails; the
// failures are joined.
func (q *taskQueue) drain() error {
	var errs []error
	for {
		t, ok := q.poll()
		if !ok {
			break
		}
		if err := t.fn(); err != nil {
			logger().Error("task failed", "type", t.typ, "subject", t.subj, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
