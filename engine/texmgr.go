// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"image"
	"slices"
	"sync"
)

// TextureManager tracks the textures used by a
// Renderer. Textures are registered immediately, but
// their GPU resources are created, replaced and
// destroyed by tasks that run at the start of the next
// frame.
type TextureManager struct {
	mu    sync.Mutex
	texs  idTable[TextureID, *Texture]
	queue *taskQueue
}

func newTextureManager(queue *taskQueue) *TextureManager {
	return &TextureManager{queue: queue}
}

// AddTexture registers t and schedules its creation.
func (m *TextureManager) AddTexture(t *Texture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reason string
	switch {
	case t == nil:
		reason = "nil texture"
	case t.mgr != nil:
		reason = "texture already added"
	case m.texs.len() >= cfg.MaxTexture:
		reason = "too many textures"
	default:
		goto valid
	}
	return newTexErr(reason)
valid:
	t.id = m.texs.add(t)
	t.mgr = m
	m.queue.offer(TaskAdd, SubjectTexture, t.Create)
	return nil
}

// RemoveTexture unregisters t and schedules its
// destruction. It does nothing if t was not added to m.
func (m *TextureManager) RemoveTexture(t *Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.mgr != m {
		return
	}
	m.texs.del(t.id)
	t.mgr = nil
	m.queue.offer(TaskRemove, SubjectTexture, func() error {
		t.Destroy()
		return nil
	})
}

// ReplaceTexture schedules the replacement of the
// pixels of t with those of img.
// t must have been added to m.
func (m *TextureManager) ReplaceTexture(t *Texture, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.mgr != m {
		return newTexErr("cannot replace texture that was not added")
	}
	m.queue.offer(TaskReplace, SubjectTexture, func() error { return t.Replace(img) })
	return nil
}

// Reset unregisters every texture and schedules their
// destruction.
func (m *TextureManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	texs := m.list()
	for _, t := range texs {
		m.texs.del(t.id)
		t.mgr = nil
	}
	m.queue.offer(TaskReset, SubjectTexture, func() error {
		for _, t := range texs {
			t.Destroy()
		}
		return nil
	})
}

// Reload recreates every texture.
// It must be called on the GPU goroutine, after the
// context is lost. Failures are joined.
func (m *TextureManager) Reload() error {
	m.mu.Lock()
	texs := m.list()
	m.mu.Unlock()
	var errs []error
	for _, t := range texs {
		if err := t.Reload(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len returns the number of textures in m.
func (m *TextureManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texs.len()
}

// Textures returns the textures in m.
func (m *TextureManager) Textures() []*Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list()
}

func (m *TextureManager) list() []*Texture {
	return slices.Clone(m.texs.values())
}
