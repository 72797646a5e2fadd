// Package trigger turns visibility signals into sequencer restarts.
package trigger

import "sync"

// Hooks receives visibility transitions. The sequencer implements it.
type Hooks interface {
	OnEnter()
	OnEnterBack()
}

// Tracker follows whether the render surface is visible. The first Show
// fires OnEnter, a Show after a Hide fires OnEnterBack, and repeated Show
// calls while visible do nothing.
type Tracker struct {
	mu      sync.Mutex
	hooks   Hooks
	visible bool
	entered bool
}

func NewTracker(h Hooks) *Tracker {
	return &Tracker{hooks: h}
}

// SetHooks swaps the target, e.g. after the steps were reloaded. The
// visibility history is kept.
func (t *Tracker) SetHooks(h Hooks) {
	t.mu.Lock()
	t.hooks = h
	t.mu.Unlock()
}

func (t *Tracker) Show() {
	t.mu.Lock()
	if t.visible || t.hooks == nil {
		t.mu.Unlock()
		return
	}
	t.visible = true
	first := !t.entered
	t.entered = true
	h := t.hooks
	t.mu.Unlock()

	if first {
		h.OnEnter()
	} else {
		h.OnEnterBack()
	}
}

func (t *Tracker) Hide() {
	t.mu.Lock()
	t.visible = false
	t.mu.Unlock()
}

func (t *Tracker) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible
}
