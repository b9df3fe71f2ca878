// Package source reads physical controllers and reports them to the pad pool
// as raw snapshots in the standard layout.
package source

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/soar/padstate/internal/gamepad"
	"github.com/soar/padstate/internal/logger"
)

var (
	ErrUnknownSource = errors.New("unknown source")
	ErrUnsupported   = errors.New("source not supported on this platform")
	ErrInit          = errors.New("source init failed")
)

// MaxSlots bounds the raw indices a source hands out.
const MaxSlots = 16

// Kinds accepted by New.
const (
	KindSDL    = "sdl"
	KindJoydev = "joydev"
	KindXInput = "xinput"
	KindGLFW   = "glfw"
)

// Source is a gamepad.Source with a lifecycle. Open and Close must run on
// the thread that drives the pool.
type Source interface {
	gamepad.Source
	Open() error
	Close() error
}

// Pumper is implemented by sources that must be serviced once per frame on
// the loop thread to see hotplug events.
type Pumper interface {
	Pump()
}

// Factory builds a source.
type Factory func(log logger.Logger) (Source, error)

var (
	registryMu sync.Mutex
	registry   = map[string]Factory{
		KindJoydev: newJoydev,
		KindXInput: newXInput,
		KindGLFW:   newGLFW,
	}
)

// Register makes a source available to New under kind. Sources that link a
// native library register from their own package so that only binaries
// importing it pay for loading it.
func Register(kind string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(kind)] = f
}

// New returns the source named by kind. An empty kind means SDL.
func New(kind string, log logger.Logger) (Source, error) {
	if log == nil {
		log = logger.Discard{}
	}
	kind = strings.ToLower(kind)
	if kind == "" {
		kind = KindSDL
	}

	registryMu.Lock()
	f, ok := registry[kind]
	registryMu.Unlock()

	switch {
	case ok:
		return f(log)
	case kind == KindSDL:
		return nil, fmt.Errorf("%w: sdl source not linked in", ErrUnsupported)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
}

// Notifier forwards hotplug notifications to the subscribed handler.
// Sources embed it to implement gamepad.Hotplugger.
type Notifier struct {
	mu sync.Mutex
	h  gamepad.HotplugHandler
}

func (n *Notifier) Subscribe(h gamepad.HotplugHandler) func() {
	n.mu.Lock()
	n.h = h
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		n.h = nil
		n.mu.Unlock()
	}
}

func (n *Notifier) NotifyConnected(index int) {
	if h := n.handler(); h != nil {
		h.Connected(index)
	}
}

func (n *Notifier) NotifyDisconnected(index int) {
	if h := n.handler(); h != nil {
		h.Disconnected(index)
	}
}

func (n *Notifier) handler() gamepad.HotplugHandler {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.h
}

// Slots hands out the lowest free raw index to devices whose own ids are
// unbounded.
type Slots[T comparable] struct {
	ids  [MaxSlots]T
	used [MaxSlots]bool
}

// Take assigns id the lowest free slot. It reports false if id already
// holds one or none is free.
func (s *Slots[T]) Take(id T) (int, bool) {
	if i, ok := s.Find(id); ok {
		return i, false
	}
	for i := range s.used {
		if !s.used[i] {
			s.ids[i] = id
			s.used[i] = true
			return i, true
		}
	}
	return -1, false
}

func (s *Slots[T]) Find(id T) (int, bool) {
	for i := range s.used {
		if s.used[i] && s.ids[i] == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Slots[T]) Release(id T) (int, bool) {
	i, ok := s.Find(id)
	if ok {
		s.used[i] = false
		var zero T
		s.ids[i] = zero
	}
	return i, ok
}
