// Package editor implements the photo editor state machine.
//
// A Machine owns the current State. Surfaces send it Actions through
// Dispatch and learn about the result through Subscribe or Watch; nothing
// else mutates the state.
package editor

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StickerSource resolves sticker ids to pixel data.
type StickerSource interface {
	Sticker(id string) (image.Image, error)
}

// Machine serialises actions and publishes the resulting states.
//
// Dispatch may be called from any goroutine. Actions are applied one at a
// time in the order they were queued.
type Machine struct {
	rules    Rules
	log      zerolog.Logger
	stickers StickerSource

	stateMu sync.RWMutex
	state   State

	queueMu  sync.Mutex
	queue    []work
	draining bool

	// notifyMu is held while subscribers run, so callbacks never overlap.
	notifyMu sync.Mutex
	subsMu   sync.Mutex
	subs     []*subscription
}

// work is one queued unit: an action to apply or the first delivery to a
// new subscriber.
type work struct {
	action Action
	sub    *subscription
}

type subscription struct {
	fn   func(State)
	live atomic.Bool
}

// Option configures a Machine during creation.
type Option func(*Machine)

// WithLogger sets the logger used for transition tracing.
func WithLogger(l zerolog.Logger) Option { return func(m *Machine) { m.log = l } }

// WithStickers lets the Machine resolve AddSticker actions that carry only
// an id. src is consulted inside Dispatch, so it should answer from memory
// (see sticker.Catalog.Preload).
func WithStickers(src StickerSource) Option { return func(m *Machine) { m.stickers = src } }

// WithThickness sets the line width of new strokes.
func WithThickness(px float32) Option { return func(m *Machine) { m.rules.Thickness = px } }

// New creates a Machine in the EmptyCanvas state.
func New(opts ...Option) *Machine {
	m := &Machine{
		log:   log.Logger.With().Str("component", "editor").Logger(),
		state: EmptyCanvas{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns the current state snapshot.
func (m *Machine) State() State {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

// CurrentPhoto returns the decoded photo when one is loaded.
func (m *Machine) CurrentPhoto() (image.Image, bool) {
	return CurrentPhoto(m.State())
}

// CurrentPhoto returns the photo held by st, if any.
func CurrentPhoto(st State) (image.Image, bool) {
	if d, ok := st.(PhotoWithDrawing); ok {
		return d.Photo, true
	}
	return nil, false
}

// Dispatch queues a for processing. When no other goroutine is draining the
// queue, Dispatch applies it (and anything queued meanwhile) before
// returning, notifying subscribers after every action. A Dispatch made from
// inside a subscriber callback is applied once the current callback round
// finishes.
func (m *Machine) Dispatch(a Action) {
	if a == nil {
		return
	}
	m.enqueue(work{action: a})
}

func (m *Machine) enqueue(w work) {
	m.queueMu.Lock()
	m.queue = append(m.queue, w)
	if m.draining {
		m.queueMu.Unlock()
		return
	}
	m.draining = true
	m.queueMu.Unlock()
	m.drain()
}

func (m *Machine) drain() {
	finished := false
	defer func() {
		if !finished {
			// A subscriber panicked; let the next Dispatch take over.
			m.queueMu.Lock()
			m.draining = false
			m.queueMu.Unlock()
		}
	}()
	for {
		m.queueMu.Lock()
		if len(m.queue) == 0 {
			m.draining = false
			m.queueMu.Unlock()
			finished = true
			return
		}
		w := m.queue[0]
		m.queue[0] = work{}
		m.queue = m.queue[1:]
		m.queueMu.Unlock()
		if w.sub != nil {
			m.greet(w.sub)
		} else {
			m.apply(w.action)
		}
	}
}

func (m *Machine) apply(a Action) {
	a = m.resolve(a)

	m.stateMu.Lock()
	prev := m.state
	next := m.rules.Reduce(prev, a)
	m.state = next
	m.stateMu.Unlock()

	if prev.Kind() != next.Kind() {
		m.log.Debug().Str("action", ActionName(a)).Stringer("from", prev.Kind()).Stringer("to", next.Kind()).Msg("transition")
	} else {
		m.log.Trace().Str("action", ActionName(a)).Stringer("state", next.Kind()).Msg("applied")
	}
	m.notify(next)
}

// resolve fills in sticker pixels for AddSticker actions when a
// StickerSource is configured. Failures degrade the action to a no-op.
func (m *Machine) resolve(a Action) Action {
	add, ok := a.(AddSticker)
	if !ok || add.Image != nil || m.stickers == nil {
		return a
	}
	if m.State().Kind() != KindPhotoWithDrawing {
		return a
	}
	img, err := m.stickers.Sticker(add.ID)
	if err != nil {
		m.log.Warn().Err(err).Str("sticker", add.ID).Msg("could not resolve sticker; ignoring")
		return nil
	}
	add.Image = img
	return add
}

func (m *Machine) notify(st State) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	m.subsMu.Lock()
	subs := make([]*subscription, len(m.subs))
	copy(subs, m.subs)
	m.subsMu.Unlock()
	for _, s := range subs {
		if s.live.Load() {
			s.fn(st)
		}
	}
}

// Subscribe registers fn to receive every published state. fn is first
// called with the current state, then after each dispatched action, on the
// dispatching goroutine. When no other goroutine is dispatching, the first
// call happens before Subscribe returns. fn may call State and Dispatch but
// must not call Subscribe.
//
// The returned function removes the subscription; it may be called from
// within fn.
func (m *Machine) Subscribe(fn func(State)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.live.Store(true)
	m.enqueue(work{sub: sub})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subsMu.Lock()
			defer m.subsMu.Unlock()
			sub.live.Store(false)
			for i, s := range m.subs {
				if s == sub {
					m.subs = append(m.subs[:i], m.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// greet delivers the current state to a new subscriber and starts sending
// it later states. It runs in queue order, so no state published before the
// subscriber's first call reaches it.
func (m *Machine) greet(sub *subscription) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	m.subsMu.Lock()
	if !sub.live.Load() {
		m.subsMu.Unlock()
		return
	}
	m.subs = append(m.subs, sub)
	m.subsMu.Unlock()
	sub.fn(m.State())
}

// Watch returns a channel carrying the latest state. Slow readers skip
// intermediate states but always see the newest one. The channel is closed
// after ctx is done.
func (m *Machine) Watch(ctx context.Context) <-chan State {
	ch := make(chan State, 1)
	unsubscribe := m.Subscribe(func(st State) {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	})
	go func() {
		<-ctx.Done()
		unsubscribe()
		// Wait for any callback round in flight before closing.
		m.notifyMu.Lock()
		close(ch)
		m.notifyMu.Unlock()
	}()
	return ch
}
