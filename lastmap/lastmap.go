// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lastmap provides a keyed latest-value channel: senders publish
// (key, value) pairs and the receiver drains the latest value of every
// key that changed since the previous drain.
//
// Keys are never removed from the backing map; a drain only clears their
// pending values. A channel fed an unbounded stream of distinct keys
// grows without bound. Callers that need eviction must layer it on top,
// for example by rotating channels. [Receiver.Len] reports how many keys
// are tracked.
package lastmap

import (
	"runtime"

	"code.hybscloud.com/last/internal/liveness"
)

var (
	// ErrClosed is returned when the opposite end of the channel is gone.
	// It is the same value as last.ErrClosed.
	ErrClosed = liveness.ErrClosed
)

// Pair is one drained key and its latest value.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// SendError is returned by Send and TrySend when the pair was not
// written. Key and Value are handed back to the caller. Err is ErrClosed
// or iox.ErrWouldBlock.
type SendError[K comparable, V any] struct {
	Key   K
	Value V
	Err   error
}

func (e *SendError[K, V]) Error() string {
	return "lastmap: send failed: " + e.Err.Error()
}

func (e *SendError[K, V]) Unwrap() error {
	return e.Err
}

type entry[V any] struct {
	value V
	full  bool
}

// slot is the shared map of one channel. Entries are held by pointer so
// that a drain clears the entry it visited even when the key does not
// compare equal to itself (a NaN float key).
type slot[K comparable, V any] struct {
	liveness.State
	entries map[K]*entry[V]
	pending int
}

// store sets the pending value of k. Caller holds the lock.
func (s *slot[K, V]) store(k K, v V) {
	e, ok := s.entries[k]
	if !ok {
		e = new(entry[V])
		s.entries[k] = e
	}
	if !e.full {
		s.pending++
	}
	e.value, e.full = v, true
}

// drain takes every pending value. Caller holds the lock.
func (s *slot[K, V]) drain() ([]Pair[K, V], error) {
	if s.pending == 0 {
		if s.SendersGone() {
			return nil, ErrClosed
		}
		return nil, nil
	}
	var zero V
	out := make([]Pair[K, V], 0, s.pending)
	for k, e := range s.entries {
		if !e.full {
			continue
		}
		out = append(out, Pair[K, V]{Key: k, Value: e.value})
		e.value, e.full = zero, false
	}
	s.pending = 0
	return out, nil
}

// Sender publishes key/value pairs. A Sender is safe for concurrent use
// and may be cloned; all clones are equal.
type Sender[K comparable, V any] struct {
	s       *slot[K, V]
	ref     *liveness.Ref
	cleanup runtime.Cleanup
}

// Receiver drains the latest value per key. There is exactly one
// Receiver per channel.
type Receiver[K comparable, V any] struct {
	s       *slot[K, V]
	ref     *liveness.Ref
	cleanup runtime.Cleanup
}

// New creates a keyed channel and returns its first Sender and its
// Receiver.
func New[K comparable, V any]() (*Sender[K, V], *Receiver[K, V]) {
	s := &slot[K, V]{entries: make(map[K]*entry[V])}
	s.Init()
	rx := &Receiver[K, V]{s: s, ref: s.Receiver()}
	rx.cleanup = liveness.Track(rx, rx.ref)
	return newSender(s, s.Sender()), rx
}

func newSender[K comparable, V any](s *slot[K, V], ref *liveness.Ref) *Sender[K, V] {
	tx := &Sender[K, V]{s: s, ref: ref}
	tx.cleanup = liveness.Track(tx, ref)
	return tx
}

// Serial returns the serial number of the channel tx belongs to.
func (tx *Sender[K, V]) Serial() uint32 {
	return tx.s.Serial()
}

// Send sets the pending value of key to value, overwriting any value the
// Receiver has not drained. Other keys are untouched. Send blocks while
// another party holds the lock.
func (tx *Sender[K, V]) Send(key K, value V) error {
	if tx.ref.Released() || tx.s.ReceiverGone() {
		return &SendError[K, V]{Key: key, Value: value, Err: ErrClosed}
	}
	if err := tx.s.Lock(); err != nil {
		return &SendError[K, V]{Key: key, Value: value, Err: err}
	}
	defer tx.s.State.Unlock()
	if tx.s.ReceiverGone() {
		return &SendError[K, V]{Key: key, Value: value, Err: ErrClosed}
	}
	tx.s.store(key, value)
	return nil
}

// TrySend is Send without blocking. When the lock is held elsewhere it
// fails with a *SendError wrapping iox.ErrWouldBlock.
func (tx *Sender[K, V]) TrySend(key K, value V) error {
	if tx.ref.Released() || tx.s.ReceiverGone() {
		return &SendError[K, V]{Key: key, Value: value, Err: ErrClosed}
	}
	if err := tx.s.TryLock(); err != nil {
		return &SendError[K, V]{Key: key, Value: value, Err: err}
	}
	defer tx.s.State.Unlock()
	if tx.s.ReceiverGone() {
		return &SendError[K, V]{Key: key, Value: value, Err: ErrClosed}
	}
	tx.s.store(key, value)
	return nil
}

// Clone returns another producer handle on the same channel.
// Cloning a closed Sender returns a closed Sender.
func (tx *Sender[K, V]) Clone() *Sender[K, V] {
	ref := tx.ref.Clone()
	if ref.Released() {
		return &Sender[K, V]{s: tx.s, ref: ref}
	}
	return newSender(tx.s, ref)
}

// Close releases this producer handle. Close is idempotent.
func (tx *Sender[K, V]) Close() {
	if tx.ref.Release() {
		tx.cleanup.Stop()
	}
}

// Closed reports whether the Receiver is gone or tx itself was closed.
func (tx *Sender[K, V]) Closed() bool {
	return tx.ref.Released() || tx.s.ReceiverGone()
}

// Serial returns the serial number of the channel rx belongs to.
func (rx *Receiver[K, V]) Serial() uint32 {
	return rx.s.Serial()
}

// Recv drains every key holding a pending value, blocking while another
// party holds the lock. Pair order follows map iteration and is
// unspecified. With nothing pending Recv returns an empty result, or
// ErrClosed once every Sender is gone.
func (rx *Receiver[K, V]) Recv() ([]Pair[K, V], error) {
	if rx.ref.Released() {
		return nil, ErrClosed
	}
	if err := rx.s.Lock(); err != nil {
		return nil, err
	}
	defer rx.s.State.Unlock()
	return rx.s.drain()
}

// TryRecv is Recv without blocking. It returns iox.ErrWouldBlock when
// the lock is held elsewhere.
func (rx *Receiver[K, V]) TryRecv() ([]Pair[K, V], error) {
	if rx.ref.Released() {
		return nil, ErrClosed
	}
	if err := rx.s.TryLock(); err != nil {
		return nil, err
	}
	defer rx.s.State.Unlock()
	return rx.s.drain()
}

// Len returns the number of keys the channel tracks, pending or not.
// It only grows while the channel is open.
func (rx *Receiver[K, V]) Len() int {
	if rx.s.Lock() != nil {
		return 0
	}
	defer rx.s.State.Unlock()
	return len(rx.s.entries)
}

// Close releases the Receiver and drops the backing map. Every later
// Send on any Sender fails with ErrClosed. Close is idempotent.
func (rx *Receiver[K, V]) Close() {
	if !rx.ref.Release() {
		return
	}
	rx.cleanup.Stop()
	if rx.s.Lock() != nil {
		return
	}
	defer rx.s.State.Unlock()
	clear(rx.s.entries)
	rx.s.pending = 0
}
