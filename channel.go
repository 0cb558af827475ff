// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"runtime"

	"code.hybscloud.com/last/internal/liveness"
)

// slot is the shared storage of one channel: at most one pending value,
// guarded by the embedded liveness state.
type slot[T any] struct {
	liveness.State
	value T
	full  bool
}

// take removes the pending value. Caller holds the lock.
func (s *slot[T]) take() (T, error) {
	var zero T
	if s.full {
		v := s.value
		s.value, s.full = zero, false
		return v, nil
	}
	if s.SendersGone() {
		return zero, ErrClosed
	}
	return zero, ErrNoNewValue
}

// Sender publishes values into a channel. Each Send overwrites the value
// the Receiver has not taken yet.
//
// A Sender is safe for concurrent use; [Sender.Clone] hands out further
// producer handles on the same slot. All clones are equal: the channel
// stays open for the Receiver as long as any of them is open.
type Sender[T any] struct {
	s       *slot[T]
	ref     *liveness.Ref
	cleanup runtime.Cleanup
}

// Receiver takes the latest value out of a channel. There is exactly one
// Receiver per channel.
type Receiver[T any] struct {
	s       *slot[T]
	ref     *liveness.Ref
	cleanup runtime.Cleanup
}

// New creates a channel and returns its first Sender and its Receiver.
// Both handles start open.
func New[T any]() (*Sender[T], *Receiver[T]) {
	s := &slot[T]{}
	s.Init()
	return newSender(s, s.Sender()), newReceiver(s)
}

func newSender[T any](s *slot[T], ref *liveness.Ref) *Sender[T] {
	tx := &Sender[T]{s: s, ref: ref}
	tx.cleanup = liveness.Track(tx, ref)
	return tx
}

func newReceiver[T any](s *slot[T]) *Receiver[T] {
	rx := &Receiver[T]{s: s, ref: s.Receiver()}
	rx.cleanup = liveness.Track(rx, rx.ref)
	return rx
}

// Serial returns the serial number of the channel tx belongs to.
func (tx *Sender[T]) Serial() Serial {
	return tx.s.Serial()
}

// Send overwrites the pending value with v, blocking while another party
// holds the lock. If the Receiver is gone, Send fails with a *SendError
// carrying v and wrapping ErrClosed.
func (tx *Sender[T]) Send(v T) error {
	if tx.ref.Released() || tx.s.ReceiverGone() {
		return &SendError[T]{Value: v, Err: ErrClosed}
	}
	if err := tx.s.Lock(); err != nil {
		return &SendError[T]{Value: v, Err: err}
	}
	defer tx.s.State.Unlock()
	return tx.store(v)
}

// TrySend is Send without blocking. When the lock is held elsewhere it
// fails with a *SendError wrapping iox.ErrWouldBlock and nothing is written.
func (tx *Sender[T]) TrySend(v T) error {
	if tx.ref.Released() || tx.s.ReceiverGone() {
		return &SendError[T]{Value: v, Err: ErrClosed}
	}
	if err := tx.s.TryLock(); err != nil {
		return &SendError[T]{Value: v, Err: err}
	}
	defer tx.s.State.Unlock()
	return tx.store(v)
}

// store writes v. Caller holds the lock.
func (tx *Sender[T]) store(v T) error {
	// The receiver may have closed between the unlocked check and the lock.
	if tx.s.ReceiverGone() {
		return &SendError[T]{Value: v, Err: ErrClosed}
	}
	tx.s.value, tx.s.full = v, true
	return nil
}

// Clone returns another producer handle on the same channel.
// Cloning a closed Sender returns a closed Sender.
func (tx *Sender[T]) Clone() *Sender[T] {
	ref := tx.ref.Clone()
	if ref.Released() {
		return &Sender[T]{s: tx.s, ref: ref}
	}
	return newSender(tx.s, ref)
}

// Close releases this producer handle. When the last open Sender closes,
// the Receiver observes ErrClosed once the pending value is taken.
// Close is idempotent.
func (tx *Sender[T]) Close() {
	if tx.ref.Release() {
		tx.cleanup.Stop()
	}
}

// Closed reports whether the Receiver is gone or tx itself was closed.
func (tx *Sender[T]) Closed() bool {
	return tx.ref.Released() || tx.s.ReceiverGone()
}

// Serial returns the serial number of the channel rx belongs to.
func (rx *Receiver[T]) Serial() Serial {
	return rx.s.Serial()
}

// Recv takes the pending value, blocking while another party holds the
// lock. It returns ErrNoNewValue when nothing was sent since the last
// receive, and ErrClosed when the slot is empty and every Sender is gone.
func (rx *Receiver[T]) Recv() (T, error) {
	if rx.ref.Released() {
		var zero T
		return zero, ErrClosed
	}
	if err := rx.s.Lock(); err != nil {
		var zero T
		return zero, err
	}
	defer rx.s.State.Unlock()
	return rx.s.take()
}

// TryRecv is Recv without blocking. It returns iox.ErrWouldBlock when
// the lock is held elsewhere.
func (rx *Receiver[T]) TryRecv() (T, error) {
	if rx.ref.Released() {
		var zero T
		return zero, ErrClosed
	}
	if err := rx.s.TryLock(); err != nil {
		var zero T
		return zero, err
	}
	defer rx.s.State.Unlock()
	return rx.s.take()
}

// Close releases the Receiver and drops any pending value. Every later
// Send on any Sender fails with ErrClosed. Close is idempotent.
func (rx *Receiver[T]) Close() {
	if !rx.ref.Release() {
		return
	}
	rx.cleanup.Stop()
	if rx.s.Lock() != nil {
		return
	}
	defer rx.s.State.Unlock()
	var zero T
	rx.s.value, rx.s.full = zero, false
}
