// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package liveness implements the closure signal and the poisonable lock
// shared by the latest-value channel families.
//
// A [State] is embedded in each channel's shared slot. Producers and the
// consumer hold a [Ref] each; releasing a Ref updates the State without
// taking the data lock, so closure checks never block.
package liveness

import (
	"errors"
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

var (
	// ErrClosed reports that the opposite end of the channel is gone,
	// or that the shared lock was poisoned.
	ErrClosed = errors.New("last: channel closed")

	// ErrNoNewValue reports that the channel is open but nothing has been
	// sent since the last receive.
	ErrNoNewValue = errors.New("last: no new value")
)

// State is the shared liveness record of one channel.
// The zero value is a channel with no senders and a live receiver.
type State struct {
	mu       sync.Mutex
	refMu    sync.Mutex // orders sender registration against release
	senders  atomix.Uint32
	receiver atomix.Uint32
	poisoned atomix.Uint32
	serial   uint32
}

// counter is the global monotonic counter for channel serials.
var counter atomix.Uint32

// Init assigns the next serial to s. It must be called once, before any
// Ref is taken.
func (s *State) Init() {
	s.serial = counter.Add(1)
}

// Serial returns the serial assigned by Init.
func (s *State) Serial() uint32 {
	return s.serial
}

// ReceiverGone reports whether the receiver was released or the state
// was poisoned.
func (s *State) ReceiverGone() bool {
	return s.receiver.Load() != 0 || s.poisoned.Load() != 0
}

// SendersGone reports whether every sender was released or the state
// was poisoned.
func (s *State) SendersGone() bool {
	return s.senders.Load() == 0 || s.poisoned.Load() != 0
}

// Poisoned reports whether a critical section panicked.
func (s *State) Poisoned() bool {
	return s.poisoned.Load() != 0
}

// Lock acquires the data lock, blocking on contention.
// On a poisoned state the lock is released again and ErrClosed returned.
func (s *State) Lock() error {
	s.mu.Lock()
	if s.poisoned.Load() != 0 {
		s.mu.Unlock()
		return ErrClosed
	}
	return nil
}

// TryLock acquires the data lock without blocking.
// Returns iox.ErrWouldBlock when another party holds it.
func (s *State) TryLock() error {
	if !s.mu.TryLock() {
		return iox.ErrWouldBlock
	}
	if s.poisoned.Load() != 0 {
		s.mu.Unlock()
		return ErrClosed
	}
	return nil
}

// Unlock releases the data lock. It must be deferred directly after a
// successful Lock or TryLock: a panic unwinding through the critical
// section poisons the state before the panic continues.
func (s *State) Unlock() {
	if r := recover(); r != nil {
		s.poisoned.Add(1)
		s.mu.Unlock()
		panic(r)
	}
	s.mu.Unlock()
}

type role uint8

const (
	roleSender role = iota
	roleReceiver
)

// Ref is one handle's claim on a State.
type Ref struct {
	state    *State
	role     role
	released atomix.Uint32
}

// Sender registers a new producer handle.
func (s *State) Sender() *Ref {
	s.refMu.Lock()
	defer s.refMu.Unlock()
	s.senders.Add(1)
	return &Ref{state: s, role: roleSender}
}

// Receiver registers the consumer handle.
func (s *State) Receiver() *Ref {
	return &Ref{state: s, role: roleReceiver}
}

// Released returns a Ref that was never counted and is already released.
// Clones of closed handles use it so they cannot revive the channel.
func Released() *Ref {
	r := &Ref{}
	r.released.Add(1)
	return r
}

// Clone registers another sender on r's channel. If r is already released
// the result is Released(), and the sender count is left untouched: once
// SendersGone reports true it stays true.
func (r *Ref) Clone() *Ref {
	s := r.state
	if s == nil {
		return Released()
	}
	s.refMu.Lock()
	defer s.refMu.Unlock()
	if r.released.Load() != 0 {
		return Released()
	}
	s.senders.Add(1)
	return &Ref{state: s, role: r.role}
}

// Release drops the claim. Only the first call has an effect; it reports
// whether this call performed the release.
func (r *Ref) Release() bool {
	if r.state == nil {
		return false
	}
	r.state.refMu.Lock()
	defer r.state.refMu.Unlock()
	if r.released.Add(1) != 1 {
		return false
	}
	switch r.role {
	case roleSender:
		r.state.senders.Add(^uint32(0))
	case roleReceiver:
		r.state.receiver.Add(1)
	}
	return true
}

// Released reports whether Release was called.
func (r *Ref) Released() bool {
	return r.released.Load() != 0
}

// releaseRef is the cleanup hook for handles collected without Close.
func releaseRef(r *Ref) { r.Release() }

// Track releases r once handle becomes unreachable.
// r must not reference handle.
func Track[H any](handle *H, r *Ref) runtime.Cleanup {
	return runtime.AddCleanup(handle, releaseRef, r)
}
