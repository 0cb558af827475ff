// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Port binds the channel handles that effects are dispatched against.
// A producer protocol needs Sender, a consumer protocol needs Receiver;
// a protocol doing both needs both.
type Port[T any] struct {
	Sender   *Sender[T]
	Receiver *Receiver[T]
}

// portDispatcher is the structural interface for channel operations.
// DispatchPort is non-blocking: it returns iox.ErrWouldBlock when the
// slot lock is held elsewhere, and nothing has happened.
type portDispatcher[T any] interface {
	DispatchPort(p *Port[T]) (kont.Resumed, error)
}

// Pre-boxed Publish outcomes, avoiding per-dispatch heap escape.
var (
	published    kont.Resumed = true
	notPublished kont.Resumed = false
)

// Publish is the effect operation for sending the latest value.
// Perform(Publish[T]{Value: v}) resumes with true once v is in the slot,
// or false if the channel is closed and v was dropped.
type Publish[T any] struct {
	kont.Phantom[bool]
	Value T
}

// DispatchPort handles Publish with Sender.TrySend.
func (op Publish[T]) DispatchPort(p *Port[T]) (kont.Resumed, error) {
	if p.Sender == nil {
		panic("last: Publish dispatched on a port without Sender")
	}
	err := p.Sender.TrySend(op.Value)
	if err == nil {
		return published, nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return notPublished, nil
}

// Take is the effect operation for receiving the latest value.
// Perform(Take[T]{}) resumes with Right(value), or Left(ErrNoNewValue)
// when nothing new was sent, or Left(ErrClosed).
// Take never waits for a value to appear.
type Take[T any] struct {
	kont.Phantom[kont.Either[error, T]]
}

// DispatchPort handles Take with Receiver.TryRecv.
func (Take[T]) DispatchPort(p *Port[T]) (kont.Resumed, error) {
	if p.Receiver == nil {
		panic("last: Take dispatched on a port without Receiver")
	}
	v, err := p.Receiver.TryRecv()
	if err == nil {
		return kont.Right[error](v), nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return kont.Left[error, T](err), nil
}
