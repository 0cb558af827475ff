// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"code.hybscloud.com/last/internal/liveness"
)

var (
	// ErrClosed is returned when the opposite end of the channel is gone.
	// Send reports it once the Receiver is closed; Recv reports it once
	// every Sender is closed and no value is pending. A lock poisoned by a
	// panicking critical section also surfaces as ErrClosed.
	ErrClosed = liveness.ErrClosed

	// ErrNoNewValue is returned by Recv and TryRecv when the channel is
	// open but nothing has been sent since the last receive.
	ErrNoNewValue = liveness.ErrNoNewValue
)

// SendError is returned by Send and TrySend when the value was not
// written. Value is handed back to the caller. Err is ErrClosed or
// iox.ErrWouldBlock.
type SendError[T any] struct {
	Value T
	Err   error
}

func (e *SendError[T]) Error() string {
	return "last: send failed: " + e.Err.Error()
}

func (e *SendError[T]) Unwrap() error {
	return e.Err
}
