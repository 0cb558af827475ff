// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package last provides latest-value channels: producers publish updates
// that only matter in their most recent form, and a single consumer takes
// the freshest value it has not seen yet.
//
// A send overwrites any value the consumer has not taken. Nothing is
// queued and dropped values are not counted. The keyed variant, holding
// the latest value per key, lives in [code.hybscloud.com/last/lastmap].
//
// # Architecture
//
//   - Slot: one value guarded by a mutex, shared by every handle. [New] creates a [Sender] and the [Receiver].
//   - Producers: [Sender.Send] overwrites; [Sender.Clone] hands out equal producer handles.
//   - Consumer: [Receiver.Recv] takes the value, or reports [ErrNoNewValue]. It never waits for data.
//   - Non-blocking: [Sender.TrySend] and [Receiver.TryRecv] return [code.hybscloud.com/iox.ErrWouldBlock] on lock contention.
//   - Closure: [Receiver.Close] makes every Send fail with [ErrClosed]; once all Senders close, Recv reports ErrClosed after the last value is taken.
//     Handles collected without Close are released by a runtime cleanup.
//   - Poisoning: a panic inside a critical section closes the channel for every handle.
//
// # Effects
//
// Channel operations are also available as [code.hybscloud.com/kont] effects:
// [Publish] and [Take], with fused forms [PublishThen], [PublishBind], [TakeBind]
// and Expr-world [ExprPublishThen], [ExprPublishBind], [ExprTakeBind].
// A [Port] binds the handles they dispatch against.
//
//   - Stepping: [Step] and [Advance] evaluate one effect at a time for proactor loops.
//   - Blocking: [Exec], [ExecExpr] and [Run] wait out lock contention using adaptive backoff.
//   - Errors: [ExecError], [StepError], [AdvanceError] compose with kont error effects.
//
// # Example
//
//	tx, rx := last.New[float64]()
//	defer rx.Close()
//	go func() {
//		defer tx.Close()
//		for i := range 100 {
//			_ = tx.Send(float64(i))
//		}
//	}()
//	for {
//		v, err := rx.Recv()
//		if errors.Is(err, last.ErrClosed) {
//			break
//		}
//		if err == nil {
//			render(v)
//		}
//	}
package last
