// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// portHandler implements kont.Handler for channel effects.
// Waits on iox.ErrWouldBlock, converting non-blocking dispatch
// into blocking evaluation for Exec/ExecExpr.
type portHandler[T, R any] struct {
	p *Port[T]
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h portHandler[T, R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	pop, ok := op.(portDispatcher[T])
	if !ok {
		panic("last: unhandled effect in portHandler")
	}
	return dispatchWait(h.p, pop), true
}

// dispatchWait retries DispatchPort until the lock is acquired, backing
// off on iox.ErrWouldBlock with iox.Backoff. Only lock contention is
// waited out: an empty slot resumes Take with ErrNoNewValue.
func dispatchWait[T any](p *Port[T], pop portDispatcher[T]) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := pop.DispatchPort(p)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world protocol against p.
// Blocks on lock contention via adaptive backoff (iox.Backoff),
// without spawning goroutines or creating channels.
func Exec[T, R any](p *Port[T], protocol kont.Eff[R]) R {
	h := portHandler[T, R]{p: p}
	return kont.Handle(protocol, h)
}

// ExecExpr runs an Expr-world protocol against p.
// Blocks on lock contention via adaptive backoff (iox.Backoff),
// without spawning goroutines or creating channels.
func ExecExpr[T, R any](p *Port[T], protocol kont.Expr[R]) R {
	h := portHandler[T, R]{p: p}
	return kont.HandleExpr(protocol, h)
}
