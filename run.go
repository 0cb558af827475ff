// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run creates a channel, runs producer against its Sender and consumer
// against its Receiver, and returns both results. Interleaves execution
// of both sides on the calling goroutine, one effect each per round,
// using adaptive backoff (iox.Backoff) when neither side can make
// progress. The Sender is closed when producer completes and the
// Receiver when consumer completes, so each side observes the other
// finishing as ErrClosed.
func Run[T, A, B any](producer kont.Eff[A], consumer kont.Eff[B]) (A, B) {
	return RunExpr[T](Reify(producer), Reify(consumer))
}

// RunExpr is Run for Expr-world protocols.
func RunExpr[T, A, B any](producer kont.Expr[A], consumer kont.Expr[B]) (A, B) {
	tx, rx := New[T]()
	defer tx.Close()
	defer rx.Close()
	pp := &Port[T]{Sender: tx}
	cp := &Port[T]{Receiver: rx}

	resultA, suspA := Step[A](producer)
	resultB, suspB := Step[B](consumer)
	if suspA == nil {
		tx.Close()
	}
	if suspB == nil {
		rx.Close()
	}
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance(pp, suspA)
			if err == nil {
				progress = true
				if suspA == nil {
					tx.Close()
				}
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance(cp, suspB)
			if err == nil {
				progress = true
				if suspB == nil {
					rx.Close()
				}
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
