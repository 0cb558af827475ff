// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/last"
)

// BenchmarkSendRecv measures a single send/recv round-trip.
func BenchmarkSendRecv(b *testing.B) {
	tx, rx := last.New[int]()
	defer tx.Close()
	defer rx.Close()
	b.ReportAllocs()
	for b.Loop() {
		_ = tx.Send(42)
		_, _ = rx.Recv()
	}
}

// BenchmarkTrySendParallel measures contended non-blocking sends.
func BenchmarkTrySendParallel(b *testing.B) {
	tx, rx := last.New[int]()
	defer tx.Close()
	defer rx.Close()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		clone := tx.Clone()
		defer clone.Close()
		for pb.Next() {
			_ = clone.TrySend(1)
		}
	})
}

// BenchmarkExecPublishTake measures a Cont-world publish/take protocol.
func BenchmarkExecPublishTake(b *testing.B) {
	tx, rx := last.New[int]()
	defer tx.Close()
	defer rx.Close()
	p := &last.Port[int]{Sender: tx, Receiver: rx}
	b.ReportAllocs()
	for b.Loop() {
		last.Exec(p, last.PublishThen(1, last.TakeBind(func(e kont.Either[error, int]) kont.Eff[int] {
			v, _ := e.GetRight()
			return kont.Pure(v)
		})))
	}
}

// BenchmarkExprPublishTake measures the Expr-world publish/take protocol.
func BenchmarkExprPublishTake(b *testing.B) {
	tx, rx := last.New[int]()
	defer tx.Close()
	defer rx.Close()
	p := &last.Port[int]{Sender: tx, Receiver: rx}
	b.ReportAllocs()
	for b.Loop() {
		last.ExecExpr(p, last.ExprPublishThen(1, last.ExprTakeBind(func(e kont.Either[error, int]) kont.Expr[int] {
			v, _ := e.GetRight()
			return kont.ExprReturn(v)
		})))
	}
}
