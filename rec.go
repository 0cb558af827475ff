// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Loop runs a recursive protocol (Cont-world).
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return Loop(left, step)
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}

// Drain takes values until the channel reports ErrClosed and folds every
// value received into acc with f. An ErrNoNewValue round waits on an
// [iox.Backoff] before the next Take, so an idle Drain driven by Exec
// does not hold a CPU; the backoff resets once a value arrives.
func Drain[T, S any](acc S, f func(S, T) S) kont.Eff[S] {
	var bo iox.Backoff
	return Loop(acc, func(s S) kont.Eff[kont.Either[S, S]] {
		return TakeBind(func(e kont.Either[error, T]) kont.Eff[kont.Either[S, S]] {
			if v, ok := e.GetRight(); ok {
				bo.Reset()
				return kont.Pure(kont.Left[S, S](f(s, v)))
			}
			if err, _ := e.GetLeft(); errors.Is(err, ErrClosed) {
				return kont.Pure(kont.Right[S](s))
			}
			bo.Wait()
			return kont.Pure(kont.Left[S, S](s))
		})
	})
}
