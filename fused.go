// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"code.hybscloud.com/kont"
)

// PublishThen publishes v and continues with next, ignoring whether the
// channel was still open. Fuses Perform(Publish[T]{Value: v}) + Then.
func PublishThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Publish[T]{Value: v}), next)
}

// PublishBind publishes v and passes the outcome to f: true if v was
// written, false if the channel is closed.
// Fuses Perform(Publish[T]{Value: v}) + Bind.
func PublishBind[T, B any](v T, f func(bool) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Publish[T]{Value: v}), f)
}

// TakeBind takes the latest value and passes it to f.
// Fuses Perform(Take[T]{}) + Bind.
func TakeBind[T, B any](f func(kont.Either[error, T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Take[T]{}), f)
}
