// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is boxed once to avoid a heap escape per ExprPublishThen.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprPublishThen publishes v and then continues with next.
// Fuses ExprPerform(Publish[T]{Value: v}) + ExprThen.
func ExprPublishThen[T, B any](v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Publish[T]{Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func publishBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(bool) kont.Expr[B])
	result := f(current.(bool))
	return kont.Erased(result.Value), result.Frame
}

// ExprPublishBind publishes v and passes the outcome to f.
// Fuses ExprPerform(Publish[T]{Value: v}) + ExprBind.
func ExprPublishBind[T, B any](v T, f func(bool) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = publishBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Publish[T]{Value: v}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func takeBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(kont.Either[error, T]) kont.Expr[B])
	result := f(current.(kont.Either[error, T]))
	return kont.Erased(result.Value), result.Frame
}

// ExprTakeBind takes the latest value and passes it to f.
// Fuses ExprPerform(Take[T]{}) + ExprBind.
func ExprTakeBind[T, B any](f func(kont.Either[error, T]) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = takeBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Take[T]{}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
