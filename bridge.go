// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

import (
	"code.hybscloud.com/kont"
)

// Reify turns a closure-built Publish/Take protocol into its Expr form.
// Expr protocols can be suspended at each Publish or Take: hand the result
// to Step and Advance to poll a channel from an event loop, or to RunExpr
// to interleave a producer with a consumer on one goroutine.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect turns an Expr protocol back into closure form, so protocols
// assembled from ExprPublishBind and ExprTakeBind can be composed with
// PublishBind, TakeBind, Loop and Drain and evaluated by Exec or Run
// against a Port.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}
