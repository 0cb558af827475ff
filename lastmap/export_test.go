// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lastmap

// HoldLock acquires the map lock of rx's channel and returns the function
// releasing it.
func HoldLock[K comparable, V any](rx *Receiver[K, V]) (release func()) {
	rx.s.State.Lock()
	return rx.s.State.Unlock
}
