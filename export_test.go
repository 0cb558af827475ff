// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

// HoldLock acquires the slot lock of rx's channel and returns the function
// releasing it. Tests use it to stand in for a party stuck in a critical
// section.
func HoldLock[T any](rx *Receiver[T]) (release func()) {
	rx.s.State.Lock()
	return rx.s.State.Unlock
}
