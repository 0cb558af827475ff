// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last

// Serial is a monotonically increasing channel identifier.
// Each call to New (in this package or lastmap) assigns the next value.
type Serial = uint32
