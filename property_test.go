// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last_test

import (
	"errors"
	"testing"
	"testing/quick"

	"code.hybscloud.com/last"
)

// TestPropertyCoalescing proves that for any sequence of sends with no
// intervening receive, exactly the last value is observed, once.
func TestPropertyCoalescing(t *testing.T) {
	property := func(payload []int64) bool {
		tx, rx := last.New[int64]()
		defer tx.Close()
		defer rx.Close()

		for _, v := range payload {
			if tx.Send(v) != nil {
				return false
			}
		}
		v, err := rx.Recv()
		if len(payload) == 0 {
			return errors.Is(err, last.ErrNoNewValue)
		}
		if err != nil || v != payload[len(payload)-1] {
			return false
		}
		_, err = rx.Recv()
		return errors.Is(err, last.ErrNoNewValue)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyClosedSendReturnsValue proves that a rejected send hands
// back exactly the value passed in.
func TestPropertyClosedSendReturnsValue(t *testing.T) {
	property := func(v string) bool {
		tx, rx := last.New[string]()
		defer tx.Close()
		rx.Close()

		var se *last.SendError[string]
		err := tx.Send(v)
		return errors.As(err, &se) && errors.Is(err, last.ErrClosed) && se.Value == v
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}
