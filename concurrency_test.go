// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package last_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/last"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryOpsDoNotBlockOnHeldLock(t *testing.T) {
	tx, rx := last.New[int]()
	defer tx.Close()
	defer rx.Close()

	release := last.HoldLock(rx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := tx.TrySend(1)
		assert.True(t, iox.IsWouldBlock(err), "TrySend: %v", err)
		var se *last.SendError[int]
		if assert.True(t, errors.As(err, &se)) {
			assert.Equal(t, 1, se.Value)
		}
		_, err = rx.TryRecv()
		assert.True(t, iox.IsWouldBlock(err), "TryRecv: %v", err)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("try operations blocked on a held lock")
	}
	release()

	_, err := rx.Recv()
	assert.ErrorIs(t, err, last.ErrNoNewValue, "WouldBlock must not write")
}

func TestSendBlocksUntilLockReleased(t *testing.T) {
	tx, rx := last.New[int]()
	defer tx.Close()
	defer rx.Close()

	release := last.HoldLock(rx)
	sent := make(chan error, 1)
	go func() { sent <- tx.Send(9) }()

	select {
	case err := <-sent:
		t.Fatalf("Send returned %v while the lock was held", err)
	case <-time.After(20 * time.Millisecond):
	}
	release()
	require.NoError(t, <-sent)

	v, err := rx.Recv()
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

type frame struct {
	producer int
	seq      int
	check    int
}

func TestConcurrentTrySendNeverTears(t *testing.T) {
	const producers = 8
	const attempts = 2000

	tx, rx := last.New[frame]()
	defer rx.Close()

	var ok, blocked atomic.Int64
	var wg sync.WaitGroup
	for p := range producers {
		clone := tx.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer clone.Close()
			for i := range attempts {
				err := clone.TrySend(frame{producer: p, seq: i, check: p*attempts + i})
				switch {
				case err == nil:
					ok.Add(1)
				case iox.IsWouldBlock(err):
					blocked.Add(1)
				default:
					t.Errorf("TrySend: %v", err)
					return
				}
			}
		}()
	}
	tx.Close()

	stop := make(chan struct{})
	received := make(chan int, 1)
	go func() {
		n := 0
		lastSeq := make(map[int]int)
		for {
			f, err := rx.TryRecv()
			switch {
			case err == nil:
				n++
				assert.Equal(t, f.producer*attempts+f.seq, f.check, "torn value")
				if prev, seen := lastSeq[f.producer]; seen {
					assert.Greater(t, f.seq, prev, "stale value from producer %d", f.producer)
				}
				lastSeq[f.producer] = f.seq
			case errors.Is(err, last.ErrClosed):
				received <- n
				return
			}
			select {
			case <-stop:
				received <- n
				return
			default:
			}
		}
	}()

	wg.Wait()
	var n int
	select {
	case n = <-received:
	case <-time.After(5 * time.Second):
		close(stop)
		n = <-received
		t.Fatal("receiver never observed ErrClosed")
	}

	assert.Equal(t, int64(producers*attempts), ok.Load()+blocked.Load())
	assert.Positive(t, ok.Load())
	assert.LessOrEqual(t, int64(n), ok.Load())
}

func TestConcurrentSendLastWriterWins(t *testing.T) {
	const producers = 4
	tx, rx := last.New[int]()
	defer rx.Close()

	var wg sync.WaitGroup
	for p := range producers {
		clone := tx.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer clone.Close()
			for i := range 500 {
				assert.NoError(t, clone.Send(p*1000+i))
			}
		}()
	}
	wg.Wait()

	v, err := rx.Recv()
	require.NoError(t, err)
	assert.Equal(t, 499, v%1000, "the last send of some producer wins")
	assert.Less(t, v/1000, producers)

	_, err = rx.Recv()
	assert.ErrorIs(t, err, last.ErrNoNewValue, "original Sender still open")
	tx.Close()
	_, err = rx.Recv()
	assert.ErrorIs(t, err, last.ErrClosed)
}

func TestConcurrentReceiverCloseStopsSenders(t *testing.T) {
	tx, rx := last.New[int]()
	defer tx.Close()

	var wg sync.WaitGroup
	var closedSeen atomic.Int64
	for range 4 {
		clone := tx.Clone()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer clone.Close()
			for i := 0; ; i++ {
				if errors.Is(clone.Send(i), last.ErrClosed) {
					closedSeen.Add(1)
					return
				}
			}
		}()
	}
	time.Sleep(5 * time.Millisecond)
	rx.Close()
	wg.Wait()
	assert.Equal(t, int64(4), closedSeen.Load())
}

func TestCloneRacingClose(t *testing.T) {
	for range 200 {
		tx, rx := last.New[int]()
		var wg sync.WaitGroup
		var clone *last.Sender[int]
		wg.Add(2)
		go func() { defer wg.Done(); clone = tx.Clone() }()
		go func() { defer wg.Done(); tx.Close() }()
		wg.Wait()

		_, err := rx.TryRecv()
		if clone.Closed() {
			assert.ErrorIs(t, err, last.ErrClosed)
			assert.ErrorIs(t, clone.Send(1), last.ErrClosed)
		} else {
			assert.ErrorIs(t, err, last.ErrNoNewValue)
			require.NoError(t, clone.Send(1))
			clone.Close()
		}
		rx.Close()
	}
}
