package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("chat-1")
			defer unlock()

			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_DifferentKeysRunInParallel(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("chat-a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := km.Lock("chat-b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedMutex_UnlockTwiceIsSafe(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.Lock("chat-1")
	unlock()
	unlock()
	assert.Equal(t, 0, km.Len())

	unlock = km.Lock("chat-1")
	assert.Equal(t, 1, km.Len())
	unlock()
}
