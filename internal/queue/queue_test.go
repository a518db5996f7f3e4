package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_HandlesInOrderAndDrainsOnClose(t *testing.T) {
	var got []int
	q := New("numbers", 10, func(n int) { got = append(got, n) })

	for i := 1; i <= 5; i++ {
		assert.True(t, q.Push(i))
	}
	q.Close()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestQueue_DropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	var (
		mu      sync.Mutex
		handled int
	)
	q := New("slow", 1, func(int) {
		<-release
		mu.Lock()
		handled++
		mu.Unlock()
	})

	accepted := 0
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			if q.Push(i) {
				accepted++
			}
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked on a full queue")
	}

	close(release)
	q.Close()

	assert.Less(t, accepted, 10)
	assert.Equal(t, accepted, handled)
}

func TestQueue_PushAfterClose(t *testing.T) {
	calls := 0
	q := New("closed", 0, func(string) { calls++ })
	q.Close()
	q.Close()

	assert.False(t, q.Push("late"))
	assert.Zero(t, calls)
}
