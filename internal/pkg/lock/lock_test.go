package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestWithLockSerializesSameUser checks that concurrent WithLock calls
// for the same user never overlap: a shared counter incremented
// non-atomically under the lock must end at exactly the goroutine count.
func TestWithLockSerializesSameUser(t *testing.T) {
	ul := NewUserLock()
	const goroutines = 50

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ul.WithLock(7, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestTryLock(t *testing.T) {
	ul := NewUserLock()

	assert.True(t, ul.TryLock(1))
	assert.False(t, ul.TryLock(1), "second TryLock on a held lock must fail")

	// A different user is unaffected.
	assert.True(t, ul.TryLock(2))
	ul.Unlock(2)

	ul.Unlock(1)
	assert.True(t, ul.TryLock(1))
	ul.Unlock(1)
}

// TestLockIndependencePerUser checks via random interleavings that locks
// for distinct user IDs never block each other.
func TestLockIndependencePerUser(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ul := NewUserLock()
		ids := rapid.SliceOfNDistinct(rapid.Int64Range(1, 1000), 2, 10, rapid.ID[int64]).Draw(t, "ids")

		held := ids[0]
		ul.Lock(held)
		for _, id := range ids[1:] {
			if !ul.TryLock(id) {
				t.Fatalf("lock for user %d blocked by lock held for user %d", id, held)
			}
			ul.Unlock(id)
		}
		ul.Unlock(held)
	})
}
