//go:build unit

package keylock_test

import (
	"sync"
	"testing"

	"parkgate/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := keylock.New()

	counter := 0
	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			km.Lock("AB123CD")
			defer km.Unlock("AB123CD")
			counter++
			return nil
		})
	}
	assert.NoError(t, g.Wait())
	assert.Equal(t, 100, counter)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := keylock.New()

	km.Lock("AAA11")

	done := make(chan struct{})
	go func() {
		km.Lock("BBB22")
		km.Unlock("BBB22")
		close(done)
	}()

	// A held lock on one plate must not block another plate.
	<-done
	km.Unlock("AAA11")
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := keylock.New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("CC333")
			km.Unlock("CC333")
		}()
	}
	wg.Wait()

	// Re-acquiring after full release must not deadlock.
	km.Lock("CC333")
	km.Unlock("CC333")
}
