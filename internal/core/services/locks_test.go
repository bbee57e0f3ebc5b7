package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks(t *testing.T) {
	locks := newUserLocks()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("u1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Equal(t, 0, locks.size(), "released locks are dropped")
}

func TestUserLocks_DifferentUsersDoNotBlock(t *testing.T) {
	locks := newUserLocks()

	unlockA := locks.lock("a")
	done := make(chan struct{})
	go func() {
		unlock := locks.lock("b")
		unlock()
		close(done)
	}()

	<-done
	unlockA()
	assert.Equal(t, 0, locks.size())
}
