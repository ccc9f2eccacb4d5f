package module

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_NoNotificationsInitialization(t *testing.T) {
	notifier := NewNotifier()
	select {
	case <-notifier.Channel():
		t.Fail()
	default: // expected
	}
}

// TestNotifier_Coalescing checks that many concurrent notifications result in
// exactly one pending wakeup, also when passed by value.
func TestNotifier_Coalescing(t *testing.T) {
	notifier := NewNotifier()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n Notifier) {
			defer wg.Done()
			n.Notify()
		}(notifier)
	}
	wg.Wait()

	select {
	case <-notifier.Channel(): // expected
	default:
		assert.Fail(t, "expected a pending notification")
	}
	select {
	case <-notifier.Channel():
		assert.Fail(t, "expected notifications to be coalesced")
	default: // expected
	}
}
