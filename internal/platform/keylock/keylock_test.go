package keylock

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLockSerializesSameKey(t *testing.T) {
	locks := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("0xA")
			defer unlock()
			current := counter
			time.Sleep(time.Microsecond)
			counter = current + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
	if locks.Len() != 0 {
		t.Fatalf("expected released entries, got %d", locks.Len())
	}
}

func TestLockDoesNotBlockOtherKeys(t *testing.T) {
	locks := New()
	unlockA := locks.Lock("0xA")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("0xB")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("lock on another key blocked")
	}
}

func TestZeroValueMap(t *testing.T) {
	var locks Map
	unlock := locks.Lock("0xA")
	if locks.Len() != 1 {
		t.Fatalf("expected one held key, got %d", locks.Len())
	}
	unlock()
	if locks.Len() != 0 {
		t.Fatalf("expected no held keys, got %d", locks.Len())
	}
}
