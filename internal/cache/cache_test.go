package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	if got := Key("ACME", "balance_sheet"); got != "ACME|balance_sheet" {
		t.Fatalf("key = %q", got)
	}
	if got := Key("ACME"); got != "ACME" {
		t.Fatalf("key = %q", got)
	}
}

func TestGetOrFetch_CachesPerKey(t *testing.T) {
	c := NewTTL[string](time.Minute)
	var calls int32
	fetch := func(v string) func() (string, error) {
		return func() (string, error) {
			atomic.AddInt32(&calls, 1)
			return v, nil
		}
	}

	// Distinct keys fetch independently; a newly entered ticker can
	// never observe another ticker's cached value.
	for i := 0; i < 3; i++ {
		got, err := c.GetOrFetch(Key("ACME", "balance_sheet"), fetch("acme-bs"))
		if err != nil || got != "acme-bs" {
			t.Fatalf("got %q err %v", got, err)
		}
	}
	got, err := c.GetOrFetch(Key("OTHR", "balance_sheet"), fetch("othr-bs"))
	if err != nil || got != "othr-bs" {
		t.Fatalf("got %q err %v", got, err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("fetch ran %d times, want 2", n)
	}
}

func TestGetOrFetch_TTLExpiry(t *testing.T) {
	c := NewTTL[int](time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	var calls int
	fetch := func() (int, error) {
		calls++
		return calls, nil
	}

	if v, _ := c.GetOrFetch("k", fetch); v != 1 {
		t.Fatalf("first fetch = %d", v)
	}
	current = current.Add(30 * time.Second)
	if v, _ := c.GetOrFetch("k", fetch); v != 1 {
		t.Fatalf("within ttl = %d, want cached 1", v)
	}
	current = current.Add(31 * time.Second)
	if v, _ := c.GetOrFetch("k", fetch); v != 2 {
		t.Fatalf("after ttl = %d, want refetched 2", v)
	}
}

func TestGetOrFetch_ErrorsNotCached(t *testing.T) {
	c := NewTTL[int](time.Minute)
	calls := 0
	boom := errors.New("boom")
	fetch := func() (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 42, nil
	}

	if _, err := c.GetOrFetch("k", fetch); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	v, err := c.GetOrFetch("k", fetch)
	if err != nil || v != 42 {
		t.Fatalf("retry got %d err %v", v, err)
	}
}

func TestGetOrFetch_CoalescesConcurrentFetches(t *testing.T) {
	c := NewTTL[int](time.Minute)
	var calls int32
	release := make(chan struct{})
	fetch := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := c.GetOrFetch("k", fetch); err != nil || v != 7 {
				t.Errorf("got %d err %v", v, err)
			}
		}()
	}
	// Let the goroutines pile onto the flight group before releasing.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("fetch ran %d times, want 1", n)
	}
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	c := NewTTL[int](0)
	calls := 0
	fetch := func() (int, error) {
		calls++
		return calls, nil
	}
	_, _ = c.GetOrFetch("k", fetch)
	_, _ = c.GetOrFetch("k", fetch)
	if calls != 2 {
		t.Fatalf("fetch ran %d times, want 2", calls)
	}
}
