package resilience

import (
	"sync"
	"testing"
	"time"
)

func TestNewSlidingWindowLimiter_Defaults(t *testing.T) {
	l := NewSlidingWindowLimiter(SlidingWindowConfig{})

	if l.config.Limit != 10 {
		t.Errorf("Limit = %d, want 10", l.config.Limit)
	}
	if l.config.Window != time.Minute {
		t.Errorf("Window = %v, want 1m", l.config.Window)
	}
}

func TestSlidingWindowLimiter_Exactness(t *testing.T) {
	l := NewSlidingWindowLimiter(SlidingWindowConfig{Limit: 3})

	current := time.Unix(1000, 0)
	l.now = func() time.Time { return current }

	// 3 calls within 1 second succeed.
	for i := 0; i < 3; i++ {
		current = current.Add(300 * time.Millisecond)
		if !l.TryAcquire() {
			t.Fatalf("TryAcquire() #%d = false, want true", i+1)
		}
	}

	// A 4th within the same minute fails.
	current = current.Add(time.Second)
	if l.TryAcquire() {
		t.Fatal("TryAcquire() #4 = true, want false")
	}

	// 61 seconds after the first admission, the window has slid past all
	// three and a new call succeeds.
	current = time.Unix(1000, 0).Add(61 * time.Second)
	if !l.TryAcquire() {
		t.Fatal("TryAcquire() after window slid = false, want true")
	}
}

func TestSlidingWindowLimiter_PurgeIsLazy(t *testing.T) {
	l := NewSlidingWindowLimiter(SlidingWindowConfig{Limit: 2, Window: time.Minute})

	current := time.Unix(0, 0)
	l.now = func() time.Time { return current }

	if !l.TryAcquire() || !l.TryAcquire() {
		t.Fatal("initial admissions failed")
	}
	if l.TryAcquire() {
		t.Fatal("TryAcquire() over limit = true, want false")
	}

	// Old entries are purged on the next check, freeing capacity.
	current = current.Add(2 * time.Minute)
	if !l.TryAcquire() {
		t.Fatal("TryAcquire() after purge = false, want true")
	}

	m := l.Metrics()
	if m.InWindow != 1 {
		t.Errorf("InWindow = %d, want 1", m.InWindow)
	}
}

func TestSlidingWindowLimiter_Metrics(t *testing.T) {
	l := NewSlidingWindowLimiter(SlidingWindowConfig{Limit: 5, Window: time.Minute})

	current := time.Unix(500, 0)
	l.now = func() time.Time { return current }

	l.TryAcquire()
	l.TryAcquire()

	m := l.Metrics()
	if m.Limit != 5 {
		t.Errorf("Limit = %d, want 5", m.Limit)
	}
	if m.InWindow != 2 {
		t.Errorf("InWindow = %d, want 2", m.InWindow)
	}
	if want := current.Add(time.Minute); !m.ResetAt.Equal(want) {
		t.Errorf("ResetAt = %v, want %v", m.ResetAt, want)
	}
}

func TestSlidingWindowLimiter_MetricsEmpty(t *testing.T) {
	l := NewSlidingWindowLimiter(SlidingWindowConfig{})

	m := l.Metrics()
	if m.InWindow != 0 {
		t.Errorf("InWindow = %d, want 0", m.InWindow)
	}
}

func TestSlidingWindowLimiter_ConcurrentAdmissions(t *testing.T) {
	l := NewSlidingWindowLimiter(SlidingWindowConfig{Limit: 10, Window: time.Minute})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 10 {
		t.Errorf("admitted = %d, want exactly 10", admitted)
	}
}
