package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/skidpad/parameter"
)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	if diff := provider.Now().Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestManualClockAdvance(t *testing.T) {
	origin := time.Unix(100, 0)
	clock := NewManualClock(origin)

	if now := clock.Now(); !now.Equal(origin) {
		t.Errorf("Expected %v before any advance, got %v", origin, now)
	}
	if now := clock.Advance(parameter.SimTickInterval); !now.Equal(origin.Add(parameter.SimTickInterval)) {
		t.Errorf("Expected one tick past origin, got %v", now)
	}

	clock.Advance(-time.Hour)
	if got := clock.Elapsed(); got != parameter.SimTickInterval {
		t.Errorf("Expected a negative advance to be ignored, elapsed %v", got)
	}
}

func TestManualClockConcurrentAdvance(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clock.Advance(time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = clock.Now()
			}
		}()
	}
	wg.Wait()

	if got := clock.Elapsed(); got != 800*time.Millisecond {
		t.Errorf("Expected 800ms after concurrent advances, got %v", got)
	}
}

func TestTimeProviderInterface(t *testing.T) {
	var _ TimeProvider = &MonotonicTimeProvider{}
	var _ TimeProvider = &ManualClock{}
}
