package game

import (
	"testing"
	"time"
)

func TestFPSLimiterUnlimited(t *testing.T) {
	f := NewFPSLimiter(0)
	start := time.Now()
	for range 100 {
		f.Wait()
	}
	if d := time.Since(start); d > 50*time.Millisecond {
		t.Errorf("unlimited Wait took %v", d)
	}
}

func TestFPSLimiterPaces(t *testing.T) {
	f := NewFPSLimiter(200)
	start := time.Now()
	for range 10 {
		f.Wait()
	}
	// Ten frames at 200 fps take at least 50ms.
	if d := time.Since(start); d < 45*time.Millisecond {
		t.Errorf("10 frames at 200fps took only %v", d)
	}
}

func TestFPSLimiterResyncsAfterHitch(t *testing.T) {
	f := NewFPSLimiter(100)
	f.Wait()
	time.Sleep(60 * time.Millisecond)
	f.Wait()
	if ahead := time.Until(f.next); ahead < 0 || ahead > 10*time.Millisecond {
		t.Errorf("next frame %v away after a hitch, want within one frame", ahead)
	}
}
