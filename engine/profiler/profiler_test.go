package profiler

import (
	"testing"
	"time"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func TestProfilerReportsWindow(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithQuiet(true))

	frames := []struct {
		step    time.Duration
		redrawn bool
	}{
		{100 * time.Millisecond, true},
		{300 * time.Millisecond, false},
		{200 * time.Millisecond, true},
		{200 * time.Millisecond, false},
	}
	for _, f := range frames {
		clock.t = clock.t.Add(f.step)
		if p.Tick(f.redrawn) {
			t.Fatalf("Tick failed: window closed early at %v", clock.t)
		}
	}

	clock.t = clock.t.Add(200 * time.Millisecond)
	if !p.Tick(true) {
		t.Fatalf("Tick failed: expected the window to close after 1s")
	}

	stats := p.Last()
	if stats.FPS != 5 {
		t.Errorf("Tick failed: expected 5 FPS, got %v", stats.FPS)
	}
	if stats.Redraws != 3 {
		t.Errorf("Tick failed: expected 3 redraws, got %d", stats.Redraws)
	}
	if stats.MaxFrame != 300*time.Millisecond {
		t.Errorf("Tick failed: expected max frame 300ms, got %v", stats.MaxFrame)
	}
}

func TestProfilerResetsAfterWindow(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithQuiet(true), WithInterval(time.Second/2))

	clock.t = clock.t.Add(time.Second / 2)
	if !p.Tick(true) {
		t.Fatalf("Tick failed: expected the first window to close")
	}
	clock.t = clock.t.Add(time.Second / 4)
	p.Tick(false)
	clock.t = clock.t.Add(time.Second / 4)
	if !p.Tick(false) {
		t.Fatalf("Tick failed: expected the second window to close")
	}
	if got := p.Last(); got.Redraws != 0 || got.FPS != 4 {
		t.Errorf("Tick failed: expected 4 FPS and no redraws, got %+v", got)
	}
}
