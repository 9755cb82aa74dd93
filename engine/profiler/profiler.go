package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting window of the frame loop.
type Stats struct {
	// FPS is the number of loop iterations per second.
	FPS float64
	// Redraws is how many iterations repainted the viewport.
	Redraws int
	// MaxFrame is the longest single iteration.
	MaxFrame time.Duration
	// HeapMB is the live heap at the end of the window.
	HeapMB float64
	// GCCount is the cumulative number of garbage collections.
	GCCount uint32
}

// Profiler tracks frame rate, redraw count and memory statistics for the viewport loop.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	redrawCount    int
	maxFrame       time.Duration
	lastTime       time.Time
	lastFrame      time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	readMem        bool
	quiet          bool
	now            func() time.Time
	last           Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		readMem:        true,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	return p
}

// Tick should be called once per loop iteration. Logs statistics when the update interval
// has elapsed.
//
// Parameters:
//   - redrawn: whether this iteration repainted the viewport
//
// Returns:
//   - bool: true if a reporting window closed this tick, false otherwise
func (p *Profiler) Tick(redrawn bool) bool {
	currentTime := p.now()
	p.frameCount++
	if redrawn {
		p.redrawCount++
	}
	if d := currentTime.Sub(p.lastFrame); d > p.maxFrame {
		p.maxFrame = d
	}
	p.lastFrame = currentTime

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	stats := Stats{
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		Redraws:  p.redrawCount,
		MaxFrame: p.maxFrame,
	}
	if p.readMem {
		runtime.ReadMemStats(&p.memStats)
		stats.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
		stats.GCCount = p.memStats.NumGC
	}
	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Redraws: %d | Max frame: %s | Heap: %.2f MB | GC: %d",
			stats.FPS, stats.Redraws, stats.MaxFrame, stats.HeapMB, stats.GCCount)
	}

	p.last = stats
	p.frameCount = 0
	p.redrawCount = 0
	p.maxFrame = 0
	p.lastTime = currentTime
	return true
}

// Last returns the statistics of the most recently closed reporting window.
func (p *Profiler) Last() Stats {
	return p.last
}
