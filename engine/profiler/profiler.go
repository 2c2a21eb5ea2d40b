package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats summarizes the frames of one reporting interval.
type Stats struct {
	Frames   int
	FPS      float64
	AvgFrame time.Duration
	MaxFrame time.Duration
	HeapMB   float64
	GCCount  uint32
}

// Profiler tracks frame rate, frame time and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	frameTotal     time.Duration
	frameMax       time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	last           Stats

	now     func() time.Time
	logging bool
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logging:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset starts a fresh interval at the current time and drops the frames
// counted so far. Call it right before the first frame so that setup time
// is not reported as a frame.
func (p *Profiler) Reset() {
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	p.frameCount = 0
	p.frameTotal = 0
	p.frameMax = 0
}

// Tick should be called once per frame, after the frame was presented.
// Logs statistics when the update interval has elapsed: FPS, average and
// worst frame time, heap in use and GC count.
//
// Returns:
//   - bool: true if stats were reported this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := p.now()
	frame := currentTime.Sub(p.lastFrame)
	p.lastFrame = currentTime

	p.frameCount++
	p.frameTotal += frame
	p.frameMax = max(p.frameMax, frame)

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	p.last = Stats{
		Frames:   p.frameCount,
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		AvgFrame: p.frameTotal / time.Duration(p.frameCount),
		MaxFrame: p.frameMax,
		HeapMB:   float64(p.memStats.Alloc) / 1024 / 1024,
		GCCount:  p.memStats.NumGC,
	}
	if p.logging {
		log.Printf("[Profiler] FPS: %.2f | Frame: avg %.2f ms, max %.2f ms | Heap: %.2f MB | GC: %d",
			p.last.FPS, ms(p.last.AvgFrame), ms(p.last.MaxFrame), p.last.HeapMB, p.last.GCCount)
	}

	p.frameCount = 0
	p.frameTotal = 0
	p.frameMax = 0
	p.lastTime = currentTime
	return true
}

// Last returns the statistics of the most recently completed interval.
func (p *Profiler) Last() Stats {
	return p.last
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
