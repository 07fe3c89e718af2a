package engine

import "runtime"

// Profiler tracks the frame rate on the window clock and logs it, together
// with heap statistics, once per interval.
type Profiler struct {
	frames   int
	last     float64
	interval float64
	fps      float64

	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler starts measuring at time now (seconds) with a one second
// interval.
func NewProfiler(now float64) *Profiler {
	return &Profiler{last: now, interval: 1}
}

// Tick records one presented frame at time now. It reports whether the
// interval elapsed and stats were logged.
func (p *Profiler) Tick(now float64) bool {
	p.frames++
	elapsed := now - p.last
	if elapsed < p.interval {
		return false
	}

	p.fps = float64(p.frames) / elapsed

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed
	logger.Debugf("fps %.1f | heap %.2f MB | alloc %.2f MB/s | gc %d",
		p.fps, heapMB, allocRateMB, p.memStats.NumGC)

	p.frames = 0
	p.last = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FPS returns the rate measured over the last full interval.
func (p *Profiler) FPS() float64 { return p.fps }
