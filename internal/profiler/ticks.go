package profiler

import "time"

// TickStats accumulates tick durations.
type TickStats struct {
	count int
	sum   time.Duration
	max   time.Duration
}

func (s *TickStats) Observe(d time.Duration) {
	s.count++
	s.sum += d
	s.max = max(s.max, d)
}

func (s *TickStats) Count() int           { return s.count }
func (s *TickStats) Max() time.Duration   { return s.max }
func (s *TickStats) Total() time.Duration { return s.sum }

func (s *TickStats) Mean() time.Duration {
	if s.count == 0 {
		return 0
	}
	return s.sum / time.Duration(s.count)
}

func (s *TickStats) Reset() { *s = TickStats{} }
