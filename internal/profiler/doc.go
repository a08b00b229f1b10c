// Package profiler measures an experiment run.
//
// A [Profiler] samples wall time, process CPU time and resident memory when
// started and stopped, records every tick duration, and flushes a report to
// a file either as human readable text or as a CSV table. [Metrics] exports
// the same tick data as Prometheus collectors.
package profiler
