package config

import (
	"fmt"
	"math"
)

const (
	MethodScatterGather = "scatter-gather"
	MethodHDispatch     = "h-dispatch"

	ProfileHumanReadable = "human_readable"
	ProfileTable         = "table"
)

// System selects the threading strategy. Threads == 0 means single-threaded.
type System struct {
	Threads int
	Method  string
}

type Experiment struct {
	RandomSeed     uint32
	TicksPerSecond uint32
	Length         float64
	RealTime       bool
}

type Profiling struct {
	File         string
	Format       string
	TruncateFile bool
}

// Framework is the decoded <framework> section.
type Framework struct {
	System     System
	Experiment Experiment
	// Profiling is nil when no <profiling> element is present.
	Profiling *Profiling
}

func DefaultFramework() Framework {
	return Framework{
		System:     System{Method: MethodScatterGather},
		Experiment: Experiment{TicksPerSecond: 10},
	}
}

// TickLength returns the duration of one tick in seconds.
func (f Framework) TickLength() float64 {
	return 1 / float64(f.Experiment.TicksPerSecond)
}

// MaxTicks returns the tick bound, 0 meaning unbounded.
func (f Framework) MaxTicks() uint64 {
	if f.Experiment.Length <= 0 {
		return 0
	}
	return uint64(math.Round(f.Experiment.Length * float64(f.Experiment.TicksPerSecond)))
}

// ParseFramework decodes <framework> from the document root. The
// <experiment> element and its ticks_per_second attribute are mandatory.
func ParseFramework(root *Node) (Framework, error) {
	f := DefaultFramework()
	fw, err := root.Child("framework")
	if err != nil {
		return f, err
	}

	if sys, err := fw.Child("system"); err == nil {
		if f.System.Threads, err = AttrOrDefault(sys, "threads", 0); err != nil {
			return f, err
		}
		if f.System.Threads < 0 {
			return f, fmt.Errorf("%w: negative thread count %d", ErrBadAttr, f.System.Threads)
		}
		if f.System.Method, err = AttrOrDefault(sys, "method", MethodScatterGather); err != nil {
			return f, err
		}
	}

	exp, err := fw.Child("experiment")
	if err != nil {
		return f, err
	}
	if f.Experiment.TicksPerSecond, err = Attr[uint32](exp, "ticks_per_second"); err != nil {
		return f, err
	}
	if f.Experiment.TicksPerSecond == 0 {
		return f, fmt.Errorf("%w: ticks_per_second must be positive", ErrBadAttr)
	}
	if f.Experiment.RandomSeed, err = AttrOrDefault[uint32](exp, "random_seed", 0); err != nil {
		return f, err
	}
	if f.Experiment.Length, err = AttrOrDefault(exp, "length", 0.0); err != nil {
		return f, err
	}
	if f.Experiment.RealTime, err = AttrOrDefault(exp, "real_time", false); err != nil {
		return f, err
	}

	if prof, err := fw.Child("profiling"); err == nil {
		p := &Profiling{}
		if p.File, err = Attr[string](prof, "file"); err != nil {
			return f, err
		}
		if p.Format, err = Attr[string](prof, "format"); err != nil {
			return f, err
		}
		if p.Format != ProfileHumanReadable && p.Format != ProfileTable {
			return f, fmt.Errorf("%w: unrecognized profile format %q", ErrBadAttr, p.Format)
		}
		if p.TruncateFile, err = AttrOrDefault(prof, "truncate_file", true); err != nil {
			return f, err
		}
		f.Profiling = p
	}
	return f, nil
}
