package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocarina/gocsv"
	"github.com/shirou/gopsutil/v3/process"
)

var (
	ErrNotStarted = errors.New("profiler: not started")
	ErrRunning    = errors.New("profiler: still running")
)

// Sample is one reading of the process counters.
type Sample struct {
	Label       string  `csv:"label"`
	WallSeconds float64 `csv:"wall_s"`
	UserSeconds float64 `csv:"user_s"`
	SysSeconds  float64 `csv:"sys_s"`
	RSSBytes    uint64  `csv:"rss_bytes"`
	Ticks       int     `csv:"ticks"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
}

type Profiler struct {
	file     string
	truncate bool
	proc     *process.Process
	now      func() time.Time

	begin   time.Time
	ticks   TickStats
	samples []Sample
	running bool
}

// New returns a profiler writing to file. When truncate is false Flush
// appends to an existing file.
func New(file string, truncate bool) (*Profiler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("profiler: %w", err)
	}
	return &Profiler{file: file, truncate: truncate, proc: proc, now: time.Now}, nil
}

func (p *Profiler) File() string { return p.file }

func (p *Profiler) Start() error {
	if p.running {
		return ErrRunning
	}
	p.begin = p.now()
	p.samples = p.samples[:0]
	p.ticks.Reset()
	p.running = true
	return p.sample("start")
}

// Tick records the duration of one simulation tick.
func (p *Profiler) Tick(d time.Duration) {
	if p.running {
		p.ticks.Observe(d)
	}
}

func (p *Profiler) Stop() error {
	if !p.running {
		return ErrNotStarted
	}
	p.running = false
	if err := p.sample("stop"); err != nil {
		return err
	}
	first, last := p.samples[0], p.samples[len(p.samples)-1]
	p.samples = append(p.samples, Sample{
		Label:       "delta",
		WallSeconds: last.WallSeconds - first.WallSeconds,
		UserSeconds: last.UserSeconds - first.UserSeconds,
		SysSeconds:  last.SysSeconds - first.SysSeconds,
		RSSBytes:    last.RSSBytes,
		Ticks:       last.Ticks,
		AvgTickUS:   last.AvgTickUS,
		MaxTickUS:   last.MaxTickUS,
	})
	return nil
}

func (p *Profiler) sample(label string) error {
	times, err := p.proc.Times()
	if err != nil {
		return fmt.Errorf("profiler: cpu times: %w", err)
	}
	mem, err := p.proc.MemoryInfo()
	if err != nil {
		return fmt.Errorf("profiler: memory info: %w", err)
	}
	p.samples = append(p.samples, Sample{
		Label:       label,
		WallSeconds: p.now().Sub(p.begin).Seconds(),
		UserSeconds: times.User,
		SysSeconds:  times.System,
		RSSBytes:    mem.RSS,
		Ticks:       p.ticks.Count(),
		AvgTickUS:   p.ticks.Mean().Microseconds(),
		MaxTickUS:   p.ticks.Max().Microseconds(),
	})
	return nil
}

// Samples returns the start, stop and delta readings once stopped.
func (p *Profiler) Samples() []Sample { return p.samples }

// Flush writes the report. The profiler must be stopped.
func (p *Profiler) Flush(humanReadable bool) error {
	if p.running {
		return ErrRunning
	}
	if len(p.samples) == 0 {
		return ErrNotStarted
	}
	flags := os.O_CREATE | os.O_WRONLY
	if p.truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(p.file, flags, 0o644)
	if err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	defer f.Close()
	if humanReadable {
		err = p.writeHuman(f)
	} else {
		err = p.writeTable(f)
	}
	if err != nil {
		return fmt.Errorf("profiler: writing %s: %w", p.file, err)
	}
	return nil
}

func (p *Profiler) writeHuman(w io.Writer) error {
	for _, s := range p.samples {
		_, err := fmt.Fprintf(w,
			"[%s]\n  wall time: %s\n  user time: %s\n  sys time:  %s\n  rss:       %s\n  ticks:     %s (avg %s, max %s)\n\n",
			s.Label,
			seconds(s.WallSeconds), seconds(s.UserSeconds), seconds(s.SysSeconds),
			humanize.IBytes(s.RSSBytes),
			humanize.Comma(int64(s.Ticks)),
			time.Duration(s.AvgTickUS)*time.Microsecond,
			time.Duration(s.MaxTickUS)*time.Microsecond)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Profiler) writeTable(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return gocsv.Marshal(p.samples, f)
	}
	return gocsv.MarshalWithoutHeaders(p.samples, f)
}

func seconds(s float64) string {
	return humanize.FtoaWithDigits(s, 6) + "s"
}
