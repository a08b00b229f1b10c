package space

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ilpincy/argos3-sub001/internal/config"
)

// Strategy runs n independent tasks and returns once all of them are done.
// The first task error is returned.
type Strategy interface {
	Name() string
	Threads() int
	Run(n int, task func(i int) error) error
	Close()
}

// NewStrategy picks the strategy for a <system> element. Zero threads means
// single-threaded whatever the method.
func NewStrategy(method string, threads int) (Strategy, error) {
	if threads <= 0 {
		return single{}, nil
	}
	switch method {
	case "", config.MethodScatterGather:
		return &scatterGather{threads: threads}, nil
	case config.MethodHDispatch:
		return newHDispatch(threads), nil
	}
	return nil, fmt.Errorf("%w %q, available methods: %q and %q",
		ErrUnknownThreadingMethod, method, config.MethodScatterGather, config.MethodHDispatch)
}

type single struct{}

func (single) Name() string { return "single" }
func (single) Threads() int { return 0 }
func (single) Close()       {}

func (single) Run(n int, task func(i int) error) error {
	for i := 0; i < n; i++ {
		if err := task(i); err != nil {
			return err
		}
	}
	return nil
}

type scatterGather struct {
	threads int
}

func (s *scatterGather) Name() string { return config.MethodScatterGather }
func (s *scatterGather) Threads() int { return s.threads }
func (s *scatterGather) Close()       {}

// Run splits [0, n) in contiguous slices of equal length, one per thread.
func (s *scatterGather) Run(n int, task func(i int) error) error {
	if n == 0 {
		return nil
	}
	chunk := (n + s.threads - 1) / s.threads
	var g errgroup.Group
	g.SetLimit(s.threads)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := task(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

type hDispatch struct {
	threads int
	jobs    chan func()
	workers sync.WaitGroup
	once    sync.Once
}

func newHDispatch(threads int) *hDispatch {
	h := &hDispatch{threads: threads, jobs: make(chan func())}
	h.workers.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer h.workers.Done()
			for job := range h.jobs {
				job()
			}
		}()
	}
	return h
}

func (h *hDispatch) Name() string { return config.MethodHDispatch }
func (h *hDispatch) Threads() int { return h.threads }

// Run hands tasks to idle workers one at a time, so long tasks do not hold
// back a whole slice.
func (h *hDispatch) Run(n int, task func(i int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		h.jobs <- func() {
			defer wg.Done()
			if err := task(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}
	}
	wg.Wait()
	return firstErr
}

// Close stops the workers. The strategy must not be used afterwards.
func (h *hDispatch) Close() {
	h.once.Do(func() {
		close(h.jobs)
		h.workers.Wait()
	})
}
