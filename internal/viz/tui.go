package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilpincy/argos3-sub001/internal/config"
)

// TickMsg asks the model to advance the experiment by one tick.
type TickMsg time.Time

// TUI shows the arena in the terminal while the experiment runs.
type TUI struct {
	settings   Settings
	cols, rows int
	frame      time.Duration
	options    []tea.ProgramOption
}

func NewTUI() *TUI {
	return &TUI{cols: 60, rows: 20, options: []tea.ProgramOption{tea.WithAltScreen()}}
}

// Init reads the optional attributes cols, rows and frame_ms (minimum
// redraw period when not running in real time).
func (v *TUI) Init(node *config.Node, s Settings) error {
	v.settings = s
	if node == nil {
		return nil
	}
	var err error
	if v.cols, err = config.AttrOrDefault(node, "cols", v.cols); err != nil {
		return err
	}
	if v.rows, err = config.AttrOrDefault(node, "rows", v.rows); err != nil {
		return err
	}
	if v.cols <= 0 || v.rows <= 0 {
		return fmt.Errorf("%w: cols and rows must be positive", config.ErrBadAttr)
	}
	ms, err := config.AttrOrDefault(node, "frame_ms", 0)
	v.frame = time.Duration(ms) * time.Millisecond
	return err
}

func (v *TUI) Execute(ctx context.Context, r Runner) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, v.options...)
	if v.settings.Out != nil {
		opts = append(opts, tea.WithOutput(v.settings.Out))
	}
	final, err := tea.NewProgram(v.NewModel(r), opts...).Run()
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		r.Terminate()
		return ctx.Err()
	}
	return err
}

// NewModel builds the Bubble Tea model driving r.
func (v *TUI) NewModel(r Runner) Model {
	interval := v.frame
	if v.settings.RealTime && v.settings.TickLength > interval {
		interval = v.settings.TickLength
	}
	return Model{
		runner:   r,
		canvas:   NewCanvas(v.cols, v.rows),
		interval: interval,
		running:  true,
	}
}

func (v *TUI) Reset()   {}
func (v *TUI) Destroy() {}

// Model is the Bubble Tea model of the arena view.
type Model struct {
	runner   Runner
	canvas   *Canvas
	interval time.Duration
	running  bool
	lastStep time.Duration
	err      error
}

func (m Model) Init() tea.Cmd { return m.next() }

func (m Model) next() tea.Cmd {
	if m.interval <= 0 {
		return func() tea.Msg { return TickMsg(time.Now()) }
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.runner.Terminate()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				return m.step(false)
			}
		}
	case TickMsg:
		if !m.running {
			return m, m.next()
		}
		return m.step(true)
	}
	return m, nil
}

// step advances one tick; when chain is set the next tick is scheduled.
func (m Model) step(chain bool) (tea.Model, tea.Cmd) {
	if m.runner.IsExperimentFinished() {
		return m, tea.Quit
	}
	start := time.Now()
	if err := m.runner.UpdateSpace(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.lastStep = time.Since(start)
	if m.runner.IsExperimentFinished() {
		return m, tea.Quit
	}
	if chain {
		return m, m.next()
	}
	return m, nil
}

// Running reports whether the model is stepping on its own.
func (m Model) Running() bool { return m.running }

func (m Model) draw() { drawArena(m.canvas, m.runner.Space()) }

func (m Model) View() string {
	m.draw()
	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	var b strings.Builder
	b.WriteString(Title.Render("arena") + "  " + status + "\n")
	b.WriteString(Panel.Render(m.canvas.String()) + "\n")
	clock := m.runner.Clock()
	b.WriteString(metric("tick", fmt.Sprint(clock)))
	if maxTicks := m.runner.MaxTicks(); maxTicks > 0 {
		b.WriteString(" " + ProgressBar(float64(clock)/float64(maxTicks), 20))
	}
	b.WriteString("  " + metric("step", m.lastStep.Round(time.Microsecond).String()) + "\n")
	b.WriteString(KeyHint.Render("space pause  s step  q quit"))
	return b.String()
}
