// Package tui shows a motor burning in real time.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/experiment"
	"github.com/san-kum/burnsim/internal/viz"
)

const historyLen = 60

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

type stepMsg ballistics.Snapshot

type doneMsg struct {
	result *ballistics.Result
	err    error
}

type model struct {
	name   string
	cancel context.CancelFunc

	last    ballistics.Snapshot
	seen    bool
	thrust  []float64
	steps   int
	done    bool
	aborted bool
	err     error
	result  *ballistics.Result
}

func newModel(name string, cancel context.CancelFunc) model {
	return model{
		name:   name,
		cancel: cancel,
		thrust: make([]float64, 0, historyLen),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case stepMsg:
		m.last = ballistics.Snapshot(msg)
		m.seen = true
		m.steps = m.last.Step
		m.thrust = append(m.thrust, m.last.Thrust)
		if len(m.thrust) > historyLen {
			m.thrust = m.thrust[1:]
		}
	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render("burnsim") + dim.Render(" · "+m.name) + "\n\n")

	if !m.seen {
		b.WriteString(dim.Render("igniting...") + "\n")
		return b.String()
	}

	s := m.last
	row := func(label, value string) {
		b.WriteString(dim.Render(fmt.Sprintf("  %-10s", label)) + white.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.3f s", s.Time))
	row("step", fmt.Sprintf("%d", m.steps))
	row("pressure", fmt.Sprintf("%.6g psi", s.ChamberPressure))
	row("thrust", fmt.Sprintf("%.6g lbf", s.Thrust))
	row("kn", fmt.Sprintf("%.6g", s.Kn))
	row("mass", fmt.Sprintf("%.6g lbm", s.SystemMass))

	burning := 0
	for _, on := range s.Burning {
		if on {
			burning++
		}
	}
	row("grains", fmt.Sprintf("%d/%d burning", burning, len(s.Burning)))

	b.WriteString("\n  " + viz.Sparkline(m.thrust, historyLen) + "\n")
	if s.NonPhysical {
		b.WriteString(yellow.Render("  Kn outside the correlation's range") + "\n")
	}

	switch {
	case m.done && m.err == nil:
		b.WriteString("\n" + green.Render("  burnout") + "\n")
	case m.done:
		b.WriteString("\n" + yellow.Render("  stopped: "+m.err.Error()) + "\n")
	default:
		b.WriteString("\n" + dim.Render("  q to abort") + "\n")
	}
	return b.String()
}

// forwarder hands snapshots to the program at most once per frame.
type forwarder struct {
	send      func(tea.Msg)
	interval  time.Duration
	lastFrame time.Time
}

func (f *forwarder) OnStep(s ballistics.Snapshot) {
	if time.Since(f.lastFrame) < f.interval {
		return
	}
	f.lastFrame = time.Now()
	f.send(stepMsg(s))
}

// Run simulates exp while drawing it, and returns the result once the motor
// burns out or the user aborts. An abort surfaces as context.Canceled with
// the partial result.
func Run(ctx context.Context, exp *experiment.Experiment, frameRate int, opts ...tea.ProgramOption) (*ballistics.Result, error) {
	if frameRate <= 0 {
		frameRate = 30
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(exp.Config().Name, cancel), opts...)
	exp.AddObserver(&forwarder{send: p.Send, interval: time.Second / time.Duration(frameRate)})

	done := make(chan doneMsg, 1)
	go func() {
		result, err := exp.Run(ctx)
		msg := doneMsg{result: result, err: err}
		done <- msg
		p.Send(msg)
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("live view: %w", err)
	}

	msg := <-done
	return msg.result, msg.err
}
