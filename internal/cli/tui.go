package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/catalogcheck/pkg/checker"
)

const progressBarWidth = 30

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// =============================================================================
// progressModel - live view of a running check
// =============================================================================

type (
	eventMsg checker.Event
	tickMsg  struct{}
)

// progressModel is the bubbletea model fed by the checker's progress stream.
type progressModel struct {
	event  checker.Event
	frame  int
	cancel context.CancelFunc
}

func newProgressModel(cancel context.CancelFunc) progressModel {
	return progressModel{event: checker.Indeterminate("Loading catalogs"), cancel: cancel}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.event = checker.Event(msg)
		if m.event.Done {
			return m, tea.Quit
		}
	case tickMsg:
		m.frame++
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.event.Done {
		return ""
	}
	frame := styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)])
	if !m.event.Determinate {
		return fmt.Sprintf("%s %s\n", frame, StyleDim.Render(m.event.Task))
	}
	filled := m.event.Percentage * progressBarWidth / 100
	bar := StyleSuccess.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", progressBarWidth-filled))
	return fmt.Sprintf("%s %-28s %s %3d%%\n", frame, m.event.Task, bar, m.event.Percentage)
}

// =============================================================================
// Progress sinks
// =============================================================================

// progressView runs a progressModel until Stop is called.
type progressView struct {
	program *tea.Program
	done    chan struct{}
}

// startProgress renders progress to w until Stop. Pressing ctrl+c calls cancel.
func startProgress(ctx context.Context, w io.Writer, cancel context.CancelFunc) *progressView {
	v := &progressView{
		program: tea.NewProgram(newProgressModel(cancel), tea.WithOutput(w), tea.WithContext(ctx)),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(v.done)
		_, _ = v.program.Run()
	}()
	return v
}

// Func returns the progress callback that feeds the view.
func (v *progressView) Func() checker.ProgressFunc {
	return func(e checker.Event) { v.program.Send(eventMsg(e)) }
}

// Stop ends the view and restores the terminal.
func (v *progressView) Stop() {
	v.program.Quit()
	<-v.done
}

// logProgress reports task changes at debug level. It is used when stderr
// is not a terminal.
func logProgress(logger *log.Logger) checker.ProgressFunc {
	var (
		mu   sync.Mutex
		last string
	)
	return func(e checker.Event) {
		mu.Lock()
		defer mu.Unlock()
		if e.Task == last {
			return
		}
		last = e.Task
		logger.Debug(e.Task)
	}
}
