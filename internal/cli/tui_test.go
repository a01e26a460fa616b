package cli

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/catalogcheck/pkg/checker"
)

func TestProgressModelUpdate(t *testing.T) {
	m := newProgressModel(nil)
	if !strings.Contains(m.View(), "Loading catalogs") {
		t.Errorf("initial view = %q", m.View())
	}

	next, cmd := m.Update(eventMsg(checker.Determinate(checker.TaskFindUpdates, 40)))
	m = next.(progressModel)
	if cmd != nil {
		t.Error("a progress event should not schedule a command")
	}
	view := m.View()
	if !strings.Contains(view, checker.TaskFindUpdates) || !strings.Contains(view, " 40%") {
		t.Errorf("view = %q", view)
	}

	next, _ = m.Update(tickMsg{})
	if next.(progressModel).frame != 1 {
		t.Error("tick should advance the spinner")
	}

	next, cmd = m.Update(eventMsg(checker.Done))
	if cmd == nil {
		t.Fatal("Done should quit the program")
	}
	if got := next.(progressModel).View(); got != "" {
		t.Errorf("view after Done = %q, want empty", got)
	}
}

func TestProgressModelInterrupt(t *testing.T) {
	cancelled := false
	m := newProgressModel(func() { cancelled = true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !cancelled {
		t.Error("ctrl+c should cancel the check")
	}
	if cmd == nil {
		t.Error("ctrl+c should quit the program")
	}
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := logProgress(newLogger(&buf, log.DebugLevel))

	progress(checker.Determinate(checker.TaskFindUpdates, 0))
	progress(checker.Determinate(checker.TaskFindUpdates, 25))
	progress(checker.Determinate(checker.TaskGatherInfo, 50))
	progress(checker.Done)

	out := buf.String()
	if n := strings.Count(out, checker.TaskFindUpdates); n != 1 {
		t.Errorf("task %q logged %d times, want once:\n%s", checker.TaskFindUpdates, n, out)
	}
	if !strings.Contains(out, checker.TaskGatherInfo) || !strings.Contains(out, "Done") {
		t.Errorf("missing task changes:\n%s", out)
	}
}
