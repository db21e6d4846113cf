package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/styles"
)

type (
	progressStatusMsg string
	progressDoneMsg   struct{}
)

// progressModel shows a spinner with the latest status line until the work
// reports done. Ctrl+C cancels the work and waits for it to return.
type progressModel struct {
	spinner spinner.Model
	label   string
	status  string
	cancel  context.CancelFunc
	done    bool
}

func newProgressModel(label string, cancel context.CancelFunc) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.CursorStyle
	return progressModel{spinner: s, label: label, cancel: cancel}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.status = "cancelling..."
		}
		return m, nil
	case progressStatusMsg:
		m.status = string(msg)
		return m, nil
	case progressDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	line := fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	if m.status != "" {
		line += " " + styles.MutedStyle.Render(m.status)
	}
	return line + "\n"
}

// withProgress runs work under showProgress and returns its error.
func (a *app) withProgress(ctx context.Context, label string, work func(ctx context.Context, update func(string)) error) error {
	var err error
	a.showProgress(ctx, label, func(ctx context.Context, update func(string)) {
		err = work(ctx, update)
	})
	return err
}

// showProgress runs work, showing a spinner on interactive terminals. The
// update function passed to work sets the status line and is safe to call
// from several goroutines.
func (a *app) showProgress(ctx context.Context, label string, work func(ctx context.Context, update func(string))) {
	if !a.interactive {
		work(ctx, func(string) {})
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(label, cancel), tea.WithOutput(a.out), tea.WithContext(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		work(ctx, func(status string) { p.Send(progressStatusMsg(status)) })
		p.Send(progressDoneMsg{})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Debug("progress display stopped", "error", err)
	}
	<-done
}
