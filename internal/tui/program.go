package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/pullrefresh/internal/config"
	"github.com/ensigniasec/pullrefresh/internal/scheduler"
	"github.com/ensigniasec/pullrefresh/internal/storage"
)

// Run starts the Bubble Tea demo, routing the machine's timers through the
// program's message loop.
func Run(ctx context.Context, settings config.Settings, history *storage.Storage) error {
	loop := scheduler.NewLoop(nil)
	model, err := New(ctx, settings, loop, history)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	loop.SetPost(func(f func()) { p.Send(runMsg{f: f}) })

	// Silence external logs (WARN/ERRO) during TUI to avoid corrupting the view.
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	defer logrus.SetOutput(prevOut)

	_, err = p.Run()
	return err
}
