// Package tui renders a one-shot synchronization in the terminal: a spinner
// with the current phase while the sync runs, then the outcome summary.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/progress"
	"github.com/MKhiriev/go-note-sync/models"
)

// Syncer runs one full synchronization. Implemented by the sync service.
type Syncer interface {
	Sync(ctx context.Context, direction models.SyncDirection) (models.SyncResult, error)
}

// Run drives one sync under the terminal UI. The build callback receives
// the UI-backed progress reporter and returns the syncer wired to it;
// pressing q cancels the sync's context.
func Run(direction models.SyncDirection, build func(p progress.Progress) Syncer, log *logger.Logger) (models.SyncResult, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(newSyncModel(cancel))
	syncer := build(newTeaProgress(program))

	go func() {
		result, err := syncer.Sync(ctx, direction)
		program.Send(doneMsg{result: result, err: err})
	}()

	finalModel, err := program.Run()
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("error running terminal ui: %w", err)
	}

	m, ok := finalModel.(syncModel)
	if !ok {
		return models.SyncResult{}, fmt.Errorf("unexpected final ui model")
	}
	if m.err != nil {
		log.Err(m.err).Str("func", "tui.Run").Msg("sync failed")
		return models.SyncResult{}, m.err
	}

	return m.result, nil
}
