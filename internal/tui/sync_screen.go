package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-note-sync/models"
)

type syncModel struct {
	spinner spinner.Model
	label   string

	cancel context.CancelFunc

	done   bool
	result models.SyncResult
	err    error
}

func newSyncModel(cancel context.CancelFunc) syncModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return syncModel{
		spinner: s,
		label:   "Preparing sync",
		cancel:  cancel,
	}
}

func (m syncModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m syncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, nil
		}

	case labelMsg:
		m.label = string(msg)
		return m, nil

	case summaryMsg:
		m.result = models.SyncResult(msg)
		return m, nil

	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m syncModel) View() string {
	if m.done {
		if m.err != nil {
			return appStyle.Render(errorStyle.Render("Sync failed: " + m.err.Error()))
		}
		summary := fmt.Sprintf("%s\nmerged: %d  deleted: %d  uploaded: %t  downloaded: %t",
			m.result.Message, m.result.MergedNotes, m.result.DeletedNotes, m.result.Uploaded, m.result.Downloaded)
		return appStyle.Render(titleStyle.Render("Sync complete") + summaryStyle.Render("\n"+summary))
	}

	view := m.spinner.View() + " " + m.label
	return appStyle.Render(view + "\n" + helpStyle.Render("press q to cancel"))
}
