package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-note-sync/models"
)

type labelMsg string

type summaryMsg models.SyncResult

type doneMsg struct {
	result models.SyncResult
	err    error
}

// teaProgress bridges the sync service's progress callbacks into bubbletea
// messages. Label state is kept here so the service's save/restore of the
// label works without touching the model.
type teaProgress struct {
	program *tea.Program

	mu    sync.Mutex
	label string
}

func newTeaProgress(program *tea.Program) *teaProgress {
	return &teaProgress{program: program}
}

func (p *teaProgress) Label() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.label
}

func (p *teaProgress) SetLabel(label string) {
	p.mu.Lock()
	p.label = label
	p.mu.Unlock()
	p.program.Send(labelMsg(label))
}

func (p *teaProgress) Start(label string)  { p.SetLabel(label) }
func (p *teaProgress) Update(label string) { p.SetLabel(label) }
func (p *teaProgress) Stop()               {}

func (p *teaProgress) Summary(result models.SyncResult) {
	p.program.Send(summaryMsg(result))
}
