// Package progress reports sync phases to whatever surface runs the sync:
// the terminal UI, the structured log, or nothing at all for tests.
package progress

import (
	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/models"
)

//go:generate mockgen -source=progress.go -destination=../mock/mock_progress.go -package=mock

// Progress receives phase updates while a sync runs. Label reads the
// caller-visible description of the current activity and SetLabel restores
// it, so a sync can temporarily repurpose an existing indicator and put it
// back when done.
type Progress interface {
	Label() string
	SetLabel(label string)

	Start(label string)
	Update(label string)
	Stop()

	Summary(result models.SyncResult)
}

type logProgress struct {
	label  string
	logger *logger.Logger
}

// NewLogProgress returns a Progress that narrates phases into the
// structured log. Used by headless runs and the background job.
func NewLogProgress(log *logger.Logger) Progress {
	return &logProgress{logger: log}
}

func (p *logProgress) Label() string { return p.label }

func (p *logProgress) SetLabel(label string) { p.label = label }

func (p *logProgress) Start(label string) {
	p.label = label
	p.logger.Info().Str("phase", label).Msg("sync started")
}

func (p *logProgress) Update(label string) {
	p.label = label
	p.logger.Info().Str("phase", label).Msg("sync progress")
}

func (p *logProgress) Stop() {
	p.logger.Info().Msg("sync finished")
}

func (p *logProgress) Summary(result models.SyncResult) {
	p.logger.Info().
		Bool("uploaded", result.Uploaded).
		Bool("downloaded", result.Downloaded).
		Int("merged_notes", result.MergedNotes).
		Int("deleted_notes", result.DeletedNotes).
		Msg(result.Message)
}

type nopProgress struct {
	label string
}

// Nop returns a Progress that records labels and discards everything else.
func Nop() Progress {
	return &nopProgress{}
}

func (p *nopProgress) Label() string             { return p.label }
func (p *nopProgress) SetLabel(label string)     { p.label = label }
func (p *nopProgress) Start(label string)        { p.label = label }
func (p *nopProgress) Update(label string)       { p.label = label }
func (p *nopProgress) Stop()                     {}
func (p *nopProgress) Summary(models.SyncResult) {}
