package sync

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-note-sync/models"
)

// formatApplied narrates how many rows the merge wrote into the local store.
func formatApplied(n int) string {
	if n == 1 {
		return "Applied 1 change locally"
	}
	return fmt.Sprintf("Applied %d changes locally", n)
}

// formatMessage renders the outcome as one human-readable sentence, e.g.
// "Downloaded changes, merged 3 notes". With nothing to report it returns
// "No changes detected".
func formatMessage(uploaded, downloaded bool, stats models.MergeStats) string {
	var clauses []string

	if uploaded {
		clauses = append(clauses, "uploaded changes")
	}
	if downloaded {
		clauses = append(clauses, "downloaded changes")
	}
	if stats.NotesMerged > 0 {
		clauses = append(clauses, fmt.Sprintf("merged %d notes", stats.NotesMerged))
	}
	if stats.NotesDeleted > 0 {
		clauses = append(clauses, fmt.Sprintf("propagated %d deletions", stats.NotesDeleted))
	}

	if len(clauses) == 0 {
		return "No changes detected"
	}

	message := strings.Join(clauses, ", ")
	runes := []rune(message)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
