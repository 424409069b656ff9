package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/internal/service"
)

const (
	snapshotDigestHeader = "X-Snapshot-Digest"
)

// downloadSnapshot streams the stored snapshot to the client. 404 signals
// that nothing has been uploaded yet; sync clients treat that as "remote
// does not exist", not as a failure.
func (h *Handler) downloadSnapshot(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	snapshot, info, err := h.services.SnapshotService.Open(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSnapshotNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Err(err).Msg("error opening snapshot")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer snapshot.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set(snapshotDigestHeader, info.Digest)

	if _, err = io.Copy(w, snapshot); err != nil {
		log.Err(err).Msg("error streaming snapshot")
	}
}

// snapshotInfo answers HEAD requests with the stored snapshot's size and
// digest, letting clients detect divergence without a download.
func (h *Handler) snapshotInfo(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	info, err := h.services.SnapshotService.Info(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSnapshotNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		log.Err(err).Msg("error reading snapshot info")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set(snapshotDigestHeader, info.Digest)
	w.WriteHeader(http.StatusOK)
}

// uploadSnapshot replaces the stored snapshot with the request body.
func (h *Handler) uploadSnapshot(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	defer r.Body.Close()

	info, err := h.services.SnapshotService.Save(r.Context(), r.Body)
	if err != nil {
		log.Err(err).Msg("error storing snapshot")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set(snapshotDigestHeader, info.Digest)
	w.WriteHeader(http.StatusOK)
}
