package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/chemlab/internal/logging"
)

// handleUploadAPI starts an asynchronous upload and returns its id. The
// file is parsed in the background; poll the status or result endpoints.
func (s *Server) handleUploadAPI(w http.ResponseWriter, r *http.Request) {
	id, err := parseDirectoryID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	name, data, mode, err := s.readUpload(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	uploadID, err := s.service.StartUpload(r.Context(), id, name, data, mode)
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/uploads/"+uploadID)
	writeJSONStatus(w, http.StatusAccepted, map[string]string{"upload_id": uploadID})
}

// handleUploadStatus returns the current progress without blocking.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	progress, err := s.service.UploadProgress(chi.URLParam(r, "uploadID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, progress)
}

// handleUploadProgress streams upload progress via Server-Sent Events.
// The event id is the progress percentage; lastEventId skips events a
// reconnecting client has already seen.
func (s *Server) handleUploadProgress(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")

	lastEventID := -1
	if v := r.URL.Query().Get("lastEventId"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			lastEventID = n
		}
	}

	progressCh, err := s.service.SubscribeProgress(uploadID)
	if err != nil {
		fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	logger := logging.WithFields(r.Context(), "upload_id", uploadID)

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				fmt.Fprint(w, "event: complete\ndata: {}\n\n")
				_ = rc.Flush()
				return
			}

			percent := progress.Percent()
			if percent <= lastEventID && progress.Error == "" {
				continue
			}
			lastEventID = percent

			data, err := json.Marshal(progress)
			if err != nil {
				logger.Error("encode progress", "error", err)
				return
			}
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", percent, data)
			if err := rc.Flush(); err != nil {
				logger.Debug("progress stream closed", "error", err)
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

// handleUploadResult waits for the upload to finish and returns its result.
// A failed parse is still a 200: the failure is in the body.
func (s *Server) handleUploadResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.UploadResult(r.Context(), chi.URLParam(r, "uploadID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, toResponse(result))
}

// handleUploadQueueStatus reports upload slot usage.
func (s *Server) handleUploadQueueStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.UploadLimiterStatus())
}
