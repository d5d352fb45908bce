package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/chemlab/internal/core"
)

const maxJSONBody = 64 << 10

var validate = validator.New()

// errBadRequest marks malformed JSON bodies.
var errBadRequest = errors.New("invalid request body")

// decodeJSON reads a bounded JSON body into v and validates its tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// TreeResponse is the visible tree plus selection state.
type TreeResponse struct {
	Rows       []core.TreeRow           `json:"rows"`
	FileCounts map[core.DirectoryID]int `json:"file_counts"`
	Expanded   []core.DirectoryID       `json:"expanded"`
	ActiveID   core.DirectoryID         `json:"active_id,omitempty"`
}

func (s *Server) handleTreeAPI(w http.ResponseWriter, r *http.Request) {
	resp := TreeResponse{
		Rows:       s.service.Tree(),
		FileCounts: s.service.FileCounts(),
		Expanded:   s.service.ExpandedIDs(),
	}
	if dir, _, ok := s.service.ActiveDirectory(); ok {
		resp.ActiveID = dir.ID
	}
	writeJSON(w, resp)
}

type createDirectoryRequest struct {
	Name     string           `json:"name" validate:"max=128"`
	ParentID core.DirectoryID `json:"parent_id" validate:"gte=0"`
}

// handleCreateDirectoryAPI creates a directory. Unlike the form, a blank
// name is reported as an error so API clients can tell nothing happened.
func (s *Server) handleCreateDirectoryAPI(w http.ResponseWriter, r *http.Request) {
	var req createDirectoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	dir, err := s.service.CreateDirectory(r.Context(), req.Name, req.ParentID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, dir)
}

func (s *Server) handleToggleAPI(w http.ResponseWriter, r *http.Request) {
	id, err := parseDirectoryID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	expanded, err := s.service.ToggleExpansion(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"id": id, "expanded": expanded})
}

// handleSelectAPI makes the directory active and returns its merged table.
func (s *Server) handleSelectAPI(w http.ResponseWriter, r *http.Request) {
	id, err := parseDirectoryID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	table, err := s.service.SelectDirectory(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, table)
}

// handleTableAPI returns a merged table without selecting the directory.
func (s *Server) handleTableAPI(w http.ResponseWriter, r *http.Request) {
	id, err := parseDirectoryID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	table, err := s.service.MergedTable(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, table)
}

func (s *Server) handleFilesAPI(w http.ResponseWriter, r *http.Request) {
	id, err := parseDirectoryID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	files, err := s.service.Files(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, files)
}

func (s *Server) handleFileAPI(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "fileID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fail(w, r, fmt.Errorf("%w: %q", core.ErrFileNotFound, raw))
		return
	}
	file, ok := s.service.File(core.FileID(id))
	if !ok {
		fail(w, r, fmt.Errorf("%w: %d", core.ErrFileNotFound, id))
		return
	}
	writeJSON(w, file)
}

func (s *Server) handleSearchAPI(w http.ResponseWriter, r *http.Request) {
	hits := s.service.Search(r.Context(), r.URL.Query().Get("q"))
	if hits == nil {
		hits = []core.SearchHit{}
	}
	writeJSON(w, hits)
}

func (s *Server) handleAnalyticsAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Analytics())
}

func (s *Server) handleSettingsAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Settings())
}

func (s *Server) handleUpdateSettingsAPI(w http.ResponseWriter, r *http.Request) {
	var next core.Settings
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err), http.StatusBadRequest)
		return
	}
	next.UserName = strings.TrimSpace(next.UserName)
	if err := s.service.UpdateSettings(r.Context(), next); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, next)
}
