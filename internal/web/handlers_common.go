package web

// This file contains shared utilities used across handlers.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/chemlab/internal/core"
	"github.com/JonMunkholm/chemlab/internal/web/templates"
)

// multipartOverhead is allowed on top of the file size limit for the
// multipart envelope and the other form fields.
const multipartOverhead = 1 << 20

// parseDirectoryID reads the {id} URL parameter.
func parseDirectoryID(r *http.Request) (core.DirectoryID, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidDirectory, raw)
	}
	return core.DirectoryID(id), nil
}

// parseParentID reads an optional parent id form value; blank means root.
func parseParentID(raw string) (core.DirectoryID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.RootParent, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidParent, raw)
	}
	return core.DirectoryID(id), nil
}

// parseMode maps the form value to a parse mode. Blank means header mode.
func parseMode(raw string) core.ParseMode {
	if raw == "" {
		return core.ParseHeader
	}
	return core.ParseMode(raw)
}

// readUpload extracts the multipart file, its name and the parse mode.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, core.ParseMode, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, "", fmt.Errorf("%w: request exceeds %d bytes", core.ErrFileTooLarge, tooLarge.Limit)
		}
		return "", nil, "", fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, "", fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, "", fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, parseMode(r.FormValue("mode")), nil
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidDirectory), errors.Is(err, core.ErrUploadNotFound), errors.Is(err, core.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidParent), errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrParseFailure), errors.Is(err, core.ErrInvalidSettings):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrTooManyUploads):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// fail responds with the status statusFor picks.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err, statusFor(err))
}

// render writes a component, logging failures since headers may be sent.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "path", r.URL.Path, "error", err)
	}
}

// redirectHome sends a form post back to the workspace page.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// UploadResultResponse is the JSON form of a finished upload.
type UploadResultResponse struct {
	UploadID    string           `json:"upload_id"`
	DirectoryID core.DirectoryID `json:"directory_id"`
	FileName    string           `json:"file_name"`
	FileID      core.FileID      `json:"file_id,omitempty"`
	Rows        int              `json:"rows"`
	Columns     int              `json:"columns"`
	Duration    string           `json:"duration"`
	Error       string           `json:"error,omitempty"`
	Message     string           `json:"message,omitempty"`
	Code        string           `json:"code,omitempty"`
}

// toResponse converts an UploadResult to a JSON-friendly format.
func toResponse(result *core.UploadResult) UploadResultResponse {
	resp := UploadResultResponse{
		UploadID:    result.UploadID,
		DirectoryID: result.DirectoryID,
		FileName:    result.FileName,
		Rows:        result.Rows,
		Columns:     result.Columns,
		Duration:    result.Duration.String(),
		Error:       result.Error,
	}
	if result.File != nil {
		resp.FileID = result.File.ID
	}
	if ue := core.NewUserError(result.Err); ue != nil {
		resp.Message = ue.User.Message
		resp.Code = ue.User.Code
	}
	return resp
}

// pageParams snapshots the workspace for a full page render.
func (s *Server) pageParams(tab templates.Tab) templates.PageParams {
	dirs, files := s.service.Stats()
	p := templates.PageParams{
		Tab:            tab,
		Settings:       s.service.Settings(),
		Tree:           s.service.Tree(),
		Directories:    s.service.Directories(),
		FileCounts:     s.service.FileCounts(),
		DirectoryCount: dirs,
		FileCount:      files,
	}
	if dir, table, ok := s.service.ActiveDirectory(); ok {
		p.Active = &dir
		p.Table = table
		p.Path = s.service.Path(dir.ID)
		p.Files, _ = s.service.Files(dir.ID)
	}
	return p
}
