package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/chemlab/internal/core"
	"github.com/JonMunkholm/chemlab/internal/logging"
	"github.com/JonMunkholm/chemlab/internal/web/templates"
)

// handleIndex renders the structure tab.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.Page(s.pageParams(templates.TabStructure)))
}

// handleOpenDirectory is the label click: select the directory and flip
// its expansion in one request.
func (s *Server) handleOpenDirectory(w http.ResponseWriter, r *http.Request) {
	id, err := parseDirectoryID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := s.service.SelectDirectory(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	if _, err := s.service.ToggleExpansion(id); err != nil {
		fail(w, r, err)
		return
	}
	redirectHome(w, r)
}

// handleToggleForm flips expansion without changing the selection.
func (s *Server) handleToggleForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseDirectoryID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := s.service.ToggleExpansion(id); err != nil {
		fail(w, r, err)
		return
	}
	redirectHome(w, r)
}

// handleCreateDirectoryForm creates a folder from the sidebar form. A blank
// name does nothing.
func (s *Server) handleCreateDirectoryForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	parent, err := parseParentID(r.PostFormValue("parent_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := s.service.CreateDirectory(r.Context(), r.PostFormValue("name"), parent); err != nil {
		if errors.Is(err, core.ErrEmptyName) {
			redirectHome(w, r)
			return
		}
		fail(w, r, err)
		return
	}
	redirectHome(w, r)
}

// handleUploadForm accepts a file from the drop zone and waits for the
// parse so the redirect shows the updated merged table.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
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
	result, err := s.service.UploadResult(r.Context(), uploadID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if result.Err != nil {
		fail(w, r, result.Err)
		return
	}
	logging.FromContext(r.Context()).Debug("upload form complete", "upload_id", uploadID, "rows", result.Rows)
	redirectHome(w, r)
}

// handleSearchPage renders the search tab; hits are computed synchronously.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	p := s.pageParams(templates.TabSearch)
	p.Query = r.URL.Query().Get("q")
	p.Hits = s.service.Search(r.Context(), p.Query)
	render(w, r, templates.Page(p))
}

// handleAnalyticsPage renders the analytics tab.
func (s *Server) handleAnalyticsPage(w http.ResponseWriter, r *http.Request) {
	p := s.pageParams(templates.TabAnalytics)
	p.Analytics = s.service.Analytics()
	render(w, r, templates.Page(p))
}

// handleSettingsPage renders the settings tab.
func (s *Server) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	p := s.pageParams(templates.TabSettings)
	p.SettingsSaved = r.URL.Query().Get("saved") == "1"
	render(w, r, templates.Page(p))
}

// handleSettingsSubmit saves the settings form. Invalid input re-renders
// the form with the submitted values and the validation message.
func (s *Server) handleSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	next := core.Settings{
		UserName: r.PostFormValue("user_name"),
		Email:    r.PostFormValue("email"),
		Language: r.PostFormValue("language"),
		DarkMode: r.PostFormValue("dark_mode") == "on",
	}

	if err := s.service.UpdateSettings(r.Context(), next); err != nil {
		if !errors.Is(err, core.ErrInvalidSettings) {
			fail(w, r, err)
			return
		}
		p := s.pageParams(templates.TabSettings)
		p.Settings = next
		p.SettingsError = err.Error()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render(w, r, templates.Page(p))
		return
	}
	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}
