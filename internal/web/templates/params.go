// Package templates renders the workspace pages as templ components.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate -path .

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/chemlab/internal/core"
)

// Tab selects the main pane.
type Tab string

const (
	TabStructure Tab = "structure"
	TabSearch    Tab = "search"
	TabAnalytics Tab = "analytics"
	TabSettings  Tab = "settings"
)

var tabs = []struct {
	tab  Tab
	href string
	key  string
}{
	{TabStructure, "/", "tab.structure"},
	{TabSearch, "/search", "tab.search"},
	{TabAnalytics, "/analytics", "tab.analytics"},
	{TabSettings, "/settings", "tab.settings"},
}

var languages = []struct{ code, name string }{
	{"ja", "日本語"},
	{"en", "English"},
}

// PageParams is everything one full page render needs.
type PageParams struct {
	Tab      Tab
	Settings core.Settings

	// Sidebar
	Tree        []core.TreeRow
	Directories []core.Directory
	FileCounts  map[core.DirectoryID]int

	// Structure tab; Active is nil when nothing is selected.
	Active         *core.Directory
	Path           []core.Directory
	Table          core.MergedTable
	Files          []core.FileRecord
	DirectoryCount int
	FileCount      int

	// Search tab
	Query string
	Hits  []core.SearchHit

	// Analytics tab
	Analytics []core.AnalyticsPoint

	// Settings tab
	SettingsError string
	SettingsSaved bool
}

func (p PageParams) isActive(id core.DirectoryID) bool {
	return p.Active != nil && p.Active.ID == id
}

// directoryPath builds the form target for an action on directory id.
func directoryPath(id core.DirectoryID, action string) string {
	return "/directories/" + strconv.FormatInt(int64(id), 10) + "/" + action
}

func breadcrumb(path []core.Directory) string {
	names := make([]string, len(path))
	for i, d := range path {
		names[i] = d.Name
	}
	return strings.Join(names, " / ")
}
