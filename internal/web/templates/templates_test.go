package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/chemlab/internal/core"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestMergedTable(t *testing.T) {
	table := core.MergedTable{
		Columns: []string{"date", "temp", "yield"},
		Rows: []core.MergedRow{
			{FileID: 1, Cells: map[string]core.Cell{"date": "2023-07-01", "temp": "80"}},
			{FileID: 2, Cells: map[string]core.Cell{"date": "2023-07-02", "yield": "<88>"}},
		},
	}

	html := renderString(t, MergedTable("en", table))

	assert.Contains(t, html, "<th>date</th><th>temp</th><th>yield</th>")
	assert.Contains(t, html, "<tr data-file=\"1\"><td>2023-07-01</td><td class=\"num\">80</td><td class=\"absent\"></td></tr>")
	assert.Contains(t, html, "&lt;88&gt;")
	assert.NotContains(t, html, "<88>")
}

func TestMergedTable_Empty(t *testing.T) {
	assert.Contains(t, renderString(t, MergedTable("en", core.MergedTable{})), "No data")
	assert.Contains(t, renderString(t, MergedTable("ja", core.MergedTable{})), "データがありません")
}

func TestPage_Overview(t *testing.T) {
	p := PageParams{
		Tab:      TabStructure,
		Settings: core.Settings{Language: "en"},
		Tree: []core.TreeRow{
			{Directory: core.Directory{ID: 1, Name: "Projects"}, HasChildren: true, Expanded: true},
			{Directory: core.Directory{ID: 2, Name: "Synthesis", ParentID: 1}, Depth: 1},
		},
		Directories:    []core.Directory{{ID: 1, Name: "Projects"}, {ID: 2, Name: "Synthesis", ParentID: 1}},
		FileCounts:     map[core.DirectoryID]int{2: 3},
		DirectoryCount: 2,
		FileCount:      3,
	}

	html := renderString(t, Page(p))

	assert.True(t, strings.HasPrefix(html, "<!doctype html><html lang=\"en\">"))
	assert.Contains(t, html, "<h1>Project overview</h1>")
	assert.Contains(t, html, "action=\"/directories/1/toggle\"")
	assert.NotContains(t, html, "action=\"/directories/2/toggle\"", "leaves have no toggle")
	assert.Contains(t, html, "<span class=\"badge\">3</span>")
	assert.Contains(t, html, "<li class=\"node\"><form method=\"post\" class=\"inline\" action=\"/directories/1/toggle\">")
	assert.Contains(t, html, "<li class=\"node\"><span class=\"indent\"></span> <span class=\"toggle\"></span>", "depth 1 row is indented once")
	assert.Contains(t, html, "<a class=\"tab active\" aria-current=\"page\" href=\"/\">Structure</a>")
	assert.NotContains(t, html, "dropzone")
}

func TestPage_ActiveDirectory(t *testing.T) {
	active := core.Directory{ID: 2, Name: "Synthesis", ParentID: 1}
	p := PageParams{
		Tab:      TabStructure,
		Settings: core.DefaultSettings(),
		Active:   &active,
		Path:     []core.Directory{{ID: 1, Name: "Projects"}, active},
		Files: []core.FileRecord{
			{ID: 1, Name: "a.csv", Content: core.Content{Header: []string{"x"}, Rows: [][]core.Cell{{"1"}, {"2"}}}},
		},
	}

	html := renderString(t, Page(p))

	assert.Contains(t, html, "Projects / Synthesis")
	assert.Contains(t, html, "<h1>Synthesis</h1>")
	assert.Contains(t, html, "action=\"/directories/2/files\"")
	assert.Contains(t, html, "a.csv <small>2 行</small>")
}

func TestSidebar_EscapesNames(t *testing.T) {
	p := PageParams{
		Settings:    core.DefaultSettings(),
		Tree:        []core.TreeRow{{Directory: core.Directory{ID: 1, Name: "<script>x</script>"}}},
		Directories: []core.Directory{{ID: 1, Name: "<script>x</script>"}},
	}

	html := renderString(t, Sidebar(p))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;x&lt;/script&gt;")
}

func TestSidebar_MarksActiveDirectory(t *testing.T) {
	active := core.Directory{ID: 2, Name: "Synthesis", ParentID: 1}
	p := PageParams{
		Settings:    core.DefaultSettings(),
		Active:      &active,
		Tree:        []core.TreeRow{{Directory: core.Directory{ID: 1, Name: "Projects"}}, {Directory: active, Depth: 1}},
		Directories: []core.Directory{{ID: 1, Name: "Projects"}, active},
	}

	html := renderString(t, Sidebar(p))

	assert.Equal(t, 1, strings.Count(html, "class=\"node active\""))
	assert.Contains(t, html, "<option value=\"2\" selected>Synthesis</option>")
	assert.Contains(t, html, "<option value=\"1\">Projects</option>")
}

func TestSearchPane(t *testing.T) {
	hits := []core.SearchHit{{
		File:          core.FileRecord{Name: "s001.csv", Content: core.Content{Rows: [][]core.Cell{{"S001"}}}},
		DirectoryName: "Properties",
	}}

	html := renderString(t, SearchPane("en", "s001", hits))
	assert.Contains(t, html, "value=\"s001\"")
	assert.Contains(t, html, "<strong>s001.csv</strong> <span class=\"dir\">Properties</span>")

	html = renderString(t, SearchPane("en", "", nil))
	assert.NotContains(t, html, "No matching files", "no results block before a search")

	html = renderString(t, SearchPane("en", "zzz", nil))
	assert.Contains(t, html, "No matching files")
}

func TestAnalyticsChart(t *testing.T) {
	points := []core.AnalyticsPoint{
		{Month: "Jan", Experiments: 4, SuccessRate: 75},
		{Month: "Feb", Experiments: 8, SuccessRate: 100},
	}

	html := renderString(t, AnalyticsChart("en", points))

	assert.Contains(t, html, "<polyline class=\"series experiments\" points=\"40,120 560,40\"></polyline>")
	assert.Contains(t, html, "<polyline class=\"series success\" points=\"40,80 560,40\"></polyline>")
	assert.Contains(t, html, "<td>Feb</td><td>8</td><td>100</td>")
}

func TestPolyline_ClampsAndSinglePoint(t *testing.T) {
	assert.Equal(t, "300,200", polyline([]int{-5}, 10))
	assert.Equal(t, "40,40 560,200", polyline([]int{50, 0}, 10))
}

func TestSettingsForm(t *testing.T) {
	s := core.Settings{UserName: "\"Sato\"", Email: "s@example.com", Language: "en", DarkMode: true}

	html := renderString(t, SettingsForm(s, "", true))
	assert.Contains(t, html, "Settings saved")
	assert.Contains(t, html, "value=\"&#34;Sato&#34;\"")
	assert.Contains(t, html, "<option value=\"en\" selected>English</option>")
	assert.Contains(t, html, "value=\"on\" checked>")

	html = renderString(t, SettingsForm(s, "invalid settings: email must be a valid email", false))
	assert.Contains(t, html, "class=\"alert error\"")
	assert.NotContains(t, html, "Settings saved")
}

func TestErrorAlert(t *testing.T) {
	html := renderString(t, ErrorAlert("Bad <file>", "", "FILE002"))
	assert.Equal(t, "<div class=\"alert error\" role=\"alert\"><strong>Bad &lt;file&gt;</strong> <small>FILE002</small></div>", html)

	html = renderString(t, ErrorAlert("Upload failed", "Check the file", "UPL001"))
	assert.Contains(t, html, "</strong> <p>Check the file</p><small>UPL001</small>")
}

func TestLabel_Fallback(t *testing.T) {
	assert.Equal(t, "Search", label("en", "tab.search"))
	assert.Equal(t, "検索", label("fr", "tab.search"))
	assert.Equal(t, "no.such.key", label("en", "no.such.key"))
}
