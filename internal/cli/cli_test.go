package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/chemlab/internal/core"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd_Structure(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "tree", "merge"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("seed"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))

	merge, _, err := root.Find([]string{"merge"})
	require.NoError(t, err)
	for _, flag := range []string{"dir", "mode", "jobs"} {
		assert.NotNil(t, merge.Flags().Lookup(flag), "--%s", flag)
	}
}

func TestTreeCmd(t *testing.T) {
	out, _, err := execute(t, "tree")
	require.NoError(t, err)

	want := strings.Join([]string{
		"新規材料開発プロジェクト [1] (0 files)",
		"  高分子合成実験 [2] (1 files)",
		"  物性評価 [3] (1 files)",
		"  安定性試験 [4] (0 files)",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestTreeCmd_SeedFile(t *testing.T) {
	dir := t.TempDir()
	seed := writeFile(t, dir, "lab.yaml", "directories:\n  - {id: 1, name: A}\n  - {id: 2, name: B, parent_id: 1}\n  - {id: 3, name: C}\n")

	out, _, err := execute(t, "tree", "--seed", seed)
	require.NoError(t, err)
	assert.Equal(t, "A [1] (0 files)\n  B [2] (0 files)\nC [3] (0 files)\n", out)
}

func TestMergeCmd(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "date,temp\n2023-07-01,80\n")
	b := writeFile(t, dir, "b.csv", "\xEF\xBB\xBFdate,yield\n2023-07-02,88\n\n")

	out, stderr, err := execute(t, "merge", "--dir", "4", a, b)
	require.NoError(t, err, stderr)

	assert.Equal(t, "date,temp,yield\n2023-07-01,80,\n2023-07-02,,88\n", out)
}

func TestMergeCmd_AppendsToSeededFiles(t *testing.T) {
	dir := t.TempDir()
	extra := writeFile(t, dir, "extra.csv", "サンプルID,伸び(%)\nS004,260\n")

	out, _, err := execute(t, "merge", "--dir", "3", "--jobs", "1", extra)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "サンプルID,引張強度(MPa),伸び(%),ガラス転移温度(℃),熱分解温度(℃),密度(g/cm3)", lines[0])
	assert.Equal(t, "S004,,260,,,", lines[4])
}

func TestMergeCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "a\n1\n")
	bad := writeFile(t, dir, "bad.csv", "a,b\n1,\"2\n")

	t.Run("unknown directory", func(t *testing.T) {
		_, _, err := execute(t, "merge", "--dir", "99", good)
		assert.True(t, errors.Is(err, core.ErrInvalidDirectory), "err = %v", err)
	})

	t.Run("parse failure adds nothing", func(t *testing.T) {
		out, _, err := execute(t, "merge", "--dir", "4", good, bad)
		assert.True(t, errors.Is(err, core.ErrParseFailure), "err = %v", err)
		assert.Empty(t, out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "merge", "--dir", "4", filepath.Join(dir, "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("file over max size", func(t *testing.T) {
		out, _, err := execute(t, "merge", "--dir", "4", "--max-size", "3", good)
		assert.True(t, errors.Is(err, core.ErrFileTooLarge), "err = %v", err)
		assert.Empty(t, out)
	})

	t.Run("dir flag required", func(t *testing.T) {
		_, _, err := execute(t, "merge", good)
		assert.Error(t, err)
	})
}

func TestWriteCSV_QuotesCells(t *testing.T) {
	table := core.MergedTable{
		Columns: []string{"name", "note"},
		Rows: []core.MergedRow{
			{FileID: 1, Cells: map[string]core.Cell{"name": "a,b", "note": "say \"hi\""}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeCSV(&buf, table))
	assert.Equal(t, "name,note\n\"a,b\",\"say \"\"hi\"\"\"\n", buf.String())
}

func TestErrorMessage(t *testing.T) {
	msg := ErrorMessage(fmt.Errorf("%w: 99", core.ErrInvalidDirectory))
	assert.Contains(t, msg, "(Code: DIR002)")
	assert.Contains(t, msg, "invalid directory: 99")

	assert.Equal(t, "Error: boom", ErrorMessage(errors.New("boom")))
}
