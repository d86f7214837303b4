package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/bollhav/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func projectArgs(dir string, args ...string) []string {
	return append(args, "--config", filepath.Join(dir, "bollhav.yaml"))
}

func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(s), v), s)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bollhav v"+Version)
}

func TestHelpCommand(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"validate", "list", "show", "batch", "catalog", "init", "completion"} {
		assert.Contains(t, out, name)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bollhav")
}

func TestInvalidOutputFlag(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	_, _, err := execute(t, projectArgs(dir, "list", "--output", "yaml")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")
}

func TestValidateCommand_Valid(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := execute(t, projectArgs(dir, "validate", "-o", "json")...)
	require.NoError(t, err)

	var report struct {
		Valid  bool `json:"valid"`
		Models int  `json:"models"`
		Files  int  `json:"files"`
	}
	decodeJSON(t, out, &report)
	assert.True(t, report.Valid)
	assert.Equal(t, 3, report.Models)
	assert.Equal(t, 2, report.Files)
}

func TestValidateCommand_Invalid(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	broken := testutil.WriteFile(t, dir, "models/broken.yaml", testutil.InvalidModel)

	out, _, err := execute(t, projectArgs(dir, "validate", "--output", "json")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed: 1 error(s)")

	var report struct {
		Valid  bool `json:"valid"`
		Models int  `json:"models"`
		Errors []struct {
			File  string `json:"file"`
			Model string `json:"model"`
			Rule  string `json:"rule"`
		} `json:"errors"`
	}
	decodeJSON(t, out, &report)
	assert.False(t, report.Valid)
	assert.Equal(t, 3, report.Models)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, broken, report.Errors[0].File)
	assert.Equal(t, "broken", report.Errors[0].Model)
	assert.Equal(t, "view_requires_view_write_mode", report.Errors[0].Rule)
}

func TestValidateCommand_DirArgument(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	other := t.TempDir()
	testutil.WriteFile(t, other, "broken.yaml", testutil.InvalidModel)

	out, _, err := execute(t, projectArgs(dir, "validate", other, "--output", "markdown")...)
	require.Error(t, err)
	assert.Contains(t, out, "# Validation")
	assert.Contains(t, out, "view_requires_view_write_mode")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestValidateCommand_MissingModelsDir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "bollhav.yaml", "models_dir: nowhere\n")

	_, _, err := execute(t, projectArgs(dir, "validate")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "models directory does not exist")
}

func TestListCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := execute(t, projectArgs(dir, "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "# Models (3 total)")
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "events_view")
	assert.Contains(t, out, "DAILY")
	testutil.AssertValidMarkdown(t, out)

	out, _, err = execute(t, projectArgs(dir, "list", "--tag", "events", "-o", "json")...)
	require.NoError(t, err)
	var views []struct {
		Name string `json:"name"`
	}
	decodeJSON(t, out, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "events_view", views[0].Name)
}

func TestListCommand_SkipsInvalid(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WriteFile(t, dir, "models/broken.yaml", testutil.InvalidModel)

	out, errOut, err := execute(t, projectArgs(dir, "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "# Models (3 total)")
	assert.Contains(t, errOut, "1 invalid definition(s) skipped")
}

func TestShowCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := execute(t, projectArgs(dir, "show", "orders", "-o", "json")...)
	require.NoError(t, err)
	assert.NotContains(t, out, "secret")

	var v struct {
		Name         string         `json:"name"`
		Database     string         `json:"database"`
		BatchSize    string         `json:"batch_size"`
		Sensitive    bool           `json:"sensitive"`
		HasSourceDSN bool           `json:"has_source_dsn"`
		Extra        map[string]any `json:"extra"`
		Columns      []struct {
			Name       string `json:"name"`
			Type       string `json:"type"`
			Attributes string `json:"attributes"`
		} `json:"columns"`
	}
	decodeJSON(t, out, &v)
	assert.Equal(t, "orders", v.Name)
	assert.Equal(t, "POSTGRES", v.Database)
	assert.Equal(t, "DAILY", v.BatchSize)
	assert.True(t, v.Sensitive)
	assert.True(t, v.HasSourceDSN)
	assert.Equal(t, "data-team", v.Extra["owner"])
	require.Len(t, v.Columns, 2)
	assert.Equal(t, "BIGINT", v.Columns[0].Type)
	assert.Equal(t, "primary key", v.Columns[0].Attributes)
	assert.Equal(t, "length=255", v.Columns[1].Attributes)

	out, _, err = execute(t, projectArgs(dir, "show", "orders")...)
	require.NoError(t, err)
	assert.Contains(t, out, "# orders")
	assert.Contains(t, out, "## Columns (POSTGRES)")
	assert.NotContains(t, out, "secret")
}

func TestShowCommand_NotFound(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, _, err := execute(t, projectArgs(dir, "show", "nope")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `model "nope" not found`)
}

func TestBatchCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "quoted daily", args: []string{"0 3 * * *"}, want: "DAILY"},
		{name: "separate fields", args: []string{"0", "0", "1", "*", "*"}, want: "MONTHLY"},
		{name: "unclassified", args: []string{"*/15 * * * *"}, want: "unclassified"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.SetupTestProject(t)
			out, _, err := execute(t, projectArgs(dir, append([]string{"batch", "-o", "json"}, tt.args...)...)...)
			require.NoError(t, err)

			var res struct {
				BatchSize  string `json:"batch_size"`
				Classified bool   `json:"classified"`
			}
			decodeJSON(t, out, &res)
			assert.Equal(t, tt.want, res.BatchSize)
			assert.Equal(t, tt.want != "unclassified", res.Classified)
		})
	}
}

func TestBatchCommand_Invalid(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	_, _, err := execute(t, projectArgs(dir, "batch", "61 * * * *")...)
	assert.Error(t, err)
}

func TestCatalogCommands(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := execute(t, projectArgs(dir, "catalog", "publish", "-o", "json")...)
	require.NoError(t, err)
	var published struct {
		Published []string `json:"published"`
	}
	decodeJSON(t, out, &published)
	assert.Equal(t, []string{"events", "events_view", "orders"}, published.Published)

	_, err = os.Stat(filepath.Join(dir, ".bollhav", "catalog.db"))
	require.NoError(t, err, "catalog file should be created next to the config")

	out, _, err = execute(t, projectArgs(dir, "catalog", "list", "-o", "json")...)
	require.NoError(t, err)
	var entries []struct {
		Name    string `json:"name"`
		Columns []any  `json:"columns"`
	}
	decodeJSON(t, out, &entries)
	require.Len(t, entries, 3)
	assert.Equal(t, "orders", entries[2].Name)
	assert.Len(t, entries[2].Columns, 2)

	out, _, err = execute(t, projectArgs(dir, "catalog", "show", "orders")...)
	require.NoError(t, err)
	assert.Contains(t, out, `name="orders"`)
	assert.NotContains(t, out, "secret")
	testutil.AssertValidMarkdown(t, out)

	_, _, err = execute(t, projectArgs(dir, "catalog", "delete", "orders")...)
	require.NoError(t, err)

	_, _, err = execute(t, projectArgs(dir, "catalog", "show", "orders")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in catalog")
}

func TestCatalogPublish_Selected(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, _, err := execute(t, projectArgs(dir, "catalog", "publish", "orders")...)
	require.NoError(t, err)

	out, _, err := execute(t, projectArgs(dir, "catalog", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "# Published models (1 total)")

	_, _, err = execute(t, projectArgs(dir, "catalog", "publish", "missing")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `model "missing" not found`)
}

func TestCatalogPublish_Invalid(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	testutil.WriteFile(t, dir, "models/broken.yaml", testutil.InvalidModel)

	_, _, err := execute(t, projectArgs(dir, "catalog", "publish")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to publish")

	out, _, err := execute(t, projectArgs(dir, "catalog", "publish", "--skip-invalid")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Published 3 models")
}

func TestCatalogFlagOverridesConfig(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	other := filepath.Join(t.TempDir(), "other.db")

	_, _, err := execute(t, projectArgs(dir, "catalog", "publish", "--catalog", other)...)
	require.NoError(t, err)

	_, err = os.Stat(other)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".bollhav", "catalog.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	_, errOut, err := execute(t, projectArgs(dir, "list", "--verbose")...)
	require.NoError(t, err)
	assert.Contains(t, errOut, "level=DEBUG")
	assert.Contains(t, errOut, "configuration loaded")
}
