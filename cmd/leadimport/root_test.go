package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nebula-marketing/lead-importer/domain/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingImporter struct {
	calls []string
	opts  []app.ImportOptions
}

func (f *countingImporter) ImportLeads(_ context.Context, _ []byte, filename string, opts app.ImportOptions) (*app.ImportResult, error) {
	f.calls = append(f.calls, filename)
	f.opts = append(f.opts, opts)
	return &app.ImportResult{
		Leads: []app.LeadCandidate{{FirstName: "Ada", Email: "ada@example.com"}},
		Stats: app.ImportStats{TotalRows: 1, Imported: 1},
	}, nil
}

func (f *countingImporter) PreviewImport(context.Context, []byte, string) (*app.PreviewResult, error) {
	return &app.PreviewResult{}, nil
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("Name,Email\nAda,ada@example.com\n"), 0o644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunImport_PrintsToStdoutWithoutOutDir(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "leads.csv")
	importer := &countingImporter{}
	var stdout bytes.Buffer

	err := runImport(context.Background(), importer, discardLogger(), &stdout, []string{in}, importOptions{noAI: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"leads.csv"}, importer.calls)
	assert.False(t, importer.opts[0].UseAI)

	var res app.ImportResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	assert.Equal(t, 1, res.Stats.Imported)
}

func TestRunImport_OutDirSkipsExistingResults(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	first := writeInput(t, dir, "first.csv")
	second := writeInput(t, dir, "second.csv")

	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "first.json"), []byte("{}"), 0o644))

	importer := &countingImporter{}
	var stdout bytes.Buffer
	err := runImport(context.Background(), importer, discardLogger(), &stdout, []string{first, second}, importOptions{outDir: out})
	require.NoError(t, err)

	assert.Equal(t, []string{"second.csv"}, importer.calls)
	assert.True(t, importer.opts[0].UseAI)
	assert.Empty(t, stdout.String())

	raw, err := os.ReadFile(filepath.Join(out, "second.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ada@example.com")

	kept, err := os.ReadFile(filepath.Join(out, "first.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(kept))
}

func TestRunImport_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "leads.csv")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leads.json"), []byte("{}"), 0o644))

	importer := &countingImporter{}
	err := runImport(context.Background(), importer, discardLogger(), io.Discard, []string{in}, importOptions{outDir: dir, force: true})
	require.NoError(t, err)

	assert.Len(t, importer.calls, 1)
	raw, err := os.ReadFile(filepath.Join(dir, "leads.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\"imported\": 1")
}

func TestRunImport_MissingFile(t *testing.T) {
	err := runImport(context.Background(), &countingImporter{}, discardLogger(), io.Discard, []string{filepath.Join(t.TempDir(), "nope.csv")}, importOptions{})
	assert.Error(t, err)
}

func TestPreviewCommand_EndToEndWithoutAI(t *testing.T) {
	t.Setenv("IMPORTER_AI_PROVIDER", "none")
	t.Setenv("CONFIG_PATH", "")
	dir := t.TempDir()
	in := filepath.Join(dir, "contacts.csv")
	require.NoError(t, os.WriteFile(in, []byte("First Name,Last Name,Email,Company\nAda,Lovelace,ADA@Example.com,Analytical\n"), 0o644))

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"preview", in})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var res app.PreviewResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &res))
	require.Len(t, res.Preview, 1)
	assert.Equal(t, "ada@example.com", res.Preview[0].Email)
	assert.Equal(t, "Analytical", res.Preview[0].Company.Name)
}
