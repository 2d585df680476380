package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/dicomview.go/pkg/config"
	"github.com/jpfielding/dicomview.go/pkg/dicomview"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
)

const crSOPClass = "1.2.840.10008.5.1.4.1.1.1"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot(context.Background(), "deadbeef")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef\n", out)
}

func TestModules(t *testing.T) {
	out, err := run(t, "modules", "--tag", "00080012")
	require.NoError(t, err)
	assert.Equal(t, "(0008,0012): SOP Common, Protocol Context\n", out)

	out, err = run(t, "modules", "--tag", "00070016", "--format", "json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "00070016", got["tagId"])
	assert.Equal(t, []any{"Undefined module group"}, got["modules"])

	out, err = run(t, "modules", "--sop", crSOPClass)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, crSOPClass))
	assert.Contains(t, out, "Patient")

	out, err = run(t, "modules")
	require.NoError(t, err)
	assert.Contains(t, out, crSOPClass)

	_, err = run(t, "modules", "--tag", "xyz")
	assert.ErrorIs(t, err, tag.ErrMalformedTagID)
	_, err = run(t, "modules", "--sop", "1.2.3")
	assert.Error(t, err)
}

func TestConfigCmd(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ctl.ini")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[server]\naddr = :7000\n"), 0o644))

	out, err := run(t, "config", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, ":7000")

	written := filepath.Join(dir, "out.ini")
	_, err = run(t, "config", "--config", cfgPath, "--write", written)
	require.NoError(t, err)
	cfg, err := config.Load(written)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)

	bad := filepath.Join(dir, "bad.ini")
	require.NoError(t, os.WriteFile(bad, []byte("[log]\nformat = xml\n"), 0o644))
	_, err = run(t, "version", "--config", bad)
	assert.ErrorContains(t, err, "invalid log format")
}

func TestDump_MissingFile(t *testing.T) {
	_, err := run(t, "dump", filepath.Join(t.TempDir(), "missing.dcm"))
	assert.ErrorContains(t, err, "parse error")

	_, err = run(t, "compare", "only-one.dcm")
	assert.Error(t, err)
}

func entry(tg, name, value string) dicomview.Entry {
	return dicomview.Entry{Tag: tag.MustParse(tg), Name: name, Value: value, VR: "LO", VM: "1"}
}

func TestWriteComparison(t *testing.T) {
	a := []dicomview.Entry{entry("00080016", "SOPClassUID", crSOPClass), entry("00100010", "PatientName", "A")}
	b := []dicomview.Entry{entry("00080016", "SOPClassUID", crSOPClass), entry("00100020", "PatientID", "ID")}
	engine := dicomview.NewEngine(nil)
	names := []string{"a.dcm", "b.dcm"}

	var buf bytes.Buffer
	view := engine.ComparisonView([][]dicomview.Entry{a, b}, dicomview.ViewOptions{OnlyDiffs: true})
	writeComparison(&buf, engine, names, view, crSOPClass)
	out := buf.String()
	assert.Contains(t, out, "[0] a.dcm")
	assert.Contains(t, out, "* (0010,0010) PatientName")
	assert.Contains(t, out, "<absent>")
	assert.NotContains(t, out, "(0008,0016)")

	buf.Reset()
	view = engine.ComparisonView([][]dicomview.Entry{a, a}, dicomview.ViewOptions{OnlyDiffs: true})
	writeComparison(&buf, engine, names, view, crSOPClass)
	assert.Contains(t, buf.String(), "Files are exactly the same")
	assert.Contains(t, buf.String(), "No differences found")

	buf.Reset()
	view = engine.ComparisonView([][]dicomview.Entry{a, b}, dicomview.ViewOptions{Hierarchical: true})
	writeComparison(&buf, engine, names, view, crSOPClass)
	out = buf.String()
	patient := strings.Index(out, "== Patient ==")
	sopCommon := strings.Index(out, "== SOP Common ==")
	require.NotEqual(t, -1, patient)
	require.NotEqual(t, -1, sopCommon)
	// IOD order puts Patient before SOP Common
	assert.Less(t, patient, sopCommon)
}

func TestWriteFileView(t *testing.T) {
	in := []dicomview.Entry{entry("00100010", "PatientName", "A"), entry("00080016", "SOPClassUID", crSOPClass)}
	engine := dicomview.NewEngine(nil)

	var buf bytes.Buffer
	writeFileView(&buf, engine, engine.FileView(in, dicomview.ViewOptions{}), true)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "(0008,0016)"))

	buf.Reset()
	writeFileView(&buf, engine, engine.FileView(in, dicomview.ViewOptions{Hierarchical: true}), false)
	assert.Contains(t, buf.String(), "== Patient ==")

	buf.Reset()
	writeFileView(&buf, engine, engine.FileView(in, dicomview.ViewOptions{Hierarchical: true, SOPClass: "1.2.3"}), false)
	assert.Contains(t, buf.String(), `no modules found for SOP class "1.2.3"`)
}
