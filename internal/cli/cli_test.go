package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const simpleReport = "Header\nFoo\na, 1, 0.5\nb, 2, 1.25\nsum_values\nBar\nc, 3, 2\n"

const sectionsReport = "Foo frequency:\nx: n = 1.5\ny: n = 2\nFoo distribution:\nz: n = 0.25\nRTP_ 96.5\n"

// runCmd executes the command tree in an isolated working directory.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConvert_SimpleReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeInput(t, dir, "report.txt", simpleReport)

	out, err := runCmd(t, "convert", "--keys", "Foo,Bar", input)
	require.NoError(t, err)

	assert.Contains(t, out, "Processing: "+input)
	assert.Contains(t, out, "Dialect: simple")
	assert.Contains(t, out, "Found 2 component(s), 3 record(s)")
	assert.Contains(t, out, "Output: "+filepath.Join(dir, "report.csv"))

	assert.Equal(t, "Foo\na;1;0,5\nb;2;1,25\n\nBar\nc;3;2\n\n", readOutput(t, filepath.Join(dir, "report.csv")))
}

func TestConvert_SectionsReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeInput(t, dir, "twins.txt", sectionsReport)
	output := filepath.Join(dir, "out.csv")

	out, err := runCmd(t, "convert", "--keys", "Foo", "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, out, "Dialect: sections")

	want := "Foo Frequency\nx;1,5\ny;2\n\nFoo Distribution\nz;0,25\n\n"
	assert.Equal(t, want, readOutput(t, output))
}

func TestConvert_Trace(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeInput(t, dir, "report.txt", simpleReport)

	out, err := runCmd(t, "convert", "--keys", "Foo", "--trace", input)
	require.NoError(t, err)
	assert.Contains(t, out, "sentinel")
	assert.Contains(t, out, "ignored")
}

func TestConvert_NothingFound(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeInput(t, dir, "report.txt", "nothing to see\n")

	out, err := runCmd(t, "convert", "--keys", "Foo", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: No components found")
	assert.Equal(t, "", readOutput(t, filepath.Join(dir, "report.csv")))
}

func TestConvert_Merge(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	first := writeInput(t, dir, "a.txt", "Foo\na,1,0.5\n")
	second := writeInput(t, dir, "b.txt", "Bar\nb,2,0.75\n")
	output := filepath.Join(dir, "all.csv")

	out, err := runCmd(t, "convert", "--keys", "Foo,Bar", "--merge", "-o", output, first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 2 report(s): 2 component(s), 2 record(s)")
	assert.Equal(t, "Foo\na;1;0,5\n\nBar\nb;2;0,75\n\n", readOutput(t, output))

	_, err = os.Stat(filepath.Join(dir, "a.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvert_MergeMixedDialects(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	simple := writeInput(t, dir, "simple.txt", "Foo\na,1,0.5\n")
	sections := writeInput(t, dir, "sections.txt", "Bar frequency:\nx: n = 2\n")
	output := filepath.Join(dir, "all.csv")

	_, err := runCmd(t, "convert", "--keys", "Foo,Bar", "--merge", "-o", output, simple, sections)
	require.NoError(t, err)
	assert.Equal(t, "Foo\na;1;0,5\n\nBar Frequency\nx;2\n\n", readOutput(t, output))
}

func TestConvert_SameBaseNameIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "jan"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "feb"), 0o755))
	jan := writeInput(t, dir, filepath.Join("jan", "report.txt"), "Foo\na,1,0.5\n")
	feb := writeInput(t, dir, filepath.Join("feb", "report.txt"), "Foo\nb,2,1\n")
	outDir := filepath.Join(dir, "out")

	_, err := runCmd(t, "convert", "--keys", "Foo", "-o", outDir, jan, feb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would both be written to")

	_, statErr := os.Stat(filepath.Join(outDir, "report.csv"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestConvert_SameBaseNameNextToInputs(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "jan"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "feb"), 0o755))
	jan := writeInput(t, dir, filepath.Join("jan", "report.txt"), "Foo\na,1,0.5\n")
	feb := writeInput(t, dir, filepath.Join("feb", "report.txt"), "Foo\nb,2,1\n")

	_, err := runCmd(t, "convert", "--keys", "Foo", jan, feb)
	require.NoError(t, err)
	assert.Equal(t, "Foo\na;1;0,5\n\n", readOutput(t, filepath.Join(dir, "jan", "report.csv")))
	assert.Equal(t, "Foo\nb;2;1\n\n", readOutput(t, filepath.Join(dir, "feb", "report.csv")))
}

func TestConvert_MergeRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeInput(t, dir, "a.txt", "Foo\n")

	_, err := runCmd(t, "convert", "--keys", "Foo", "--merge", input)
	assert.ErrorContains(t, err, "--merge requires --output")
}

func TestConvert_SeveralInputsIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	first := writeInput(t, dir, "a.txt", "Foo\na,1,0.5\n")
	second := writeInput(t, dir, "b.txt", "Foo\nb,2,1\n")
	outDir := filepath.Join(dir, "out")

	_, err := runCmd(t, "convert", "--keys", "Foo", "--secondary", "never", "-o", outDir, first, second)
	require.NoError(t, err)
	assert.Equal(t, "Foo\na;0,5\n\n", readOutput(t, filepath.Join(outDir, "a.csv")))
	assert.Equal(t, "Foo\nb;1\n\n", readOutput(t, filepath.Join(outDir, "b.csv")))
}

func TestConvert_YAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeInput(t, dir, "report.txt", "Foo\na,1,0.5\n")

	_, err := runCmd(t, "convert", "--keys", "Foo", "--format", "yaml", input)
	require.NoError(t, err)

	got := readOutput(t, filepath.Join(dir, "report.yaml"))
	assert.Contains(t, got, "name: Foo")
	assert.Contains(t, got, "- \"0.5\"")
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeInput(t, dir, "report.txt", "Foo\n")

	tests := []struct {
		name string
		args []string
	}{
		{"no inputs", []string{"convert"}},
		{"unknown dialect", []string{"convert", "--dialect", "xml", input}},
		{"unknown format", []string{"convert", "--keys", "Foo", "--format", "xlsx", input}},
		{"missing input", []string{"convert", "--keys", "Foo", filepath.Join(dir, "missing.txt")}},
		{"missing config", []string{"--config", filepath.Join(dir, "missing.yaml"), "convert", input}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestConvert_KeysFromConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeInput(t, dir, "config.yaml", "parser:\n  keys: [\"Bar\"]\noutput:\n  secondary: never\n")
	input := writeInput(t, dir, "report.txt", simpleReport)

	_, err := runCmd(t, "convert", input)
	require.NoError(t, err)
	assert.Equal(t, "Bar\nc;2\n\n", readOutput(t, filepath.Join(dir, "report.csv")))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeInput(t, dir, "report.csv", "Foo\na;1;0,5\nb;2;1,25\n\nBar Frequency\nx;3\n\n")

	out, err := runCmd(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "Bar Frequency")
	assert.Contains(t, out, "2 component(s), 3 record(s)")
}

func TestInspect_BadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeInput(t, dir, "bad.csv", "Foo\na;b;c;d\n")

	_, err := runCmd(t, "inspect", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "statreport dev")
	assert.Contains(t, out, "Go Version:")
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		input    string
		format   string
		output   string
		dir      string
		multiple bool
		want     string
	}{
		{"next to input", "/data/r.txt", "csv", "", "", false, "/data/r.csv"},
		{"explicit file", "/data/r.txt", "csv", "/tmp/x.csv", "", false, "/tmp/x.csv"},
		{"configured dir", "/data/r.pdf", "yaml", "", dir, false, filepath.Join(dir, "r.yaml")},
		{"output as dir", "/data/r.txt", "csv", filepath.Join(dir, "o"), "", true, filepath.Join(dir, "o", "r.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPath(tt.input, tt.format, tt.output, tt.dir, tt.multiple)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeListener struct {
	listening chan struct{}
	stop      chan struct{}
	addr      string
}

func (f *fakeListener) Listen(addr string) error {
	f.addr = addr
	close(f.listening)
	<-f.stop
	return nil
}

func (f *fakeListener) ShutdownWithTimeout(time.Duration) error {
	close(f.stop)
	return nil
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	l := &fakeListener{listening: make(chan struct{}), stop: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, slog.New(slog.DiscardHandler), "127.0.0.1:0", l)
	}()

	<-l.listening
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Equal(t, "127.0.0.1:0", l.addr)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
