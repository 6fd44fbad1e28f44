package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/fill/internal/tensor"
)

// execute runs the CLI with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BORN_DTYPE", "")
	t.Setenv("BORN_WORKERS", "")

	var out, errOut bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func count(fields []string, s string) int {
	n := 0
	for _, f := range fields {
		if f == s {
			n++
		}
	}
	return n
}

func TestFillCommand(t *testing.T) {
	out, err := execute(t, "fill", "--shape", "2,3", "--dtype", "int8", "7")
	require.NoError(t, err)
	assert.Equal(t, 6, count(strings.Fields(out), "7"), out)
}

func TestFillCommandScalar(t *testing.T) {
	out, err := execute(t, "fill", "2.5")
	require.NoError(t, err)
	assert.Equal(t, "2.5\n", out)
}

func TestArangeCommand(t *testing.T) {
	out, err := execute(t, "arange", "--dtype", "int32", "5", "12", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "7", "9", "11"}, strings.Fields(out))

	out, err = execute(t, "arange", "4")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3"}, strings.Fields(out))

	out, err = execute(t, "arange", "-t", "int64", "9007199254740993", "9007199254740996")
	require.NoError(t, err)
	assert.Equal(t, []string{"9007199254740993", "9007199254740994", "9007199254740995"}, strings.Fields(out))

	_, err = execute(t, "arange", "0", "5", "0")
	assert.Error(t, err)
}

func TestIdentityCommand(t *testing.T) {
	out, err := execute(t, "identity", "3", "-t", "bf16")
	require.NoError(t, err)
	fields := strings.Fields(out)
	assert.Len(t, fields, 9)
	assert.Equal(t, 3, count(fields, "1"))
	assert.Equal(t, 6, count(fields, "0"))
}

func TestEyeCommand(t *testing.T) {
	out, err := execute(t, "eye", "4", "-k", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0", "1", "0", "0",
		"0", "0", "1", "0",
		"0", "0", "0", "1",
		"0", "0", "0", "0",
	}, strings.Fields(out))

	out, err = execute(t, "eye", "2", "3", "-k=-5")
	require.NoError(t, err)
	assert.Equal(t, 6, count(strings.Fields(out), "0"))
}

func TestDiagflatCommand(t *testing.T) {
	out, err := execute(t, "diagflat", "--dtype", "float64", "-k", "1", "1", "2", "3")
	require.NoError(t, err)
	fields := strings.Fields(out)
	assert.Len(t, fields, 16)
	assert.Equal(t, []string{"0", "1", "0", "0"}, fields[:4])
	assert.Equal(t, "3", fields[11])

	_, err = execute(t, "diagflat", "1", "two")
	assert.Error(t, err)
}

func TestLinspaceCommand(t *testing.T) {
	out, err := execute(t, "linspace", "0", "10", "-n", "5", "-t", "f64")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "2.5", "5", "7.5", "10"}, strings.Fields(out))

	out, err = execute(t, "linspace", "0", "10", "-n", "4", "--endpoint=false", "-t", "f64")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "2.5", "5", "7.5"}, strings.Fields(out))
}

func TestUnsupportedDType(t *testing.T) {
	_, err := execute(t, "identity", "2", "--dtype", "bool")
	require.ErrorIs(t, err, tensor.ErrUnsupportedDType)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bornfill "+Version+"\n", out)
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	doc := `
jobs:
  - name: ramp
    op: arange
    dtype: int64
    stop: 3
  - name: unit
    op: identity
    num: 2
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "run", path, "--workers", "2", "--dtype", "uint8")
	require.NoError(t, err)
	assert.Contains(t, out, "ramp (arange, int64)")
	assert.Contains(t, out, "unit (identity, uint8)")
	assert.Contains(t, out, "STATUS")
	assert.Equal(t, 2, strings.Count(out, "ok"))

	out, err = execute(t, "run", path, "--summary")
	require.NoError(t, err)
	assert.NotContains(t, out, "ramp (arange")
	assert.Contains(t, out, "[2 2]")
}

func TestRunCommandFailure(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "plan.yaml")
	doc := "jobs:\n  - name: flat\n    op: eye\n    shape: [4]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	_, err = execute(t, "run", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flat")
}

func TestRunCommandStdin(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("jobs:\n  - op: fill\n    dtype: int32\n    shape: [3]\n    value: 4\n"))
	cmd.SetArgs([]string{"run", "-", "--summary"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "fill-")
	assert.Contains(t, out.String(), "[3]")
}

func TestRenderHigherRank(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 1, 2}, tensor.Int16, tensor.CPU)
	require.NoError(t, err)
	copy(tensor.Elements[int16](raw), []int16{1, 2, 3, 4})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, raw))
	out := buf.String()
	assert.Contains(t, out, "[0, :, :]")
	assert.Contains(t, out, "[1, :, :]")
	assert.Less(t, strings.Index(out, "2"), strings.Index(out, "[1, :, :]"))
}

func TestRenderEmpty(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{0, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, raw))
	assert.Equal(t, "[] float32 [0 3]\n", buf.String())
}

func TestRunOutputAndShow(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "plan.yaml")
	outPath := filepath.Join(dir, "out.safetensors")
	doc := `
jobs:
  - name: ramp
    op: arange
    dtype: int8
    start: 5
    stop: 12
    step: 2
  - name: upper
    op: eye
    dtype: f16
    shape: [3, 3]
    k: 1
`
	require.NoError(t, os.WriteFile(planPath, []byte(doc), 0o600))

	_, err := execute(t, "run", planPath, "--summary", "-o", outPath)
	require.NoError(t, err)

	out, err := execute(t, "show", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ramp (int8, [4])")
	assert.Contains(t, out, "upper (float16, [3 3])")
	assert.Less(t, strings.Index(out, "ramp"), strings.Index(out, "upper"))

	_, err = execute(t, "show", filepath.Join(dir, "missing.safetensors"))
	assert.Error(t, err)
}
