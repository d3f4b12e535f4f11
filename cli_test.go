package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(append([]string{"--quiet"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSolveTerse(t *testing.T) {
	out, err := execute(t, "solve", "--function", "cubic", "--left", "1", "--right", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 19)
	assert.Equal(t, "1:\t root = 1.5000000,\ttolerance = 0.2500000", lines[0])
}

func TestSolveVerbose(t *testing.T) {
	out, err := execute(t, "solve", "-v", "-f", "cubic", "-a", "1", "-b", "2", "--tolerance", "0.1")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"1:\ta=1.000000,\tb=1.500000,\tc=1.500000,\troot=2.375000\ttolerance=0.250000",
		"2:\ta=1.250000,\tb=1.500000,\tc=1.250000,\troot=-1.796875\ttolerance=0.125000",
		"3:\ta=1.250000,\tb=1.375000,\tc=1.375000,\troot=0.162109\ttolerance=0.062500",
		"",
	}, "\n"), out)
}

func TestSolveNoRoot(t *testing.T) {
	for _, bracket := range [][]string{{"1", "2"}, {"2", "4"}} {
		out, err := execute(t, "solve", "--left", bracket[0], "--right", bracket[1])
		require.NoError(t, err)
		assert.Equal(t, "Root does not exist\n", out)
	}
}

func TestSolveDomainError(t *testing.T) {
	_, err := execute(t, "solve", "--left=-1", "--right", "2")
	assert.ErrorIs(t, err, ErrProblemsFailed)
}

func TestSolveInvalidFlags(t *testing.T) {
	_, err := execute(t, "solve", "--left", "1", "--right", "2", "--tolerance=-1")
	assert.ErrorContains(t, err, "tolerance")

	_, err = execute(t, "solve", "--left", "1")
	assert.Error(t, err)

	_, err = execute(t, "solve", "--left", "1", "--right", "2", "--function", "polynomial")
	assert.ErrorContains(t, err, "coefficient")

	_, err = execute(t, "solve", "-f", "cubic", "--left=-Inf", "--right", "Inf")
	assert.ErrorContains(t, err, "not finite")

	_, err = execute(t, "solve", "-f", "cubic", "--left", "NaN", "--right", "2", "--precision", "64")
	assert.ErrorContains(t, err, "not finite")

	_, err = execute(t, "solve", "--left", "1", "--right", "2", "--function", "polynomial", "--coefficients", "0,0")
	assert.ErrorContains(t, err, "identically zero")
}

func TestSolveScanPolynomial(t *testing.T) {
	out, err := execute(t, "solve", "--function", "polynomial", "--coefficients", "1,-7,14,-6",
		"--left", "0", "--right", "4", "--scan")
	require.NoError(t, err)
	assert.Contains(t, out, "grid root: 3.0000000\n")
	assert.Contains(t, out, "Solved: 3/3, no root: 0, failed: 0\n")
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brackets.txt"), []byte("0 1\n1 3.2\n3.2 4\n"), 0o600))
	input := filepath.Join(dir, "homework.toml")
	require.NoError(t, os.WriteFile(input, []byte(`
OutputDir = "results"

[Problems.hw1]
Function = "homework1"
Brackets = "brackets.txt"

[Problems.hw3]
Left = 2.0
Right = 4.0
`), 0o600))
	outputDir := filepath.Join(dir, "out")

	out, err := execute(t, "run", input, "--summary", "--output-dir", outputDir, "--threads", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "\nhw1_l1\n1:\t root = 0.5000000,"), out)
	assert.Contains(t, out, "\nhw3\nRoot does not exist\n")
	assert.Contains(t, out, "Solved: 3/4, no root: 1, failed: 0\n")

	summary, err := os.ReadFile(filepath.Join(outputDir, "homework_summary.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(summary)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "problem,state,root,iterations,half-width", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "hw1_l1,converged,0.58578"), lines[1])
	assert.Equal(t, "hw3,rejected,,0,", lines[4])
}

func TestRunMissingConfig(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "nothing"))
	assert.Error(t, err)
}

func TestFunctions(t *testing.T) {
	out, err := execute(t, "functions")
	require.NoError(t, err)
	assert.Contains(t, out, "homework3")
	assert.Contains(t, out, "ln(x) + 4 + x(x - 4)")
	assert.Contains(t, out, "polynomial")
}
