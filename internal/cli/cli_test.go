package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
)

const sampleRequest = `{
  "courses": [
    {"name": "A", "lectures": ["Mon 9-11"], "ta_times": []},
    {"name": "B", "lectures": ["Mon 11-13", "Tue 11-13"], "ta_times": []}
  ],
  "preference": "crammed"
}`

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRequest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "schedulectl dev (commit=none, built=unknown)\n", out)
}

func TestSolveJSONFromStdin(t *testing.T) {
	out, _, err := runCLI(t, sampleRequest, "solve", "-f", "-", "--format", "json")
	require.NoError(t, err)

	var resp dto.GenerateScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Schedule, 2)
	require.NotNil(t, resp.Schedule[1].Lecture)
	assert.Equal(t, "Mon 11-13", *resp.Schedule[1].Lecture)
	assert.Equal(t, 1, resp.Stats.DaysUsed)
	assert.Equal(t, 2, resp.Stats.Candidates)
}

func TestSolvePreferenceOverride(t *testing.T) {
	path := writeRequest(t, sampleRequest)
	out, _, err := runCLI(t, "", "solve", "-f", path, "--format", "json", "-p", "spaced")
	require.NoError(t, err)

	var resp dto.GenerateScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Schedule, 2)
	assert.Equal(t, "Tue 11-13", *resp.Schedule[1].Lecture)
	assert.Equal(t, "spaced", resp.Stats.Preference)
}

func TestSolveTable(t *testing.T) {
	path := writeRequest(t, sampleRequest)
	out, _, err := runCLI(t, "", "solve", "-f", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Course schedule")
	assert.Contains(t, out, "Mon 9-11")
	assert.Contains(t, out, "Preference: crammed")
	assert.Contains(t, out, "Candidates examined: 2, feasible: 2")
}

func TestSolveInfeasibleTable(t *testing.T) {
	body := `{"courses":[{"name":"A","lectures":["Mon 9-11"]}],"constraints":"no classes on Monday"}`
	out, _, err := runCLI(t, body, "solve", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "No schedule satisfies every constraint.")
	assert.NotContains(t, out, "Preference:")
}

func TestSolveCSVToFile(t *testing.T) {
	path := writeRequest(t, sampleRequest)
	target := filepath.Join(t.TempDir(), "schedule.csv")
	_, stderr, err := runCLI(t, "", "solve", "-f", path, "--format", "csv", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote "+target)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Course,Lecture,TA session,TA", lines[0])
	assert.Equal(t, "A,Mon 9-11,-,", lines[1])
}

func TestSolvePDFRequiresOutput(t *testing.T) {
	path := writeRequest(t, sampleRequest)
	_, _, err := runCLI(t, "", "solve", "-f", path, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")
}

func TestSolvePDFToFile(t *testing.T) {
	path := writeRequest(t, sampleRequest)
	target := filepath.Join(t.TempDir(), "schedule.pdf")
	_, _, err := runCLI(t, "", "solve", "-f", path, "--format", "pdf", "-o", target)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestSolveErrors(t *testing.T) {
	_, _, err := runCLI(t, "", "solve", "-f", "-", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown --format")

	_, _, err = runCLI(t, "{not json", "solve", "-f", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request")

	_, _, err = runCLI(t, `{"courses":[]}`, "solve", "-f", "-")
	require.Error(t, err)

	_, _, err = runCLI(t, "", "solve", "-f", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read request")

	_, _, err = runCLI(t, "", "solve")
	require.Error(t, err)
}

func TestSolveCandidateLimit(t *testing.T) {
	_, _, err := runCLI(t, sampleRequest, "solve", "-f", "-", "--max-candidates", "1")
	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	out, _, err := runCLI(t, "", "extract", "no classes on Friday.", "Avoid TA Dana")
	require.NoError(t, err)

	var resp dto.ExtractConstraintsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Constraints, 2)
	assert.Equal(t, "No Class Day", resp.Constraints[0].Type)
	assert.Equal(t, "Avoid TA", resp.Constraints[1].Type)

	_, _, err = runCLI(t, "", "extract")
	require.Error(t, err)
}
