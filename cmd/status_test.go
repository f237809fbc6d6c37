package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const failedRunLog = `{"time":"2025-06-01T10:00:00Z","level":"INFO","msg":"FINISHER","RUN":"r1","PROGRAM":"INIT","STATUS":"STARTED"}
{"time":"2025-06-01T10:00:01Z","level":"INFO","msg":"FINISHER","RUN":"r1","PROGRAM":"INIT","STATUS":"COMPLETED"}
{"time":"2025-06-01T10:00:01Z","level":"INFO","msg":"FINISHER","RUN":"r1","PROGRAM":"MAP","STATUS":"STARTED"}
{"time":"2025-06-01T10:05:00Z","level":"ERROR","msg":"FINISHER","RUN":"r1","PROGRAM":"MAP","STATUS":"FAILED","ERROR":"bwa mem: exit status 1"}
`

func TestReportStatusFailedRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00.run.log"), []byte(failedRunLog), 0644))

	var out bytes.Buffer
	finished, err := reportStatus(&out, dir)
	require.NoError(t, err)
	assert.False(t, finished)
	assert.Regexp(t, `INIT\s+COMPLETED`, out.String())
	assert.Regexp(t, `MAP\s+FAILED`, out.String())
	assert.Regexp(t, `MERGE\s+-`, out.String())
	assert.Contains(t, out.String(), "Last failure in MAP: bwa mem: exit status 1")
	assert.Contains(t, out.String(), "Run not finished")
}

func TestReportStatusFinished(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00.run.log"), []byte(failedRunLog), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "06.fixstart.ALL_FINISHED"), nil, 0644))

	var out bytes.Buffer
	finished, err := reportStatus(&out, dir)
	require.NoError(t, err)
	assert.True(t, finished)
}

func TestReportStatusNoLog(t *testing.T) {
	_, err := reportStatus(&bytes.Buffer{}, t.TempDir())
	require.Error(t, err)
}
