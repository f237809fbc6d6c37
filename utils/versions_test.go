package utils

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestToolVersions(t *testing.T) {
	defer goleak.VerifyNone(t)

	specs := []ToolSpec{
		{Name: "one", Exe: "sh", Args: []string{"-c", "echo one 1.2.3"}},
		{Name: "two", Exe: "sh", Args: []string{"-c", "echo 'Version: 0.7.17-r1188' >&2; exit 1"}, Pattern: regexp.MustCompile(`Version:\s*(\S+)`)},
		{Name: "three", Exe: "sh", Args: []string{"-c", "echo no version here"}},
	}

	versions, err := ToolVersions(context.Background(), specs)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	assert.Equal(t, "one", versions[0].Name)
	assert.Equal(t, "1.2.3", versions[0].Version)
	assert.Equal(t, "0.7.17-r1188", versions[1].Version)
	assert.Equal(t, "unknown", versions[2].Version)
	assert.NotEmpty(t, versions[0].Path)
}

func TestToolVersionsMissingTool(t *testing.T) {
	defer goleak.VerifyNone(t)

	specs := []ToolSpec{
		{Name: "ok", Exe: "sh", Args: []string{"-c", "echo 1.0"}},
		{Name: "ghost", Exe: "definitely-not-an-installed-tool"},
	}
	_, err := ToolVersions(context.Background(), specs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRequiredTools(t *testing.T) {
	cfg := DefaultConfig()
	names := func(specs []ToolSpec) []string {
		var out []string
		for _, s := range specs {
			out = append(out, s.Name)
		}
		return out
	}
	assert.Contains(t, names(RequiredTools(cfg)), "spades")

	cfg.Assembler = "canu"
	got := names(RequiredTools(cfg))
	assert.Contains(t, got, "canu")
	assert.NotContains(t, got, "spades")
}

func TestWriteVersions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVersions(&buf, []ToolVersion{
		{Name: "bwa", Version: "0.7.17", Path: "/usr/bin/bwa"},
		{Name: "samtools", Version: "1.19", Path: "/usr/bin/samtools"},
	}))
	assert.Equal(t, "bwa\t0.7.17\t/usr/bin/bwa\nsamtools\t1.19\t/usr/bin/samtools\n", buf.String())
}
