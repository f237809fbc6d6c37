package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gmaffy/genome-finisher/utils"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAllFlags(t *testing.T, args ...string) (*pflag.FlagSet, *utils.Config) {
	t.Helper()
	cfg := utils.DefaultConfig()
	flags := pflag.NewFlagSet("all", pflag.ContinueOnError)
	bindAllFlags(flags, &cfg)
	require.NoError(t, flags.Parse(args))
	return flags, &cfg
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finisher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	flags, cfg := newAllFlags(t)
	got, err := resolveConfig(flags, cfg, "")
	require.NoError(t, err)
	assert.Equal(t, utils.DefaultConfig(), got)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
threads: 8
assembler: canu
merge:
  min_id: 90
clean:
  min_contig_length: 5000
`)
	flags, cfg := newAllFlags(t, "--threads", "2", "--clean_min_contig_length", "1000")

	got, err := resolveConfig(flags, cfg, path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Threads)
	assert.Equal(t, 1000, got.Clean.MinContigLength)
	assert.Equal(t, "canu", got.Assembler)
	assert.Equal(t, 90.0, got.Merge.MinID)
	assert.Equal(t, utils.DefaultConfig().Merge.DiagDiff, got.Merge.DiagDiff)
}

func TestResolveConfigInvalid(t *testing.T) {
	flags, cfg := newAllFlags(t, "--assembler", "velvet")
	_, err := resolveConfig(flags, cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assembler")

	flags, cfg = newAllFlags(t, "--assemble_spades_k", "127,116")
	_, err = resolveConfig(flags, cfg, "")
	require.Error(t, err)

	flags, cfg = newAllFlags(t)
	_, err = resolveConfig(flags, cfg, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
