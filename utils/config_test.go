package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0, cfg.UnchangedCode)
	assert.Equal(t, "spades", cfg.Assembler)
	assert.Equal(t, 100000, cfg.Bam2Reads.LengthCutoff)
	assert.Equal(t, 4000, cfg.Merge.MinLengthMerge)
	assert.InDelta(t, 70.0, cfg.FixStart.MinID, 1e-9)
}

func TestReadConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finisher.yaml")
	content := `
threads: 8
unchanged_code: 3
assembler: canu
merge:
  min_id: 90
  no_pair_merge: true
fixstart:
  mincluster: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, ReadConfig(path, &cfg))

	assert.Equal(t, 8, cfg.Threads)
	assert.Equal(t, 3, cfg.UnchangedCode)
	assert.Equal(t, "canu", cfg.Assembler)
	assert.InDelta(t, 90.0, cfg.Merge.MinID, 1e-9)
	assert.True(t, cfg.Merge.NoPairMerge)
	assert.Equal(t, 10, cfg.FixStart.MinCluster)

	// untouched keys keep their defaults
	assert.Equal(t, 25, cfg.Merge.DiagDiff)
	assert.Equal(t, "-x pacbio", cfg.MapReads.BwaOpts)
	assert.Equal(t, "pacbio-corrected", cfg.DataType)
}

func TestReadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	require.Error(t, ReadConfig(filepath.Join(dir, "missing.yaml"), &cfg))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("threads: [1, 2"), 0644))
	require.Error(t, ReadConfig(bad, &cfg))
}

func TestParseKmers(t *testing.T) {
	k, err := ParseKmers("127, 117,77")
	require.NoError(t, err)
	assert.Equal(t, []int{127, 117, 77}, k)

	for _, bad := range []string{"", "128", "126", "abc", "0"} {
		_, err := ParseKmers(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threads", func(c *Config) { c.Threads = 0 }},
		{"assembler", func(c *Config) { c.Assembler = "velvet" }},
		{"data type", func(c *Config) { c.DataType = "illumina" }},
		{"kmers", func(c *Config) { c.Assemble.SpadesK = "128" }},
		{"merge id", func(c *Config) { c.Merge.MinID = 101 }},
		{"clean percent", func(c *Config) { c.Clean.MinContigPercent = -1 }},
		{"mincluster", func(c *Config) { c.FixStart.MinCluster = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Assembler = "canu"
	cfg.Assemble.SpadesK = "not used by canu"
	assert.NoError(t, cfg.Validate())
}
