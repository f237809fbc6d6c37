package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var (
	AllowedAssemblers = []string{"spades", "canu"}
	AllowedDataTypes  = []string{"pacbio-raw", "pacbio-corrected", "nanopore-raw", "nanopore-corrected"}
)

type Config struct {
	Threads       int    `yaml:"threads"`
	Force         bool   `yaml:"force"`
	Verbose       bool   `yaml:"verbose"`
	UnchangedCode int    `yaml:"unchanged_code"`
	Assembler     string `yaml:"assembler"`
	SplitAllReads bool   `yaml:"split_all_reads"`
	DataType      string `yaml:"data_type"`

	Tools     ToolsConfig     `yaml:"tools"`
	MapReads  MapReadsConfig  `yaml:"mapreads"`
	Bam2Reads Bam2ReadsConfig `yaml:"bam2reads"`
	Assemble  AssembleConfig  `yaml:"assemble"`
	Merge     MergeConfig     `yaml:"merge"`
	Clean     CleanConfig     `yaml:"clean"`
	FixStart  FixStartConfig  `yaml:"fixstart"`
}

// ToolsConfig names the executables the stages call.
type ToolsConfig struct {
	Bwa       string `yaml:"bwa"`
	Samtools  string `yaml:"samtools"`
	Circlator string `yaml:"circlator"`
}

type MapReadsConfig struct {
	BwaOpts string `yaml:"bwa_opts"`
}

type Bam2ReadsConfig struct {
	DiscardUnmapped bool   `yaml:"discard_unmapped"`
	OnlyContigs     string `yaml:"only_contigs"`
	LengthCutoff    int    `yaml:"length_cutoff"`
	MinReadLength   int    `yaml:"min_read_length"`
}

type AssembleConfig struct {
	SpadesK          string `yaml:"spades_k"`
	SpadesUseFirst   bool   `yaml:"spades_use_first"`
	NotCareful       bool   `yaml:"not_careful"`
	NotOnlyAssembler bool   `yaml:"not_only_assembler"`
}

type MergeConfig struct {
	DiagDiff        int     `yaml:"diagdiff"`
	MinID           float64 `yaml:"min_id"`
	MinLength       int     `yaml:"min_length"`
	MinLengthMerge  int     `yaml:"min_length_merge"`
	MinSpadesCircPC float64 `yaml:"min_spades_circ_pc"`
	BreakLen        int     `yaml:"breaklen"`
	RefEnd          int     `yaml:"ref_end"`
	ReassembleEnd   int     `yaml:"reassemble_end"`
	NoPairMerge     bool    `yaml:"no_pair_merge"`
}

type CleanConfig struct {
	MinContigLength  int     `yaml:"min_contig_length"`
	MinContigPercent float64 `yaml:"min_contig_percent"`
	DiagDiff         int     `yaml:"diagdiff"`
	MinNucmerID      float64 `yaml:"min_nucmer_id"`
	MinNucmerLength  int     `yaml:"min_nucmer_length"`
	BreakLen         int     `yaml:"breaklen"`
}

type FixStartConfig struct {
	GenesFa    string  `yaml:"genes_fa"`
	MinCluster int     `yaml:"mincluster"`
	MinID      float64 `yaml:"min_id"`
}

// DefaultConfig returns the settings used when neither a config file nor a
// flag says otherwise.
func DefaultConfig() Config {
	return Config{
		Threads:   1,
		Assembler: "spades",
		DataType:  "pacbio-corrected",
		Tools: ToolsConfig{
			Bwa:       "bwa",
			Samtools:  "samtools",
			Circlator: "circlator",
		},
		MapReads: MapReadsConfig{BwaOpts: "-x pacbio"},
		Bam2Reads: Bam2ReadsConfig{
			LengthCutoff:  100000,
			MinReadLength: 250,
		},
		Assemble: AssembleConfig{SpadesK: "127,117,107,97,87,77"},
		Merge: MergeConfig{
			DiagDiff:        25,
			MinID:           95,
			MinLength:       500,
			MinLengthMerge:  4000,
			MinSpadesCircPC: 95,
			BreakLen:        500,
			RefEnd:          15000,
			ReassembleEnd:   1000,
		},
		Clean: CleanConfig{
			MinContigLength:  2000,
			MinContigPercent: 95,
			DiagDiff:         25,
			MinNucmerID:      95,
			MinNucmerLength:  500,
			BreakLen:         500,
		},
		FixStart: FixStartConfig{MinID: 70},
	}
}

// ReadConfig overlays the YAML file at configPath onto cfg. Keys missing
// from the file keep the value already in cfg.
func ReadConfig(configPath string, cfg *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	return nil
}

// ParseKmers parses a comma separated k-mer list. Every k-mer must be an odd
// integer no bigger than 127.
func ParseKmers(s string) ([]int, error) {
	var kmers []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		k, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("k-mer %q is not an integer", field)
		}
		if k <= 0 || k > 127 || k%2 == 0 {
			return nil, fmt.Errorf("k-mer %d must be an odd integer between 1 and 127", k)
		}
		kmers = append(kmers, k)
	}
	if len(kmers) == 0 {
		return nil, fmt.Errorf("no k-mers given")
	}
	return kmers, nil
}

func checkPercent(name string, v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %v", name, v)
	}
	return nil
}

// Validate checks values that would otherwise only fail deep inside a stage.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	if !lo.Contains(AllowedAssemblers, c.Assembler) {
		return fmt.Errorf("assembler must be one of %s, got %q", strings.Join(AllowedAssemblers, ", "), c.Assembler)
	}
	if !lo.Contains(AllowedDataTypes, c.DataType) {
		return fmt.Errorf("data type must be one of %s, got %q", strings.Join(AllowedDataTypes, ", "), c.DataType)
	}
	if c.Assembler == "spades" {
		if _, err := ParseKmers(c.Assemble.SpadesK); err != nil {
			return fmt.Errorf("assemble spades k: %w", err)
		}
	}
	for name, v := range map[string]float64{
		"merge min id":             c.Merge.MinID,
		"merge min spades circ pc": c.Merge.MinSpadesCircPC,
		"clean min contig percent": c.Clean.MinContigPercent,
		"clean min nucmer id":      c.Clean.MinNucmerID,
		"fixstart min id":          c.FixStart.MinID,
	} {
		if err := checkPercent(name, v); err != nil {
			return err
		}
	}
	if c.FixStart.MinCluster < 0 {
		return fmt.Errorf("fixstart mincluster must not be negative")
	}
	return nil
}
