// Package stages declares the six collaborators a finishing run sequences
// and provides Toolchain, which implements all of them with external
// programs.
package stages

import (
	"context"

	"github.com/gmaffy/genome-finisher/utils"
)

type MapJob struct {
	Reference   string
	Reads       string
	IndexPrefix string
	OutBAM      string
	Threads     int
	Options     utils.MapReadsConfig

	// Flagstat, when set, receives samtools flagstat output for OutBAM.
	Flagstat string
}

// ReadFilterJob writes OutPrefix.fasta, or OutPrefix.fastq when FASTQ is set.
type ReadFilterJob struct {
	BAM           string
	OutPrefix     string
	FASTQ         bool
	SplitAllReads bool
	Options       utils.Bam2ReadsConfig
}

// AssembleJob writes a new directory OutDir containing contigs.fasta.
type AssembleJob struct {
	Reads     string
	OutDir    string
	Threads   int
	Assembler string
	DataType  string
	Options   utils.AssembleConfig

	// LengthCutoff is the read filter length cutoff. Canu uses it as the
	// expected genome size.
	LengthCutoff int
}

// MergeJob writes OutPrefix.fasta and OutPrefix.circularise.log. Reads is
// empty when pair merging is disabled.
type MergeJob struct {
	Reference     string
	Reassembly    string
	OutPrefix     string
	Reads         string
	Threads       int
	Assembler     string
	DataType      string
	LengthCutoff  int
	SplitAllReads bool
	Assemble      utils.AssembleConfig
	Options       utils.MergeConfig
}

// CleanJob writes OutPrefix.fasta. Contigs named in KeepFile are never
// removed.
type CleanJob struct {
	Assembly  string
	OutPrefix string
	KeepFile  string
	Options   utils.CleanConfig
}

// FixStartJob writes OutPrefix.fasta. Contigs named in IgnoreFile keep their
// start position.
type FixStartJob struct {
	Assembly   string
	OutPrefix  string
	IgnoreFile string
	Options    utils.FixStartConfig
}

type Mapper interface {
	Map(ctx context.Context, job MapJob) error
}

type ReadFilter interface {
	FilterReads(ctx context.Context, job ReadFilterJob) error
}

type Assembler interface {
	Assemble(ctx context.Context, job AssembleJob) error
}

type Merger interface {
	Merge(ctx context.Context, job MergeJob) error
}

type Cleaner interface {
	Clean(ctx context.Context, job CleanJob) error
}

type StartFixer interface {
	FixStart(ctx context.Context, job FixStartJob) error
}

// Set bundles one implementation of each collaborator.
type Set struct {
	Mapper     Mapper
	ReadFilter ReadFilter
	Assembler  Assembler
	Merger     Merger
	Cleaner    Cleaner
	StartFixer StartFixer
}
