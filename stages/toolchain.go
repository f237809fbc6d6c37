package stages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gmaffy/genome-finisher/utils"
)

// Toolchain runs every stage with bwa, samtools and the circlator
// subcommands.
type Toolchain struct {
	Tools   utils.ToolsConfig
	Verbose bool
}

func NewToolchain(tools utils.ToolsConfig, verbose bool) *Toolchain {
	return &Toolchain{Tools: tools, Verbose: verbose}
}

// Set returns a Set backed by t for all six stages.
func (t *Toolchain) Set() Set {
	return Set{Mapper: t, ReadFilter: t, Assembler: t, Merger: t, Cleaner: t, StartFixer: t}
}

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (t *Toolchain) Map(ctx context.Context, job MapJob) error {
	q := utils.ShellQuote
	threads := itoa(job.Threads)

	if err := utils.RunCmd(ctx, t.Verbose, t.Tools.Bwa, "index", "-p", job.IndexPrefix, job.Reference); err != nil {
		return fmt.Errorf("bwa index: %w", err)
	}

	cmdStr := fmt.Sprintf(`%s mem -t %s %s %s %s | %s sort -@ %s -o %s -`,
		q(t.Tools.Bwa), threads, job.Options.BwaOpts, q(job.IndexPrefix), q(job.Reads),
		q(t.Tools.Samtools), threads, q(job.OutBAM))
	if err := utils.RunBashCmd(ctx, cmdStr, t.Verbose); err != nil {
		return fmt.Errorf("bwa mem: %w", err)
	}

	if err := utils.RunCmd(ctx, t.Verbose, t.Tools.Samtools, "index", job.OutBAM); err != nil {
		return fmt.Errorf("samtools index: %w", err)
	}

	if job.Flagstat != "" {
		cmdStr := fmt.Sprintf(`%s flagstat %s > %s`, q(t.Tools.Samtools), q(job.OutBAM), q(job.Flagstat))
		if err := utils.RunBashCmd(ctx, cmdStr, t.Verbose); err != nil {
			return fmt.Errorf("samtools flagstat: %w", err)
		}
	}
	return nil
}

func bam2readsArgs(job ReadFilterJob) []string {
	args := []string{"bam2reads"}
	if job.FASTQ {
		args = append(args, "--fastq")
	}
	if job.Options.DiscardUnmapped {
		args = append(args, "--discard_unmapped")
	}
	if job.Options.OnlyContigs != "" {
		args = append(args, "--only_contigs", job.Options.OnlyContigs)
	}
	if job.SplitAllReads {
		args = append(args, "--split_all_reads")
	}
	args = append(args,
		"--length_cutoff", itoa(job.Options.LengthCutoff),
		"--min_read_length", itoa(job.Options.MinReadLength),
		job.BAM, job.OutPrefix)
	return args
}

func (t *Toolchain) FilterReads(ctx context.Context, job ReadFilterJob) error {
	return utils.RunCmd(ctx, t.Verbose, t.Tools.Circlator, bam2readsArgs(job)...)
}

// assemblerArgs are shared by assemble and merge, which reassembles
// internally.
func assemblerArgs(assembler, dataType string, opts utils.AssembleConfig) []string {
	args := []string{"--assembler", assembler, "--data_type", dataType}
	if assembler == "spades" {
		args = append(args, "--spades_k", strings.ReplaceAll(opts.SpadesK, " ", ""))
		if opts.SpadesUseFirst {
			args = append(args, "--spades_use_first")
		}
		if opts.NotCareful {
			args = append(args, "--not_careful")
		}
		if opts.NotOnlyAssembler {
			args = append(args, "--not_only_assembler")
		}
	}
	return args
}

func assembleArgs(job AssembleJob) []string {
	args := []string{"assemble", "--threads", itoa(job.Threads)}
	args = append(args, assemblerArgs(job.Assembler, job.DataType, job.Options)...)
	if job.Assembler == "canu" {
		args = append(args, "--genome_size", itoa(job.LengthCutoff))
	}
	return append(args, job.Reads, job.OutDir)
}

func (t *Toolchain) Assemble(ctx context.Context, job AssembleJob) error {
	return utils.RunCmd(ctx, t.Verbose, t.Tools.Circlator, assembleArgs(job)...)
}

func mergeArgs(job MergeJob) []string {
	o := job.Options
	args := []string{"merge",
		"--threads", itoa(job.Threads),
		"--diagdiff", itoa(o.DiagDiff),
		"--min_id", ftoa(o.MinID),
		"--min_length", itoa(o.MinLength),
		"--min_length_merge", itoa(o.MinLengthMerge),
		"--min_spades_circ_pc", ftoa(o.MinSpadesCircPC),
		"--breaklen", itoa(o.BreakLen),
		"--ref_end", itoa(o.RefEnd),
		"--reassemble_end", itoa(o.ReassembleEnd),
		"--b2r_length_cutoff", itoa(job.LengthCutoff),
	}
	args = append(args, assemblerArgs(job.Assembler, job.DataType, job.Assemble)...)
	if job.SplitAllReads {
		args = append(args, "--split_all_reads")
	}
	if job.Reads != "" {
		args = append(args, "--reads", job.Reads)
	}
	return append(args, job.Reference, job.Reassembly, job.OutPrefix)
}

func (t *Toolchain) Merge(ctx context.Context, job MergeJob) error {
	return utils.RunCmd(ctx, t.Verbose, t.Tools.Circlator, mergeArgs(job)...)
}

func cleanArgs(job CleanJob) []string {
	o := job.Options
	return []string{"clean",
		"--min_contig_length", itoa(o.MinContigLength),
		"--min_contig_percent", ftoa(o.MinContigPercent),
		"--diagdiff", itoa(o.DiagDiff),
		"--min_nucmer_id", ftoa(o.MinNucmerID),
		"--min_nucmer_length", itoa(o.MinNucmerLength),
		"--breaklen", itoa(o.BreakLen),
		"--keep", job.KeepFile,
		job.Assembly, job.OutPrefix,
	}
}

func (t *Toolchain) Clean(ctx context.Context, job CleanJob) error {
	return utils.RunCmd(ctx, t.Verbose, t.Tools.Circlator, cleanArgs(job)...)
}

func fixstartArgs(job FixStartJob) []string {
	o := job.Options
	args := []string{"fixstart", "--min_id", ftoa(o.MinID), "--ignore", job.IgnoreFile}
	if o.MinCluster > 0 {
		args = append(args, "--mincluster", itoa(o.MinCluster))
	}
	if o.GenesFa != "" {
		args = append(args, "--genes_fa", o.GenesFa)
	}
	return append(args, job.Assembly, job.OutPrefix)
}

func (t *Toolchain) FixStart(ctx context.Context, job FixStartJob) error {
	return utils.RunCmd(ctx, t.Verbose, t.Tools.Circlator, fixstartArgs(job)...)
}
