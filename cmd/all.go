/*
Copyright © 2025 Godwin Mafireyi <mafireyi@gmail.com>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmaffy/genome-finisher/pipeline"
	"github.com/gmaffy/genome-finisher/stages"
	"github.com/gmaffy/genome-finisher/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var allCfg = utils.DefaultConfig()

// allCmd represents the all command
var allCmd = &cobra.Command{
	Use:   "all [flags] <assembly.fasta> <reads.fasta/q> <output directory>",
	Short: "Run mapreads, bam2reads, assemble, merge, clean, fixstart",
	Long: `Runs the whole finishing pipeline on a draft assembly and a file of corrected long reads.

Every stage writes numbered files into the output directory (00.info.txt, 01.mapreads.bam, ...,
06.fixstart.fasta). 06.fixstart.ALL_FINISHED is written last, when the run succeeded.

The output directory must not exist unless --force is used, in which case it is deleted first.
Running two instances against the same output directory at once is not supported.

Exit status is 0 on success, the value of --unchanged_code when the assembly came out
unchanged (same number of contigs, none circularised), and 1 on any error.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		code, err := runAll(cmd, args)
		if err != nil {
			var pre *pipeline.PreconditionError
			var stage *pipeline.StageError
			switch {
			case errors.As(err, &pre):
				log.Fatalf("Cannot start: %v", err)
			case errors.As(err, &stage):
				log.Fatalf("Stopped in stage %s (output kept for inspection): %v", stage.State, stage.Err)
			default:
				log.Fatalf("Error: %v", err)
			}
		}
		if code != 0 {
			os.Exit(code)
		}
	},
}

// resolveConfig applies, in increasing precedence, the defaults, the config
// file and the flags that were set on the command line.
// cfg must be the struct the flags are bound to.
func resolveConfig(flags *pflag.FlagSet, cfg *utils.Config, configPath string) (utils.Config, error) {
	if configPath != "" {
		changed := make(map[string]string)
		flags.Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})

		*cfg = utils.DefaultConfig()
		if err := utils.ReadConfig(configPath, cfg); err != nil {
			return utils.Config{}, err
		}
		for name, value := range changed {
			if err := flags.Set(name, value); err != nil {
				return utils.Config{}, fmt.Errorf("re-applying --%s: %w", name, err)
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return utils.Config{}, err
	}
	return *cfg, nil
}

// invocation is os.Args without the subcommand name.
func invocation() []string {
	args := []string{os.Args[0]}
	dropped := false
	for _, a := range os.Args[1:] {
		if !dropped && a == "all" {
			dropped = true
			continue
		}
		args = append(args, a)
	}
	return args
}

func runAll(cmd *cobra.Command, args []string) (int, error) {
	cfg, err := resolveConfig(cmd.Flags(), &allCfg, cfgFile)
	if err != nil {
		return 1, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Verbose {
		fmt.Println("_________________________ Checking external programs __________________________")
	}
	versions, err := utils.ToolVersions(ctx, utils.RequiredTools(cfg))
	if err != nil {
		return 1, fmt.Errorf("dependency check failed: %w", err)
	}
	if cfg.Verbose {
		if err := utils.WriteVersions(os.Stdout, versions); err != nil {
			return 1, err
		}
	}

	rc, err := pipeline.NewRunContext(args[0], args[1], args[2], cfg, invocation(), versions)
	if err != nil {
		return 1, err
	}

	controller := pipeline.NewController(rc, stages.NewToolchain(cfg.Tools, cfg.Verbose).Set())
	summary, err := controller.Run(ctx)
	if err != nil {
		return 1, err
	}
	return summary.ExitCode(cfg.UnchangedCode), nil
}

func init() {
	rootCmd.AddCommand(allCmd)
	allCmd.Flags().SortFlags = false
	bindAllFlags(allCmd.Flags(), &allCfg)
}

func bindAllFlags(f *pflag.FlagSet, cfg *utils.Config) {
	f.IntVar(&cfg.Threads, "threads", cfg.Threads, "Number of threads")
	f.BoolVar(&cfg.Force, "force", cfg.Force, "Delete and recreate the output directory if it exists")
	f.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Be verbose")
	f.IntVar(&cfg.UnchangedCode, "unchanged_code", cfg.UnchangedCode, "Code to return when the input assembly is not changed")
	f.StringVar(&cfg.Assembler, "assembler", cfg.Assembler, "Assembler to use for reassemblies: spades or canu")
	f.BoolVar(&cfg.SplitAllReads, "split_all_reads", cfg.SplitAllReads, "Split reads mapped to any contig in two at the middle of the contig, to help the assembler detect circular contigs")
	f.StringVar(&cfg.DataType, "data_type", cfg.DataType, "Type of reads (only used by canu): pacbio-raw, pacbio-corrected, nanopore-raw, nanopore-corrected")

	// mapreads
	f.StringVar(&cfg.MapReads.BwaOpts, "bwa_opts", cfg.MapReads.BwaOpts, "BWA mem options, in quotes")

	// bam2reads
	f.BoolVar(&cfg.Bam2Reads.DiscardUnmapped, "b2r_discard_unmapped", cfg.Bam2Reads.DiscardUnmapped, "Do not keep unmapped reads")
	f.StringVar(&cfg.Bam2Reads.OnlyContigs, "b2r_only_contigs", cfg.Bam2Reads.OnlyContigs, "File of contig names (one per line). Only reads mapping to these contigs are kept and only these contigs are merged. The whole assembly is still used as the mapping reference")
	f.IntVar(&cfg.Bam2Reads.LengthCutoff, "b2r_length_cutoff", cfg.Bam2Reads.LengthCutoff, "All reads mapped to contigs shorter than this are kept")
	f.IntVar(&cfg.Bam2Reads.MinReadLength, "b2r_min_read_length", cfg.Bam2Reads.MinReadLength, "Minimum length of read to output")

	// assemble
	f.StringVar(&cfg.Assemble.SpadesK, "assemble_spades_k", cfg.Assemble.SpadesK, "Comma separated list of odd k-mers (max 127) for SPAdes")
	f.BoolVar(&cfg.Assemble.SpadesUseFirst, "assemble_spades_use_first", cfg.Assemble.SpadesUseFirst, "Use the first successful SPAdes assembly instead of the one with the largest N50")
	f.BoolVar(&cfg.Assemble.NotCareful, "assemble_not_careful", cfg.Assemble.NotCareful, "Do not run SPAdes with --careful")
	f.BoolVar(&cfg.Assemble.NotOnlyAssembler, "assemble_not_only_assembler", cfg.Assemble.NotOnlyAssembler, "Do not run SPAdes with --only-assembler. Reads are then filtered to FASTQ, since SPAdes needs qualities to correct them")

	// merge
	f.IntVar(&cfg.Merge.DiagDiff, "merge_diagdiff", cfg.Merge.DiagDiff, "Nucmer diagdiff option")
	f.Float64Var(&cfg.Merge.MinID, "merge_min_id", cfg.Merge.MinID, "Nucmer minimum percent identity")
	f.IntVar(&cfg.Merge.MinLength, "merge_min_length", cfg.Merge.MinLength, "Minimum length of hit for nucmer to report")
	f.IntVar(&cfg.Merge.MinLengthMerge, "merge_min_length_merge", cfg.Merge.MinLengthMerge, "Minimum length of nucmer hit to use when merging")
	f.Float64Var(&cfg.Merge.MinSpadesCircPC, "merge_min_spades_circ_pc", cfg.Merge.MinSpadesCircPC, "Minimum percent of a circular reassembly contig that must be covered by nucmer hits")
	f.IntVar(&cfg.Merge.BreakLen, "merge_breaklen", cfg.Merge.BreakLen, "Nucmer breaklen option")
	f.IntVar(&cfg.Merge.RefEnd, "merge_ref_end", cfg.Merge.RefEnd, "Maximum distance between a nucmer hit and the end of an input assembly contig")
	f.IntVar(&cfg.Merge.ReassembleEnd, "merge_reassemble_end", cfg.Merge.ReassembleEnd, "Maximum distance between a nucmer hit and the end of a reassembly contig")
	f.BoolVar(&cfg.Merge.NoPairMerge, "no_pair_merge", cfg.Merge.NoPairMerge, "Do not merge pairs of contigs using the filtered reads")

	// clean
	f.IntVar(&cfg.Clean.MinContigLength, "clean_min_contig_length", cfg.Clean.MinContigLength, "Contigs shorter than this are discarded unless circularised")
	f.Float64Var(&cfg.Clean.MinContigPercent, "clean_min_contig_percent", cfg.Clean.MinContigPercent, "Contigs covered by a nucmer hit to at least this percent of their length are removed unless circularised")
	f.IntVar(&cfg.Clean.DiagDiff, "clean_diagdiff", cfg.Clean.DiagDiff, "Nucmer diagdiff option")
	f.Float64Var(&cfg.Clean.MinNucmerID, "clean_min_nucmer_id", cfg.Clean.MinNucmerID, "Nucmer minimum percent identity")
	f.IntVar(&cfg.Clean.MinNucmerLength, "clean_min_nucmer_length", cfg.Clean.MinNucmerLength, "Minimum length of hit for nucmer to report")
	f.IntVar(&cfg.Clean.BreakLen, "clean_breaklen", cfg.Clean.BreakLen, "Nucmer breaklen option")

	// fixstart
	f.StringVar(&cfg.FixStart.GenesFa, "genes_fa", cfg.FixStart.GenesFa, "FASTA file of genes to use as start point. Defaults to the built-in dnaA set")
	f.IntVar(&cfg.FixStart.MinCluster, "fixstart_mincluster", cfg.FixStart.MinCluster, "Override promer's -c|mincluster option (0 keeps promer's default)")
	f.Float64Var(&cfg.FixStart.MinID, "fixstart_min_id", cfg.FixStart.MinID, "Minimum percent identity of promer match between contigs and start genes")
}
