package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gmaffy/genome-finisher/artifacts"
	"github.com/gmaffy/genome-finisher/assembly"
	"github.com/gmaffy/genome-finisher/stages"
	"github.com/gmaffy/genome-finisher/utils"
	"github.com/google/uuid"
)

// Controller runs one finishing run from an empty output directory to the
// completion sentinel. It is not safe to point two controllers at the same
// output directory.
type Controller struct {
	rc     RunContext
	stages stages.Set
	layout artifacts.Layout
	runID  string

	// Stdout receives banners and the summary when verbose. Stderr
	// receives human readable log records.
	Stdout io.Writer
	Stderr io.Writer

	logger  *slog.Logger
	logFile *os.File
	state   State
	class   Classification
}

func NewController(rc RunContext, set stages.Set) *Controller {
	return &Controller{
		rc:     rc,
		stages: set,
		layout: rc.Layout(),
		runID:  uuid.NewString(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: slog.New(slog.DiscardHandler),
		state:  StateInit,
	}
}

// State returns the state the controller is in, or the one it failed in.
func (c *Controller) State() State { return c.state }

func (c *Controller) Layout() artifacts.Layout { return c.layout }

func (c *Controller) RunID() string { return c.runID }

func (c *Controller) progress(title string) {
	if c.rc.Config.Verbose {
		fmt.Fprintln(c.Stdout, banner(title))
	}
}

// step moves to state, runs fn and records the outcome in the run log.
func (c *Controller) step(state State, title string, fn func() error) error {
	c.state = state
	if title != "" {
		c.progress(title)
	}
	c.logger.Info("FINISHER", "PROGRAM", state.String(), "STATUS", utils.StatusStarted)
	if err := fn(); err != nil {
		c.logger.Error("FINISHER", "PROGRAM", state.String(), "STATUS", utils.StatusFailed, "ERROR", err.Error())
		return &StageError{State: state, Err: err}
	}
	c.logger.Info("FINISHER", "PROGRAM", state.String(), "STATUS", utils.StatusCompleted)
	return nil
}

// requireOutputs fails if a stage reported success without writing its
// declared outputs.
func requireOutputs(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("expected output %s: %w", p, err)
		}
	}
	return nil
}

// Run executes every stage in order. On failure the returned error is a
// *PreconditionError or a *StageError, and everything written so far stays
// in the output directory.
func (c *Controller) Run(ctx context.Context) (Summary, error) {
	if err := c.rc.CheckPreconditions(); err != nil {
		return Summary{}, err
	}
	defer c.closeLog()

	if err := c.createRunDir(); err != nil {
		return Summary{}, err
	}

	cfg := c.rc.Config
	l := c.layout

	// ----------------------------------------- Normalize input ------------------------------------------- //
	err := c.step(StateInit, "", func() error {
		n, err := assembly.Normalize(c.rc.Assembly, l.InputAssembly)
		if err != nil {
			return err
		}
		c.logger.Info("Normalized input assembly", "contigs", n, "path", l.InputAssembly)
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	// -------------------------------------------- mapreads ----------------------------------------------- //
	err = c.step(StateMap, "Running mapreads", func() error {
		job := stages.MapJob{
			Reference:   l.InputAssembly,
			Reads:       c.rc.Reads,
			IndexPrefix: l.BwaIndex,
			OutBAM:      l.BAM,
			Threads:     cfg.Threads,
			Options:     cfg.MapReads,
			Flagstat:    l.MapStats,
		}
		if err := c.stages.Mapper.Map(ctx, job); err != nil {
			return err
		}
		return requireOutputs(l.BAM)
	})
	if err != nil {
		return Summary{}, err
	}

	// -------------------------------------------- bam2reads ---------------------------------------------- //
	err = c.step(StateFilterReads, "Running bam2reads", func() error {
		job := stages.ReadFilterJob{
			BAM:           l.BAM,
			OutPrefix:     l.ReadsPrefix,
			FASTQ:         cfg.Assemble.NotOnlyAssembler,
			SplitAllReads: cfg.SplitAllReads,
			Options:       cfg.Bam2Reads,
		}
		if err := c.stages.ReadFilter.FilterReads(ctx, job); err != nil {
			return err
		}
		return requireOutputs(l.FilteredReads)
	})
	if err != nil {
		return Summary{}, err
	}

	// -------------------------------------------- assemble ----------------------------------------------- //
	err = c.step(StateAssemble, "Running assemble", func() error {
		job := stages.AssembleJob{
			Reads:     l.FilteredReads,
			OutDir:    l.AssemblyDir,
			Threads:   cfg.Threads,
			Assembler: cfg.Assembler,
			DataType:  cfg.DataType,
			Options:   cfg.Assemble,

			LengthCutoff: cfg.Bam2Reads.LengthCutoff,
		}
		if err := c.stages.Assembler.Assemble(ctx, job); err != nil {
			return err
		}
		return requireOutputs(l.Reassembly)
	})
	if err != nil {
		return Summary{}, err
	}

	// ------------------------------------ filter original assembly --------------------------------------- //
	reference := l.InputAssembly
	if cfg.Bam2Reads.OnlyContigs != "" {
		err = c.step(StateFilterAssembly, "--b2r_only_contigs used - filtering contigs", func() error {
			ids, err := assembly.ReadIDList(cfg.Bam2Reads.OnlyContigs)
			if err != nil {
				return fmt.Errorf("reading contig list: %w", err)
			}
			n, err := assembly.FilterByIDs(l.InputAssembly, l.FilteredRef, ids)
			if err != nil {
				return err
			}
			if n < len(ids) {
				c.logger.Warn("Contig list names contigs missing from the assembly", "listed", len(ids), "found", n)
			}
			return nil
		})
		if err != nil {
			return Summary{}, err
		}
		reference = l.FilteredRef
	}

	// ---------------------------------------------- merge ------------------------------------------------ //
	err = c.step(StateMerge, "Running merge", func() error {
		var reads string
		if !cfg.Merge.NoPairMerge {
			reads = l.FilteredReads
		}
		job := stages.MergeJob{
			Reference:     reference,
			Reassembly:    l.Reassembly,
			OutPrefix:     l.MergePrefix,
			Reads:         reads,
			Threads:       cfg.Threads,
			Assembler:     cfg.Assembler,
			DataType:      cfg.DataType,
			LengthCutoff:  cfg.Bam2Reads.LengthCutoff,
			SplitAllReads: cfg.SplitAllReads,
			Assemble:      cfg.Assemble,
			Options:       cfg.Merge,
		}
		if err := c.stages.Merger.Merge(ctx, job); err != nil {
			return err
		}
		return requireOutputs(l.Merged)
	})
	if err != nil {
		return Summary{}, err
	}

	// --------------------------------------------- classify ---------------------------------------------- //
	err = c.step(StateClassify, "", func() error {
		records, err := ParseOutcomeLog(l.OutcomeLog)
		if err != nil {
			return err
		}
		c.class = Classify(records)
		if err := WriteNameList(l.KeepList, c.class.Keep); err != nil {
			return err
		}
		if err := WriteNameList(l.NoRotateList, c.class.DoNotRotate); err != nil {
			return err
		}
		c.logger.Info("Classified contigs", "circularised", len(c.class.Keep), "not_circularised", len(c.class.DoNotRotate))
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	// ---------------------------------------------- clean ------------------------------------------------ //
	err = c.step(StateClean, "Running clean", func() error {
		job := stages.CleanJob{
			Assembly:  l.Merged,
			OutPrefix: l.CleanPrefix,
			KeepFile:  l.KeepList,
			Options:   cfg.Clean,
		}
		if err := c.stages.Cleaner.Clean(ctx, job); err != nil {
			return err
		}
		return requireOutputs(l.Cleaned)
	})
	if err != nil {
		return Summary{}, err
	}

	// --------------------------------------------- fixstart ---------------------------------------------- //
	err = c.step(StateFixStart, "Running fixstart", func() error {
		job := stages.FixStartJob{
			Assembly:   l.Cleaned,
			OutPrefix:  l.FixStartPrefix,
			IgnoreFile: l.NoRotateList,
			Options:    cfg.FixStart,
		}
		if err := c.stages.StartFixer.FixStart(ctx, job); err != nil {
			return err
		}
		return requireOutputs(l.Final)
	})
	if err != nil {
		return Summary{}, err
	}

	// ---------------------------------------------- summary ---------------------------------------------- //
	var summary Summary
	err = c.step(StateSummarize, "Summary", func() error {
		var err error
		if summary, err = c.summarize(); err != nil {
			return err
		}
		if cfg.Verbose {
			summary.print(c.Stdout)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	c.closeLog()
	if err := os.WriteFile(l.Finished, nil, 0644); err != nil {
		return Summary{}, &StageError{State: StateSummarize, Err: fmt.Errorf("writing completion marker: %w", err)}
	}
	c.state = StateDone
	return summary, nil
}

// createRunDir creates the output directory, replacing it when forced, then
// writes the provenance record and opens the run log.
func (c *Controller) createRunDir() error {
	dir := c.rc.OutDir
	err := os.Mkdir(dir, 0755)
	if errors.Is(err, fs.ErrExist) {
		if !c.rc.Config.Force {
			return &PreconditionError{Path: dir, Err: ErrOutputExists}
		}
		if err := os.RemoveAll(dir); err != nil {
			return &StageError{State: StateInit, Err: fmt.Errorf("removing %s: %w", dir, err)}
		}
		err = os.Mkdir(dir, 0755)
	}
	if err != nil {
		return &StageError{State: StateInit, Err: fmt.Errorf("making output directory: %w", err)}
	}

	if err := c.writeInfo(); err != nil {
		return &StageError{State: StateInit, Err: err}
	}

	logger, logFile, err := newRunLogger(c.layout.RunLog, c.Stderr, c.rc.Config.Verbose, c.runID)
	if err != nil {
		return &StageError{State: StateInit, Err: err}
	}
	c.logger, c.logFile = logger, logFile
	return nil
}

func (c *Controller) writeInfo() error {
	f, err := os.Create(c.layout.Info)
	if err != nil {
		return fmt.Errorf("writing info file: %w", err)
	}
	defer f.Close()

	invocation := "genome-finisher all"
	if len(c.rc.Args) > 0 {
		invocation = strings.Join(append([]string{c.rc.Args[0], "all"}, c.rc.Args[1:]...), " ")
	}
	if _, err := fmt.Fprintln(f, invocation); err != nil {
		return err
	}
	if err := utils.WriteVersions(f, c.rc.Versions); err != nil {
		return err
	}
	return f.Close()
}

func (c *Controller) summarize() (Summary, error) {
	in, err := assembly.FileStats(c.layout.InputAssembly)
	if err != nil {
		return Summary{}, err
	}
	final, err := assembly.FileStats(c.layout.Final)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		InputContigs: in.Contigs,
		FinalContigs: final.Contigs,
		Circularised: len(c.class.Keep),
		Input:        in,
		Final:        final,
	}
	if err := s.validate(); err != nil {
		return Summary{}, err
	}

	c.logger.Info("Summary",
		"input_contigs", s.InputContigs,
		"final_contigs", s.FinalContigs,
		"circularised", s.Circularised,
		"input_total_bp", in.TotalLength,
		"final_total_bp", final.TotalLength,
		"input_mean_length", in.MeanLength,
		"final_mean_length", final.MeanLength,
		"input_n50", in.N50,
		"final_n50", final.N50,
	)
	return s, nil
}

func (c *Controller) closeLog() {
	if c.logFile != nil {
		c.logFile.Close()
		c.logFile = nil
		c.logger = slog.New(slog.DiscardHandler)
	}
}
