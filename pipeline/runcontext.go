package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gmaffy/genome-finisher/artifacts"
	"github.com/gmaffy/genome-finisher/utils"
)

// RunContext is everything a run needs, resolved once before it starts.
// It is passed by value and never modified.
type RunContext struct {
	Assembly string
	Reads    string
	OutDir   string
	Config   utils.Config

	// Provenance written to the info artifact.
	Args     []string
	Versions []utils.ToolVersion
}

// NewRunContext makes every path absolute, including the optional contig
// allow-list and gene file in cfg.
func NewRunContext(assembly, reads, outDir string, cfg utils.Config, args []string, versions []utils.ToolVersion) (RunContext, error) {
	abs := func(p string) (string, error) {
		if p == "" {
			return "", nil
		}
		a, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", p, err)
		}
		return a, nil
	}

	var err error
	rc := RunContext{Config: cfg, Args: slices.Clone(args), Versions: slices.Clone(versions)}
	if rc.Assembly, err = abs(assembly); err != nil {
		return RunContext{}, err
	}
	if rc.Reads, err = abs(reads); err != nil {
		return RunContext{}, err
	}
	if rc.OutDir, err = abs(outDir); err != nil {
		return RunContext{}, err
	}
	if rc.Config.Bam2Reads.OnlyContigs, err = abs(cfg.Bam2Reads.OnlyContigs); err != nil {
		return RunContext{}, err
	}
	if rc.Config.FixStart.GenesFa, err = abs(cfg.FixStart.GenesFa); err != nil {
		return RunContext{}, err
	}
	return rc, nil
}

// Layout returns the artifact paths of this run.
func (rc RunContext) Layout() artifacts.Layout {
	return artifacts.NewLayout(rc.OutDir, rc.Config.Assemble.NotOnlyAssembler)
}

// CheckPreconditions verifies the inputs exist and that the output directory
// is absent or may be overwritten.
func (rc RunContext) CheckPreconditions() error {
	files := []string{rc.Assembly, rc.Reads}
	if rc.Config.Bam2Reads.OnlyContigs != "" {
		files = append(files, rc.Config.Bam2Reads.OnlyContigs)
	}
	if rc.Config.FixStart.GenesFa != "" {
		files = append(files, rc.Config.FixStart.GenesFa)
	}
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return &PreconditionError{Path: f, Err: err}
		}
		if info.IsDir() {
			return &PreconditionError{Path: f, Err: errors.New("is a directory, expected a file")}
		}
	}

	if rc.OutDir == "" {
		return &PreconditionError{Path: rc.OutDir, Err: errors.New("no output directory given")}
	}
	_, err := os.Stat(rc.OutDir)
	switch {
	case err == nil && !rc.Config.Force:
		return &PreconditionError{Path: rc.OutDir, Err: ErrOutputExists}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return &PreconditionError{Path: rc.OutDir, Err: err}
	}
	return nil
}
