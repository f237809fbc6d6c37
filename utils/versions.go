package utils

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ToolSpec says how to ask an external program for its version.
type ToolSpec struct {
	Name    string
	Exe     string
	Args    []string
	Pattern *regexp.Regexp
}

type ToolVersion struct {
	Name    string
	Path    string
	Version string
}

var anyVersion = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?[\w.\-]*)`)

// RequiredTools lists the programs a finishing run depends on, directly or
// through circlator.
func RequiredTools(cfg Config) []ToolSpec {
	specs := []ToolSpec{
		{Name: "bwa", Exe: cfg.Tools.Bwa, Pattern: regexp.MustCompile(`Version:\s*(\S+)`)},
		{Name: "samtools", Exe: cfg.Tools.Samtools, Args: []string{"--version"}, Pattern: regexp.MustCompile(`samtools\s+(\S+)`)},
		{Name: "circlator", Exe: cfg.Tools.Circlator, Args: []string{"version"}},
		{Name: "nucmer", Exe: "nucmer", Args: []string{"--version"}},
		{Name: "promer", Exe: "promer", Args: []string{"--version"}},
	}
	switch cfg.Assembler {
	case "canu":
		specs = append(specs, ToolSpec{Name: "canu", Exe: "canu", Args: []string{"--version"}})
	default:
		specs = append(specs, ToolSpec{Name: "spades", Exe: "spades.py", Args: []string{"--version"}})
	}
	return specs
}

func probe(ctx context.Context, spec ToolSpec) (ToolVersion, error) {
	path, err := exec.LookPath(spec.Exe)
	if err != nil {
		return ToolVersion{}, fmt.Errorf("%s not found in PATH (%s): %w", spec.Name, spec.Exe, err)
	}

	// Several tools print their version on stderr and exit non-zero.
	out, _ := exec.CommandContext(ctx, path, spec.Args...).CombinedOutput()
	if ctx.Err() != nil {
		return ToolVersion{}, ctx.Err()
	}

	pattern := spec.Pattern
	if pattern == nil {
		pattern = anyVersion
	}
	version := "unknown"
	if m := pattern.FindSubmatch(out); m != nil {
		version = string(m[1])
	}
	return ToolVersion{Name: spec.Name, Path: path, Version: version}, nil
}

// ToolVersions probes every tool concurrently. Results keep the order of
// specs. A missing tool is an error.
func ToolVersions(ctx context.Context, specs []ToolSpec) ([]ToolVersion, error) {
	versions := make([]ToolVersion, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			v, err := probe(ctx, spec)
			if err != nil {
				return err
			}
			versions[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return versions, nil
}

// WriteVersions writes one "name<TAB>version<TAB>path" line per tool.
func WriteVersions(w io.Writer, versions []ToolVersion) error {
	var sb strings.Builder
	for _, v := range versions {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", v.Name, v.Version, v.Path)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
