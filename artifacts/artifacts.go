// Package artifacts names the files and directories a finishing run leaves in
// its output directory. Names are positional: <NN>.<role>[.<suffix>...], so
// listing the directory in lexical order shows how far a run got.
package artifacts

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stage indices. The merge-reference subset shares the merge index and is
// distinguished by its role.
const (
	StageInput     = 0
	StageMapReads  = 1
	StageBam2Reads = 2
	StageAssemble  = 3
	StageMerge     = 4
	StageClean     = 5
	StageFixStart  = 6
)

// Name returns the artifact name for a stage index, a role and optional
// suffixes, e.g. Name(4, "merge", "circularise", "log") is
// "04.merge.circularise.log".
func Name(stage int, role string, suffix ...string) string {
	parts := append([]string{fmt.Sprintf("%02d", stage), role}, suffix...)
	return strings.Join(parts, ".")
}

// Layout holds the absolute path of every artifact of a single run. It is
// computed once from the run directory and never changes.
type Layout struct {
	Dir string

	Info           string
	RunLog         string
	InputAssembly  string
	BAM            string
	BwaIndex       string
	MapStats       string
	ReadsPrefix    string
	FilteredReads  string
	AssemblyDir    string
	Reassembly     string
	FilteredRef    string
	MergePrefix    string
	Merged         string
	OutcomeLog     string
	CleanPrefix    string
	Cleaned        string
	KeepList       string
	FixStartPrefix string
	Final          string
	NoRotateList   string
	Finished       string
}

// NewLayout builds the layout for the run directory dir. fastq selects the
// extension of the filtered reads, which the read filter writes as FASTQ when
// the assembler is going to correct reads itself.
func NewLayout(dir string, fastq bool) Layout {
	p := func(name string) string { return filepath.Join(dir, name) }

	readsExt := "fasta"
	if fastq {
		readsExt = "fastq"
	}

	mergePrefix := p(Name(StageMerge, "merge"))
	cleanPrefix := p(Name(StageClean, "clean"))
	fixPrefix := p(Name(StageFixStart, "fixstart"))
	assemblyDir := p(Name(StageAssemble, "assemble"))
	readsPrefix := p(Name(StageBam2Reads, "bam2reads"))

	return Layout{
		Dir:            dir,
		Info:           p(Name(StageInput, "info", "txt")),
		RunLog:         p(Name(StageInput, "run", "log")),
		InputAssembly:  p(Name(StageInput, "input_assembly", "fasta")),
		BAM:            p(Name(StageMapReads, "mapreads", "bam")),
		BwaIndex:       p(Name(StageMapReads, "mapreads", "bwa_index")),
		MapStats:       p(Name(StageMapReads, "mapreads", "flagstat")),
		ReadsPrefix:    readsPrefix,
		FilteredReads:  readsPrefix + "." + readsExt,
		AssemblyDir:    assemblyDir,
		Reassembly:     filepath.Join(assemblyDir, "contigs.fasta"),
		FilteredRef:    p(Name(StageMerge, "merge", "00", "filtered_assembly", "fa")),
		MergePrefix:    mergePrefix,
		Merged:         mergePrefix + ".fasta",
		OutcomeLog:     mergePrefix + ".circularise.log",
		CleanPrefix:    cleanPrefix,
		Cleaned:        cleanPrefix + ".fasta",
		KeepList:       cleanPrefix + ".contigs_to_keep",
		FixStartPrefix: fixPrefix,
		Final:          fixPrefix + ".fasta",
		NoRotateList:   fixPrefix + ".contigs_to_not_change",
		Finished:       fixPrefix + ".ALL_FINISHED",
	}
}
