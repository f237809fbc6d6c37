package pipeline

import (
	"fmt"
	"io"

	"github.com/gmaffy/genome-finisher/assembly"
)

// Summary is computed at the end of a successful run.
type Summary struct {
	InputContigs int
	FinalContigs int
	Circularised int

	Input assembly.Stats
	Final assembly.Stats
}

// Unchanged reports whether the run left the assembly as it was: same number
// of contigs and none circularised.
func (s Summary) Unchanged() bool {
	return s.FinalContigs == s.InputContigs && s.Circularised == 0
}

// ExitCode is unchangedCode for an unchanged assembly and 0 otherwise.
func (s Summary) ExitCode(unchangedCode int) int {
	if s.Unchanged() {
		return unchangedCode
	}
	return 0
}

func (s Summary) validate() error {
	if s.Circularised > s.FinalContigs {
		return fmt.Errorf("%d contigs circularised but only %d in the final assembly", s.Circularised, s.FinalContigs)
	}
	return nil
}

func (s Summary) print(w io.Writer) {
	fmt.Fprintf(w, "Number of input contigs: %d\n", s.InputContigs)
	fmt.Fprintf(w, "Number of contigs after merging: %d\n", s.FinalContigs)
	fmt.Fprintf(w, "Circularized %d of %d contig(s)\n", s.Circularised, s.FinalContigs)
}
