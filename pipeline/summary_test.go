package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryExitCode(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    int
	}{
		{"unchanged", Summary{InputContigs: 3, FinalContigs: 3}, 7},
		{"circularised", Summary{InputContigs: 3, FinalContigs: 3, Circularised: 1}, 0},
		{"merged", Summary{InputContigs: 3, FinalContigs: 2}, 0},
		{"all circularised", Summary{InputContigs: 1, FinalContigs: 1, Circularised: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.summary.ExitCode(7))
		})
	}
	assert.Equal(t, 0, Summary{InputContigs: 2, FinalContigs: 2}.ExitCode(0))
}

func TestSummaryValidate(t *testing.T) {
	assert.NoError(t, Summary{FinalContigs: 2, Circularised: 2}.validate())
	assert.Error(t, Summary{FinalContigs: 1, Circularised: 2}.validate())
}

func TestSummaryPrint(t *testing.T) {
	var buf bytes.Buffer
	Summary{InputContigs: 4, FinalContigs: 3, Circularised: 2}.print(&buf)
	assert.Equal(t, "Number of input contigs: 4\nNumber of contigs after merging: 3\nCircularized 2 of 3 contig(s)\n", buf.String())
}

func TestStatesInOrder(t *testing.T) {
	states := States()
	assert.Equal(t, StateInit, states[0])
	assert.Equal(t, StateDone, states[len(states)-1])
	for i := 1; i < len(states); i++ {
		assert.Less(t, states[i-1], states[i])
	}
	assert.Equal(t, "FILTER_ASSEMBLY_BY_CONTIGS", StateFilterAssembly.String())
	assert.Equal(t, "UNKNOWN", State(99).String())
}

func TestBanner(t *testing.T) {
	b := banner("Running merge")
	assert.Len(t, b, bannerWidth)
	assert.Contains(t, b, " Running merge ")
}
