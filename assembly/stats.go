package assembly

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the contig lengths of an assembly.
type Stats struct {
	Contigs     int
	TotalLength int
	MeanLength  float64
	Longest     int
	N50         int
}

func ComputeStats(lengths []int) Stats {
	if len(lengths) == 0 {
		return Stats{}
	}

	x := make([]float64, len(lengths))
	for i, l := range lengths {
		x[i] = float64(l)
	}
	total := floats.Sum(x)

	sorted := append([]int(nil), lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	var n50, running int
	for _, l := range sorted {
		running += l
		if 2*float64(running) >= total {
			n50 = l
			break
		}
	}

	return Stats{
		Contigs:     len(lengths),
		TotalLength: int(total),
		MeanLength:  stat.Mean(x, nil),
		Longest:     sorted[0],
		N50:         n50,
	}
}

// FileStats reads a FASTA file and returns its Stats.
func FileStats(path string) (Stats, error) {
	lengths, err := Lengths(path)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(lengths), nil
}
