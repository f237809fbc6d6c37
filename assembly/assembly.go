package assembly

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/samber/lo"
)

const lineWidth = 60

type fastaFile struct {
	f  *os.File
	gz *gzip.Reader
}

func (ff *fastaFile) Read(p []byte) (int, error) {
	if ff.gz != nil {
		return ff.gz.Read(p)
	}
	return ff.f.Read(p)
}

func (ff *fastaFile) Close() error {
	if ff.gz != nil {
		ff.gz.Close()
	}
	return ff.f.Close()
}

// openFasta opens a FASTA file, transparently decompressing .gz input.
func openFasta(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return &fastaFile{f: f}, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating gzip reader for %s: %w", path, err)
	}
	return &fastaFile{f: f, gz: gz}, nil
}

// scan calls fn for every record in the FASTA file at path.
func scan(path string, fn func(*linear.Seq) error) error {
	rc, err := openFasta(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	r := fasta.NewReader(rc, linear.NewSeq("", nil, alphabet.DNA))
	sc := seqio.NewScanner(r)
	for sc.Next() {
		if err := fn(sc.Seq().(*linear.Seq)); err != nil {
			return err
		}
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// seqName is the first whitespace separated word of the header. The reader
// splits the header at the first blank, so a header with leading blanks has
// its name in Desc.
func seqName(s *linear.Seq) string {
	fields := strings.Fields(s.ID + " " + s.Desc)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Normalize copies the FASTA file in to out, keeping only the part of each
// name before the first whitespace and dropping descriptions. It fails on an
// empty or repeated name. It returns the number of records written.
func Normalize(in, out string) (int, error) {
	dst, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	bw := bufio.NewWriter(dst)
	w := fasta.NewWriter(bw, lineWidth)
	seen := make(map[string]struct{})
	n := 0

	err = scan(in, func(s *linear.Seq) error {
		name := seqName(s)
		if name == "" {
			return fmt.Errorf("%s: record %d has an empty name", in, n+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%s: sequence name %q is not unique", in, name)
		}
		seen[name] = struct{}{}

		s.ID = name
		s.Desc = ""
		if _, err := w.Write(s); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, dst.Close()
}

// FilterByIDs writes the records of in whose names are in ids to out, in the
// order they appear in in. It returns the number of records written.
func FilterByIDs(in, out string, ids []string) (int, error) {
	want := lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} })

	dst, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	bw := bufio.NewWriter(dst)
	w := fasta.NewWriter(bw, lineWidth)
	n := 0
	err = scan(in, func(s *linear.Seq) error {
		if _, ok := want[seqName(s)]; !ok {
			return nil
		}
		if _, err := w.Write(s); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	if err := bw.Flush(); err != nil {
		return n, err
	}
	return n, dst.Close()
}

// ReadIDList reads a file of sequence names, one per line. Blank lines are
// skipped, surrounding whitespace is trimmed and repeats are dropped.
func ReadIDList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := lo.Map(strings.Split(string(data), "\n"), func(l string, _ int) string {
		return strings.TrimSpace(l)
	})
	return lo.Uniq(lo.Compact(lines)), nil
}

// Count returns the number of records in a FASTA file.
func Count(path string) (int, error) {
	n := 0
	err := scan(path, func(*linear.Seq) error {
		n++
		return nil
	})
	return n, err
}

// Lengths returns the sequence length of every record in a FASTA file.
func Lengths(path string) ([]int, error) {
	var lengths []int
	err := scan(path, func(s *linear.Seq) error {
		lengths = append(lengths, s.Len())
		return nil
	})
	return lengths, err
}
