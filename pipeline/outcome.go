package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// OutcomeTag prefixes every line of the merge log that belongs to the
// per-contig circularisation table.
const OutcomeTag = "[merge circularised]"

// OutcomeColumns is the fixed header of the table, after the tag.
var OutcomeColumns = []string{"#Contig", "repetitive_deleted", "circl_using_nucmer", "circl_using_spades", "circularised"}

// ContigOutcome is one row of the table.
type ContigOutcome struct {
	Name               string
	RepetitiveDeleted  bool
	CircularisedNucmer bool
	CircularisedSpades bool
	Circularised       bool
}

// OutcomeHeaderLine returns the header line as the merge stage writes it.
func OutcomeHeaderLine() string {
	return strings.Join(append([]string{OutcomeTag}, OutcomeColumns...), "\t")
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// LogLine renders o in the merge log format.
func (o ContigOutcome) LogLine() string {
	return strings.Join([]string{OutcomeTag, o.Name, flag(o.RepetitiveDeleted), flag(o.CircularisedNucmer),
		flag(o.CircularisedSpades), flag(o.Circularised)}, "\t")
}

// ParseOutcomeLog reads the per-contig table from the merge log at path.
func ParseOutcomeLog(path string) ([]ContigOutcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "cannot read outcome log", Err: err}
	}
	defer f.Close()
	return ReadOutcomes(f, path)
}

// ReadOutcomes parses the table from r. Lines without the table tag belong to
// other parts of the merge log and are ignored. The header must come before
// any row, rows must have exactly six tab separated fields and every flag
// must be 0 or 1. Contig names must be unique.
func ReadOutcomes(r io.Reader, path string) ([]ContigOutcome, error) {
	header := OutcomeHeaderLine()
	var (
		records    []ContigOutcome
		seenHeader bool
		lineNo     int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		if !strings.HasPrefix(line, OutcomeTag+"\t") {
			continue
		}
		if line == header {
			seenHeader = true
			continue
		}
		if !seenHeader {
			return nil, &FormatError{Path: path, Line: lineNo, Reason: "outcome row before header"}
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			return nil, &FormatError{Path: path, Line: lineNo, Reason: fmt.Sprintf("expected 6 fields, got %d", len(fields))}
		}
		if fields[1] == "" {
			return nil, &FormatError{Path: path, Line: lineNo, Reason: "empty contig name"}
		}

		var flags [4]bool
		for i, v := range fields[2:] {
			switch v {
			case "1":
				flags[i] = true
			case "0":
			default:
				return nil, &FormatError{Path: path, Line: lineNo, Reason: fmt.Sprintf("column %s must be 0 or 1, got %q", OutcomeColumns[i+1], v)}
			}
		}
		records = append(records, ContigOutcome{
			Name:               fields[1],
			RepetitiveDeleted:  flags[0],
			CircularisedNucmer: flags[1],
			CircularisedSpades: flags[2],
			Circularised:       flags[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Path: path, Reason: "reading outcome log", Err: err}
	}
	if !seenHeader {
		return nil, &FormatError{Path: path, Reason: "outcome table header not found"}
	}

	names := lo.Map(records, func(r ContigOutcome, _ int) string { return r.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("contig listed more than once: %s", strings.Join(dups, ", "))}
	}
	return records, nil
}

// Classification splits contigs by circularisation outcome. Every contig of
// the outcome log is in exactly one of the two lists, in log order.
type Classification struct {
	Keep        []string
	DoNotRotate []string
}

func Classify(records []ContigOutcome) Classification {
	keep := lo.Filter(records, func(r ContigOutcome, _ int) bool { return r.Circularised })
	rest := lo.Reject(records, func(r ContigOutcome, _ int) bool { return r.Circularised })
	name := func(r ContigOutcome, _ int) string { return r.Name }
	return Classification{Keep: lo.Map(keep, name), DoNotRotate: lo.Map(rest, name)}
}

// WriteNameList writes names one per line. The file is created even when
// names is empty, because downstream stages treat its presence as meaningful.
func WriteNameList(path string, names []string) error {
	var body string
	if len(names) > 0 {
		body = strings.Join(names, "\n") + "\n"
	}
	return os.WriteFile(path, []byte(body), 0644)
}
