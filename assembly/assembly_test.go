package assembly

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNormalizeStripsDescriptions(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fa", ">ctg1 some description\nACGT\nACGT\n>ctg2\tlen=4\nTTTT\n")
	out := filepath.Join(dir, "out.fa")

	n, err := Normalize(in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ">ctg1\nACGTACGT\n>ctg2\nTTTT\n", string(got))
}

func TestNormalizeLeadingWhitespaceInHeader(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fa", ">  ctg1 desc\nACGT\n>ctg2\nTTTT\n")
	out := filepath.Join(dir, "out.fa")

	n, err := Normalize(in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ">ctg1\nACGT\n>ctg2\nTTTT\n", string(got))
}

func TestNormalizeRejectsBlankHeader(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fa", ">ctg1\nACGT\n> \t \nTTTT\n")

	_, err := Normalize(in, filepath.Join(dir, "out.fa"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty name")
}

func TestNormalizeRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fa", ">ctg1 a\nACGT\n>ctg1 b\nTTTT\n")

	_, err := Normalize(in, filepath.Join(dir, "out.fa"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not unique")
}

func TestNormalizeGzipInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.fa.gz")
	f, err := os.Create(in)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(">a x\nAC\n>b\nGT\n>c\nAA\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	n, err := Normalize(in, filepath.Join(dir, "out.fa"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNormalizeMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Normalize(filepath.Join(dir, "nope.fa"), filepath.Join(dir, "out.fa"))
	require.Error(t, err)
}

func TestFilterByIDs(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.fa", ">a\nAAAA\n>b\nCCCC\n>c\nGGGG\n")
	out := filepath.Join(dir, "out.fa")

	n, err := FilterByIDs(in, out, []string{"c", "a", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ">a\nAAAA\n>c\nGGGG\n", string(got))
}

func TestReadIDList(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ids.txt", "ctg1\n\n  ctg2 \nctg1\n")

	ids, err := ReadIDList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ctg1", "ctg2"}, ids)
}

func TestCountAndLengths(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.fa", ">a\nAAAA\n>b\nCC\nCC\nCC\n")

	n, err := Count(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lengths, err := Lengths(path)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, lengths)

	empty := writeFile(t, dir, "empty.fa", "")
	n, err = Count(empty)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats([]int{100, 200, 300, 400})
	assert.Equal(t, 4, s.Contigs)
	assert.Equal(t, 1000, s.TotalLength)
	assert.InDelta(t, 250.0, s.MeanLength, 1e-9)
	assert.Equal(t, 400, s.Longest)
	assert.Equal(t, 300, s.N50)

	assert.Equal(t, Stats{}, ComputeStats(nil))
}
