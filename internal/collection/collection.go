// Package collection holds an ordered list of typed sequences and the
// convenience operations callers run over a whole FASTA file: counting,
// type histograms, sorting, filtering, splitting and writing back to disk.
package collection

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"sort"
	"strings"

	"miniseq/internal/fasta"
	"miniseq/internal/parser"
	"miniseq/internal/seq"
)

// ErrFilterMode is returned by FilterByLength for an unknown mode.
var ErrFilterMode = errors.New("filter_by_length only has two modes: 'above' and 'below'")

// ErrNotFound is returned by Lookup when no sequence has the identifier.
var ErrNotFound = errors.New("sequence not found")

// LengthMode selects which side of the threshold FilterByLength keeps.
type LengthMode string

const (
	Above LengthMode = "above"
	Below LengthMode = "below"
)

// Collection is an ordered list of sequences.
type Collection struct {
	Name      string
	sequences []seq.Sequence
}

// New wraps seqs in an unnamed collection.
func New(seqs ...seq.Sequence) *Collection {
	return &Collection{Name: "Unnamed FASTA", sequences: slices.Clone(seqs)}
}

// Load parses the FASTA file at path. Parser options (force, logger,
// diagnostics) are passed through.
func Load(path string, opts ...parser.Option) (*Collection, error) {
	seqs, err := parser.ParseFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return &Collection{Name: path, sequences: seqs}, nil
}

// Read parses FASTA from r.
func Read(r io.Reader, opts ...parser.Option) (*Collection, error) {
	p := parser.New(r, opts...)
	c := New()
	for p.Next() {
		c.sequences = append(c.sequences, p.Sequence())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Len is the number of sequences.
func (c *Collection) Len() int { return len(c.sequences) }

// At returns the i-th sequence.
func (c *Collection) At(i int) seq.Sequence { return c.sequences[i] }

// Sequences returns a copy of the underlying slice.
func (c *Collection) Sequences() []seq.Sequence { return slices.Clone(c.sequences) }

// All iterates over the sequences in order.
func (c *Collection) All() iter.Seq2[int, seq.Sequence] {
	return slices.All(c.sequences)
}

// Add appends s.
func (c *Collection) Add(s seq.Sequence) { c.sequences = append(c.sequences, s) }

// Types counts sequences per type label ("DNA Sequence", ...).
func (c *Collection) Types() map[string]int {
	types := make(map[string]int)
	for _, s := range c.sequences {
		types[s.Variant().Label()]++
	}
	return types
}

// Lookup returns the first sequence with the given identifier.
func (c *Collection) Lookup(id string) (seq.Sequence, error) {
	for _, s := range c.sequences {
		if s.ID() == id {
			return s, nil
		}
	}
	return seq.Sequence{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// FilterByID keeps the sequences whose identifier is in ids.
func (c *Collection) FilterByID(ids ...string) *Collection {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return c.filter(func(s seq.Sequence) bool { return want[s.ID()] })
}

// FilterByLength keeps sequences with length >= n (Above) or <= n (Below).
func (c *Collection) FilterByLength(n int, mode LengthMode) (*Collection, error) {
	switch mode {
	case Above:
		return c.filter(func(s seq.Sequence) bool { return s.Len() >= n }), nil
	case Below:
		return c.filter(func(s seq.Sequence) bool { return s.Len() <= n }), nil
	}
	return nil, fmt.Errorf("%w: got %q", ErrFilterMode, mode)
}

// FilterBy keeps sequences for which keep returns true.
func (c *Collection) FilterBy(keep func(seq.Sequence) bool) *Collection {
	return c.filter(keep)
}

func (c *Collection) filter(keep func(seq.Sequence) bool) *Collection {
	out := New()
	for _, s := range c.sequences {
		if keep(s) {
			out.sequences = append(out.sequences, s)
		}
	}
	return out
}

// SortByLength sorts in place by length. The sort is stable so sequences of
// equal length keep their file order.
func (c *Collection) SortByLength(reverse bool) {
	sort.SliceStable(c.sequences, func(i, j int) bool {
		if reverse {
			return c.sequences[j].Less(c.sequences[i])
		}
		return c.sequences[i].Less(c.sequences[j])
	})
}

// Split returns one single-sequence collection per sequence.
func (c *Collection) Split() []*Collection {
	out := make([]*Collection, 0, len(c.sequences))
	for _, s := range c.sequences {
		out = append(out, New(s))
	}
	return out
}

// Lengths returns the residue count of every sequence.
func (c *Collection) Lengths() []int {
	lengths := make([]int, len(c.sequences))
	for i, s := range c.sequences {
		lengths[i] = s.Len()
	}
	return lengths
}

// AverageLength is the mean sequence length, 0 for an empty collection.
func (c *Collection) AverageLength() float64 {
	if len(c.sequences) == 0 {
		return 0
	}
	total := 0
	for _, s := range c.sequences {
		total += s.Len()
	}
	return float64(total) / float64(len(c.sequences))
}

// WriteTo writes every sequence as FASTA wrapped at width.
func (c *Collection) WriteTo(w io.Writer, width int) error {
	fw := fasta.NewWriter(w, width)
	for _, s := range c.sequences {
		if _, err := fw.Write(s.ID(), s.Residues()); err != nil {
			return err
		}
	}
	return fw.Flush()
}

// Save writes the collection to path, truncating any existing file.
func (c *Collection) Save(path string, width int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.WriteTo(f, width); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// String prints a short summary: name, count and per-type counts.
func (c *Collection) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FASTA %s\n", c.Name)
	fmt.Fprintf(&b, "  Num of sequences: %d\n", c.Len())
	types := c.Types()
	labels := make([]string, 0, len(types))
	for l := range types {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		fmt.Fprintf(&b, "    %s : %d\n", l, types[l])
	}
	return b.String()
}
