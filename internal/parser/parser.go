// Package parser turns a FASTA stream into typed sequences. Each record is
// either constructed as a forced variant or classified by the auto-detect
// cascade DNA, RNA, Protein, untyped Sequence.
package parser

import (
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/charmbracelet/log"

	"miniseq/internal/alphabet"
	"miniseq/internal/fasta"
	"miniseq/internal/seq"
)

// Diagnostic reports a record that fell through the whole cascade. Dropped
// is set when the record was not emitted.
type Diagnostic struct {
	ID      string
	Err     error
	Dropped bool
}

// Stats counts what the parser has seen so far.
type Stats struct {
	Records   int
	Emitted   int
	Exhausted int
	Dropped   int
	ByVariant map[alphabet.Variant]int
}

// Option configures a Parser.
type Option func(*Parser)

// WithForce constructs every record as v; a record v rejects ends iteration.
func WithForce(v alphabet.Variant) Option {
	return func(p *Parser) {
		p.force = &v
	}
}

// WithLogger sets the logger used for classification warnings.
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithDiagnostics registers fn to receive one Diagnostic per exhausted record.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(p *Parser) {
		p.onDiag = fn
	}
}

// WithDropUnclassified drops exhausted records instead of emitting them as
// untyped sequences.
func WithDropUnclassified(drop bool) Option {
	return func(p *Parser) {
		p.drop = drop
	}
}

// Parser is a lazy, one-pass producer of typed sequences.
type Parser struct {
	sc     *fasta.Scanner
	force  *alphabet.Variant
	logger *log.Logger
	onDiag func(Diagnostic)
	drop   bool

	cur   seq.Sequence
	err   error
	stats Stats
}

// New returns a Parser reading FASTA from r.
func New(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		sc:     fasta.NewScanner(r),
		logger: log.Default(),
		stats:  Stats{ByVariant: make(map[alphabet.Variant]int)},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Next advances to the next typed sequence. It returns false at the end of
// the stream or on a fatal error, which Err then reports.
func (p *Parser) Next() bool {
	if p.err != nil {
		return false
	}
	for p.sc.Scan() {
		rec := p.sc.Record()
		p.stats.Records++

		if p.force != nil {
			s, err := ClassifyAs(rec, *p.force)
			if err != nil {
				p.err = err
				return false
			}
			p.accept(s)
			return true
		}

		res := Classify(rec)
		if res.Exhausted {
			p.stats.Exhausted++
			d := Diagnostic{ID: rec.ID, Err: res.exhausted(), Dropped: p.drop}
			p.logger.Warn("unclassifiable sequence", "id", rec.ID, "dropped", p.drop, "err", d.Err)
			if p.onDiag != nil {
				p.onDiag(d)
			}
			if p.drop {
				p.stats.Dropped++
				continue
			}
		}
		p.accept(res.Sequence)
		return true
	}
	if err := p.sc.Err(); err != nil {
		p.err = fmt.Errorf("reading fasta: %w", err)
	}
	return false
}

func (p *Parser) accept(s seq.Sequence) {
	p.cur = s
	p.stats.Emitted++
	p.stats.ByVariant[s.Variant()]++
}

// Sequence returns the sequence produced by the last call to Next.
func (p *Parser) Sequence() seq.Sequence { return p.cur }

// Err returns the error that stopped iteration, if any.
func (p *Parser) Err() error { return p.err }

// Stats returns a snapshot of the counters.
func (p *Parser) Stats() Stats {
	s := p.stats
	s.ByVariant = make(map[alphabet.Variant]int, len(p.stats.ByVariant))
	for k, v := range p.stats.ByVariant {
		s.ByVariant[k] = v
	}
	return s
}

// All yields the remaining sequences. A fatal error is yielded once, as the
// last element. The sequence cannot be restarted.
func (p *Parser) All() iter.Seq2[seq.Sequence, error] {
	return func(yield func(seq.Sequence, error) bool) {
		for p.Next() {
			if !yield(p.Sequence(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			yield(seq.Sequence{}, err)
		}
	}
}

// Parse is the package entry point: a nil force auto-detects each record.
func Parse(r io.Reader, force *alphabet.Variant) iter.Seq2[seq.Sequence, error] {
	var opts []Option
	if force != nil {
		opts = append(opts, WithForce(*force))
	}
	return New(r, opts...).All()
}

// ParseFile reads every sequence of the FASTA file at path.
func ParseFile(path string, opts ...Option) ([]seq.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := New(f, opts...)
	var out []seq.Sequence
	for p.Next() {
		out = append(out, p.Sequence())
	}
	if err := p.Err(); err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
