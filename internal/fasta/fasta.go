// Package fasta segments FASTA text into raw (identifier, residues) records
// and writes records back as wrapped-line FASTA. It does not interpret the
// residues; classification is the parser package's job.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"miniseq/internal/alphabet"
)

// maxLine allows very long single-line sequences (64 MiB).
const maxLine = 64 * 1024 * 1024

// Record represents a single FASTA record. The residue lines of the record
// are concatenated and their ASCII letters uppercased; other bytes are kept.
type Record struct {
	ID       string
	Residues string
}

// NewRecord builds a Record, uppercasing residues.
func NewRecord(id, residues string) Record {
	return Record{ID: id, Residues: alphabet.Upper(residues)}
}

type state int

const (
	awaitingHeader state = iota
	accumulatingResidues
	done
)

// Scanner reads records one at a time. Like bufio.Scanner, call Scan until it
// returns false, then check Err.
type Scanner struct {
	lines *bufio.Scanner
	state state

	id  string
	acc strings.Builder
	// open is set once a header or residue line started the current record.
	open bool

	rec Record
	err error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Scanner{lines: sc, state: awaitingHeader}
}

// Scan advances to the next record. It reads only as many lines as needed to
// complete one record.
func (s *Scanner) Scan() bool {
	for s.state != done {
		if !s.lines.Scan() {
			s.state = done
			s.err = s.lines.Err()
			if s.err == nil && s.open {
				s.emit()
				return true
			}
			return false
		}
		line := strings.TrimSpace(s.lines.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			header := strings.TrimSpace(line[1:])
			if s.state == accumulatingResidues && s.acc.Len() > 0 {
				s.emit()
				s.begin(header)
				return true
			}
			s.begin(header)
			continue
		}
		// residue lines before any header open an anonymous record
		s.state = accumulatingResidues
		s.open = true
		s.acc.WriteString(line)
	}
	return false
}

func (s *Scanner) begin(header string) {
	s.id = header
	s.acc.Reset()
	s.open = true
	s.state = accumulatingResidues
}

func (s *Scanner) emit() {
	s.rec = NewRecord(s.id, s.acc.String())
	s.id = ""
	s.acc.Reset()
	s.open = false
}

// Record returns the record produced by the last successful Scan.
func (s *Scanner) Record() Record { return s.rec }

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error { return s.err }

// ParseFasta reads every record from r.
func ParseFasta(r io.Reader) ([]Record, error) {
	sc := NewScanner(r)
	var records []Record
	for sc.Scan() {
		records = append(records, sc.Record())
	}
	return records, sc.Err()
}
