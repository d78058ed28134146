package fasta

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// DefaultLineWidth is the residue wrap width used when none is configured.
const DefaultLineWidth = 100

// Writer writes records as FASTA with residues hard-wrapped at a fixed width.
type Writer struct {
	w     *bufio.Writer
	width int
}

// NewWriter returns a Writer on w. A width <= 0 writes residues on a single
// line.
func NewWriter(w io.Writer, width int) *Writer {
	return &Writer{w: bufio.NewWriter(w), width: width}
}

// Write writes one record and returns the number of bytes written.
func (fw *Writer) Write(id, residues string) (int, error) {
	return Format(fw.w, id, residues, fw.width)
}

// Flush flushes buffered output.
func (fw *Writer) Flush() error { return fw.w.Flush() }

// Format writes ">id\n" followed by residues wrapped at width characters,
// each line newline-terminated.
func Format(w io.Writer, id, residues string, width int) (int, error) {
	total := 0
	n, err := io.WriteString(w, ">"+id+"\n")
	total += n
	if err != nil {
		return total, err
	}
	for i := 0; i < len(residues); {
		end := lineEnd(residues, i, width)
		n, err = io.WriteString(w, residues[i:end]+"\n")
		total += n
		if err != nil {
			return total, err
		}
		i = end
	}
	if len(residues) == 0 {
		n, err = io.WriteString(w, "\n")
		total += n
	}
	return total, err
}

// lineEnd returns the byte offset just past width characters starting at i.
func lineEnd(residues string, i, width int) int {
	if width <= 0 {
		return len(residues)
	}
	for c := 0; c < width && i < len(residues); c++ {
		_, size := utf8.DecodeRuneInString(residues[i:])
		i += size
	}
	return i
}
