package parser

import (
	"errors"
	"fmt"

	"miniseq/internal/alphabet"
	"miniseq/internal/fasta"
	"miniseq/internal/seq"
)

// cascade is the auto-detect order. DNA wins over RNA for residues drawn only
// from the shared letters {G, A, C, N, -}.
var cascade = []alphabet.Variant{alphabet.DNA, alphabet.RNA, alphabet.Protein}

// Result is the outcome of auto-detect classification. When Exhausted is set
// every alphabet rejected the record and Sequence holds the untyped fallback.
// Attempts lists the rejection of each tried variant, in cascade order.
type Result struct {
	Sequence  seq.Sequence
	Exhausted bool
	Attempts  []error
}

// ClassificationExhaustedError describes a record no alphabet accepted.
type ClassificationExhaustedError struct {
	ID       string
	Attempts []error
}

func (e *ClassificationExhaustedError) Error() string {
	msg := fmt.Sprintf("%s: no protein, DNA nor RNA sequence", e.ID)
	if len(e.Attempts) > 0 {
		msg += ": " + e.Attempts[len(e.Attempts)-1].Error()
	}
	return msg
}

// Unwrap exposes the per-variant rejections.
func (e *ClassificationExhaustedError) Unwrap() []error { return e.Attempts }

// RecordError ties a failure to the record identifier it happened on.
type RecordError struct {
	ID  string
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %q: %v", e.ID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Classify runs the auto-detect cascade over rec. It never fails: a record
// rejected by every alphabet comes back as an untyped Sequence with
// Exhausted set.
func Classify(rec fasta.Record) Result {
	var attempts []error
	for _, v := range cascade {
		s, err := seq.New(rec.ID, rec.Residues, v)
		if err == nil {
			return Result{Sequence: s, Attempts: attempts}
		}
		attempts = append(attempts, err)
	}
	return Result{
		Sequence:  seq.NewRaw(rec.ID, rec.Residues),
		Exhausted: true,
		Attempts:  attempts,
	}
}

// ClassifyAs constructs rec as variant v without any fallback.
func ClassifyAs(rec fasta.Record, v alphabet.Variant) (seq.Sequence, error) {
	s, err := seq.New(rec.ID, rec.Residues, v)
	if err != nil {
		return seq.Sequence{}, &RecordError{ID: rec.ID, Err: err}
	}
	return s, nil
}

// exhausted builds the diagnostic error for an exhausted Result.
func (r Result) exhausted() error {
	if !r.Exhausted {
		return nil
	}
	return &ClassificationExhaustedError{ID: r.Sequence.ID(), Attempts: r.Attempts}
}

// IsExhausted reports whether err is a ClassificationExhaustedError.
func IsExhausted(err error) bool {
	var ce *ClassificationExhaustedError
	return errors.As(err, &ce)
}
