package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"miniseq/internal/alphabet"
	"miniseq/internal/collection"
	"miniseq/internal/parser"
	"miniseq/internal/seq"
	"miniseq/internal/translator"
)

// maxBodyBytes caps FASTA uploads.
const maxBodyBytes = 32 << 20

// Record is the JSON form of a typed sequence.
type Record struct {
	ID       string           `json:"id"`
	Variant  alphabet.Variant `json:"variant"`
	Label    string           `json:"label"`
	Length   int              `json:"length"`
	Residues string           `json:"residues"`
}

func toRecord(s seq.Sequence) Record {
	return Record{ID: s.ID(), Variant: s.Variant(), Label: s.Variant().Label(), Length: s.Len(), Residues: s.Residues()}
}

func toRecords(seqs []seq.Sequence) []Record {
	out := make([]Record, 0, len(seqs))
	for _, s := range seqs {
		out = append(out, toRecord(s))
	}
	return out
}

// Diagnostic is the JSON form of a record no alphabet accepted.
type Diagnostic struct {
	ID      string `json:"id"`
	Error   string `json:"error"`
	Dropped bool   `json:"dropped"`
}

// ParseResponse is returned by POST /api/parse.
type ParseResponse struct {
	Records     []Record       `json:"records"`
	Diagnostics []Diagnostic   `json:"diagnostics"`
	Counts      map[string]int `json:"counts"`
}

// OpResult is one entry of a translate or transcribe response.
type OpResult struct {
	ID     string  `json:"id"`
	Result *Record `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

type server struct {
	seqs   *collection.Collection
	logger *log.Logger
	drop   bool

	// maxBody caps request bodies; zero means maxBodyBytes.
	maxBody int64
}

func (s *server) routes(r chi.Router) {
	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/records", s.listRecords)
		r.Get("/records/{id}", s.getRecord)
		r.Post("/parse", s.parse)
		r.Post("/translate", s.mapRecords(translator.Translate))
		r.Post("/transcribe", s.mapRecords(translator.Transcribe))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": s.seqs.Len()})
}

func (s *server) listRecords(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	c := s.seqs
	if q != "" {
		c = c.FilterBy(func(sq seq.Sequence) bool {
			return strings.Contains(strings.ToLower(sq.ID()), q)
		})
	} else {
		c = collection.New(c.Sequences()...)
	}

	switch r.URL.Query().Get("sort") {
	case "":
	case "length":
		c.SortByLength(false)
	case "-length":
		c.SortByLength(true)
	default:
		writeError(w, http.StatusBadRequest, "sort must be length or -length")
		return
	}
	writeJSON(w, http.StatusOK, toRecords(c.Sequences()))
}

func (s *server) getRecord(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed id")
		return
	}
	sq, err := s.seqs.Lookup(id)
	if errors.Is(err, collection.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRecord(sq))
}

func (s *server) parserOptions(r *http.Request) ([]parser.Option, error) {
	opts := []parser.Option{parser.WithLogger(s.logger), parser.WithDropUnclassified(s.drop)}
	if name := r.URL.Query().Get("force"); name != "" {
		v, err := alphabet.ParseVariant(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, parser.WithForce(v))
	}
	return opts, nil
}

// readBody parses the request body and writes the error response itself
// when parsing fails.
func (s *server) readBody(w http.ResponseWriter, r *http.Request, opts ...parser.Option) ([]seq.Sequence, bool) {
	limit := s.maxBody
	if limit <= 0 {
		limit = maxBodyBytes
	}
	p := parser.New(http.MaxBytesReader(w, r.Body, limit), opts...)
	var seqs []seq.Sequence
	for sq, err := range p.All() {
		if err != nil {
			var (
				rerr    *parser.RecordError
				tooLong *http.MaxBytesError
			)
			switch {
			case errors.As(err, &rerr):
				writeError(w, http.StatusUnprocessableEntity, err.Error())
			case errors.As(err, &tooLong):
				writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			default:
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return nil, false
		}
		seqs = append(seqs, sq)
	}
	return seqs, true
}

func (s *server) parse(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parserOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	diags := []Diagnostic{}
	opts = append(opts, parser.WithDiagnostics(func(d parser.Diagnostic) {
		diags = append(diags, Diagnostic{ID: d.ID, Error: d.Err.Error(), Dropped: d.Dropped})
	}))
	seqs, ok := s.readBody(w, r, opts...)
	if !ok {
		return
	}
	counts := make(map[string]int)
	for _, sq := range seqs {
		counts[sq.Variant().String()]++
	}
	writeJSON(w, http.StatusOK, ParseResponse{Records: toRecords(seqs), Diagnostics: diags, Counts: counts})
}

func (s *server) mapRecords(fn func(seq.Sequence) (seq.Sequence, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.parserOptions(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		seqs, ok := s.readBody(w, r, opts...)
		if !ok {
			return
		}
		results := make([]OpResult, 0, len(seqs))
		failed := 0
		for _, sq := range seqs {
			res := OpResult{ID: sq.ID()}
			out, err := fn(sq)
			if err != nil {
				res.Error = err.Error()
				failed++
			} else {
				rec := toRecord(out)
				res.Result = &rec
			}
			results = append(results, res)
		}
		s.logger.Debug("mapped records", "path", r.URL.Path, "records", len(seqs), "failed", failed)
		writeJSON(w, http.StatusOK, results)
	}
}
