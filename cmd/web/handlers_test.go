package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniseq/internal/alphabet"
	"miniseq/internal/collection"
	"miniseq/internal/seq"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, func(*server) {})
}

func newTestServerWith(t *testing.T, configure func(*server)) *httptest.Server {
	t.Helper()
	dna, err := seq.NewDNA("gene1", "ATGAAATAGCCC")
	require.NoError(t, err)
	rna, err := seq.NewRNA("rna 1", "AUGGCC")
	require.NoError(t, err)
	prot, err := seq.NewProtein("prot1", "MKV")
	require.NoError(t, err)

	s := &server{seqs: collection.New(dna, rna, prot), logger: log.New(io.Discard)}
	configure(s)
	ts := httptest.NewServer(newRouter(s))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, v any) int {
	t.Helper()
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["records"])
}

func TestListRecords(t *testing.T) {
	ts := newTestServer(t)

	var recs []Record
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/records?sort=length", &recs))
	require.Len(t, recs, 3)
	assert.Equal(t, "prot1", recs[0].ID)
	assert.Equal(t, alphabet.Protein, recs[0].Variant)
	assert.Equal(t, "gene1", recs[2].ID)

	recs = nil
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/records?q=RNA", &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "RNA Sequence", recs[0].Label)

	var e errorBody
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/records?sort=name", &e))
}

func TestGetRecord(t *testing.T) {
	ts := newTestServer(t)

	var rec Record
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/records/rna%201", &rec))
	assert.Equal(t, "AUGGCC", rec.Residues)
	assert.Equal(t, 6, rec.Length)

	var e errorBody
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/records/missing", &e))
	assert.Contains(t, e.Error, "missing")
}

func TestParseAutoDetect(t *testing.T) {
	ts := newTestServer(t)
	body := ">a\nACGT\n>b\nACGU\n>c\nMKV\n>d\nAC#\n"

	var resp ParseResponse
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/parse", body, &resp))
	require.Len(t, resp.Records, 4)
	assert.Equal(t, alphabet.DNA, resp.Records[0].Variant)
	assert.Equal(t, alphabet.RNA, resp.Records[1].Variant)
	assert.Equal(t, alphabet.Protein, resp.Records[2].Variant)
	assert.Equal(t, alphabet.Sequence, resp.Records[3].Variant)
	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, "d", resp.Diagnostics[0].ID)
	assert.False(t, resp.Diagnostics[0].Dropped)
	assert.Equal(t, 1, resp.Counts["dna"])
}

func TestParseForced(t *testing.T) {
	ts := newTestServer(t)

	var resp ParseResponse
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/parse?force=protein", ">a\nACGT\n", &resp))
	assert.Equal(t, alphabet.Protein, resp.Records[0].Variant)

	var e errorBody
	assert.Equal(t, http.StatusUnprocessableEntity, postJSON(t, ts.URL+"/api/parse?force=dna", ">a\nACGT\n>b\nACGU\n", &e))
	assert.Contains(t, e.Error, `"b"`)

	e = errorBody{}
	assert.Equal(t, http.StatusBadRequest, postJSON(t, ts.URL+"/api/parse?force=peptide", ">a\nACGT\n", &e))
}

func TestTranslateAndTranscribe(t *testing.T) {
	ts := newTestServer(t)
	body := ">g\nCCATGAAATAGCC\n>p\nMKV\n>n\nCCCGGG\n"

	var results []OpResult
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/translate", body, &results))
	require.Len(t, results, 3)
	require.NotNil(t, results[0].Result)
	assert.Equal(t, "MK", results[0].Result.Residues)
	assert.Equal(t, alphabet.Protein, results[0].Result.Variant)
	assert.Contains(t, results[1].Error, "not a nucleotide")
	assert.Contains(t, results[2].Error, "start codon")

	results = nil
	require.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/transcribe", ">g\nATGT\n", &results))
	require.Len(t, results, 1)
	assert.Equal(t, "AUGU", results[0].Result.Residues)
	assert.Equal(t, alphabet.RNA, results[0].Result.Variant)
}

func TestBodyTooLarge(t *testing.T) {
	ts := newTestServerWith(t, func(s *server) { s.maxBody = 64 })
	body := ">big\n" + strings.Repeat("ACGT", 64) + "\n"

	for _, path := range []string{"/api/parse", "/api/translate", "/api/transcribe"} {
		var e errorBody
		assert.Equal(t, http.StatusRequestEntityTooLarge, postJSON(t, ts.URL+path, body, &e), path)
		assert.Contains(t, e.Error, "too large", path)
	}

	var resp ParseResponse
	assert.Equal(t, http.StatusOK, postJSON(t, ts.URL+"/api/parse", ">ok\nACGT\n", &resp))
}
