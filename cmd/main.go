package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/cheggaaa/pb.v1"

	"miniseq/internal/alphabet"
	"miniseq/internal/collection"
	"miniseq/internal/config"
	"miniseq/internal/fasta"
	"miniseq/internal/logging"
	"miniseq/internal/parser"
	"miniseq/internal/seq"
	"miniseq/internal/translator"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.2.0"

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// env bundles what every command needs once flags and config are merged.
type env struct {
	cfg    *config.Config
	logger *log.Logger
	force  *alphabet.Variant
	width  int
	stdout io.Writer

	unclassified int
}

func (rt *env) parserOptions() []parser.Option {
	opts := []parser.Option{
		parser.WithLogger(rt.logger),
		parser.WithDropUnclassified(rt.cfg.DropUnclassified),
		parser.WithDiagnostics(func(parser.Diagnostic) { rt.unclassified++ }),
	}
	if rt.force != nil {
		opts = append(opts, parser.WithForce(*rt.force))
	}
	return opts
}

// input resolves the FASTA path: the command argument wins over input_fasta.
func (rt *env) input(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if rt.cfg.InputFasta != "" {
		return rt.cfg.InputFasta, nil
	}
	return "", fmt.Errorf("no input FASTA given (argument or input_fasta in config)")
}

func (rt *env) openInput(arg string) (io.ReadCloser, string, error) {
	path, err := rt.input(arg)
	if err != nil {
		return nil, "", err
	}
	if path == "-" {
		return io.NopCloser(os.Stdin), path, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

func (rt *env) load(arg string) (*collection.Collection, error) {
	rc, path, err := rt.openInput(arg)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	c, err := collection.Read(rc, rt.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Name = path
	rt.logger.Info("parsed fasta", "path", path, "records", c.Len(), "unclassified", rt.unclassified)
	return c, nil
}

// destination is an output that only becomes visible once committed.
type destination interface {
	io.Writer
	Commit() error
	Abort()
}

type stdoutOutput struct{ io.Writer }

func (stdoutOutput) Commit() error { return nil }
func (stdoutOutput) Abort()        {}

// fileOutput writes to a temporary file next to path and renames it into
// place on Commit, so a failed command never leaves a partial FASTA behind.
type fileOutput struct {
	f    *os.File
	path string
}

func (o *fileOutput) Write(p []byte) (int, error) { return o.f.Write(p) }

func (o *fileOutput) Commit() error {
	if err := o.f.Close(); err != nil {
		_ = os.Remove(o.f.Name())
		return err
	}
	if err := os.Rename(o.f.Name(), o.path); err != nil {
		_ = os.Remove(o.f.Name())
		return err
	}
	return nil
}

func (o *fileOutput) Abort() {
	_ = o.f.Close()
	_ = os.Remove(o.f.Name())
}

// output opens the destination: flag, then config output, then stdout.
func (rt *env) output(flag string) (destination, string, error) {
	path := flag
	if path == "" {
		path = rt.cfg.Output
	}
	if path == "" || path == "-" {
		return stdoutOutput{rt.stdout}, "-", nil
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, "", err
	}
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, "", err
	}
	return &fileOutput{f: f, path: path}, path, nil
}

func (rt *env) writeCollection(c *collection.Collection, out string) error {
	w, path, err := rt.output(out)
	if err != nil {
		return err
	}
	if err := c.WriteTo(w, rt.width); err != nil {
		w.Abort()
		return err
	}
	if err := w.Commit(); err != nil {
		return err
	}
	rt.logger.Info("FASTA saved", "path", path, "records", c.Len())
	return nil
}

func runInfo(rt *env, file string) error {
	c, err := rt.load(file)
	if err != nil {
		return err
	}
	fmt.Fprintln(rt.stdout, headerStyle.Render("FASTA "+c.Name))
	fmt.Fprintf(rt.stdout, "%s %d\n", labelStyle.Render("  Num of sequences:"), c.Len())
	types := c.Types()
	for _, v := range alphabet.Variants {
		if n := types[v.Label()]; n > 0 {
			fmt.Fprintf(rt.stdout, "%s %d\n", labelStyle.Render("    "+v.Label()+" :"), n)
		}
	}
	fmt.Fprintf(rt.stdout, "%s %.2f\n", labelStyle.Render("  Average length:"), c.AverageLength())
	return nil
}

func runList(rt *env, file string) error {
	rc, path, err := rt.openInput(file)
	if err != nil {
		return err
	}
	defer rc.Close()
	p := parser.New(rc, rt.parserOptions()...)
	for p.Next() {
		s := p.Sequence()
		fmt.Fprintf(rt.stdout, "%s\t%s\t%d\n", s.ID(), s.Variant(), s.Len())
	}
	if err := p.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	st := p.Stats()
	rt.logger.Debug("list finished", "records", st.Records, "emitted", st.Emitted, "exhausted", st.Exhausted, "dropped", st.Dropped)
	return nil
}

// mapStream parses the input lazily and writes fn's result for every record.
// Records fn rejects are logged and skipped. The output is only committed
// once the whole input parsed.
func mapStream(rt *env, file, out, verb string, fn func(seq.Sequence) (seq.Sequence, error)) error {
	rc, path, err := rt.openInput(file)
	if err != nil {
		return err
	}
	defer rc.Close()
	w, outPath, err := rt.output(out)
	if err != nil {
		return err
	}
	fw := fasta.NewWriter(w, rt.width)

	p := parser.New(rc, rt.parserOptions()...)
	done, skipped := 0, 0
	for p.Next() {
		res, err := fn(p.Sequence())
		if err != nil {
			rt.logger.Warn("skipping record", "op", verb, "id", p.Sequence().ID(), "err", err)
			skipped++
			continue
		}
		if _, err := fw.Write(res.ID(), res.Residues()); err != nil {
			w.Abort()
			return err
		}
		done++
	}
	if err := p.Err(); err != nil {
		w.Abort()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := fw.Flush(); err != nil {
		w.Abort()
		return err
	}
	if err := w.Commit(); err != nil {
		return err
	}
	rt.logger.Info(verb+" finished", "input", path, "output", outPath, "written", done, "skipped", skipped)
	return nil
}

func runTranslate(rt *env, file, out string, progress bool) error {
	c, err := rt.load(file)
	if err != nil {
		return err
	}
	var bar *pb.ProgressBar
	if progress {
		bar = pb.New(c.Len())
		bar.Output = os.Stderr
		bar.Start()
	}
	proteins := collection.New()
	proteins.Name = c.Name + " (translated)"
	failed := 0
	for _, s := range c.All() {
		p, err := translator.Translate(s)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			rt.logger.Warn("translation failed", "id", s.ID(), "err", err)
			failed++
			continue
		}
		proteins.Add(p)
	}
	if bar != nil {
		bar.Finish()
	}
	rt.logger.Info("translation summary", "translated", proteins.Len(), "failed", failed)
	return rt.writeCollection(proteins, out)
}

func runFilter(rt *env, file, out string, ids []string, minLen, maxLen int) error {
	c, err := rt.load(file)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		c = c.FilterByID(ids...)
	}
	if minLen > 0 {
		if c, err = c.FilterByLength(minLen, collection.Above); err != nil {
			return err
		}
	}
	if maxLen > 0 {
		if c, err = c.FilterByLength(maxLen, collection.Below); err != nil {
			return err
		}
	}
	return rt.writeCollection(c, out)
}

func runSort(rt *env, file, out string, reverse bool) error {
	c, err := rt.load(file)
	if err != nil {
		return err
	}
	c.SortByLength(reverse)
	return rt.writeCollection(c, out)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func runSplit(rt *env, file, dir string) error {
	c, err := rt.load(file)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, part := range c.Split() {
		id := part.At(0).ID()
		name := fmt.Sprintf("%04d", i+1)
		if first := strings.Fields(id); len(first) > 0 {
			name += "_" + unsafeName.ReplaceAllString(first[0], "_")
		}
		path := filepath.Join(dir, name+".fasta")
		if err := part.Save(path, rt.width); err != nil {
			return err
		}
		rt.logger.Debug("wrote split file", "path", path, "id", id)
	}
	rt.logger.Info("split finished", "dir", dir, "files", c.Len())
	return nil
}

func runGrep(rt *env, file, out, pattern, sub string) error {
	if pattern == "" && sub == "" {
		return fmt.Errorf("grep needs --pattern or --sub")
	}
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		if re, err = regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}
	c, err := rt.load(file)
	if err != nil {
		return err
	}
	hits := c.FilterBy(func(s seq.Sequence) bool {
		if re != nil && !s.MustMatchPattern(re) {
			return false
		}
		return sub == "" || s.HasSubsequence(sub)
	})
	return rt.writeCollection(hits, out)
}

func main() {
	app := kingpin.New("miniseq", "Typed FASTA parsing, transcription and translation.")
	app.Version(version)

	configFlag := app.Flag("config", "path to config file (optional)").Short('c').String()
	forceFlag := app.Flag("force", "force every record to one variant instead of auto-detecting").Enum("protein", "dna", "rna", "sequence")
	verbose := app.Flag("verbose", "enable verbose (debug) logging").Short('v').Bool()
	logFile := app.Flag("log-file", "append logs to this file").String()
	dropFlag := app.Flag("drop-unclassified", "drop records no alphabet accepts instead of keeping them untyped").Bool()
	widthFlag := app.Flag("width", "residues per line in FASTA output (0 = config line_width)").Int()

	infoCmd := app.Command("info", "Print number of sequences, types and average length.")
	infoFile := infoCmd.Arg("file", "input FASTA ('-' for stdin)").String()

	listCmd := app.Command("list", "List identifier, variant and length of every record.")
	listFile := listCmd.Arg("file", "input FASTA ('-' for stdin)").String()

	translateCmd := app.Command("translate", "Translate nucleotide records to protein.")
	translateFile := translateCmd.Arg("file", "input FASTA ('-' for stdin)").String()
	translateOut := translateCmd.Flag("output", "output FASTA").Short('o').String()
	translateProgress := translateCmd.Flag("progress", "show a progress bar").Bool()

	transcribeCmd := app.Command("transcribe", "Transcribe DNA to RNA and RNA back to DNA.")
	transcribeFile := transcribeCmd.Arg("file", "input FASTA ('-' for stdin)").String()
	transcribeOut := transcribeCmd.Flag("output", "output FASTA").Short('o').String()

	revcompCmd := app.Command("revcomp", "Reverse complement nucleotide records.")
	revcompFile := revcompCmd.Arg("file", "input FASTA ('-' for stdin)").String()
	revcompOut := revcompCmd.Flag("output", "output FASTA").Short('o').String()

	filterCmd := app.Command("filter", "Keep records by identifier and/or length.")
	filterFile := filterCmd.Arg("file", "input FASTA ('-' for stdin)").String()
	filterOut := filterCmd.Flag("output", "output FASTA").Short('o').String()
	filterIDs := filterCmd.Flag("id", "identifier to keep (repeatable)").Strings()
	filterMin := filterCmd.Flag("min", "keep records at least this long").Int()
	filterMax := filterCmd.Flag("max", "keep records at most this long").Int()

	sortCmd := app.Command("sort", "Sort records by length.")
	sortFile := sortCmd.Arg("file", "input FASTA ('-' for stdin)").String()
	sortOut := sortCmd.Flag("output", "output FASTA").Short('o').String()
	sortReverse := sortCmd.Flag("reverse", "longest first").Short('r').Bool()

	splitCmd := app.Command("split", "Write every record to its own FASTA file.")
	splitFile := splitCmd.Arg("file", "input FASTA ('-' for stdin)").String()
	splitDir := splitCmd.Flag("dir", "output directory").Required().String()

	grepCmd := app.Command("grep", "Keep records whose residues match a pattern or contain a subsequence.")
	grepFile := grepCmd.Arg("file", "input FASTA ('-' for stdin)").String()
	grepOut := grepCmd.Flag("output", "output FASTA").Short('o').String()
	grepPattern := grepCmd.Flag("pattern", "regular expression searched in the residues").String()
	grepSub := grepCmd.Flag("sub", "subsequence the residues must contain").String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "miniseq:", err)
		os.Exit(2)
	}

	// merge CLI flags into config (flags override config when provided)
	if *forceFlag != "" {
		cfg.Force = *forceFlag
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *dropFlag {
		cfg.DropUnclassified = true
	}
	if *widthFlag > 0 {
		cfg.LineWidth = *widthFlag
	}

	logger, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: *verbose, File: cfg.LogFile})
	defer func() { _ = closeLog() }()
	logger.Debug("loaded config", "input_fasta", cfg.InputFasta, "output", cfg.Output, "log_file", cfg.LogFile, "log_level", cfg.LogLevel, "force", cfg.Force, "line_width", cfg.LineWidth, "drop_unclassified", cfg.DropUnclassified)

	force, err := cfg.ForceVariant()
	if err != nil {
		logger.Fatal("invalid force", "err", err)
	}
	rt := &env{cfg: cfg, logger: logger, force: force, width: cfg.LineWidth, stdout: os.Stdout}

	switch command {
	case infoCmd.FullCommand():
		err = runInfo(rt, *infoFile)
	case listCmd.FullCommand():
		err = runList(rt, *listFile)
	case translateCmd.FullCommand():
		err = runTranslate(rt, *translateFile, *translateOut, *translateProgress)
	case transcribeCmd.FullCommand():
		err = mapStream(rt, *transcribeFile, *transcribeOut, "transcribe", translator.Transcribe)
	case revcompCmd.FullCommand():
		err = mapStream(rt, *revcompFile, *revcompOut, "revcomp", translator.ReverseComplement)
	case filterCmd.FullCommand():
		err = runFilter(rt, *filterFile, *filterOut, *filterIDs, *filterMin, *filterMax)
	case sortCmd.FullCommand():
		err = runSort(rt, *sortFile, *sortOut, *sortReverse)
	case splitCmd.FullCommand():
		err = runSplit(rt, *splitFile, *splitDir)
	case grepCmd.FullCommand():
		err = runGrep(rt, *grepFile, *grepOut, *grepPattern, *grepSub)
	}
	if err != nil {
		logger.Fatal("command failed", "command", command, "err", err)
	}
}
