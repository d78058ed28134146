package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"gopkg.in/alecthomas/kingpin.v2"

	"miniseq/internal/collection"
	"miniseq/internal/config"
	"miniseq/internal/logging"
	"miniseq/internal/parser"
)

// statusResponseWriter captures status and bytes written for logging
type statusResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// loggingMiddleware logs each request with method, path, status, size and duration
func loggingMiddleware(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w}
			next.ServeHTTP(srw, r)
			if srw.status == 0 {
				srw.status = http.StatusOK
			}
			logger.Info("request",
				"remote", r.RemoteAddr,
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", srw.status,
				"bytes", srw.written,
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

func newRouter(s *server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware(s.logger))
	s.routes(r)
	return r
}

func loadStartup(cfg *config.Config, path string, logger *log.Logger) (*collection.Collection, error) {
	if path == "" {
		path = cfg.InputFasta
	}
	if path == "" {
		logger.Warn("no input_fasta configured, serving an empty collection")
		return collection.New(), nil
	}
	force, err := cfg.ForceVariant()
	if err != nil {
		return nil, err
	}
	opts := []parser.Option{parser.WithLogger(logger), parser.WithDropUnclassified(cfg.DropUnclassified)}
	if force != nil {
		opts = append(opts, parser.WithForce(*force))
	}
	return collection.Load(path, opts...)
}

func main() {
	app := kingpin.New("miniseq-web", "HTTP API over typed FASTA records.")
	configFlag := app.Flag("config", "path to config file (optional)").Short('c').String()
	addrFlag := app.Flag("addr", "HTTP listen address (overrides listen_addr)").String()
	logFile := app.Flag("log-file", "append access logs to this file").String()
	verbose := app.Flag("verbose", "enable verbose (debug) logging").Short('v').Bool()
	file := app.Arg("file", "FASTA served under /api/records (defaults to input_fasta)").String()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "miniseq-web:", err)
		os.Exit(2)
	}
	if *addrFlag != "" {
		cfg.ListenAddr = *addrFlag
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	logger, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, Verbose: *verbose, File: cfg.LogFile})
	defer func() { _ = closeLog() }()

	seqs, err := loadStartup(cfg, *file, logger)
	if err != nil {
		logger.Fatal("failed to load FASTA", "err", err)
	}
	s := &server{seqs: seqs, logger: logger, drop: cfg.DropUnclassified}

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: newRouter(s), ReadTimeout: 30 * time.Second, WriteTimeout: 60 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving", "addr", cfg.ListenAddr, "fasta", seqs.Name, "records", seqs.Len())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}
