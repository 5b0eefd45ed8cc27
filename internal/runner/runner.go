package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jacoelho/jdoc/document"
	"github.com/jacoelho/jdoc/internal/config"
	"github.com/jacoelho/jdoc/internal/exit"
	"github.com/jacoelho/jdoc/internal/formatter"
	"github.com/jacoelho/jdoc/internal/ratelimit"
)

// maxLineSize bounds a single document in line mode.
const maxLineSize = 16 * 1024 * 1024

// Runner executes one jdoc command over the configured input.
type Runner struct {
	config    *config.Config
	limiter   *ratelimit.Limiter
	formatter formatter.Formatter
	log       *logrus.Logger
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
}

// New creates a runner for a validated configuration.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	f, err := formatter.New(cfg.OutputFormat)
	if err != nil {
		return nil, exit.Errorf("Error: %v\n", err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	return &Runner{
		config:    cfg,
		limiter:   ratelimit.New(cfg.RateLimit),
		formatter: f,
		log:       log,
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

// SetInput replaces standard input as the source used when the file is "-".
func (r *Runner) SetInput(rd io.Reader) {
	r.input = rd
}

// SetOutput replaces standard output as the destination of rendered results.
func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

// SetErrorOutput redirects error messages and debug logs.
func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
	r.log.SetOutput(r.errorWriter())
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

// Run returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	in, closeInput, err := r.openInput()
	if err != nil {
		r.logf("Error: %v\n", err)
		return exit.CodeError
	}
	defer closeInput()

	if r.config.Lines {
		return r.runLines(ctx, in)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		r.logf("Error: failed to read input: %v\n", err)
		return exit.CodeError
	}

	return r.runDocument(0, data)
}

func (r *Runner) runLines(ctx context.Context, in io.Reader) int {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	index := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			r.logf("Interrupted after %d documents\n", index)
			return exit.CodeError
		}

		if code := r.runDocument(index, line); code != exit.CodeSuccess {
			return code
		}
		index++
	}

	if err := scanner.Err(); err != nil {
		r.logf("Error: failed to read input: %v\n", err)
		return exit.CodeError
	}

	r.log.WithFields(logrus.Fields{
		"documents":  index,
		"rate_limit": r.limiter.Limit(),
	}).Debug("line mode finished")

	return exit.CodeSuccess
}

func (r *Runner) runDocument(index int, data []byte) int {
	r.log.WithFields(logrus.Fields{
		"document": index + 1,
		"bytes":    len(data),
	}).Debug("decoding document")

	doc, err := r.decode(data)
	if err != nil {
		r.logf("Error: document %d: %v\n", index+1, err)
		return exit.CodeError
	}

	out, err := r.execute(doc)
	if err != nil {
		r.logf("Error: %v\n", err)
		return exitCode(err)
	}

	if index > 0 && r.config.OutputFormat == config.FormatYAML {
		out = append([]byte("---\n"), out...)
	}

	if _, err := r.payloadWriter().Write(out); err != nil {
		r.logf("Error: failed to write output: %v\n", err)
		return exit.CodeError
	}

	return exit.CodeSuccess
}

func (r *Runner) openInput() (io.Reader, func(), error) {
	if r.config.File == config.StdinFile {
		return r.input, func() {}, nil
	}

	f, err := os.Open(r.config.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document file: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}

func (r *Runner) decode(data []byte) (*document.Document, error) {
	if r.config.InputFormat == config.FormatYAML {
		return document.DecodeYAML(data)
	}
	return document.Decode(string(data))
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, document.ErrKeyNotFound):
		return exit.CodeKeyNotFound
	case errors.Is(err, document.ErrConversion):
		return exit.CodeConversionError
	default:
		return exit.CodeError
	}
}
