// Package session is the entry point used by the front ends. It runs
// source text and returns what the program printed, line by line.
package session

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	qerrors "github.com/btouchard/qlang/internal/qlang/errors"
	"github.com/btouchard/qlang/internal/qlang/interpreter"
	"github.com/btouchard/qlang/internal/qlang/runtime"
	"github.com/btouchard/qlang/internal/qlang/utils"

	"github.com/btouchard/qlang/internal/journal"
)

// Recorder keeps a trace of every evaluation. *journal.Journal is one.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Result is the outcome of one evaluation. Stdout holds the lines printed
// by ecrire, then the final value when it is not rien. Stderr holds the
// rendering of the error that stopped the program, if any.
type Result struct {
	Value  runtime.Value
	Stdout []string
	Stderr []string
	Err    error
}

func (r Result) Failed() bool { return r.Err != nil }

type Option func(*Session)

func WithInput(in interpreter.Input) Option {
	return func(s *Session) { s.input = in }
}

// WithOutput copies what ecrire prints to w as soon as it is printed.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.tee = w }
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMaxCallDepth(n int) Option {
	return func(s *Session) { s.maxCallDepth = n }
}

// Session evaluates successive sources against one global scope, so a
// declaration made by one Eval is visible to the next.
type Session struct {
	id           string
	interp       *interpreter.Interpreter
	out          bytes.Buffer
	tee          io.Writer
	input        interpreter.Input
	recorder     Recorder
	logger       *slog.Logger
	maxCallDepth int
}

func New(opts ...Option) *Session {
	s := &Session{
		id:     journal.NewID(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	var out io.Writer = &s.out
	if s.tee != nil {
		out = io.MultiWriter(&s.out, s.tee)
	}

	iopts := []interpreter.Option{interpreter.WithLogger(s.logger)}
	if s.input != nil {
		iopts = append(iopts, interpreter.WithInput(s.input))
	}
	if s.maxCallDepth > 0 {
		iopts = append(iopts, interpreter.WithMaxCallDepth(s.maxCallDepth))
	}
	s.interp = interpreter.New(out, iopts...)
	return s
}

// Run evaluates source in a fresh session.
func Run(source string, opts ...Option) Result {
	return New(opts...).Eval(context.Background(), source)
}

// ID identifies the session in the journal.
func (s *Session) ID() string { return s.id }

// Eval runs source. Evaluation stops at the first error.
func (s *Session) Eval(ctx context.Context, source string) Result {
	s.out.Reset()

	v, err := s.interp.Run(source)
	res := Result{Value: v, Stdout: utils.SplitLines(s.out.String()), Err: err}
	if err != nil {
		res.Value = nil
		res.Stderr = utils.SplitLines(qerrors.Render(err, source))
	} else if v != nil && v.Kind() != runtime.KindNull {
		res.Stdout = append(res.Stdout, strings.Split(runtime.Display(v), "\n")...)
	}

	s.record(ctx, source, res)
	return res
}

// record never fails the evaluation; journal errors are only logged.
func (s *Session) record(ctx context.Context, source string, res Result) {
	if s.recorder == nil {
		return
	}

	entry := journal.Entry{
		SessionID: s.id,
		Source:    source,
		Stdout:    strings.Join(res.Stdout, "\n"),
		Stderr:    strings.Join(res.Stderr, "\n"),
		Failed:    res.Failed(),
	}
	if err := s.recorder.Record(ctx, entry); err != nil {
		s.logger.Warn("journal record failed",
			slog.String("session", s.id),
			slog.Any("error", err))
	}
}
