// Package logging provides the injected status-message sink that replaces
// the source's process-wide verbose flag (see SPEC_FULL.md, Design Note
// "process-wide verbose flag in source → explicit logging sink").
package logging

import "github.com/sirupsen/logrus"

// Sink receives status messages from every component of the pipeline. It is
// configured once at program startup and passed down explicitly; nothing in
// this module reads a package-level logger.
type Sink interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// logrusSink adapts a *logrus.Logger to Sink.
type logrusSink struct {
	log *logrus.Logger
}

// NewLogrusSink builds a Sink backed by logrus, logging text-formatted lines
// to the given logger's configured output (os.Stderr by default).
func NewLogrusSink(log *logrus.Logger) Sink {
	if log == nil {
		log = logrus.New()
	}

	return &logrusSink{log: log}
}

func (s *logrusSink) Debugf(format string, args ...any) { s.log.Debugf(format, args...) }
func (s *logrusSink) Infof(format string, args ...any)  { s.log.Infof(format, args...) }
func (s *logrusSink) Warnf(format string, args ...any)  { s.log.Warnf(format, args...) }
func (s *logrusSink) Errorf(format string, args ...any) { s.log.Errorf(format, args...) }

// nopSink discards every message. Used by default and by tests.
type nopSink struct{}

func (nopSink) Debugf(string, ...any) {}
func (nopSink) Infof(string, ...any)  {}
func (nopSink) Warnf(string, ...any)  {}
func (nopSink) Errorf(string, ...any) {}

// Nop returns a silent Sink.
func Nop() Sink { return nopSink{} }
