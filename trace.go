package bitcompactor

import (
	"log"
	"os"
)

// Verbosity levels mirror the reference logger's Verbosity enum: NONE, LOW,
// MEDIUM, HIGH.
const (
	VerbosityNone = iota
	VerbosityLow
	VerbosityMedium
	VerbosityHigh
)

// TraceSink receives diagnostic messages from Encoder and Decoder. Info
// calls are gated by verbosity: a sink should suppress a message whose
// verbosity exceeds the level it was configured with.
type TraceSink interface {
	Info(source, message string, verbosity int)
	Error(source, message string)
}

// stdTraceSink is the default TraceSink, backed by the standard logger the
// way the teacher's cmd/ tools log: no structured logging dependency, just
// log.Logger to stderr.
type stdTraceSink struct {
	logger *log.Logger
	level  int
}

// NewStdTraceSink returns a TraceSink that writes to stderr, suppressing
// Info messages whose verbosity exceeds level.
func NewStdTraceSink(level int) TraceSink {
	return &stdTraceSink{logger: log.New(os.Stderr, "bitcompactor: ", 0), level: level}
}

func (s *stdTraceSink) Info(source, message string, verbosity int) {
	if verbosity > s.level {
		return
	}
	s.logger.Printf("%s: %s", source, message)
}

func (s *stdTraceSink) Error(source, message string) {
	s.logger.Printf("%s: error: %s", source, message)
}

type noopTraceSink struct{}

func (noopTraceSink) Info(source, message string, verbosity int) {}
func (noopTraceSink) Error(source, message string)               {}
