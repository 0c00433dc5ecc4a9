package markup

import (
	"log"

	"github.com/lexcodex/docmark/source"
)

// Diagnostic is a non-fatal finding produced during extraction, such as
// ambiguous markup or a declaration without a usable location.
type Diagnostic struct {
	Loc     source.Loc
	Message string
}

// Sink receives diagnostics. Implementations must not assume any call
// ordering beyond source order within one file.
type Sink interface {
	Report(d Diagnostic)
}

// LoggerSink writes diagnostics to a standard logger.
type LoggerSink struct {
	Logger *log.Logger
}

func (s LoggerSink) Report(d Diagnostic) {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("docmark: loc %d: %s", d.Loc, d.Message)
}

func report(sink Sink, d Diagnostic) {
	if sink != nil {
		sink.Report(d)
	}
}
