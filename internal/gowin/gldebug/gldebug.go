// Package gldebug routes the driver's KHR_debug output stream into slog and,
// optionally, a human-readable report on a writer.
package gldebug

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/tinyrange/glbatch/internal/gowin/gl"
)

// ErrUnsupported is returned by Enable when the driver does not expose the
// KHR_debug entry points.
var ErrUnsupported = errors.New("gldebug: GL_KHR_debug not supported by driver")

const enabledMarker = "OpenGL debug messages enabled"

// Message is one entry of the debug output stream.
type Message struct {
	Source   uint32
	Type     uint32
	ID       uint32
	Severity uint32
	Text     string
}

// LogValue implements slog.LogValuer.
func (m Message) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", SourceName(m.Source)),
		slog.String("type", TypeName(m.Type)),
		slog.String("severity", SeverityName(m.Severity)),
		slog.Uint64("id", uint64(m.ID)),
	)
}

// Sink receives debug messages. The zero value is not usable; call New.
type Sink struct {
	logger *slog.Logger

	mu      sync.Mutex
	w       io.Writer
	profile termenv.Profile

	received atomic.Uint64
}

// New returns a sink logging to logger (slog.Default() when nil) and, when w
// is non-nil, writing a report block per message to w. The report is
// colored by severity when w is a terminal.
func New(logger *slog.Logger, w io.Writer) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{
		logger:  logger,
		w:       w,
		profile: profileFor(w),
	}
}

func profileFor(w io.Writer) termenv.Profile {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// Enable turns on synchronous debug output for the current context, installs
// the sink as the callback and inserts a marker message.
func (s *Sink) Enable(dev gl.OpenGL) error {
	if !dev.SupportsDebugOutput() {
		return ErrUnsupported
	}

	dev.Enable(gl.DebugOutput)
	dev.Enable(gl.DebugOutputSynchronous)
	dev.DebugMessageCallback(s.Handle)

	s.logger.Info(enabledMarker)

	dev.DebugMessageInsert(
		gl.DebugSourceApplication,
		gl.DebugTypeMarker,
		1,
		gl.DebugSeverityNotification,
		enabledMarker,
	)
	return nil
}

// Handle processes one message. It matches gl.DebugProc.
func (s *Sink) Handle(source, xtype, id, severity uint32, message string) {
	m := Message{Source: source, Type: xtype, ID: id, Severity: severity, Text: message}
	s.received.Add(1)

	s.logger.Log(context.Background(), Level(severity), "OpenGL debug message",
		slog.String("message", message),
		slog.Any("gl", m),
	)

	if s.w == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.w, s.format(m))
}

// Received returns the number of messages handled so far.
func (s *Sink) Received() uint64 { return s.received.Load() }

func (s *Sink) format(m Message) string {
	header := s.profile.String("[OpenGL Debug]:").Bold()
	if c := severityColor(m.Severity); c != nil {
		header = header.Foreground(c)
	}
	return header.String() + "\n" + Format(m)
}

// Format renders the body of a report block, one "  - Key : value" line per
// field.
func Format(m Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  - Source   : %s (0x%04X)\n", SourceName(m.Source), m.Source)
	fmt.Fprintf(&b, "  - Type     : %s (0x%04X)\n", TypeName(m.Type), m.Type)
	fmt.Fprintf(&b, "  - Severity : %s (0x%04X)\n", SeverityName(m.Severity), m.Severity)
	fmt.Fprintf(&b, "  - ID       : %d (0x%04X)\n", m.ID, m.ID)
	fmt.Fprintf(&b, "  - Message  : %s\n", m.Text)
	return b.String()
}

func severityColor(severity uint32) termenv.Color {
	switch severity {
	case gl.DebugSeverityHigh:
		return termenv.ANSIBrightRed
	case gl.DebugSeverityMedium:
		return termenv.ANSIYellow
	case gl.DebugSeverityLow:
		return termenv.ANSICyan
	case gl.DebugSeverityNotification:
		return termenv.ANSIBrightBlack
	}
	return nil
}

// Level maps a debug severity to the slog level it is logged at.
func Level(severity uint32) slog.Level {
	switch severity {
	case gl.DebugSeverityHigh:
		return slog.LevelError
	case gl.DebugSeverityMedium:
		return slog.LevelWarn
	case gl.DebugSeverityLow:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func SourceName(source uint32) string {
	switch source {
	case gl.DebugSourceAPI:
		return "API"
	case gl.DebugSourceWindowSystem:
		return "WINDOW_SYSTEM"
	case gl.DebugSourceShaderCompiler:
		return "SHADER_COMPILER"
	case gl.DebugSourceThirdParty:
		return "THIRD_PARTY"
	case gl.DebugSourceApplication:
		return "APPLICATION"
	case gl.DebugSourceOther:
		return "OTHER"
	}
	return "Unknown"
}

func TypeName(xtype uint32) string {
	switch xtype {
	case gl.DebugTypeError:
		return "ERROR"
	case gl.DebugTypeDeprecatedBehavior:
		return "DEPRECATED_BEHAVIOR"
	case gl.DebugTypeUndefinedBehavior:
		return "UNDEFINED_BEHAVIOR"
	case gl.DebugTypePortability:
		return "PORTABILITY"
	case gl.DebugTypePerformance:
		return "PERFORMANCE"
	case gl.DebugTypeMarker:
		return "MARKER"
	case gl.DebugTypePushGroup:
		return "PUSH_GROUP"
	case gl.DebugTypePopGroup:
		return "POP_GROUP"
	case gl.DebugTypeOther:
		return "OTHER"
	}
	return "Unknown"
}

func SeverityName(severity uint32) string {
	switch severity {
	case gl.DebugSeverityHigh:
		return "HIGH"
	case gl.DebugSeverityMedium:
		return "MEDIUM"
	case gl.DebugSeverityLow:
		return "LOW"
	case gl.DebugSeverityNotification:
		return "NOTIFICATION"
	}
	return "Unknown"
}
