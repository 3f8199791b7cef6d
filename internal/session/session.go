// Package session provides the explicit, constructor-injected diagnostic
// object threaded through an LR build: a progress logger, a conflict
// budget, and a coarse timing span. The teacher lineage's predecessor
// tool (the 9gram log package) kept this as package-level, process-wide
// state opened once in main and fetched from a global; a construction
// core that can be embedded in a library or exercised by tests has no
// such main to open it in, so the same behavior is carried here as a
// value the caller owns and passes in, rather than as ambient state.
package session

import (
	"fmt"
	"io"
	"os"
	"time"
)

const defaultProgressEvery = 5000

// Session carries the diagnostic surface for a single LR build: where
// progress lines go, how often they're emitted, and an optional early-stop
// threshold on accumulated conflicts.
type Session struct {
	out           io.Writer
	progressEvery int
	conflictLimit int
	hasLimit      bool
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithWriter redirects diagnostic output away from the default of
// os.Stderr, e.g. to a file opened by the CLI for a single run.
func WithWriter(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithProgressEvery overrides the default cadence (every 5000 completed
// states) at which Progress emits a line.
func WithProgressEvery(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.progressEvery = n
		}
	}
}

// WithConflictBudget sets the number of accumulated conflicts past which
// ConflictBudgetExceeded reports true. Without this option,
// ConflictBudgetExceeded never reports true. The lr builders do not
// consult this budget; their early stop is set by lr.WithConflictBudget.
func WithConflictBudget(n int) Option {
	return func(s *Session) {
		s.hasLimit = true
		s.conflictLimit = n
	}
}

// New constructs a Session ready to be threaded into lr.BuildLR0States or
// lr.BuildLR1States via lr.WithSession.
func New(opts ...Option) *Session {
	s := &Session{
		out:           os.Stderr,
		progressEvery: defaultProgressEvery,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Progress logs a line every ProgressEvery completed states; count is the
// number of states built so far. Calls for counts that don't land on the
// cadence are no-ops.
func (s *Session) Progress(count int) {
	if s == nil || s.out == nil {
		return
	}
	if count == 0 || count%s.progressEvery != 0 {
		return
	}
	fmt.Fprintf(s.out, "lrtab: %d states built\n", count)
}

// Log writes a single diagnostic line, independent of the progress
// cadence. It is used for one-off notices such as an early conflict-budget
// stop.
func (s *Session) Log(format string, args ...interface{}) {
	if s == nil || s.out == nil {
		return
	}
	fmt.Fprintf(s.out, format+"\n", args...)
}

// ConflictBudgetExceeded reports whether count, the number of conflicts
// accumulated so far, has crossed the configured budget. A Session with
// no budget configured never reports true.
func (s *Session) ConflictBudgetExceeded(count int) bool {
	if s == nil || !s.hasLimit {
		return false
	}
	return count > s.conflictLimit
}

// Span brackets a coarse timing measurement around the top-level
// construction; it never affects build semantics.
type Span struct {
	s     *Session
	label string
	start time.Time
}

// StartSpan begins timing label; call End on the result when the bracketed
// work finishes.
func (s *Session) StartSpan(label string) *Span {
	return &Span{s: s, label: label, start: time.Now()}
}

// End logs the elapsed wall time since StartSpan, if a Session is present.
func (sp *Span) End() {
	if sp == nil || sp.s == nil {
		return
	}
	sp.s.Log("lrtab: %s took %s", sp.label, time.Since(sp.start))
}
