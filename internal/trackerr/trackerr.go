// Package trackerr defines the closed set of error kinds reported by the
// track model, the editing engine and the simulator.
//
// Every recoverable failure is a *Error carrying a Kind. Callers switch on
// KindOf(err) or test errors.Is(err, ErrRange) and friends. KindProgramming
// marks a broken invariant: Fatalf panics with it, and only consistency
// checks return it.
package trackerr

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "trackerr")

// Kind classifies an error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValue
	KindType
	KindIndex
	KindRange
	KindOutOfBounds
	KindStructural
	KindAdjacency
	KindZeroSpeedNonzeroLength
	KindAmbiguousSegment
	KindNegativeSpeed
	KindConversion
	KindProgramming
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindValue:                  "value",
	KindType:                   "type",
	KindIndex:                  "index",
	KindRange:                  "range",
	KindOutOfBounds:            "out of bounds",
	KindStructural:             "structural",
	KindAdjacency:              "adjacency",
	KindZeroSpeedNonzeroLength: "zero speed with nonzero length",
	KindAmbiguousSegment:       "ambiguous segment",
	KindNegativeSpeed:          "negative speed",
	KindConversion:             "conversion",
	KindProgramming:            "programming",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified error. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	s := e.Msg
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind-only sentinels below, so errors.Is(err, ErrRange)
// holds for any range error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValue                  = &Error{Kind: KindValue}
	ErrType                   = &Error{Kind: KindType}
	ErrIndex                  = &Error{Kind: KindIndex}
	ErrRange                  = &Error{Kind: KindRange}
	ErrOutOfBounds            = &Error{Kind: KindOutOfBounds}
	ErrStructural             = &Error{Kind: KindStructural}
	ErrAdjacency              = &Error{Kind: KindAdjacency}
	ErrZeroSpeedNonzeroLength = &Error{Kind: KindZeroSpeedNonzeroLength}
	ErrAmbiguousSegment       = &Error{Kind: KindAmbiguousSegment}
	ErrNegativeSpeed          = &Error{Kind: KindNegativeSpeed}
	ErrConversion             = &Error{Kind: KindConversion}
	ErrProgramming            = &Error{Kind: KindProgramming}
)

// New returns a classified error with a formatted message.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind, keeping it reachable through errors.Unwrap.
func Wrap(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Recoverable reports whether the caller may retry after err. Only
// programming errors are not.
func Recoverable(err error) bool {
	return err != nil && KindOf(err) != KindProgramming
}

// Fatalf reports a broken invariant. It logs and panics with a
// KindProgramming *Error; it never returns.
func Fatalf(op, format string, args ...any) {
	e := New(KindProgramming, op, format, args...)
	log.WithField("op", op).Error(e.Msg)
	panic(e)
}
