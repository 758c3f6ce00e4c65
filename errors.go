package datrie

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/hupe1980/datrie/internal/builder"
	"github.com/hupe1980/datrie/internal/hash"
	"github.com/hupe1980/datrie/internal/keyset"
	"github.com/hupe1980/datrie/internal/resource"
	"github.com/hupe1980/datrie/persistence"
)

// Kind classifies an Error.
type Kind uint8

const (
	// KindValue marks invalid arguments. Nothing was modified.
	KindValue Kind = iota + 1
	// KindIO marks file or object store failures.
	KindIO
	// KindBuild marks builds that could not complete. A previously held
	// array is kept.
	KindBuild
	// KindCorrupted marks data that is not a valid unit array.
	KindCorrupted
)

var (
	// ErrValue matches every KindValue error with errors.Is.
	ErrValue = errors.New("value error")
	// ErrIO matches every KindIO error with errors.Is.
	ErrIO = errors.New("io error")
	// ErrBuild matches every KindBuild error with errors.Is.
	ErrBuild = errors.New("build error")
	// ErrCorrupted matches every KindCorrupted error with errors.Is.
	ErrCorrupted = errors.New("corrupted data")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValue:
		return ErrValue
	case KindIO:
		return ErrIO
	case KindBuild:
		return ErrBuild
	case KindCorrupted:
		return ErrCorrupted
	default:
		return nil
	}
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is the error type returned by Trie methods.
//
// The underlying error is reachable through errors.Is and errors.As, so a
// missing file still satisfies errors.Is(err, fs.ErrNotExist).
type Error struct {
	Kind Kind
	Msg  string

	contexts []string
	cause    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if len(e.contexts) > 0 {
		sb.WriteString("\nExtra information:")
		for i := len(e.contexts) - 1; i >= 0; i-- {
			sb.WriteString("\n  ")
			sb.WriteString(e.contexts[i])
		}
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// Contexts returns the context lines, outermost first.
func (e *Error) Contexts() []string {
	out := make([]string, len(e.contexts))
	for i, c := range e.contexts {
		out[len(e.contexts)-1-i] = c
	}
	return out
}

func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Msg: cause.Error(), cause: cause}
}

// WithContext attaches msg to err. Errors that are not *Error are wrapped
// as KindIO first. A nil err stays nil.
func WithContext(err error, msg string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: KindIO, Msg: err.Error(), contexts: []string{msg}, cause: err}
	}
	clone := *e
	clone.contexts = append(append([]string(nil), e.contexts...), msg)
	return &clone
}

// translateError maps errors from internal packages to a Kind. Errors that
// match no known sentinel get fallback.
func translateError(err error, fallback Kind) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	switch {
	case errors.Is(err, ErrEmptyTrie),
		errors.Is(err, ErrInvalidPath),
		errors.Is(err, keyset.ErrEmptyKeys),
		errors.Is(err, keyset.ErrLengthMismatch),
		errors.Is(err, keyset.ErrNullByte),
		errors.Is(err, persistence.ErrInvalidOffset),
		errors.Is(err, persistence.ErrInvalidSize),
		errors.Is(err, persistence.ErrUnknownDumpMode):
		return newError(KindValue, err)

	case errors.Is(err, builder.ErrNegativeValue),
		errors.Is(err, builder.ErrUnsorted),
		errors.Is(err, builder.ErrOffsetOverflow),
		errors.Is(err, builder.ErrTooManyUnits):
		return newError(KindBuild, err)

	case errors.Is(err, persistence.ErrMisaligned),
		errors.Is(err, persistence.ErrTruncated),
		errors.Is(err, persistence.ErrBadRoot),
		errors.Is(err, persistence.ErrInvalidMagic),
		errors.Is(err, persistence.ErrInvalidVersion),
		errors.Is(err, persistence.ErrUnknownCompression),
		errors.Is(err, persistence.ErrCorruptPayload),
		errors.Is(err, hash.ErrChecksumMismatch):
		return newError(KindCorrupted, err)

	case errors.Is(err, resource.ErrMemoryLimitExceeded):
		if fallback == KindBuild {
			return newError(KindBuild, err)
		}
		return newError(KindIO, err)

	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return newError(KindIO, err)
	}

	var pe *fs.PathError
	if errors.As(err, &pe) {
		return newError(KindIO, err)
	}
	return newError(fallback, err)
}
