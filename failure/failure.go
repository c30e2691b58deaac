package failure

import (
	"errors"
	"fmt"
)

// Kind is the classification of a single attempt's outcome.
type Kind int

const (
	// KindNone is the zero value; it is never attached to a real error.
	KindNone Kind = iota
	// KindNonRetryable marks invalid arguments, auth errors, 4xx client
	// errors (excluding 408) and explicit policy vetoes. Never retried;
	// does not count against breaker failure rate.
	KindNonRetryable
	// KindRetryable marks transient transport errors, 5xx, 408, NO_INSTANCE,
	// and generic connection/read errors. Counts against the breaker.
	KindRetryable
	// KindTimeout marks a per-attempt latency budget overrun. Retryable;
	// counted as a timeout event by the breaker.
	KindTimeout
	// KindShortCircuited marks a submission rejected because the breaker
	// was open.
	KindShortCircuited
	// KindPoolRejected marks a submission rejected because the bulkhead
	// was at capacity.
	KindPoolRejected
	// KindCancelled marks outer cancellation of the future/stream form.
	KindCancelled
	// KindInvalidDescriptor marks a builder validation failure.
	KindInvalidDescriptor
)

func (k Kind) String() string {
	switch k {
	case KindNonRetryable:
		return "non_retryable"
	case KindRetryable:
		return "retryable"
	case KindTimeout:
		return "timeout"
	case KindShortCircuited:
		return "short_circuited"
	case KindPoolRejected:
		return "pool_rejected"
	case KindCancelled:
		return "cancelled"
	case KindInvalidDescriptor:
		return "invalid_descriptor"
	default:
		return "none"
	}
}

// CountsAgainstBreaker reports whether an outcome of this kind should be
// folded into the breaker's rolling error-rate statistics.
func (k Kind) CountsAgainstBreaker() bool {
	return k == KindRetryable || k == KindTimeout
}

// Error wraps a cause with its classified Kind. errors.Is/As work against
// both the Kind sentinels below and the wrapped cause.
type Error struct {
	Kind  Kind
	Cause error
}

func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Cause.Error())
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, failure.Retryable) work by comparing against
// the sentinel Kind markers below.
func (e *Error) Is(target error) bool {
	k, ok := target.(kindSentinel)
	return ok && k.kind == e.Kind
}

type kindSentinel struct{ kind Kind }

func (kindSentinel) Error() string { return "" }

// Sentinel values usable with errors.Is(err, failure.NonRetryable) etc.
var (
	NonRetryable      error = kindSentinel{KindNonRetryable}
	Retryable         error = kindSentinel{KindRetryable}
	Timeout           error = kindSentinel{KindTimeout}
	ShortCircuited    error = kindSentinel{KindShortCircuited}
	PoolRejected      error = kindSentinel{KindPoolRejected}
	Cancelled         error = kindSentinel{KindCancelled}
	InvalidDescriptor error = kindSentinel{KindInvalidDescriptor}
)

// OfKind returns the Kind carried by err, if any, and whether one was
// found. It recognizes both *Error (a classified cause) and a bare
// sentinel such as failure.Retryable returned directly by a callback.
func OfKind(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	var ks kindSentinel
	if errors.As(err, &ks) {
		return ks.kind, true
	}
	return KindNone, false
}

// Classifier maps a raw error to a Kind. This is the composed form
// consulted by the retry driver and the engine — a single (Kind, bool)
// collapsed into a plain Kind, since by the time a caller holds a
// Classifier the fallback-to-Retryable decision has already been made.
type Classifier func(err error) Kind

// Rule is one entry in a ClassificationTable: it reports whether it
// recognizes err and, if so, which Kind it maps to. Rules are consulted
// most-specific-first; a rule that does not recognize err returns
// ok=false so the table can fall through to the next rule.
type Rule func(err error) (kind Kind, ok bool)

// ClassificationTable is an ordered list of Rules, consulted
// most-specific-first. An error that already carries a Kind (an *Error or
// a bare sentinel) keeps that Kind without consulting the rules; an error
// that no rule matches is Retryable.
type ClassificationTable struct {
	rules []Rule
}

// NewClassificationTable builds a table from the given rules, evaluated
// in the order given (most specific first).
func NewClassificationTable(rules ...Rule) *ClassificationTable {
	return &ClassificationTable{rules: rules}
}

// Classify runs err through the table, falling back to the default rule.
func (t *ClassificationTable) Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if kind, ok := OfKind(err); ok && kind != KindNone {
		return kind
	}
	if t != nil {
		for _, rule := range t.rules {
			if kind, ok := rule(err); ok {
				return kind
			}
		}
	}
	return KindRetryable
}

// DefaultTable is the classification table used when a Command does not
// supply its own: {NonRetryable: false, *: true}.
func DefaultTable() *ClassificationTable {
	return NewClassificationTable()
}
