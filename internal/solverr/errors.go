// Package solverr defines the typed error kinds the solver raises,
// matching the propagation policy of the original system: capacity and
// not-found errors are fatal and short-circuit a worker, invalid
// assignment errors are recovered locally and never escape the builder
// or neighbor generator, and schedule-creation errors fail only the
// worker that raised them.
package solverr

import "fmt"

// Kind identifies which of the four error categories an error belongs
// to, so the CLI can map it to the right process exit code.
type Kind int

const (
	KindCapacity Kind = iota
	KindInvalidAssignment
	KindScheduleCreation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindCapacity:
		return "capacity"
	case KindInvalidAssignment:
		return "invalid_assignment"
	case KindScheduleCreation:
		return "schedule_creation"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the common shape of every solver error kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewCapacityError reports a supply/demand mismatch detected before
// search begins; fatal for the whole run.
func NewCapacityError(format string, args ...any) error {
	return &Error{Kind: KindCapacity, Msg: fmt.Sprintf(format, args...)}
}

// NewInvalidAssignmentError reports that a tentative placement violated
// a hard constraint. Callers inside the builder and neighbor generator
// treat this as ordinary feedback and must not let it escape upward.
func NewInvalidAssignmentError(format string, args ...any) error {
	return &Error{Kind: KindInvalidAssignment, Msg: fmt.Sprintf(format, args...)}
}

// NewScheduleCreationError reports that the builder exhausted every
// reset attempt for the current worker.
func NewScheduleCreationError(format string, args ...any) error {
	return &Error{Kind: KindScheduleCreation, Msg: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a referenced id missing from the domain
// model — an input bug, fatal for the run.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}

// ErrNoSolution is returned by the parallel coordinator when every
// worker failed to produce a feasible assignment.
var ErrNoSolution = &Error{Kind: KindScheduleCreation, Msg: "no worker produced a feasible solution"}
