// Package status implements the closed Status enumeration of spec.md §7:
// every runtime-core function returns one of these kinds instead of an
// exception, and ErrorHandler is invoked with the same kind for every
// non-Success client-call result.
package status

import "fmt"

// Kind is one member of the closed Status enumeration.
type Kind int

const (
	Success Kind = iota
	InitFailed
	SendFailed
	ReceiveFailed
	Closed
	ExpectedReply
	CrcCheckFailed
	BufferOverrun
	UnknownService
	UnknownFunction
	ServerError
	ProtocolError
	Cancelled
	Timeout
	MemoryError
)

var names = map[Kind]string{
	Success:         "Success",
	InitFailed:      "InitFailed",
	SendFailed:      "SendFailed",
	ReceiveFailed:   "ReceiveFailed",
	Closed:          "Closed",
	ExpectedReply:   "ExpectedReply",
	CrcCheckFailed:  "CrcCheckFailed",
	BufferOverrun:   "BufferOverrun",
	UnknownService:  "UnknownService",
	UnknownFunction: "UnknownFunction",
	ServerError:     "ServerError",
	ProtocolError:   "ProtocolError",
	Cancelled:       "Cancelled",
	Timeout:         "Timeout",
	MemoryError:     "MemoryError",
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int(k))
}

// OK reports whether k is Success.
func (k Kind) OK() bool { return k == Success }

// Status is a Kind plus an optional descriptive message, returned from
// runtime-core functions in place of an error interface so call sites
// can switch on Kind without a type assertion. Status still satisfies
// the error interface so it can be returned as one where Go idiom
// expects it (e.g. from io.Reader-adjacent helpers).
type Status struct {
	Kind Kind
	Msg  string
}

// New returns a Status, formatting Msg the way fmt.Errorf does.
func New(k Kind, format string, args ...any) Status {
	return Status{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Ok is the zero-message Success status returned on the ordinary path.
var Ok = Status{Kind: Success}

func (s Status) Error() string {
	if s.Msg == "" {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Msg)
}

// ErrorHandler is invoked with every non-Success Status a client call
// produces, immediately before the status is returned to the caller
// (spec.md §7's propagation policy).
type ErrorHandler func(Status)
