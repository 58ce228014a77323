// Package errcode defines the error codes carried in bus replies and the
// wrapper that attaches them to Go errors.
package errcode

import "errors"

// Code is a stable, bus-facing error identifier. It implements error so a
// bare code can be returned where no further context exists.
type Code string

func (c Code) Error() string { return string(c) }

const (
	OK             Code = "ok"
	Busy           Code = "busy"
	Unsupported    Code = "unsupported"
	InvalidParams  Code = "invalid_params"
	InvalidPayload Code = "invalid_payload"
	InvalidTopic   Code = "invalid_topic"
	NotReady       Code = "not_ready"

	// Encoder service.
	UnknownEncoder  Code = "unknown_encoder"
	UnknownInstance Code = "unknown_instance"
	InstanceInUse   Code = "instance_in_use"

	// Simulator store.
	StoreFailed Code = "store_failed"

	Error Code = "error"
)

// E attaches a code to an operation name, a message and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

// Error renders "op: code: msg", omitting empty parts.
func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }

// Is makes errors.Is(err, code) match on the attached code.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap returns nil for a nil err, otherwise an *E with err as cause and its
// text as message.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Msg: err.Error(), Err: err}
}

// Of returns the outermost code found in err's chain, OK for nil and Error
// when the chain carries none.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	for ; err != nil; err = errors.Unwrap(err) {
		switch x := err.(type) {
		case Code:
			return x
		case *E:
			return x.C
		}
	}
	return Error
}
