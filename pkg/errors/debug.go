package errors

import (
	stdErrors "errors"
	"fmt"
)

// Trace is a log-friendly view of an error chain.
type Trace struct {
	Message string
	Code    Code
	Status  int
	Chain   []string
}

// Dump walks err's unwrap chain outermost first. Joined errors are not
// expanded.
func Dump(err error) Trace {
	if err == nil {
		return Trace{}
	}
	t := Trace{Message: err.Error(), Status: StatusOf(err)}
	if typed := As(err); typed != nil {
		t.Code = typed.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		t.Chain = append(t.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return t
}
