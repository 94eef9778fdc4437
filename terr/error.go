// Package terr defines the error envelope used across the store: every
// user-facing failure carries a kind symbol and a data map, never just a
// bare string.
package terr

import "fmt"

// Kind identifies the class of failure. Kinds are namespaced the way the
// source system names them (e.g. "transact/unique"), so callers can switch
// on Kind without parsing message text.
type Kind string

const (
	KindSchemaValidation Kind = "schema/validation"
	KindTransactSyntax   Kind = "transact/syntax"
	KindTransactUnique   Kind = "transact/unique"
	KindTransactUpsert   Kind = "transact/upsert"
	KindTransactCAS      Kind = "transact/cas"
	KindEntityIDSyntax   Kind = "entity-id/syntax"
	KindEntityIDMissing  Kind = "entity-id/missing"
	KindLookupRefSyntax  Kind = "lookup-ref/syntax"
	KindLookupRefUnique  Kind = "lookup-ref/unique"
)

// Error is the envelope every package in this module raises through.
type Error struct {
	Kind Kind
	Msg  string
	Data map[string]any
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with no wrapped cause.
func New(kind Kind, msg string, data map[string]any) *Error {
	return &Error{Kind: kind, Msg: msg, Data: data}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, data map[string]any, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Data: data}
}

// Wrap builds an Error that carries an underlying cause.
func Wrap(kind Kind, err error, msg string, data map[string]any) *Error {
	return &Error{Kind: kind, Msg: msg, Data: data, Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	te, ok := err.(*Error)
	return ok && te.Kind == kind
}
