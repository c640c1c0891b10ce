package domain

import "errors"

// store level
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

const (
	MsgUserExists         = "user already exists"
	MsgInvalidCredentials = "invalid email or password"
	MsgNoToken            = "not authorized, no token"
	MsgTokenFailed        = "not authorized, token failed"
	MsgUserNotFound       = "user not found"
	MsgAccountRemoved     = "User Account Removed"
	MsgForbidden          = "forbidden"
	MsgInternal           = "internal server error"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	// KindCredentials and KindUnauthorized are both authentication failures:
	// the first for a rejected email/password pair, the second for a missing
	// or unusable bearer token.
	KindCredentials
	KindUnauthorized
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindCredentials:
		return "credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is the typed failure returned by services and middleware. Msg is safe
// to show to the caller; Err is kept for logs only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String() + " error"
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error   { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: KindConflict, Msg: msg} }
func Credentials() error            { return &Error{Kind: KindCredentials, Msg: MsgInvalidCredentials} }
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden() error              { return &Error{Kind: KindForbidden, Msg: MsgForbidden} }
func NotFound(msg string) error     { return &Error{Kind: KindNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the kind of err, KindInternal for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
