package statement

import (
	"context"
	"errors"
	"fmt"

	"github.com/storacha/go-scitt/core/failure"
	"github.com/storacha/go-scitt/identity"
	"github.com/storacha/go-scitt/principal"
)

// Kind categorises why building a statement failed.
type Kind string

const (
	KindMalformedIdentity   Kind = "MalformedIdentity"
	KindIdentityUnavailable Kind = "IdentityUnavailable"
	KindEncodingFailure     Kind = "EncodingFailure"
	KindSigningUnavailable  Kind = "SigningUnavailable"
	KindSigningRejected     Kind = "SigningRejected"
	KindSigningFailure      Kind = "SigningFailure"
)

// Stage is the step of statement creation that failed.
type Stage string

const (
	StageIdentity   Stage = "identity"
	StageDigest     Stage = "digest"
	StageHeaders    Stage = "headers"
	StageToBeSigned Stage = "to-be-signed"
	StageSign       Stage = "sign"
	StageSerialize  Stage = "serialize"
)

// Error is returned by every operation in this package that builds or signs
// a statement. Use [errors.As] to inspect the kind and stage; the cause is
// available through [errors.Unwrap], so errors such as
// [principal.ErrSigningUnavailable] still match with [errors.Is].
type Error struct {
	Kind  Kind
	Stage Stage
	Cause error
	stack failure.NamedWithStackTrace
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Stage, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Name() string {
	return string(e.Kind)
}

func (e *Error) Stack() string {
	if e.stack == nil {
		return ""
	}
	return e.stack.Stack()
}

var _ failure.Failure = (*Error)(nil)
var _ failure.WithStackTrace = (*Error)(nil)

func newError(kind Kind, stage Stage, cause error) *Error {
	return &Error{
		Kind:  kind,
		Stage: stage,
		Cause: cause,
		stack: failure.NamedWithCurrentStackTrace(string(kind)),
	}
}

// KindOf returns the kind of a statement error, or the empty kind if err is
// not one.
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return ""
}

func signingError(err error) *Error {
	switch {
	case errors.Is(err, principal.ErrSigningRejected):
		return newError(KindSigningRejected, StageSign, err)
	case errors.Is(err, principal.ErrSigningUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return newError(KindSigningUnavailable, StageSign, err)
	default:
		return newError(KindSigningFailure, StageSign, err)
	}
}

func identityError(err error) *Error {
	switch {
	case errors.Is(err, identity.ErrMalformed):
		return newError(KindMalformedIdentity, StageIdentity, err)
	case errors.Is(err, principal.ErrSigningRejected):
		return newError(KindSigningRejected, StageIdentity, err)
	case errors.Is(err, principal.ErrSigningUnavailable):
		return newError(KindSigningUnavailable, StageIdentity, err)
	default:
		return newError(KindIdentityUnavailable, StageIdentity, err)
	}
}
