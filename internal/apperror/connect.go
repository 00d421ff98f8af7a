package apperror

import (
	"errors"

	"connectrpc.com/connect"
)

// KindHeader is the response metadata key carrying the error Kind.
const KindHeader = "Error-Kind"

// Code maps a Kind to its Connect status code.
func Code(kind Kind) connect.Code {
	switch kind {
	case KindNotFound:
		return connect.CodeNotFound
	case KindNotMember, KindNotInvolved, KindNotDebtor, KindNotCreditor:
		return connect.CodePermissionDenied
	case KindInvalidStatus, KindNoOutstandingDebt:
		return connect.CodeFailedPrecondition
	case KindValidation:
		return connect.CodeInvalidArgument
	case KindOracleUnavailable:
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

// ToConnectError converts err into a Connect error whose message is the
// human-readable detail and whose Error-Kind header is the Kind. Internal
// causes are not exposed to the caller. Errors that already are Connect
// errors pass through unchanged.
func ToConnectError(err error) *connect.Error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	kind := KindOf(err)
	connectErr = connect.NewError(Code(kind), errors.New(DetailOf(err)))
	connectErr.Meta().Set(KindHeader, string(kind))
	return connectErr
}
