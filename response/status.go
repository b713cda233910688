package response

import "fmt"

// Custom status values carried in every envelope
const (
	StatusFailed  = "FAILED"
	StatusDenied  = "DENIED" // reserved for when authentication is added
	StatusSuccess = "SUCCESS"
)

// Reference codes quoted back to the caller so support can locate a failure
// without the response leaking its cause.
const (
	CodeJWTDenied            = "444-PS-DJWT"
	CodeInternalServerError  = "444-PS-INT"
	CodeMasking              = "444-PS-MSK"
	CodeBadRequest           = "444-PS-DBR"
	CodeUnsupportedMediaType = "444-PS-UNSM"
)

// Kind classifies a client-facing failure
type Kind int

const (
	KindInternalServerError Kind = iota
	KindUnsupportedMediaType
	KindBadClientData
	KindTimeout
	KindInput
	KindJwtAccessToken
	KindForMasking
)

// UserError is the closed set of messages a client may see. Reason is only
// used by KindInput.
type UserError struct {
	Kind   Kind
	Reason string
}

// InputError builds a KindInput error carrying a user-facing reason
func InputError(reason string) UserError {
	return UserError{Kind: KindInput, Reason: reason}
}

var (
	InternalServerError  = UserError{Kind: KindInternalServerError}
	UnsupportedMediaType = UserError{Kind: KindUnsupportedMediaType}
	BadClientData        = UserError{Kind: KindBadClientData}
	Timeout              = UserError{Kind: KindTimeout}
	JwtAccessTokenError  = UserError{Kind: KindJwtAccessToken}
	ForMaskingError      = UserError{Kind: KindForMasking}
)

func (e UserError) Error() string {
	switch e.Kind {
	case KindInternalServerError:
		return "Please try again later REFERENCE CODE: " + CodeInternalServerError
	case KindUnsupportedMediaType:
		return "Unsupported media content REFERENCE CODE: " + CodeUnsupportedMediaType
	case KindBadClientData:
		return "Bad request REFERENCE CODE: " + CodeBadRequest
	case KindTimeout:
		return "timeout"
	case KindInput:
		return "Input error for reference check: " + e.Reason
	case KindJwtAccessToken:
		return "Access Denied, reference code: " + CodeJWTDenied
	case KindForMasking:
		return "Process terminated, REFERENCE CODE: " + CodeMasking
	default:
		return fmt.Sprintf("unknown error kind %d", e.Kind)
	}
}
