package upstream

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds for clinic requests.
const (
	KindNetwork          = "network"
	KindIdentityMismatch = "identityMismatch"
	KindValidation       = "validation"
	KindEncoding         = "encoding"
)

// RequestError classifies a failed clinic request.
type RequestError struct {
	Kind    string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsNetwork reports whether err means the clinic gave no usable response.
func IsNetwork(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindNetwork
}

// IsIdentityMismatchErr reports whether err is the clinic rejecting a
// foreign-format key.
func IsIdentityMismatchErr(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindIdentityMismatch
}

// IsEncodingErr reports whether err is an explicit wire-encoding complaint.
func IsEncodingErr(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindEncoding
}

// mismatchSignatures are the known fragments the clinic backend emits when a
// key of the wrong shape reaches its record lookup.
// TODO: replace with a structured error code once the clinic API exposes one.
var mismatchSignatures = []string{
	"cast to objectid failed",
	"invalid objectid",
	"must be a single string of 12 bytes or a string of 24 hex characters",
}

// encodingSignatures are the fragments the clinic backend emits when it could
// not parse the request body at all.
var encodingSignatures = []string{
	"unexpected token",
	"invalid character",
	"unsupported content-type",
	"malformed request body",
}

// IsIdentityMismatch matches a clinic error message against the known
// identity-cast signatures.
func IsIdentityMismatch(message string) bool {
	return matchesAny(message, mismatchSignatures)
}

// IsEncodingComplaint matches a clinic error message against the known
// body-parse signatures.
func IsEncodingComplaint(message string) bool {
	return matchesAny(message, encodingSignatures)
}

func matchesAny(message string, signatures []string) bool {
	m := strings.ToLower(message)
	for _, s := range signatures {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

// ClassifyRejection turns a clinic success=false message into a typed error.
func ClassifyRejection(message string) *RequestError {
	switch {
	case IsIdentityMismatch(message):
		return &RequestError{Kind: KindIdentityMismatch, Message: message}
	case IsEncodingComplaint(message):
		return &RequestError{Kind: KindEncoding, Message: message}
	default:
		return &RequestError{Kind: KindValidation, Message: message}
	}
}
