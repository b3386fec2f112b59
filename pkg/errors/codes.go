package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// The prefix before the first underscore names the module that owns it.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeRateLimited        ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeStorageError       ErrorCode = "COMMON_014"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// MOL2 parsing error codes.  Every one of them aborts the parse; no partial
// molecule is ever returned alongside them.
const (
	ErrCodeMalformedNumericField ErrorCode = "MOL2_001"
	ErrCodeUnknownElementSymbol  ErrorCode = "MOL2_002"
	ErrCodeMissingMoleculeName   ErrorCode = "MOL2_003"
	ErrCodeIOFailure             ErrorCode = "MOL2_004"
	ErrCodeMalformedRecord       ErrorCode = "MOL2_005"
	ErrCodeInvalidTopology       ErrorCode = "MOL2_006"
)

// Scene assembly error codes.
const (
	ErrCodeInvalidCarbonCount ErrorCode = "SCN_001"
	ErrCodeInvalidFieldOfView ErrorCode = "SCN_002"
	ErrCodeSceneNotFound      ErrorCode = "SCN_003"
	ErrCodeInvalidSMILES      ErrorCode = "SCN_004"
	ErrCodeInvalidFileName    ErrorCode = "SCN_005"
)

// Aliases kept short for call sites.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,

	ErrCodeMalformedNumericField: http.StatusUnprocessableEntity,
	ErrCodeUnknownElementSymbol:  http.StatusUnprocessableEntity,
	ErrCodeMissingMoleculeName:   http.StatusUnprocessableEntity,
	ErrCodeIOFailure:             http.StatusBadRequest,
	ErrCodeMalformedRecord:       http.StatusUnprocessableEntity,
	ErrCodeInvalidTopology:       http.StatusUnprocessableEntity,

	ErrCodeInvalidCarbonCount: http.StatusBadRequest,
	ErrCodeInvalidFieldOfView: http.StatusBadRequest,
	ErrCodeSceneNotFound:      http.StatusNotFound,
	ErrCodeInvalidSMILES:      http.StatusBadRequest,
	ErrCodeInvalidFileName:    http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeRateLimited:        "rate limit exceeded, please retry later",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeMalformedNumericField: "malformed numeric field",
	ErrCodeUnknownElementSymbol:  "unknown element symbol",
	ErrCodeMissingMoleculeName:   "molecule name missing",
	ErrCodeIOFailure:             "failed to read molecule source",
	ErrCodeMalformedRecord:       "malformed record",
	ErrCodeInvalidTopology:       "invalid molecule topology",

	ErrCodeInvalidCarbonCount: "invalid carbon count",
	ErrCodeInvalidFieldOfView: "field of view out of range",
	ErrCodeSceneNotFound:      "scene not found",
	ErrCodeInvalidSMILES:      "unsupported SMILES string",
	ErrCodeInvalidFileName:    "invalid file name",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.SplitN(string(code), "_", 2)
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
