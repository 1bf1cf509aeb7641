package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/courtbook/internal/common"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrNoRefreshToken = errors.New("no refresh token")
)

// ErrorCode is the machine-readable kind the backend puts in its error
// envelope. Callers branch on it instead of on message text.
type ErrorCode string

const (
	CodeUnauthenticated    ErrorCode = "unauthenticated"
	CodeTokenExpired       ErrorCode = "token_expired"
	CodeInvalidToken       ErrorCode = "invalid_token"
	CodeInvalidCredentials ErrorCode = "invalid_credentials"
	CodeInvalidArgument    ErrorCode = "invalid_argument"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodePermissionDenied   ErrorCode = "permission_denied"
	CodeUnavailable        ErrorCode = "unavailable"
	CodeInternal           ErrorCode = "internal"
)

// APIError is a non-2xx answer from the backend, passed to callers as is.
type APIError struct {
	Status    int
	Code      ErrorCode
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, msg)
}

// Is lets callers match an APIError against the shared sentinels, e.g.
// errors.Is(err, common.ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrUnavailable:
		return e.Code == CodeUnavailable
	case common.ErrNotFound:
		return e.Code == CodeNotFound
	case common.ErrInvalidArgument:
		return e.Code == CodeInvalidArgument
	case common.ErrConflict:
		return e.Code == CodeConflict
	case common.ErrPermissionDenied:
		return e.Code == CodePermissionDenied
	case common.ErrInternal:
		return e.Code == CodeInternal
	case common.ErrTokenExpired:
		return e.Code == CodeTokenExpired
	case common.ErrInvalidToken:
		return e.Code == CodeInvalidToken
	case common.ErrInvalidCredentials:
		return e.Code == CodeInvalidCredentials
	}
	return false
}

// errorEnvelope is the backend error body:
//
//	{"error": {"code": "not_found", "message": "court not found", "request_id": "..."}}
//
// Older endpoints answer with a bare {"message": "..."}; that is accepted
// too and the code is derived from the status.
type errorEnvelope struct {
	Error *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
	Message string `json:"message"`
}

const maxErrorBody = 64 << 10

func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{
		Status:    resp.StatusCode,
		Code:      codeFromStatus(resp.StatusCode),
		RequestID: resp.Header.Get(common.RequestIDHeaderName),
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	switch {
	case env.Error != nil:
		if env.Error.Code != "" {
			apiErr.Code = ErrorCode(env.Error.Code)
		}
		apiErr.Message = env.Error.Message
		if env.Error.RequestID != "" {
			apiErr.RequestID = env.Error.RequestID
		}
	case env.Message != "":
		apiErr.Message = env.Message
	}
	return apiErr
}

func codeFromStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeInvalidArgument
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodePermissionDenied
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
