package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

type ErrorKind string

const (
	KindAuthentication ErrorKind = "AUTHENTICATION_ERROR"
	KindRateLimit      ErrorKind = "RATE_LIMIT_ERROR"
	KindGraphQL        ErrorKind = "GRAPHQL_ERROR"
	KindNetwork        ErrorKind = "NETWORK_ERROR"
	KindHTTP           ErrorKind = "HTTP_ERROR"
)

const (
	ServiceErrorBadInput             = "QUANTCAST_BAD_INPUT"
	ServiceErrorAuthenticationFailed = "QUANTCAST_AUTHENTICATION_FAILED"
	ServiceErrorRateLimited          = "QUANTCAST_RATE_LIMITED"
	ServiceErrorGraphQL              = "QUANTCAST_GRAPHQL_ERROR"
	ServiceErrorNetwork              = "QUANTCAST_NETWORK_ERROR"
	ServiceErrorHTTP                 = "QUANTCAST_HTTP_ERROR"
	ServiceErrorNotFound             = "QUANTCAST_NOT_FOUND"
	ServiceErrorInternal             = "QUANTCAST_INTERNAL_ERROR"
)

// Error is the failure taxonomy shared by the token manager, the transport
// and every facade operation. Only the fields relevant to Kind are set.
type Error struct {
	Kind          ErrorKind
	Message       string
	StatusCode    int
	Body          string
	Timeout       bool
	RateLimit     *RateLimitDetails
	GraphQLErrors []GraphQLError
	Err           error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = strings.ToLower(strings.ReplaceAll(string(e.Kind), "_", " "))
	}
	if e.Err != nil && !strings.Contains(message, e.Err.Error()) {
		return fmt.Sprintf("%s: %v", message, e.Err)
	}
	return message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Code returns the stable string tag of the failure kind.
func (e *Error) Code() string {
	if e == nil {
		return ""
	}
	return string(e.Kind)
}

// Retryable reports whether the transport may retry the attempt that
// produced this error.
func (e *Error) Retryable() bool {
	if e == nil {
		return false
	}
	return e.Kind == KindNetwork || e.Kind == KindHTTP
}

func (e *Error) ToServiceError() *goerrors.Error {
	if e == nil {
		return nil
	}
	metadata := map[string]any{
		"kind": string(e.Kind),
	}
	if e.StatusCode > 0 {
		metadata["status_code"] = e.StatusCode
	}
	if e.Timeout {
		metadata["timeout"] = true
	}
	if e.RateLimit != nil {
		if e.RateLimit.ResetTime != "" {
			metadata["reset_time"] = e.RateLimit.ResetTime
		}
		if e.RateLimit.RemainingRequests != nil {
			metadata["remaining_requests"] = *e.RateLimit.RemainingRequests
		}
		if e.RateLimit.RemainingComplexity != nil {
			metadata["remaining_complexity"] = *e.RateLimit.RemainingComplexity
		}
	}
	if len(e.GraphQLErrors) > 0 {
		messages := make([]string, 0, len(e.GraphQLErrors))
		for _, gqlErr := range e.GraphQLErrors {
			messages = append(messages, gqlErr.Message)
		}
		metadata["graphql_errors"] = messages
	}

	var category goerrors.Category
	var textCode string
	code := e.StatusCode
	switch e.Kind {
	case KindAuthentication:
		category, textCode = goerrors.CategoryAuth, ServiceErrorAuthenticationFailed
		if code == 0 {
			code = http.StatusUnauthorized
		}
	case KindRateLimit:
		category, textCode = goerrors.CategoryRateLimit, ServiceErrorRateLimited
		code = http.StatusTooManyRequests
	case KindGraphQL:
		category, textCode = goerrors.CategoryBadInput, ServiceErrorGraphQL
		code = http.StatusUnprocessableEntity
	case KindNetwork:
		category, textCode = goerrors.CategoryExternal, ServiceErrorNetwork
		code = http.StatusBadGateway
		if e.Timeout {
			code = http.StatusGatewayTimeout
		}
	case KindHTTP:
		category, textCode = goerrors.CategoryExternal, ServiceErrorHTTP
		if code == 0 {
			code = http.StatusBadGateway
		}
	default:
		category, textCode = goerrors.CategoryInternal, ServiceErrorInternal
	}
	return ensureServiceErrorEnvelope(
		goerrors.Wrap(e, category, e.Error()).
			WithCode(code).
			WithTextCode(textCode).
			WithMetadata(metadata),
	)
}

func NewAuthenticationError(message string, statusCode int, body string, cause error) *Error {
	return &Error{
		Kind:       KindAuthentication,
		Message:    message,
		StatusCode: statusCode,
		Body:       body,
		Err:        cause,
	}
}

func NewRateLimitError(message string, details RateLimitDetails) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		RateLimit:  &details,
	}
}

func NewGraphQLError(statusCode int, errs []GraphQLError) *Error {
	messages := make([]string, 0, len(errs))
	for _, gqlErr := range errs {
		if msg := strings.TrimSpace(gqlErr.Message); msg != "" {
			messages = append(messages, msg)
		}
	}
	message := "graphql request returned errors"
	if len(messages) > 0 {
		message = "graphql errors: " + strings.Join(messages, ", ")
	}
	return &Error{
		Kind:          KindGraphQL,
		Message:       message,
		StatusCode:    statusCode,
		GraphQLErrors: append([]GraphQLError(nil), errs...),
	}
}

func NewNetworkError(message string, timeout bool, cause error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: message,
		Timeout: timeout,
		Err:     cause,
	}
}

func NewHTTPError(statusCode int, body string) *Error {
	return &Error{
		Kind:       KindHTTP,
		Message:    strings.TrimSpace(fmt.Sprintf("HTTP %d: %s", statusCode, body)),
		StatusCode: statusCode,
		Body:       body,
	}
}

// AsError extracts the taxonomy error from a wrapped chain.
func AsError(err error) (*Error, bool) {
	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		return typed, true
	}
	return nil, false
}

func KindOf(err error) ErrorKind {
	if typed, ok := AsError(err); ok {
		return typed.Kind
	}
	return ""
}

func IsRetryable(err error) bool {
	typed, ok := AsError(err)
	return ok && typed.Retryable()
}

// ToServiceError converts any error into a go-errors envelope with a stable
// text code and HTTP status.
func ToServiceError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureServiceErrorEnvelope(richErr)
	}
	if typed, ok := AsError(err); ok {
		return typed.ToServiceError()
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"):
		return newServiceError(err.Error(), goerrors.CategoryNotFound, ServiceErrorNotFound)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "must be"):
		return newServiceError(err.Error(), goerrors.CategoryBadInput, ServiceErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureServiceErrorEnvelope(mapped)
}

func newServiceError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultServiceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultServiceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ServiceErrorBadInput
	case goerrors.CategoryNotFound:
		return ServiceErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ServiceErrorAuthenticationFailed
	case goerrors.CategoryRateLimit:
		return ServiceErrorRateLimited
	case goerrors.CategoryExternal:
		return ServiceErrorHTTP
	default:
		return ServiceErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
