package models

import (
	"fmt"
	"net/http"
)

// RepositoryAccessError means the repository root, or an entry below it,
// could not be read.
type RepositoryAccessError struct {
	Path string
	Err  error
}

func (e *RepositoryAccessError) Error() string {
	return fmt.Sprintf("reading repository %s: %v", e.Path, e.Err)
}

func (e *RepositoryAccessError) Unwrap() error { return e.Err }

// ProviderError is a failed provider call. StatusCode is 0 when the call
// never produced an HTTP response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// QuotaExhausted reports whether the provider rejected the call with 429.
func (e *ProviderError) QuotaExhausted() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ResponseFormatError means the model reply was not a JSON object.
type ResponseFormatError struct {
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("model reply is not a JSON object: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// ConfigError rejects an invalid invocation before any I/O happens.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Field, e.Value)
}
