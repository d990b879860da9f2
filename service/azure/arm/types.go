package azurearm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	managementURL = "https://management.azure.com"
	loginURL      = "https://login.microsoftonline.com"

	// Audience for the client-credentials grant. The trailing slash matters:
	// the token endpoint rejects the bare host for the management API.
	managementResource = "https://management.azure.com/"
)

// Credentials holds the service principal identity read once at process start.
type Credentials struct {
	TenantID       string
	ClientID       string
	ClientSecret   string
	SubscriptionID string
}

// TokenSource returns a bearer token for the management API. Every call
// performs a fresh client-credentials exchange; nothing is cached.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Service performs authenticated REST calls against Azure Resource Manager
type Service interface {
	// Do issues one request and returns the raw JSON body on success. All
	// failure modes surface as *RequestError: unsupported methods and token
	// failures never reach the network, upstream >=400 carries the raw
	// response body, and transport faults are caught at this boundary.
	Do(ctx context.Context, method, endpoint string, params map[string]string, body any) (json.RawMessage, error)
	SubscriptionID() string
}

// ErrorKind discriminates the adapter's failure modes
type ErrorKind string

const (
	KindAuth              ErrorKind = "authentication"
	KindUpstream          ErrorKind = "upstream"
	KindTransport         ErrorKind = "transport"
	KindUnsupportedMethod ErrorKind = "unsupported_method"
)

// RequestError is the uniform error envelope for every adapter failure.
// Callers discriminate on Kind, never by inspecting response payloads.
type RequestError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("azure request failed (%s, status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("azure request failed (%s): %s", e.Kind, e.Message)
}

// ErrorJSON renders err in the structured shape aggregate payloads embed in
// per-section slots: {"error": true, "status_code": ..., "message": ...}.
func ErrorJSON(err error) json.RawMessage {
	envelope := struct {
		Error      bool   `json:"error"`
		StatusCode int    `json:"status_code,omitempty"`
		Message    string `json:"message"`
	}{Error: true, Message: err.Error()}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		envelope.StatusCode = reqErr.StatusCode
		envelope.Message = reqErr.Message
	}

	data, _ := json.Marshal(envelope)
	return data
}

type service struct {
	subscriptionID string
	host           string
	tokens         TokenSource
	httpClient     *http.Client
	logger         *slog.Logger
}

type tokenProvider struct {
	conf   *clientcredentials.Config
	logger *slog.Logger
}
