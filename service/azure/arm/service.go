package azurearm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// NewService builds the request adapter for one subscription. The credential
// set is captured once; every call re-authenticates through the token provider.
func NewService(creds Credentials, logger *slog.Logger) *service {
	return &service{
		subscriptionID: creds.SubscriptionID,
		host:           managementURL,
		tokens:         NewTokenProvider(creds, logger),
		httpClient:     http.DefaultClient,
		logger:         logger,
	}
}

func (s *service) SubscriptionID() string {
	return s.subscriptionID
}

// Do implements Service. The endpoint is appended to the management host
// verbatim; callers may pass either a root-relative path or a fully-qualified
// resource ID path, and both forms must keep working.
func (s *service) Do(ctx context.Context, method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return nil, &RequestError{
			Kind:    KindUnsupportedMethod,
			Message: fmt.Sprintf("unsupported HTTP method: %s", method),
		}
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, &RequestError{
			Kind:    KindAuth,
			Message: "failed to authenticate with Azure",
		}
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{
				Kind:    KindTransport,
				Message: fmt.Sprintf("API request failed: %v", err),
			}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.host+endpoint, reqBody)
	if err != nil {
		return nil, &RequestError{
			Kind:    KindTransport,
			Message: fmt.Sprintf("API request failed: %v", err),
		}
	}

	if len(params) > 0 {
		query := req.URL.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{
			Kind:    KindTransport,
			Message: fmt.Sprintf("API request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{
			Kind:    KindTransport,
			Message: fmt.Sprintf("API request failed: %v", err),
		}
	}

	if resp.StatusCode >= 400 {
		return nil, &RequestError{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Message:    string(raw),
		}
	}

	return json.RawMessage(raw), nil
}
