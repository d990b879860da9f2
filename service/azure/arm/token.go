package azurearm

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// NewTokenProvider builds a client-credentials token source against the
// tenant's v1 token endpoint with the management API as resource audience.
func NewTokenProvider(creds Credentials, logger *slog.Logger) *tokenProvider {
	return &tokenProvider{
		conf: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/token", loginURL, creds.TenantID),
			AuthStyle:    oauth2.AuthStyleInParams,
			EndpointParams: url.Values{
				"resource": {managementResource},
			},
		},
		logger: logger,
	}
}

// Token performs one client-credentials exchange. Deliberately no caching:
// each management call re-authenticates independently, so concurrent tool
// invocations share no state.
func (p *tokenProvider) Token(ctx context.Context) (string, error) {
	tok, err := p.conf.Token(ctx)
	if err != nil {
		p.logger.Warn("azure token request failed", "error", err)
		return "", fmt.Errorf("failed to get Azure token: %w", err)
	}
	if tok.AccessToken == "" {
		p.logger.Warn("azure token response missing access_token")
		return "", fmt.Errorf("token response contained no access_token")
	}
	return tok.AccessToken, nil
}
