package azuresecurity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
)

type fakeARM struct {
	responses map[string]json.RawMessage
	errs      map[string]error
}

func (f *fakeARM) Do(ctx context.Context, method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
	if err, ok := f.errs[endpoint]; ok {
		return nil, err
	}
	if resp, ok := f.responses[endpoint]; ok {
		return resp, nil
	}
	return json.RawMessage(`{"value": []}`), nil
}

func (f *fakeARM) SubscriptionID() string { return "sub-1" }

type fakeGraph struct {
	rows map[string][]map[string]any
	errs map[string]error
}

func (f *fakeGraph) Query(ctx context.Context, query string) (json.RawMessage, error) {
	rows, err := f.QueryRows(ctx, query)
	if err != nil {
		return nil, err
	}
	data, _ := json.Marshal(map[string]any{"data": rows})
	return data, nil
}

func (f *fakeGraph) QueryRows(ctx context.Context, query string) ([]map[string]any, error) {
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.rows[query], nil
}

var _ azuregraph.Service = (*fakeGraph)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyzeVault(t *testing.T) {
	testCases := []struct {
		name           string
		vault          map[string]any
		expectedScore  int
		expectedIssues []string
	}{
		{
			name: "fully hardened",
			vault: map[string]any{
				"name":                      "kv-good",
				"enableSoftDelete":          true,
				"enablePurgeProtection":     true,
				"publicNetworkAccess":       "Disabled",
				"softDeleteRetentionInDays": float64(90),
			},
			expectedScore:  100,
			expectedIssues: nil,
		},
		{
			name: "every issue at once",
			vault: map[string]any{
				"name":                      "kv-bad",
				"enableSoftDelete":          false,
				"enablePurgeProtection":     false,
				"publicNetworkAccess":       "Enabled",
				"softDeleteRetentionInDays": float64(7),
			},
			expectedScore: 25,
			expectedIssues: []string{
				"Soft delete not enabled",
				"Purge protection not enabled",
				"Public network access enabled",
				"Short retention period: 7 days",
			},
		},
		{
			name: "public access only",
			vault: map[string]any{
				"name":                      "kv-public",
				"enableSoftDelete":          true,
				"enablePurgeProtection":     true,
				"publicNetworkAccess":       "enabled",
				"softDeleteRetentionInDays": float64(90),
			},
			expectedScore:  80,
			expectedIssues: []string{"Public network access enabled"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analysis := analyzeVault(tc.vault)

			assert.Equal(t, tc.expectedScore, analysis.Score)
			assert.Equal(t, tc.expectedIssues, analysis.Issues)
			assert.Len(t, analysis.Recommendations, len(tc.expectedIssues))
		})
	}
}

func TestGetKeyVaultSecurity(t *testing.T) {
	graph := &fakeGraph{rows: map[string][]map[string]any{
		keyVaultsQuery: {
			{
				"name":                      "kv-good",
				"enableSoftDelete":          true,
				"enablePurgeProtection":     true,
				"publicNetworkAccess":       "Disabled",
				"softDeleteRetentionInDays": float64(90),
			},
			{
				"name":                      "kv-bad",
				"enableSoftDelete":          false,
				"enablePurgeProtection":     false,
				"publicNetworkAccess":       "Enabled",
				"softDeleteRetentionInDays": float64(7),
			},
		},
	}}
	svc := NewService(&fakeARM{}, graph, testLogger())

	summary, err := svc.GetKeyVaultSecurity(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalVaults)
	assert.Equal(t, 1, summary.VaultsWithIssues)
	assert.Equal(t, 62.5, summary.AverageScore)

	require.Len(t, summary.CriticalVaults, 1)
	assert.Equal(t, "kv-bad", summary.CriticalVaults[0].VaultName)
	assert.Equal(t, 25, summary.CriticalVaults[0].Score)

	// Four distinct issues, each affecting one vault; top three make it in.
	assert.Len(t, summary.Recommendations, 3)
	for _, rec := range summary.Recommendations {
		assert.Contains(t, rec, "affecting 1 vault(s)")
	}
}

func TestAnalyzeNSG(t *testing.T) {
	nsg := map[string]any{
		"name": "nsg-1",
		"rules": []any{
			map[string]any{
				"name": "allow-ssh-from-anywhere",
				"properties": map[string]any{
					"sourceAddressPrefix":  "*",
					"destinationPortRange": "22",
					"access":               "Allow",
					"direction":            "Inbound",
					"protocol":             "Tcp",
				},
			},
			map[string]any{
				"name": "allow-any-port",
				"properties": map[string]any{
					"sourceAddressPrefix":  "10.0.0.0/8",
					"destinationPortRange": "*",
					"access":               "Allow",
					"direction":            "Inbound",
					"protocol":             "Tcp",
				},
			},
			map[string]any{
				"name": "deny-all",
				"properties": map[string]any{
					"sourceAddressPrefix":  "*",
					"destinationPortRange": "*",
					"access":               "Deny",
					"direction":            "Inbound",
					"protocol":             "*",
				},
			},
		},
	}

	analysis := analyzeNSG(nsg)

	assert.Equal(t, 3, analysis.TotalRules)
	require.Len(t, analysis.RiskyRules, 2)

	assert.Equal(t, "allow-ssh-from-anywhere", analysis.RiskyRules[0].RuleName)
	assert.Equal(t, "High", analysis.RiskyRules[0].RiskLevel)
	assert.Contains(t, analysis.RiskyRules[0].Reasons, "Allows traffic from any source")
	assert.Contains(t, analysis.RiskyRules[0].Reasons, "Exposes sensitive port 22 to internet")

	assert.Equal(t, "allow-any-port", analysis.RiskyRules[1].RuleName)
	assert.Equal(t, "Medium", analysis.RiskyRules[1].RiskLevel)

	// -20 for the high rule, -10 for the medium one.
	assert.Equal(t, 70, analysis.Score)
	assert.Contains(t, analysis.Recommendations, "Immediately address high-risk rules exposing sensitive ports")
}

func TestContainsSensitivePort(t *testing.T) {
	assert.True(t, containsSensitivePort("22"))
	assert.True(t, containsSensitivePort("3389"))
	assert.True(t, containsSensitivePort("1433-1434"))
	assert.False(t, containsSensitivePort("80"))
	assert.False(t, containsSensitivePort("443"))
}

func TestAnalyzeFirewall(t *testing.T) {
	hardened := analyzeFirewall(map[string]any{
		"name":            "fw-good",
		"threatIntelMode": "Alert",
		"firewallPolicy":  map[string]any{"id": "/policy"},
	})
	assert.Equal(t, 80, hardened.Score)
	assert.Empty(t, hardened.Recommendations)

	weak := analyzeFirewall(map[string]any{
		"name":            "fw-weak",
		"threatIntelMode": "Off",
	})
	assert.Equal(t, 55, weak.Score)
	assert.Contains(t, weak.Recommendations, "Enable threat intelligence alerting")
	assert.Contains(t, weak.Recommendations, "Configure firewall policy for centralized management")
}

func TestGetSecurityCenterAlerts(t *testing.T) {
	recent := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	stale := time.Now().UTC().AddDate(0, 0, -30).Format(time.RFC3339)

	arm := &fakeARM{
		responses: map[string]json.RawMessage{
			"/subscriptions": json.RawMessage(`{"value": [
				{"subscriptionId": "sub-1", "displayName": "Prod"},
				{"subscriptionId": "sub-2", "displayName": "Dev"}
			]}`),
			"/subscriptions/sub-1/providers/Microsoft.Security/alerts": json.RawMessage(fmt.Sprintf(`{"value": [
				{"id": "a1", "name": "alert-1", "properties": {"severity": "High", "status": "Active", "startTimeUtc": %q}},
				{"id": "a2", "name": "alert-2", "properties": {"severity": "Low", "status": "Dismissed", "startTimeUtc": %q}}
			]}`, recent, stale)),
		},
		errs: map[string]error{
			"/subscriptions/sub-2/providers/Microsoft.Security/alerts": errors.New("forbidden"),
		},
	}
	svc := NewService(arm, &fakeGraph{}, testLogger())

	summary, err := svc.GetSecurityCenterAlerts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalAlerts)
	assert.Equal(t, map[string]int{"High": 1, "Low": 1}, summary.BySeverity)
	assert.Equal(t, map[string]int{"Active": 1, "Dismissed": 1}, summary.ByStatus)

	require.Len(t, summary.Critical, 1)
	assert.Equal(t, "a1", summary.Critical[0].AlertID)
	assert.Equal(t, "Prod", summary.Critical[0].SubscriptionName)

	require.Len(t, summary.Recent, 1)
	assert.Equal(t, "a1", summary.Recent[0].AlertID)
}

func TestGetDefenderStatus(t *testing.T) {
	arm := &fakeARM{
		responses: map[string]json.RawMessage{
			"/subscriptions": json.RawMessage(`{"value": [
				{"subscriptionId": "sub-1", "displayName": "Prod"}
			]}`),
			"/subscriptions/sub-1/providers/Microsoft.Security/pricings": json.RawMessage(`{"value": [
				{"name": "VirtualMachines", "properties": {"pricingTier": "Free"}},
				{"name": "StorageAccounts", "properties": {"pricingTier": "Standard"}},
				{"name": "Dns", "properties": {"pricingTier": "Free"}}
			]}`),
		},
	}
	svc := NewService(arm, &fakeGraph{}, testLogger())

	coverage, err := svc.GetDefenderStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, coverage.TotalResourceTypes)
	assert.Equal(t, 1, coverage.EnabledServices)
	assert.Equal(t, 2, coverage.DisabledServices)

	require.Contains(t, coverage.BySubscription, "sub-1")
	assert.Equal(t, 1, coverage.BySubscription["sub-1"].Enabled)
	assert.Equal(t, 2, coverage.BySubscription["sub-1"].Disabled)

	// VirtualMachines is a critical service, Dns is not.
	assert.Equal(t, []string{"Enable Defender for VirtualMachines - 1 subscription(s) not protected"},
		coverage.Recommendations)
}

func TestGetNetworkSecurityAnalysisTolerantOfFailedQueries(t *testing.T) {
	graph := &fakeGraph{
		rows: map[string][]map[string]any{
			publicIPsQuery: {
				{"name": "pip-1", "associatedResource": "/nic-1"},
				{"name": "pip-2"},
			},
		},
		errs: map[string]error{
			nsgRulesQuery:  errors.New("graph unavailable"),
			firewallsQuery: errors.New("graph unavailable"),
		},
	}
	svc := NewService(&fakeARM{}, graph, testLogger())

	summary, err := svc.GetNetworkSecurityAnalysis(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalNSGs)
	assert.Equal(t, 0, summary.TotalFirewalls)
	assert.Equal(t, 2, summary.TotalPublicIPs)
	assert.Equal(t, 1, summary.PublicIPs.Associated)
	assert.Equal(t, 1, summary.PublicIPs.Unassociated)

	require.Len(t, summary.TopRecommendations, 1)
	assert.Equal(t, "Remove 1 unused public IP addresses", summary.TopRecommendations[0].Recommendation)
	assert.Equal(t, 1, summary.TopRecommendations[0].Count)
}

func TestGetSecureScoreAndComplianceKeepsHealthyHalf(t *testing.T) {
	arm := &fakeARM{
		responses: map[string]json.RawMessage{
			"/subscriptions/sub-1/providers/Microsoft.Security/secureScores": json.RawMessage(`{"value": [{"name": "ascScore"}]}`),
		},
		errs: map[string]error{
			"/subscriptions/sub-1/providers/Microsoft.Security/regulatoryComplianceStandards": errors.New("not onboarded"),
		},
	}
	svc := NewService(arm, &fakeGraph{}, testLogger())

	report, err := svc.GetSecureScoreAndCompliance(context.Background())

	require.NoError(t, err)
	assert.JSONEq(t, `{"value": [{"name": "ascScore"}]}`, string(report.SecureScore))

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(report.RegulatoryCompliance, &envelope))
	assert.Equal(t, true, envelope["error"])
}

func TestGetSecurityRecommendationsDetailedOrdering(t *testing.T) {
	arm := &fakeARM{
		responses: map[string]json.RawMessage{
			"/subscriptions/sub-1/providers/Microsoft.Security/assessments": json.RawMessage(`{"value": [
				{"id": "r1", "name": "low", "properties": {"status": {"code": "Unhealthy"}, "metadata": {"severity": "Low"}}},
				{"id": "r2", "name": "high-healthy", "properties": {"status": {"code": "Healthy"}, "metadata": {"severity": "High"}}},
				{"id": "r3", "name": "high-unhealthy", "properties": {"status": {"code": "Unhealthy"}, "metadata": {"severity": "High"}}},
				{"id": "r4", "name": "medium", "properties": {"status": {"code": "Unhealthy"}, "metadata": {"severity": "Medium"}}}
			]}`),
		},
	}
	svc := NewService(arm, &fakeGraph{}, testLogger())

	summary, err := svc.GetSecurityRecommendationsDetailed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)

	ids := make([]string, 0, len(summary.All))
	for _, rec := range summary.All {
		ids = append(ids, rec.ID)
	}
	assert.Equal(t, []string{"r3", "r2", "r4", "r1"}, ids)

	require.Len(t, summary.Critical, 1)
	assert.Equal(t, "r3", summary.Critical[0].ID)
}

func TestGetSecurityIncidents(t *testing.T) {
	graph := &fakeGraph{rows: map[string][]map[string]any{
		sentinelWorkspacesQuery: {
			{"id": "/subscriptions/sub-1/workspaces/w1", "name": "w1"},
			{"id": "/subscriptions/sub-1/workspaces/w2", "name": "w2"},
		},
	}}
	arm := &fakeARM{
		responses: map[string]json.RawMessage{
			"/subscriptions/sub-1/workspaces/w1/providers/Microsoft.SecurityInsights/incidents": json.RawMessage(`{"value": [
				{"properties": {"severity": "High"}},
				{"properties": {"severity": "Low"}},
				{"properties": {}}
			]}`),
		},
		errs: map[string]error{
			"/subscriptions/sub-1/workspaces/w2/providers/Microsoft.SecurityInsights/incidents": errors.New("forbidden"),
		},
	}
	svc := NewService(arm, graph, testLogger())

	summary, err := svc.GetSecurityIncidents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalIncidents)
	require.Len(t, summary.Workspaces, 1)
	assert.Equal(t, "w1", summary.Workspaces[0].WorkspaceName)
	assert.Equal(t, map[string]int{"High": 1, "Low": 1, "Unknown": 1}, summary.BySeverity)
}
