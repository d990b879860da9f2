package azuremonitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	azurecostmanagement "github.com/elC0mpa/azure-doctor/service/azure/costmanagement"
	azureresources "github.com/elC0mpa/azure-doctor/service/azure/resources"
)

type fakeARM struct {
	do func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error)
}

func (f *fakeARM) Do(ctx context.Context, method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
	return f.do(method, endpoint, params, body)
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

// fakeResources and fakeCost override only the methods the monitor service
// reaches for; anything else panics on the embedded nil interface.
type fakeResources struct {
	azureresources.Service
	unused json.RawMessage
	err    error
}

func (f *fakeResources) GetUnusedResources(ctx context.Context) (json.RawMessage, error) {
	return f.unused, f.err
}

type fakeCost struct {
	azurecostmanagement.Service
	advisor json.RawMessage
	err     error
}

func (f *fakeCost) GetAdvisorDetailed(ctx context.Context) (json.RawMessage, error) {
	return f.advisor, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetVMMetricsParams(t *testing.T) {
	var gotMethod, gotEndpoint string
	var gotParams map[string]string
	arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
		gotMethod, gotEndpoint, gotParams = method, endpoint, params
		return json.RawMessage(`{"value": []}`), nil
	}}
	svc := NewService(arm, &fakeGraph{}, nil, nil, testLogger())

	_, err := svc.GetVMMetrics(context.Background(), "/subscriptions/sub-1/vm1", "")

	require.NoError(t, err)
	assert.Equal(t, "GET", gotMethod)
	assert.Equal(t, "/subscriptions/sub-1/vm1/providers/Microsoft.Insights/metrics", gotEndpoint)
	assert.Equal(t, "2018-01-01", gotParams["api-version"])
	assert.Equal(t, "PT1H", gotParams["timespan"])
	assert.Equal(t, "PT1M", gotParams["interval"])
	assert.Contains(t, gotParams["metricnames"], "Percentage CPU")
	assert.Contains(t, gotParams["metricnames"], "Available Memory Bytes")
}

func TestGetVMMetricsOverviewSkipsFailures(t *testing.T) {
	graph := &fakeGraph{rows: map[string][]map[string]any{
		runningVMsQuery: {
			{"id": "/vm1", "name": "vm1", "type": "microsoft.compute/virtualmachines"},
			{"id": "/vm2", "name": "vm2", "type": "microsoft.compute/virtualmachines"},
			{"id": "/vm3", "name": "vm3", "type": "microsoft.compute/virtualmachines"},
			{"id": "/vm4", "name": "vm4", "type": "microsoft.compute/virtualmachines"},
			{"id": "/vm5", "name": "vm5", "type": "microsoft.compute/virtualmachines"},
		},
	}}
	arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
		if strings.HasPrefix(endpoint, "/vm2/") || strings.HasPrefix(endpoint, "/vm4/") {
			return nil, errors.New("throttled")
		}
		return json.RawMessage(`{"value": []}`), nil
	}}
	svc := NewService(arm, graph, nil, nil, testLogger())

	summary, err := svc.GetVMMetricsOverview(context.Background(), "PT1H")

	require.NoError(t, err)
	assert.Equal(t, "PT1H", summary.Timespan)
	assert.Equal(t, 3, summary.Succeeded)
	require.Len(t, summary.Items, 3)
	assert.Equal(t, "vm1", summary.Items[0].Name)
	assert.Equal(t, "vm3", summary.Items[1].Name)
	assert.Equal(t, "vm5", summary.Items[2].Name)
}

func TestGetDatabaseMetricsOverviewPicksMetricsByType(t *testing.T) {
	graph := &fakeGraph{rows: map[string][]map[string]any{
		databasesQuery: {
			{"id": "/sqldb", "name": "sqldb", "type": "Microsoft.Sql/servers/databases"},
			{"id": "/cosmos", "name": "cosmos", "type": "Microsoft.DocumentDB/databaseAccounts"},
		},
	}}
	metricsByResource := map[string]string{}
	arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
		resource := strings.TrimSuffix(endpoint, "/providers/Microsoft.Insights/metrics")
		metricsByResource[resource] = params["metricnames"]
		return json.RawMessage(`{"value": []}`), nil
	}}
	svc := NewService(arm, graph, nil, nil, testLogger())

	summary, err := svc.GetDatabaseMetricsOverview(context.Background(), "PT24H")

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Contains(t, metricsByResource["/sqldb"], "dtu_consumption_percent")
	assert.Contains(t, metricsByResource["/cosmos"], "TotalRequestUnits")
}

func TestGetActivityLogAnalysis(t *testing.T) {
	payload := map[string]any{"value": []map[string]any{}}
	events := payload["value"].([]map[string]any)
	for i := 0; i < 6; i++ {
		events = append(events, map[string]any{
			"eventTimestamp": fmt.Sprintf("2026-08-29T1%d:00:00Z", i),
			"operationName":  map[string]any{"value": "Microsoft.Compute/virtualMachines/start/action"},
			"resourceId":     "/vm-busy",
		})
	}
	events = append(events, map[string]any{
		"eventTimestamp": "2026-08-25T10:00:00Z",
		"operationName":  map[string]any{"value": "Microsoft.Storage/storageAccounts/listKeys/action"},
		"resourceId":     "/storage-idle",
	})
	payload["value"] = events
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var gotParams map[string]string
	arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
		gotParams = params
		return raw, nil
	}}
	svc := NewService(arm, &fakeGraph{}, nil, nil, testLogger())

	analysis, err := svc.GetActivityLogAnalysis(context.Background(), 24)

	require.NoError(t, err)
	assert.Equal(t, 24, analysis.HoursAnalyzed)
	assert.Equal(t, 7, analysis.TotalEvents)
	assert.Equal(t, 2, analysis.UniqueResources)

	assert.Regexp(t, `^eventTimestamp ge '\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z' and eventTimestamp le '\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z'$`,
		gotParams["$filter"])

	require.Len(t, analysis.Inactive, 1)
	assert.Equal(t, "/storage-idle", analysis.Inactive[0].ResourceID)
	assert.Equal(t, 1, analysis.Inactive[0].EventCount)

	busy := analysis.ResourceActivity["/vm-busy"]
	require.NotNil(t, busy)
	assert.Equal(t, 6, busy.EventCount)
	assert.Equal(t, "2026-08-29T15:00:00Z", busy.LastActivity)
}

func TestGetAlertDetailsSecurityFirst(t *testing.T) {
	arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
		assert.Contains(t, endpoint, "/providers/Microsoft.Security/alerts/alert-1")
		return json.RawMessage(`{"id": "alert-1", "properties": {"remediationSteps": ["rotate keys"]}}`), nil
	}}
	svc := NewService(arm, &fakeGraph{}, nil, nil, testLogger())

	details, err := svc.GetAlertDetails(context.Background(), "alert-1")

	require.NoError(t, err)
	assert.Equal(t, "security", details.AlertType)
	assert.Equal(t, []any{"rotate keys"}, details.RemediationSteps)
}

func TestGetAlertDetailsFallsBackToAlertsManagement(t *testing.T) {
	arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
		if strings.Contains(endpoint, "Microsoft.Security") {
			return nil, errors.New("not found")
		}
		assert.Contains(t, endpoint, "/providers/Microsoft.AlertsManagement/alerts/alert-1")
		return json.RawMessage(`{"id": "alert-1"}`), nil
	}}
	svc := NewService(arm, &fakeGraph{}, nil, nil, testLogger())

	details, err := svc.GetAlertDetails(context.Background(), "alert-1")

	require.NoError(t, err)
	assert.Equal(t, "metric", details.AlertType)
	assert.Empty(t, details.RemediationSteps)
}

func TestGetLogAnalyticsDiscovery(t *testing.T) {
	t.Run("no workspaces", func(t *testing.T) {
		svc := NewService(&fakeARM{}, &fakeGraph{}, nil, nil, testLogger())

		_, err := svc.GetLogAnalytics(context.Background(), "", "", "")
		assert.ErrorIs(t, err, ErrNoWorkspaces)
	})

	t.Run("first workspace wins", func(t *testing.T) {
		graph := &fakeGraph{rows: map[string][]map[string]any{
			logAnalyticsWorkspacesQuery: {
				{"id": "/workspaces/w1", "name": "w1"},
				{"id": "/workspaces/w2", "name": "w2"},
			},
		}}
		var gotEndpoint string
		var gotBody any
		arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
			gotEndpoint = endpoint
			gotBody = body
			assert.Equal(t, "POST", method)
			return json.RawMessage(`{"tables": []}`), nil
		}}
		svc := NewService(arm, graph, nil, nil, testLogger())

		_, err := svc.GetLogAnalytics(context.Background(), "", "Heartbeat | count", "PT1H")

		require.NoError(t, err)
		assert.Equal(t, "/workspaces/w1/query", gotEndpoint)
		assert.Equal(t, map[string]string{
			"query":    "Heartbeat | count",
			"timespan": "PT1H",
		}, gotBody)
	})
}

func TestGetApplicationInsightsNoComponents(t *testing.T) {
	svc := NewService(&fakeARM{}, &fakeGraph{}, nil, nil, testLogger())

	_, err := svc.GetApplicationInsights(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrNoAppInsights)
}

func TestGetUtilizationSummaryPartialFailure(t *testing.T) {
	resources := &fakeResources{err: errors.New("graph unavailable")}
	cost := &fakeCost{advisor: json.RawMessage(`{"value": [
		{"properties": {"category": "Cost"}},
		{"properties": {"category": "Cost"}},
		{"properties": {"category": "Security"}}
	]}`)}
	arm := &fakeARM{do: func(method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
		return json.RawMessage(`{"value": []}`), nil
	}}
	svc := NewService(arm, &fakeGraph{}, resources, cost, testLogger())

	summary, err := svc.GetUtilizationSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "sub-1", summary.SubscriptionID)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(summary.UnusedResources, &envelope))
	assert.Equal(t, true, envelope["error"])

	assert.Equal(t, 0, summary.TotalPotentiallyUnused)
	assert.Equal(t, 2, summary.CostOptimizationOpportunities)
	assert.NotEmpty(t, summary.ActivityPatterns)
	assert.NotEmpty(t, summary.VMMetrics)
}
