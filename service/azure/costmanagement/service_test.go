package azurecostmanagement

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeARM struct {
	lastMethod   string
	lastEndpoint string
	lastParams   map[string]string
	lastBody     any
	response     json.RawMessage
}

func (f *fakeARM) Do(ctx context.Context, method, endpoint string, params map[string]string, body any) (json.RawMessage, error) {
	f.lastMethod = method
	f.lastEndpoint = endpoint
	f.lastParams = params
	f.lastBody = body
	return f.response, nil
}

func (f *fakeARM) SubscriptionID() string { return "sub-1" }

func TestGetCostAnalysisDefaults(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{}`)}
	svc := NewService(arm)

	_, err := svc.GetCostAnalysis(context.Background(), CostQuery{})

	require.NoError(t, err)
	assert.Equal(t, "POST", arm.lastMethod)
	assert.Equal(t, "/subscriptions/sub-1/providers/Microsoft.CostManagement/query", arm.lastEndpoint)
	assert.Equal(t, "2023-03-01", arm.lastParams["api-version"])

	body, ok := arm.lastBody.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ActualCost", body["type"])
	assert.Equal(t, "MonthToDate", body["timeframe"])
	assert.NotContains(t, body, "timePeriod")

	dataSet, ok := body["dataSet"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Daily", dataSet["granularity"])
	assert.NotContains(t, dataSet, "grouping")
}

func TestGetCostAnalysisGroupingAndCustomRange(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{}`)}
	svc := NewService(arm)

	_, err := svc.GetCostAnalysis(context.Background(), CostQuery{
		Timeframe:   "Custom",
		Granularity: "Monthly",
		GroupBy:     "ResourceGroup",
		StartDate:   "2026-01-01",
		EndDate:     "2026-01-31",
	})

	require.NoError(t, err)

	body := arm.lastBody.(map[string]any)
	assert.Equal(t, "Custom", body["timeframe"])
	assert.Equal(t, map[string]string{
		"from": "2026-01-01",
		"to":   "2026-01-31",
	}, body["timePeriod"])

	dataSet := body["dataSet"].(map[string]any)
	assert.Equal(t, "Monthly", dataSet["granularity"])
	assert.Equal(t, []map[string]any{
		{"type": "Dimension", "name": "ResourceGroup"},
	}, dataSet["grouping"])
}

func TestGetRecommendationsLimitsToTen(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{}`)}
	svc := NewService(arm)

	_, err := svc.GetRecommendations(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "GET", arm.lastMethod)
	assert.Equal(t, "/subscriptions/sub-1/providers/Microsoft.Advisor/recommendations", arm.lastEndpoint)
	assert.Equal(t, "10", arm.lastParams["$top"])
}

func TestGetAdvisorDetailedFiltersAllCategories(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{}`)}
	svc := NewService(arm)

	_, err := svc.GetAdvisorDetailed(context.Background())

	require.NoError(t, err)
	for _, category := range []string{"Cost", "Performance", "HighAvailability", "Security", "OperationalExcellence"} {
		assert.Contains(t, arm.lastParams["$filter"], category)
	}
}

func TestGetUsageDetailsExplicitRange(t *testing.T) {
	arm := &fakeARM{response: json.RawMessage(`{}`)}
	svc := NewService(arm)

	_, err := svc.GetUsageDetails(context.Background(), "2026-02-01", "2026-02-28")

	require.NoError(t, err)
	assert.Equal(t, "properties/usageStart ge '2026-02-01' and properties/usageEnd le '2026-02-28'", arm.lastParams["$filter"])
}

func TestDefaultDateRange(t *testing.T) {
	start, end := defaultDateRange("", "")
	assert.Regexp(t, `^\d{4}-\d{2}-01$`, start)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, end)

	start, end = defaultDateRange("2026-03-01", "2026-03-15")
	assert.Equal(t, "2026-03-01", start)
	assert.Equal(t, "2026-03-15", end)
}
