package azurecostmanagement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
)

func NewService(arm azurearm.Service) *service {
	return &service{arm: arm}
}

// GetCostAnalysis implements Service
func (s *service) GetCostAnalysis(ctx context.Context, query CostQuery) (json.RawMessage, error) {
	timeframe := query.Timeframe
	if timeframe == "" {
		timeframe = "MonthToDate"
	}
	granularity := query.Granularity
	if granularity == "" {
		granularity = "Daily"
	}

	dataSet := map[string]any{
		"granularity": granularity,
		"aggregation": map[string]any{
			"totalCost": map[string]any{
				"name":     "Cost",
				"function": "Sum",
			},
		},
	}
	if query.GroupBy != "" {
		dataSet["grouping"] = []map[string]any{
			{
				"type": "Dimension",
				"name": query.GroupBy,
			},
		}
	}

	body := map[string]any{
		"type":      "ActualCost",
		"timeframe": timeframe,
		"dataSet":   dataSet,
	}

	// The API only accepts timePeriod for the Custom timeframe.
	if timeframe == "Custom" {
		start, end := defaultDateRange(query.StartDate, query.EndDate)
		body["timePeriod"] = map[string]string{
			"from": start,
			"to":   end,
		}
	}

	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.CostManagement/query", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "POST", endpoint, map[string]string{"api-version": costQueryAPIVersion}, body)
}

// GetBillingSummary implements Service. Month-to-date actual cost without
// granularity, used to back the billing-summary resource URI.
func (s *service) GetBillingSummary(ctx context.Context) (json.RawMessage, error) {
	body := map[string]any{
		"type":      "ActualCost",
		"timeframe": "MonthToDate",
		"dataSet": map[string]any{
			"granularity": "None",
			"aggregation": map[string]any{
				"totalCost": map[string]any{
					"name":     "Cost",
					"function": "Sum",
				},
			},
		},
	}

	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.CostManagement/query", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "POST", endpoint, map[string]string{"api-version": costQueryAPIVersion}, body)
}

// GetBudgets implements Service
func (s *service) GetBudgets(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Consumption/budgets", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{"api-version": budgetsAPIVersion}, nil)
}

// GetRecommendations implements Service. Top 10 advisor recommendations.
func (s *service) GetRecommendations(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Advisor/recommendations", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": recommendationsAPIVersion,
		"$top":        "10",
	}, nil)
}

// GetAdvisorDetailed implements Service. All advisor categories.
func (s *service) GetAdvisorDetailed(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Advisor/recommendations", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": advisorAPIVersion,
		"$filter":     "Category eq 'Cost' or Category eq 'Performance' or Category eq 'HighAvailability' or Category eq 'Security' or Category eq 'OperationalExcellence'",
	}, nil)
}

// GetUsageDetails implements Service
func (s *service) GetUsageDetails(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	start, end := defaultDateRange(startDate, endDate)

	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Consumption/usageDetails", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": usageDetailsAPIVersion,
		"$filter":     fmt.Sprintf("properties/usageStart ge '%s' and properties/usageEnd le '%s'", start, end),
	}, nil)
}

// GetSubscriptionDetails implements Service
func (s *service) GetSubscriptionDetails(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{"api-version": subscriptionAPIVersion}, nil)
}

// GetPriceSheet implements Service
func (s *service) GetPriceSheet(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Consumption/pricesheets/default", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{"api-version": priceSheetAPIVersion}, nil)
}

// defaultDateRange fills missing bounds with the first day of the current
// month and today, in the YYYY-MM-DD form the consumption APIs expect.
func defaultDateRange(start, end string) (string, string) {
	now := time.Now()
	if start == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}
	return start, end
}
