package azurecostmanagement

import (
	"context"
	"encoding/json"

	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
)

// Per-endpoint API versions, pinned to what each target API accepts.
const (
	costQueryAPIVersion       = "2023-03-01"
	budgetsAPIVersion         = "2023-05-01"
	recommendationsAPIVersion = "2025-05-01-preview"
	advisorAPIVersion         = "2020-01-01"
	usageDetailsAPIVersion    = "2024-08-01"
	subscriptionAPIVersion    = "2022-12-01"
	priceSheetAPIVersion      = "2023-05-01"
)

// CostQuery describes one cost analysis request. Zero values select the
// API's defaults: MonthToDate over the current month, daily granularity.
type CostQuery struct {
	Timeframe   string // MonthToDate, BillingMonthToDate, TheLastMonth, Custom
	Granularity string // Daily, Monthly, None
	GroupBy     string // optional dimension, e.g. ResourceGroup
	StartDate   string // YYYY-MM-DD, Custom timeframe only
	EndDate     string // YYYY-MM-DD, Custom timeframe only
}

// Service provides billing and cost analysis for one subscription
type Service interface {
	GetCostAnalysis(ctx context.Context, query CostQuery) (json.RawMessage, error)
	GetBillingSummary(ctx context.Context) (json.RawMessage, error)
	GetBudgets(ctx context.Context) (json.RawMessage, error)
	GetRecommendations(ctx context.Context) (json.RawMessage, error)
	GetAdvisorDetailed(ctx context.Context) (json.RawMessage, error)
	GetUsageDetails(ctx context.Context, startDate, endDate string) (json.RawMessage, error)
	GetSubscriptionDetails(ctx context.Context) (json.RawMessage, error)
	GetPriceSheet(ctx context.Context) (json.RawMessage, error)
}

type service struct {
	arm azurearm.Service
}
