package azuremonitor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/elC0mpa/azure-doctor/model"
	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
	azurecostmanagement "github.com/elC0mpa/azure-doctor/service/azure/costmanagement"
	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
	azureresources "github.com/elC0mpa/azure-doctor/service/azure/resources"
)

const (
	metricsAPIVersion        = "2018-01-01"
	activityLogAPIVersion    = "2015-04-01"
	alertsOverviewAPIVersion = "2019-05-05-preview"
	metricAlertsAPIVersion   = "2018-03-01"
	securityAlertAPIVersion  = "2022-01-01"
	resourceHealthAPIVersion = "2020-05-01"
	logAnalyticsAPIVersion   = "2020-08-01"
)

// Discovery errors when an optional resource id is omitted and nothing in
// the subscription can stand in for it.
var (
	ErrNoAppInsights = errors.New("No Application Insights resources found")
	ErrNoWorkspaces  = errors.New("No Log Analytics workspaces found")
)

// Service provides performance metrics, alerting and log access for one
// subscription. Metric operations come in two flavors: a single-resource call
// against one ARM id, and an overview that discovers resources through
// Resource Graph and collects their metrics one by one, tolerating per-item
// failures.
type Service interface {
	GetVMMetrics(ctx context.Context, vmID, timespan string) (json.RawMessage, error)
	GetVMMetricsOverview(ctx context.Context, timespan string) (*model.MetricsSummary, error)
	GetStorageMetrics(ctx context.Context, accountID, timespan string) (json.RawMessage, error)
	GetStorageMetricsOverview(ctx context.Context, timespan string) (*model.MetricsSummary, error)
	GetDatabaseMetrics(ctx context.Context, databaseID, timespan string) (json.RawMessage, error)
	GetDatabaseMetricsOverview(ctx context.Context, timespan string) (*model.MetricsSummary, error)
	GetActivityLogAnalysis(ctx context.Context, hoursBack int) (*model.ActivityAnalysis, error)
	GetAlertsOverview(ctx context.Context) (json.RawMessage, error)
	GetAlertRules(ctx context.Context) (json.RawMessage, error)
	// GetAlertDetails resolves an alert id first against Security Center, then
	// against Alerts Management.
	GetAlertDetails(ctx context.Context, alertID string) (*model.AlertDetails, error)
	GetApplicationInsights(ctx context.Context, appInsightsID, timespan string) (json.RawMessage, error)
	GetResourceHealth(ctx context.Context) (json.RawMessage, error)
	GetLogAnalytics(ctx context.Context, workspaceID, query, timespan string) (json.RawMessage, error)
	// GetUtilizationSummary is a best-effort aggregate; failed sections are
	// replaced by error envelopes and never fail the summary.
	GetUtilizationSummary(ctx context.Context) (*model.UtilizationSummary, error)
}

type service struct {
	arm       azurearm.Service
	graph     azuregraph.Service
	resources azureresources.Service
	cost      azurecostmanagement.Service
	logger    *slog.Logger
}
