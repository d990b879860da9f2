package azuremonitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/elC0mpa/azure-doctor/model"
	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
	azurecostmanagement "github.com/elC0mpa/azure-doctor/service/azure/costmanagement"
	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
	azureresources "github.com/elC0mpa/azure-doctor/service/azure/resources"
)

func NewService(arm azurearm.Service, graph azuregraph.Service, resources azureresources.Service, cost azurecostmanagement.Service, logger *slog.Logger) *service {
	return &service{arm: arm, graph: graph, resources: resources, cost: cost, logger: logger}
}

// GetVMMetrics implements Service
func (s *service) GetVMMetrics(ctx context.Context, vmID, timespan string) (json.RawMessage, error) {
	if timespan == "" {
		timespan = "PT1H"
	}
	return s.resourceMetrics(ctx, vmID, map[string]string{
		"metricnames": "Percentage CPU,Available Memory Bytes,Disk Read Bytes/sec,Disk Write Bytes/sec,Network In Total,Network Out Total",
		"timespan":    timespan,
		"interval":    "PT1M",
		"aggregation": "Average,Maximum",
	})
}

// GetVMMetricsOverview implements Service
func (s *service) GetVMMetricsOverview(ctx context.Context, timespan string) (*model.MetricsSummary, error) {
	if timespan == "" {
		timespan = "PT1H"
	}
	return s.metricsFanOut(ctx, runningVMsQuery, timespan, func(row map[string]any) map[string]string {
		return map[string]string{
			"metricnames": "Percentage CPU",
			"timespan":    timespan,
			"interval":    "PT5M",
			"aggregation": "Average,Maximum",
		}
	})
}

// GetStorageMetrics implements Service
func (s *service) GetStorageMetrics(ctx context.Context, accountID, timespan string) (json.RawMessage, error) {
	if timespan == "" {
		timespan = "PT24H"
	}
	return s.resourceMetrics(ctx, accountID, map[string]string{
		"metricnames": "Transactions,UsedCapacity,Availability,SuccessServerLatency,SuccessE2ELatency",
		"timespan":    timespan,
		"interval":    "PT1H",
		"aggregation": "Total,Average,Maximum",
	})
}

// GetStorageMetricsOverview implements Service
func (s *service) GetStorageMetricsOverview(ctx context.Context, timespan string) (*model.MetricsSummary, error) {
	if timespan == "" {
		timespan = "PT24H"
	}
	return s.metricsFanOut(ctx, storageAccountsQuery, timespan, func(row map[string]any) map[string]string {
		return map[string]string{
			"metricnames": "Transactions,UsedCapacity,Availability",
			"timespan":    timespan,
			"interval":    "PT1H",
			"aggregation": "Total,Average",
		}
	})
}

// GetDatabaseMetrics implements Service
func (s *service) GetDatabaseMetrics(ctx context.Context, databaseID, timespan string) (json.RawMessage, error) {
	if timespan == "" {
		timespan = "PT24H"
	}
	return s.resourceMetrics(ctx, databaseID, map[string]string{
		"metricnames": "cpu_percent,dtu_consumption_percent,connection_successful,storage_percent,blocked_by_firewall",
		"timespan":    timespan,
		"interval":    "PT1H",
		"aggregation": "Average,Maximum,Total",
	})
}

// GetDatabaseMetricsOverview implements Service
func (s *service) GetDatabaseMetricsOverview(ctx context.Context, timespan string) (*model.MetricsSummary, error) {
	if timespan == "" {
		timespan = "PT24H"
	}
	return s.metricsFanOut(ctx, databasesQuery, timespan, func(row map[string]any) map[string]string {
		// SQL and Cosmos expose disjoint metric namespaces.
		metricNames := "TotalRequestUnits,ProvisionedThroughput,DocumentCount,DataUsage"
		if dbType, _ := row["type"].(string); strings.Contains(dbType, "Microsoft.Sql") {
			metricNames = "cpu_percent,dtu_consumption_percent,connection_successful,storage_percent"
		}
		return map[string]string{
			"metricnames": metricNames,
			"timespan":    timespan,
			"interval":    "PT1H",
			"aggregation": "Average,Maximum",
		}
	})
}

func (s *service) resourceMetrics(ctx context.Context, resourceID string, params map[string]string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/providers/Microsoft.Insights/metrics", resourceID)
	params["api-version"] = metricsAPIVersion
	return s.arm.Do(ctx, "GET", endpoint, params, nil)
}

// metricsFanOut discovers resources with the given query and collects metrics
// for each sequentially. Individual failures are logged and skipped; the
// summary only carries the resources that answered.
func (s *service) metricsFanOut(ctx context.Context, discoveryQuery, timespan string, paramsFor func(map[string]any) map[string]string) (*model.MetricsSummary, error) {
	rows, err := s.graph.QueryRows(ctx, discoveryQuery)
	if err != nil {
		return nil, err
	}

	summary := &model.MetricsSummary{
		Timespan: timespan,
		Items:    []model.ResourceMetrics{},
	}

	for _, row := range rows {
		id, _ := row["id"].(string)
		name, _ := row["name"].(string)
		resourceType, _ := row["type"].(string)
		if id == "" {
			continue
		}

		metrics, err := s.resourceMetrics(ctx, id, paramsFor(row))
		if err != nil {
			s.logger.Warn("metrics request failed", "resource", id, "error", err)
			continue
		}

		summary.Items = append(summary.Items, model.ResourceMetrics{
			ID:      id,
			Name:    name,
			Type:    resourceType,
			Metrics: metrics,
		})
		summary.Succeeded++
	}

	return summary, nil
}

// GetActivityLogAnalysis implements Service
func (s *service) GetActivityLogAnalysis(ctx context.Context, hoursBack int) (*model.ActivityAnalysis, error) {
	if hoursBack <= 0 {
		hoursBack = 168
	}
	end := time.Now()
	start := end.Add(-time.Duration(hoursBack) * time.Hour)

	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Insights/eventtypes/management/values", s.arm.SubscriptionID())
	filter := fmt.Sprintf("eventTimestamp ge '%s' and eventTimestamp le '%s'",
		start.UTC().Format("2006-01-02T15:04:05Z"), end.UTC().Format("2006-01-02T15:04:05Z"))

	raw, err := s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": activityLogAPIVersion,
		"$filter":     filter,
		"$select":     "eventTimestamp,operationName,resourceId,resourceGroupName,resourceProviderName,status,subStatus,caller",
	}, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Value []struct {
			EventTimestamp string `json:"eventTimestamp"`
			OperationName  struct {
				Value string `json:"value"`
			} `json:"operationName"`
			ResourceID string `json:"resourceId"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse activity log: %w", err)
	}

	analysis := &model.ActivityAnalysis{
		Start:            start,
		End:              end,
		HoursAnalyzed:    hoursBack,
		ResourceActivity: map[string]*model.ResourceActivity{},
		TotalEvents:      len(payload.Value),
		Inactive:         []model.InactiveResource{},
	}

	for _, event := range payload.Value {
		if event.ResourceID == "" {
			continue
		}
		activity, ok := analysis.ResourceActivity[event.ResourceID]
		if !ok {
			activity = &model.ResourceActivity{}
			analysis.ResourceActivity[event.ResourceID] = activity
		}
		activity.EventCount++
		activity.LastActivity = event.EventTimestamp
		activity.Operations = append(activity.Operations, event.OperationName.Value)
	}

	analysis.UniqueResources = len(analysis.ResourceActivity)

	// Fewer than 5 events over the window reads as an idle resource.
	for resourceID, activity := range analysis.ResourceActivity {
		if activity.EventCount < 5 {
			analysis.Inactive = append(analysis.Inactive, model.InactiveResource{
				ResourceID:   resourceID,
				EventCount:   activity.EventCount,
				LastActivity: activity.LastActivity,
			})
		}
	}

	return analysis, nil
}

// GetAlertsOverview implements Service
func (s *service) GetAlertsOverview(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.AlertsManagement/alerts", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": alertsOverviewAPIVersion,
		"alertState":  "New,Acknowledged",
	}, nil)
}

// GetAlertRules implements Service
func (s *service) GetAlertRules(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Insights/metricAlerts", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint,
		map[string]string{"api-version": metricAlertsAPIVersion}, nil)
}

// GetAlertDetails implements Service
func (s *service) GetAlertDetails(ctx context.Context, alertID string) (*model.AlertDetails, error) {
	secEndpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Security/alerts/%s", s.arm.SubscriptionID(), alertID)
	secRaw, err := s.arm.Do(ctx, "GET", secEndpoint,
		map[string]string{"api-version": securityAlertAPIVersion}, nil)
	if err == nil {
		var alert struct {
			Properties struct {
				RemediationSteps []any `json:"remediationSteps"`
			} `json:"properties"`
		}
		_ = json.Unmarshal(secRaw, &alert)
		return &model.AlertDetails{
			Alert:            secRaw,
			RemediationSteps: alert.Properties.RemediationSteps,
			AlertType:        "security",
		}, nil
	}

	amEndpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.AlertsManagement/alerts/%s", s.arm.SubscriptionID(), alertID)
	amRaw, err := s.arm.Do(ctx, "GET", amEndpoint,
		map[string]string{"api-version": alertsOverviewAPIVersion}, nil)
	if err != nil {
		return nil, err
	}
	return &model.AlertDetails{Alert: amRaw, AlertType: "metric"}, nil
}

// GetApplicationInsights implements Service
func (s *service) GetApplicationInsights(ctx context.Context, appInsightsID, timespan string) (json.RawMessage, error) {
	if timespan == "" {
		timespan = "PT24H"
	}
	if appInsightsID == "" {
		rows, err := s.graph.QueryRows(ctx, appInsightsComponentsQuery)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, ErrNoAppInsights
		}
		appInsightsID, _ = rows[0]["id"].(string)
		if appInsightsID == "" {
			return nil, ErrNoAppInsights
		}
	}

	return s.resourceMetrics(ctx, appInsightsID, map[string]string{
		"metricnames": "requests/count,requests/duration,requests/failed,exceptions/count,pageViews/count",
		"timespan":    timespan,
		"interval":    "PT1H",
		"aggregation": "Count,Average,Total",
	})
}

// GetResourceHealth implements Service
func (s *service) GetResourceHealth(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.ResourceHealth/availabilityStatuses", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": resourceHealthAPIVersion,
		"$filter":     "Properties/AvailabilityState ne 'Available'",
	}, nil)
}

// GetLogAnalytics implements Service
func (s *service) GetLogAnalytics(ctx context.Context, workspaceID, query, timespan string) (json.RawMessage, error) {
	if timespan == "" {
		timespan = "PT24H"
	}
	if workspaceID == "" {
		rows, err := s.graph.QueryRows(ctx, logAnalyticsWorkspacesQuery)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, ErrNoWorkspaces
		}
		workspaceID, _ = rows[0]["id"].(string)
		if workspaceID == "" {
			return nil, ErrNoWorkspaces
		}
	}
	if query == "" {
		query = defaultLogAnalyticsQuery
	}

	endpoint := fmt.Sprintf("%s/query", workspaceID)
	body := map[string]string{
		"query":    query,
		"timespan": timespan,
	}
	return s.arm.Do(ctx, "POST", endpoint,
		map[string]string{"api-version": logAnalyticsAPIVersion}, body)
}

// GetUtilizationSummary implements Service
func (s *service) GetUtilizationSummary(ctx context.Context) (*model.UtilizationSummary, error) {
	summary := &model.UtilizationSummary{
		SubscriptionID: s.arm.SubscriptionID(),
		GeneratedAt:    time.Now(),
	}

	unused, err := s.resources.GetUnusedResources(ctx)
	if err != nil {
		s.logger.Warn("unused resources lookup failed", "error", err)
		summary.UnusedResources = azurearm.ErrorJSON(err)
	} else {
		summary.UnusedResources = unused
		if rows, err := azuregraph.Rows(unused); err == nil {
			summary.TotalPotentiallyUnused = len(rows)
		}
	}

	advisor, err := s.cost.GetAdvisorDetailed(ctx)
	if err != nil {
		s.logger.Warn("advisor lookup failed", "error", err)
		summary.AdvisorRecommendations = azurearm.ErrorJSON(err)
	} else {
		summary.AdvisorRecommendations = advisor
		summary.CostOptimizationOpportunities = countAdvisorCategory(advisor, "Cost")
	}

	activity, err := s.GetActivityLogAnalysis(ctx, 168)
	if err != nil {
		s.logger.Warn("activity log lookup failed", "error", err)
		summary.ActivityPatterns = azurearm.ErrorJSON(err)
	} else if raw, err := json.Marshal(activity); err == nil {
		summary.ActivityPatterns = raw
	}

	vmMetrics, err := s.GetVMMetricsOverview(ctx, "PT24H")
	if err != nil {
		s.logger.Warn("vm metrics lookup failed", "error", err)
		summary.VMMetrics = azurearm.ErrorJSON(err)
	} else if raw, err := json.Marshal(vmMetrics); err == nil {
		summary.VMMetrics = raw
	}

	return summary, nil
}

func countAdvisorCategory(raw json.RawMessage, category string) int {
	var payload struct {
		Value []struct {
			Properties struct {
				Category string `json:"category"`
			} `json:"properties"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0
	}
	count := 0
	for _, rec := range payload.Value {
		if rec.Properties.Category == category {
			count++
		}
	}
	return count
}
