package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/azure-doctor/cmd/mcp/response"
	"github.com/elC0mpa/azure-doctor/model"
	azuremonitor "github.com/elC0mpa/azure-doctor/service/azure/monitor"
)

// RegisterMonitorTools registers performance and alerting tools with the MCP
// server
func RegisterMonitorTools(s *server.MCPServer, monitor azuremonitor.Service) {
	s.AddTool(
		mcp.NewTool("get_vm_performance_metrics",
			mcp.WithDescription("Get performance metrics for Virtual Machines (CPU, Memory, Disk, Network)"),
			mcp.WithString("vm_resource_id", mcp.Description("Full ARM ID of one VM, omit for an overview of running VMs")),
			mcp.WithString("timespan", mcp.Description("ISO 8601 duration, e.g. PT1H, PT24H, P7D")),
		),
		makeMetricsHandler("VM metrics", "vm_resource_id", "PT1H",
			monitor.GetVMMetrics, monitor.GetVMMetricsOverview, response.ConvertVMMetricsSummary),
	)

	s.AddTool(
		mcp.NewTool("get_storage_performance_metrics",
			mcp.WithDescription("Get performance metrics for Storage Accounts (transactions, capacity, availability)"),
			mcp.WithString("storage_account_id", mcp.Description("Full ARM ID of one storage account, omit for an overview")),
			mcp.WithString("timespan", mcp.Description("ISO 8601 duration, e.g. PT1H, PT24H, P7D")),
		),
		makeMetricsHandler("storage metrics", "storage_account_id", "PT24H",
			monitor.GetStorageMetrics, monitor.GetStorageMetricsOverview, response.ConvertStorageMetricsSummary),
	)

	s.AddTool(
		mcp.NewTool("get_database_performance_metrics",
			mcp.WithDescription("Get performance metrics for databases (DTU, CPU, connections, storage)"),
			mcp.WithString("database_id", mcp.Description("Full ARM ID of one database, omit for an overview")),
			mcp.WithString("timespan", mcp.Description("ISO 8601 duration, e.g. PT1H, PT24H, P7D")),
		),
		makeMetricsHandler("database metrics", "database_id", "PT24H",
			monitor.GetDatabaseMetrics, monitor.GetDatabaseMetricsOverview, response.ConvertDatabaseMetricsSummary),
	)

	s.AddTool(
		mcp.NewTool("get_activity_log_analysis",
			mcp.WithDescription("Get activity log analysis to identify resource usage patterns and rarely accessed resources"),
			mcp.WithNumber("hours_back", mcp.Description("How far back to analyze, defaults to 168 (one week)")),
		),
		makeActivityLogHandler(monitor),
	)

	s.AddTool(
		mcp.NewTool("get_resource_utilization_summary",
			mcp.WithDescription("Get a comprehensive summary of resource utilization across the subscription"),
		),
		makeUtilizationSummaryHandler(monitor),
	)

	s.AddTool(
		mcp.NewTool("get_alerts_overview",
			mcp.WithDescription("Get active alerts from Azure Alerts Management across all subscriptions"),
		),
		makeRawHandler("alerts", monitor.GetAlertsOverview),
	)

	s.AddTool(
		mcp.NewTool("get_alert_rules",
			mcp.WithDescription("Get metric alert rules and their configurations"),
		),
		makeRawHandler("alert rules", monitor.GetAlertRules),
	)

	s.AddTool(
		mcp.NewTool("get_alert_details",
			mcp.WithDescription("Get detailed alert information including remediation steps"),
			mcp.WithString("alert_id", mcp.Required(), mcp.Description("Full ARM ID of the alert")),
		),
		makeAlertDetailsHandler(monitor),
	)

	s.AddTool(
		mcp.NewTool("get_application_insights_data",
			mcp.WithDescription("Get Application Insights telemetry and performance data"),
			mcp.WithString("app_insights_id", mcp.Description("Full ARM ID of one component, omit to use the first one found")),
			mcp.WithString("timespan", mcp.Description("ISO 8601 duration, e.g. PT1H, PT24H, P7D")),
		),
		makeAppInsightsHandler(monitor),
	)

	s.AddTool(
		mcp.NewTool("get_resource_health_status",
			mcp.WithDescription("Get resource health status across the subscription"),
		),
		makeRawHandler("resource health", monitor.GetResourceHealth),
	)

	s.AddTool(
		mcp.NewTool("get_log_analytics_data",
			mcp.WithDescription("Query Log Analytics workspace for performance and diagnostic data"),
			mcp.WithString("workspace_id", mcp.Description("Full ARM ID of the workspace, omit to use the first one found")),
			mcp.WithString("query", mcp.Description("KQL query, defaults to a performance counter summary")),
			mcp.WithString("timespan", mcp.Description("ISO 8601 duration, e.g. PT1H, PT24H, P7D")),
		),
		makeLogAnalyticsHandler(monitor),
	)
}

// makeMetricsHandler branches on the resource id argument: a single resource
// returns the raw metrics payload, no id returns the discovered overview.
func makeMetricsHandler[T any](
	what, idParam, defaultTimespan string,
	single func(ctx context.Context, id, timespan string) (json.RawMessage, error),
	overview func(ctx context.Context, timespan string) (*model.MetricsSummary, error),
	convert func(summary *model.MetricsSummary) *T,
) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resourceID := request.GetString(idParam, "")
		timespan := request.GetString("timespan", defaultTimespan)

		if resourceID != "" {
			data, err := single(ctx, resourceID, timespan)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get %s: %v", what, err)), nil
			}
			return mcp.NewToolResultText(string(data)), nil
		}

		summary, err := overview(ctx, timespan)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get %s: %v", what, err)), nil
		}

		return toolResultJSON(convert(summary)), nil
	}
}

func makeActivityLogHandler(monitor azuremonitor.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		hoursBack := request.GetInt("hours_back", 168)

		analysis, err := monitor.GetActivityLogAnalysis(ctx, hoursBack)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get activity logs: %v", err)), nil
		}

		return toolResultJSON(response.ConvertActivityAnalysis(analysis)), nil
	}
}

func makeUtilizationSummaryHandler(monitor azuremonitor.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := monitor.GetUtilizationSummary(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get utilization summary: %v", err)), nil
		}

		return toolResultJSON(response.ConvertUtilizationSummary(summary)), nil
	}
}

func makeAlertDetailsHandler(monitor azuremonitor.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		alertID := request.GetString("alert_id", "")
		if alertID == "" {
			return mcp.NewToolResultError("alert_id is required"), nil
		}

		details, err := monitor.GetAlertDetails(ctx, alertID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get alert details: %v", err)), nil
		}

		return toolResultJSON(response.ConvertAlertDetails(details)), nil
	}
}

func makeAppInsightsHandler(monitor azuremonitor.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		appInsightsID := request.GetString("app_insights_id", "")
		timespan := request.GetString("timespan", "PT24H")

		data, err := monitor.GetApplicationInsights(ctx, appInsightsID, timespan)
		if errors.Is(err, azuremonitor.ErrNoAppInsights) {
			return mcp.NewToolResultText(err.Error()), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get Application Insights data: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeLogAnalyticsHandler(monitor azuremonitor.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		workspaceID := request.GetString("workspace_id", "")
		query := request.GetString("query", "")
		timespan := request.GetString("timespan", "PT24H")

		data, err := monitor.GetLogAnalytics(ctx, workspaceID, query, timespan)
		if errors.Is(err, azuremonitor.ErrNoWorkspaces) {
			return mcp.NewToolResultText(err.Error()), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to query Log Analytics: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}
