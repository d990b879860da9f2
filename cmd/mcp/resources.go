package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/azure-doctor/cmd/mcp/response"
	azurecostmanagement "github.com/elC0mpa/azure-doctor/service/azure/costmanagement"
	azuremonitor "github.com/elC0mpa/azure-doctor/service/azure/monitor"
	azureresources "github.com/elC0mpa/azure-doctor/service/azure/resources"
	azuresecurity "github.com/elC0mpa/azure-doctor/service/azure/security"
)

// registerResources exposes read-only snapshots of the subscription as MCP
// resources. Each one mirrors a tool called with its defaults.
func registerResources(
	s *server.MCPServer,
	cost azurecostmanagement.Service,
	resources azureresources.Service,
	monitor azuremonitor.Service,
	security azuresecurity.Service,
) {
	addResource(s, "https://azure-billing/subscription", "Subscription Details",
		"Details about the current subscription",
		func(ctx context.Context) (string, error) {
			return rawText(cost.GetSubscriptionDetails(ctx))
		})

	addResource(s, "https://azure-billing/billing-summary", "Billing Summary",
		"Summary of current billing for the subscription",
		func(ctx context.Context) (string, error) {
			return rawText(cost.GetBillingSummary(ctx))
		})

	addResource(s, "https://azure-billing/budgets", "Budgets",
		"All budgets for the subscription",
		func(ctx context.Context) (string, error) {
			return rawText(cost.GetBudgets(ctx))
		})

	addResource(s, "https://azure-resources/all", "All Resources",
		"All Azure resources in the subscription",
		func(ctx context.Context) (string, error) {
			return rawText(resources.GetAllResources(ctx, ""))
		})

	addResource(s, "https://azure-resources/network-topology", "Network Topology",
		"Network topology for the subscription",
		func(ctx context.Context) (string, error) {
			return rawText(resources.GetNetworkTopology(ctx))
		})

	addResource(s, "https://azure-resources/hierarchy", "Resource Hierarchy",
		"Resource hierarchy organized by resource groups",
		func(ctx context.Context) (string, error) {
			return rawText(resources.GetResourceHierarchy(ctx))
		})

	addResource(s, "https://azure-resources/dependencies", "Resource Dependencies",
		"Resource dependencies and relationships",
		func(ctx context.Context) (string, error) {
			return rawText(resources.GetResourceDependencies(ctx))
		})

	addResource(s, "https://azure-optimization/unused-resources", "Unused Resources",
		"Potentially unused or under-utilized resources",
		func(ctx context.Context) (string, error) {
			return rawText(resources.GetUnusedResources(ctx))
		})

	addResource(s, "https://azure-optimization/utilization-summary", "Utilization Summary",
		"Comprehensive resource utilization summary",
		func(ctx context.Context) (string, error) {
			summary, err := monitor.GetUtilizationSummary(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertUtilizationSummary(summary))
		})

	addResource(s, "https://azure-optimization/advisor-recommendations", "Advisor Recommendations",
		"Detailed Azure Advisor recommendations",
		func(ctx context.Context) (string, error) {
			return rawText(cost.GetAdvisorDetailed(ctx))
		})

	addResource(s, "https://azure-performance/vm-metrics", "VM Metrics",
		"VM performance metrics overview",
		func(ctx context.Context) (string, error) {
			summary, err := monitor.GetVMMetricsOverview(ctx, "PT1H")
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertVMMetricsSummary(summary))
		})

	addResource(s, "https://azure-performance/storage-metrics", "Storage Metrics",
		"Storage performance metrics overview",
		func(ctx context.Context) (string, error) {
			summary, err := monitor.GetStorageMetricsOverview(ctx, "PT24H")
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertStorageMetricsSummary(summary))
		})

	addResource(s, "https://azure-performance/application-insights", "Application Insights",
		"Application Insights performance data",
		func(ctx context.Context) (string, error) {
			data, err := monitor.GetApplicationInsights(ctx, "", "PT24H")
			if errors.Is(err, azuremonitor.ErrNoAppInsights) {
				return err.Error(), nil
			}
			return rawText(data, err)
		})

	addResource(s, "https://azure-performance/resource-health", "Resource Health",
		"Resource health status across the subscription",
		func(ctx context.Context) (string, error) {
			return rawText(monitor.GetResourceHealth(ctx))
		})

	addResource(s, "https://azure-performance/log-analytics", "Log Analytics",
		"Log Analytics performance data",
		func(ctx context.Context) (string, error) {
			data, err := monitor.GetLogAnalytics(ctx, "", "", "PT24H")
			if errors.Is(err, azuremonitor.ErrNoWorkspaces) {
				return err.Error(), nil
			}
			return rawText(data, err)
		})

	addResource(s, "https://azure-security/alerts", "Security Alerts",
		"Azure Security Center alerts and incidents",
		func(ctx context.Context) (string, error) {
			summary, err := security.GetSecurityCenterAlerts(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertAlertsSummary(summary))
		})

	addResource(s, "https://azure-security/assessments", "Security Assessments",
		"Azure Security Center security assessments",
		func(ctx context.Context) (string, error) {
			summary, err := security.GetSecurityAssessments(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertAssessmentsSummary(summary))
		})

	addResource(s, "https://azure-security/defender-status", "Defender Status",
		"Microsoft Defender for Cloud status",
		func(ctx context.Context) (string, error) {
			coverage, err := security.GetDefenderStatus(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertDefenderCoverage(coverage))
		})

	addResource(s, "https://azure-security/keyvault-security", "Key Vault Security",
		"Key Vault security configuration analysis",
		func(ctx context.Context) (string, error) {
			summary, err := security.GetKeyVaultSecurity(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertKeyVaultSummary(summary))
		})

	addResource(s, "https://azure-security/network-security", "Network Security",
		"Network security analysis including NSGs and firewalls",
		func(ctx context.Context) (string, error) {
			summary, err := security.GetNetworkSecurityAnalysis(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertNetworkSecuritySummary(summary))
		})

	addResource(s, "https://azure-security/secure-score", "Secure Score",
		"Microsoft Defender secure score and compliance",
		func(ctx context.Context) (string, error) {
			report, err := security.GetSecureScoreAndCompliance(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertSecureScoreReport(report))
		})

	addResource(s, "https://azure-security/incidents", "Security Incidents",
		"Azure Sentinel security incidents",
		func(ctx context.Context) (string, error) {
			summary, err := security.GetSecurityIncidents(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertIncidentsSummary(summary))
		})

	addResource(s, "https://azure-security/threat-intelligence", "Threat Intelligence",
		"Threat intelligence indicators",
		func(ctx context.Context) (string, error) {
			summary, err := security.GetThreatIntelligence(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertThreatIntelSummary(summary))
		})

	addResource(s, "https://azure-security/recommendations-detailed", "Security Recommendations",
		"Detailed security recommendations with remediation steps",
		func(ctx context.Context) (string, error) {
			summary, err := security.GetSecurityRecommendationsDetailed(ctx)
			if err != nil {
				return "", err
			}
			return convertedText(response.ConvertRecommendationsSummary(summary))
		})

	addResource(s, "https://azure-alerts/overview", "Alerts Overview",
		"Active alerts overview across the subscription",
		func(ctx context.Context) (string, error) {
			return rawText(monitor.GetAlertsOverview(ctx))
		})

	addResource(s, "https://azure-alerts/rules", "Alert Rules",
		"Metric alert rules and configurations",
		func(ctx context.Context) (string, error) {
			return rawText(monitor.GetAlertRules(ctx))
		})
}

func addResource(s *server.MCPServer, uri, name, description string, fetch func(ctx context.Context) (string, error)) {
	s.AddResource(
		mcp.NewResource(uri, name,
			mcp.WithResourceDescription(description),
			mcp.WithMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			text, err := fetch(ctx)
			if err != nil {
				return nil, err
			}

			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      request.Params.URI,
					MIMEType: "application/json",
					Text:     text,
				},
			}, nil
		},
	)
}

func rawText(data json.RawMessage, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func convertedText(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
