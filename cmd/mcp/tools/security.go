package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/azure-doctor/cmd/mcp/response"
	azuresecurity "github.com/elC0mpa/azure-doctor/service/azure/security"
)

// RegisterSecurityTools registers Security Center and Sentinel tools with the
// MCP server
func RegisterSecurityTools(s *server.MCPServer, security azuresecurity.Service) {
	s.AddTool(
		mcp.NewTool("get_security_center_alerts",
			mcp.WithDescription("Get Azure Security Center alerts and security incidents"),
		),
		makeSecurityHandler("security alerts", func(ctx context.Context) (any, error) {
			summary, err := security.GetSecurityCenterAlerts(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertAlertsSummary(summary), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_security_assessments",
			mcp.WithDescription("Get Azure Security Center security assessments and recommendations"),
		),
		makeSecurityHandler("security assessments", func(ctx context.Context) (any, error) {
			summary, err := security.GetSecurityAssessments(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertAssessmentsSummary(summary), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_defender_for_cloud_status",
			mcp.WithDescription("Get Microsoft Defender for Cloud enablement status and coverage"),
		),
		makeSecurityHandler("Defender status", func(ctx context.Context) (any, error) {
			coverage, err := security.GetDefenderStatus(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertDefenderCoverage(coverage), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_key_vault_security_status",
			mcp.WithDescription("Get Azure Key Vault security configuration and potential issues"),
		),
		makeSecurityHandler("Key Vault security", func(ctx context.Context) (any, error) {
			summary, err := security.GetKeyVaultSecurity(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertKeyVaultSummary(summary), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_network_security_analysis",
			mcp.WithDescription("Analyze network security configurations including NSGs, firewalls, and network access"),
		),
		makeSecurityHandler("network security analysis", func(ctx context.Context) (any, error) {
			summary, err := security.GetNetworkSecurityAnalysis(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertNetworkSecuritySummary(summary), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_secure_score_and_compliance",
			mcp.WithDescription("Get Microsoft Defender secure score and regulatory compliance summary"),
		),
		makeSecurityHandler("secure score", func(ctx context.Context) (any, error) {
			report, err := security.GetSecureScoreAndCompliance(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertSecureScoreReport(report), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_security_incidents",
			mcp.WithDescription("Get Azure Sentinel security incidents and their details"),
		),
		makeSecurityHandler("security incidents", func(ctx context.Context) (any, error) {
			summary, err := security.GetSecurityIncidents(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertIncidentsSummary(summary), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_threat_intelligence_indicators",
			mcp.WithDescription("Get threat intelligence indicators from Azure Sentinel"),
		),
		makeSecurityHandler("threat intelligence", func(ctx context.Context) (any, error) {
			summary, err := security.GetThreatIntelligence(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertThreatIntelSummary(summary), nil
		}),
	)

	s.AddTool(
		mcp.NewTool("get_security_recommendations_detailed",
			mcp.WithDescription("Get detailed security recommendations with remediation steps and impact assessment"),
		),
		makeSecurityHandler("security recommendations", func(ctx context.Context) (any, error) {
			summary, err := security.GetSecurityRecommendationsDetailed(ctx)
			if err != nil {
				return nil, err
			}
			return response.ConvertRecommendationsSummary(summary), nil
		}),
	)
}

func makeSecurityHandler(what string, fetch func(ctx context.Context) (any, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := fetch(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get %s: %v", what, err)), nil
		}

		return toolResultJSON(resp), nil
	}
}
