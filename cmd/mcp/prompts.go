package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerPrompts installs the analysis prompt templates. Prompts with an
// optional argument render a more specific variant when it is provided.
func registerPrompts(s *server.MCPServer) {
	s.AddPrompt(
		mcp.NewPrompt("analyze_costs",
			mcp.WithPromptDescription("A prompt template for analyzing Azure costs"),
			mcp.WithArgument("timeframe", mcp.ArgumentDescription("The time period for analysis (MonthToDate, TheLastMonth, etc.)")),
			mcp.WithArgument("group_by", mcp.ArgumentDescription("Property to group the analysis by (ResourceGroup, ResourceId, etc.)")),
		),
		func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			timeframe := request.Params.Arguments["timeframe"]
			groupBy := request.Params.Arguments["group_by"]

			var text string
			switch {
			case timeframe != "" && groupBy != "":
				text = fmt.Sprintf("Please analyze my Azure costs for the timeframe '%s', grouped by '%s'. What insights can you provide about my spending patterns, and are there any anomalies or areas where I could optimize costs?", timeframe, groupBy)
			case timeframe != "":
				text = fmt.Sprintf("Please analyze my Azure costs for the timeframe '%s'. What insights can you provide about my spending patterns, and are there any anomalies or areas where I could optimize costs?", timeframe)
			default:
				text = "Please analyze my Azure costs. What insights can you provide about my spending patterns, and are there any anomalies or areas where I could optimize costs?"
			}

			return promptResult("Azure cost analysis", text), nil
		},
	)

	addStaticPrompt(s, "budget_recommendations",
		"A prompt template for getting budget recommendations",
		"Based on my Azure usage and spending patterns, what budget recommendations would you suggest? Please analyze my current spending and provide realistic budget thresholds for different resource categories.")

	addStaticPrompt(s, "cost_reduction",
		"A prompt template for getting cost reduction suggestions",
		"Please analyze my Azure billing data and suggest specific ways I could reduce costs. Identify resources that might be underutilized, oversized, or could benefit from reserved instances or savings plans.")

	addVariantPrompt(s, "analyze_architecture",
		"A prompt template for analyzing Azure architecture",
		"focus", "The focus area for analysis (network, compute, storage, security, etc.)",
		"Please analyze my Azure architecture with a focus on '%s'. Examine the resources, their relationships, and provide insights about the current setup. Identify any potential improvements for reliability, security, performance, and cost optimization.",
		"Please analyze my Azure architecture. Examine all resources, their relationships, and provide insights about the current setup. Identify any potential improvements for reliability, security, performance, and cost optimization.")

	addStaticPrompt(s, "network_topology_analysis",
		"A prompt template for analyzing network topology",
		"Please analyze my Azure network topology. Examine the virtual networks, subnets, network security groups, and connectivity patterns. Identify any security gaps, performance bottlenecks, or architectural improvements that could be made.")

	addStaticPrompt(s, "resource_optimization",
		"A prompt template for resource optimization recommendations",
		"Please analyze my Azure resources and provide optimization recommendations. Look for unused resources, oversized instances, missing best practices, and opportunities for consolidation or rightsizing.")

	addVariantPrompt(s, "performance_analysis",
		"A prompt template for Azure performance analysis",
		"resource_type", "The type of resource to focus on (vm, storage, database, etc.)",
		"Please analyze the performance of my Azure %s resources. Identify any performance bottlenecks, high utilization issues, or optimization opportunities. Focus on CPU, memory, disk I/O, and network metrics.",
		"Please analyze the performance of my Azure resources. Identify any performance bottlenecks, high utilization issues, or optimization opportunities across VMs, storage accounts, and databases.")

	addStaticPrompt(s, "unused_resources_cleanup",
		"A prompt template for identifying unused resources that can be cleaned up",
		"Please identify unused or under-utilized Azure resources that could potentially be deleted to reduce costs. Look for stopped VMs, unattached disks, unused network interfaces, and resources with minimal activity. Provide specific recommendations for cleanup while considering data retention and business requirements.")

	addStaticPrompt(s, "utilization_summary",
		"A prompt template for comprehensive resource utilization analysis",
		"Please provide a comprehensive summary of my Azure resource utilization. Include performance metrics, usage patterns, cost optimization opportunities, and specific recommendations for improving efficiency. Focus on actionable insights that can reduce costs and improve performance.")

	addVariantPrompt(s, "advisor_insights",
		"A prompt template for Azure Advisor recommendations",
		"category", "The category to focus on (Cost, Performance, Security, Reliability, etc.)",
		"Please analyze Azure Advisor recommendations specifically for '%s'. Provide detailed insights and prioritized action items based on the recommendations.",
		"Please analyze all Azure Advisor recommendations. Categorize them by impact and effort, and provide a prioritized action plan for implementing these improvements.")

	addVariantPrompt(s, "security_assessment",
		"A prompt template for comprehensive Azure security assessment",
		"focus_area", "The security area to focus on (alerts, assessments, network, etc.)",
		"Please conduct a comprehensive security assessment of my Azure environment with focus on '%s'. Identify security alerts, failed assessments, misconfigurations, and provide prioritized remediation steps.",
		"Please conduct a comprehensive security assessment of my Azure environment. Analyze security alerts, assessments, Defender for Cloud status, Key Vault configurations, and network security. Provide prioritized recommendations for improving security posture.")

	addStaticPrompt(s, "security_alerts_analysis",
		"A prompt template for analyzing security alerts and incidents",
		"Please analyze my Azure Security Center alerts and security incidents. Focus on critical and high-severity alerts, recent security events, and provide detailed remediation guidance for each type of security issue identified.")

	addStaticPrompt(s, "defender_coverage_analysis",
		"A prompt template for analyzing Microsoft Defender for Cloud coverage",
		"Please analyze my Microsoft Defender for Cloud coverage across all subscriptions and resource types. Identify gaps in protection, recommend enabling Defender for critical services, and provide cost-benefit analysis for security coverage improvements.")

	addStaticPrompt(s, "network_security_review",
		"A prompt template for network security configuration review",
		"Please review my Azure network security configurations including Network Security Groups, Azure Firewalls, and public IP exposure. Identify overly permissive rules, security gaps, and provide specific recommendations to improve network security posture.")

	addStaticPrompt(s, "keyvault_security_audit",
		"A prompt template for Key Vault security audit",
		"Please audit my Azure Key Vault security configurations. Check for proper soft delete, purge protection, network access restrictions, and provide recommendations to improve secret management security across all Key Vaults.")

	addVariantPrompt(s, "security_compliance_review",
		"A prompt template for security compliance review",
		"standard", "The compliance standard to focus on (ISO 27001, SOC 2, PCI DSS, etc.)",
		"Please review my Azure security posture against '%[1]s' compliance requirements. Analyze current assessments, identify compliance gaps, and provide a roadmap for achieving and maintaining '%[1]s' compliance.",
		"Please review my Azure security compliance status across all applicable standards. Identify failed controls, compliance gaps, and provide prioritized recommendations for improving overall compliance posture.")

	addVariantPrompt(s, "alerts_analysis",
		"A prompt template for analyzing Azure alerts and their remediation",
		"severity", "Filter by alert severity (Critical, High, Medium, Low)",
		"Please analyze my Azure alerts filtered by %s severity. Focus on active alerts, their root causes, and provide step-by-step remediation guidance. Include impact assessment and prevention strategies.",
		"Please analyze all my Azure alerts across the subscription. Categorize by severity and type, identify patterns, and provide comprehensive remediation guidance for critical issues. Include recommendations for alert optimization.")

	addVariantPrompt(s, "performance_troubleshooting",
		"A prompt template for performance troubleshooting using monitoring data",
		"resource_type", "Focus on specific resource type (vm, app-service, database, etc.)",
		"Please troubleshoot performance issues in my Azure %s resources. Analyze metrics, logs, and health status to identify bottlenecks, resource constraints, and optimization opportunities. Provide specific remediation steps.",
		"Please perform comprehensive performance troubleshooting across my Azure environment. Analyze Application Insights, Log Analytics, and resource health data to identify performance issues, bottlenecks, and provide actionable remediation steps.")

	addStaticPrompt(s, "security_incident_response",
		"A prompt template for security incident response and remediation",
		"Please analyze my Azure security incidents and alerts. Prioritize by severity and impact, provide detailed incident response procedures, remediation steps, and preventive measures. Include threat intelligence context where available.")

	addStaticPrompt(s, "threat_hunting",
		"A prompt template for proactive threat hunting using Azure security data",
		"Please conduct proactive threat hunting across my Azure environment. Analyze security incidents, threat intelligence indicators, and security assessments to identify potential threats, IOCs, and attack patterns. Provide hunting queries and remediation strategies.")

	addVariantPrompt(s, "compliance_remediation",
		"A prompt template for compliance remediation based on security assessments",
		"standard", "Focus on specific compliance standard",
		"Please analyze my Azure security posture for %s compliance. Review security assessments, identify compliance gaps, and provide detailed remediation roadmap with prioritized actions and timelines.",
		"Please analyze my Azure security compliance across all standards. Review secure score, regulatory compliance assessments, and provide comprehensive remediation plan to improve security posture and compliance ratings.")

	addStaticPrompt(s, "alert_optimization",
		"A prompt template for optimizing alert rules and reducing noise",
		"Please analyze my Azure alert rules and configurations. Identify noisy alerts, gaps in monitoring coverage, and opportunities for optimization. Provide recommendations for improving alert quality, reducing false positives, and ensuring critical issues are properly monitored.")
}

func addStaticPrompt(s *server.MCPServer, name, description, text string) {
	s.AddPrompt(
		mcp.NewPrompt(name, mcp.WithPromptDescription(description)),
		func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return promptResult(description, text), nil
		},
	)
}

// addVariantPrompt registers a prompt with one optional argument. When the
// argument is set it is formatted into withArg, otherwise withoutArg is used
// as-is.
func addVariantPrompt(s *server.MCPServer, name, description, arg, argDescription, withArg, withoutArg string) {
	s.AddPrompt(
		mcp.NewPrompt(name,
			mcp.WithPromptDescription(description),
			mcp.WithArgument(arg, mcp.ArgumentDescription(argDescription)),
		),
		func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			text := withoutArg
			if value := request.Params.Arguments[arg]; value != "" {
				text = fmt.Sprintf(withArg, value)
			}

			return promptResult(description, text), nil
		},
	)
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
