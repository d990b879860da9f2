package response

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/elC0mpa/azure-doctor/model"
)

// ConvertAlertsSummary converts model.AlertsSummary to response.AlertsSummary
func ConvertAlertsSummary(summary *model.AlertsSummary) *AlertsSummary {
	if summary == nil {
		return nil
	}
	return &AlertsSummary{
		TotalAlerts:    summary.TotalAlerts,
		BySeverity:     summary.BySeverity,
		ByStatus:       summary.ByStatus,
		RecentAlerts:   convertAlerts(summary.Recent),
		CriticalAlerts: convertAlerts(summary.Critical),
		AllAlerts:      convertAlerts(summary.All),
	}
}

func convertAlerts(alerts []model.SecurityAlert) []SecurityAlert {
	out := make([]SecurityAlert, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, SecurityAlert{
			SubscriptionID:     alert.SubscriptionID,
			SubscriptionName:   alert.SubscriptionName,
			AlertID:            alert.AlertID,
			AlertName:          alert.AlertName,
			Severity:           alert.Severity,
			Status:             alert.Status,
			AlertType:          alert.AlertType,
			Description:        alert.Description,
			StartTime:          alert.StartTime,
			EndTime:            alert.EndTime,
			CompromisedEntity:  alert.CompromisedEntity,
			RemediationSteps:   alert.RemediationSteps,
			ExtendedProperties: alert.ExtendedProperties,
		})
	}
	return out
}

// ConvertAssessmentsSummary converts model.AssessmentsSummary to response.AssessmentsSummary
func ConvertAssessmentsSummary(summary *model.AssessmentsSummary) *AssessmentsSummary {
	if summary == nil {
		return nil
	}
	return &AssessmentsSummary{
		TotalAssessments:  summary.Total,
		BySeverity:        summary.BySeverity,
		ByStatus:          summary.ByStatus,
		FailedAssessments: convertAssessments(summary.Failed),
		CriticalFindings:  convertAssessments(summary.CriticalFindings),
		AllAssessments:    convertAssessments(summary.All),
	}
}

func convertAssessments(assessments []model.SecurityAssessment) []SecurityAssessment {
	out := make([]SecurityAssessment, 0, len(assessments))
	for _, assessment := range assessments {
		out = append(out, SecurityAssessment{
			SubscriptionID:    assessment.SubscriptionID,
			SubscriptionName:  assessment.SubscriptionName,
			AssessmentID:      assessment.AssessmentID,
			AssessmentName:    assessment.AssessmentName,
			DisplayName:       assessment.DisplayName,
			Description:       assessment.Description,
			Severity:          assessment.Severity,
			Category:          assessment.Categories,
			StatusCode:        assessment.StatusCode,
			StatusCause:       assessment.StatusCause,
			StatusDescription: assessment.StatusDescription,
			ResourceDetails:   assessment.ResourceDetails,
			AdditionalData:    assessment.AdditionalData,
		})
	}
	return out
}

// ConvertDefenderCoverage converts model.DefenderCoverage to response.DefenderCoverage
func ConvertDefenderCoverage(coverage *model.DefenderCoverage) *DefenderCoverage {
	if coverage == nil {
		return nil
	}

	bySubscription := make(map[string]*DefenderSubscriptionCoverage, len(coverage.BySubscription))
	for subID, sub := range coverage.BySubscription {
		services := make([]DefenderServiceState, 0, len(sub.Services))
		for _, service := range sub.Services {
			services = append(services, DefenderServiceState{Service: service.Service, Enabled: service.Enabled})
		}
		bySubscription[subID] = &DefenderSubscriptionCoverage{
			SubscriptionName: sub.SubscriptionName,
			Enabled:          sub.Enabled,
			Disabled:         sub.Disabled,
			Services:         services,
		}
	}

	byService := make(map[string]*DefenderServiceCount, len(coverage.ByService))
	for service, count := range coverage.ByService {
		byService[service] = &DefenderServiceCount{Enabled: count.Enabled, Disabled: count.Disabled}
	}

	pricings := make([]DefenderPricing, 0, len(coverage.Pricings))
	for _, pricing := range coverage.Pricings {
		pricings = append(pricings, DefenderPricing{
			SubscriptionID:     pricing.SubscriptionID,
			SubscriptionName:   pricing.SubscriptionName,
			ResourceType:       pricing.ResourceType,
			PricingTier:        pricing.PricingTier,
			Enabled:            pricing.Enabled,
			FreeTrialRemaining: pricing.FreeTrialRemaining,
			SubPlan:            pricing.SubPlan,
			Extensions:         pricing.Extensions,
		})
	}

	return &DefenderCoverage{
		TotalResourceTypes:     coverage.TotalResourceTypes,
		EnabledServices:        coverage.EnabledServices,
		DisabledServices:       coverage.DisabledServices,
		CoverageBySubscription: bySubscription,
		CoverageByService:      byService,
		Recommendations:        coverage.Recommendations,
		AllPricings:            pricings,
	}
}

// ConvertKeyVaultSummary converts model.KeyVaultSummary to response.KeyVaultSummary
func ConvertKeyVaultSummary(summary *model.KeyVaultSummary) *KeyVaultSummary {
	if summary == nil {
		return nil
	}

	vaults := make([]VaultAnalysis, 0, len(summary.Vaults))
	for _, vault := range summary.Vaults {
		vaults = append(vaults, VaultAnalysis{
			VaultName:      vault.VaultName,
			ResourceGroup:  vault.ResourceGroup,
			SubscriptionID: vault.SubscriptionID,
			Location:       vault.Location,
			VaultURI:       vault.VaultURI,
			SecurityConfig: VaultSecurityConfig{
				SoftDeleteEnabled:      vault.Config.SoftDeleteEnabled,
				PurgeProtectionEnabled: vault.Config.PurgeProtectionEnabled,
				PublicNetworkAccess:    vault.Config.PublicNetworkAccess,
				RetentionDays:          vault.Config.RetentionDays,
			},
			SecurityScore:   vault.Score,
			SecurityIssues:  vault.Issues,
			Recommendations: vault.Recommendations,
		})
	}

	critical := make([]VaultRisk, 0, len(summary.CriticalVaults))
	for _, risk := range summary.CriticalVaults {
		critical = append(critical, VaultRisk{
			VaultName:      risk.VaultName,
			SecurityScore:  risk.Score,
			CriticalIssues: risk.Issues,
		})
	}

	return &KeyVaultSummary{
		TotalKeyVaults:          summary.TotalVaults,
		AverageSecurityScore:    summary.AverageScore,
		VaultsWithIssues:        summary.VaultsWithIssues,
		CommonIssues:            summary.CommonIssues,
		SecurityRecommendations: summary.Recommendations,
		CriticalVaults:          critical,
		AllVaults:               vaults,
	}
}

// ConvertNetworkSecuritySummary converts model.NetworkSecuritySummary to response.NetworkSecuritySummary
func ConvertNetworkSecuritySummary(summary *model.NetworkSecuritySummary) *NetworkSecuritySummary {
	if summary == nil {
		return nil
	}

	nsgs := make([]NSGAnalysis, 0, len(summary.NSGs))
	for _, nsg := range summary.NSGs {
		rules := make([]RiskyRule, 0, len(nsg.RiskyRules))
		for _, rule := range nsg.RiskyRules {
			rules = append(rules, RiskyRule{
				RuleName:        rule.RuleName,
				RiskLevel:       rule.RiskLevel,
				RiskReasons:     rule.Reasons,
				Source:          rule.Source,
				DestinationPort: rule.DestinationPort,
				Protocol:        rule.Protocol,
				Access:          rule.Access,
				Direction:       rule.Direction,
			})
		}
		nsgs = append(nsgs, NSGAnalysis{
			NSGName:         nsg.Name,
			ResourceGroup:   nsg.ResourceGroup,
			SubscriptionID:  nsg.SubscriptionID,
			TotalRules:      nsg.TotalRules,
			RiskyRules:      rules,
			SecurityScore:   nsg.Score,
			Recommendations: nsg.Recommendations,
		})
	}

	firewalls := make([]FirewallAnalysis, 0, len(summary.Firewalls))
	for _, firewall := range summary.Firewalls {
		firewalls = append(firewalls, FirewallAnalysis{
			FirewallName:    firewall.Name,
			ResourceGroup:   firewall.ResourceGroup,
			SubscriptionID:  firewall.SubscriptionID,
			ThreatIntelMode: firewall.ThreatIntelMode,
			HasPolicy:       firewall.HasPolicy,
			SKU:             firewall.SKU,
			SecurityScore:   firewall.Score,
			Recommendations: firewall.Recommendations,
		})
	}

	risks := make([]SecurityRisk, 0, len(summary.Risks))
	for _, risk := range summary.Risks {
		risks = append(risks, SecurityRisk{
			ResourceType:  risk.ResourceType,
			ResourceName:  risk.ResourceName,
			SecurityScore: risk.Score,
			RiskCount:     risk.RiskCount,
		})
	}

	top := make([]RecommendationCount, 0, len(summary.TopRecommendations))
	for _, rec := range summary.TopRecommendations {
		top = append(top, RecommendationCount{Recommendation: rec.Recommendation, Count: rec.Count})
	}

	return &NetworkSecuritySummary{
		Overview: NetworkSecurityOverview{
			TotalNSGs:      summary.TotalNSGs,
			NSGsWithRisks:  summary.NSGsWithRisks,
			TotalFirewalls: summary.TotalFirewalls,
			TotalPublicIPs: summary.TotalPublicIPs,
		},
		SecurityRisks:    risks,
		NSGAnalysis:      nsgs,
		FirewallAnalysis: firewalls,
		PublicIPAnalysis: PublicIPAnalysis{
			TotalPublicIPs:      summary.PublicIPs.Total,
			AssociatedResources: summary.PublicIPs.Associated,
			UnassociatedIPs:     summary.PublicIPs.Unassociated,
			Recommendations:     summary.PublicIPs.Recommendations,
		},
		TopRecommendations: top,
	}
}

// ConvertSecureScoreReport converts model.SecureScoreReport to response.SecureScoreReport
func ConvertSecureScoreReport(report *model.SecureScoreReport) *SecureScoreReport {
	if report == nil {
		return nil
	}
	return &SecureScoreReport{
		SecureScore:          report.SecureScore,
		RegulatoryCompliance: report.RegulatoryCompliance,
	}
}

// ConvertIncidentsSummary converts model.IncidentsSummary to response.IncidentsSummary
func ConvertIncidentsSummary(summary *model.IncidentsSummary) *IncidentsSummary {
	if summary == nil {
		return nil
	}
	workspaces := make([]WorkspaceIncidents, 0, len(summary.Workspaces))
	for _, workspace := range summary.Workspaces {
		workspaces = append(workspaces, WorkspaceIncidents{
			WorkspaceName: workspace.WorkspaceName,
			WorkspaceID:   workspace.WorkspaceID,
			IncidentCount: workspace.IncidentCount,
			Incidents:     workspace.Incidents,
		})
	}
	return &IncidentsSummary{
		TotalIncidents:      summary.TotalIncidents,
		Workspaces:          workspaces,
		IncidentsBySeverity: summary.BySeverity,
	}
}

// ConvertThreatIntelSummary converts model.ThreatIntelSummary to response.ThreatIntelSummary
func ConvertThreatIntelSummary(summary *model.ThreatIntelSummary) *ThreatIntelSummary {
	if summary == nil {
		return nil
	}
	workspaces := make([]WorkspaceIndicators, 0, len(summary.Workspaces))
	for _, workspace := range summary.Workspaces {
		workspaces = append(workspaces, WorkspaceIndicators{
			WorkspaceName:   workspace.WorkspaceName,
			WorkspaceID:     workspace.WorkspaceID,
			IndicatorsCount: workspace.Count,
			Indicators:      workspace.Indicators,
		})
	}
	return &ThreatIntelSummary{
		TotalIndicators:  summary.TotalIndicators,
		Workspaces:       workspaces,
		IndicatorsByType: summary.ByType,
	}
}

// ConvertRecommendationsSummary converts model.RecommendationsSummary to response.RecommendationsSummary
func ConvertRecommendationsSummary(summary *model.RecommendationsSummary) *RecommendationsSummary {
	if summary == nil {
		return nil
	}
	return &RecommendationsSummary{
		TotalRecommendations:    summary.Total,
		CriticalRecommendations: convertRecommendations(summary.Critical),
		AllRecommendations:      convertRecommendations(summary.All),
	}
}

func convertRecommendations(recs []model.ProcessedRecommendation) []ProcessedRecommendation {
	out := make([]ProcessedRecommendation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, ProcessedRecommendation{
			ID:                     rec.ID,
			Name:                   rec.Name,
			DisplayName:            rec.DisplayName,
			Description:            rec.Description,
			Severity:               rec.Severity,
			Category:               rec.Categories,
			Status:                 rec.Status,
			RemediationDescription: rec.RemediationDescription,
			ImplementationEffort:   rec.ImplementationEffort,
			UserImpact:             rec.UserImpact,
			Threats:                rec.Threats,
			ResourceDetails:        rec.ResourceDetails,
			AdditionalData:         rec.AdditionalData,
		})
	}
	return out
}

// ConvertVMMetricsSummary converts model.MetricsSummary to the VM overview shape
func ConvertVMMetricsSummary(summary *model.MetricsSummary) *VMMetricsSummary {
	if summary == nil {
		return nil
	}
	items := make([]VMMetricsItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, VMMetricsItem{VMID: item.ID, VMName: item.Name, Metrics: item.Metrics})
	}
	return &VMMetricsSummary{
		Timespan:  summary.Timespan,
		VMMetrics: items,
		Summary:   VMMetricsSummaryCounts{TotalVMs: summary.Succeeded},
	}
}

// ConvertStorageMetricsSummary converts model.MetricsSummary to the storage overview shape
func ConvertStorageMetricsSummary(summary *model.MetricsSummary) *StorageMetricsSummary {
	if summary == nil {
		return nil
	}
	items := make([]StorageMetricsItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, StorageMetricsItem{StorageID: item.ID, StorageName: item.Name, Metrics: item.Metrics})
	}
	return &StorageMetricsSummary{
		Timespan:       summary.Timespan,
		StorageMetrics: items,
		Summary:        StorageMetricsSummaryCounts{TotalAccounts: summary.Succeeded},
	}
}

// ConvertDatabaseMetricsSummary converts model.MetricsSummary to the database overview shape
func ConvertDatabaseMetricsSummary(summary *model.MetricsSummary) *DatabaseMetricsSummary {
	if summary == nil {
		return nil
	}
	items := make([]DatabaseMetricsItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, DatabaseMetricsItem{
			DatabaseID:   item.ID,
			DatabaseName: item.Name,
			DatabaseType: item.Type,
			Metrics:      item.Metrics,
		})
	}
	return &DatabaseMetricsSummary{
		Timespan:        summary.Timespan,
		DatabaseMetrics: items,
		Summary:         DatabaseMetricsSummaryCounts{TotalDatabases: summary.Succeeded},
	}
}

// ConvertActivityAnalysis converts model.ActivityAnalysis to response.ActivityAnalysis
func ConvertActivityAnalysis(analysis *model.ActivityAnalysis) *ActivityAnalysis {
	if analysis == nil {
		return nil
	}

	activity := make(map[string]*ResourceActivity, len(analysis.ResourceActivity))
	for resourceID, entry := range analysis.ResourceActivity {
		activity[resourceID] = &ResourceActivity{
			EventCount:   entry.EventCount,
			LastActivity: entry.LastActivity,
			Operations:   entry.Operations,
		}
	}

	inactive := make([]InactiveResource, 0, len(analysis.Inactive))
	for _, entry := range analysis.Inactive {
		inactive = append(inactive, InactiveResource{
			ResourceID:   entry.ResourceID,
			EventCount:   entry.EventCount,
			LastActivity: entry.LastActivity,
		})
	}

	return &ActivityAnalysis{
		TimeRange: TimeRange{
			Start:         analysis.Start.Format(time.RFC3339),
			End:           analysis.End.Format(time.RFC3339),
			HoursAnalyzed: analysis.HoursAnalyzed,
		},
		ResourceActivity: activity,
		Summary: ActivitySummaryCounts{
			TotalEvents:       analysis.TotalEvents,
			UniqueResources:   analysis.UniqueResources,
			InactiveResources: inactive,
		},
	}
}

// ConvertAlertDetails converts model.AlertDetails to response.AlertDetails
func ConvertAlertDetails(details *model.AlertDetails) *AlertDetails {
	if details == nil {
		return nil
	}
	return &AlertDetails{
		Alert:            details.Alert,
		RemediationSteps: details.RemediationSteps,
		AlertType:        details.AlertType,
	}
}

// ConvertUtilizationSummary converts model.UtilizationSummary to response.UtilizationSummary
func ConvertUtilizationSummary(summary *model.UtilizationSummary) *UtilizationSummary {
	if summary == nil {
		return nil
	}
	return &UtilizationSummary{
		Metadata: UtilizationMetadata{
			SubscriptionID: summary.SubscriptionID,
			GeneratedAt:    summary.GeneratedAt.Format(time.RFC3339),
			AnalysisScope:  "resource_utilization",
		},
		UnusedResources:        summary.UnusedResources,
		PerformanceIssues:      PerformanceIssues{VMMetrics: summary.VMMetrics},
		AdvisorRecommendations: summary.AdvisorRecommendations,
		ActivityPatterns:       summary.ActivityPatterns,
		Summary: UtilizationSummaryCounts{
			TotalPotentiallyUnused:        summary.TotalPotentiallyUnused,
			CostOptimizationOpportunities: summary.CostOptimizationOpportunities,
			PerformanceAlerts:             summary.PerformanceAlerts,
		},
	}
}

// ConvertGraphExport converts model.GraphExport to response.GraphExport
func ConvertGraphExport(export *model.GraphExport) *GraphExport {
	if export == nil {
		return nil
	}

	nodes := make([]GraphNode, 0, len(export.Nodes))
	for _, node := range export.Nodes {
		nodes = append(nodes, GraphNode{
			ID:             node.ID,
			Name:           node.Name,
			Type:           node.Type,
			ResourceGroup:  node.ResourceGroup,
			Location:       node.Location,
			SubscriptionID: node.SubscriptionID,
			Tags:           node.Tags,
			Properties:     node.Properties,
		})
	}

	edges := make([]GraphEdge, 0, len(export.Edges))
	for _, edge := range export.Edges {
		edges = append(edges, GraphEdge{From: edge.From, To: edge.To, Relation: edge.Relation})
	}

	return &GraphExport{
		Format: "GraphML",
		Nodes:  nodes,
		Edges:  edges,
		Metadata: GraphMetadata{
			SubscriptionID:      export.SubscriptionID,
			GeneratedAt:         export.GeneratedAt.Format(time.RFC3339),
			IncludeNetwork:      export.IncludeNetwork,
			IncludeDependencies: export.IncludeDependencies,
		},
	}
}

// ConvertArchitectureData converts model.ArchitectureData to response.ArchitectureData.
// Failed sections are replaced by an error stub so the report keeps its shape.
func ConvertArchitectureData(data *model.ArchitectureData) *ArchitectureData {
	if data == nil {
		return nil
	}

	errs := make([]SectionError, 0, len(data.Errors))
	for _, sectionErr := range data.Errors {
		errs = append(errs, SectionError{
			Error:   true,
			Message: sectionErr.Message,
			Source:  sectionErr.Source,
		})
	}

	return &ArchitectureData{
		Metadata: ArchitectureMetadata{
			SubscriptionID: data.SubscriptionID,
			GeneratedAt:    data.GeneratedAt.Format(time.RFC3339),
			DataScope:      "comprehensive_architecture",
		},
		ResourceGroups: sectionOrStub(data.ResourceGroups, "resource groups"),
		Compute: ArchitectureCompute{
			VirtualMachines: sectionOrStub(data.VirtualMachines, "VMs"),
			AppServices:     sectionOrStub(data.AppServices, "App Services"),
		},
		Networking: ArchitectureNetworking{
			Topology:       sectionOrStub(data.NetworkTopology, "network topology"),
			SecurityGroups: sectionOrStub(data.SecurityGroups, "NSGs"),
		},
		Storage: ArchitectureStorage{
			StorageAccounts: sectionOrStub(data.StorageAccounts, "storage accounts"),
			Databases:       sectionOrStub(data.Databases, "databases"),
		},
		Dependencies: sectionOrStub(data.Dependencies, "dependencies"),
		Errors:       errs,
	}
}

func sectionOrStub(section json.RawMessage, what string) json.RawMessage {
	if section != nil {
		return section
	}
	stub, _ := json.Marshal(map[string]string{"error": fmt.Sprintf("Failed to retrieve %s", what)})
	return stub
}
