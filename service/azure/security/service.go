package azuresecurity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/elC0mpa/azure-doctor/model"
	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
)

func NewService(arm azurearm.Service, graph azuregraph.Service, logger *slog.Logger) *service {
	return &service{arm: arm, graph: graph, logger: logger}
}

type subscription struct {
	SubscriptionID string `json:"subscriptionId"`
	DisplayName    string `json:"displayName"`
}

func (s *service) listSubscriptions(ctx context.Context) ([]subscription, error) {
	raw, err := s.arm.Do(ctx, "GET", "/subscriptions",
		map[string]string{"api-version": subscriptionsAPIVersion}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	var payload struct {
		Value []subscription `json:"value"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse subscriptions: %w", err)
	}
	return payload.Value, nil
}

// forEachSubscription runs one request per visible subscription and hands
// the parsed value array to collect. Subscriptions that refuse the call are
// skipped.
func (s *service) forEachSubscription(ctx context.Context, endpointFor func(subID string) string, apiVersion string, collect func(sub subscription, values []json.RawMessage)) error {
	subs, err := s.listSubscriptions(ctx)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		raw, err := s.arm.Do(ctx, "GET", endpointFor(sub.SubscriptionID),
			map[string]string{"api-version": apiVersion}, nil)
		if err != nil {
			s.logger.Warn("subscription skipped", "subscription", sub.SubscriptionID, "error", err)
			continue
		}
		var payload struct {
			Value []json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.logger.Warn("subscription response unparseable", "subscription", sub.SubscriptionID, "error", err)
			continue
		}
		collect(sub, payload.Value)
	}
	return nil
}

// GetSecurityCenterAlerts implements Service
func (s *service) GetSecurityCenterAlerts(ctx context.Context) (*model.AlertsSummary, error) {
	summary := &model.AlertsSummary{
		BySeverity: map[string]int{},
		ByStatus:   map[string]int{},
		Recent:     []model.SecurityAlert{},
		Critical:   []model.SecurityAlert{},
		All:        []model.SecurityAlert{},
	}

	err := s.forEachSubscription(ctx, func(subID string) string {
		return fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Security/alerts", subID)
	}, alertsAPIVersion, func(sub subscription, values []json.RawMessage) {
		for _, raw := range values {
			var alert struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				Properties struct {
					Severity           string         `json:"severity"`
					Status             string         `json:"status"`
					AlertType          string         `json:"alertType"`
					Description        string         `json:"description"`
					StartTimeUtc       string         `json:"startTimeUtc"`
					EndTimeUtc         string         `json:"endTimeUtc"`
					CompromisedEntity  string         `json:"compromisedEntity"`
					RemediationSteps   []any          `json:"remediationSteps"`
					ExtendedProperties map[string]any `json:"extendedProperties"`
				} `json:"properties"`
			}
			if err := json.Unmarshal(raw, &alert); err != nil {
				continue
			}
			summary.All = append(summary.All, model.SecurityAlert{
				SubscriptionID:     sub.SubscriptionID,
				SubscriptionName:   displayName(sub),
				AlertID:            alert.ID,
				AlertName:          alert.Name,
				Severity:           alert.Properties.Severity,
				Status:             alert.Properties.Status,
				AlertType:          alert.Properties.AlertType,
				Description:        alert.Properties.Description,
				StartTime:          alert.Properties.StartTimeUtc,
				EndTime:            alert.Properties.EndTimeUtc,
				CompromisedEntity:  alert.Properties.CompromisedEntity,
				RemediationSteps:   alert.Properties.RemediationSteps,
				ExtendedProperties: alert.Properties.ExtendedProperties,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	summary.TotalAlerts = len(summary.All)
	recentCutoff := time.Now().UTC().AddDate(0, 0, -7)
	for _, alert := range summary.All {
		severity := orUnknown(alert.Severity)
		status := orUnknown(alert.Status)
		summary.BySeverity[severity]++
		summary.ByStatus[status]++

		// Critical means exactly High or Critical, no case folding.
		if alert.Severity == "High" || alert.Severity == "Critical" {
			summary.Critical = append(summary.Critical, alert)
		}
		if alert.StartTime != "" {
			if started, err := time.Parse(time.RFC3339, alert.StartTime); err == nil && !started.Before(recentCutoff) {
				summary.Recent = append(summary.Recent, alert)
			}
		}
	}

	return summary, nil
}

// GetSecurityAssessments implements Service
func (s *service) GetSecurityAssessments(ctx context.Context) (*model.AssessmentsSummary, error) {
	summary := &model.AssessmentsSummary{
		BySeverity:       map[string]int{},
		ByStatus:         map[string]int{},
		Failed:           []model.SecurityAssessment{},
		CriticalFindings: []model.SecurityAssessment{},
		All:              []model.SecurityAssessment{},
	}

	err := s.forEachSubscription(ctx, func(subID string) string {
		return fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Security/assessments", subID)
	}, assessmentsAPIVersion, func(sub subscription, values []json.RawMessage) {
		for _, raw := range values {
			var assessment struct {
				ID         string `json:"id"`
				Name       string `json:"name"`
				Properties struct {
					DisplayName string `json:"displayName"`
					Description string `json:"description"`
					Metadata    struct {
						Severity   string `json:"severity"`
						Categories []any  `json:"categories"`
					} `json:"metadata"`
					Status struct {
						Code        string `json:"code"`
						Cause       string `json:"cause"`
						Description string `json:"description"`
					} `json:"status"`
					ResourceDetails map[string]any `json:"resourceDetails"`
					AdditionalData  map[string]any `json:"additionalData"`
				} `json:"properties"`
			}
			if err := json.Unmarshal(raw, &assessment); err != nil {
				continue
			}
			summary.All = append(summary.All, model.SecurityAssessment{
				SubscriptionID:    sub.SubscriptionID,
				SubscriptionName:  displayName(sub),
				AssessmentID:      assessment.ID,
				AssessmentName:    assessment.Name,
				DisplayName:       assessment.Properties.DisplayName,
				Description:       assessment.Properties.Description,
				Severity:          assessment.Properties.Metadata.Severity,
				Categories:        assessment.Properties.Metadata.Categories,
				StatusCode:        assessment.Properties.Status.Code,
				StatusCause:       assessment.Properties.Status.Cause,
				StatusDescription: assessment.Properties.Status.Description,
				ResourceDetails:   assessment.Properties.ResourceDetails,
				AdditionalData:    assessment.Properties.AdditionalData,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	summary.Total = len(summary.All)
	for _, assessment := range summary.All {
		summary.BySeverity[orUnknown(assessment.Severity)]++
		summary.ByStatus[orUnknown(assessment.StatusCode)]++

		failed := assessment.StatusCode == "Unhealthy" || assessment.StatusCode == "Failed"
		if failed {
			summary.Failed = append(summary.Failed, assessment)
		}
		if failed && (assessment.Severity == "High" || assessment.Severity == "Critical") {
			summary.CriticalFindings = append(summary.CriticalFindings, assessment)
		}
	}

	return summary, nil
}

// GetDefenderStatus implements Service
func (s *service) GetDefenderStatus(ctx context.Context) (*model.DefenderCoverage, error) {
	coverage := &model.DefenderCoverage{
		BySubscription:  map[string]*model.DefenderSubscriptionCoverage{},
		ByService:       map[string]*model.DefenderServiceCount{},
		Recommendations: []string{},
		Pricings:        []model.DefenderPricing{},
	}

	err := s.forEachSubscription(ctx, func(subID string) string {
		return fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Security/pricings", subID)
	}, pricingsAPIVersion, func(sub subscription, values []json.RawMessage) {
		for _, raw := range values {
			var pricing struct {
				Name       string `json:"name"`
				Properties struct {
					PricingTier            string `json:"pricingTier"`
					FreeTrialRemainingTime string `json:"freeTrialRemainingTime"`
					SubPlan                string `json:"subPlan"`
					Extensions             []any  `json:"extensions"`
				} `json:"properties"`
			}
			if err := json.Unmarshal(raw, &pricing); err != nil {
				continue
			}
			coverage.Pricings = append(coverage.Pricings, model.DefenderPricing{
				SubscriptionID:     sub.SubscriptionID,
				SubscriptionName:   displayName(sub),
				ResourceType:       pricing.Name,
				PricingTier:        pricing.Properties.PricingTier,
				Enabled:            pricing.Properties.PricingTier == "Standard",
				FreeTrialRemaining: pricing.Properties.FreeTrialRemainingTime,
				SubPlan:            pricing.Properties.SubPlan,
				Extensions:         pricing.Properties.Extensions,
			})
		}
	})
	if err != nil {
		return nil, err
	}

	coverage.TotalResourceTypes = len(coverage.Pricings)
	for _, pricing := range coverage.Pricings {
		if pricing.Enabled {
			coverage.EnabledServices++
		} else {
			coverage.DisabledServices++
		}

		subCoverage, ok := coverage.BySubscription[pricing.SubscriptionID]
		if !ok {
			subCoverage = &model.DefenderSubscriptionCoverage{SubscriptionName: pricing.SubscriptionName}
			coverage.BySubscription[pricing.SubscriptionID] = subCoverage
		}
		if pricing.Enabled {
			subCoverage.Enabled++
		} else {
			subCoverage.Disabled++
		}
		subCoverage.Services = append(subCoverage.Services, model.DefenderServiceState{
			Service: pricing.ResourceType,
			Enabled: pricing.Enabled,
		})

		serviceCount, ok := coverage.ByService[pricing.ResourceType]
		if !ok {
			serviceCount = &model.DefenderServiceCount{}
			coverage.ByService[pricing.ResourceType] = serviceCount
		}
		if pricing.Enabled {
			serviceCount.Enabled++
		} else {
			serviceCount.Disabled++
		}
	}

	for _, service := range criticalDefenderServices {
		if count, ok := coverage.ByService[service]; ok && count.Disabled > 0 {
			coverage.Recommendations = append(coverage.Recommendations,
				fmt.Sprintf("Enable Defender for %s - %d subscription(s) not protected", service, count.Disabled))
		}
	}

	return coverage, nil
}

// GetKeyVaultSecurity implements Service
func (s *service) GetKeyVaultSecurity(ctx context.Context) (*model.KeyVaultSummary, error) {
	vaults, err := s.graph.QueryRows(ctx, keyVaultsQuery)
	if err != nil {
		return nil, err
	}

	summary := &model.KeyVaultSummary{
		TotalVaults:     len(vaults),
		CommonIssues:    map[string]int{},
		Recommendations: []string{},
		CriticalVaults:  []model.VaultRisk{},
		Vaults:          []model.VaultAnalysis{},
	}

	scoreTotal := 0
	for _, vault := range vaults {
		analysis := analyzeVault(vault)
		scoreTotal += analysis.Score
		summary.Vaults = append(summary.Vaults, analysis)

		for _, issue := range analysis.Issues {
			summary.CommonIssues[issue]++
		}
		if analysis.Score < 70 {
			summary.CriticalVaults = append(summary.CriticalVaults, model.VaultRisk{
				VaultName: analysis.VaultName,
				Score:     analysis.Score,
				Issues:    analysis.Issues,
			})
		}
	}
	summary.VaultsWithIssues = len(summary.CriticalVaults)

	if len(summary.Vaults) > 0 {
		average := float64(scoreTotal) / float64(len(summary.Vaults))
		summary.AverageScore = float64(int(average*100+0.5)) / 100
	}

	// Top three issues by affected vault count.
	type issueCount struct {
		issue string
		count int
	}
	ranked := make([]issueCount, 0, len(summary.CommonIssues))
	for issue, count := range summary.CommonIssues {
		ranked = append(ranked, issueCount{issue, count})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })
	for i, entry := range ranked {
		if i == 3 {
			break
		}
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("Address '%s' affecting %d vault(s)", entry.issue, entry.count))
	}

	return summary, nil
}

func analyzeVault(vault map[string]any) model.VaultAnalysis {
	softDelete := boolField(vault, "enableSoftDelete")
	purgeProtection := boolField(vault, "enablePurgeProtection")
	publicAccess := stringField(vault, "publicNetworkAccess")
	retentionDays := intField(vault, "softDeleteRetentionInDays")

	analysis := model.VaultAnalysis{
		VaultName:      stringField(vault, "name"),
		ResourceGroup:  stringField(vault, "resourceGroup"),
		SubscriptionID: stringField(vault, "subscriptionId"),
		Location:       stringField(vault, "location"),
		VaultURI:       stringField(vault, "vaultUri"),
		Config: model.VaultSecurityConfig{
			SoftDeleteEnabled:      softDelete,
			PurgeProtectionEnabled: purgeProtection,
			PublicNetworkAccess:    publicAccess,
			RetentionDays:          retentionDays,
		},
		Issues:          []string{},
		Recommendations: []string{},
	}

	score := 100
	if !softDelete {
		analysis.Issues = append(analysis.Issues, "Soft delete not enabled")
		analysis.Recommendations = append(analysis.Recommendations, "Enable soft delete for data protection")
		score -= 25
	}
	if !purgeProtection {
		analysis.Issues = append(analysis.Issues, "Purge protection not enabled")
		analysis.Recommendations = append(analysis.Recommendations, "Enable purge protection for critical vaults")
		score -= 20
	}
	if strings.EqualFold(publicAccess, "enabled") {
		analysis.Issues = append(analysis.Issues, "Public network access enabled")
		analysis.Recommendations = append(analysis.Recommendations, "Restrict network access using private endpoints")
		score -= 20
	}
	if retentionDays < 30 {
		analysis.Issues = append(analysis.Issues, fmt.Sprintf("Short retention period: %d days", retentionDays))
		analysis.Recommendations = append(analysis.Recommendations, "Increase soft delete retention to at least 30 days")
		score -= 10
	}

	if score < 0 {
		score = 0
	}
	analysis.Score = score
	return analysis
}

// GetNetworkSecurityAnalysis implements Service
func (s *service) GetNetworkSecurityAnalysis(ctx context.Context) (*model.NetworkSecuritySummary, error) {
	nsgs := s.tolerantQuery(ctx, nsgRulesQuery, "network security groups")
	firewalls := s.tolerantQuery(ctx, firewallsQuery, "firewalls")
	publicIPs := s.tolerantQuery(ctx, publicIPsQuery, "public IPs")

	summary := &model.NetworkSecuritySummary{
		TotalNSGs:          len(nsgs),
		TotalFirewalls:     len(firewalls),
		TotalPublicIPs:     len(publicIPs),
		Risks:              []model.SecurityRisk{},
		NSGs:               []model.NSGAnalysis{},
		Firewalls:          []model.FirewallAnalysis{},
		TopRecommendations: []model.RecommendationCount{},
	}

	var allRecommendations []string

	for _, nsg := range nsgs {
		analysis := analyzeNSG(nsg)
		summary.NSGs = append(summary.NSGs, analysis)
		allRecommendations = append(allRecommendations, analysis.Recommendations...)

		if analysis.Score < 80 {
			summary.NSGsWithRisks++
		}
		if analysis.Score < 70 {
			summary.Risks = append(summary.Risks, model.SecurityRisk{
				ResourceType: "NSG",
				ResourceName: analysis.Name,
				Score:        analysis.Score,
				RiskCount:    len(analysis.RiskyRules),
			})
		}
	}

	for _, firewall := range firewalls {
		analysis := analyzeFirewall(firewall)
		summary.Firewalls = append(summary.Firewalls, analysis)
		allRecommendations = append(allRecommendations, analysis.Recommendations...)
	}

	summary.PublicIPs = model.PublicIPExposure{
		Total:           len(publicIPs),
		Recommendations: []string{},
	}
	for _, pip := range publicIPs {
		if stringField(pip, "associatedResource") != "" {
			summary.PublicIPs.Associated++
		} else {
			summary.PublicIPs.Unassociated++
		}
	}
	if summary.PublicIPs.Unassociated > 0 {
		summary.PublicIPs.Recommendations = append(summary.PublicIPs.Recommendations,
			fmt.Sprintf("Remove %d unused public IP addresses", summary.PublicIPs.Unassociated))
	}
	allRecommendations = append(allRecommendations, summary.PublicIPs.Recommendations...)

	counts := map[string]int{}
	for _, rec := range allRecommendations {
		counts[rec]++
	}
	for rec, count := range counts {
		summary.TopRecommendations = append(summary.TopRecommendations, model.RecommendationCount{
			Recommendation: rec,
			Count:          count,
		})
	}
	sort.SliceStable(summary.TopRecommendations, func(i, j int) bool {
		return summary.TopRecommendations[i].Count > summary.TopRecommendations[j].Count
	})
	if len(summary.TopRecommendations) > 5 {
		summary.TopRecommendations = summary.TopRecommendations[:5]
	}

	return summary, nil
}

func (s *service) tolerantQuery(ctx context.Context, query, what string) []map[string]any {
	rows, err := s.graph.QueryRows(ctx, query)
	if err != nil {
		s.logger.Warn("graph query failed", "what", what, "error", err)
		return nil
	}
	return rows
}

var sensitivePorts = []string{"22", "3389", "1433", "3306", "5432", "27017"}

func analyzeNSG(nsg map[string]any) model.NSGAnalysis {
	rules, _ := nsg["rules"].([]any)
	analysis := model.NSGAnalysis{
		Name:            stringField(nsg, "name"),
		ResourceGroup:   stringField(nsg, "resourceGroup"),
		SubscriptionID:  stringField(nsg, "subscriptionId"),
		TotalRules:      len(rules),
		RiskyRules:      []model.RiskyRule{},
		Score:           100,
		Recommendations: []string{},
	}

	for _, entry := range rules {
		rule, _ := entry.(map[string]any)
		if rule == nil {
			continue
		}
		props, _ := rule["properties"].(map[string]any)
		if props == nil {
			props = map[string]any{}
		}

		source := stringField(props, "sourceAddressPrefix")
		destPort := stringField(props, "destinationPortRange")
		protocol := stringField(props, "protocol")
		access := stringField(props, "access")
		direction := stringField(props, "direction")

		riskLevel := "Low"
		var reasons []string

		if source == "*" && strings.EqualFold(access, "allow") && strings.EqualFold(direction, "inbound") {
			riskLevel = "High"
			reasons = append(reasons, "Allows traffic from any source")
		}
		if destPort == "*" && strings.EqualFold(access, "allow") {
			if riskLevel == "Low" {
				riskLevel = "Medium"
			} else {
				riskLevel = "High"
			}
			reasons = append(reasons, "Allows traffic to any port")
		}
		if source == "*" && containsSensitivePort(destPort) {
			riskLevel = "High"
			reasons = append(reasons, fmt.Sprintf("Exposes sensitive port %s to internet", destPort))
		}

		if riskLevel == "Low" {
			continue
		}

		analysis.RiskyRules = append(analysis.RiskyRules, model.RiskyRule{
			RuleName:        stringField(rule, "name"),
			RiskLevel:       riskLevel,
			Reasons:         reasons,
			Source:          source,
			DestinationPort: destPort,
			Protocol:        protocol,
			Access:          access,
			Direction:       direction,
		})
		if riskLevel == "High" {
			analysis.Score -= 20
		} else {
			analysis.Score -= 10
		}
	}

	if analysis.Score < 0 {
		analysis.Score = 0
	}
	if len(analysis.RiskyRules) > 0 {
		analysis.Recommendations = append(analysis.Recommendations, "Review and restrict overly permissive rules")
		for _, rule := range analysis.RiskyRules {
			if rule.RiskLevel == "High" {
				analysis.Recommendations = append(analysis.Recommendations, "Immediately address high-risk rules exposing sensitive ports")
				break
			}
		}
	}

	return analysis
}

func containsSensitivePort(destPort string) bool {
	for _, port := range sensitivePorts {
		if strings.Contains(destPort, port) {
			return true
		}
	}
	return false
}

func analyzeFirewall(firewall map[string]any) model.FirewallAnalysis {
	sku, _ := firewall["sku"].(map[string]any)
	analysis := model.FirewallAnalysis{
		Name:            stringField(firewall, "name"),
		ResourceGroup:   stringField(firewall, "resourceGroup"),
		SubscriptionID:  stringField(firewall, "subscriptionId"),
		ThreatIntelMode: stringField(firewall, "threatIntelMode"),
		HasPolicy:       firewall["firewallPolicy"] != nil,
		SKU:             sku,
		Score:           80,
		Recommendations: []string{},
	}

	if !strings.EqualFold(analysis.ThreatIntelMode, "alert") {
		analysis.Recommendations = append(analysis.Recommendations, "Enable threat intelligence alerting")
		analysis.Score -= 10
	}
	if !analysis.HasPolicy {
		analysis.Recommendations = append(analysis.Recommendations, "Configure firewall policy for centralized management")
		analysis.Score -= 15
	}

	return analysis
}

// GetSecureScoreAndCompliance implements Service
func (s *service) GetSecureScoreAndCompliance(ctx context.Context) (*model.SecureScoreReport, error) {
	report := &model.SecureScoreReport{}

	scoreEndpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Security/secureScores", s.arm.SubscriptionID())
	if raw, err := s.arm.Do(ctx, "GET", scoreEndpoint,
		map[string]string{"api-version": secureScoreAPIVersion}, nil); err != nil {
		report.SecureScore = azurearm.ErrorJSON(err)
	} else {
		report.SecureScore = raw
	}

	complianceEndpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Security/regulatoryComplianceStandards", s.arm.SubscriptionID())
	if raw, err := s.arm.Do(ctx, "GET", complianceEndpoint,
		map[string]string{"api-version": complianceAPIVersion}, nil); err != nil {
		report.RegulatoryCompliance = azurearm.ErrorJSON(err)
	} else {
		report.RegulatoryCompliance = raw
	}

	return report, nil
}

// GetSecurityIncidents implements Service
func (s *service) GetSecurityIncidents(ctx context.Context) (*model.IncidentsSummary, error) {
	workspaces, err := s.graph.QueryRows(ctx, sentinelWorkspacesQuery)
	if err != nil {
		return nil, err
	}

	summary := &model.IncidentsSummary{
		Workspaces: []model.WorkspaceIncidents{},
		BySeverity: map[string]int{},
	}

	for _, workspace := range workspaces {
		workspaceID := stringField(workspace, "id")
		workspaceName := stringField(workspace, "name")
		if workspaceID == "" {
			continue
		}

		endpoint := fmt.Sprintf("%s/providers/Microsoft.SecurityInsights/incidents", workspaceID)
		raw, err := s.arm.Do(ctx, "GET", endpoint,
			map[string]string{"api-version": securityInsightsAPIVersion}, nil)
		if err != nil {
			s.logger.Warn("workspace incidents lookup failed", "workspace", workspaceID, "error", err)
			continue
		}

		var payload struct {
			Value []any `json:"value"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			continue
		}

		summary.Workspaces = append(summary.Workspaces, model.WorkspaceIncidents{
			WorkspaceName: workspaceName,
			WorkspaceID:   workspaceID,
			IncidentCount: len(payload.Value),
			Incidents:     payload.Value,
		})
		summary.TotalIncidents += len(payload.Value)

		for _, entry := range payload.Value {
			severity := "Unknown"
			if incident, ok := entry.(map[string]any); ok {
				if props, ok := incident["properties"].(map[string]any); ok {
					if v := stringField(props, "severity"); v != "" {
						severity = v
					}
				}
			}
			summary.BySeverity[severity]++
		}
	}

	return summary, nil
}

// GetThreatIntelligence implements Service
func (s *service) GetThreatIntelligence(ctx context.Context) (*model.ThreatIntelSummary, error) {
	workspaces, err := s.graph.QueryRows(ctx, workspacesQuery)
	if err != nil {
		return nil, err
	}

	summary := &model.ThreatIntelSummary{
		Workspaces: []model.WorkspaceIndicators{},
		ByType:     map[string]int{},
	}

	for _, workspace := range workspaces {
		workspaceID := stringField(workspace, "id")
		workspaceName := stringField(workspace, "name")
		if workspaceID == "" {
			continue
		}

		endpoint := fmt.Sprintf("%s/providers/Microsoft.SecurityInsights/threatIntelligence/main/indicators", workspaceID)
		raw, err := s.arm.Do(ctx, "GET", endpoint,
			map[string]string{"api-version": securityInsightsAPIVersion}, nil)
		if err != nil {
			s.logger.Warn("threat intelligence lookup failed", "workspace", workspaceID, "error", err)
			continue
		}

		var payload struct {
			Value []any `json:"value"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			continue
		}

		kept := payload.Value
		if len(kept) > 10 {
			kept = kept[:10]
		}
		summary.Workspaces = append(summary.Workspaces, model.WorkspaceIndicators{
			WorkspaceName: workspaceName,
			WorkspaceID:   workspaceID,
			Count:         len(payload.Value),
			Indicators:    kept,
		})
		summary.TotalIndicators += len(payload.Value)
	}

	return summary, nil
}

// GetSecurityRecommendationsDetailed implements Service
func (s *service) GetSecurityRecommendationsDetailed(ctx context.Context) (*model.RecommendationsSummary, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Security/assessments", s.arm.SubscriptionID())
	raw, err := s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": assessmentsAPIVersion,
		"$expand":     "links,metadata",
	}, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Value []struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			Properties struct {
				Status   map[string]any `json:"status"`
				Metadata struct {
					DisplayName            string `json:"displayName"`
					Description            string `json:"description"`
					Severity               string `json:"severity"`
					Categories             []any  `json:"categories"`
					RemediationDescription string `json:"remediationDescription"`
					ImplementationEffort   string `json:"implementationEffort"`
					UserImpact             string `json:"userImpact"`
					Threats                []any  `json:"threats"`
				} `json:"metadata"`
				ResourceDetails map[string]any `json:"resourceDetails"`
				AdditionalData  map[string]any `json:"additionalData"`
			} `json:"properties"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse security assessments: %w", err)
	}

	processed := make([]model.ProcessedRecommendation, 0, len(payload.Value))
	for _, rec := range payload.Value {
		processed = append(processed, model.ProcessedRecommendation{
			ID:                     rec.ID,
			Name:                   rec.Name,
			DisplayName:            rec.Properties.Metadata.DisplayName,
			Description:            rec.Properties.Metadata.Description,
			Severity:               rec.Properties.Metadata.Severity,
			Categories:             rec.Properties.Metadata.Categories,
			Status:                 rec.Properties.Status,
			RemediationDescription: rec.Properties.Metadata.RemediationDescription,
			ImplementationEffort:   rec.Properties.Metadata.ImplementationEffort,
			UserImpact:             rec.Properties.Metadata.UserImpact,
			Threats:                rec.Properties.Metadata.Threats,
			ResourceDetails:        rec.Properties.ResourceDetails,
			AdditionalData:         rec.Properties.AdditionalData,
		})
	}

	severityRank := map[string]int{"High": 3, "Medium": 2, "Low": 1}
	unhealthyRank := func(rec model.ProcessedRecommendation) int {
		if code, _ := rec.Status["code"].(string); code == "Unhealthy" {
			return 1
		}
		return 0
	}
	sort.SliceStable(processed, func(i, j int) bool {
		ri, rj := severityRank[processed[i].Severity], severityRank[processed[j].Severity]
		if ri != rj {
			return ri > rj
		}
		return unhealthyRank(processed[i]) > unhealthyRank(processed[j])
	})

	summary := &model.RecommendationsSummary{
		Total:    len(processed),
		Critical: []model.ProcessedRecommendation{},
		All:      processed,
	}
	for _, rec := range processed {
		if rec.Severity == "High" && unhealthyRank(rec) == 1 {
			summary.Critical = append(summary.Critical, rec)
		}
	}

	return summary, nil
}

func displayName(sub subscription) string {
	if sub.DisplayName == "" {
		return "Unknown"
	}
	return sub.DisplayName
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
