package response

import "encoding/json"

// Security Center alerts

// SecurityAlert is one flattened Security Center alert
type SecurityAlert struct {
	SubscriptionID     string         `json:"subscription_id"`
	SubscriptionName   string         `json:"subscription_name"`
	AlertID            string         `json:"alert_id"`
	AlertName          string         `json:"alert_name"`
	Severity           string         `json:"severity"`
	Status             string         `json:"status"`
	AlertType          string         `json:"alert_type"`
	Description        string         `json:"description"`
	StartTime          string         `json:"start_time"`
	EndTime            string         `json:"end_time"`
	CompromisedEntity  string         `json:"compromised_entity"`
	RemediationSteps   []any          `json:"remediation_steps"`
	ExtendedProperties map[string]any `json:"extended_properties"`
}

// AlertsSummary aggregates alerts across subscriptions
type AlertsSummary struct {
	TotalAlerts    int             `json:"total_alerts"`
	BySeverity     map[string]int  `json:"alerts_by_severity"`
	ByStatus       map[string]int  `json:"alerts_by_status"`
	RecentAlerts   []SecurityAlert `json:"recent_alerts"`
	CriticalAlerts []SecurityAlert `json:"critical_alerts"`
	AllAlerts      []SecurityAlert `json:"all_alerts"`
}

// Security assessments

// SecurityAssessment is one flattened Defender assessment
type SecurityAssessment struct {
	SubscriptionID    string         `json:"subscription_id"`
	SubscriptionName  string         `json:"subscription_name"`
	AssessmentID      string         `json:"assessment_id"`
	AssessmentName    string         `json:"assessment_name"`
	DisplayName       string         `json:"display_name"`
	Description       string         `json:"description"`
	Severity          string         `json:"severity"`
	Category          []any          `json:"category"`
	StatusCode        string         `json:"status_code"`
	StatusCause       string         `json:"status_cause"`
	StatusDescription string         `json:"status_description"`
	ResourceDetails   map[string]any `json:"resource_details"`
	AdditionalData    map[string]any `json:"additional_data"`
}

// AssessmentsSummary aggregates assessments across subscriptions
type AssessmentsSummary struct {
	TotalAssessments  int                  `json:"total_assessments"`
	BySeverity        map[string]int       `json:"assessments_by_severity"`
	ByStatus          map[string]int       `json:"assessments_by_status"`
	FailedAssessments []SecurityAssessment `json:"failed_assessments"`
	CriticalFindings  []SecurityAssessment `json:"critical_findings"`
	AllAssessments    []SecurityAssessment `json:"all_assessments"`
}

// Defender for Cloud coverage

// DefenderPricing is one Defender plan state
type DefenderPricing struct {
	SubscriptionID     string `json:"subscription_id"`
	SubscriptionName   string `json:"subscription_name"`
	ResourceType       string `json:"resource_type"`
	PricingTier        string `json:"pricing_tier"`
	Enabled            bool   `json:"enabled"`
	FreeTrialRemaining string `json:"free_trial_remaining_days"`
	SubPlan            string `json:"subplan"`
	Extensions         []any  `json:"extensions"`
}

// DefenderServiceState pairs a service with its enablement
type DefenderServiceState struct {
	Service string `json:"service"`
	Enabled bool   `json:"enabled"`
}

// DefenderSubscriptionCoverage groups plan states per subscription
type DefenderSubscriptionCoverage struct {
	SubscriptionName string                 `json:"subscription_name"`
	Enabled          int                    `json:"enabled"`
	Disabled         int                    `json:"disabled"`
	Services         []DefenderServiceState `json:"services"`
}

// DefenderServiceCount counts enablement of one service
type DefenderServiceCount struct {
	Enabled  int `json:"enabled"`
	Disabled int `json:"disabled"`
}

// DefenderCoverage aggregates Defender for Cloud enablement
type DefenderCoverage struct {
	TotalResourceTypes     int                                      `json:"total_resource_types"`
	EnabledServices        int                                      `json:"enabled_services"`
	DisabledServices       int                                      `json:"disabled_services"`
	CoverageBySubscription map[string]*DefenderSubscriptionCoverage `json:"coverage_by_subscription"`
	CoverageByService      map[string]*DefenderServiceCount         `json:"coverage_by_service"`
	Recommendations        []string                                 `json:"recommendations"`
	AllPricings            []DefenderPricing                        `json:"all_pricings"`
}

// Key Vault security

// VaultSecurityConfig is the scored subset of vault properties
type VaultSecurityConfig struct {
	SoftDeleteEnabled      bool   `json:"soft_delete_enabled"`
	PurgeProtectionEnabled bool   `json:"purge_protection_enabled"`
	PublicNetworkAccess    string `json:"public_network_access"`
	RetentionDays          int    `json:"soft_delete_retention_days"`
}

// VaultAnalysis is the scored posture of one vault
type VaultAnalysis struct {
	VaultName       string              `json:"vault_name"`
	ResourceGroup   string              `json:"resource_group"`
	SubscriptionID  string              `json:"subscription_id"`
	Location        string              `json:"location"`
	VaultURI        string              `json:"vault_uri"`
	SecurityConfig  VaultSecurityConfig `json:"security_config"`
	SecurityScore   int                 `json:"security_score"`
	SecurityIssues  []string            `json:"security_issues"`
	Recommendations []string            `json:"recommendations"`
}

// VaultRisk marks a vault below the critical threshold
type VaultRisk struct {
	VaultName      string   `json:"vault_name"`
	SecurityScore  int      `json:"security_score"`
	CriticalIssues []string `json:"critical_issues"`
}

// KeyVaultSummary aggregates vault scoring
type KeyVaultSummary struct {
	TotalKeyVaults          int             `json:"total_key_vaults"`
	AverageSecurityScore    float64         `json:"average_security_score"`
	VaultsWithIssues        int             `json:"vaults_with_issues"`
	CommonIssues            map[string]int  `json:"common_issues"`
	SecurityRecommendations []string        `json:"security_recommendations"`
	CriticalVaults          []VaultRisk     `json:"critical_vaults"`
	AllVaults               []VaultAnalysis `json:"all_vaults"`
}

// Network security analysis

// RiskyRule is one flagged NSG rule
type RiskyRule struct {
	RuleName        string   `json:"rule_name"`
	RiskLevel       string   `json:"risk_level"`
	RiskReasons     []string `json:"risk_reasons"`
	Source          string   `json:"source"`
	DestinationPort string   `json:"destination_port"`
	Protocol        string   `json:"protocol"`
	Access          string   `json:"access"`
	Direction       string   `json:"direction"`
}

// NSGAnalysis is the scored posture of one NSG
type NSGAnalysis struct {
	NSGName         string      `json:"nsg_name"`
	ResourceGroup   string      `json:"resource_group"`
	SubscriptionID  string      `json:"subscription_id"`
	TotalRules      int         `json:"total_rules"`
	RiskyRules      []RiskyRule `json:"risky_rules"`
	SecurityScore   int         `json:"security_score"`
	Recommendations []string    `json:"recommendations"`
}

// FirewallAnalysis is the scored posture of one firewall
type FirewallAnalysis struct {
	FirewallName    string         `json:"firewall_name"`
	ResourceGroup   string         `json:"resource_group"`
	SubscriptionID  string         `json:"subscription_id"`
	ThreatIntelMode string         `json:"threat_intel_mode"`
	HasPolicy       bool           `json:"has_policy"`
	SKU             map[string]any `json:"sku"`
	SecurityScore   int            `json:"security_score"`
	Recommendations []string       `json:"recommendations"`
}

// PublicIPAnalysis summarizes public IP association
type PublicIPAnalysis struct {
	TotalPublicIPs      int      `json:"total_public_ips"`
	AssociatedResources int      `json:"associated_resources"`
	UnassociatedIPs     int      `json:"unassociated_ips"`
	Recommendations     []string `json:"recommendations"`
}

// SecurityRisk marks a resource below the critical threshold
type SecurityRisk struct {
	ResourceType  string `json:"resource_type"`
	ResourceName  string `json:"resource_name"`
	SecurityScore int    `json:"security_score"`
	RiskCount     int    `json:"risk_count"`
}

// RecommendationCount pairs a recommendation with its frequency
type RecommendationCount struct {
	Recommendation string `json:"recommendation"`
	Count          int    `json:"count"`
}

// NetworkSecurityOverview holds the headline counters
type NetworkSecurityOverview struct {
	TotalNSGs      int `json:"total_nsgs"`
	NSGsWithRisks  int `json:"nsgs_with_risks"`
	TotalFirewalls int `json:"total_firewalls"`
	TotalPublicIPs int `json:"total_public_ips"`
}

// NetworkSecuritySummary aggregates NSG, firewall and public IP analysis
type NetworkSecuritySummary struct {
	Overview           NetworkSecurityOverview `json:"network_security_overview"`
	SecurityRisks      []SecurityRisk          `json:"security_risks"`
	NSGAnalysis        []NSGAnalysis           `json:"nsg_analysis"`
	FirewallAnalysis   []FirewallAnalysis      `json:"firewall_analysis"`
	PublicIPAnalysis   PublicIPAnalysis        `json:"public_ip_analysis"`
	TopRecommendations []RecommendationCount   `json:"top_recommendations"`
}

// SecureScoreReport carries secure score and compliance side by side
type SecureScoreReport struct {
	SecureScore          json.RawMessage `json:"secure_score"`
	RegulatoryCompliance json.RawMessage `json:"regulatory_compliance"`
}

// Sentinel

// WorkspaceIncidents groups incidents per workspace
type WorkspaceIncidents struct {
	WorkspaceName string `json:"workspace_name"`
	WorkspaceID   string `json:"workspace_id"`
	IncidentCount int    `json:"incident_count"`
	Incidents     []any  `json:"incidents"`
}

// IncidentsSummary aggregates Sentinel incidents
type IncidentsSummary struct {
	TotalIncidents      int                  `json:"total_incidents"`
	Workspaces          []WorkspaceIncidents `json:"workspaces"`
	IncidentsBySeverity map[string]int       `json:"incidents_by_severity"`
}

// WorkspaceIndicators groups threat intel indicators per workspace
type WorkspaceIndicators struct {
	WorkspaceName   string `json:"workspace_name"`
	WorkspaceID     string `json:"workspace_id"`
	IndicatorsCount int    `json:"indicators_count"`
	Indicators      []any  `json:"indicators"`
}

// ThreatIntelSummary aggregates threat intel indicators
type ThreatIntelSummary struct {
	TotalIndicators  int                   `json:"total_indicators"`
	Workspaces       []WorkspaceIndicators `json:"workspaces"`
	IndicatorsByType map[string]int        `json:"indicators_by_type"`
}

// Security recommendations

// ProcessedRecommendation is an assessment enriched with metadata
type ProcessedRecommendation struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	DisplayName            string         `json:"display_name"`
	Description            string         `json:"description"`
	Severity               string         `json:"severity"`
	Category               []any          `json:"category"`
	Status                 map[string]any `json:"status"`
	RemediationDescription string         `json:"remediation_description"`
	ImplementationEffort   string         `json:"implementation_effort"`
	UserImpact             string         `json:"user_impact"`
	Threats                []any          `json:"threats"`
	ResourceDetails        map[string]any `json:"resource_details"`
	AdditionalData         map[string]any `json:"additional_data"`
}

// RecommendationsSummary holds severity-sorted recommendations
type RecommendationsSummary struct {
	TotalRecommendations    int                       `json:"total_recommendations"`
	CriticalRecommendations []ProcessedRecommendation `json:"critical_recommendations"`
	AllRecommendations      []ProcessedRecommendation `json:"all_recommendations"`
}

// Monitoring

// VMMetricsItem pairs a VM with its metrics payload
type VMMetricsItem struct {
	VMID    string          `json:"vm_id"`
	VMName  string          `json:"vm_name"`
	Metrics json.RawMessage `json:"metrics"`
}

// VMMetricsSummaryCounts holds the VM overview counters
type VMMetricsSummaryCounts struct {
	TotalVMs          int `json:"total_vms"`
	HighCPUVMs        int `json:"high_cpu_vms"`
	LowUtilizationVMs int `json:"low_utilization_vms"`
}

// VMMetricsSummary is the multi-VM metrics overview
type VMMetricsSummary struct {
	Timespan  string                 `json:"timespan"`
	VMMetrics []VMMetricsItem        `json:"vm_metrics"`
	Summary   VMMetricsSummaryCounts `json:"summary"`
}

// StorageMetricsItem pairs a storage account with its metrics payload
type StorageMetricsItem struct {
	StorageID   string          `json:"storage_id"`
	StorageName string          `json:"storage_name"`
	Metrics     json.RawMessage `json:"metrics"`
}

// StorageMetricsSummaryCounts holds the storage overview counters
type StorageMetricsSummaryCounts struct {
	TotalAccounts    int `json:"total_accounts"`
	LowUsageAccounts int `json:"low_usage_accounts"`
}

// StorageMetricsSummary is the multi-account metrics overview
type StorageMetricsSummary struct {
	Timespan       string                      `json:"timespan"`
	StorageMetrics []StorageMetricsItem        `json:"storage_metrics"`
	Summary        StorageMetricsSummaryCounts `json:"summary"`
}

// DatabaseMetricsItem pairs a database with its metrics payload
type DatabaseMetricsItem struct {
	DatabaseID   string          `json:"database_id"`
	DatabaseName string          `json:"database_name"`
	DatabaseType string          `json:"database_type"`
	Metrics      json.RawMessage `json:"metrics"`
}

// DatabaseMetricsSummaryCounts holds the database overview counters
type DatabaseMetricsSummaryCounts struct {
	TotalDatabases     int `json:"total_databases"`
	HighUtilizationDBs int `json:"high_utilization_dbs"`
}

// DatabaseMetricsSummary is the multi-database metrics overview
type DatabaseMetricsSummary struct {
	Timespan        string                       `json:"timespan"`
	DatabaseMetrics []DatabaseMetricsItem        `json:"database_metrics"`
	Summary         DatabaseMetricsSummaryCounts `json:"summary"`
}

// Activity log analysis

// TimeRange bounds an activity analysis window
type TimeRange struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	HoursAnalyzed int    `json:"hours_analyzed"`
}

// ResourceActivity tracks events observed for one resource
type ResourceActivity struct {
	EventCount   int      `json:"event_count"`
	LastActivity string   `json:"last_activity"`
	Operations   []string `json:"operations"`
}

// InactiveResource marks a resource with very low traffic
type InactiveResource struct {
	ResourceID   string `json:"resource_id"`
	EventCount   int    `json:"event_count"`
	LastActivity string `json:"last_activity"`
}

// ActivitySummaryCounts holds the activity analysis counters
type ActivitySummaryCounts struct {
	TotalEvents       int                `json:"total_events"`
	UniqueResources   int                `json:"unique_resources"`
	InactiveResources []InactiveResource `json:"inactive_resources"`
}

// ActivityAnalysis summarizes the management activity log
type ActivityAnalysis struct {
	TimeRange        TimeRange                    `json:"time_range"`
	ResourceActivity map[string]*ResourceActivity `json:"resource_activity"`
	Summary          ActivitySummaryCounts        `json:"summary"`
}

// AlertDetails wraps one alert with its lookup path
type AlertDetails struct {
	Alert            json.RawMessage `json:"alert"`
	RemediationSteps []any           `json:"remediation_steps,omitempty"`
	AlertType        string          `json:"alert_type"`
}

// Utilization summary

// UtilizationMetadata identifies a utilization report
type UtilizationMetadata struct {
	SubscriptionID string `json:"subscription_id"`
	GeneratedAt    string `json:"generated_at"`
	AnalysisScope  string `json:"analysis_scope"`
}

// PerformanceIssues groups the metric sections of a utilization report
type PerformanceIssues struct {
	VMMetrics json.RawMessage `json:"vm_metrics"`
}

// UtilizationSummaryCounts holds the utilization counters
type UtilizationSummaryCounts struct {
	TotalPotentiallyUnused        int `json:"total_potentially_unused"`
	CostOptimizationOpportunities int `json:"cost_optimization_opportunities"`
	PerformanceAlerts             int `json:"performance_alerts"`
}

// UtilizationSummary is the subscription-wide utilization report
type UtilizationSummary struct {
	Metadata               UtilizationMetadata      `json:"metadata"`
	UnusedResources        json.RawMessage          `json:"unused_resources"`
	PerformanceIssues      PerformanceIssues        `json:"performance_issues"`
	AdvisorRecommendations json.RawMessage          `json:"advisor_recommendations"`
	ActivityPatterns       json.RawMessage          `json:"activity_patterns"`
	Summary                UtilizationSummaryCounts `json:"summary"`
}

// Architecture export

// GraphNode is one resource rendered as a diagram node
type GraphNode struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	ResourceGroup  string `json:"resourceGroup"`
	Location       string `json:"location"`
	SubscriptionID string `json:"subscriptionId"`
	Tags           any    `json:"tags"`
	Properties     any    `json:"properties"`
}

// GraphEdge is a relationship between two nodes
type GraphEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// GraphMetadata identifies a graph export
type GraphMetadata struct {
	SubscriptionID      string `json:"subscription_id"`
	GeneratedAt         string `json:"generated_at"`
	IncludeNetwork      bool   `json:"include_network"`
	IncludeDependencies bool   `json:"include_dependencies"`
}

// GraphExport is the GraphML-style envelope for diagram generation
type GraphExport struct {
	Format   string        `json:"format"`
	Nodes    []GraphNode   `json:"nodes"`
	Edges    []GraphEdge   `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}

// ArchitectureMetadata identifies an architecture report
type ArchitectureMetadata struct {
	SubscriptionID string `json:"subscription_id"`
	GeneratedAt    string `json:"generated_at"`
	DataScope      string `json:"data_scope"`
}

// ArchitectureCompute groups the compute sections
type ArchitectureCompute struct {
	VirtualMachines json.RawMessage `json:"virtual_machines"`
	AppServices     json.RawMessage `json:"app_services"`
}

// ArchitectureNetworking groups the networking sections
type ArchitectureNetworking struct {
	Topology       json.RawMessage `json:"topology"`
	SecurityGroups json.RawMessage `json:"security_groups"`
}

// ArchitectureStorage groups the storage sections
type ArchitectureStorage struct {
	StorageAccounts json.RawMessage `json:"storage_accounts"`
	Databases       json.RawMessage `json:"databases"`
}

// SectionError records one failed section of the aggregate
type SectionError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// ArchitectureData is the comprehensive architecture report
type ArchitectureData struct {
	Metadata       ArchitectureMetadata   `json:"metadata"`
	ResourceGroups json.RawMessage        `json:"resource_groups"`
	Compute        ArchitectureCompute    `json:"compute"`
	Networking     ArchitectureNetworking `json:"networking"`
	Storage        ArchitectureStorage    `json:"storage"`
	Dependencies   json.RawMessage        `json:"dependencies"`
	Errors         []SectionError         `json:"errors"`
}
