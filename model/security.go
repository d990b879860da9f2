package model

import "encoding/json"

// Azure security posture models

// SecureScoreReport carries secure score and regulatory compliance side by
// side. Either half may be an error envelope; the other is still returned.
type SecureScoreReport struct {
	SecureScore          json.RawMessage
	RegulatoryCompliance json.RawMessage
}

// SecurityAlert is one Security Center alert flattened for reporting
type SecurityAlert struct {
	SubscriptionID     string
	SubscriptionName   string
	AlertID            string
	AlertName          string
	Severity           string
	Status             string
	AlertType          string
	Description        string
	StartTime          string
	EndTime            string
	CompromisedEntity  string
	RemediationSteps   []any
	ExtendedProperties map[string]any
}

// AlertsSummary aggregates Security Center alerts across subscriptions
type AlertsSummary struct {
	TotalAlerts int
	BySeverity  map[string]int
	ByStatus    map[string]int
	Recent      []SecurityAlert // started within the last 7 days
	Critical    []SecurityAlert // severity exactly "High" or "Critical"
	All         []SecurityAlert
}

// SecurityAssessment is one Defender assessment flattened for reporting
type SecurityAssessment struct {
	SubscriptionID    string
	SubscriptionName  string
	AssessmentID      string
	AssessmentName    string
	DisplayName       string
	Description       string
	Severity          string
	Categories        []any
	StatusCode        string
	StatusCause       string
	StatusDescription string
	ResourceDetails   map[string]any
	AdditionalData    map[string]any
}

// AssessmentsSummary aggregates assessments across subscriptions
type AssessmentsSummary struct {
	Total            int
	BySeverity       map[string]int
	ByStatus         map[string]int
	Failed           []SecurityAssessment // status Unhealthy or Failed
	CriticalFindings []SecurityAssessment // High/Critical severity and failed
	All              []SecurityAssessment
}

// DefenderPricing is one Defender for Cloud plan state
type DefenderPricing struct {
	SubscriptionID     string
	SubscriptionName   string
	ResourceType       string
	PricingTier        string
	Enabled            bool // tier == "Standard"
	FreeTrialRemaining string
	SubPlan            string
	Extensions         []any
}

// DefenderServiceState pairs a protected service with its enablement
type DefenderServiceState struct {
	Service string
	Enabled bool
}

// DefenderSubscriptionCoverage groups plan states per subscription
type DefenderSubscriptionCoverage struct {
	SubscriptionName string
	Enabled          int
	Disabled         int
	Services         []DefenderServiceState
}

// DefenderServiceCount counts enablement of one service across subscriptions
type DefenderServiceCount struct {
	Enabled  int
	Disabled int
}

// DefenderCoverage aggregates Defender for Cloud enablement
type DefenderCoverage struct {
	TotalResourceTypes int
	EnabledServices    int
	DisabledServices   int
	BySubscription     map[string]*DefenderSubscriptionCoverage
	ByService          map[string]*DefenderServiceCount
	Recommendations    []string
	Pricings           []DefenderPricing
}

// VaultSecurityConfig is the subset of vault properties that is scored
type VaultSecurityConfig struct {
	SoftDeleteEnabled      bool
	PurgeProtectionEnabled bool
	PublicNetworkAccess    string
	RetentionDays          int
}

// VaultAnalysis is the scored security posture of one Key Vault
type VaultAnalysis struct {
	VaultName       string
	ResourceGroup   string
	SubscriptionID  string
	Location        string
	VaultURI        string
	Config          VaultSecurityConfig
	Score           int
	Issues          []string // insertion order preserved
	Recommendations []string
}

// VaultRisk marks a vault whose score dropped below the critical threshold
type VaultRisk struct {
	VaultName string
	Score     int
	Issues    []string
}

// KeyVaultSummary aggregates vault scoring across the subscription
type KeyVaultSummary struct {
	TotalVaults      int
	AverageScore     float64
	VaultsWithIssues int
	CommonIssues     map[string]int
	Recommendations  []string
	CriticalVaults   []VaultRisk
	Vaults           []VaultAnalysis
}

// RiskyRule is one NSG security rule flagged by the risk classifier
type RiskyRule struct {
	RuleName        string
	RiskLevel       string // "Medium" or "High"
	Reasons         []string
	Source          string
	DestinationPort string
	Protocol        string
	Access          string
	Direction       string
}

// NSGAnalysis is the scored posture of one network security group
type NSGAnalysis struct {
	Name            string
	ResourceGroup   string
	SubscriptionID  string
	TotalRules      int
	RiskyRules      []RiskyRule
	Score           int
	Recommendations []string
}

// FirewallAnalysis is the scored posture of one Azure Firewall
type FirewallAnalysis struct {
	Name            string
	ResourceGroup   string
	SubscriptionID  string
	ThreatIntelMode string
	HasPolicy       bool
	SKU             map[string]any
	Score           int
	Recommendations []string
}

// PublicIPExposure summarizes public IP association state
type PublicIPExposure struct {
	Total           int
	Associated      int
	Unassociated    int
	Recommendations []string
}

// SecurityRisk marks a resource whose score fell below the critical threshold
type SecurityRisk struct {
	ResourceType string
	ResourceName string
	Score        int
	RiskCount    int
}

// RecommendationCount pairs a recommendation with how often it applies
type RecommendationCount struct {
	Recommendation string
	Count          int
}

// NetworkSecuritySummary aggregates NSG, firewall, and public IP analysis
type NetworkSecuritySummary struct {
	TotalNSGs          int
	NSGsWithRisks      int
	TotalFirewalls     int
	TotalPublicIPs     int
	Risks              []SecurityRisk
	NSGs               []NSGAnalysis
	Firewalls          []FirewallAnalysis
	PublicIPs          PublicIPExposure
	TopRecommendations []RecommendationCount
}

// WorkspaceIncidents groups Sentinel incidents per workspace
type WorkspaceIncidents struct {
	WorkspaceName string
	WorkspaceID   string
	IncidentCount int
	Incidents     []any
}

// IncidentsSummary aggregates Sentinel incidents across workspaces
type IncidentsSummary struct {
	TotalIncidents int
	Workspaces     []WorkspaceIncidents
	BySeverity     map[string]int
}

// WorkspaceIndicators groups threat intelligence indicators per workspace
type WorkspaceIndicators struct {
	WorkspaceName string
	WorkspaceID   string
	Count         int
	Indicators    []any // capped at the first 10
}

// ThreatIntelSummary aggregates threat intelligence across workspaces
type ThreatIntelSummary struct {
	TotalIndicators int
	Workspaces      []WorkspaceIndicators
	ByType          map[string]int
}

// ProcessedRecommendation is a security assessment enriched with metadata
type ProcessedRecommendation struct {
	ID                     string
	Name                   string
	DisplayName            string
	Description            string
	Severity               string
	Categories             []any
	Status                 map[string]any
	RemediationDescription string
	ImplementationEffort   string
	UserImpact             string
	Threats                []any
	ResourceDetails        map[string]any
	AdditionalData         map[string]any
}

// RecommendationsSummary holds recommendations sorted by severity then status
type RecommendationsSummary struct {
	Total    int
	Critical []ProcessedRecommendation // High severity and Unhealthy
	All      []ProcessedRecommendation
}
