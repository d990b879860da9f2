package azuresecurity

import (
	"context"
	"log/slog"

	"github.com/elC0mpa/azure-doctor/model"
	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
)

const (
	subscriptionsAPIVersion    = "2020-01-01"
	alertsAPIVersion           = "2022-01-01"
	assessmentsAPIVersion      = "2020-01-01"
	pricingsAPIVersion         = "2022-03-01"
	secureScoreAPIVersion      = "2020-01-01"
	complianceAPIVersion       = "2019-01-01-preview"
	securityInsightsAPIVersion = "2021-10-01"
)

// Services whose Defender plans matter most when disabled.
var criticalDefenderServices = []string{
	"VirtualMachines",
	"SqlServers",
	"StorageAccounts",
	"KubernetesService",
	"ContainerRegistry",
}

// Service provides tenant-wide security posture analysis. Alert, assessment
// and Defender lookups fan out over every visible subscription; a
// subscription that refuses the call is skipped, never fatal.
type Service interface {
	GetSecurityCenterAlerts(ctx context.Context) (*model.AlertsSummary, error)
	GetSecurityAssessments(ctx context.Context) (*model.AssessmentsSummary, error)
	GetDefenderStatus(ctx context.Context) (*model.DefenderCoverage, error)
	GetKeyVaultSecurity(ctx context.Context) (*model.KeyVaultSummary, error)
	GetNetworkSecurityAnalysis(ctx context.Context) (*model.NetworkSecuritySummary, error)
	GetSecureScoreAndCompliance(ctx context.Context) (*model.SecureScoreReport, error)
	GetSecurityIncidents(ctx context.Context) (*model.IncidentsSummary, error)
	GetThreatIntelligence(ctx context.Context) (*model.ThreatIntelSummary, error)
	GetSecurityRecommendationsDetailed(ctx context.Context) (*model.RecommendationsSummary, error)
}

type service struct {
	arm    azurearm.Service
	graph  azuregraph.Service
	logger *slog.Logger
}
