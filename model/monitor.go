package model

import (
	"encoding/json"
	"time"
)

// Monitoring and performance models

// ResourceMetrics pairs one resource with its raw metrics payload
type ResourceMetrics struct {
	ID      string
	Name    string
	Type    string
	Metrics json.RawMessage
}

// MetricsSummary is the result of a per-resource metrics fan-out. Items only
// contains resources whose metrics call succeeded; Succeeded counts them.
// Sub-call failures never fail the aggregate.
type MetricsSummary struct {
	Timespan  string
	Items     []ResourceMetrics
	Succeeded int
}

// ResourceActivity tracks activity-log events observed for one resource
type ResourceActivity struct {
	EventCount   int
	LastActivity string
	Operations   []string
}

// InactiveResource marks a resource with very low activity-log traffic
type InactiveResource struct {
	ResourceID   string
	EventCount   int
	LastActivity string
}

// ActivityAnalysis summarizes the management activity log over a window
type ActivityAnalysis struct {
	Start            time.Time
	End              time.Time
	HoursAnalyzed    int
	ResourceActivity map[string]*ResourceActivity
	TotalEvents      int
	UniqueResources  int
	Inactive         []InactiveResource
}

// AlertDetails wraps one alert with the lookup path that resolved it
type AlertDetails struct {
	Alert            json.RawMessage
	RemediationSteps []any
	AlertType        string // "security" or "metric"
}

// UtilizationSummary is a best-effort aggregate of utilization signals.
// Failed sections carry an error envelope instead of data.
type UtilizationSummary struct {
	SubscriptionID                string
	GeneratedAt                   time.Time
	UnusedResources               json.RawMessage
	AdvisorRecommendations        json.RawMessage
	ActivityPatterns              json.RawMessage
	VMMetrics                     json.RawMessage
	TotalPotentiallyUnused        int
	CostOptimizationOpportunities int
	PerformanceAlerts             int
}
