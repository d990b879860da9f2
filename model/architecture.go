package model

import (
	"encoding/json"
	"time"
)

// Architecture export models

// GraphNode is one resource rendered as a diagram node
type GraphNode struct {
	ID             string
	Name           string
	Type           string
	ResourceGroup  string
	Location       string
	SubscriptionID string
	Tags           any
	Properties     any
}

// GraphEdge is a relationship between two nodes
type GraphEdge struct {
	From     string
	To       string
	Relation string
}

// GraphExport is the GraphML-style structure handed to diagram generators
type GraphExport struct {
	SubscriptionID      string
	GeneratedAt         time.Time
	IncludeNetwork      bool
	IncludeDependencies bool
	Nodes               []GraphNode
	Edges               []GraphEdge
}

// SectionError records one failed section of a best-effort aggregate
type SectionError struct {
	Source  string
	Message string
}

// ArchitectureData is the comprehensive architecture aggregate. Each section
// holds the raw upstream payload, or nil when that section failed; failures
// are listed in Errors and never fail the aggregate itself.
type ArchitectureData struct {
	SubscriptionID  string
	GeneratedAt     time.Time
	ResourceGroups  json.RawMessage
	VirtualMachines json.RawMessage
	AppServices     json.RawMessage
	NetworkTopology json.RawMessage
	SecurityGroups  json.RawMessage
	StorageAccounts json.RawMessage
	Databases       json.RawMessage
	Dependencies    json.RawMessage
	Errors          []SectionError
}
