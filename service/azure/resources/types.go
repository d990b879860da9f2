package azureresources

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/elC0mpa/azure-doctor/model"
	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
)

const (
	resourcesAPIVersion       = "2022-09-01"
	locksAPIVersion           = "2020-05-01"
	rbacAPIVersion            = "2022-04-01"
	watcherTopologyAPIVersion = "2023-02-01"
)

// ErrNoNetworkWatchers reports a subscription with no Network Watcher to
// query topology from.
var ErrNoNetworkWatchers = errors.New("No Network Watchers found in subscription")

// Service provides resource inventory, topology and governance views for one
// subscription. Most operations are fixed Resource Graph queries; the rest go
// straight to the management API.
type Service interface {
	GetAllResources(ctx context.Context, query string) (json.RawMessage, error)
	GetNetworkTopology(ctx context.Context) (json.RawMessage, error)
	GetComputeResources(ctx context.Context) (json.RawMessage, error)
	GetStorageResources(ctx context.Context) (json.RawMessage, error)
	GetResourceDependencies(ctx context.Context) (json.RawMessage, error)
	GetResourceHierarchy(ctx context.Context) (json.RawMessage, error)
	GetNetworkConnections(ctx context.Context) (json.RawMessage, error)
	GetUnusedResources(ctx context.Context) (json.RawMessage, error)
	GetNetworkSecurityGroupsDetailed(ctx context.Context) (json.RawMessage, error)
	GetLoadBalancersDetailed(ctx context.Context) (json.RawMessage, error)
	GetVirtualMachinesDetailed(ctx context.Context) (json.RawMessage, error)
	GetAppServicesDetailed(ctx context.Context) (json.RawMessage, error)
	GetDatabasesDetailed(ctx context.Context) (json.RawMessage, error)
	GetStorageAccountsDetailed(ctx context.Context) (json.RawMessage, error)
	GetKeyVaultsDetailed(ctx context.Context) (json.RawMessage, error)
	GetMonitoringAndDiagnostics(ctx context.Context) (json.RawMessage, error)
	GetResourceDependenciesAdvanced(ctx context.Context) (json.RawMessage, error)
	// GetResourceDetailedInfo returns one resource by its full ARM id, or the
	// whole subscription inventory when resourceID is empty.
	GetResourceDetailedInfo(ctx context.Context, resourceID string) (json.RawMessage, error)
	GetResourceGroupDetails(ctx context.Context) (json.RawMessage, error)
	GetResourceLocks(ctx context.Context) (json.RawMessage, error)
	GetRBACAssignments(ctx context.Context) (json.RawMessage, error)
	// GetNetworkWatcherTopology queries topology through the first Network
	// Watcher in the subscription; ErrNoNetworkWatchers when there is none.
	GetNetworkWatcherTopology(ctx context.Context) (json.RawMessage, error)
	ExportResourcesGraphML(ctx context.Context, includeNetwork, includeDependencies bool) (*model.GraphExport, error)
	// GetComprehensiveArchitecture collects every architecture section
	// best-effort: failed sections land in Errors and the aggregate itself
	// never fails.
	GetComprehensiveArchitecture(ctx context.Context) (*model.ArchitectureData, error)
}

type service struct {
	arm    azurearm.Service
	graph  azuregraph.Service
	logger *slog.Logger
}
