package azureresources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elC0mpa/azure-doctor/model"
	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
	azuregraph "github.com/elC0mpa/azure-doctor/service/azure/graph"
)

func NewService(arm azurearm.Service, graph azuregraph.Service, logger *slog.Logger) *service {
	return &service{arm: arm, graph: graph, logger: logger}
}

// GetAllResources implements Service
func (s *service) GetAllResources(ctx context.Context, query string) (json.RawMessage, error) {
	if query == "" {
		query = defaultResourcesQuery
	}
	return s.graph.Query(ctx, query)
}

// GetNetworkTopology implements Service
func (s *service) GetNetworkTopology(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, networkTopologyQuery)
}

// GetComputeResources implements Service
func (s *service) GetComputeResources(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, computeResourcesQuery)
}

// GetStorageResources implements Service
func (s *service) GetStorageResources(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, storageResourcesQuery)
}

// GetResourceDependencies implements Service
func (s *service) GetResourceDependencies(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, resourceDependenciesQuery)
}

// GetResourceHierarchy implements Service
func (s *service) GetResourceHierarchy(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, resourceHierarchyQuery)
}

// GetNetworkConnections implements Service
func (s *service) GetNetworkConnections(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, networkConnectionsQuery)
}

// GetUnusedResources implements Service
func (s *service) GetUnusedResources(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, unusedResourcesQuery)
}

// GetNetworkSecurityGroupsDetailed implements Service
func (s *service) GetNetworkSecurityGroupsDetailed(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, nsgDetailedQuery)
}

// GetLoadBalancersDetailed implements Service
func (s *service) GetLoadBalancersDetailed(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, loadBalancersDetailedQuery)
}

// GetVirtualMachinesDetailed implements Service
func (s *service) GetVirtualMachinesDetailed(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, virtualMachinesDetailedQuery)
}

// GetAppServicesDetailed implements Service
func (s *service) GetAppServicesDetailed(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, appServicesDetailedQuery)
}

// GetDatabasesDetailed implements Service
func (s *service) GetDatabasesDetailed(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, databasesDetailedQuery)
}

// GetStorageAccountsDetailed implements Service
func (s *service) GetStorageAccountsDetailed(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, storageAccountsDetailedQuery)
}

// GetKeyVaultsDetailed implements Service
func (s *service) GetKeyVaultsDetailed(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, keyVaultsDetailedQuery)
}

// GetMonitoringAndDiagnostics implements Service
func (s *service) GetMonitoringAndDiagnostics(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, monitoringDiagnosticsQuery)
}

// GetResourceDependenciesAdvanced implements Service
func (s *service) GetResourceDependenciesAdvanced(ctx context.Context) (json.RawMessage, error) {
	return s.graph.Query(ctx, dependenciesAdvancedQuery)
}

// GetResourceDetailedInfo implements Service
func (s *service) GetResourceDetailedInfo(ctx context.Context, resourceID string) (json.RawMessage, error) {
	if resourceID != "" {
		return s.arm.Do(ctx, "GET", resourceID,
			map[string]string{"api-version": resourcesAPIVersion}, nil)
	}
	endpoint := fmt.Sprintf("/subscriptions/%s/resources", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": resourcesAPIVersion,
		"$expand":     "createdTime,changedTime,provisioningState",
	}, nil)
}

// GetResourceGroupDetails implements Service
func (s *service) GetResourceGroupDetails(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/resourcegroups", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": resourcesAPIVersion,
		"$expand":     "tags",
	}, nil)
}

// GetResourceLocks implements Service
func (s *service) GetResourceLocks(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Authorization/locks", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint,
		map[string]string{"api-version": locksAPIVersion}, nil)
}

// GetRBACAssignments implements Service
func (s *service) GetRBACAssignments(ctx context.Context) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Authorization/roleAssignments", s.arm.SubscriptionID())
	return s.arm.Do(ctx, "GET", endpoint, map[string]string{
		"api-version": rbacAPIVersion,
		"$filter":     "atScope()",
	}, nil)
}

// GetNetworkWatcherTopology implements Service
func (s *service) GetNetworkWatcherTopology(ctx context.Context) (json.RawMessage, error) {
	watchers, err := s.graph.QueryRows(ctx, networkWatchersQuery)
	if err != nil {
		return nil, err
	}
	if len(watchers) == 0 {
		return nil, ErrNoNetworkWatchers
	}

	// The first watcher is as good as any; topology is scoped to its
	// resource group.
	name, _ := watchers[0]["name"].(string)
	resourceGroup, _ := watchers[0]["resourceGroup"].(string)
	if name == "" || resourceGroup == "" {
		return nil, ErrNoNetworkWatchers
	}

	endpoint := fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/Microsoft.Network/networkWatchers/%s/topology",
		s.arm.SubscriptionID(), resourceGroup, name)
	body := map[string]string{"targetResourceGroupName": resourceGroup}
	return s.arm.Do(ctx, "POST", endpoint,
		map[string]string{"api-version": watcherTopologyAPIVersion}, body)
}

// ExportResourcesGraphML implements Service
func (s *service) ExportResourcesGraphML(ctx context.Context, includeNetwork, includeDependencies bool) (*model.GraphExport, error) {
	rows, err := s.graph.QueryRows(ctx, defaultResourcesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to export resources: %w", err)
	}

	export := &model.GraphExport{
		SubscriptionID:      s.arm.SubscriptionID(),
		GeneratedAt:         time.Now(),
		IncludeNetwork:      includeNetwork,
		IncludeDependencies: includeDependencies,
		Nodes:               make([]model.GraphNode, 0, len(rows)),
		Edges:               []model.GraphEdge{},
	}

	for _, row := range rows {
		node := model.GraphNode{
			ID:             stringField(row, "id"),
			Name:           stringField(row, "name"),
			Type:           stringField(row, "type"),
			ResourceGroup:  stringField(row, "resourceGroup"),
			Location:       stringField(row, "location"),
			SubscriptionID: stringField(row, "subscriptionId"),
			Tags:           row["tags"],
			Properties:     row["properties"],
		}
		export.Nodes = append(export.Nodes, node)
	}

	// Network and dependency edges need the extra queries; their failure
	// must not sink the node export.
	if includeNetwork {
		if _, err := s.graph.Query(ctx, networkTopologyQuery); err != nil {
			s.logger.Warn("skipping network topology in export", "error", err)
			export.IncludeNetwork = false
		}
	}
	if includeDependencies {
		if _, err := s.graph.Query(ctx, resourceDependenciesQuery); err != nil {
			s.logger.Warn("skipping dependencies in export", "error", err)
			export.IncludeDependencies = false
		}
	}

	return export, nil
}

// GetComprehensiveArchitecture implements Service
func (s *service) GetComprehensiveArchitecture(ctx context.Context) (*model.ArchitectureData, error) {
	data := &model.ArchitectureData{
		SubscriptionID: s.arm.SubscriptionID(),
		GeneratedAt:    time.Now(),
		Errors:         []model.SectionError{},
	}

	collect := func(source string, fetch func(context.Context) (json.RawMessage, error)) json.RawMessage {
		raw, err := fetch(ctx)
		if err != nil {
			s.logger.Warn("architecture section failed", "source", source, "error", err)
			data.Errors = append(data.Errors, model.SectionError{
				Source:  source,
				Message: err.Error(),
			})
			return nil
		}
		return raw
	}

	data.ResourceGroups = collect("resource_groups", s.GetResourceGroupDetails)
	data.VirtualMachines = collect("virtual_machines", s.GetVirtualMachinesDetailed)
	data.AppServices = collect("app_services", s.GetAppServicesDetailed)
	data.NetworkTopology = collect("network_topology", s.GetNetworkTopology)
	data.SecurityGroups = collect("network_security_groups", s.GetNetworkSecurityGroupsDetailed)
	data.StorageAccounts = collect("storage_accounts", s.GetStorageAccountsDetailed)
	data.Databases = collect("databases", s.GetDatabasesDetailed)
	data.Dependencies = collect("dependencies", s.GetResourceDependenciesAdvanced)

	s.logger.Info("architecture data collection completed", "errors", len(data.Errors))
	return data, nil
}

func stringField(row map[string]any, key string) string {
	v, _ := row[key].(string)
	return v
}
