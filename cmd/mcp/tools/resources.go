package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elC0mpa/azure-doctor/cmd/mcp/response"
	azureresources "github.com/elC0mpa/azure-doctor/service/azure/resources"
)

// RegisterResourceTools registers resource inventory and architecture tools
// with the MCP server
func RegisterResourceTools(s *server.MCPServer, resources azureresources.Service) {
	s.AddTool(
		mcp.NewTool("get_all_resources",
			mcp.WithDescription("Get all Azure resources using Resource Graph API"),
			mcp.WithString("query", mcp.Description("Optional KQL query to filter resources")),
		),
		makeAllResourcesHandler(resources),
	)

	s.AddTool(
		mcp.NewTool("get_network_topology",
			mcp.WithDescription("Get network topology including VNets, subnets, peerings, and network security groups"),
		),
		makeRawHandler("network topology", resources.GetNetworkTopology),
	)

	s.AddTool(
		mcp.NewTool("get_compute_resources",
			mcp.WithDescription("Get all compute resources including VMs, App Services, Functions, etc."),
		),
		makeRawHandler("compute resources", resources.GetComputeResources),
	)

	s.AddTool(
		mcp.NewTool("get_storage_resources",
			mcp.WithDescription("Get all storage and database resources"),
		),
		makeRawHandler("storage resources", resources.GetStorageResources),
	)

	s.AddTool(
		mcp.NewTool("get_resource_dependencies",
			mcp.WithDescription("Get resource dependencies and relationships"),
		),
		makeRawHandler("resource dependencies", resources.GetResourceDependencies),
	)

	s.AddTool(
		mcp.NewTool("get_resource_hierarchy",
			mcp.WithDescription("Get resource hierarchy organized by resource groups and management structure"),
		),
		makeRawHandler("resource hierarchy", resources.GetResourceHierarchy),
	)

	s.AddTool(
		mcp.NewTool("get_network_connections",
			mcp.WithDescription("Get detailed network connections including VM network interfaces, subnet associations, and peerings"),
		),
		makeRawHandler("network connections", resources.GetNetworkConnections),
	)

	s.AddTool(
		mcp.NewTool("get_unused_resources",
			mcp.WithDescription("Identify potentially unused or under-utilized resources using Resource Graph queries"),
		),
		makeRawHandler("unused resources", resources.GetUnusedResources),
	)

	s.AddTool(
		mcp.NewTool("export_resources_graphml",
			mcp.WithDescription("Export resources in GraphML format for diagram generation"),
			mcp.WithBoolean("include_network", mcp.Description("Include network topology relationships")),
			mcp.WithBoolean("include_dependencies", mcp.Description("Include resource dependency relationships")),
		),
		makeGraphMLExportHandler(resources),
	)

	s.AddTool(
		mcp.NewTool("get_resource_detailed_info",
			mcp.WithDescription("Get detailed information about a specific resource or all resources with their detailed configurations"),
			mcp.WithString("resource_id", mcp.Description("Full ARM resource ID, omit for all resources")),
		),
		makeResourceDetailedInfoHandler(resources),
	)

	s.AddTool(
		mcp.NewTool("get_network_security_groups_detailed",
			mcp.WithDescription("Get detailed Network Security Groups with rules and associations"),
		),
		makeRawHandler("network security groups", resources.GetNetworkSecurityGroupsDetailed),
	)

	s.AddTool(
		mcp.NewTool("get_load_balancers_detailed",
			mcp.WithDescription("Get detailed Load Balancers with backend pools, probes, and rules"),
		),
		makeRawHandler("load balancers", resources.GetLoadBalancersDetailed),
	)

	s.AddTool(
		mcp.NewTool("get_virtual_machines_detailed",
			mcp.WithDescription("Get detailed Virtual Machine information including network interfaces, disks, and extensions"),
		),
		makeRawHandler("virtual machines", resources.GetVirtualMachinesDetailed),
	)

	s.AddTool(
		mcp.NewTool("get_app_services_detailed",
			mcp.WithDescription("Get detailed App Service information including configuration, slots, and dependencies"),
		),
		makeRawHandler("app services", resources.GetAppServicesDetailed),
	)

	s.AddTool(
		mcp.NewTool("get_databases_detailed",
			mcp.WithDescription("Get detailed database information including SQL databases, Cosmos DB, and other data services"),
		),
		makeRawHandler("databases", resources.GetDatabasesDetailed),
	)

	s.AddTool(
		mcp.NewTool("get_storage_accounts_detailed",
			mcp.WithDescription("Get detailed storage account information including access tiers, replication, and services"),
		),
		makeRawHandler("storage accounts", resources.GetStorageAccountsDetailed),
	)

	s.AddTool(
		mcp.NewTool("get_key_vaults_detailed",
			mcp.WithDescription("Get detailed Key Vault information including access policies and network access"),
		),
		makeRawHandler("key vaults", resources.GetKeyVaultsDetailed),
	)

	s.AddTool(
		mcp.NewTool("get_resource_group_details",
			mcp.WithDescription("Get detailed information about all resource groups including tags and policies"),
		),
		makeRawHandler("resource groups", resources.GetResourceGroupDetails),
	)

	s.AddTool(
		mcp.NewTool("get_network_watchers_topology",
			mcp.WithDescription("Get actual network topology from Network Watcher (if available)"),
		),
		makeNetworkWatcherTopologyHandler(resources),
	)

	s.AddTool(
		mcp.NewTool("get_monitoring_and_diagnostics",
			mcp.WithDescription("Get monitoring and diagnostic settings for resources"),
		),
		makeRawHandler("monitoring settings", resources.GetMonitoringAndDiagnostics),
	)

	s.AddTool(
		mcp.NewTool("get_resource_locks",
			mcp.WithDescription("Get resource locks to understand governance and protection policies"),
		),
		makeRawHandler("resource locks", resources.GetResourceLocks),
	)

	s.AddTool(
		mcp.NewTool("get_rbac_assignments",
			mcp.WithDescription("Get RBAC role assignments to understand access patterns and security relationships"),
		),
		makeRawHandler("RBAC assignments", resources.GetRBACAssignments),
	)

	s.AddTool(
		mcp.NewTool("get_resource_dependencies_advanced",
			mcp.WithDescription("Get advanced resource dependencies including cross-resource group relationships"),
		),
		makeRawHandler("advanced dependencies", resources.GetResourceDependenciesAdvanced),
	)

	s.AddTool(
		mcp.NewTool("get_comprehensive_architecture_data",
			mcp.WithDescription("Get comprehensive architecture data combining multiple resource types and their relationships"),
		),
		makeArchitectureDataHandler(resources),
	)
}

func makeAllResourcesHandler(resources azureresources.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := request.GetString("query", "")

		data, err := resources.GetAllResources(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get resources: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeGraphMLExportHandler(resources azureresources.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		includeNetwork := request.GetBool("include_network", true)
		includeDependencies := request.GetBool("include_dependencies", true)

		export, err := resources.ExportResourcesGraphML(ctx, includeNetwork, includeDependencies)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to export resources: %v", err)), nil
		}

		return toolResultJSON(response.ConvertGraphExport(export)), nil
	}
}

func makeResourceDetailedInfoHandler(resources azureresources.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resourceID := request.GetString("resource_id", "")

		data, err := resources.GetResourceDetailedInfo(ctx, resourceID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get resource details: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeNetworkWatcherTopologyHandler(resources azureresources.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := resources.GetNetworkWatcherTopology(ctx)
		if errors.Is(err, azureresources.ErrNoNetworkWatchers) {
			return mcp.NewToolResultText(err.Error()), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get network topology: %v", err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func makeArchitectureDataHandler(resources azureresources.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := resources.GetComprehensiveArchitecture(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get architecture data: %v", err)), nil
		}

		return toolResultJSON(response.ConvertArchitectureData(data)), nil
	}
}
